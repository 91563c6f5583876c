package models

// ValidationError bloque une écriture avant tout appel au backend
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// OperationError est l'échec d'une écriture, avec le message à afficher
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string { return e.Message }

func (e *OperationError) Unwrap() error { return e.Err }
