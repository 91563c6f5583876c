package models

// Category est la catégorie d'un article de la boutique
type Category string

const (
	CategoryHauts       Category = "Hauts"
	CategoryRobes       Category = "Robes"
	CategoryAccessoires Category = "Accessoires"
	CategoryEnsembles   Category = "Ensembles"

	// CategoryAll n'est pas une vraie catégorie : le filtre "Tous" de la vitrine
	CategoryAll Category = "Tous"
)

// Categories liste les catégories dans l'ordre d'affichage
var Categories = []Category{CategoryHauts, CategoryRobes, CategoryAccessoires, CategoryEnsembles}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"` // FCFA, unités entières
	Image       string   `json:"image"`
	Category    Category `json:"category"`
}

// ProductInput est le contenu du formulaire d'édition produit
type ProductInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        int64    `json:"price"`
	ImageURL     string   `json:"image"`         // URL saisie à la main
	ImagePreview string   `json:"image_preview"` // résultat d'un upload ou data URL
	Category     Category `json:"category"`
}
