package storefront

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"crochet_storefront/internal/admin"
	"crochet_storefront/internal/cache"
	"crochet_storefront/internal/cart"
	"crochet_storefront/internal/checkout"
	"crochet_storefront/internal/images"
	"crochet_storefront/internal/models"
	"crochet_storefront/internal/reviews"
)

// FieldImagePreview est le champ caché des formulaires produit et avis
const FieldImagePreview = "image_preview"

const MsgUnexpected = "Erreur inattendue lors de l'enregistrement du produit."

var (
	ErrForbidden      = errors.New("action réservée à l'administrateur")
	ErrBusy           = errors.New("enregistrement déjà en cours")
	ErrEditorClosed   = errors.New("aucun formulaire produit ouvert")
	ErrFormClosed     = errors.New("aucun formulaire d'avis ouvert")
	ErrUnknownProduct = errors.New("produit introuvable")
	ErrUnknownField   = errors.New("champ de formulaire inconnu")
)

// Session est l'état d'un visiteur : panier, porte admin, fenêtres ouvertes,
// champs de formulaire et alerte en attente.
type Session struct {
	shop    *Shop
	visitor string

	mu       sync.Mutex
	lastSeen time.Time
	cart     *cart.Cart
	gate     *admin.Gate
	cartOpen bool

	editorOpen bool
	editing    *models.Product
	saving     bool

	reviewFormOpen bool
	submitting     bool

	fields   map[string]string
	category models.Category
	alert    string
}

func newSession(shop *Shop, visitor string) *Session {
	return &Session{
		shop:     shop,
		visitor:  visitor,
		lastSeen: time.Now(),
		cart:     cart.New(),
		gate:     newGate(shop),
		fields:   make(map[string]string),
		category: models.CategoryAll,
	}
}

func newGate(shop *Shop) *admin.Gate {
	if shop.Settings.AdminPasswordHash != "" {
		return admin.NewHashedGate(shop.Settings.AdminPasswordHash)
	}
	return admin.NewGate(shop.Settings.AdminPassword)
}

func (s *Session) Visitor() string { return s.visitor }

// =============================================
// PANIER
// =============================================

// AddToCart ajoute un produit du catalogue et ouvre le panier
func (s *Session) AddToCart(productID string) error {
	p, ok := s.shop.Catalog.Get(productID)
	if !ok {
		return ErrUnknownProduct
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(p)
	s.cartOpen = true
	return nil
}

func (s *Session) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(productID)
}

func (s *Session) UpdateQuantity(productID string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetQuantityDelta(productID, delta)
}

func (s *Session) OpenCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartOpen = true
}

func (s *Session) CloseCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartOpen = false
}

func (s *Session) Cart() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

func (s *Session) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// Checkout confie le message de commande à opener et renvoie le lien
func (s *Session) Checkout(ctx context.Context, opener checkout.Opener) (string, error) {
	s.mu.Lock()
	items, total := s.cart.Items(), s.cart.Total()
	s.mu.Unlock()
	return s.shop.Composer.Checkout(ctx, items, total, opener)
}

// CheckoutMessage renvoie le message et le lien sans effectuer le hand-off
func (s *Session) CheckoutMessage() (string, string, error) {
	s.mu.Lock()
	items, total := s.cart.Items(), s.cart.Total()
	s.mu.Unlock()
	if len(items) == 0 {
		return "", "", checkout.ErrEmptyCart
	}
	msg := s.shop.Composer.ComposeMessage(items, total)
	return msg, s.shop.Composer.HandoffURL(msg), nil
}

// =============================================
// ADMIN
// =============================================

func (s *Session) ToggleAdmin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasAdmin := s.gate.IsAdmin()
	s.gate.Toggle()
	if wasAdmin {
		s.closeEditor()
	}
}

func (s *Session) SubmitAdminPassword(password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.gate.Submit(password)
	if ok {
		log.Printf("🔓 Mode admin activé (visiteur %s)", s.visitor)
	}
	return ok
}

func (s *Session) CloseAdminPrompt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.ClosePrompt()
}

func (s *Session) LogoutAdmin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.Logout()
	s.closeEditor()
}

func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.IsAdmin()
}

// =============================================
// PRODUITS
// =============================================

// OpenProductEditor ouvre le formulaire : productID vide pour un nouveau
// produit, sinon pré-rempli avec le produit existant
func (s *Session) OpenProductEditor(productID string) error {
	var editing *models.Product
	if productID != "" {
		p, ok := s.shop.Catalog.Get(productID)
		if !ok {
			return ErrUnknownProduct
		}
		editing = &p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gate.IsAdmin() {
		return ErrForbidden
	}
	s.editorOpen = true
	s.editing = editing
	s.fields = make(map[string]string)
	if editing != nil {
		// l'image actuelle reste en place tant qu'aucune autre n'est choisie
		s.fields[FieldImagePreview] = editing.Image
	}
	return nil
}

// EditorTarget indique si le formulaire produit est ouvert et sur quel
// produit ("" pour une création)
func (s *Session) EditorTarget() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return "", s.editorOpen
	}
	return s.editing.ID, s.editorOpen
}

func (s *Session) CloseProductEditor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeEditor()
}

// closeEditor : s.mu doit être tenu
func (s *Session) closeEditor() {
	if !s.editorOpen {
		return
	}
	s.editorOpen = false
	s.editing = nil
	s.fields = make(map[string]string)
}

// SaveProduct enregistre le formulaire ouvert. Une seconde soumission pendant
// l'enregistrement est refusée (ErrBusy). Le formulaire reste ouvert sur
// échec et se ferme sur succès.
func (s *Session) SaveProduct(ctx context.Context, in models.ProductInput) error {
	s.mu.Lock()
	switch {
	case !s.gate.IsAdmin():
		s.mu.Unlock()
		return ErrForbidden
	case !s.editorOpen:
		s.mu.Unlock()
		return ErrEditorClosed
	case s.saving:
		s.mu.Unlock()
		return ErrBusy
	}
	s.saving = true
	editing := s.editing
	if in.ImagePreview == "" {
		in.ImagePreview = s.fields[FieldImagePreview]
	}
	s.mu.Unlock()

	err := s.shop.Catalog.Save(ctx, in, editing)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.alert = alertFor(err, MsgUnexpected)
		return err
	}
	s.closeEditor()
	return nil
}

// DeleteProduct supprime après confirmation ; un refus ne fait rien
func (s *Session) DeleteProduct(ctx context.Context, productID string, confirm func(prompt string) bool) error {
	if !s.IsAdmin() {
		return ErrForbidden
	}
	err := s.shop.Catalog.Delete(ctx, productID, confirm)
	var opErr *models.OperationError
	if errors.As(err, &opErr) {
		s.setAlert(opErr.Message)
	}
	return err
}

// =============================================
// AVIS
// =============================================

func (s *Session) OpenReviewForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewFormOpen = true
	s.fields = make(map[string]string)
}

func (s *Session) CloseReviewForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewFormOpen = false
	s.fields = make(map[string]string)
}

// SubmitReview publie l'avis ; le formulaire se ferme sur succès
func (s *Session) SubmitReview(ctx context.Context, in models.ReviewInput) error {
	s.mu.Lock()
	switch {
	case !s.reviewFormOpen:
		s.mu.Unlock()
		return ErrFormClosed
	case s.submitting:
		s.mu.Unlock()
		return ErrBusy
	}
	s.submitting = true
	if in.ImagePreview == "" {
		in.ImagePreview = s.fields[FieldImagePreview]
	}
	s.mu.Unlock()

	err := s.shop.Reviews.Add(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.alert = alertFor(err, reviews.MsgAddFailed)
		return err
	}
	s.reviewFormOpen = false
	s.fields = make(map[string]string)
	return nil
}

// =============================================
// IMAGES
// =============================================

// AcquireImage place l'image choisie dans field (URL publique ou data URL)
func (s *Session) AcquireImage(ctx context.Context, f images.File, field string) (string, error) {
	if field != FieldImagePreview {
		return "", ErrUnknownField
	}
	return s.shop.Images.Acquire(ctx, f, field, s)
}

// SetField implémente images.FieldWriter
func (s *Session) SetField(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[field] = value
}

func (s *Session) Field(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields[field]
}

// =============================================
// VITRINE
// =============================================

// SetCategory : "Tous" ou une des catégories connues
func (s *Session) SetCategory(c models.Category) error {
	if c != models.CategoryAll && !c.Valid() {
		return &models.ValidationError{Message: "Catégorie inconnue."}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = c
	return nil
}

func (s *Session) Category() models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

func (s *Session) VisibleProducts() []models.Product {
	s.mu.Lock()
	c := s.category
	s.mu.Unlock()
	return s.shop.Products(c)
}

func (s *Session) Theme(ctx context.Context) cache.Theme {
	t, err := s.shop.Themes.Theme(ctx, s.visitor)
	if err != nil {
		return cache.Light
	}
	return t
}

func (s *Session) ToggleTheme(ctx context.Context) (cache.Theme, error) {
	next := s.Theme(ctx).Toggled()
	if err := s.shop.Themes.SetTheme(ctx, s.visitor, next); err != nil {
		log.Printf("⚠️ Thème non enregistré pour %s: %v", s.visitor, err)
		return next, err
	}
	return next, nil
}

func (s *Session) setAlert(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alert = msg
}

// alertFor choisit le message à montrer au visiteur
func alertFor(err error, fallback string) string {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var opErr *models.OperationError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return fallback
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
