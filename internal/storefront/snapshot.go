package storefront

import (
	"context"

	"crochet_storefront/internal/cache"
	"crochet_storefront/internal/checkout"
	"crochet_storefront/internal/models"
)

type AdminView struct {
	State      string `json:"state"`
	PromptOpen bool   `json:"prompt_open"`
	Error      string `json:"error,omitempty"`
}

type EditorView struct {
	Open    bool            `json:"open"`
	Product *models.Product `json:"product,omitempty"`
	Saving  bool            `json:"saving"`
}

type ReviewFormView struct {
	Open       bool `json:"open"`
	Submitting bool `json:"submitting"`
}

// Snapshot est tout ce qu'une vue doit afficher pour un visiteur
type Snapshot struct {
	Visitor    string            `json:"visitor"`
	Cart       []models.CartItem `json:"cart"`
	Total      int64             `json:"total"`
	TotalLabel string            `json:"total_label"`
	Count      int               `json:"count"`
	CartOpen   bool              `json:"cart_open"`
	Admin      AdminView         `json:"admin"`
	Editor     EditorView        `json:"editor"`
	ReviewForm ReviewFormView    `json:"review_form"`
	Fields     map[string]string `json:"fields"`
	Category   models.Category   `json:"category"`
	Theme      cache.Theme       `json:"theme"`
	Alert      string            `json:"alert,omitempty"`
}

// Snapshot fige l'état du visiteur. L'alerte en attente n'est livrée qu'une fois.
func (s *Session) Snapshot(ctx context.Context) Snapshot {
	return s.snapshot(ctx, true)
}

// Peek est Snapshot sans consommer l'alerte
func (s *Session) Peek(ctx context.Context) Snapshot {
	return s.snapshot(ctx, false)
}

func (s *Session) snapshot(ctx context.Context, takeAlert bool) Snapshot {
	theme := s.Theme(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	fields := make(map[string]string, len(s.fields))
	for k, v := range s.fields {
		fields[k] = v
	}
	snap := Snapshot{
		Visitor:    s.visitor,
		Cart:       s.cart.Items(),
		Total:      s.cart.Total(),
		TotalLabel: s.shop.Composer.FormatAmount(s.cart.Total()) + " " + checkout.Currency,
		Count:      s.cart.Count(),
		CartOpen:   s.cartOpen,
		Admin: AdminView{
			State:      s.gate.State().String(),
			PromptOpen: s.gate.PromptOpen(),
			Error:      s.gate.Error(),
		},
		Editor:     EditorView{Open: s.editorOpen, Product: s.editing, Saving: s.saving},
		ReviewForm: ReviewFormView{Open: s.reviewFormOpen, Submitting: s.submitting},
		Fields:     fields,
		Category:   s.category,
		Theme:      theme,
		Alert:      s.alert,
	}
	if takeAlert {
		s.alert = ""
	}
	return snap
}
