// Package cart tient le panier d'un visiteur : une ligne par produit, dans
// l'ordre d'ajout, quantité jamais inférieure à 1.
package cart

import "crochet_storefront/internal/models"

type Cart struct {
	items []models.CartItem
}

func New() *Cart {
	return &Cart{}
}

// Add incrémente la ligne du produit ou l'ajoute en fin de panier
func (c *Cart) Add(p models.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, models.CartItem{Product: p, Quantity: 1})
}

// Remove retire la ligne ; sans effet si le produit n'est pas dans le panier
func (c *Cart) Remove(id string) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
}

// SetQuantityDelta applique delta avec un plancher à 1. Atteindre le plancher
// ne retire jamais la ligne.
func (c *Cart) SetQuantityDelta(id string, delta int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	q := c.items[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	c.items[i].Quantity = q
}

func (c *Cart) Total() int64 {
	var total int64
	for _, it := range c.items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

// Count est le nombre d'articles (badge du panier)
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Len() int { return len(c.items) }

// Items renvoie une copie des lignes
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) index(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
