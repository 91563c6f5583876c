// Package checkout transforme le panier en message de commande et le confie à
// la messagerie (lien wa.me).
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"crochet_storefront/internal/models"
)

const (
	MessagingBase = "https://wa.me"
	Currency      = "FCFA"
	DefaultOwner  = "Marifath"
)

// ErrEmptyCart : pas de commande à envoyer
var ErrEmptyCart = errors.New("panier vide")

// Opener réalise le hand-off vers la messagerie (ouverture d'URL)
type Opener interface {
	Open(ctx context.Context, url string) error
}

type OpenerFunc func(ctx context.Context, url string) error

func (f OpenerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

type Composer struct {
	recipient string
	owner     string
	printer   *message.Printer
}

func NewComposer(recipient, owner string) *Composer {
	if owner == "" {
		owner = DefaultOwner
	}
	return &Composer{
		recipient: recipient,
		owner:     owner,
		printer:   message.NewPrinter(language.French),
	}
}

// FormatAmount groupe les milliers à la française (81000 → "81 000")
func (c *Composer) FormatAmount(v int64) string {
	return c.printer.Sprintf("%d", v)
}

// ComposeMessage est purement textuel : aucun effet de bord
func (c *Composer) ComposeMessage(items []models.CartItem, total int64) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("- %s (x%d)", it.Name, it.Quantity))
	}
	return fmt.Sprintf(
		"Bonjour %s !\n\nJe souhaite passer une commande pour :\n%s\n\nTotal: %s %s\n\nMerci de me confirmer la disponibilité.",
		c.owner, strings.Join(lines, "\n"), c.FormatAmount(total), Currency,
	)
}

// HandoffURL construit {base}/{destinataire}?text={message encodé}
func (c *Composer) HandoffURL(msg string) string {
	return fmt.Sprintf("%s/%s?text=%s", MessagingBase, c.recipient, encodeURIComponent(msg))
}

// Checkout compose le message du panier et le confie à opener
func (c *Composer) Checkout(ctx context.Context, items []models.CartItem, total int64, opener Opener) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	link := c.HandoffURL(c.ComposeMessage(items, total))
	if err := opener.Open(ctx, link); err != nil {
		return "", fmt.Errorf("hand-off messagerie: %w", err)
	}
	return link, nil
}

// QRCode rend le lien de hand-off en PNG, pour finir la commande sur téléphone
func QRCode(link string, size int) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, size)
}

// les espaces deviennent %20 (pas "+") et !'()* restent tels quels,
// comme encodeURIComponent côté navigateur
var uriComponentFixes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriComponentFixes.Replace(url.QueryEscape(s))
}
