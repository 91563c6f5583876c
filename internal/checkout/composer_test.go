package checkout

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crochet_storefront/internal/models"
)

func sampleItems() []models.CartItem {
	return []models.CartItem{
		{Product: models.Product{ID: "a", Name: "Top Bohème", Price: 18000}, Quantity: 2},
		{Product: models.Product{ID: "b", Name: "Robe Soleil", Price: 45000}, Quantity: 1},
	}
}

func TestComposeMessage(t *testing.T) {
	c := NewComposer("2290144167365", "")

	msg := c.ComposeMessage(sampleItems(), 81000)

	assert.True(t, strings.HasPrefix(msg, "Bonjour Marifath !\n\nJe souhaite passer une commande pour :\n"))
	assert.Contains(t, msg, "- Top Bohème (x2)\n- Robe Soleil (x1)")
	assert.Regexp(t, `Total: 81\D000 FCFA`, msg)
	assert.True(t, strings.HasSuffix(msg, "Merci de me confirmer la disponibilité."))
}

func TestFormatAmount_GroupsThousands(t *testing.T) {
	c := NewComposer("1", "")
	assert.Equal(t, "0", c.FormatAmount(0))
	assert.Equal(t, "999", c.FormatAmount(999))
	assert.Regexp(t, `^1\D250\D000$`, c.FormatAmount(1250000))
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "Bonjour%20Marifath%20!", encodeURIComponent("Bonjour Marifath !"))
	assert.Equal(t, "(x2)%20*'", encodeURIComponent("(x2) *'"))
	assert.Equal(t, "a%2Bb%26c%3D%0A", encodeURIComponent("a+b&c=\n"))
	assert.Equal(t, "F%20CFA%20%E2%80%A2", encodeURIComponent("F CFA •"))
}

func TestHandoffURL_RoundTrip(t *testing.T) {
	c := NewComposer("2290144167365", "")
	msg := c.ComposeMessage(sampleItems(), 81000)

	link := c.HandoffURL(msg)

	assert.True(t, strings.HasPrefix(link, "https://wa.me/2290144167365?text="))
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "%20")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, msg, u.Query().Get("text"))
}

func TestCheckout_HandsOffComposedLink(t *testing.T) {
	c := NewComposer("2290144167365", "")
	var opened string
	opener := OpenerFunc(func(_ context.Context, link string) error {
		opened = link
		return nil
	})

	link, err := c.Checkout(context.Background(), sampleItems(), 81000, opener)

	require.NoError(t, err)
	assert.Equal(t, opened, link)
	assert.Equal(t, c.HandoffURL(c.ComposeMessage(sampleItems(), 81000)), link)
}

func TestCheckout_EmptyCart(t *testing.T) {
	c := NewComposer("1", "")
	called := false
	_, err := c.Checkout(context.Background(), nil, 0, OpenerFunc(func(context.Context, string) error {
		called = true
		return nil
	}))
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.False(t, called)
}

func TestCheckout_OpenerFailure(t *testing.T) {
	c := NewComposer("1", "")
	boom := errors.New("no browser")
	_, err := c.Checkout(context.Background(), sampleItems(), 81000, OpenerFunc(func(context.Context, string) error {
		return boom
	}))
	assert.ErrorIs(t, err, boom)
}

func TestQRCode_IsPNG(t *testing.T) {
	png, err := QRCode("https://wa.me/1?text=hello", 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
