package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Visitor(NewCookieStore(secret, false)))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextVisitor))
	})
	return r
}

func TestVisitor_AssignsAndKeepsID(t *testing.T) {
	r := setupRouter("secret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()
	require.NotEmpty(t, first)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, first, w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "cookie déjà posé, pas de réécriture")
}

func TestVisitor_ForeignCookieStartsFresh(t *testing.T) {
	w := httptest.NewRecorder()
	setupRouter("secret-a").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	cookie := w.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	setupRouter("secret-b").ServeHTTP(w2, req)

	assert.Equal(t, http.StatusOK, w2.Code)
	assert.NotEqual(t, w.Body.String(), w2.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	admin := false
	r := gin.New()
	r.POST("/x", RequireAdmin(func(*gin.Context) bool { return admin }), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Accès réservé aux administrateurs"}`, w.Body.String())

	admin = true
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
