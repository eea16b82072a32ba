package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sprig-core/internal/model"
)

func TestHTTPJarWithoutCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	jar := NewHTTPJar(httptest.NewRecorder(), r)

	_, ok := jar.Token()
	assert.False(t, ok)
}

func TestHTTPJarReadsPresentedCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: Name, Value: "s1"})
	jar := NewHTTPJar(httptest.NewRecorder(), r)

	token, ok := jar.Token()
	assert.True(t, ok)
	assert.Equal(t, model.SessionID("s1"), token)
}

func TestHTTPJarSetTokenWritesBinding(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: Name, Value: "old"})
	w := httptest.NewRecorder()
	jar := NewHTTPJar(w, r)

	jar.SetToken("new")

	token, ok := jar.Token()
	assert.True(t, ok)
	assert.Equal(t, model.SessionID("new"), token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, Name, c.Name)
	assert.Equal(t, "new", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 365*24*60*60, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestMemoryJar(t *testing.T) {
	jar := NewMemoryJar("")
	_, ok := jar.Token()
	assert.False(t, ok)

	jar.SetToken("s1")
	token, ok := jar.Token()
	assert.True(t, ok)
	assert.Equal(t, model.SessionID("s1"), token)
}
