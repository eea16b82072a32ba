package cookie

import (
	"net/http"
	"sync"
	"time"

	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/services/session"
)

// Session token binding
const (
	Name     = "sprigSession"
	Path     = "/"
	MaxAge   = 365 * 24 * time.Hour
	SameSite = http.SameSiteStrictMode
)

// New returns the cookie that binds a session token to the client
func New(id model.SessionID) *http.Cookie {
	return &http.Cookie{
		Name:     Name,
		Value:    string(id),
		Path:     Path,
		MaxAge:   int(MaxAge / time.Second),
		HttpOnly: true,
		SameSite: SameSite,
	}
}

// HTTPJar reads the session token from a request and writes a replacement
// token to the response
type HTTPJar struct {
	w http.ResponseWriter
	r *http.Request

	mu       sync.Mutex
	replaced model.SessionID
}

// Ensure HTTPJar implements TokenJar
var _ session.TokenJar = (*HTTPJar)(nil)

// NewHTTPJar creates a jar over a single request/response pair
func NewHTTPJar(w http.ResponseWriter, r *http.Request) *HTTPJar {
	return &HTTPJar{w: w, r: r}
}

// Token returns the token set during this request, or else the one the
// client presented
func (j *HTTPJar) Token() (model.SessionID, bool) {
	j.mu.Lock()
	replaced := j.replaced
	j.mu.Unlock()
	if replaced != "" {
		return replaced, true
	}

	c, err := j.r.Cookie(Name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return model.SessionID(c.Value), true
}

// SetToken writes the session cookie to the response
func (j *HTTPJar) SetToken(id model.SessionID) {
	j.mu.Lock()
	j.replaced = id
	j.mu.Unlock()
	http.SetCookie(j.w, New(id))
}

// MemoryJar holds a token in memory
type MemoryJar struct {
	mu    sync.Mutex
	token model.SessionID
}

// Ensure MemoryJar implements TokenJar
var _ session.TokenJar = (*MemoryJar)(nil)

// NewMemoryJar creates a jar holding the given token; pass "" for none
func NewMemoryJar(token model.SessionID) *MemoryJar {
	return &MemoryJar{token: token}
}

// Token returns the held token
func (j *MemoryJar) Token() (model.SessionID, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.token, j.token != ""
}

// SetToken replaces the held token
func (j *MemoryJar) SetToken(id model.SessionID) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.token = id
}
