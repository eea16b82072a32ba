package handler

import (
	"net/http"
	"strings"

	"github.com/mcoot/sprig-core/internal/api/apierr"
	"github.com/mcoot/sprig-core/internal/api/middleware"
	"github.com/mcoot/sprig-core/internal/api/request"
	"github.com/mcoot/sprig-core/internal/api/response"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/services/identity"
	"github.com/mcoot/sprig-core/internal/services/logincode"
	"github.com/mcoot/sprig-core/internal/services/session"
	"github.com/mcoot/sprig-core/internal/transport/cookie"
)

// SessionHandler handles login and session endpoints
type SessionHandler struct {
	identity   *identity.Service
	sessions   *session.Manager
	loginCodes *logincode.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(identity *identity.Service, sessions *session.Manager, loginCodes *logincode.Service) *SessionHandler {
	return &SessionHandler{
		identity:   identity,
		sessions:   sessions,
		loginCodes: loginCodes,
	}
}

// LoginEmail handles POST /api/v1/session/email
// The user is looked up by email and created if there is none.
func (h *SessionHandler) LoginEmail(w http.ResponseWriter, r *http.Request) {
	var req request.EmailLoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return
	}

	ctx := r.Context()
	user, err := h.identity.GetUserByEmail(ctx, email)
	if err != nil {
		WriteError(w, err)
		return
	}
	if user == nil {
		user, err = h.identity.MakeUser(ctx, email, model.FromPtr(req.Username))
		if err != nil {
			WriteError(w, err)
			return
		}
	}

	info, err := h.sessions.MakeOrUpdateSession(ctx, cookie.NewHTTPJar(w, r), user.ID, model.AuthEmail)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionResponseFromModel(info))
}

// RequestCode handles POST /api/v1/session/code/request
func (h *SessionHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	info := middleware.MustGetSessionInfo(r.Context())

	if err := h.loginCodes.Issue(r.Context(), &info.User); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// LoginCode handles POST /api/v1/session/code
func (h *SessionHandler) LoginCode(w http.ResponseWriter, r *http.Request) {
	info := middleware.MustGetSessionInfo(r.Context())

	var req request.CodeLoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		WriteError(w, NewInvalidRequestError("code is required"))
		return
	}

	ctx := r.Context()
	ok, err := h.loginCodes.Verify(ctx, info.User.ID, code)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !ok {
		WriteError(w, apierr.NewInvalidLoginCodeError())
		return
	}

	updated, err := h.sessions.MakeOrUpdateSession(ctx, cookie.NewHTTPJar(w, r), info.User.ID, model.AuthCode)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionResponseFromModel(updated))
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	info := middleware.MustGetSessionInfo(r.Context())
	response.JSON(w, http.StatusOK, response.SessionResponseFromModel(info))
}
