package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/bulletin-board/internal/auth"
	"github.com/sakif/bulletin-board/internal/service"
)

// AuthHandler serves signup, login, logout and the current-user lookup.
type AuthHandler struct {
	svc          *service.AuthService
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler. secureCookie marks the credential
// cookie Secure, which requires HTTPS.
func NewAuthHandler(svc *service.AuthService, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:          svc,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type signupRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type loginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token. The same token is also set as
// the credential cookie.
type LoginResponse struct {
	Token string `json:"token"`
}

// HandleSignup registers a user.
//
// HTTP: POST /signup
// REQUEST BODY: {"nickname": "alice123", "password": "pass1234", "confirm": "pass1234"}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	if _, err := h.svc.Register(r.Context(), service.RegisterInput{
		Nickname: req.Nickname,
		Password: req.Password,
		Confirm:  req.Confirm,
	}); err != nil {
		writeError(w, err, "sign-up failed")
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "sign-up complete"})
}

// HandleLogin checks credentials and issues a token.
//
// HTTP: POST /login
// REQUEST BODY: {"nickname": "alice123", "password": "pass1234"}
//
// The token is returned in the body and set as an HttpOnly cookie whose
// value is "Bearer <token>".
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	result, err := h.svc.Login(r.Context(), req.Nickname, req.Password)
	if err != nil {
		writeError(w, err, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    auth.BearerCredential(result.Token),
		Path:     "/",
		MaxAge:   int(h.svc.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, LoginResponse{Token: result.Token})
}

// HandleLogout clears the credential cookie.
//
// HTTP: POST /logout
//
// Tokens are stateless, so the token itself stays valid until it expires;
// the browser just stops sending it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}

// HandleMe returns the authenticated user.
//
// HTTP: GET /me
// Auth: Required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "unauthenticated", Message: auth.MsgLoginRequired})
		return
	}

	writeJSON(w, http.StatusOK, user)
}
