package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"permits/internal/domain/audit"
	"permits/internal/domain/auth"
	"permits/internal/transport/http/api"
	"permits/internal/transport/http/middleware"
	"permits/internal/transport/http/shared"
)

const sessionCookie = "session_token"

type Handler struct {
	Users      *auth.Store
	Audit      *audit.Service
	Secret     string
	SSOSecret  string
	TokenTTL   time.Duration
	SessionTTL time.Duration
	Secure     bool
}

func NewHandler(users *auth.Store, auditSvc *audit.Service, secret, ssoSecret string, tokenTTL, sessionTTL time.Duration, secure bool) *Handler {
	return &Handler{
		Users:      users,
		Audit:      auditSvc,
		Secret:     secret,
		SSOSecret:  ssoSecret,
		TokenTTL:   tokenTTL,
		SessionTTL: sessionTTL,
		Secure:     secure,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Get("/sso", h.handleSSO)
		r.Post("/logout", h.handleLogout)
		r.With(middleware.RequireAuth).Get("/user", h.handleCurrentUser)
		r.With(middleware.RequireAuth).Put("/phone", h.handleUpdatePhone)
	})
}

type loginRequest struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("code", payload.Code, "employee code is required")
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	user, err := h.Users.FindByCode(r.Context(), strings.TrimSpace(payload.Code))
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{Code: user.Code, Name: user.Name, Role: user.Role}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.Code, "auth.login", user.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit auth.login failed", "err", err)
	}

	api.Success(w, map[string]any{
		"token": token,
		"user": map[string]string{
			"code":  user.Code,
			"name":  user.Name,
			"phone": user.Phone,
			"role":  user.Role,
		},
	}, middleware.GetRequestID(r.Context()))
}

// handleSSO bridges a signed handoff token from the main system into a
// local session cookie. Expired and malformed tokens land on different
// login screens so the main system can retry expired ones transparently.
func (h *Handler) handleSSO(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Redirect(w, r, "/login?reason=missing_token", http.StatusFound)
		return
	}

	claims, err := auth.VerifySSOToken(h.SSOSecret, token)
	if err != nil {
		if errors.Is(err, auth.ErrSSOTokenExpired) {
			http.Redirect(w, r, "/login?reason=token_expired", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/login?reason=invalid_token", http.StatusFound)
		return
	}

	role := claims.Role
	if role == "" {
		role = auth.RoleEmployee
	}
	if _, err := h.Users.CreateUser(r.Context(), claims.Code, claims.Name, role, ""); err != nil {
		slog.Warn("sso user upsert failed", "code", claims.Code, "err", err)
	}

	session, err := auth.GenerateToken(h.Secret, auth.Claims{Code: claims.Code, Name: claims.Name, Role: role}, h.SessionTTL)
	if err != nil {
		http.Redirect(w, r, "/login?reason=session_error", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session,
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	if err := h.Audit.Record(r.Context(), claims.Code, "auth.sso", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit auth.sso failed", "err", err)
	}

	http.Redirect(w, r, safeRedirect(r.URL.Query().Get("redirect")), http.StatusFound)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	record, err := h.Users.FindByCode(r.Context(), user.Code)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{
		"code":  record.Code,
		"name":  record.Name,
		"phone": record.Phone,
		"email": record.Email,
		"role":  record.Role,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdatePhone(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload phoneRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	phone := strings.TrimSpace(payload.Phone)
	v := shared.NewValidator()
	v.Required("phone", phone, "phone is required")
	if phone != "" && !validPhone(phone) {
		v.Add("phone", "must contain 7 to 15 digits")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Users.UpdatePhone(r.Context(), user.Code, phone); err != nil {
		api.Fail(w, http.StatusInternalServerError, "phone_update_failed", "failed to update phone", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"phone": phone}, middleware.GetRequestID(r.Context()))
}

func validPhone(phone string) bool {
	digits := 0
	for _, ch := range phone {
		switch {
		case ch >= '0' && ch <= '9':
			digits++
		case ch == '+' || ch == ' ' || ch == '-':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

// safeRedirect confines post-login redirects to local paths.
func safeRedirect(target string) string {
	if target == "" {
		return "/"
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.IsAbs() || parsed.Host != "" || !strings.HasPrefix(parsed.Path, "/") {
		return "/"
	}
	return parsed.String()
}
