package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"overtimepay/config"
	"overtimepay/database"
	"overtimepay/middleware"
	"overtimepay/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	minPasswordLength = 5
)

type AuthHandler struct {
	pages
	store *database.Store
}

func NewAuthHandler(cfg *config.Config, store *database.Store, templates map[string]*template.Template) *AuthHandler {
	return &AuthHandler{
		pages: pages{config: cfg, templates: templates},
		store: store,
	}
}

// Home sends visitors to setup on a fresh install, otherwise to the dashboard.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	needs, err := h.store.NeedsSetup(r.Context())
	if err != nil {
		serverError(w, err, "check setup")
		return
	}
	if needs {
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, "/login", "Invalid form data")
		return
	}

	user, err := h.store.Authenticate(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if errors.Is(err, database.ErrInvalidCredentials) {
		log.Info().Str("username", r.FormValue("username")).Msg("failed login")
		redirectError(w, r, "/login", "Invalid credentials")
		return
	}
	if err != nil {
		serverError(w, err, "login")
		return
	}

	h.startSession(w, r, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, err := middleware.GenerateToken(user, h.config.JWTExpiration)
	if err != nil {
		redirectError(w, r, "/login", "Failed to generate token")
		return
	}
	middleware.SetTokenCookie(w, token, h.config.JWTExpiration)

	if user.MustChangePassword {
		http.Redirect(w, r, "/change-password", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) SetupPage(w http.ResponseWriter, r *http.Request) {
	needs, err := h.store.NeedsSetup(r.Context())
	if err != nil {
		serverError(w, err, "check setup")
		return
	}
	if !needs {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.render(w, r, "setup", nil)
}

func validateCredentials(username, password, confirm string) string {
	switch {
	case len(strings.TrimSpace(username)) < minUsernameLength:
		return "Username must be at least 3 characters"
	case len(password) < minPasswordLength:
		return "Password must be at least 5 characters"
	case password != confirm:
		return "Passwords do not match"
	}
	return ""
}

func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, "/setup", "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	if msg := validateCredentials(username, password, r.FormValue("confirm_password")); msg != "" {
		redirectError(w, r, "/setup", msg)
		return
	}

	admin, err := h.store.SetupAdmin(r.Context(), username, password)
	if errors.Is(err, database.ErrSetupDone) {
		redirectError(w, r, "/login", "The administrator has already been configured")
		return
	}
	if err != nil {
		serverError(w, err, "setup admin")
		return
	}

	log.Info().Str("username", admin.Username).Msg("administrator created")
	h.startSession(w, r, admin)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearTokenCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) ChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "change-password", nil)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectError(w, r, "/change-password", "Invalid form data")
		return
	}

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		redirectError(w, r, "/change-password", "Current password is incorrect")
		return
	}
	if newPassword != confirmPassword {
		redirectError(w, r, "/change-password", "Passwords do not match")
		return
	}
	if len(newPassword) < minPasswordLength {
		redirectError(w, r, "/change-password", "Password must be at least 5 characters")
		return
	}

	if err := h.store.UpdatePassword(r.Context(), user.ID, newPassword); err != nil {
		serverError(w, err, "update password")
		return
	}
	user.MustChangePassword = false

	// Regenerate token with updated user info
	token, err := middleware.GenerateToken(user, h.config.JWTExpiration)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	middleware.SetTokenCookie(w, token, h.config.JWTExpiration)

	redirectSuccess(w, r, "/dashboard", "Password changed")
}

// ToggleConfidential flips value masking and returns to the referring page.
func (h *AuthHandler) ToggleConfidential(w http.ResponseWriter, r *http.Request) {
	value := "1"
	if isConfidential(r) {
		value = "0"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ConfidentialCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, localPath(r.Referer(), "/dashboard"), http.StatusSeeOther)
}

func (h *AuthHandler) UsersPage(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		serverError(w, err, "list users")
		return
	}
	h.render(w, r, "users", map[string]interface{}{
		"Users": users,
	})
}

func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, "/users", "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	role, ok := models.ParseRole(r.FormValue("role"))
	if !ok {
		redirectError(w, r, "/users", "Invalid role")
		return
	}
	if msg := validateCredentials(username, password, password); msg != "" {
		redirectError(w, r, "/users", msg)
		return
	}

	user, err := h.store.CreateUser(r.Context(), username, password, role)
	if errors.Is(err, database.ErrUsernameTaken) {
		redirectError(w, r, "/users", "Username already exists")
		return
	}
	if err != nil {
		serverError(w, err, "create user")
		return
	}

	log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("user created")
	redirectSuccess(w, r, "/users", "User created successfully")
}
