package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	IsVerified  bool   `json:"is_verified"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		IsVerified:  u.IsVerified,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.failJSON(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// login takes form fields username and password and sets the auth cookie.
func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid form"})
		return
	}

	token, err := s.users.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		s.metrics.RecordLogin(false)
		s.failJSON(w, r, err)
		return
	}
	s.metrics.RecordLogin(true)

	s.setAuthCookie(w, token, s.users.TokenLifetime())
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	s.setAuthCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// setAuthCookie writes the session cookie; a negative lifetime deletes it.
func (s *HTTPServer) setAuthCookie(w http.ResponseWriter, token string, lifetime time.Duration) {
	maxAge := int(lifetime.Seconds())
	if lifetime < 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     common.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// forgotPassword answers 202 whether or not the email is known.
func (s *HTTPServer) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	if err := s.users.ForgotPassword(r.Context(), req.Email); err != nil {
		s.failJSON(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (s *HTTPServer) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	if err := s.users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		s.failJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserResponse(userFrom(r.Context())))
}

func (s *HTTPServer) loginPage(w http.ResponseWriter, r *http.Request) {
	if userFrom(r.Context()) != nil {
		http.Redirect(w, r, "/catalog", http.StatusFound)
		return
	}
	s.renderPage(w, r, http.StatusOK, "login.html", pageData{Title: "Log in"})
}

func (s *HTTPServer) registerPage(w http.ResponseWriter, r *http.Request) {
	if userFrom(r.Context()) != nil {
		http.Redirect(w, r, "/catalog", http.StatusFound)
		return
	}
	s.renderPage(w, r, http.StatusOK, "register.html", pageData{Title: "Register"})
}
