package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-intel/internal/auth"
)

type AuthDeps struct {
	Users    *auth.UserStore
	Sessions *auth.Sessions
}

type credentialsBody struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// RegisterAuth wires the login surface. Failures deliberately reuse one
// message for unknown user and bad password.
func RegisterAuth(r chi.Router, d AuthDeps) {
	r.Post("/auth/signup", func(w http.ResponseWriter, req *http.Request) {
		var body credentialsBody
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
			return
		}
		err := d.Users.Signup(body.Username, body.Email, body.Password)
		switch {
		case errors.Is(err, auth.ErrUserExists):
			render.Status(req, http.StatusConflict)
			render.JSON(w, req, map[string]any{"error": "user_exists"})
			return
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidCredentials):
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_signup", "detail": err.Error()})
			return
		case err != nil:
			render.Status(req, http.StatusInternalServerError)
			render.JSON(w, req, map[string]any{"error": "signup_failed"})
			return
		}
		render.Status(req, http.StatusCreated)
		render.JSON(w, req, map[string]any{"ok": true})
	})

	r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body credentialsBody
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
			return
		}
		if err := d.Users.Verify(body.Username, body.Password); err != nil {
			render.Status(req, http.StatusUnauthorized)
			render.JSON(w, req, map[string]any{"error": "invalid_credentials"})
			return
		}
		if err := d.Sessions.Issue(w, body.Username); err != nil {
			render.Status(req, http.StatusInternalServerError)
			render.JSON(w, req, map[string]any{"error": "session_error"})
			return
		}
		render.JSON(w, req, map[string]any{"ok": true, "username": body.Username})
	})

	r.Post("/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		d.Sessions.Clear(w)
		render.JSON(w, req, map[string]any{"ok": true})
	})
}
