package server

import (
	"crypto/subtle"
	"database/sql"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AdminLoginRequest is the request body for POST /api/admin/login.
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// AdminSessionResponse is returned on login and by GET /api/admin/me.
type AdminSessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

func handleAdminLogin(db *sql.DB, password, passwordHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminLoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Password == "" {
			writeError(w, http.StatusBadRequest, "password is required")
			return
		}

		// A bcrypt hash wins over the plaintext fallback when both are set.
		if passwordHash != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
		} else if subtle.ConstantTimeCompare([]byte(req.Password), []byte(password)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		var sessionID string
		err := db.QueryRowContext(r.Context(), `
			INSERT INTO admin_sessions DEFAULT VALUES
			RETURNING id
		`).Scan(&sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   int(7 * 24 * time.Hour / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, AdminSessionResponse{Authenticated: true})
	}
}

func handleAdminMe(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := adminFromRequest(r, db); err != nil {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, AdminSessionResponse{Authenticated: true})
	}
}
