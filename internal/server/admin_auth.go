package server

import (
	"database/sql"
	"errors"
	"net/http"
)

var errNoAdminSession = errors.New("no valid admin session")

const adminCookieName = "admin_session"

// adminFromRequest reads the admin_session cookie and checks it against the
// stored sessions. There is a single shared admin identity, so a session row
// existing is all authentication takes.
func adminFromRequest(r *http.Request, db *sql.DB) error {
	cookie, err := r.Cookie(adminCookieName)
	if err != nil || cookie.Value == "" {
		return errNoAdminSession
	}

	var id string
	err = db.QueryRowContext(r.Context(), `
		SELECT id FROM admin_sessions WHERE id = ?
	`, cookie.Value).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return errNoAdminSession
	}
	return err
}
