package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/festhunt/treasurehunt/internal/quiz"
)

var errNoSession = errors.New("no valid session")

// teamFromRequest resolves the Bearer token to the team it belongs to.
func teamFromRequest(r *http.Request, db *sql.DB) (quiz.Team, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return quiz.Team{}, errNoSession
	}

	team, err := teamFromToken(r.Context(), db, token)
	if errors.Is(err, ErrNotFound) {
		return quiz.Team{}, errNoSession
	}
	return team, err
}
