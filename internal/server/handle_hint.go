package server

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/festhunt/treasurehunt/internal/quiz"
)

type HintResponse struct {
	Hint          string `json:"hint"`
	HintsRevealed int    `json:"hintsRevealed"`
	CurrentPoints int    `json:"currentPoints"`
}

func handleHint(db *sql.DB, tracker *quiz.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := teamFromRequest(r, db)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		total, err := questionCount(r.Context(), db)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if total == 0 || team.CurrentQuestionIndex >= total {
			writeError(w, http.StatusConflict, "no question in play")
			return
		}

		q, err := questionAt(r.Context(), db, team.CurrentQuestionIndex)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		hint, revealed, err := tracker.RevealHint(team.ID, q)
		if errors.Is(err, quiz.ErrNoHintsLeft) {
			writeError(w, http.StatusConflict, "no hints left for this question")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, HintResponse{
			Hint:          hint,
			HintsRevealed: revealed,
			CurrentPoints: quiz.CurrentPoints(q, revealed),
		})
	}
}
