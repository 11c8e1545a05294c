package server

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/festhunt/treasurehunt/internal/quiz"
)

// AdminTeamItem is a team as shown in the admin panel, PIN included.
type AdminTeamItem struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	PIN                  string  `json:"pin"`
	CurrentQuestionIndex int     `json:"currentQuestionIndex"`
	TotalScore           int     `json:"totalScore"`
	PlayerCount          int     `json:"playerCount"`
	CompletedAt          *string `json:"completedAt"`
	CreatedAt            string  `json:"createdAt"`
}

func handleAdminListTeams(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.QueryContext(r.Context(), `
			SELECT t.id, t.name, t.pin, t.current_question_index, t.total_score,
				(SELECT COUNT(*) FROM players p WHERE p.team_id = t.id),
				t.completed_at, t.created_at
			FROM teams t
			ORDER BY t.created_at
		`)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		defer rows.Close()

		teams := []AdminTeamItem{}
		for rows.Next() {
			var t AdminTeamItem
			var completedAt sql.NullString
			if err := rows.Scan(&t.ID, &t.Name, &t.PIN, &t.CurrentQuestionIndex, &t.TotalScore, &t.PlayerCount, &completedAt, &t.CreatedAt); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if completedAt.Valid {
				t.CompletedAt = &completedAt.String
			}
			teams = append(teams, t)
		}

		writeJSON(w, http.StatusOK, teams)
	}
}

// handleAdminResetTeam sends a team back to the first question. The earned
// progress log is wiped but the answer audit trail stays.
func handleAdminResetTeam(db *sql.DB, tracker *quiz.Tracker, board *leaderboard, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "id")

		tx, err := db.BeginTx(r.Context(), nil)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		defer tx.Rollback()

		result, err := tx.ExecContext(r.Context(), `
			UPDATE teams
			SET current_question_index = 0, total_score = 0, completed_at = NULL
			WHERE id = ?
		`, teamID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			writeError(w, http.StatusNotFound, "team not found")
			return
		}

		if _, err := tx.ExecContext(r.Context(), `DELETE FROM team_progress WHERE team_id = ?`, teamID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := tx.Commit(); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		tracker.Reset(teamID)
		board.Invalidate(r.Context())
		broker.Publish(teamTopic(teamID), Event{Type: "team_reset", TeamID: teamID})
		broker.Publish(leaderboardTopic, Event{Type: "team_reset", TeamID: teamID})

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleAdminDeleteTeam(db *sql.DB, board *leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := chi.URLParam(r, "id")

		result, err := db.ExecContext(r.Context(), `DELETE FROM teams WHERE id = ?`, teamID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			writeError(w, http.StatusNotFound, "team not found")
			return
		}

		board.Invalidate(r.Context())
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
