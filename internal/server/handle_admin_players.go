package server

import (
	"database/sql"
	"math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminPlayerItem is a player row in the admin panel. TeamName is empty for
// players still in the unassigned pool.
type AdminPlayerItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TeamID    string `json:"teamId,omitempty"`
	TeamName  string `json:"teamName,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// AssignPlayersResponse reports how the pool was distributed.
type AssignPlayersResponse struct {
	Assigned int `json:"assigned"`
	Teams    int `json:"teams"`
}

func handleAdminListPlayers(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.QueryContext(r.Context(), `
			SELECT p.id, p.name, COALESCE(p.team_id, ''), COALESCE(t.name, ''), p.created_at
			FROM players p
			LEFT JOIN teams t ON t.id = p.team_id
			ORDER BY p.created_at
		`)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		defer rows.Close()

		players := []AdminPlayerItem{}
		for rows.Next() {
			var p AdminPlayerItem
			if err := rows.Scan(&p.ID, &p.Name, &p.TeamID, &p.TeamName, &p.CreatedAt); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			players = append(players, p)
		}

		writeJSON(w, http.StatusOK, players)
	}
}

func handleAdminDeletePlayer(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		result, err := db.ExecContext(r.Context(), `DELETE FROM players WHERE id = ?`, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleAdminUnassignPlayer(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		result, err := db.ExecContext(r.Context(), `UPDATE players SET team_id = NULL WHERE id = ?`, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// handleAdminAssignPlayers shuffles the unassigned pool and deals it
// round-robin across all teams, oldest team first.
func handleAdminAssignPlayers(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamIDs, err := queryIDs(r, db, `SELECT id FROM teams ORDER BY created_at`)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if len(teamIDs) == 0 {
			writeError(w, http.StatusConflict, "no teams to assign players to")
			return
		}

		playerIDs, err := queryIDs(r, db, `SELECT id FROM players WHERE team_id IS NULL ORDER BY created_at`)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rand.Shuffle(len(playerIDs), func(i, j int) {
			playerIDs[i], playerIDs[j] = playerIDs[j], playerIDs[i]
		})

		for i, playerID := range playerIDs {
			teamID := teamIDs[i%len(teamIDs)]
			if _, err := db.ExecContext(r.Context(), `UPDATE players SET team_id = ? WHERE id = ?`, teamID, playerID); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		writeJSON(w, http.StatusOK, AssignPlayersResponse{
			Assigned: len(playerIDs),
			Teams:    len(teamIDs),
		})
	}
}

func queryIDs(r *http.Request, db *sql.DB, query string) ([]string, error) {
	rows, err := db.QueryContext(r.Context(), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
