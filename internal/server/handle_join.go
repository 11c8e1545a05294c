package server

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"
)

type TeamCreateRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

type JoinRequest struct {
	Name       string `json:"name"`
	PIN        string `json:"pin"`
	PlayerName string `json:"playerName,omitempty"`
}

type JoinResponse struct {
	Token    string `json:"token"`
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	PlayerID string `json:"playerId,omitempty"`
}

type PlayerCreateRequest struct {
	Name string `json:"name"`
}

type PlayerCreateResponse struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

func handleTeamCreate(db *sql.DB, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TeamCreateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.PIN = strings.TrimSpace(req.PIN)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if !pinPattern.MatchString(req.PIN) {
			writeError(w, http.StatusBadRequest, "pin must be exactly 4 digits")
			return
		}

		var id, token string
		err := db.QueryRowContext(r.Context(), `
			INSERT INTO teams (name, pin)
			VALUES (?, ?)
			RETURNING id, session_token
		`, req.Name, req.PIN).Scan(&id, &token)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				writeError(w, http.StatusConflict, "a team with that name already exists")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(leaderboardTopic, Event{Type: "team_registered", TeamID: id, TeamName: req.Name})

		writeJSON(w, http.StatusCreated, JoinResponse{
			Token:    token,
			TeamID:   id,
			TeamName: req.Name,
		})
	}
}

func handleJoin(db *sql.DB, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.Name == "" || req.PIN == "" {
			writeError(w, http.StatusBadRequest, "name and pin are required")
			return
		}

		var id, token string
		err := db.QueryRowContext(r.Context(), `
			SELECT id, session_token FROM teams WHERE name = ? AND pin = ?
		`, req.Name, req.PIN).Scan(&id, &token)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "team not found or wrong pin")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := JoinResponse{Token: token, TeamID: id, TeamName: req.Name}

		if req.PlayerName != "" {
			err := db.QueryRowContext(r.Context(), `
				INSERT INTO players (name, team_id)
				VALUES (?, ?)
				RETURNING id
			`, req.PlayerName, id).Scan(&resp.PlayerID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			broker.Publish(teamTopic(id), Event{Type: "player_joined", PlayerName: req.PlayerName})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// handlePlayerCreate registers a player into the unassigned pool. Admins
// distribute pooled players across teams from the panel.
func handlePlayerCreate(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerCreateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		var id string
		err := db.QueryRowContext(r.Context(), `
			INSERT INTO players (name) VALUES (?) RETURNING id
		`, req.Name).Scan(&id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, PlayerCreateResponse{PlayerID: id, Name: req.Name})
	}
}
