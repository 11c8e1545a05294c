package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"
)

// handleEvents streams team-scoped events. EventSource cannot set headers,
// so the session token comes in as a query parameter.
func handleEvents(db *sql.DB, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "token query parameter required")
			return
		}

		team, err := teamFromToken(r.Context(), db, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}

		streamTopic(w, r, broker, teamTopic(team.ID))
	}
}

// handleLeaderboardEvents streams the public leaderboard topic, unauthenticated
// so TV displays can subscribe directly.
func handleLeaderboardEvents(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamTopic(w, r, broker, leaderboardTopic)
	}
}

func streamTopic(w http.ResponseWriter, r *http.Request, broker *Broker, topic string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	flusher.Flush()

	ch := broker.Subscribe(topic)
	defer broker.Unsubscribe(topic, ch)

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-ch:
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
			flusher.Flush()
		case <-ping.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
