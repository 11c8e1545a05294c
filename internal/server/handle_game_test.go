package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/festhunt/treasurehunt/internal/database"
	"github.com/festhunt/treasurehunt/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRouter(t *testing.T, db *sql.DB) *chi.Mux {
	t.Helper()

	r := chi.NewRouter()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	addRoutes(r, logger, Options{
		DB:             db,
		AdminPassword:  "christmas2024",
		LeaderboardTTL: time.Second,
	})
	return r
}

func seedFreeText(t *testing.T, db *sql.DB, order int, clue, answer string, hints ...string) string {
	t.Helper()

	var h [3]sql.NullString
	for i, hint := range hints {
		if i < 3 {
			h[i] = sql.NullString{String: hint, Valid: true}
		}
	}

	var id string
	err := db.QueryRow(`
		INSERT INTO questions (question_order, answer_mode, clue, answer, hint_1, hint_2, hint_3)
		VALUES (?, 'freetext', ?, ?, ?, ?, ?)
		RETURNING id
	`, order, clue, answer, h[0], h[1], h[2]).Scan(&id)
	if err != nil {
		t.Fatalf("seeding question: %v", err)
	}
	return id
}

func seedMCQ(t *testing.T, db *sql.DB, order int, clue string, labels []string, correct int) (questionID string, optionIDs []string) {
	t.Helper()

	var id string
	err := db.QueryRow(`
		INSERT INTO questions (question_order, answer_mode, clue, answer)
		VALUES (?, 'mcq', ?, ?)
		RETURNING id
	`, order, clue, labels[correct]).Scan(&id)
	if err != nil {
		t.Fatalf("seeding mcq question: %v", err)
	}

	ids := make([]string, len(labels))
	for i, label := range labels {
		err := db.QueryRow(`
			INSERT INTO question_options (question_id, label, normalized_label, is_correct, sort_order)
			VALUES (?, ?, lower(?), ?, ?)
			RETURNING id
		`, id, label, label, i == correct, i).Scan(&ids[i])
		if err != nil {
			t.Fatalf("seeding option: %v", err)
		}
	}
	return id, ids
}

func registerTeam(t *testing.T, r *chi.Mux, name, pin string) JoinResponse {
	t.Helper()

	body, _ := json.Marshal(TeamCreateRequest{Name: name, PIN: pin})
	req := httptest.NewRequest(http.MethodPost, "/api/teams", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("register team: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp JoinResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Token == "" {
		t.Fatal("register team: expected a session token")
	}
	return resp
}

func getState(t *testing.T, r *chi.Mux, token string) GameStateResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/game/state", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("state: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var state GameStateResponse
	json.NewDecoder(w.Body).Decode(&state)
	return state
}

func submitAnswer(t *testing.T, r *chi.Mux, token string, req AnswerRequest) AnswerResponse {
	t.Helper()

	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/api/game/answer", bytes.NewReader(body))
	httpReq.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	if w.Code != http.StatusOK {
		t.Fatalf("answer: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AnswerResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func TestTeamCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	tests := []struct {
		name string
		req  TeamCreateRequest
		want int
	}{
		{"missing name", TeamCreateRequest{PIN: "1234"}, http.StatusBadRequest},
		{"short pin", TeamCreateRequest{Name: "Reindeers", PIN: "12"}, http.StatusBadRequest},
		{"letters in pin", TeamCreateRequest{Name: "Reindeers", PIN: "12ab"}, http.StatusBadRequest},
		{"valid", TeamCreateRequest{Name: "Reindeers", PIN: "1234"}, http.StatusCreated},
		{"duplicate name", TeamCreateRequest{Name: "Reindeers", PIN: "5678"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.req)
			req := httptest.NewRequest(http.MethodPost, "/api/teams", bytes.NewReader(body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestJoinTeam(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)
	team := registerTeam(t, r, "Elves", "4321")

	// Rejoin with the right pin, registering a player.
	body, _ := json.Marshal(JoinRequest{Name: "Elves", PIN: "4321", PlayerName: "Maria"})
	req := httptest.NewRequest(http.MethodPost, "/api/join", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp JoinResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Token != team.Token {
		t.Error("join: expected the team's session token")
	}
	if resp.PlayerID == "" {
		t.Error("join: expected a player id")
	}

	// Wrong pin stays out.
	body, _ = json.Marshal(JoinRequest{Name: "Elves", PIN: "0000"})
	req = httptest.NewRequest(http.MethodPost, "/api/join", bytes.NewReader(body))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("wrong pin: expected 404, got %d", w.Code)
	}
}

func TestGameStateShowsCurrentQuestion(t *testing.T) {
	db := setupTestDB(t)
	seedFreeText(t, db, 1, "capital of France?", "Paris", "In Europe", "Eiffel Tower")
	seedFreeText(t, db, 2, "capital of Spain?", "Madrid")
	r := newTestRouter(t, db)
	team := registerTeam(t, r, "Elves", "1111")

	state := getState(t, r, team.Token)
	if state.TotalQuestions != 2 {
		t.Errorf("totalQuestions = %d, want 2", state.TotalQuestions)
	}
	if state.Question == nil {
		t.Fatal("expected a current question")
	}
	if state.Question.Number != 1 {
		t.Errorf("question number = %d, want 1", state.Question.Number)
	}
	if state.Question.Clue != "capital of France?" {
		t.Errorf("clue = %q", state.Question.Clue)
	}
	if state.Question.TotalHints != 2 {
		t.Errorf("totalHints = %d, want 2", state.Question.TotalHints)
	}
	if state.CurrentPoints != 100 {
		t.Errorf("currentPoints = %d, want 100", state.CurrentPoints)
	}
	if state.GameComplete {
		t.Error("game should not be complete")
	}
}

func TestHintFlow(t *testing.T) {
	db := setupTestDB(t)
	seedFreeText(t, db, 1, "capital of France?", "Paris", "In Europe", "Eiffel Tower")
	r := newTestRouter(t, db)
	team := registerTeam(t, r, "Elves", "1111")
	getState(t, r, team.Token)

	takeHint := func() (*httptest.ResponseRecorder, HintResponse) {
		req := httptest.NewRequest(http.MethodPost, "/api/game/hint", nil)
		req.Header.Set("Authorization", "Bearer "+team.Token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var resp HintResponse
		json.NewDecoder(w.Body).Decode(&resp)
		return w, resp
	}

	w, hint := takeHint()
	if w.Code != http.StatusOK {
		t.Fatalf("first hint: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if hint.Hint != "In Europe" || hint.HintsRevealed != 1 || hint.CurrentPoints != 80 {
		t.Errorf("first hint = %+v", hint)
	}

	w, hint = takeHint()
	if hint.Hint != "Eiffel Tower" || hint.CurrentPoints != 60 {
		t.Errorf("second hint = %+v", hint)
	}

	// Only two hints exist.
	w, _ = takeHint()
	if w.Code != http.StatusConflict {
		t.Errorf("exhausted hints: expected 409, got %d", w.Code)
	}

	// Points reflect the hints at submit time.
	resp := submitAnswer(t, r, team.Token, AnswerRequest{Answer: "paris"})
	if !resp.IsCorrect {
		t.Error("expected correct answer")
	}
	if resp.PointsAwarded != 60 {
		t.Errorf("pointsAwarded = %d, want 60", resp.PointsAwarded)
	}
}

func TestAnswerAdvancesOnWrong(t *testing.T) {
	db := setupTestDB(t)
	seedFreeText(t, db, 1, "capital of France?", "Paris")
	seedFreeText(t, db, 2, "capital of Spain?", "Madrid")
	r := newTestRouter(t, db)
	team := registerTeam(t, r, "Elves", "1111")
	getState(t, r, team.Token)

	resp := submitAnswer(t, r, team.Token, AnswerRequest{Answer: "London"})
	if resp.IsCorrect {
		t.Error("expected incorrect")
	}
	if resp.PointsAwarded != 0 {
		t.Errorf("pointsAwarded = %d, want 0", resp.PointsAwarded)
	}
	if resp.CorrectAnswer != "Paris" {
		t.Errorf("correctAnswer = %q, want revealed answer", resp.CorrectAnswer)
	}
	if resp.NextQuestion == nil || resp.NextQuestion.Number != 2 {
		t.Errorf("expected next question 2, got %+v", resp.NextQuestion)
	}

	// The wrong answer still moved the team forward.
	state := getState(t, r, team.Token)
	if state.Question == nil || state.Question.Number != 2 {
		t.Errorf("state question = %+v, want number 2", state.Question)
	}
}

func TestMCQAnswer(t *testing.T) {
	db := setupTestDB(t)
	_, optIDs := seedMCQ(t, db, 1, "Which city?", []string{"Barcelona", "Madrid", "Lisbon"}, 0)
	seedFreeText(t, db, 2, "capital of Spain?", "Madrid")
	r := newTestRouter(t, db)
	team := registerTeam(t, r, "Elves", "1111")

	state := getState(t, r, team.Token)
	if len(state.Question.Options) != 3 {
		t.Fatalf("options = %d, want 3", len(state.Question.Options))
	}

	resp := submitAnswer(t, r, team.Token, AnswerRequest{OptionID: optIDs[0]})
	if !resp.IsCorrect {
		t.Error("expected correct option")
	}
	if resp.PointsAwarded != 100 {
		t.Errorf("pointsAwarded = %d, want 100", resp.PointsAwarded)
	}
}

func TestCompleteHunt(t *testing.T) {
	db := setupTestDB(t)
	seedFreeText(t, db, 1, "capital of France?", "Paris")
	seedFreeText(t, db, 2, "capital of Spain?", "Madrid")
	r := newTestRouter(t, db)
	team := registerTeam(t, r, "Elves", "1111")
	getState(t, r, team.Token)

	submitAnswer(t, r, team.Token, AnswerRequest{Answer: "Paris"})
	resp := submitAnswer(t, r, team.Token, AnswerRequest{Answer: "Madrid"})
	if !resp.GameComplete {
		t.Error("expected gameComplete on last answer")
	}
	if resp.TotalScore != 200 {
		t.Errorf("totalScore = %d, want 200", resp.TotalScore)
	}

	state := getState(t, r, team.Token)
	if !state.GameComplete {
		t.Error("state should report completion")
	}
	if state.Question != nil {
		t.Error("no question should be in play after completion")
	}
	if state.Team.CompletedAt == nil {
		t.Error("expected a completion timestamp")
	}

	// Answering again is rejected.
	body, _ := json.Marshal(AnswerRequest{Answer: "anything"})
	req := httptest.NewRequest(http.MethodPost, "/api/game/answer", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+team.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("answer after completion: expected 409, got %d", w.Code)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	db := setupTestDB(t)
	seedFreeText(t, db, 1, "capital of France?", "Paris")
	r := newTestRouter(t, db)

	winners := registerTeam(t, r, "Winners", "1111")
	laggards := registerTeam(t, r, "Laggards", "2222")

	getState(t, r, winners.Token)
	submitAnswer(t, r, winners.Token, AnswerRequest{Answer: "Paris"})
	getState(t, r, laggards.Token)
	submitAnswer(t, r, laggards.Token, AnswerRequest{Answer: "nope"})

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d", w.Code)
	}

	var board LeaderboardResponse
	json.NewDecoder(w.Body).Decode(&board)
	if len(board.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(board.Entries))
	}
	if board.Entries[0].Name != "Winners" || board.Entries[0].TotalScore != 100 {
		t.Errorf("first entry = %+v", board.Entries[0])
	}
	if board.Entries[1].Name != "Laggards" || board.Entries[1].TotalScore != 0 {
		t.Errorf("second entry = %+v", board.Entries[1])
	}
	if board.Entries[0].QuestionsAnswered != 1 {
		t.Errorf("questionsAnswered = %d, want 1", board.Entries[0].QuestionsAnswered)
	}
}

func TestUnauthorizedAccess(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	// No token.
	req := httptest.NewRequest(http.MethodGet, "/api/game/state", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	// Bad token.
	req = httptest.NewRequest(http.MethodGet, "/api/game/state", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
