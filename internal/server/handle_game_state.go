package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/festhunt/treasurehunt/internal/quiz"
)

type TeamInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	TotalScore  int     `json:"totalScore"`
	CompletedAt *string `json:"completedAt,omitempty"`
}

type OptionView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// QuestionView is the player-facing shape of a question. The answer and the
// per-option correctness flags never leave the server.
type QuestionView struct {
	ID         string       `json:"id"`
	Number     int          `json:"number"`
	RoundType  string       `json:"roundType"`
	AnswerMode string       `json:"answerMode"`
	Clue       string       `json:"clue"`
	ImageURL   string       `json:"imageUrl,omitempty"`
	AudioURL   string       `json:"audioUrl,omitempty"`
	Options    []OptionView `json:"options,omitempty"`
	TotalHints int          `json:"totalHints"`
	MaxPoints  int          `json:"maxPoints"`
}

type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type GameStateResponse struct {
	Team           TeamInfo      `json:"team"`
	TotalQuestions int           `json:"totalQuestions"`
	Question       *QuestionView `json:"question"`
	RevealedHints  []string      `json:"revealedHints"`
	HintsRevealed  int           `json:"hintsRevealed"`
	CurrentPoints  int           `json:"currentPoints"`
	GameComplete   bool          `json:"gameComplete"`
	Players        []PlayerInfo  `json:"players"`
}

func handleGameState(db *sql.DB, tracker *quiz.Tracker) http.HandlerFunc {
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

		resp := GameStateResponse{
			Team:           teamInfo(team),
			TotalQuestions: total,
			RevealedHints:  []string{},
			GameComplete:   total > 0 && team.CurrentQuestionIndex >= total,
		}

		if !resp.GameComplete && total > 0 {
			q, err := questionAt(r.Context(), db, team.CurrentQuestionIndex)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			// Presenting the question starts (or resumes) the attempt clock.
			att := tracker.Begin(team.ID, q)
			view := questionView(q, team.CurrentQuestionIndex)
			resp.Question = &view
			resp.HintsRevealed = att.HintsRevealed
			resp.RevealedHints = append(resp.RevealedHints, q.HintTexts()[:att.HintsRevealed]...)
			resp.CurrentPoints = quiz.CurrentPoints(q, att.HintsRevealed)
		}

		resp.Players, err = teamPlayers(r.Context(), db, team.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func teamInfo(t quiz.Team) TeamInfo {
	info := TeamInfo{ID: t.ID, Name: t.Name, TotalScore: t.TotalScore}
	if t.CompletedAt != nil {
		s := t.CompletedAt.UTC().Format("2006-01-02T15:04:05.000Z")
		info.CompletedAt = &s
	}
	return info
}

func questionView(q quiz.Question, index int) QuestionView {
	view := QuestionView{
		ID:         q.ID,
		Number:     index + 1,
		RoundType:  string(q.RoundType),
		AnswerMode: string(q.AnswerMode),
		Clue:       q.Clue,
		ImageURL:   q.ImageURL,
		AudioURL:   q.AudioURL,
		TotalHints: q.AvailableHints(),
		MaxPoints:  q.MaxPoints,
	}
	for _, opt := range q.Options {
		view.Options = append(view.Options, OptionView{ID: opt.ID, Label: opt.Label})
	}
	return view
}

func teamPlayers(ctx context.Context, db *sql.DB, teamID string) ([]PlayerInfo, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name FROM players WHERE team_id = ? ORDER BY created_at
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []PlayerInfo{}
	for rows.Next() {
		var p PlayerInfo
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
