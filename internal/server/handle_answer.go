package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/festhunt/treasurehunt/internal/quiz"
)

type AnswerRequest struct {
	Answer   string `json:"answer,omitempty"`
	OptionID string `json:"optionId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
}

type AnswerResponse struct {
	IsCorrect      bool          `json:"isCorrect"`
	PointsAwarded  int           `json:"pointsAwarded"`
	CorrectAnswer  string        `json:"correctAnswer,omitempty"`
	QuestionNumber int           `json:"questionNumber"`
	TotalScore     int           `json:"totalScore"`
	GameComplete   bool          `json:"gameComplete"`
	NextQuestion   *QuestionView `json:"nextQuestion,omitempty"`
}

func handleAnswer(db *sql.DB, tracker *quiz.Tracker, broker *Broker, board *leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := teamFromRequest(r, db)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Answer = strings.TrimSpace(req.Answer)
		req.OptionID = strings.TrimSpace(req.OptionID)
		if req.Answer == "" && req.OptionID == "" {
			writeError(w, http.StatusBadRequest, "answer or optionId is required")
			return
		}

		total, err := questionCount(r.Context(), db)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if total == 0 || team.CurrentQuestionIndex >= total {
			writeError(w, http.StatusConflict, "hunt already completed")
			return
		}

		q, err := questionAt(r.Context(), db, team.CurrentQuestionIndex)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		isCorrect := quiz.Evaluate(q, quiz.Submission{Text: req.Answer, OptionID: req.OptionID})
		hintsUsed, elapsed := tracker.Finish(team.ID, q)

		points := 0
		if isCorrect {
			points = quiz.CurrentPoints(q, hintsUsed)
		}

		questionNumber := team.CurrentQuestionIndex + 1
		isLast := questionNumber == total

		tx, err := db.BeginTx(r.Context(), nil)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		defer tx.Rollback()

		// The index guard makes the submit idempotent under double-clicks
		// and racing teammates: only one submission advances the team.
		res, err := tx.ExecContext(r.Context(), `
			UPDATE teams
			SET current_question_index = current_question_index + 1,
				total_score = total_score + ?,
				completed_at = CASE WHEN ? THEN strftime('%Y-%m-%dT%H:%M:%fZ', 'now') ELSE completed_at END
			WHERE id = ? AND current_question_index = ?
		`, points, isLast, team.ID, team.CurrentQuestionIndex)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			writeError(w, http.StatusConflict, "answer already submitted for this question")
			return
		}

		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO team_progress (team_id, question_id, hints_used, points_earned, time_taken_seconds)
			VALUES (?, ?, ?, ?, ?)
		`, team.ID, q.ID, hintsUsed, points, elapsed)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO player_answers (team_id, question_id, player_id, selected_option_id, free_text_answer, is_correct, points_awarded, hints_used)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, team.ID, q.ID, nullable(req.PlayerID), nullable(req.OptionID), nullable(req.Answer), isCorrect, points, hintsUsed)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := tx.Commit(); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := AnswerResponse{
			IsCorrect:      isCorrect,
			PointsAwarded:  points,
			QuestionNumber: questionNumber,
			TotalScore:     team.TotalScore + points,
			GameComplete:   isLast,
		}
		if !isCorrect {
			resp.CorrectAnswer = q.Answer
		}

		// Both correct and incorrect answers advance; present the next clue
		// right away so its clock starts now.
		if !isLast {
			next, err := questionAt(r.Context(), db, team.CurrentQuestionIndex+1)
			if err == nil {
				tracker.Begin(team.ID, next)
				view := questionView(next, team.CurrentQuestionIndex+1)
				resp.NextQuestion = &view
			} else if !errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		event := Event{
			Type:           "answer_submitted",
			TeamID:         team.ID,
			TeamName:       team.Name,
			QuestionNumber: questionNumber,
			IsCorrect:      isCorrect,
			PointsAwarded:  points,
		}
		if isLast {
			event.Type = "hunt_completed"
		}
		broker.Publish(teamTopic(team.ID), event)
		broker.Publish(leaderboardTopic, event)
		board.Invalidate(r.Context())

		writeJSON(w, http.StatusOK, resp)
	}
}
