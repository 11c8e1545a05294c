package server

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/festhunt/treasurehunt/internal/quiz"
)

// AdminOptionItem is an option with its correctness flag, admin eyes only.
type AdminOptionItem struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	IsCorrect bool   `json:"isCorrect"`
	SortOrder int    `json:"sortOrder"`
}

// AdminQuestionDetail is the full question, answer included.
type AdminQuestionDetail struct {
	ID           string            `json:"id"`
	Order        int               `json:"order"`
	RoundType    string            `json:"roundType"`
	AnswerMode   string            `json:"answerMode"`
	Clue         string            `json:"clue"`
	Answer       string            `json:"answer"`
	Hints        []string          `json:"hints"`
	Penalties    []int             `json:"penalties"`
	MaxPoints    int               `json:"maxPoints"`
	ImageURL     string            `json:"imageUrl,omitempty"`
	AudioURL     string            `json:"audioUrl,omitempty"`
	Options      []AdminOptionItem `json:"options"`
	CreatedAt    string            `json:"createdAt"`
}

// AdminOptionRequest is one option in a create request.
type AdminOptionRequest struct {
	Label     string `json:"label"`
	IsCorrect bool   `json:"isCorrect"`
}

// AdminQuestionRequest is the request body for creating a question.
// Penalties are pointers so an explicit zero survives the default.
type AdminQuestionRequest struct {
	RoundType    string               `json:"roundType"`
	AnswerMode   string               `json:"answerMode"`
	Clue         string               `json:"clue"`
	Answer       string               `json:"answer"`
	Hint1        string               `json:"hint1"`
	Hint2        string               `json:"hint2"`
	Hint3        string               `json:"hint3"`
	Hint1Penalty *int                 `json:"hint1Penalty"`
	Hint2Penalty *int                 `json:"hint2Penalty"`
	Hint3Penalty *int                 `json:"hint3Penalty"`
	MaxPoints    int                  `json:"maxPoints"`
	ImageURL     string               `json:"imageUrl"`
	AudioURL     string               `json:"audioUrl"`
	Options      []AdminOptionRequest `json:"options"`
}

func (req *AdminQuestionRequest) validate() string {
	req.Clue = strings.TrimSpace(req.Clue)
	req.Answer = strings.TrimSpace(req.Answer)
	if req.Clue == "" {
		return "clue is required"
	}
	if req.Answer == "" {
		return "answer is required"
	}
	if req.MaxPoints <= 0 {
		req.MaxPoints = 100
	}

	mode := quiz.ParseAnswerMode(req.AnswerMode)
	if mode == quiz.ModeFreeText {
		return ""
	}
	if len(req.Options) < 2 {
		return "mcq and typeahead questions need at least 2 options"
	}
	correct := 0
	for i := range req.Options {
		req.Options[i].Label = strings.TrimSpace(req.Options[i].Label)
		if req.Options[i].Label == "" {
			return "option labels must not be empty"
		}
		if req.Options[i].IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return "exactly one option must be marked correct"
	}
	return ""
}

func (req *AdminQuestionRequest) penalty(slot int) int {
	p := [3]*int{req.Hint1Penalty, req.Hint2Penalty, req.Hint3Penalty}[slot]
	if p == nil || *p < 0 {
		return 20
	}
	return *p
}

func handleAdminListQuestions(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questions, err := queryAdminQuestions(r.Context(), db)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, questions)
	}
}

func handleAdminCreateQuestion(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminQuestionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		roundType := quiz.ParseRoundType(req.RoundType)
		mode := quiz.ParseAnswerMode(req.AnswerMode)

		var id, createdAt string
		var order int
		err := db.QueryRowContext(r.Context(), `
			INSERT INTO questions (question_order, round_type, answer_mode, clue, answer,
				hint_1, hint_2, hint_3,
				max_points, hint_1_penalty, hint_2_penalty, hint_3_penalty,
				image_url, audio_url)
			VALUES ((SELECT COALESCE(MAX(question_order), 0) + 1 FROM questions),
				?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id, question_order, created_at
		`, string(roundType), string(mode), req.Clue, req.Answer,
			nullable(strings.TrimSpace(req.Hint1)), nullable(strings.TrimSpace(req.Hint2)), nullable(strings.TrimSpace(req.Hint3)),
			req.MaxPoints, req.penalty(0), req.penalty(1), req.penalty(2),
			nullable(strings.TrimSpace(req.ImageURL)), nullable(strings.TrimSpace(req.AudioURL))).Scan(&id, &order, &createdAt)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		detail := AdminQuestionDetail{
			ID:         id,
			Order:      order,
			RoundType:  string(roundType),
			AnswerMode: string(mode),
			Clue:       req.Clue,
			Answer:     req.Answer,
			Hints:      []string{req.Hint1, req.Hint2, req.Hint3},
			Penalties:  []int{req.penalty(0), req.penalty(1), req.penalty(2)},
			MaxPoints:  req.MaxPoints,
			ImageURL:   req.ImageURL,
			AudioURL:   req.AudioURL,
			Options:    []AdminOptionItem{},
			CreatedAt:  createdAt,
		}

		for i, opt := range req.Options {
			var optID string
			err := db.QueryRowContext(r.Context(), `
				INSERT INTO question_options (question_id, label, normalized_label, is_correct, sort_order)
				VALUES (?, ?, ?, ?, ?)
				RETURNING id
			`, id, opt.Label, quiz.NormalizeLabel(opt.Label), opt.IsCorrect, i).Scan(&optID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			detail.Options = append(detail.Options, AdminOptionItem{
				ID:        optID,
				Label:     opt.Label,
				IsCorrect: opt.IsCorrect,
				SortOrder: i,
			})
		}

		writeJSON(w, http.StatusCreated, detail)
	}
}

func handleAdminDeleteQuestion(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		result, err := db.ExecContext(r.Context(), `DELETE FROM questions WHERE id = ?`, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleAdminDeleteAllQuestions(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := db.ExecContext(r.Context(), `DELETE FROM questions`)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		deleted, _ := result.RowsAffected()

		writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
	}
}

// queryAdminQuestions returns all questions with options, ordered by position.
func queryAdminQuestions(ctx context.Context, db *sql.DB) ([]AdminQuestionDetail, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, question_order, round_type, answer_mode, clue, answer,
			COALESCE(hint_1, ''), COALESCE(hint_2, ''), COALESCE(hint_3, ''),
			max_points, hint_1_penalty, hint_2_penalty, hint_3_penalty,
			COALESCE(image_url, ''), COALESCE(audio_url, ''), created_at
		FROM questions
		ORDER BY question_order
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []AdminQuestionDetail{}
	index := make(map[string]int)
	for rows.Next() {
		q := AdminQuestionDetail{
			Hints:     make([]string, 3),
			Penalties: make([]int, 3),
			Options:   []AdminOptionItem{},
		}
		err := rows.Scan(&q.ID, &q.Order, &q.RoundType, &q.AnswerMode, &q.Clue, &q.Answer,
			&q.Hints[0], &q.Hints[1], &q.Hints[2],
			&q.MaxPoints, &q.Penalties[0], &q.Penalties[1], &q.Penalties[2],
			&q.ImageURL, &q.AudioURL, &q.CreatedAt)
		if err != nil {
			return nil, err
		}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	optRows, err := db.QueryContext(ctx, `
		SELECT question_id, id, label, is_correct, sort_order
		FROM question_options
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, err
	}
	defer optRows.Close()

	for optRows.Next() {
		var questionID string
		var o AdminOptionItem
		if err := optRows.Scan(&questionID, &o.ID, &o.Label, &o.IsCorrect, &o.SortOrder); err != nil {
			return nil, err
		}
		if i, ok := index[questionID]; ok {
			questions[i].Options = append(questions[i].Options, o)
		}
	}
	return questions, optRows.Err()
}
