package server

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/festhunt/treasurehunt/internal/importer"
	"github.com/festhunt/treasurehunt/internal/quiz"
)

var ErrNotFound = errors.New("not found")

func questionCount(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n)
	return n, err
}

// questionAt loads the question at the given zero-based position in the
// hunt, options included. Gaps in question_order do not matter; position
// follows the sorted order.
func questionAt(ctx context.Context, db *sql.DB, index int) (quiz.Question, error) {
	var q quiz.Question
	var roundType, answerMode string
	var h1, h2, h3, imageURL, audioURL sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, question_order, round_type, answer_mode, clue, answer,
			hint_1, hint_2, hint_3,
			max_points, hint_1_penalty, hint_2_penalty, hint_3_penalty,
			image_url, audio_url
		FROM questions
		ORDER BY question_order
		LIMIT 1 OFFSET ?
	`, index).Scan(&q.ID, &q.Order, &roundType, &answerMode, &q.Clue, &q.Answer,
		&h1, &h2, &h3,
		&q.MaxPoints, &q.Penalties[0], &q.Penalties[1], &q.Penalties[2],
		&imageURL, &audioURL)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Question{}, ErrNotFound
	}
	if err != nil {
		return quiz.Question{}, err
	}

	q.RoundType = quiz.ParseRoundType(roundType)
	q.AnswerMode = quiz.ParseAnswerMode(answerMode)
	q.Hints = [3]string{h1.String, h2.String, h3.String}
	q.ImageURL = imageURL.String
	q.AudioURL = audioURL.String

	q.Options, err = questionOptions(ctx, db, q.ID)
	return q, err
}

func questionOptions(ctx context.Context, db *sql.DB, questionID string) ([]quiz.Option, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, label, normalized_label, is_correct, sort_order
		FROM question_options
		WHERE question_id = ?
		ORDER BY sort_order
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opts []quiz.Option
	for rows.Next() {
		var o quiz.Option
		if err := rows.Scan(&o.ID, &o.Label, &o.NormalizedLabel, &o.IsCorrect, &o.SortOrder); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func teamFromToken(ctx context.Context, db *sql.DB, token string) (quiz.Team, error) {
	var t quiz.Team
	var completedAt sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, name, pin, current_question_index, total_score, completed_at
		FROM teams
		WHERE session_token = ?
	`, token).Scan(&t.ID, &t.Name, &t.PIN, &t.CurrentQuestionIndex, &t.TotalScore, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Team{}, ErrNotFound
	}
	if err != nil {
		return quiz.Team{}, err
	}
	if completedAt.Valid {
		if ts, perr := parseDBTime(completedAt.String); perr == nil {
			t.CompletedAt = &ts
		}
	}
	return t, nil
}

// sqlStore adapts the database to the importer's persistence surface.
type sqlStore struct {
	db *sql.DB
}

func (s *sqlStore) QuestionCount(ctx context.Context) (int, error) {
	return questionCount(ctx, s.db)
}

func (s *sqlStore) DeleteAllQuestions(ctx context.Context) error {
	// Options go with their questions via ON DELETE CASCADE.
	_, err := s.db.ExecContext(ctx, `DELETE FROM questions`)
	return err
}

func (s *sqlStore) InsertQuestion(ctx context.Context, q importer.QuestionImport) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO questions (question_order, round_type, answer_mode, clue, answer,
			hint_1, hint_2, hint_3,
			max_points, hint_1_penalty, hint_2_penalty, hint_3_penalty,
			image_url, audio_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, q.Order, string(q.RoundType), string(q.AnswerMode), q.Clue, q.Answer,
		nullable(q.Hints[0]), nullable(q.Hints[1]), nullable(q.Hints[2]),
		q.MaxPoints, q.Penalties[0], q.Penalties[1], q.Penalties[2],
		nullable(q.ImageURL), nullable(q.AudioURL)).Scan(&id)
	return id, err
}

func (s *sqlStore) InsertOptions(ctx context.Context, questionID string, opts []importer.OptionImport) error {
	for _, o := range opts {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO question_options (question_id, label, normalized_label, is_correct, sort_order)
			VALUES (?, ?, ?, ?, ?)
		`, questionID, o.Label, quiz.NormalizeLabel(o.Label), o.IsCorrect, o.SortOrder)
		if err != nil {
			return err
		}
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// parseDBTime reads the strftime format the schema defaults write.
func parseDBTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
