package importer

import "github.com/festhunt/treasurehunt/internal/quiz"

// Validate checks the parsed batch before anything touches the database.
// Validation stops at the first failing question so the admin gets one
// actionable error with its 1-based position.
func Validate(questions []QuestionImport) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range questions {
		pos := i + 1
		if q.Clue == "" {
			return &MissingRequiredFieldError{Position: pos, Field: "clue"}
		}
		if q.Answer == "" {
			return &MissingRequiredFieldError{Position: pos, Field: "answer"}
		}
		if q.AnswerMode == quiz.ModeFreeText {
			continue
		}
		if len(q.Options) < 2 {
			return &InsufficientOptionsError{Position: pos, Mode: string(q.AnswerMode), Count: len(q.Options)}
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return &CorrectOptionCountError{Position: pos, Found: correct}
		}
	}
	return nil
}
