package quiz

import "strings"

// MinimumPoints is the floor on what a question can still be worth. Revealing
// hints never drives the reward below this, no matter how steep the
// penalties: a correct answer always pays something.
const MinimumPoints = 10

// CurrentPoints returns what the question is worth after hintsRevealed hint
// reveals. Penalties apply in slot order and the result never drops below
// MinimumPoints.
func CurrentPoints(q Question, hintsRevealed int) int {
	if hintsRevealed < 0 {
		hintsRevealed = 0
	}
	if max := q.AvailableHints(); hintsRevealed > max {
		hintsRevealed = max
	}

	points := q.MaxPoints
	for i := 0; i < hintsRevealed; i++ {
		points -= q.Penalties[i]
	}
	if points < MinimumPoints {
		return MinimumPoints
	}
	return points
}

// Submission is a player's answer to a question. Text carries the free-text
// answer; OptionID carries the chosen option for mcq and typeahead modes.
type Submission struct {
	Text     string
	OptionID string
}

// Evaluate reports whether the submission answers the question correctly.
// Dispatch is by answer mode; each mode has its own evaluation function.
// Pure and deterministic.
func Evaluate(q Question, sub Submission) bool {
	switch q.AnswerMode {
	case ModeMCQ, ModeTypeahead:
		return evaluateOption(q, sub)
	default:
		return evaluateFreeText(q, sub)
	}
}

// evaluateFreeText compares the submitted text against the stored answer,
// lowercased and trimmed on both sides. Exact equality only.
func evaluateFreeText(q Question, sub Submission) bool {
	return NormalizeLabel(sub.Text) == NormalizeLabel(q.Answer)
}

// evaluateOption is correct iff the submitted option identity belongs to
// this question and carries the correctness flag. A missing or unknown
// option is simply incorrect, not an error.
func evaluateOption(q Question, sub Submission) bool {
	id := strings.TrimSpace(sub.OptionID)
	if id == "" {
		return false
	}
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt.IsCorrect
		}
	}
	return false
}
