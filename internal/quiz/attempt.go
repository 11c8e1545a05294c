package quiz

import (
	"errors"
	"sync"
	"time"
)

// ErrNoHintsLeft is returned when a reveal is requested past the last
// non-empty hint.
var ErrNoHintsLeft = errors.New("no hints left to reveal")

// Attempt is the in-memory state of one team working on one question:
// when the question was first presented and how many hints have been
// revealed so far. Nothing is persisted until the answer is submitted, so
// abandoning a question mid-attempt leaves no record.
type Attempt struct {
	QuestionID    string
	StartedAt     time.Time
	HintsRevealed int
}

// Tracker keeps the live attempt per team. It is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	attempts map[string]*Attempt
	now      func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		attempts: make(map[string]*Attempt),
		now:      time.Now,
	}
}

// Begin arms an attempt for the team's current question if one is not
// already running, and returns a snapshot of it. Presenting the same
// question again does not restart the clock; moving on to a new question
// replaces the old attempt.
func (t *Tracker) Begin(teamID string, q Question) Attempt {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.attempts[teamID]
	if !ok || a.QuestionID != q.ID {
		a = &Attempt{QuestionID: q.ID, StartedAt: t.now()}
		t.attempts[teamID] = a
	}
	return *a
}

// RevealHint advances the team's hint counter by one and returns the newly
// visible hint text with the updated counter. Hints come out in ascending
// slot order and cannot be un-revealed.
func (t *Tracker) RevealHint(teamID string, q Question) (string, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.attempts[teamID]
	if !ok || a.QuestionID != q.ID {
		a = &Attempt{QuestionID: q.ID, StartedAt: t.now()}
		t.attempts[teamID] = a
	}

	texts := q.HintTexts()
	if a.HintsRevealed >= len(texts) {
		return "", a.HintsRevealed, ErrNoHintsLeft
	}

	text := texts[a.HintsRevealed]
	a.HintsRevealed++
	return text, a.HintsRevealed, nil
}

// Finish closes the team's attempt on the given question and returns the
// hints used and the elapsed whole seconds (fractions truncated, never
// rounded up). If no attempt was armed, both come back zero.
func (t *Tracker) Finish(teamID string, q Question) (hintsUsed, elapsedSeconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.attempts[teamID]
	if !ok || a.QuestionID != q.ID {
		return 0, 0
	}
	delete(t.attempts, teamID)

	elapsed := int(t.now().Sub(a.StartedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	return a.HintsRevealed, elapsed
}

// Reset discards any live attempt for the team. Used by the admin team
// reset so a stale clock does not leak into the restarted game.
func (t *Tracker) Reset(teamID string) {
	t.mu.Lock()
	delete(t.attempts, teamID)
	t.mu.Unlock()
}
