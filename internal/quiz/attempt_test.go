package quiz

import (
	"errors"
	"testing"
	"time"
)

func trackerAt(start time.Time) (*Tracker, *time.Time) {
	now := start
	tr := NewTracker()
	tr.now = func() time.Time { return now }
	return tr, &now
}

func TestTrackerHintProgression(t *testing.T) {
	tr, _ := trackerAt(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	q := textQuestion(100, [3]int{20, 20, 20})

	text, n, err := tr.RevealHint("team1", q)
	if err != nil {
		t.Fatalf("first reveal: %v", err)
	}
	if text != "It is in Europe" || n != 1 {
		t.Errorf("first reveal = (%q, %d)", text, n)
	}

	text, n, err = tr.RevealHint("team1", q)
	if err != nil {
		t.Fatalf("second reveal: %v", err)
	}
	if text != "Eiffel Tower" || n != 2 {
		t.Errorf("second reveal = (%q, %d)", text, n)
	}

	if _, _, err := tr.RevealHint("team1", q); err != nil {
		t.Fatalf("third reveal: %v", err)
	}
	_, n, err = tr.RevealHint("team1", q)
	if !errors.Is(err, ErrNoHintsLeft) {
		t.Fatalf("fourth reveal err = %v, want ErrNoHintsLeft", err)
	}
	if n != 3 {
		t.Errorf("counter after exhaustion = %d, want 3", n)
	}
}

func TestTrackerSkipsEmptySlots(t *testing.T) {
	tr, _ := trackerAt(time.Now())
	q := textQuestion(100, [3]int{20, 20, 20})
	q.Hints = [3]string{"", "middle hint", ""}

	text, n, err := tr.RevealHint("team1", q)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if text != "middle hint" || n != 1 {
		t.Errorf("reveal = (%q, %d)", text, n)
	}
	if _, _, err := tr.RevealHint("team1", q); !errors.Is(err, ErrNoHintsLeft) {
		t.Errorf("second reveal err = %v, want ErrNoHintsLeft", err)
	}
}

func TestTrackerElapsedTruncates(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr, now := trackerAt(start)
	q := textQuestion(100, [3]int{20, 20, 20})

	tr.Begin("team1", q)
	*now = start.Add(42*time.Second + 900*time.Millisecond)

	hints, elapsed := tr.Finish("team1", q)
	if hints != 0 {
		t.Errorf("hints = %d, want 0", hints)
	}
	if elapsed != 42 {
		t.Errorf("elapsed = %d, want 42 (truncated)", elapsed)
	}
}

func TestTrackerBeginDoesNotRestartClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr, now := trackerAt(start)
	q := textQuestion(100, [3]int{20, 20, 20})

	tr.Begin("team1", q)
	*now = start.Add(10 * time.Second)
	tr.Begin("team1", q) // page refresh
	*now = start.Add(30 * time.Second)

	if _, elapsed := tr.Finish("team1", q); elapsed != 30 {
		t.Errorf("elapsed = %d, want 30", elapsed)
	}
}

func TestTrackerNewQuestionReplacesAttempt(t *testing.T) {
	tr, _ := trackerAt(time.Now())
	q1 := textQuestion(100, [3]int{20, 20, 20})
	q2 := textQuestion(100, [3]int{20, 20, 20})
	q2.ID = "q2"

	if _, _, err := tr.RevealHint("team1", q1); err != nil {
		t.Fatalf("reveal on q1: %v", err)
	}
	a := tr.Begin("team1", q2)
	if a.QuestionID != "q2" || a.HintsRevealed != 0 {
		t.Errorf("attempt after question change = %+v", a)
	}
}

func TestTrackerFinishWithoutBegin(t *testing.T) {
	tr, _ := trackerAt(time.Now())
	q := textQuestion(100, [3]int{20, 20, 20})

	hints, elapsed := tr.Finish("ghost", q)
	if hints != 0 || elapsed != 0 {
		t.Errorf("Finish without Begin = (%d, %d), want zeros", hints, elapsed)
	}
}

func TestTrackerReset(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr, now := trackerAt(start)
	q := textQuestion(100, [3]int{20, 20, 20})

	tr.Begin("team1", q)
	if _, _, err := tr.RevealHint("team1", q); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	tr.Reset("team1")

	*now = start.Add(time.Minute)
	a := tr.Begin("team1", q)
	if a.HintsRevealed != 0 {
		t.Errorf("hints after reset = %d, want 0", a.HintsRevealed)
	}
	if !a.StartedAt.Equal(start.Add(time.Minute)) {
		t.Errorf("clock did not re-arm after reset: %v", a.StartedAt)
	}
}
