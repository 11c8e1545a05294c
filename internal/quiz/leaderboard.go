package quiz

import (
	"sort"
	"time"
)

// LeaderboardEntry is one team's row on the public standings board.
type LeaderboardEntry struct {
	TeamID            string     `json:"teamId"`
	Name              string     `json:"name"`
	TotalScore        int        `json:"totalScore"`
	QuestionsAnswered int        `json:"questionsAnswered"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	Players           []string   `json:"players,omitempty"`
}

// RankLeaderboard orders entries in place: highest score first, ties broken
// by earliest completion, teams still playing after finished teams with the
// same score. The sort is stable so equal teams keep their fetch order.
func RankLeaderboard(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		switch {
		case a.CompletedAt == nil && b.CompletedAt == nil:
			return false
		case a.CompletedAt == nil:
			return false
		case b.CompletedAt == nil:
			return true
		default:
			return a.CompletedAt.Before(*b.CompletedAt)
		}
	})
}
