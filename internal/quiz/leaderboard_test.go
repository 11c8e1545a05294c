package quiz

import (
	"testing"
	"time"
)

func TestRankLeaderboard(t *testing.T) {
	early := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	entries := []LeaderboardEntry{
		{Name: "still playing", TotalScore: 300},
		{Name: "slow finisher", TotalScore: 300, CompletedAt: &late},
		{Name: "fast finisher", TotalScore: 300, CompletedAt: &early},
		{Name: "leader", TotalScore: 450},
		{Name: "trailing", TotalScore: 120},
	}
	RankLeaderboard(entries)

	want := []string{"leader", "fast finisher", "slow finisher", "still playing", "trailing"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, entries[i].Name, name)
		}
	}
}

func TestRankLeaderboardStable(t *testing.T) {
	entries := []LeaderboardEntry{
		{Name: "alpha", TotalScore: 200},
		{Name: "beta", TotalScore: 200},
		{Name: "gamma", TotalScore: 200},
	}
	RankLeaderboard(entries)

	want := []string{"alpha", "beta", "gamma"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("position %d = %q, want %q (stable order)", i, entries[i].Name, name)
		}
	}
}
