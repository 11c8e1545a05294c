package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/festhunt/treasurehunt/internal/quiz"
)

const leaderboardCacheKey = "leaderboard:v1"

// leaderboard serves ranked standings, optionally through a short-TTL redis
// cache. The TV display polls this endpoint on every SSE nudge, so one
// cached copy absorbs the stampede; singleflight collapses concurrent
// cache-miss fills into a single query.
type leaderboard struct {
	db  *sql.DB
	rdb *redis.Client
	ttl time.Duration
	sf  singleflight.Group
}

func newLeaderboard(db *sql.DB, rdb *redis.Client, ttl time.Duration) *leaderboard {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &leaderboard{db: db, rdb: rdb, ttl: ttl}
}

func (l *leaderboard) Entries(ctx context.Context) ([]quiz.LeaderboardEntry, error) {
	if l.rdb == nil {
		return l.query(ctx)
	}

	if data, err := l.rdb.Get(ctx, leaderboardCacheKey).Bytes(); err == nil {
		var entries []quiz.LeaderboardEntry
		if json.Unmarshal(data, &entries) == nil {
			return entries, nil
		}
	}

	v, err, _ := l.sf.Do(leaderboardCacheKey, func() (any, error) {
		entries, err := l.query(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(entries); err == nil {
			l.rdb.Set(ctx, leaderboardCacheKey, data, l.ttl)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]quiz.LeaderboardEntry), nil
}

// Invalidate drops the cached standings after anything score-relevant.
func (l *leaderboard) Invalidate(ctx context.Context) {
	if l.rdb != nil {
		l.rdb.Del(ctx, leaderboardCacheKey)
	}
}

func (l *leaderboard) query(ctx context.Context) ([]quiz.LeaderboardEntry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.total_score, t.completed_at,
			(SELECT COUNT(*) FROM team_progress p WHERE p.team_id = t.id)
		FROM teams t
		ORDER BY t.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []quiz.LeaderboardEntry{}
	for rows.Next() {
		var e quiz.LeaderboardEntry
		var completedAt sql.NullString
		if err := rows.Scan(&e.TeamID, &e.Name, &e.TotalScore, &completedAt, &e.QuestionsAnswered); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			if ts, perr := parseDBTime(completedAt.String); perr == nil {
				e.CompletedAt = &ts
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := l.attachPlayers(ctx, entries); err != nil {
		return nil, err
	}

	quiz.RankLeaderboard(entries)
	return entries, nil
}

func (l *leaderboard) attachPlayers(ctx context.Context, entries []quiz.LeaderboardEntry) error {
	rows, err := l.db.QueryContext(ctx, `
		SELECT team_id, name FROM players WHERE team_id IS NOT NULL ORDER BY created_at
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	byTeam := make(map[string][]string)
	for rows.Next() {
		var teamID, name string
		if err := rows.Scan(&teamID, &name); err != nil {
			return err
		}
		byTeam[teamID] = append(byTeam[teamID], name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range entries {
		entries[i].Players = byTeam[entries[i].TeamID]
	}
	return nil
}

type LeaderboardResponse struct {
	Entries []quiz.LeaderboardEntry `json:"entries"`
}

func handleLeaderboard(board *leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := board.Entries(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{Entries: entries})
	}
}
