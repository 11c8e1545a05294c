package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/festhunt/treasurehunt/internal/importer"
	"github.com/festhunt/treasurehunt/internal/quiz"
)

func addRoutes(r chi.Router, logger *slog.Logger, opts Options) {
	broker := NewBroker()
	tracker := quiz.NewTracker()
	board := newLeaderboard(opts.DB, opts.Redis, opts.LeaderboardTTL)
	imp := importer.New(&sqlStore{db: opts.DB}, logger)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Treasure Hunt API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, opts.DB, opts.Redis))

	// Player routes, authenticated by the team session token.
	r.Route("/api", func(r chi.Router) {
		r.Post("/teams", handleTeamCreate(opts.DB, broker))
		r.Post("/join", handleJoin(opts.DB, broker))
		r.Post("/players", handlePlayerCreate(opts.DB))
		r.Get("/game/state", handleGameState(opts.DB, tracker))
		r.Post("/game/hint", handleHint(opts.DB, tracker))
		r.Post("/game/answer", handleAnswer(opts.DB, tracker, broker, board))
		r.Get("/game/events", handleEvents(opts.DB, broker))
		r.Get("/leaderboard", handleLeaderboard(board))
		r.Get("/leaderboard/events", handleLeaderboardEvents(broker))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", handleAdminLogin(opts.DB, opts.AdminPassword, opts.AdminPasswordHash))
			r.Post("/logout", handleAdminLogout(opts.DB))
			r.Get("/me", handleAdminMe(opts.DB))

			r.Group(func(r chi.Router) {
				r.Use(adminAuthMiddleware(opts.DB))

				r.Get("/questions", handleAdminListQuestions(opts.DB))
				r.Post("/questions", handleAdminCreateQuestion(opts.DB))
				r.Delete("/questions", handleAdminDeleteAllQuestions(opts.DB))
				r.Delete("/questions/{id}", handleAdminDeleteQuestion(opts.DB))
				r.Post("/questions/import", handleAdminImport(imp, board))
				r.Get("/questions/template", handleAdminTemplate())

				r.Get("/teams", handleAdminListTeams(opts.DB))
				r.Post("/teams/{id}/reset", handleAdminResetTeam(opts.DB, tracker, board, broker))
				r.Delete("/teams/{id}", handleAdminDeleteTeam(opts.DB, board))

				r.Get("/players", handleAdminListPlayers(opts.DB))
				r.Delete("/players/{id}", handleAdminDeletePlayer(opts.DB))
				r.Post("/players/{id}/unassign", handleAdminUnassignPlayer(opts.DB))
				r.Post("/players/assign", handleAdminAssignPlayers(opts.DB))

				r.Post("/uploads", handleUpload(logger, opts.UploadDir))
			})
		})
	})

	if opts.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/",
			http.FileServer(http.Dir(opts.UploadDir))))
	}

	if opts.SPADir != "" {
		if info, err := os.Stat(opts.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", opts.SPADir)
			r.NotFound(handleSPA(opts.SPADir))
		}
	}
}
