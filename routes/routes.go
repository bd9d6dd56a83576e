package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/palpitebox/bolao-system/handlers"
	"github.com/palpitebox/bolao-system/middleware"
)

// Options carries the route-level configuration the middlewares need.
type Options struct {
	JWTSecret    string
	AdminKeyHash string
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	matchHandler *handlers.MatchHandler,
	resolutionHandler *handlers.ResolutionHandler,
	standingsHandler *handlers.StandingsHandler,
	jackpotHandler *handlers.JackpotHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetMatchHandler)
		r.Get("/{matchID}/predictions", matchHandler.ListPredictionsHandler)

		// Participants need a valid token to play.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Post("/{matchID}/predictions", matchHandler.PlacePredictionHandler)
		})

		// Result entry is operator-only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminKey(opts.AdminKeyHash))
			r.Post("/", matchHandler.CreateMatchHandler)
			r.Post("/{matchID}/result", resolutionHandler.SubmitMatchResultHandler)
		})
	})

	router.Route("/rounds", func(r chi.Router) {
		r.Get("/{roundID}/matches", matchHandler.ListRoundMatchesHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminKey(opts.AdminKeyHash))
			r.Post("/{roundID}/finalize", resolutionHandler.FinalizeQuizRoundHandler)
		})
	})

	router.Route("/groups", func(r chi.Router) {
		r.Get("/{groupID}/standings", standingsHandler.GetGroupTableHandler)
		r.Get("/{groupID}/quota", standingsHandler.GetGroupQuotaHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminKey(opts.AdminKeyHash))
			r.Post("/{groupID}/standings/recompute", standingsHandler.RecomputeGroupTableHandler)
		})
	})

	router.Route("/competitions", func(r chi.Router) {
		r.Get("/{competitionID}/jackpot", jackpotHandler.GetCurrentJackpotHandler)
		r.Get("/{competitionID}/jackpot/history", jackpotHandler.GetJackpotHistoryHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Post("/{competitionID}/jackpot/stake", jackpotHandler.AddStakeHandler)
		})
	})

	router.Get("/ws/competitions/{competitionID}", webSocketHandler.ServeWs)
}
