// internal/wire/wire.go
package wire

import (
	"net/http"

	"expert-marketplace/internal/adaptor"
	"expert-marketplace/internal/data/repository"
	"expert-marketplace/internal/usecase"
	"expert-marketplace/pkg/events"
	"expert-marketplace/pkg/middleware"
	"expert-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface.
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and the router from the infrastructure
// main has already opened.
func Wiring(
	repo *repository.Repository,
	tx repository.Transactor,
	tokens utils.TokenManager,
	publisher events.Publisher,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, tx, tokens, publisher, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, tokens, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	tokens utils.TokenManager,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(middleware.CORSOptions(config.HTTP.AllowedOrigins)))

	auth := middleware.Auth(tokens, logger)

	// Apply routes
	wireAuth(r, handler.Auth)
	wireUser(r, handler.User, auth)
	wireExpert(r, handler.Expert)
	wireBooking(r, handler.Booking, auth)
	wireReview(r, handler.Review, auth)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
