package wire

import (
	"net/http"

	"car-rental/internal/adaptor"
	"car-rental/internal/data/repository"
	"car-rental/internal/usecase"
	"car-rental/pkg/middleware"
	"car-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes
func Wiring(repo *repository.Repository, config *utils.Config, cards usecase.CardGateway, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, cards, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireListing(r, handler.Listing)
	wireBooking(r, handler.Booking, config, logger)
	wirePayout(r, handler.Payout, config, logger)
	wireWebhook(r, handler.Webhook)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
