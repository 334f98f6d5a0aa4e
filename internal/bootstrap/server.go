package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/reefcrew/seabooking/api"
	"github.com/reefcrew/seabooking/config"
	"github.com/reefcrew/seabooking/internal/service/booking"
	"github.com/reefcrew/seabooking/internal/service/trips"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, tripSvc trips.TripUseCase, bookingSvc booking.BookingUseCase) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, tripSvc, bookingSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newRouter(cfg *config.Config, tripSvc trips.TripUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	router := gin.Default()

	activities := api.NewActivityHandler(tripSvc)
	activities.Register(router.Group("/activities"))

	bookings := api.NewBookingHandler(bookingSvc)
	bookings.Register(router.Group("/"))

	status := api.NewTripStatusHandler(tripSvc)
	status.Register(router.Group("/"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFile("/swagger/doc.json", cfg.HTTP.SwaggerDir+"/swagger.json")
		router.GET("/docs/*any", gin.WrapH(http.StripPrefix("/docs", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))))
	}

	return router
}
