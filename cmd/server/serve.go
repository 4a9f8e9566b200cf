package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assessments/internal/api"
	"assessments/internal/config"
	"assessments/internal/middleware"
	"assessments/internal/repository"
	"assessments/internal/service"
	"github.com/gorilla/handlers"
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	var withJobs bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP API (and the background jobs)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			if a.cfg.StoreDriver == config.DriverMemory {
				a.log.Warn("Using the in-memory document store; bookings are lost on restart")
			}

			if withJobs {
				c, err := a.jobService().Schedule(ctx, a.cfg.RepairCron, a.cfg.DigestCron)
				if err != nil {
					return err
				}
				c.Start()
				defer c.Stop()
				a.log.Info("Background jobs scheduled", "repair", a.cfg.RepairCron, "digest", a.cfg.DigestCron)
			}

			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           buildHandler(a),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.log.Info("Server running", "port", a.cfg.Port, "store", a.cfg.StoreDriver)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
			defer stop()
			a.log.Info("Shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&withJobs, "jobs", true, "run the cron jobs inside the server process")
	return cmd
}

func buildHandler(a *app) http.Handler {
	cfg, log := a.cfg, a.log
	bookings := repository.NewBookingRepository(a.store)
	payments := service.NewStripeService(cfg.StripeSecretKey)
	authSvc := service.NewAdminAuthService(service.AdminAuthConfig{
		ViewKey:     cfg.AdminViewKey,
		ViewKeyHash: cfg.AdminViewKeyHash,
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.AdminTokenTTL,
	})

	router := api.NewRouter(api.Handlers{
		User: api.NewUserBookingHandler(
			service.NewAvailabilityService(bookings, cfg.Hours),
			service.NewReservationService(bookings, payments, a.sender, cfg.Hours, log),
			log,
		),
		Checkout: api.NewCheckoutHandler(service.NewCheckoutService(payments, service.CheckoutConfig{
			SiteURL:     cfg.SiteURL,
			AmountCents: cfg.AssessmentPriceCents,
			Currency:    cfg.AssessmentCurrency,
		}, log), log),
		Fit: api.NewFitHandler(service.NewFitService(repository.NewFitRepository(a.store), a.sender, log), log),
		Admin: api.NewAdminHandler(
			service.NewAdminService(repository.NewAdminRepository(a.store), bookings, authSvc, a.sender, log),
			cfg.Hours.Location,
			log,
		),
		AdminAuth: api.NewAdminAuthHandler(authSvc, log),
		Tokens:    authSvc,
	},
		middleware.RequestLogging(log),
		middleware.Recovery(log),
		middleware.RequestTimeout(cfg.RequestTimeout),
	)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return handlers.ProxyHeaders(handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", middleware.RequestIDHeader}),
	)(router))
}
