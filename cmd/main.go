package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	_ "time/tzdata"

	"github.com/kabadi/intake-service/internal/app"
	"github.com/kabadi/intake-service/internal/config"
	"github.com/kabadi/intake-service/internal/controllers"
	"github.com/kabadi/intake-service/internal/metrics"
	"github.com/kabadi/intake-service/internal/middleware"
	"github.com/kabadi/intake-service/internal/routes"
	"github.com/kabadi/intake-service/internal/utils"
)

func main() {
	utils.InitLogger(appName())

	// 1) Config
	cfg := config.LoadConfig()
	defer cfg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2) Core application (store, services, dispatcher)
	application := app.NewApp(ctx, cfg)
	defer application.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newHandler(application),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("Server error:", err)
		}
	}()

	<-ctx.Done()
	utils.Logger.Info("Shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.WithError(err).Error("Graceful shutdown failed")
	}
}

func appName() string {
	if config.AppName != "" {
		return config.AppName
	}
	return "intake-service"
}

// newHandler builds the router and its middleware chain.
func newHandler(application *app.App) http.Handler {
	cfg := application.Config

	// Controllers
	healthCtrl := controllers.NewHealthController(application)
	submissionCtrl := controllers.NewSubmissionController(application.Submissions, application.Dispatcher, cfg.BrandName)

	// Router
	router := mux.NewRouter()
	router.Use(middleware.Metrics)

	router.Handle(routes.Metrics, metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc(routes.Live, healthCtrl.LiveHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Ready, healthCtrl.ReadyHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Health, healthCtrl.ReadyHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.PickupRequests, submissionCtrl.CreatePickupRequest).Methods(http.MethodPost)
	router.HandleFunc(routes.PickupRequests, submissionCtrl.ListPickupRequests).Methods(http.MethodGet)
	router.HandleFunc(routes.ContactMessages, submissionCtrl.CreateContactMessage).Methods(http.MethodPost)
	router.HandleFunc(routes.ContactMessages, submissionCtrl.ListContactMessages).Methods(http.MethodGet)
	router.HandleFunc(routes.CareerApplications, submissionCtrl.CreateCareerApplication).Methods(http.MethodPost)
	router.HandleFunc(routes.CareerApplications, submissionCtrl.ListCareerApplications).Methods(http.MethodGet)

	newsletterLimiter := middleware.RateLimitByClient(cfg.LDFlag_NewsletterRateLimitPerMinute, time.Minute)
	router.Handle(routes.NewsletterSubscriptions,
		newsletterLimiter(http.HandlerFunc(submissionCtrl.CreateNewsletterSubscription))).Methods(http.MethodPost)
	router.HandleFunc(routes.NewsletterSubscriptions, submissionCtrl.ListNewsletterSubscriptions).Methods(http.MethodGet)

	if !cfg.IsProduction() {
		router.HandleFunc(routes.TestNotifications, submissionCtrl.TestNotifications).Methods(http.MethodPost)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Not found", nil)
	})

	co := cors.New(corsOptions(cfg))

	apiLimiter := middleware.ForPrefix(routes.APIPrefix, middleware.RateLimitByClient(cfg.APIRateLimit, cfg.APIRateWindow))

	return middleware.Recovery(middleware.RequestLogger(co.Handler(apiLimiter(router))))
}

func corsOptions(cfg *config.Config) cors.Options {
	allowedOrigins := []string{}
	if cfg.AppUrl != "" {
		allowedOrigins = append(allowedOrigins, cfg.AppUrl)
	}
	if !cfg.LDFlag_CORSHighSecurity && !cfg.IsProduction() {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}
	opts := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}
	// rs/cors reads an empty origin list as allow-all.
	if len(allowedOrigins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return opts
}
