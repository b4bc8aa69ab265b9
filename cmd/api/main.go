package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ironxpress/admin-backend/internal/config"
	"github.com/ironxpress/admin-backend/internal/modules/analytics"
	"github.com/ironxpress/admin-backend/internal/modules/auth"
	"github.com/ironxpress/admin-backend/internal/modules/catalog"
	"github.com/ironxpress/admin-backend/internal/modules/customer"
	"github.com/ironxpress/admin-backend/internal/modules/order"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// The console reads money fields as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("ping database")
	}

	if err := runMigrations(cfg); err != nil {
		log.WithError(err).Fatal("run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The orders trigger publishes to this channel; the listener reconnects
	// on its own and its events surface only as logged degraded state.
	listener := pq.NewListener(cfg.DatabaseURL, cfg.FeedMinReconnect, cfg.FeedMaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.WithError(err).Warn("order feed listener event")
			}
		})
	defer listener.Close()
	if err := listener.Listen(order.NotifyChannel); err != nil {
		log.WithError(err).Fatal("listen for order changes")
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, cfg.JWTSecret)
	authorizer := auth.NewAuthorizer(cfg.JWTSecret)
	auth.NewHandler(authService).RegisterRoutes(router)

	customerRepo := customer.NewPostgresRepository(db)
	customerService := customer.NewService(customerRepo)

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, customerRepo, log)

	feed := order.NewFeed(listener.Notify, log)
	invalidate := func(order.Event) { orderService.InvalidateStats() }
	watch := feed.Subscribe(invalidate, invalidate)
	defer feed.Unsubscribe(watch)
	go feed.Run(ctx)

	analyticsService := analytics.NewService(orderService, customerService, catalogService)

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(authorizer))
		order.NewHandler(orderService, cfg.RequestTimeout).RegisterRoutes(r)
		customer.NewHandler(customerService).RegisterRoutes(r)
		catalog.NewHandler(catalogService).RegisterRoutes(r)
		analytics.NewHandler(analyticsService).RegisterRoutes(r)
	})

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("server shutdown")
		}
	}()

	log.WithField("port", cfg.AppPort).Info("ironxpress admin api starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server")
	}
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
