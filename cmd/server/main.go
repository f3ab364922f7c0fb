package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"smartcart/internal/config"
	"smartcart/internal/db"
	"smartcart/internal/events"
	"smartcart/internal/httpserver"
	"smartcart/internal/logging"
	"smartcart/internal/middleware"
	"smartcart/internal/repo"
	"smartcart/internal/search"
	"smartcart/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}
	if err := db.SeedAdmin(gdb, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	index, err := search.NewIndex(cfg)
	if err != nil {
		// Search is optional; the catalog works without it.
		logger.Warn("search disabled", "error", err)
		index = nil
	}

	store := &repo.GormRepo{DB: gdb}

	deps := &httpserver.Deps{
		Auth:    &middleware.Auth{JWTSecret: cfg.JWTSecret},
		AuthH:   &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: store, JWTSecret: cfg.JWTSecret}},
		Product: &httpserver.ProductHTTP{Svc: &service.CatalogService{Repo: store, Producer: producer, Index: index}},
		Cart:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: store}},
		Order:   &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: store, Producer: producer}},
		Admin:   &httpserver.AdminHTTP{Svc: &service.AdminService{Repo: store}},
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logging.RequestLogger(logger))

	httpserver.Register(e, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
