package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sneakershub/storefront/internal/adminauth"
	"github.com/sneakershub/storefront/internal/auth"
	"github.com/sneakershub/storefront/internal/cart"
	"github.com/sneakershub/storefront/internal/checkout"
	"github.com/sneakershub/storefront/internal/config"
	"github.com/sneakershub/storefront/internal/events"
	"github.com/sneakershub/storefront/internal/httpserver"
	"github.com/sneakershub/storefront/internal/kvstore"
	"github.com/sneakershub/storefront/internal/logging"
	"github.com/sneakershub/storefront/internal/orders"
	"github.com/sneakershub/storefront/internal/products"
	"github.com/sneakershub/storefront/internal/search"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	kv, err := openKV(cfg)
	if err != nil {
		log.Fatalf("kvstore init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()

	var index *search.Index
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Error("es_unavailable", "error", err)
		} else {
			index = search.NewIndex(es, cfg.ESIndex, logger)
		}
	}

	cartStore := cart.New(kv, logger, producer)
	orderStore := orders.New(kv, logger)
	productStore := products.New(kv, logger)
	authStore := auth.New(kv, logger)

	checkoutSvc := &checkout.Service{
		Cart:     cartStore,
		Orders:   orderStore,
		Auth:     authStore,
		Producer: producer,
	}

	adminSvc, err := adminauth.New(cfg.AdminEmail, cfg.AdminPassword, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("adminauth init error: %v", err)
	}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(httpserver.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Cart:     cartStore,
		Orders:   orderStore,
		Products: productStore,
		Auth:     authStore,
		Checkout: checkoutSvc,
		Admin:    adminSvc,
		Producer: producer,
		Search:   index,
	})

	go func() {
		addr := ":" + strconv.Itoa(cfg.ServerPort)
		log.Printf("Starting storefront on %s...", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// openKV picks the persistence backend: postgres when DATABASE_URL is set,
// otherwise the sqlite file.
func openKV(cfg *config.Config) (kvstore.Store, error) {
	if cfg.DatabaseURL != "" {
		return kvstore.OpenPostgres(cfg.DatabaseURL)
	}
	return kvstore.OpenSQLite(cfg.KVPath)
}
