package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "github.com/oncograph/backend/internal/server/middleware"
	"github.com/oncograph/backend/internal/util"
	"github.com/oncograph/backend/pkg/cache"
	"github.com/oncograph/backend/pkg/curated"
	"github.com/oncograph/backend/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tables *curated.Tables
	tablesPath := util.GetEnv("CURATED_TABLES_PATH")
	if tablesPath == "" {
		tables = curated.Default()
		logger.Info("[Server] using built-in curated tables")
	} else {
		var err error
		tables, err = curated.Load(tablesPath)
		if err != nil {
			logger.Fatal("Failed to load curated tables", "err", err)
		}
	}

	semanticCache := cache.NewCache(cache.NewCacheParams{
		TTL:      time.Duration(util.GetEnvNumeric("CACHE_TTL_SECONDS", 3600)) * time.Second,
		Capacity: int(util.GetEnvNumeric("CACHE_MAX_SIZE", cache.DefaultCapacity)),
	})

	e.Use(mid.AppContextMiddleware(tables, semanticCache))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
