// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"crimson-finance/internal/auth"
	"crimson-finance/internal/config"
	"crimson-finance/internal/handler"
	"crimson-finance/internal/middleware"
	"crimson-finance/internal/storage/postgres"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	pool, err := pgxpool.New(context.Background(), cfg.DBConn)
	if err != nil {
		slog.Error("failed to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// The database may still be starting, ping with backoff before serving.
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database not ready yet", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	store := postgres.NewStorage(pool)

	tokenService := auth.NewTokenService(cfg)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	profileHandler := handler.NewProfileHandler(store, tokenService, hasher)
	accountHandler := handler.NewAccountHandler(store)
	cardHandler := handler.NewCardHandler(store)
	txnHandler := handler.NewTransactionHandler(store)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/api/v1/profiles/register", profileHandler.Register)
	router.POST("/api/v1/profiles/login", profileHandler.Login)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		v1.GET("/profiles", profileHandler.List)
		v1.GET("/profiles/me", profileHandler.Me)
		v1.PUT("/profiles/me", profileHandler.Update)
		v1.PATCH("/profiles/me/password", profileHandler.ChangePassword)
		v1.DELETE("/profiles/me", profileHandler.Delete)

		v1.POST("/accounts", accountHandler.Create)
		v1.GET("/accounts", accountHandler.List)
		v1.GET("/accounts/total", accountHandler.TotalBalance)
		v1.PUT("/accounts/:id", accountHandler.Update)
		v1.DELETE("/accounts/:id", accountHandler.Delete)
		v1.POST("/accounts/:id/transactions", txnHandler.InsertForAccount)
		v1.GET("/accounts/:id/transactions", txnHandler.ListForAccount)

		v1.POST("/cards", cardHandler.Create)
		v1.GET("/cards", cardHandler.List)
		v1.GET("/cards/total", cardHandler.TotalExpenses)
		v1.GET("/cards/top", cardHandler.TopCards)
		v1.PUT("/cards/:id", cardHandler.Update)
		v1.DELETE("/cards/:id", cardHandler.Delete)
		v1.POST("/cards/:id/transactions", txnHandler.InsertForCard)
		v1.GET("/cards/:id/transactions", txnHandler.ListForCard)
		v1.POST("/cards/:id/invoices", cardHandler.AssignInvoice)
		v1.GET("/cards/:id/invoices", cardHandler.InvoicesInMonth)

		v1.DELETE("/transactions/account/:id", txnHandler.DeleteForAccount)
		v1.DELETE("/transactions/card/:id", txnHandler.DeleteForCard)
		v1.GET("/transactions/:type/total", txnHandler.SumByType)
		v1.GET("/transactions/:type/top", txnHandler.TopByAmount)

		v1.GET("/categories", txnHandler.ListCategories)
	}

	slog.Info("server starting", "port", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		slog.Error("server stopped", "error", fmt.Errorf("run: %w", err))
		os.Exit(1)
	}
}
