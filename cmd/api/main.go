package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/medbrief/telemed-api/internal/config"
	dbpkg "github.com/medbrief/telemed-api/internal/db"
	"github.com/medbrief/telemed-api/internal/logger"
	"github.com/medbrief/telemed-api/internal/middleware"
	"github.com/medbrief/telemed-api/internal/routes"
)

func main() {

	cfg := config.Load()

	log := logger.New(cfg.AppEnv)
	defer log.Sync()

	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, log)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
