package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"bosshub/internal/bosses"
	"bosshub/internal/events"
	"bosshub/internal/games"
	"bosshub/internal/ingest"
	"bosshub/internal/metrics"
	"bosshub/internal/moderation"
	"bosshub/internal/refs"
	"bosshub/internal/strategies"
	"bosshub/pkg/database"
	"bosshub/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()
	metrics.Register()

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start the TCP event feed first (so you notice binding errors early)
	hub := events.NewHub()
	router.GET("/ws", events.WSHandler(hub))
	tcpSrv := events.NewServer(srvCfg.EventAddr, hub)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Boss Encyclopedia API is running"})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":          cfg.Path,
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	validator := refs.NewValidator(db)

	gameRepo := games.NewRepo(db)
	bossRepo := bosses.NewRepo(db)
	strategyRepo := strategies.NewRepo(db)
	queueRepo := moderation.NewRepo(db)

	engine := ingest.NewEngine(gameRepo, bossRepo, strategyRepo, hub)

	api := router.Group("/api")

	games.NewHandler(gameRepo).RegisterRoutes(api.Group("/games"))
	bosses.NewHandler(bossRepo, strategyRepo, validator).RegisterRoutes(api.Group("/bosses"))
	strategies.NewHandler(strategyRepo, validator).RegisterRoutes(api.Group("/strategies"))

	ingestGroup := api.Group("/ingest")
	ingest.NewHandler(engine, validator).RegisterRoutes(ingestGroup)

	modHandler := moderation.NewHandler(queueRepo, engine, validator, hub)
	modHandler.RegisterRoutes(api.Group("/mod"))
	modHandler.RegisterIngestRoutes(ingestGroup)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{srvCfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpSrv := &http.Server{
		Addr:    srvCfg.HTTPAddr,
		Handler: corsHandler.Handler(router),
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", srvCfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
