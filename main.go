package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"greeventech/telemetry/config"
	"greeventech/telemetry/database"
	"greeventech/telemetry/handlers"
	"greeventech/telemetry/logging"
	"greeventech/telemetry/mailer"
	"greeventech/telemetry/middleware"
	"greeventech/telemetry/ratelimit"
	"greeventech/telemetry/store"
	"greeventech/telemetry/web"
)

func main() {
	initDB := flag.Bool("init-db", false, "create the database schema and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := config.Load()
	logging.Init("telemetry", cfg.Env)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// PostgreSQL holds the session summaries and contact submissions;
	// ClickHouse holds the append-only event log.
	dbClient, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL")
	}
	defer dbClient.Close()

	chClient, err := database.NewClickHouseDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize ClickHouse")
	}
	defer chClient.Close()

	if *initDB {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := database.InitSchema(ctx, dbClient.DB, chClient.Conn); err != nil {
			log.Fatal().Err(err).Msg("schema initialization failed")
		}
		return
	}

	// The rate limiter is per instance unless Redis is configured, in
	// which case all instances share one window per key.
	var limiter ratelimit.Limiter
	window := time.Duration(cfg.RateLimit.WindowMs) * time.Millisecond
	if cfg.Redis.Addr != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Redis")
		}
		defer redisClient.Close()
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Max, window)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Max, window)
	}

	eventStore := store.NewEventStore(chClient)
	sessionStore := store.NewSessionStore(dbClient.DB)
	contactStore := store.NewContactStore(dbClient.DB)
	statsStore := store.NewStatsStore(chClient)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP)

	trackHandlers := handlers.NewTrackHandlers(eventStore, sessionStore)
	trapHandlers := handlers.NewTrapHandlers(eventStore, sessionStore)
	contactHandlers := handlers.NewContactHandlers(limiter, contactStore, smtpMailer)
	statsHandlers := handlers.NewStatsHandlers(statsStore, sessionStore, contactStore)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.FEOrigin))

	r.GET("/tracker.js", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/javascript", web.TrackerJS)
	})

	api := r.Group("/api")
	{
		track := api.Group("/track")
		{
			track.POST("/visitor", trackHandlers.TrackVisitor)
			track.POST("/pageview", trackHandlers.TrackPageView)
			track.POST("/click", trackHandlers.TrackClick)
			track.POST("/honeypot", trackHandlers.TrackHoneypot)
		}

		api.POST("/contact", contactHandlers.SubmitContact)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminRequired(cfg.AdminSecret))
		{
			admin.GET("/stats", statsHandlers.GetDashboard)
		}

		// Trap: a fake users API nothing legitimate ever calls.
		api.GET("/users", trapHandlers.FakeUsers)
	}

	// Trap surfaces for path scanners.
	r.GET("/wp-admin", trapHandlers.WPAdmin)
	r.GET("/wp-login.php", trapHandlers.WPAdmin)
	r.GET("/.env", trapHandlers.EnvFile)
	r.GET("/phpmyadmin", trapHandlers.PHPMyAdmin)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("telemetry server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
