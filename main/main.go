package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flockr/config"
	"flockr/db"
	"flockr/mail"
	"flockr/main/routes"
	"flockr/scheduler"
	"flockr/weather"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimiterrorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	})
}

func main() {
	cfg := config.Load()
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	mailer, err := mail.New(context.Background(), cfg)
	if err != nil {
		log.Fatal("Error setting up mail:", err)
	}

	store := db.NewStore()
	sched := scheduler.New()
	services := routes.NewServices(store, sched, mailer, cfg.JWTSecret,
		weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, cfg.WeatherTimeout))

	// Setup Gin
	r := gin.Default()

	// Rate Limiting
	limitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: cfg.RateLimit,
	})
	r.Use(ratelimit.RateLimiter(limitStore, &ratelimit.Options{
		ErrorHandler: rateLimiterrorHandler,
		KeyFunc:      keyFunc,
	}))

	// CORS
	r.Use(corsMiddleware(cfg.CORSOrigins))

	routes.SetupAPIRoutes(r, services)
	routes.SetupWebSocketRoutes(r, services.Hub)

	server := &http.Server{
		Addr:    cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Starting server on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	if cfg.Debug {
		log.Printf("[DEBUG] mail provider %q, weather configured: %v", cfg.MailProvider, cfg.WeatherAPIKey != "")
	}

	// Wait for SIGINT or SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Printf("Cancelled %d pending jobs", sched.CancelAll())
	log.Println("Server exited cleanly.")
}
