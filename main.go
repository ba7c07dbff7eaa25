// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go-patient-caller/config"
	"go-patient-caller/controllers"
	"go-patient-caller/logger"
	"go-patient-caller/middleware"
	"go-patient-caller/monitoring"
	"go-patient-caller/services"
	"go-patient-caller/websocket"
)

const (
	sessionName       = "patient_caller"
	cloudWatchBuffer  = 256
	shutdownTimeout   = 5 * time.Second
	sessionMaxAgeDays = 30
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	if err := logger.InitLogger(cfg.LogDir); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	logger.SetLogLevel(cfg.Env)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleShutdown(cancel)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := monitoring.Recorders{monitoring.NewPrometheusRecorder(registry)}

	if cfg.CloudWatchEnabled {
		client, err := monitoring.NewCloudWatchClient(cfg.AWSRegion)
		if err != nil {
			logger.Error.Printf("[main] CloudWatch disabled: %v", err)
		} else {
			publisher := monitoring.NewCloudWatchPublisher(client, cfg.CloudWatchNamespace, cloudWatchBuffer)
			go publisher.Run(ctx)
			recorder = append(recorder, publisher)
			logger.Info.Printf("[main] publishing metrics to CloudWatch namespace %q", cfg.CloudWatchNamespace)
		}
	}

	hub := websocket.NewHub(services.NewWorld(), recorder)
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: setupRouter(cfg, hub, registry),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("[main] shutdown: %v", err)
		}
	}()

	logger.Info.Printf("[main] listening on :%s (display page %s)", cfg.Port, cfg.DisplayURL())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error.Printf("[main] server error: %v", err)
		log.Fatalf("Failed to run server: %v", err)
	}
	logger.Info.Println("[main] server stopped")
}

// setupRouter wires every HTTP route. Paths without a route are served from
// the public directory.
func setupRouter(cfg config.Config, hub *websocket.Hub, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if cfg.XRayEnabled {
		router.Use(middleware.Tracing(cfg.XRayServiceName, "/ws", "/health", "/metrics"))
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * sessionMaxAgeDays,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})

	pages := controllers.NewPageController(cfg.DisplayURL(), hub)

	router.GET("/", controllers.Index)
	router.GET("/health", controllers.Health)
	router.GET("/qrcode", pages.GetQRCode)
	router.GET("/metrics", gin.WrapH(monitoring.Handler(gatherer)))
	router.GET("/ws", gin.WrapF(websocket.ServeWs(hub, websocket.NewUpgrader(cfg.AllowedOrigins))))

	api := router.Group("/api")
	{
		api.GET("/state", pages.GetState)

		profile := api.Group("/profile", sessions.Sessions(sessionName, store))
		profile.GET("", controllers.GetProfile)
		profile.POST("", controllers.SaveProfile)
		profile.DELETE("", controllers.ClearProfile)
	}

	router.NoRoute(gin.WrapH(http.FileServer(gin.Dir(cfg.PublicDir, false))))
	return router
}

// handleShutdown cancels the root context on SIGINT or SIGTERM.
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info.Println("[main] shutdown signal received")
	cancel()
}
