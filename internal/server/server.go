package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shouni/tryon-view-kit/internal/config"
	"github.com/shouni/tryon-view-kit/internal/handler"
	"github.com/shouni/tryon-view-kit/internal/metrics"
	"github.com/shouni/tryon-view-kit/internal/service"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

// New はルーティングとミドルウェアを組み立てます。ctx はレートリミッタの掃除処理の寿命です。
func New(ctx context.Context, cfg *config.Config, svc service.TryOnService, collector *metrics.Collector, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestLogger(log))
	router.Use(handler.Metrics(collector))

	h := handler.NewHandler(svc, cfg.App.MaxUploadSize, cfg.App.GenerationTimeout, log)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	api := router.Group("/api")
	if cfg.App.RateLimitRPS > 0 {
		api.Use(handler.RateLimiter(ctx, cfg.App.RateLimitRPS, cfg.App.RateLimitBurst, log))
	}
	{
		api.POST("/tryon", h.TryOn)
		api.GET("/angles", h.Angles)
	}

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	return server
}

// Handler はテスト用にルーターを返します。
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Run() error {
	s.log.Info("Server is running", zap.String("address", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
