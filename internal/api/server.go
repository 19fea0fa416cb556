package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wearedood/base-gaming-sdk-unity/internal/api/handlers"
	"github.com/wearedood/base-gaming-sdk-unity/internal/api/middleware"
	"github.com/wearedood/base-gaming-sdk-unity/internal/api/websocket"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/metadata"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	engine      *services.EconomyEngine
	hub         *websocket.Hub
	rateLimiter *middleware.IPRateLimiter
	stop        chan struct{}
}

func NewServer(engine *services.EconomyEngine, config *models.Config, metadataStore metadata.Store, hub *websocket.Hub) *Server {
	server := &Server{
		router:      gin.New(),
		engine:      engine,
		hub:         hub,
		rateLimiter: middleware.NewIPRateLimiter(100, 200), // 100 requests per second with burst of 200
		stop:        make(chan struct{}),
	}
	go server.rateLimiter.Cleanup(server.stop)

	server.router.Use(gin.Recovery())
	server.router.Use(middleware.RequestLogger())
	server.router.Use(middleware.ErrorMiddleware())
	server.router.Use(middleware.RateLimit(server.rateLimiter))

	healthHandler := handlers.NewHealthHandler(engine)
	playerHandler := handlers.NewPlayerHandler(engine)
	economyHandler := handlers.NewEconomyHandler(engine)
	nftHandler := handlers.NewNFTHandler(engine, metadataStore)
	stakingHandler := handlers.NewStakingHandler(engine)
	walletHandler := handlers.NewWalletHandler(engine)
	authMiddleware := middleware.AuthMiddleware()
	serverToServerAuthMiddleware := middleware.ServerToServerAuthMiddleware(config.ServerToken)

	healthHandler.RegisterRoutes(server.router.Group(""))
	if hub != nil {
		server.router.GET("/ws/events", authMiddleware, hub.ServeWS)
	}

	v1 := server.router.Group("/api/v1")
	{
		playerHandler.RegisterRoutes(v1, authMiddleware, serverToServerAuthMiddleware)
		economyHandler.RegisterRoutes(v1, authMiddleware, serverToServerAuthMiddleware)
		nftHandler.RegisterRoutes(v1, authMiddleware, serverToServerAuthMiddleware)
		stakingHandler.RegisterRoutes(v1, authMiddleware)
		walletHandler.RegisterRoutes(v1, serverToServerAuthMiddleware)
	}

	return server
}

func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Shutdown(ctx context.Context) error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
