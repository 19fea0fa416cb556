package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wearedood/base-gaming-sdk-unity/common/utils"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services"
)

type HealthHandler struct {
	engine *services.EconomyEngine
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Economy bool              `json:"economy_initialized"`
	Version map[string]string `json:"version"`
}

func NewHealthHandler(engine *services.EconomyEngine) *HealthHandler {
	return &HealthHandler{engine: engine}
}

func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Check)
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status := "healthy"
	if !h.engine.Initialized() {
		status = "starting"
	}

	Ok(c, HealthResponse{
		Status:  status,
		Economy: h.engine.Initialized(),
		Version: utils.GetVersionInfo(),
	})
}
