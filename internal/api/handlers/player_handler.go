package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wearedood/base-gaming-sdk-unity/internal/services"
)

type PlayerHandler struct {
	engine *services.EconomyEngine
}

type RegisterPlayerRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

type SetLevelRequest struct {
	Level int `json:"level" binding:"required,min=1"`
}

func NewPlayerHandler(engine *services.EconomyEngine) *PlayerHandler {
	return &PlayerHandler{engine: engine}
}

func (h *PlayerHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc, serverToServerAuthMiddleware gin.HandlerFunc) {
	players := router.Group("/players")
	{
		players.GET("/me", authMiddleware, h.GetMyPlayer)
		players.GET("/me/unlocked-items", authMiddleware, h.GetUnlockedItems)
		players.POST("", serverToServerAuthMiddleware, h.RegisterPlayer)
		players.GET("/:id", serverToServerAuthMiddleware, h.GetPlayer)
		players.PUT("/:id/level", serverToServerAuthMiddleware, h.SetLevel)
	}
}

// @Summary Get the calling player's economy data
// @Tags players
// @Produce json
// @Security Bearer
// @Success 200 {object} models.PlayerEconomyData
// @Router /players/me [get]
func (h *PlayerHandler) GetMyPlayer(c *gin.Context) {
	playerID, ok := CurrentPlayer(c)
	if !ok {
		return
	}
	h.respondWithPlayer(c, playerID)
}

func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	h.respondWithPlayer(c, c.Param("id"))
}

func (h *PlayerHandler) respondWithPlayer(c *gin.Context, playerID string) {
	player, ok := h.engine.GetPlayerData(playerID)
	if !ok {
		NotFound(c, "player not found")
		return
	}
	Ok(c, player)
}

func (h *PlayerHandler) RegisterPlayer(c *gin.Context) {
	model := BindModel[RegisterPlayerRequest](c)
	if model == nil {
		return
	}

	if err := h.engine.RegisterPlayer(model.PlayerID); err != nil {
		Fail(c, err)
		return
	}

	h.respondWithPlayer(c, model.PlayerID)
}

func (h *PlayerHandler) SetLevel(c *gin.Context) {
	model := BindModel[SetLevelRequest](c)
	if model == nil {
		return
	}

	if err := h.engine.SetPlayerLevel(c.Param("id"), model.Level); err != nil {
		Fail(c, err)
		return
	}

	h.respondWithPlayer(c, c.Param("id"))
}

func (h *PlayerHandler) GetUnlockedItems(c *gin.Context) {
	playerID, ok := CurrentPlayer(c)
	if !ok {
		return
	}

	unlocked, err := h.engine.UnlockedItems(playerID)
	if err != nil {
		Fail(c, err)
		return
	}
	if unlocked == nil {
		unlocked = []string{}
	}

	Ok(c, gin.H{"item_ids": unlocked})
}

