package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wearedood/base-gaming-sdk-unity/internal/services"
)

type EconomyHandler struct {
	engine *services.EconomyEngine
}

type AwardTokensRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Amount   int64  `json:"amount" binding:"min=0"`
	Reason   string `json:"reason"`
}

type AwardTokensResponse struct {
	Awarded int64 `json:"awarded"`
}

type PurchaseItemRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,min=1"`
}

func NewEconomyHandler(engine *services.EconomyEngine) *EconomyHandler {
	return &EconomyHandler{engine: engine}
}

func (h *EconomyHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc, serverToServerAuthMiddleware gin.HandlerFunc) {
	economy := router.Group("/economy")
	{
		economy.POST("/award", serverToServerAuthMiddleware, h.AwardTokens)
		economy.POST("/purchase", authMiddleware, h.PurchaseItem)
		economy.POST("/daily-bonus", authMiddleware, h.ClaimDailyBonus)
	}

	router.GET("/items", h.ListItems)
	router.GET("/items/:id/quote", h.QuoteItem)
	router.GET("/tiers", h.ListTiers)
}

// @Summary Award tokens to a player (server-to-server only)
// @Tags economy
// @Accept json
// @Produce json
// @Param request body AwardTokensRequest true "Award request"
// @Success 200 {object} AwardTokensResponse
// @Router /economy/award [post]
func (h *EconomyHandler) AwardTokens(c *gin.Context) {
	model := BindModel[AwardTokensRequest](c)
	if model == nil {
		return
	}

	awarded, err := h.engine.AwardTokens(model.PlayerID, model.Amount, model.Reason)
	if err != nil {
		Fail(c, err)
		return
	}

	Ok(c, AwardTokensResponse{Awarded: awarded})
}

func (h *EconomyHandler) PurchaseItem(c *gin.Context) {
	playerID, ok := CurrentPlayer(c)
	if !ok {
		return
	}

	model := BindModel[PurchaseItemRequest](c)
	if model == nil {
		return
	}

	result, err := h.engine.PurchaseItem(playerID, model.ItemID, model.Quantity)
	if err != nil {
		Fail(c, err)
		return
	}

	Ok(c, result)
}

func (h *EconomyHandler) ClaimDailyBonus(c *gin.Context) {
	playerID, ok := CurrentPlayer(c)
	if !ok {
		return
	}

	bonus, err := h.engine.ClaimDailyBonus(playerID)
	if err != nil {
		Fail(c, err)
		return
	}

	Ok(c, gin.H{"bonus": bonus})
}

func (h *EconomyHandler) ListItems(c *gin.Context) {
	Ok(c, h.engine.Catalog())
}

func (h *EconomyHandler) ListTiers(c *gin.Context) {
	Ok(c, h.engine.RewardTiers())
}

func (h *EconomyHandler) QuoteItem(c *gin.Context) {
	quantity := int64(1)
	if raw := c.Query("quantity"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			BadRequest(c, "quantity must be an integer")
			return
		}
		quantity = parsed
	}

	quote, err := h.engine.QuoteItemPrice(c.Request.Context(), c.Param("id"), quantity)
	if err != nil {
		Fail(c, err)
		return
	}

	Ok(c, quote)
}
