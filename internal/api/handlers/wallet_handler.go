package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wearedood/base-gaming-sdk-unity/common/utils"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services"
)

const sessionTTL = 24 * time.Hour

type WalletHandler struct {
	engine *services.EconomyEngine
}

type ConnectWalletRequest struct {
	Address string `json:"address" binding:"required"`
}

type ConnectWalletResponse struct {
	PlayerID string `json:"player_id"`
	Token    string `json:"token"`
}

func NewWalletHandler(engine *services.EconomyEngine) *WalletHandler {
	return &WalletHandler{engine: engine}
}

// RegisterRoutes mounts the session endpoint. Only a game server that has
// verified wallet ownership may open a session for it.
func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup, serverToServerAuthMiddleware gin.HandlerFunc) {
	router.POST("/wallet/connect", serverToServerAuthMiddleware, h.Connect)
}

// @Summary Register a wallet address as a player and open a session (server-to-server only)
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body ConnectWalletRequest true "Wallet address"
// @Success 200 {object} ConnectWalletResponse
// @Router /wallet/connect [post]
func (h *WalletHandler) Connect(c *gin.Context) {
	model := BindModel[ConnectWalletRequest](c)
	if model == nil {
		return
	}

	playerID, err := h.engine.RegisterWallet(model.Address)
	if err != nil {
		Fail(c, err)
		return
	}

	token, err := utils.GenerateJWTTokenWithClaims(utils.Claims{PlayerID: playerID}, sessionTTL)
	if err != nil {
		Fail(c, err)
		return
	}

	Ok(c, ConnectWalletResponse{PlayerID: playerID, Token: token})
}
