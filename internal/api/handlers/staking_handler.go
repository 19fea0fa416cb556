package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wearedood/base-gaming-sdk-unity/internal/services"
)

type StakingHandler struct {
	engine *services.EconomyEngine
}

type StakeRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

type UnstakeResponse struct {
	Principal int64 `json:"principal"`
	Rewards   int64 `json:"rewards"`
}

func NewStakingHandler(engine *services.EconomyEngine) *StakingHandler {
	return &StakingHandler{engine: engine}
}

func (h *StakingHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	staking := router.Group("/staking", authMiddleware)
	{
		staking.POST("/stake", h.Stake)
		staking.POST("/claim", h.Claim)
		staking.POST("/unstake", h.Unstake)
	}
}

func (h *StakingHandler) Stake(c *gin.Context) {
	playerID, ok := CurrentPlayer(c)
	if !ok {
		return
	}

	model := BindModel[StakeRequest](c)
	if model == nil {
		return
	}

	position, err := h.engine.StakeTokens(playerID, model.Amount)
	if err != nil {
		Fail(c, err)
		return
	}

	Ok(c, position)
}

func (h *StakingHandler) Claim(c *gin.Context) {
	playerID, ok := CurrentPlayer(c)
	if !ok {
		return
	}

	rewards, err := h.engine.ClaimStakingRewards(playerID)
	if err != nil {
		Fail(c, err)
		return
	}

	Ok(c, gin.H{"rewards": rewards})
}

func (h *StakingHandler) Unstake(c *gin.Context) {
	playerID, ok := CurrentPlayer(c)
	if !ok {
		return
	}

	principal, rewards, err := h.engine.UnstakeTokens(playerID)
	if err != nil {
		Fail(c, err)
		return
	}

	Ok(c, UnstakeResponse{Principal: principal, Rewards: rewards})
}
