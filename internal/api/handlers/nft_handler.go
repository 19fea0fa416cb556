package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/wearedood/base-gaming-sdk-unity/internal/services"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/metadata"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

type NFTHandler struct {
	engine   *services.EconomyEngine
	metadata metadata.Store
}

type MintNFTRequest struct {
	PlayerID    string        `json:"player_id" binding:"required"`
	MetadataURI string        `json:"metadata_uri" binding:"required"`
	Rarity      models.Rarity `json:"rarity" binding:"min=0,max=4"`
}

type TradeNFTRequest struct {
	SellerID string `json:"seller_id" binding:"required"`
	BuyerID  string `json:"buyer_id" binding:"required"`
	TokenID  uint64 `json:"token_id"`
	Price    int64  `json:"price" binding:"min=0"`
}

func NewNFTHandler(engine *services.EconomyEngine, store metadata.Store) *NFTHandler {
	return &NFTHandler{engine: engine, metadata: store}
}

func (h *NFTHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware, serverToServerAuthMiddleware gin.HandlerFunc) {
	nfts := router.Group("/nfts")
	{
		nfts.GET("/metadata", authMiddleware, h.GetMetadata)
		nfts.POST("/mint", serverToServerAuthMiddleware, h.Mint)
		nfts.POST("/trade", serverToServerAuthMiddleware, h.Trade)
		nfts.GET("/pending-trades", serverToServerAuthMiddleware, h.PendingTrades)
	}
}

// @Summary Mint an NFT for a player (server-to-server only)
// @Tags nfts
// @Accept json
// @Produce json
// @Param request body MintNFTRequest true "Mint request"
// @Success 200 {object} models.OwnedNFT
// @Router /nfts/mint [post]
func (h *NFTHandler) Mint(c *gin.Context) {
	model := BindModel[MintNFTRequest](c)
	if model == nil {
		return
	}

	nft, err := h.engine.MintNFT(c.Request.Context(), model.PlayerID, model.MetadataURI, model.Rarity)
	if err != nil {
		Fail(c, err)
		return
	}

	Ok(c, nft)
}

func (h *NFTHandler) Trade(c *gin.Context) {
	model := BindModel[TradeNFTRequest](c)
	if model == nil {
		return
	}

	result, err := h.engine.TradeNFT(c.Request.Context(), model.SellerID, model.BuyerID, model.TokenID, model.Price)
	if err != nil {
		Fail(c, err)
		return
	}

	Ok(c, result)
}

func (h *NFTHandler) PendingTrades(c *gin.Context) {
	Ok(c, h.engine.PendingTrades())
}

func (h *NFTHandler) GetMetadata(c *gin.Context) {
	uri := c.Query("uri")
	if uri == "" {
		BadRequest(c, "uri is required")
		return
	}
	if h.metadata == nil {
		Fail(c, errors.Join(models.ErrNFTSubsystemUnavailable, errors.New("no metadata store configured")))
		return
	}

	document, err := h.metadata.Fetch(c.Request.Context(), uri)
	if err != nil {
		Fail(c, err)
		return
	}

	c.Data(200, "application/json", document)
}
