package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error string `json:"error" example:"Error message describing what went wrong"`
}

func BindModel[T any](ctx *gin.Context) *T {
	var model T
	if err := ctx.ShouldBindJSON(&model); err != nil {
		BadRequest(ctx, err.Error())
		return nil
	}

	return &model
}

// Fail hands err to the error middleware, which picks the status.
func Fail(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}

// CurrentPlayer returns the player id set by the auth middleware.
func CurrentPlayer(ctx *gin.Context) (string, bool) {
	playerID := ctx.GetString("playerID")
	if playerID == "" {
		Unauthorized(ctx, "player token required")
		return "", false
	}
	return playerID, true
}

func Ok(ctx *gin.Context, data any) {
	ctx.JSON(200, models.Succeeded(data))
}

func NotFound(ctx *gin.Context, message string) {
	ctx.JSON(404, ErrorResponse{Error: message})
}

func BadRequest(ctx *gin.Context, message string) {
	ctx.JSON(400, ErrorResponse{Error: message})
}

func Unauthorized(ctx *gin.Context, message string) {
	ctx.JSON(401, ErrorResponse{Error: message})
}
