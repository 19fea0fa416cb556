package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearedood/base-gaming-sdk-unity/common/utils"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{models.NewEconomyError("purchase_item", "p1", models.ErrInsufficientBalance), http.StatusUnprocessableEntity},
		{models.NewEconomyError("trade_nft", "p1", models.ErrNFTNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: %w", models.ErrContractCallFailed, assert.AnError), http.StatusBadGateway},
		{models.ErrDailyBonusClaimed, http.StatusConflict},
		{ErrForbidden, http.StatusForbidden},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusFor(tc.err), tc.err.Error())
	}
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", handlers...)
	return router
}

func serve(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestErrorMiddlewareWritesMappedStatus(t *testing.T) {
	router := newRouter(ErrorMiddleware(), func(c *gin.Context) {
		_ = c.Error(models.NewEconomyError("purchase_item", "p1", models.ErrItemNotFound))
		c.Abort()
	})

	rr := serve(router, "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "item not found")
}

func TestRateLimit(t *testing.T) {
	router := newRouter(RateLimit(NewIPRateLimiter(1, 2)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(router, "").Code)
	assert.Equal(t, http.StatusOK, serve(router, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "").Code)
}

func TestIPRateLimiterPrune(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	limiter.getLimiter("10.0.0.1")

	limiter.prune(time.Now().Add(2 * time.Hour))

	assert.Empty(t, limiter.ips)
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	router := newRouter(AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(PlayerIDKey))
	})

	token, err := utils.GenerateJWTTokenWithClaims(utils.Claims{PlayerID: "p1"}, time.Minute)
	require.NoError(t, err)

	rr := serve(router, token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "p1", rr.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "garbage").Code)
}

func TestServerToServerAuthMiddleware(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	router := newRouter(ServerToServerAuthMiddleware("shared"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	serverJWT, err := utils.GenerateJWTTokenWithClaims(utils.Claims{Server: true}, time.Minute)
	require.NoError(t, err)
	playerJWT, err := utils.GenerateJWTTokenWithClaims(utils.Claims{PlayerID: "p1"}, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(router, "shared").Code)
	assert.Equal(t, http.StatusOK, serve(router, serverJWT).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, playerJWT).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "wrong").Code)
}
