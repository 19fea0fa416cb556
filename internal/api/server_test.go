package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearedood/base-gaming-sdk-unity/common/utils"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/wallet"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

const (
	testServerToken = "server-secret"
	testAddress     = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	otherAddress    = "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"
)

type envelope struct {
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestServer(t *testing.T) (*Server, *services.EconomyEngine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	engine := services.NewEconomyEngine(models.DefaultEconomyConfig(), services.EngineDeps{})
	require.NoError(t, engine.Start(context.Background()))

	server := NewServer(engine, &models.Config{ServerToken: testServerToken}, nil, nil)
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })
	return server, engine
}

func doRequest(t *testing.T, server *Server, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	var resp envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	return rr, resp
}

func connectWallet(t *testing.T, server *Server) (playerID, token string) {
	t.Helper()

	rr, resp := doRequest(t, server, http.MethodPost, "/api/v1/wallet/connect", testServerToken, gin.H{"address": "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var session struct {
		PlayerID string `json:"player_id"`
		Token    string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &session))
	return session.PlayerID, session.Token
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	rr, resp := doRequest(t, server, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, resp.Success)
	assert.Contains(t, string(resp.Data), `"economy_initialized":true`)
}

func TestAwardRequiresServerToken(t *testing.T) {
	server, _ := newTestServer(t)
	_, playerToken := connectWallet(t, server)

	rr, _ := doRequest(t, server, http.MethodPost, "/api/v1/economy/award", "", gin.H{"player_id": "p1", "amount": 10})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = doRequest(t, server, http.MethodPost, "/api/v1/economy/award", playerToken, gin.H{"player_id": "p1", "amount": 10})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAwardTokens(t *testing.T) {
	server, engine := newTestServer(t)

	rr, resp := doRequest(t, server, http.MethodPost, "/api/v1/economy/award", testServerToken,
		gin.H{"player_id": "p1", "amount": 1000, "reason": "quest"})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"awarded":1000}`, string(resp.Data))

	player, ok := engine.GetPlayerData("p1")
	require.True(t, ok)
	assert.Equal(t, int64(1000), player.TokenBalance)
}

func TestWalletSessionReadsOwnPlayer(t *testing.T) {
	server, _ := newTestServer(t)
	playerID, token := connectWallet(t, server)
	assert.Equal(t, testAddress, playerID)

	rr, resp := doRequest(t, server, http.MethodGet, "/api/v1/players/me", token, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var player models.PlayerEconomyData
	require.NoError(t, json.Unmarshal(resp.Data, &player))
	assert.Equal(t, testAddress, player.PlayerID)
	assert.Equal(t, 1, player.Level)
}

func TestWalletConnectRejectsInvalidAddress(t *testing.T) {
	server, _ := newTestServer(t)

	rr, resp := doRequest(t, server, http.MethodPost, "/api/v1/wallet/connect", testServerToken, gin.H{"address": "not-an-address"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, resp.Success)
}

func TestWalletConnectRequiresServerToken(t *testing.T) {
	server, engine := newTestServer(t)
	_, playerToken := connectWallet(t, server)

	for _, token := range []string{"", "wrong", playerToken} {
		rr, resp := doRequest(t, server, http.MethodPost, "/api/v1/wallet/connect", token, gin.H{"address": otherAddress})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, resp.Success)
	}

	playerID, err := wallet.NormalizeAddress(otherAddress)
	require.NoError(t, err)
	_, ok := engine.GetPlayerData(playerID)
	assert.False(t, ok)
}

func TestMetadataRequiresSession(t *testing.T) {
	server, _ := newTestServer(t)

	rr, _ := doRequest(t, server, http.MethodGet, "/api/v1/nfts/metadata?uri=http://169.254.169.254/latest/meta-data/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	_, token := connectWallet(t, server)
	rr, _ = doRequest(t, server, http.MethodGet, "/api/v1/nfts/metadata?uri=ipfs://Qm123", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestPurchaseMapsDomainErrors(t *testing.T) {
	server, engine := newTestServer(t)
	playerID, token := connectWallet(t, server)

	rr, _ := doRequest(t, server, http.MethodPost, "/api/v1/economy/purchase", token, gin.H{"item_id": "potion_health", "quantity": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr, _ = doRequest(t, server, http.MethodPost, "/api/v1/economy/purchase", token, gin.H{"item_id": "missing", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	_, err := engine.AwardTokens(playerID, 100, "test")
	require.NoError(t, err)

	rr, resp := doRequest(t, server, http.MethodPost, "/api/v1/economy/purchase", token, gin.H{"item_id": "potion_health", "quantity": 2})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var result services.PurchaseResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, int64(50), result.TotalPrice)
	assert.Equal(t, int64(50), result.Balance)
}

func TestMintWithoutChainIsUnavailable(t *testing.T) {
	server, _ := newTestServer(t)

	rr, resp := doRequest(t, server, http.MethodPost, "/api/v1/nfts/mint", testServerToken,
		gin.H{"player_id": "p1", "metadata_uri": "ipfs://Qm", "rarity": 2})

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, resp.Message, "nft subsystem unavailable")
}

func TestStakingFlow(t *testing.T) {
	server, engine := newTestServer(t)
	playerID, token := connectWallet(t, server)
	_, err := engine.AwardTokens(playerID, 500, "test")
	require.NoError(t, err)

	rr, _ := doRequest(t, server, http.MethodPost, "/api/v1/staking/stake", token, gin.H{"amount": 200})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr, resp := doRequest(t, server, http.MethodPost, "/api/v1/staking/unstake", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"principal":200,"rewards":0}`, string(resp.Data))

	player, _ := engine.GetPlayerData(playerID)
	assert.Equal(t, int64(500), player.TokenBalance)
}

func TestCatalogRoutesArePublic(t *testing.T) {
	server, _ := newTestServer(t)

	rr, resp := doRequest(t, server, http.MethodGet, "/api/v1/items", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var items []models.GameItem
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	assert.NotEmpty(t, items)

	rr, resp = doRequest(t, server, http.MethodGet, "/api/v1/items/sword_basic/quote?quantity=3", "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var quote models.PriceQuote
	require.NoError(t, json.Unmarshal(resp.Data, &quote))
	assert.Equal(t, int64(300), quote.TotalPrice)

	rr, _ = doRequest(t, server, http.MethodGet, "/api/v1/items/sword_basic/quote?quantity=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
