package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/internal/services/catalog"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/chain"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/event"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/ledger"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/market"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/reward"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

const dailyBonusInterval = 24 * time.Hour

// Operation names carried by EconomyError events.
const (
	OpRegisterPlayer = "register_player"
	OpAwardTokens    = "award_tokens"
	OpPurchaseItem   = "purchase_item"
	OpMintNFT        = "mint_nft"
	OpTradeNFT       = "trade_nft"
	OpStakeTokens    = "stake_tokens"
	OpClaimStaking   = "claim_staking_rewards"
	OpUnstakeTokens  = "unstake_tokens"
	OpDailyBonus     = "claim_daily_bonus"
	OpSetLevel       = "set_player_level"
)

var ErrNoSnapshotStore = errors.New("no snapshot store configured")

// EngineDeps are the collaborators of an EconomyEngine. Only Loader is
// required. A nil Caller disables minting and makes trades settle in
// memory.
type EngineDeps struct {
	Loader catalog.Loader
	Ledger *ledger.Ledger
	Market market.DataProvider
	Caller chain.ContractCaller
	Store  ledger.SnapshotStore
	Bus    *event.Bus
	Logger *zap.Logger
	Clock  func() time.Time
}

// DemandStore persists item demand multipliers between runs.
type DemandStore interface {
	SaveDemandMultipliers(ctx context.Context, multipliers map[string]float64) error
}

type EconomyEngine struct {
	config models.EconomyConfig

	loader  catalog.Loader
	ledger  *ledger.Ledger
	market  market.DataProvider
	caller  chain.ContractCaller
	store   ledger.SnapshotStore
	bus     *event.Bus
	logger  *zap.Logger
	now     func() time.Time
	catalog *catalog.Catalog
	rewards *reward.Calculator

	startMu     sync.Mutex
	initialized atomic.Bool
	tokenSeq    atomic.Uint64

	// held shared while an escrow opens or resolves, exclusively by Save
	persistMu sync.RWMutex
	escrowMu  sync.Mutex
	escrows   map[string]PendingTrade
}

func NewEconomyEngine(config models.EconomyConfig, deps EngineDeps) *EconomyEngine {
	e := &EconomyEngine{
		config:  config,
		loader:  deps.Loader,
		ledger:  deps.Ledger,
		market:  deps.Market,
		caller:  deps.Caller,
		store:   deps.Store,
		bus:     deps.Bus,
		logger:  deps.Logger,
		now:     deps.Clock,
		escrows: make(map[string]PendingTrade),
	}

	if e.loader == nil {
		e.loader = catalog.DefaultLoader{}
	}
	if e.ledger == nil {
		e.ledger = ledger.New()
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.bus == nil {
		e.bus = event.NewBus(e.logger)
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.config.MarketplaceFeeBps < 0 || e.config.MarketplaceFeeBps > 10000 {
		e.config.MarketplaceFeeBps = models.DefaultEconomyConfig().MarketplaceFeeBps
	}

	return e
}

// Start loads the catalog and the reward tiers. Operations called before
// Start completes fail with ErrEconomyUninitialized.
func (e *EconomyEngine) Start(ctx context.Context) error {
	e.startMu.Lock()
	defer e.startMu.Unlock()

	if e.initialized.Load() {
		return nil
	}

	items, err := e.loader.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("load item catalog: %w", err)
	}

	tiers, err := e.loader.LoadRewardTiers(ctx)
	if err != nil {
		return fmt.Errorf("load reward tiers: %w", err)
	}

	e.catalog = catalog.New(items)
	e.rewards = reward.NewCalculator(tiers, e.config.GlobalRewardMultiplier)
	e.initialized.Store(true)

	e.logger.Info("Economy engine started",
		zap.Int("items", len(items)),
		zap.Int("tiers", len(tiers)),
		zap.Bool("dynamic_pricing", e.config.DynamicPricing),
		zap.Bool("nft_enabled", e.nftAvailable()))
	return nil
}

func (e *EconomyEngine) Initialized() bool {
	return e.initialized.Load()
}

func (e *EconomyEngine) Events() *event.Bus {
	return e.bus
}

func (e *EconomyEngine) Config() models.EconomyConfig {
	return e.config
}

func (e *EconomyEngine) emit(ev models.EconomyEvent) {
	ev.Timestamp = e.now()
	e.bus.Publish(ev)
}

// fail reports err as the outcome of op and returns it as an EconomyError.
func (e *EconomyEngine) fail(op, playerID string, err error) error {
	var econErr *models.EconomyError
	if !errors.As(err, &econErr) {
		econErr = models.NewEconomyError(op, playerID, err)
	}

	fields := []zap.Field{zap.String("operation", op), zap.String("player_id", playerID), zap.Error(err)}
	if econErr.Fatal() {
		e.logger.Error("Economy invariant violated", fields...)
	} else {
		e.logger.Warn("Economy operation rejected", fields...)
	}

	balance := int64(0)
	if p, ok := e.ledger.Snapshot(playerID); ok {
		balance = p.TokenBalance
	}

	e.emit(models.EconomyEvent{
		Type:      models.EventEconomyError,
		PlayerID:  playerID,
		Balance:   balance,
		Operation: op,
		Error:     econErr.Error(),
	})
	return econErr
}

func (e *EconomyEngine) ready(op, playerID string) error {
	if !e.initialized.Load() {
		return e.fail(op, playerID, models.ErrEconomyUninitialized)
	}
	return nil
}

func (e *EconomyEngine) RegisterPlayer(playerID string) error {
	if err := e.ready(OpRegisterPlayer, playerID); err != nil {
		return err
	}

	created, err := e.ledger.Register(playerID)
	if err != nil {
		return e.fail(OpRegisterPlayer, playerID, err)
	}
	if created {
		e.logger.Info("Player registered", zap.String("player_id", playerID))
	}
	return nil
}

// GetPlayerData returns a snapshot of the player's record.
func (e *EconomyEngine) GetPlayerData(playerID string) (*models.PlayerEconomyData, bool) {
	if !e.initialized.Load() {
		return nil, false
	}
	return e.ledger.Snapshot(playerID)
}

// AwardTokens credits amount adjusted by the player's reward tier. Unknown
// players are registered first.
func (e *EconomyEngine) AwardTokens(playerID string, amount int64, reason string) (int64, error) {
	if err := e.ready(OpAwardTokens, playerID); err != nil {
		return 0, err
	}
	if amount < 0 {
		return 0, e.fail(OpAwardTokens, playerID, models.ErrInvalidAmount)
	}
	if _, err := e.ledger.Register(playerID); err != nil {
		return 0, e.fail(OpAwardTokens, playerID, err)
	}

	var awarded, balance int64
	err := e.ledger.Update([]string{playerID}, func(tx *ledger.Txn) error {
		p, err := tx.Player(playerID)
		if err != nil {
			return err
		}

		awarded = e.rewards.CalculateReward(amount, p.Level, reason)
		balance, err = tx.Credit(playerID, awarded)
		return err
	})
	if err != nil {
		return 0, e.fail(OpAwardTokens, playerID, err)
	}

	e.logger.Info("Tokens awarded",
		zap.String("player_id", playerID),
		zap.Int64("base_amount", amount),
		zap.Int64("amount", awarded),
		zap.String("reason", reason))

	e.emit(models.EconomyEvent{
		Type:     models.EventTokensEarned,
		PlayerID: playerID,
		Amount:   awarded,
		Balance:  balance,
		Reason:   reason,
	})
	return awarded, nil
}

type PurchaseResult struct {
	ItemID           string  `json:"item_id"`
	Quantity         int64   `json:"quantity"`
	TotalPrice       int64   `json:"total_price"`
	Balance          int64   `json:"balance"`
	DemandMultiplier float64 `json:"demand_multiplier"`
}

// PurchaseItem debits the price of quantity units of itemID. With dynamic
// pricing a successful purchase raises the item's demand multiplier by
// 0.01 per unit; the raise is discarded when the debit fails. The item
// lock is taken before the player lock.
func (e *EconomyEngine) PurchaseItem(playerID, itemID string, quantity int64) (PurchaseResult, error) {
	if err := e.ready(OpPurchaseItem, playerID); err != nil {
		return PurchaseResult{}, err
	}
	if quantity < 1 {
		return PurchaseResult{}, e.fail(OpPurchaseItem, playerID, models.ErrInvalidAmount)
	}

	result := PurchaseResult{ItemID: itemID, Quantity: quantity}
	err := e.catalog.WithItem(itemID, func(item *models.GameItem) error {
		var err error
		if result.TotalPrice, err = catalog.Price(*item, quantity, e.config.DynamicPricing); err != nil {
			return err
		}
		if e.config.DynamicPricing {
			if err := catalog.RecordSale(item, quantity); err != nil {
				return err
			}
		}

		err = e.ledger.Update([]string{playerID}, func(tx *ledger.Txn) error {
			var err error
			if result.Balance, err = tx.Debit(playerID, result.TotalPrice); err != nil {
				return err
			}
			_, err = tx.AddItems(playerID, itemID, quantity)
			return err
		})
		if err != nil {
			return err
		}
		result.DemandMultiplier = item.DemandMultiplier
		return nil
	})
	if err != nil {
		return PurchaseResult{}, e.fail(OpPurchaseItem, playerID, err)
	}

	e.logger.Info("Item purchased",
		zap.String("player_id", playerID),
		zap.String("item_id", itemID),
		zap.Int64("quantity", quantity),
		zap.Int64("total_price", result.TotalPrice))

	e.emit(models.EconomyEvent{
		Type:     models.EventTokensSpent,
		PlayerID: playerID,
		Amount:   result.TotalPrice,
		Balance:  result.Balance,
		ItemID:   itemID,
	})
	return result, nil
}

// ClaimDailyBonus credits the daily bonus of the player's tier, at most
// once per 24 hours.
func (e *EconomyEngine) ClaimDailyBonus(playerID string) (int64, error) {
	if err := e.ready(OpDailyBonus, playerID); err != nil {
		return 0, err
	}

	now := e.now()
	var bonus, balance int64
	err := e.ledger.Update([]string{playerID}, func(tx *ledger.Txn) error {
		p, err := tx.Player(playerID)
		if err != nil {
			return err
		}
		if !p.LastRewardClaim.IsZero() && now.Sub(p.LastRewardClaim) < dailyBonusInterval {
			return models.ErrDailyBonusClaimed
		}

		if tier, ok := e.rewards.TierFor(p.Level); ok {
			bonus = reward.Scale(tier.DailyBonus, e.rewards.GlobalMultiplier())
		}
		if balance, err = tx.Credit(playerID, bonus); err != nil {
			return err
		}
		return tx.MarkRewardClaim(playerID, now)
	})
	if err != nil {
		return 0, e.fail(OpDailyBonus, playerID, err)
	}

	e.emit(models.EconomyEvent{
		Type:     models.EventTokensEarned,
		PlayerID: playerID,
		Amount:   bonus,
		Balance:  balance,
		Reason:   "daily_bonus",
	})
	return bonus, nil
}

func (e *EconomyEngine) SetPlayerLevel(playerID string, level int) error {
	if err := e.ready(OpSetLevel, playerID); err != nil {
		return err
	}
	if err := e.ledger.SetLevel(playerID, level); err != nil {
		return e.fail(OpSetLevel, playerID, err)
	}
	return nil
}

// UnlockedItems lists the item ids unlocked by every tier up to the
// player's level.
func (e *EconomyEngine) UnlockedItems(playerID string) ([]string, error) {
	if !e.initialized.Load() {
		return nil, models.ErrEconomyUninitialized
	}

	p, ok := e.ledger.Snapshot(playerID)
	if !ok {
		return nil, models.ErrPlayerUnknown
	}

	var unlocked []string
	for _, tier := range e.rewards.Tiers() {
		if tier.MinLevel <= p.Level {
			unlocked = append(unlocked, tier.UnlockedItemIDs...)
		}
	}
	return unlocked, nil
}

func (e *EconomyEngine) Catalog() []models.GameItem {
	if !e.initialized.Load() {
		return nil
	}
	return e.catalog.List()
}

func (e *EconomyEngine) RewardTiers() []models.RewardTier {
	if !e.initialized.Load() {
		return nil
	}
	return e.rewards.Tiers()
}

// QuoteItemPrice prices quantity units at the current demand. The fiat
// value is left at zero when the market provider cannot price the token.
func (e *EconomyEngine) QuoteItemPrice(ctx context.Context, itemID string, quantity int64) (models.PriceQuote, error) {
	if !e.initialized.Load() {
		return models.PriceQuote{}, models.ErrEconomyUninitialized
	}
	if quantity < 1 {
		return models.PriceQuote{}, models.ErrInvalidAmount
	}

	item, ok := e.catalog.Get(itemID)
	if !ok {
		return models.PriceQuote{}, models.ErrItemNotFound
	}

	total, err := catalog.Price(item, quantity, e.config.DynamicPricing)
	if err != nil {
		return models.PriceQuote{}, err
	}

	quote := models.PriceQuote{
		ItemID:     itemID,
		Quantity:   quantity,
		TotalPrice: total,
	}

	if e.market != nil {
		price, err := e.market.GetTokenPrice(ctx, e.config.TokenContractAddress)
		if err != nil {
			e.logger.Warn("Token price unavailable", zap.String("asset", e.config.TokenContractAddress), zap.Error(err))
			return quote, nil
		}
		quote.TokenPriceUSD = price
		quote.TotalUSD = float64(quote.TotalPrice) * price
	}
	return quote, nil
}
