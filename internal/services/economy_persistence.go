package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/internal/services/wallet"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// Save writes every player record through the snapshot store, and the
// item demand multipliers when the catalog loader can persist them. Trades
// still in escrow are saved as if they had been rolled back.
func (e *EconomyEngine) Save(ctx context.Context) error {
	if !e.initialized.Load() {
		return models.ErrEconomyUninitialized
	}
	if e.store == nil {
		return ErrNoSnapshotStore
	}

	e.persistMu.Lock()
	records := e.ledger.Snapshots()
	pending := e.PendingTrades()
	e.persistMu.Unlock()
	returnEscrows(records, pending)

	if err := e.store.SaveSnapshots(ctx, records); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	if demand, ok := e.loader.(DemandStore); ok {
		if err := demand.SaveDemandMultipliers(ctx, e.catalog.DemandMultipliers()); err != nil {
			return fmt.Errorf("save demand multipliers: %w", err)
		}
	}

	e.logger.Info("Economy saved", zap.Int("players", len(records)), zap.Int("escrows_returned", len(pending)))
	return nil
}

// returnEscrows writes the pre-trade state of every open escrow into
// records, so a restart never loses an NFT or a payment that was in flight.
func returnEscrows(records []*models.PlayerEconomyData, pending []PendingTrade) {
	byID := make(map[string]*models.PlayerEconomyData, len(records))
	for _, p := range records {
		byID[p.PlayerID] = p
	}

	for _, trade := range pending {
		if seller, ok := byID[trade.SellerID]; ok {
			seller.OwnedNFTs = append(seller.OwnedNFTs, trade.NFT)
		}
		if buyer, ok := byID[trade.BuyerID]; ok {
			buyer.TokenBalance += trade.Price
			buyer.TotalSpent -= trade.Price
		}
	}
}

// Load replaces the ledger with the stored records. It must run after
// Start and before the engine serves requests.
func (e *EconomyEngine) Load(ctx context.Context) error {
	if !e.initialized.Load() {
		return models.ErrEconomyUninitialized
	}
	if e.store == nil {
		return ErrNoSnapshotStore
	}

	records, err := e.store.LoadSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	if err := e.ledger.Restore(records); err != nil {
		return fmt.Errorf("restore ledger: %w", err)
	}

	var maxTokenID uint64
	for _, p := range records {
		for _, nft := range p.OwnedNFTs {
			if strings.EqualFold(nft.ContractAddress, e.config.NFTContractAddress) && nft.TokenID > maxTokenID {
				maxTokenID = nft.TokenID
			}
		}
	}
	if maxTokenID > e.tokenSeq.Load() {
		e.tokenSeq.Store(maxTokenID)
	}

	e.logger.Info("Economy loaded", zap.Int("players", len(records)), zap.Uint64("last_token_id", maxTokenID))
	return nil
}

// RegisterWallet registers the player keyed by a wallet address and
// returns the checksummed address used as player id.
func (e *EconomyEngine) RegisterWallet(address string) (string, error) {
	playerID, err := wallet.NormalizeAddress(address)
	if err != nil {
		return "", e.fail(OpRegisterPlayer, address, err)
	}
	if err := e.RegisterPlayer(playerID); err != nil {
		return "", err
	}
	return playerID, nil
}

// ConnectWallet connects through connector and registers the resulting
// address as a player.
func (e *EconomyEngine) ConnectWallet(ctx context.Context, connector wallet.Connector) (string, error) {
	address, err := connector.Connect(ctx)
	if err != nil {
		return "", e.fail(OpRegisterPlayer, "", err)
	}
	return e.RegisterWallet(address)
}

// AttachWallet registers every address the connector reports as
// connected.
func (e *EconomyEngine) AttachWallet(connector wallet.Connector) (detach func()) {
	return connector.Subscribe(func(n wallet.Notification) {
		switch n.Kind {
		case wallet.Connected:
			if _, err := e.RegisterWallet(n.Address); err != nil {
				e.logger.Warn("Connected wallet not registered", zap.String("address", n.Address), zap.Error(err))
			}
		case wallet.Disconnected:
			e.logger.Info("Wallet disconnected", zap.String("address", n.Address))
		}
	})
}
