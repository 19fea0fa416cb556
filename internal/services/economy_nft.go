package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/internal/services/chain"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/ledger"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// PendingTrade is a trade whose NFT and payment sit in escrow while the
// transfer is confirmed on chain.
type PendingTrade struct {
	ID        string          `json:"id"`
	SellerID  string          `json:"seller_id"`
	BuyerID   string          `json:"buyer_id"`
	NFT       models.OwnedNFT `json:"nft"`
	Price     int64           `json:"price"`
	Fee       int64           `json:"fee"`
	CreatedAt time.Time       `json:"created_at"`
}

type TradeResult struct {
	TokenID       uint64 `json:"token_id"`
	Price         int64  `json:"price"`
	Fee           int64  `json:"fee"`
	SellerBalance int64  `json:"seller_balance"`
	BuyerBalance  int64  `json:"buyer_balance"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// nftAvailable reports whether NFT operations go through the contract.
func (e *EconomyEngine) nftAvailable() bool {
	return e.config.NFTEnabled && e.caller != nil && common.IsHexAddress(e.config.NFTContractAddress)
}

// MarketplaceFee is the part of price burned by a trade.
func (e *EconomyEngine) MarketplaceFee(price int64) int64 {
	bps := e.config.MarketplaceFeeBps
	return price/10000*bps + price%10000*bps/10000
}

func (e *EconomyEngine) contractContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.config.ContractCallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.config.ContractCallTimeout)
}

func contractError(err error) error {
	if errors.Is(err, models.ErrContractCallFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrContractCallFailed, err)
}

// MintNFT submits a mint and adds the NFT to the player's inventory once
// the contract confirms it. No ledger lock is held during the call.
func (e *EconomyEngine) MintNFT(ctx context.Context, playerID, metadataURI string, rarity models.Rarity) (models.OwnedNFT, error) {
	if err := e.ready(OpMintNFT, playerID); err != nil {
		return models.OwnedNFT{}, err
	}
	if !e.nftAvailable() {
		return models.OwnedNFT{}, e.fail(OpMintNFT, playerID, models.ErrNFTSubsystemUnavailable)
	}
	if !e.ledger.Exists(playerID) {
		return models.OwnedNFT{}, e.fail(OpMintNFT, playerID, models.ErrPlayerUnknown)
	}

	tokenID := e.tokenSeq.Add(1)

	callCtx, cancel := e.contractContext(ctx)
	txID, err := e.caller.Submit(callCtx, e.config.NFTContractAddress, chain.MethodMint, playerID, tokenID, metadataURI)
	cancel()
	if err != nil {
		return models.OwnedNFT{}, e.fail(OpMintNFT, playerID, contractError(err))
	}

	nft := models.OwnedNFT{
		TokenID:         tokenID,
		ContractAddress: e.config.NFTContractAddress,
		MetadataURI:     metadataURI,
		Rarity:          rarity,
		AcquiredAt:      e.now(),
		PurchasePrice:   0,
	}
	if err := e.ledger.AddNFT(playerID, nft); err != nil {
		e.logger.Error("Minted NFT could not be recorded",
			zap.String("player_id", playerID),
			zap.Uint64("token_id", tokenID),
			zap.String("tx_id", txID),
			zap.Error(err))
		return models.OwnedNFT{}, e.fail(OpMintNFT, playerID, err)
	}

	balance := int64(0)
	if p, ok := e.ledger.Snapshot(playerID); ok {
		balance = p.TokenBalance
	}

	e.logger.Info("NFT minted",
		zap.String("player_id", playerID),
		zap.Uint64("token_id", tokenID),
		zap.String("rarity", rarity.String()),
		zap.String("tx_id", txID))

	e.emit(models.EconomyEvent{
		Type:            models.EventNFTMinted,
		PlayerID:        playerID,
		Balance:         balance,
		TokenID:         tokenID,
		TransactionID:   txID,
		ContractAddress: nft.ContractAddress,
	})
	return nft, nil
}

// TradeNFT sells tokenID from seller to buyer. The buyer pays price, the
// seller receives price minus the marketplace fee and the fee is burned.
//
// Without the NFT subsystem the trade is one critical section over both
// players. With it, the NFT and the payment move into escrow, the
// transfer is submitted with no lock held, and the trade either settles
// or is rolled back exactly.
func (e *EconomyEngine) TradeNFT(ctx context.Context, sellerID, buyerID string, tokenID uint64, price int64) (TradeResult, error) {
	if err := e.ready(OpTradeNFT, sellerID); err != nil {
		return TradeResult{}, err
	}
	if price < 0 {
		return TradeResult{}, e.fail(OpTradeNFT, sellerID, models.ErrInvalidAmount)
	}
	if sellerID == buyerID {
		return TradeResult{}, e.fail(OpTradeNFT, sellerID, fmt.Errorf("%w: seller and buyer are the same player", models.ErrInvalidAmount))
	}

	fee := e.MarketplaceFee(price)
	result := TradeResult{TokenID: tokenID, Price: price, Fee: fee}

	var err error
	if !e.nftAvailable() {
		err = e.settleInMemory(sellerID, buyerID, tokenID, price, fee, &result)
	} else {
		err = e.settleOnChain(ctx, sellerID, buyerID, tokenID, price, fee, &result)
	}
	if err != nil {
		return TradeResult{}, e.fail(OpTradeNFT, sellerID, err)
	}

	e.logger.Info("NFT traded",
		zap.String("seller_id", sellerID),
		zap.String("buyer_id", buyerID),
		zap.Uint64("token_id", tokenID),
		zap.Int64("price", price),
		zap.Int64("fee", fee))

	e.emit(models.EconomyEvent{
		Type:                models.EventNFTTraded,
		PlayerID:            sellerID,
		Amount:              price,
		Balance:             result.SellerBalance,
		TokenID:             tokenID,
		CounterpartyID:      buyerID,
		CounterpartyBalance: result.BuyerBalance,
		Fee:                 fee,
		TransactionID:       result.TransactionID,
	})
	return result, nil
}

func (e *EconomyEngine) settleInMemory(sellerID, buyerID string, tokenID uint64, price, fee int64, result *TradeResult) error {
	now := e.now()
	return e.ledger.Update([]string{sellerID, buyerID}, func(tx *ledger.Txn) error {
		nft, err := tx.RemoveNFT(sellerID, tokenID)
		if err != nil {
			return err
		}
		if result.BuyerBalance, err = tx.Debit(buyerID, price); err != nil {
			return err
		}
		if result.SellerBalance, err = tx.Credit(sellerID, price-fee); err != nil {
			return err
		}

		nft.AcquiredAt = now
		nft.PurchasePrice = price
		return tx.AddNFT(buyerID, nft)
	})
}

func (e *EconomyEngine) settleOnChain(ctx context.Context, sellerID, buyerID string, tokenID uint64, price, fee int64, result *TradeResult) error {
	pending := PendingTrade{
		ID:        uuid.New().String(),
		SellerID:  sellerID,
		BuyerID:   buyerID,
		Price:     price,
		Fee:       fee,
		CreatedAt: e.now(),
	}

	e.persistMu.RLock()
	err := e.ledger.Update([]string{sellerID, buyerID}, func(tx *ledger.Txn) error {
		nft, err := tx.RemoveNFT(sellerID, tokenID)
		if err != nil {
			return err
		}
		if _, err := tx.Debit(buyerID, price); err != nil {
			return err
		}
		pending.NFT = nft
		return nil
	})
	if err == nil {
		e.escrowMu.Lock()
		e.escrows[pending.ID] = pending
		e.escrowMu.Unlock()
	}
	e.persistMu.RUnlock()
	if err != nil {
		return err
	}

	contract := pending.NFT.ContractAddress
	callCtx, cancel := e.contractContext(ctx)
	txID, callErr := e.caller.Submit(callCtx, contract, chain.MethodTransferFrom, sellerID, buyerID, tokenID, price)
	cancel()

	if callErr != nil {
		if err := e.resolveEscrow(pending.ID, func() error { return e.rollbackTrade(pending) }); err != nil {
			return err
		}
		return contractError(callErr)
	}

	result.TransactionID = txID
	err = e.resolveEscrow(pending.ID, func() error { return e.completeTrade(pending, result) })
	if err != nil {
		e.logger.Error("Confirmed trade could not settle",
			zap.String("trade_id", pending.ID),
			zap.String("tx_id", txID),
			zap.Error(err))
		return fmt.Errorf("%w: settle trade %s: %w", models.ErrInternalInvariantViolation, pending.ID, err)
	}
	return nil
}

// completeTrade delivers the escrowed NFT to the buyer and pays the seller.
func (e *EconomyEngine) completeTrade(pending PendingTrade, result *TradeResult) error {
	now := e.now()
	return e.ledger.Update([]string{pending.SellerID, pending.BuyerID}, func(tx *ledger.Txn) error {
		nft := pending.NFT
		nft.AcquiredAt = now
		nft.PurchasePrice = pending.Price
		if err := tx.AddNFT(pending.BuyerID, nft); err != nil {
			return err
		}

		var err error
		if result.SellerBalance, err = tx.Credit(pending.SellerID, pending.Price-pending.Fee); err != nil {
			return err
		}
		buyer, err := tx.Player(pending.BuyerID)
		if err != nil {
			return err
		}
		result.BuyerBalance = buyer.TokenBalance
		return nil
	})
}

// resolveEscrow applies fn and drops the escrow entry in one step as far as
// Save can observe.
func (e *EconomyEngine) resolveEscrow(id string, fn func() error) error {
	e.persistMu.RLock()
	defer e.persistMu.RUnlock()
	defer func() {
		e.escrowMu.Lock()
		delete(e.escrows, id)
		e.escrowMu.Unlock()
	}()
	return fn()
}

// rollbackTrade returns the escrowed NFT to the seller and refunds the
// buyer.
func (e *EconomyEngine) rollbackTrade(pending PendingTrade) error {
	err := e.ledger.Update([]string{pending.SellerID, pending.BuyerID}, func(tx *ledger.Txn) error {
		if err := tx.AddNFT(pending.SellerID, pending.NFT); err != nil {
			return err
		}
		_, err := tx.Refund(pending.BuyerID, pending.Price)
		return err
	})
	if err != nil {
		e.logger.Error("Trade rollback failed",
			zap.String("trade_id", pending.ID),
			zap.Uint64("token_id", pending.NFT.TokenID),
			zap.Error(err))
		return fmt.Errorf("%w: rollback trade %s: %w", models.ErrInternalInvariantViolation, pending.ID, err)
	}

	e.logger.Warn("Trade rolled back",
		zap.String("trade_id", pending.ID),
		zap.String("seller_id", pending.SellerID),
		zap.String("buyer_id", pending.BuyerID),
		zap.Uint64("token_id", pending.NFT.TokenID))
	return nil
}

// PendingTrades lists the trades currently in escrow, oldest first.
func (e *EconomyEngine) PendingTrades() []PendingTrade {
	e.escrowMu.Lock()
	defer e.escrowMu.Unlock()

	out := make([]PendingTrade, 0, len(e.escrows))
	for _, pending := range e.escrows {
		out = append(out, pending)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
