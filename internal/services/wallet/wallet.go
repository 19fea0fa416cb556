// Package wallet is the boundary to the player's wallet connector.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrNotConnected   = errors.New("wallet not connected")
)

type NotificationKind int

const (
	Connected NotificationKind = iota
	Disconnected
)

func (k NotificationKind) String() string {
	if k == Connected {
		return "connected"
	}
	return "disconnected"
}

type Notification struct {
	Kind    NotificationKind
	Address string
}

// Connector returns the address of a connected wallet and reports
// connection changes to its subscribers.
type Connector interface {
	Connect(ctx context.Context) (string, error)
	Disconnect(ctx context.Context) error
	Subscribe(fn func(Notification)) (unsubscribe func())
}

// NormalizeAddress validates a hex address and returns its checksummed form.
func NormalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return common.HexToAddress(address).Hex(), nil
}

type notifier struct {
	mu          sync.Mutex
	next        int
	subscribers map[int]func(Notification)
}

func (n *notifier) Subscribe(fn func(Notification)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subscribers == nil {
		n.subscribers = make(map[int]func(Notification))
	}

	id := n.next
	n.next++
	n.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subscribers, id)
			n.mu.Unlock()
		})
	}
}

func (n *notifier) notify(note Notification) {
	n.mu.Lock()
	subscribers := make([]func(Notification), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		subscribers = append(subscribers, fn)
	}
	n.mu.Unlock()

	for _, fn := range subscribers {
		fn(note)
	}
}

// SimulatedWallet creates a fresh key pair on the first Connect and keeps
// it until Disconnect.
type SimulatedWallet struct {
	notifier
	mu  sync.Mutex
	key *ecdsa.PrivateKey
}

func NewSimulatedWallet() *SimulatedWallet {
	return &SimulatedWallet{}
}

func (w *SimulatedWallet) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	w.mu.Lock()
	fresh := w.key == nil
	if fresh {
		key, err := crypto.GenerateKey()
		if err != nil {
			w.mu.Unlock()
			return "", fmt.Errorf("generate wallet key: %w", err)
		}
		w.key = key
	}
	address := crypto.PubkeyToAddress(w.key.PublicKey).Hex()
	w.mu.Unlock()

	if fresh {
		w.notify(Notification{Kind: Connected, Address: address})
	}
	return address, nil
}

func (w *SimulatedWallet) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	if w.key == nil {
		w.mu.Unlock()
		return ErrNotConnected
	}
	address := crypto.PubkeyToAddress(w.key.PublicKey).Hex()
	w.key = nil
	w.mu.Unlock()

	w.notify(Notification{Kind: Disconnected, Address: address})
	return nil
}

func (w *SimulatedWallet) Address() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.key == nil {
		return "", false
	}
	return crypto.PubkeyToAddress(w.key.PublicKey).Hex(), true
}
