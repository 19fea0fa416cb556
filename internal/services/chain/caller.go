// Package chain is the boundary to the contract-call layer.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/exp/rand"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

const (
	MethodMint         = "mint"
	MethodTransferFrom = "transferFrom"
)

var ErrInvalidContract = errors.New("invalid contract address")

// ContractCaller submits a transaction and blocks until it is confirmed,
// rejected, or ctx is done. The returned id identifies the transaction.
type ContractCaller interface {
	Submit(ctx context.Context, contractAddress, method string, args ...any) (txID string, err error)
}

type Call struct {
	ContractAddress string
	Method          string
	Args            []any
	TxID            string
	Err             error
}

// SimulatedCaller confirms every call after a random latency. Failures can
// be injected per method.
type SimulatedCaller struct {
	mu         sync.Mutex
	rng        *rand.Rand
	minLatency time.Duration
	maxLatency time.Duration
	nonce      uint64
	failNext   map[string][]error
	failAlways map[string]error
	calls      []Call
}

func NewSimulatedCaller(minLatency, maxLatency time.Duration, seed uint64) *SimulatedCaller {
	if maxLatency < minLatency {
		maxLatency = minLatency
	}

	return &SimulatedCaller{
		rng:        rand.New(rand.NewSource(seed)),
		minLatency: minLatency,
		maxLatency: maxLatency,
		failNext:   make(map[string][]error),
		failAlways: make(map[string]error),
	}
}

// FailNext makes the next call of method fail with err.
func (c *SimulatedCaller) FailNext(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext[method] = append(c.failNext[method], err)
}

// FailAlways makes every call of method fail with err until cleared with a
// nil err.
func (c *SimulatedCaller) FailAlways(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failAlways, method)
		return
	}
	c.failAlways[method] = err
}

func (c *SimulatedCaller) SetLatency(min, max time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if max < min {
		max = min
	}
	c.minLatency, c.maxLatency = min, max
}

func (c *SimulatedCaller) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *SimulatedCaller) Submit(ctx context.Context, contractAddress, method string, args ...any) (string, error) {
	if !common.IsHexAddress(contractAddress) {
		return "", fmt.Errorf("%w: %q", ErrInvalidContract, contractAddress)
	}

	c.mu.Lock()
	c.nonce++
	nonce := c.nonce
	latency := c.minLatency
	if spread := c.maxLatency - c.minLatency; spread > 0 {
		latency += time.Duration(c.rng.Int63n(int64(spread)))
	}
	failure := c.failAlways[method]
	if queued := c.failNext[method]; len(queued) > 0 {
		failure = queued[0]
		c.failNext[method] = queued[1:]
	}
	c.mu.Unlock()

	txID := TransactionID(contractAddress, method, nonce, args...)

	var err error
	if latency > 0 {
		timer := time.NewTimer(latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			err = ctx.Err()
		case <-timer.C:
		}
	} else if ctx.Err() != nil {
		err = ctx.Err()
	}

	if err == nil && failure != nil {
		err = fmt.Errorf("%w: %s reverted: %v", models.ErrContractCallFailed, method, failure)
	}

	c.mu.Lock()
	c.calls = append(c.calls, Call{ContractAddress: contractAddress, Method: method, Args: args, TxID: txID, Err: err})
	c.mu.Unlock()

	if err != nil {
		return "", err
	}
	return txID, nil
}

// TransactionID derives a deterministic 0x-prefixed hash for a call.
func TransactionID(contractAddress, method string, nonce uint64, args ...any) string {
	payload := fmt.Sprintf("%s|%s|%d|%v", common.HexToAddress(contractAddress).Hex(), method, nonce, args)
	return crypto.Keccak256Hash([]byte(payload)).Hex()
}
