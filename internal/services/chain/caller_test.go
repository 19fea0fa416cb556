package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

const nftContract = "0x1111111111111111111111111111111111111111"

func TestSimulatedCallerConfirms(t *testing.T) {
	c := NewSimulatedCaller(0, time.Millisecond, 1)

	first, err := c.Submit(context.Background(), nftContract, MethodMint, "p1", uint64(1))
	require.NoError(t, err)
	second, err := c.Submit(context.Background(), nftContract, MethodMint, "p1", uint64(1))
	require.NoError(t, err)

	assert.Len(t, first, 66)
	assert.NotEqual(t, first, second)

	calls := c.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, MethodMint, calls[0].Method)
	assert.Equal(t, first, calls[0].TxID)
}

func TestSimulatedCallerRejectsBadContract(t *testing.T) {
	c := NewSimulatedCaller(0, 0, 1)
	_, err := c.Submit(context.Background(), "not-an-address", MethodMint)
	assert.ErrorIs(t, err, ErrInvalidContract)
}

func TestSimulatedCallerFailureInjection(t *testing.T) {
	c := NewSimulatedCaller(0, 0, 1)
	c.FailNext(MethodTransferFrom, errors.New("out of gas"))

	_, err := c.Submit(context.Background(), nftContract, MethodTransferFrom)
	assert.ErrorIs(t, err, models.ErrContractCallFailed)

	_, err = c.Submit(context.Background(), nftContract, MethodTransferFrom)
	assert.NoError(t, err)

	c.FailAlways(MethodMint, errors.New("paused"))
	_, err = c.Submit(context.Background(), nftContract, MethodMint)
	assert.ErrorIs(t, err, models.ErrContractCallFailed)
	_, err = c.Submit(context.Background(), nftContract, MethodMint)
	assert.ErrorIs(t, err, models.ErrContractCallFailed)

	c.FailAlways(MethodMint, nil)
	_, err = c.Submit(context.Background(), nftContract, MethodMint)
	assert.NoError(t, err)
}

func TestSimulatedCallerHonoursDeadline(t *testing.T) {
	c := NewSimulatedCaller(time.Second, time.Second, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Submit(ctx, nftContract, MethodMint)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestTransactionIDIsDeterministic(t *testing.T) {
	a := TransactionID(nftContract, MethodMint, 7, "p1")
	b := TransactionID(nftContract, MethodMint, 7, "p1")
	c := TransactionID(nftContract, MethodMint, 8, "p1")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
