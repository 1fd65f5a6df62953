package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"solana-sandwich-engine/internal/domain"
)

// TxEncoder builds a signed, serialized transaction for a trade leg.
// Instruction construction and signing are venue/wallet concerns that live
// behind this interface; the engine only cares that the result is ready for
// sendTransaction.
type TxEncoder interface {
	// Encode returns the base64-encoded signed transaction for the leg.
	// computeUnitPrice is the priority fee in micro-lamports per compute
	// unit, already scaled for the chosen tier.
	Encode(ctx context.Context, leg domain.TradeLeg, recentBlockhash string, computeUnitPrice uint64) (string, error)
}

// RPCBroadcaster submits trade legs through sendTransaction with a
// tier-scaled priority fee. Safe for concurrent use by all executions.
type RPCBroadcaster struct {
	rpc     RPCClient
	encoder TxEncoder
	// baseFee is the standard-tier compute unit price in micro-lamports.
	baseFee uint64
}

// NewRPCBroadcaster creates a broadcaster over the given RPC client and
// transaction encoder.
func NewRPCBroadcaster(rpc RPCClient, encoder TxEncoder, baseFee uint64) *RPCBroadcaster {
	return &RPCBroadcaster{
		rpc:     rpc,
		encoder: encoder,
		baseFee: baseFee,
	}
}

// Submit encodes and broadcasts the leg at the given priority tier.
// Returns the transaction signature on acceptance. Errors indicate
// network-level rejection only; eventual on-chain failure is observed via
// signature status polling.
func (b *RPCBroadcaster) Submit(ctx context.Context, leg domain.TradeLeg, tier domain.PriorityTier) (string, error) {
	blockhash, err := b.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch blockhash: %w", err)
	}

	price := b.baseFee * tier.Multiplier()
	txBase64, err := b.encoder.Encode(ctx, leg, blockhash, price)
	if err != nil {
		return "", fmt.Errorf("encode transaction: %w", err)
	}

	sig, err := b.rpc.SendTransaction(ctx, txBase64)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return sig, nil
}

// StubEncoder serializes the leg as a JSON payload instead of a real signed
// transaction. It exists for tests and dry runs against mock RPC endpoints;
// a production deployment plugs in a wallet-backed encoder.
type StubEncoder struct{}

// Encode implements TxEncoder.
func (StubEncoder) Encode(_ context.Context, leg domain.TradeLeg, recentBlockhash string, computeUnitPrice uint64) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"inputMint":        leg.InputMint,
		"outputMint":       leg.OutputMint,
		"amountIn":         leg.AmountIn,
		"limit":            leg.Limit,
		"recentBlockhash":  recentBlockhash,
		"computeUnitPrice": computeUnitPrice,
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}
