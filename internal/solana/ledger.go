package solana

import "context"

// LedgerReader answers confirmation queries for the execution controller.
type LedgerReader struct {
	rpc RPCClient
}

// NewLedgerReader creates a ledger reader over the given RPC client.
func NewLedgerReader(rpc RPCClient) *LedgerReader {
	return &LedgerReader{rpc: rpc}
}

// GetConfirmationStatus returns the confirmation status for a signature,
// or (nil, nil) when the node does not know the signature yet.
func (r *LedgerReader) GetConfirmationStatus(ctx context.Context, signature string) (*SignatureStatus, error) {
	statuses, err := r.rpc.GetSignatureStatuses(ctx, []string{signature})
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, nil
	}
	return statuses[0], nil
}

// GetTransactionDetails returns the full transaction for a signature, or
// (nil, nil) when absent.
func (r *LedgerReader) GetTransactionDetails(ctx context.Context, signature string) (*Transaction, error) {
	return r.rpc.GetTransaction(ctx, signature)
}
