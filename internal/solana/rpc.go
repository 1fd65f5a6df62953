package solana

import "context"

// RPCClient defines the Solana JSON-RPC HTTP interface the engine consumes.
type RPCClient interface {
	// GetTransaction retrieves a transaction by signature.
	// Returns (nil, nil) if the transaction is not found.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)

	// GetSignatureStatuses retrieves confirmation status for signatures.
	// The result slice matches the input order; entries are nil for
	// signatures the node does not know about.
	GetSignatureStatuses(ctx context.Context, signatures []string) ([]*SignatureStatus, error)

	// SendTransaction submits a base64-encoded signed transaction and
	// returns its signature. Errors indicate network-level rejection only.
	SendTransaction(ctx context.Context, txBase64 string) (string, error)

	// GetAccountInfo retrieves account info by public key.
	// Returns (nil, nil) if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetSlot retrieves the current slot.
	GetSlot(ctx context.Context) (int64, error)

	// GetLatestBlockhash retrieves a recent blockhash for transaction
	// construction.
	GetLatestBlockhash(ctx context.Context) (string, error)
}

// Transaction represents a Solana transaction.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err         interface{}
	LogMessages []string
}

// TransactionMessage contains parsed transaction message.
type TransactionMessage struct {
	AccountKeys []string
}

// Confirmation levels reported by getSignatureStatuses.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// SignatureStatus is one entry of a getSignatureStatuses response.
type SignatureStatus struct {
	Slot               int64
	Confirmations      *int64 // nil once rooted
	Err                interface{}
	ConfirmationStatus string // processed | confirmed | finalized
}

// Confirmed reports whether the transaction reached at least confirmed
// commitment and did not fail on-chain.
func (s *SignatureStatus) Confirmed() bool {
	if s == nil || s.Err != nil {
		return false
	}
	return s.ConfirmationStatus == CommitmentConfirmed || s.ConfirmationStatus == CommitmentFinalized
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       []byte // decoded account data
	Executable bool
}
