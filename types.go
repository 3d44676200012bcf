package interdependence

// SignatureRecord is one co-signature of a declaration, reconstructed from a
// ledger transaction published by the trusted publisher.
type SignatureRecord struct {
	ID       string `json:"SIG_ID"`
	Address  string `json:"SIG_ADDR"`
	Name     string `json:"SIG_NAME"`
	Handle   string `json:"SIG_HANDLE"`
	Verified bool   `json:"SIG_ISVERIFIED"`
}

// ResolvedDeclaration is the request-scoped composite view of a declaration:
// its payload, its deduplicated signer list, and the confirmation status of
// the underlying transaction. It is rebuilt on every resolution and never
// persisted.
type ResolvedDeclaration struct {
	TxID   string            `json:"txId"`
	Data   map[string]any    `json:"data"`
	Sigs   []SignatureRecord `json:"sigs"`
	Status int               `json:"status"`

	// SkippedSigs counts signature candidates dropped for missing required
	// tags. Zero on the happy path.
	SkippedSigs int `json:"skippedSigs,omitempty"`
}

// NewResolvedDeclaration returns the empty not-found view for txID.
func NewResolvedDeclaration(txID string) ResolvedDeclaration {
	return ResolvedDeclaration{
		TxID:   txID,
		Data:   map[string]any{},
		Sigs:   []SignatureRecord{},
		Status: 404,
	}
}

// TxConfirmation carries the block association of a confirmed transaction.
type TxConfirmation struct {
	BlockIndepHash        string `json:"block_indep_hash"`
	BlockHeight           int64  `json:"block_height"`
	NumberOfConfirmations int64  `json:"number_of_confirmations"`
}

// TxStatus is the gateway's confirmation verdict for a transaction. Status
// 200 means confirmed and Confirmed is set; any other value means pending or
// unknown and Confirmed is nil.
type TxStatus struct {
	Status    int             `json:"status"`
	Confirmed *TxConfirmation `json:"confirmed"`
}

// Block is the subset of block metadata the resolver needs.
type Block struct {
	IndepHash string `json:"indep_hash"`
	Timestamp int64  `json:"timestamp"`
	Height    int64  `json:"height"`
}

// TxCandidate is one transaction returned by a ledger search query: its id
// and its already-decoded tag set.
type TxCandidate struct {
	ID   string
	Tags Tags
}
