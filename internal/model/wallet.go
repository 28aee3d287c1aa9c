package model

// WalletFields lists the keys a stored wallet carries besides its identifier.
var WalletFields = []string{"owner_id", "address", "chain"}

// Wallet is a blockchain address tracked by a user.
type Wallet struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Address string `json:"address"`
	Chain   string `json:"chain"`
}

// IsZero reports whether w is the empty "not found" value.
func (w Wallet) IsZero() bool {
	return w.ID == ""
}

// WalletDraft holds the fields of a wallet that has not been stored yet.
type WalletDraft struct {
	OwnerID string `json:"owner_id"`
	Address string `json:"address"`
	Chain   string `json:"chain"`
}

// WalletPatch is a partial wallet update.
type WalletPatch struct {
	OwnerID *string `json:"owner_id,omitempty"`
	Address *string `json:"address,omitempty"`
	Chain   *string `json:"chain,omitempty"`
}
