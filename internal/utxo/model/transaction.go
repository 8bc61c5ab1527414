package model

// TokenData describes a token carried by an output.
type TokenData struct {
	Category   string
	Amount     uint64
	Capability string
	Commitment string
}

// RawInput references a previous transaction output.
type RawInput struct {
	TxID        string
	OutputIndex uint32
}

// RawOutput is a decoded transaction output.
type RawOutput struct {
	Address     string
	Value       uint64
	Token       *TokenData
	OutputIndex uint32
}

// RawTransaction is a transaction as delivered by a chain source.
type RawTransaction struct {
	TxID    string
	Inputs  []RawInput
	Outputs []RawOutput
}

// Asset returns the asset carried by the output and its amount.
func (o RawOutput) Asset() (AssetID, uint64) {
	if o.Token != nil && o.Token.Category != "" {
		return AssetID(o.Token.Category), o.Token.Amount
	}
	return NativeAsset, o.Value
}
