package models

// TradeRecord is a single entry of the wallet's trade history.
type TradeRecord struct {
	Token     string  `json:"token"`
	Timestamp string  `json:"timestamp"` // ISO 8601
	Amount    float64 `json:"amount"`
	IsSell    bool    `json:"is_sell"`
}

// NewTrades is the data pipeline's payload for pushing trades into history.
type NewTrades struct {
	WalletID  string         `json:"wallet_id"`
	Trades    []*TradeRecord `json:"trades"`
	Signature string         `json:"-"` // provided in a header
}
