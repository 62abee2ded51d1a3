package domain

// NewTokenEvent is a token creation observed on the venue's event feed.
// Amounts are in display units as reported by the feed.
type NewTokenEvent struct {
	Signature       string
	Mint            string
	Trader          string
	Name            string
	Symbol          string
	URI             string
	BondingCurveKey string
	InitialBuy      float64
	SOLAmount       float64
	MarketCapSOL    float64
	VSolReserves    float64 // vSolInBondingCurve
	VTokenReserves  float64 // vTokensInBondingCurve
}

// TradeTapeRow is one observed stream trade as persisted to the tape.
type TradeTapeRow struct {
	Mint           string
	Direction      Direction
	Signature      string
	Trader         string
	SOLAmount      float64
	TokenAmount    float64
	MarketCapSOL   float64
	VSolReserves   float64
	VTokenReserves float64
	ObservedAtMs   int64
}

// TradeEvent is a buy or sell against a subscribed token's curve.
type TradeEvent struct {
	Signature      string
	Mint           string
	Trader         string
	Direction      Direction
	TokenAmount    float64
	SOLAmount      float64
	MarketCapSOL   float64
	VSolReserves   float64
	VTokenReserves float64
}
