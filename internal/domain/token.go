package domain

// TokenSnapshot is an immutable view of a token's bonding-curve state at
// query time. Reserves change every block, so a snapshot is fetched fresh
// per trade attempt and never cached across calls.
type TokenSnapshot struct {
	Mint                   string // token mint address
	Name                   string
	Symbol                 string
	BondingCurve           string // curve state account
	AssociatedBondingCurve string // curve's token vault
	Creator                string

	// Reserves in base units (lamports / token base units).
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64

	TotalSupply uint64
	Complete    bool // graduated off the curve; trading against it is invalid
}

// TokenRecord is a discovered token as persisted by the agent.
type TokenRecord struct {
	Mint            string
	Name            string
	Symbol          string
	URI             string
	Creator         string
	BondingCurveKey string
	Signature       string // creation transaction
	InitialBuySOL   float64
	MarketCapSOL    float64
	DiscoveredAtMs  int64
}
