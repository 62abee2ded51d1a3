package domain

// Direction identifies the side of a trade against the bonding curve.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// FailureClass classifies why a trade attempt failed.
type FailureClass string

const (
	// FailureLimitExceeded means the requested buy exceeds the configured cap.
	FailureLimitExceeded FailureClass = "LIMIT_EXCEEDED"

	// FailureValidation covers malformed input: bad amounts, bad keys.
	FailureValidation FailureClass = "VALIDATION"

	// FailureCurveComplete means the token graduated off the curve.
	FailureCurveComplete FailureClass = "CURVE_COMPLETE"

	// FailureNetwork covers RPC failures at fetch, submit or confirm.
	FailureNetwork FailureClass = "NETWORK"
)

// TradeIntent is a single requested trade. Amount is in the input side's
// base units: lamports for a buy, token base units for a sell.
type TradeIntent struct {
	Direction Direction
	Token     *TokenSnapshot
	Amount    uint64
}

// TradeResult is the outcome of one trade attempt. Produced once per
// intent and never mutated after construction.
type TradeResult struct {
	Success bool

	// Set on success.
	Signature string
	AmountOut uint64 // estimated output in base units

	// Set on failure.
	Failure FailureClass
	Err     string
}

// TradeLogEntry is one persisted trade attempt.
type TradeLogEntry struct {
	Mint        string
	Direction   Direction
	AmountIn    uint64
	ExpectedOut uint64
	MinOut      uint64
	SlippageBps uint64
	Success     bool
	Signature   string
	Failure     FailureClass
	Err         string
	AttemptedAt int64 // unix ms
}
