// Package curve implements the venue's constant-product bonding curve math.
// All functions are pure and operate on base-unit integers; display-unit
// conversion is the caller's concern.
package curve

import (
	"math/big"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

// Reserves is the virtual reserve pair controlling a token's price.
type Reserves struct {
	Sol   uint64 // lamports
	Token uint64 // token base units
}

// ReservesOf extracts the reserve pair from a token snapshot.
func ReservesOf(t *domain.TokenSnapshot) Reserves {
	return Reserves{Sol: t.VirtualSolReserves, Token: t.VirtualTokenReserves}
}

// ExpectedOut returns the output amount for a swap of amountIn against the
// curve, holding k = sol * token constant. For a buy amountIn is lamports
// and the result is token base units; for a sell the roles are swapped.
//
// Reserve products exceed 64 bits (reserves run to ~10^15 base units), so
// the intermediate math uses big.Int. The result is floored and clamped to
// zero; depleting the output reserve is a valid zero output, not an error.
func ExpectedOut(direction domain.Direction, amountIn uint64, r Reserves) uint64 {
	var reserveIn, reserveOut uint64
	if direction == domain.DirectionBuy {
		reserveIn, reserveOut = r.Sol, r.Token
	} else {
		reserveIn, reserveOut = r.Token, r.Sol
	}

	if amountIn == 0 || reserveIn == 0 || reserveOut == 0 {
		return 0
	}

	in := new(big.Int).SetUint64(amountIn)
	rIn := new(big.Int).SetUint64(reserveIn)
	rOut := new(big.Int).SetUint64(reserveOut)

	// out = in * reserveOut / (reserveIn + in), floor division.
	out := new(big.Int).Mul(in, rOut)
	out.Div(out, new(big.Int).Add(rIn, in))

	if out.Sign() < 0 {
		return 0
	}
	if !out.IsUint64() {
		return reserveOut
	}
	return out.Uint64()
}

// Apply returns the reserve state after a swap of amountIn yielding
// amountOut in the given direction.
func Apply(direction domain.Direction, amountIn, amountOut uint64, r Reserves) Reserves {
	if direction == domain.DirectionBuy {
		return Reserves{Sol: r.Sol + amountIn, Token: r.Token - amountOut}
	}
	return Reserves{Sol: r.Sol - amountOut, Token: r.Token + amountIn}
}

// MinAcceptable applies a slippage tolerance in basis points to an expected
// output, flooring the result. Rounding is always down: a higher floor
// could fail a trade that is still acceptable to the user, a lower one only
// loosens the bound.
func MinAcceptable(amountOut uint64, slippageBps uint64) uint64 {
	if slippageBps >= 10000 {
		return 0
	}
	out := new(big.Int).SetUint64(amountOut)
	out.Mul(out, new(big.Int).SetUint64(10000-slippageBps))
	out.Div(out, big.NewInt(10000))
	return out.Uint64()
}
