package pump

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

// accountDiscriminatorLen is the fixed prefix identifying the account type,
// preceding the serialized state.
const accountDiscriminatorLen = 8

// BondingCurveState is the deserialized curve state account.
type BondingCurveState struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
}

// DecodeBondingCurve parses raw bonding-curve account data.
func DecodeBondingCurve(data []byte) (*BondingCurveState, error) {
	if len(data) <= accountDiscriminatorLen {
		return nil, fmt.Errorf("bonding curve account data too short: %d bytes", len(data))
	}

	var state BondingCurveState
	if err := borsh.Deserialize(&state, data[accountDiscriminatorLen:]); err != nil {
		return nil, fmt.Errorf("deserialize bonding curve: %w", err)
	}
	return &state, nil
}

// Snapshot assembles a token snapshot from on-chain curve state.
func Snapshot(mint solana.PublicKey, state *BondingCurveState) *domain.TokenSnapshot {
	return &domain.TokenSnapshot{
		Mint:                   mint.String(),
		BondingCurve:           DeriveBondingCurve(mint).String(),
		AssociatedBondingCurve: DeriveAssociatedBondingCurve(mint).String(),
		VirtualSolReserves:     state.VirtualSolReserves,
		VirtualTokenReserves:   state.VirtualTokenReserves,
		TotalSupply:            state.TokenTotalSupply,
		Complete:               state.Complete,
	}
}
