// Package pump holds the on-chain program constants, account derivation and
// instruction encoding for the venue's bonding-curve program.
package pump

import (
	"github.com/gagliardetto/solana-go"
)

// Fixed program addresses. These are deploy-time constants of the venue's
// on-chain program, not configuration.
var (
	ProgramID      = solana.MPK("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	GlobalAccount  = solana.MPK("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
	FeeRecipient   = solana.MPK("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")
	EventAuthority = solana.MPK("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")
)

// TotalSupply is the fixed supply every curve token launches with,
// in base units (6 decimals).
const TotalSupply uint64 = 1_000_000_000_000_000

const bondingCurveSeed = "bonding-curve"

// DeriveBondingCurve returns the curve state account for a mint.
func DeriveBondingCurve(mint solana.PublicKey) solana.PublicKey {
	pda, _, _ := solana.FindProgramAddress(
		[][]byte{[]byte(bondingCurveSeed), mint.Bytes()},
		ProgramID,
	)
	return pda
}

// DeriveAssociatedBondingCurve returns the curve's token vault for a mint.
func DeriveAssociatedBondingCurve(mint solana.PublicKey) solana.PublicKey {
	bondingCurve := DeriveBondingCurve(mint)
	ata, _, _ := solana.FindAssociatedTokenAddress(bondingCurve, mint)
	return ata
}
