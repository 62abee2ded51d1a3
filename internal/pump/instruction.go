package pump

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Opcode discriminators, the fixed 8-byte prefixes selecting the program
// action. The program rejects anything else.
var (
	buyDiscriminator  = [8]byte{0x66, 0x06, 0x3d, 0x12, 0x01, 0xda, 0xeb, 0xea}
	sellDiscriminator = [8]byte{0x33, 0xe6, 0x85, 0xa4, 0x01, 0x7f, 0x83, 0xad}
)

// SwapAccounts names the accounts a buy or sell instruction touches.
// UserTokenAccount is the trader's associated token account for the mint;
// Owner is the trader's wallet and the sole signer.
type SwapAccounts struct {
	Mint                   solana.PublicKey
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	UserTokenAccount       solana.PublicKey
	Owner                  solana.PublicKey
}

// SwapAccountsFor derives the full account set for a trade of mint by owner.
func SwapAccountsFor(mint, owner solana.PublicKey) SwapAccounts {
	userATA, _, _ := solana.FindAssociatedTokenAddress(owner, mint)
	return SwapAccounts{
		Mint:                   mint,
		BondingCurve:           DeriveBondingCurve(mint),
		AssociatedBondingCurve: DeriveAssociatedBondingCurve(mint),
		UserTokenAccount:       userATA,
		Owner:                  owner,
	}
}

// NewBuyInstruction encodes a buy: spend up to solAmountIn lamports,
// receive at least minTokensOut token base units. Amounts arrive already
// slippage-bounded; no pricing happens here.
func NewBuyInstruction(accounts SwapAccounts, minTokensOut, solAmountIn uint64) solana.Instruction {
	return swapInstruction(accounts, buyDiscriminator, minTokensOut, solAmountIn)
}

// NewSellInstruction encodes a sell: spend tokenAmountIn token base units,
// receive at least minSolOut lamports.
func NewSellInstruction(accounts SwapAccounts, tokenAmountIn, minSolOut uint64) solana.Instruction {
	return swapInstruction(accounts, sellDiscriminator, tokenAmountIn, minSolOut)
}

// swapInstruction builds the 24-byte payload and the positional account
// list shared by both directions. The program reads accounts by index, so
// the order below is part of the wire contract.
func swapInstruction(a SwapAccounts, discriminator [8]byte, amount1, amount2 uint64) solana.Instruction {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	_ = enc.WriteBytes(discriminator[:], false)
	_ = enc.WriteUint64(amount1, binary.LittleEndian)
	_ = enc.WriteUint64(amount2, binary.LittleEndian)

	metas := solana.AccountMetaSlice{
		solana.Meta(GlobalAccount),
		solana.Meta(FeeRecipient).WRITE(),
		solana.Meta(a.Mint),
		solana.Meta(a.BondingCurve).WRITE(),
		solana.Meta(a.AssociatedBondingCurve).WRITE(),
		solana.Meta(a.UserTokenAccount).WRITE(),
		solana.Meta(a.Owner).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
	}

	return solana.NewInstruction(ProgramID, metas, buf.Bytes())
}
