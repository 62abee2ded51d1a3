package analysis

import (
	"fmt"
	"strings"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

// lamportsPerSOL converts raw reserve values for display in the prompt.
const lamportsPerSOL = 1_000_000_000

// BuildPrompt renders a token snapshot into the analysis request text.
// The model is asked for a fixed line format so the reply parser has
// anchors, but ParseAssessment tolerates deviations.
func BuildPrompt(snap *domain.TokenSnapshot) string {
	var b strings.Builder

	b.WriteString("You are evaluating a newly launched token on a bonding curve venue.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", snap.Name)
	fmt.Fprintf(&b, "Symbol: %s\n", snap.Symbol)
	fmt.Fprintf(&b, "Mint: %s\n", snap.Mint)
	if snap.Creator != "" {
		fmt.Fprintf(&b, "Creator: %s\n", snap.Creator)
	}
	fmt.Fprintf(&b, "Virtual SOL reserves: %.4f SOL\n",
		float64(snap.VirtualSolReserves)/lamportsPerSOL)
	fmt.Fprintf(&b, "Virtual token reserves: %d\n", snap.VirtualTokenReserves)
	if snap.TotalSupply > 0 {
		fmt.Fprintf(&b, "Total supply: %d\n", snap.TotalSupply)
	}
	fmt.Fprintf(&b, "Curve complete: %t\n", snap.Complete)

	b.WriteString("\nAssess how promising this launch is for a small speculative buy.\n")
	b.WriteString("Reply with exactly three lines:\n")
	b.WriteString("SCORE: <integer 0-100>\n")
	b.WriteString("RECOMMENDATION: <BUY or SKIP>\n")
	b.WriteString("RATIONALE: <one sentence>\n")

	return b.String()
}
