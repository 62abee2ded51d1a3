package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

var (
	scoreRe          = regexp.MustCompile(`(?i)score[^\d\n]{0,20}(\d{1,3})`)
	recommendationRe = regexp.MustCompile(`(?i)recommendation\s*[:=]?\s*(buy|skip)`)
	rationaleRe      = regexp.MustCompile(`(?i)rationale\s*[:=]?\s*(.+)`)
	bareVerdictRe    = regexp.MustCompile(`(?i)\b(buy|skip)\b`)
)

// ParseAssessment extracts a structured assessment from a model reply.
// It prefers the labeled SCORE/RECOMMENDATION/RATIONALE lines the prompt
// asks for, and falls back to scanning free text for a score number and a
// bare buy/skip verdict. A reply with neither a recommendation nor a score
// is an error.
func ParseAssessment(mint, reply string) (*domain.Assessment, error) {
	a := &domain.Assessment{
		Mint:  mint,
		Score: -1,
	}

	if m := scoreRe.FindStringSubmatch(reply); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			if n > 100 {
				n = 100
			}
			a.Score = n
		}
	}

	if m := recommendationRe.FindStringSubmatch(reply); m != nil {
		a.Recommendation = verdict(m[1])
	} else if m := bareVerdictRe.FindStringSubmatch(reply); m != nil {
		a.Recommendation = verdict(m[1])
	}

	if m := rationaleRe.FindStringSubmatch(reply); m != nil {
		a.Rationale = strings.TrimSpace(m[1])
	} else {
		a.Rationale = strings.TrimSpace(reply)
	}

	if a.Recommendation == "" && a.Score < 0 {
		return nil, fmt.Errorf("unparseable analysis reply: %q", truncate(reply, 120))
	}

	// Derive the missing half from the present one.
	if a.Recommendation == "" {
		if a.Score >= 50 {
			a.Recommendation = domain.RecommendBuy
		} else {
			a.Recommendation = domain.RecommendSkip
		}
	}
	if a.Score < 0 {
		if a.Recommendation == domain.RecommendBuy {
			a.Score = 50
		} else {
			a.Score = 0
		}
	}

	return a, nil
}

func verdict(s string) domain.Recommendation {
	if strings.EqualFold(s, "buy") {
		return domain.RecommendBuy
	}
	return domain.RecommendSkip
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
