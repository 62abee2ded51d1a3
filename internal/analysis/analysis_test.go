package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

func testSnapshot() *domain.TokenSnapshot {
	return &domain.TokenSnapshot{
		Mint:                 "MintTest111",
		Name:                 "Test Coin",
		Symbol:               "TEST",
		Creator:              "Creator111",
		VirtualSolReserves:   30_000_000_000,
		VirtualTokenReserves: 1_073_000_000_000_000,
		TotalSupply:          1_000_000_000_000_000,
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(testSnapshot())

	for _, want := range []string{
		"Name: Test Coin",
		"Symbol: TEST",
		"Mint: MintTest111",
		"Virtual SOL reserves: 30.0000 SOL",
		"SCORE:",
		"RECOMMENDATION:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestParseAssessment_LabeledLines(t *testing.T) {
	reply := "SCORE: 72\nRECOMMENDATION: BUY\nRATIONALE: Strong early volume."

	a, err := ParseAssessment("M1", reply)
	if err != nil {
		t.Fatalf("ParseAssessment: %v", err)
	}
	if a.Score != 72 {
		t.Errorf("score = %d, want 72", a.Score)
	}
	if a.Recommendation != domain.RecommendBuy {
		t.Errorf("recommendation = %s, want BUY", a.Recommendation)
	}
	if a.Rationale != "Strong early volume." {
		t.Errorf("rationale = %q", a.Rationale)
	}
	if a.Mint != "M1" {
		t.Errorf("mint = %s", a.Mint)
	}
}

func TestParseAssessment_FreeText(t *testing.T) {
	reply := "I would skip this one, the score is maybe 20 out of 100 given the thin reserves."

	a, err := ParseAssessment("M2", reply)
	if err != nil {
		t.Fatalf("ParseAssessment: %v", err)
	}
	if a.Recommendation != domain.RecommendSkip {
		t.Errorf("recommendation = %s, want SKIP", a.Recommendation)
	}
	if a.Score != 20 {
		t.Errorf("score = %d, want 20", a.Score)
	}
}

func TestParseAssessment_ScoreOnly(t *testing.T) {
	a, err := ParseAssessment("M3", "Score: 85. Looks like a decent launch.")
	if err != nil {
		t.Fatalf("ParseAssessment: %v", err)
	}
	if a.Recommendation != domain.RecommendBuy {
		t.Errorf("recommendation = %s, want BUY derived from score", a.Recommendation)
	}
}

func TestParseAssessment_ScoreClamped(t *testing.T) {
	a, err := ParseAssessment("M4", "SCORE: 250\nRECOMMENDATION: SKIP")
	if err != nil {
		t.Fatalf("ParseAssessment: %v", err)
	}
	if a.Score != 100 {
		t.Errorf("score = %d, want clamped to 100", a.Score)
	}
}

func TestParseAssessment_Unparseable(t *testing.T) {
	if _, err := ParseAssessment("M5", "I cannot help with that."); err == nil {
		t.Fatal("expected error for reply with no verdict or score")
	}
}

func TestModelClient_Analyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}

		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "TEST") {
			t.Errorf("prompt does not carry the snapshot: %+v", req.Messages)
		}

		resp := messagesResponse{
			Content: []contentBlock{
				{Type: "text", Text: "SCORE: 64\nRECOMMENDATION: BUY\nRATIONALE: Fresh launch with seeded liquidity."},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewModelClient("test-key", WithEndpoint(server.URL))

	a, err := client.Analyze(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.Score != 64 || a.Recommendation != domain.RecommendBuy {
		t.Errorf("assessment = %+v", a)
	}
}

func TestModelClient_Analyze_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"type": "invalid_request_error", "message": "bad model"},
		})
	}))
	defer server.Close()

	client := NewModelClient("test-key", WithEndpoint(server.URL))

	if _, err := client.Analyze(context.Background(), testSnapshot()); err == nil {
		t.Fatal("expected API error")
	}
}
