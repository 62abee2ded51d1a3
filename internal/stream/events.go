package stream

import (
	"encoding/json"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

// controlMessage is an outbound subscription control frame.
type controlMessage struct {
	Method string   `json:"method"`
	Keys   []string `json:"keys,omitempty"`
}

const (
	methodSubscribeNewToken     = "subscribeNewToken"
	methodSubscribeTokenTrade   = "subscribeTokenTrade"
	methodUnsubscribeTokenTrade = "unsubscribeTokenTrade"
)

// Inbound event type tags.
const (
	txTypeCreate = "create"
	txTypeBuy    = "buy"
	txTypeSell   = "sell"
)

// frame is the superset of fields the feed sends; the txType tag selects
// which subset is meaningful.
type frame struct {
	Signature             string  `json:"signature"`
	Mint                  string  `json:"mint"`
	TraderPublicKey       string  `json:"traderPublicKey"`
	TxType                string  `json:"txType"`
	Name                  string  `json:"name"`
	Symbol                string  `json:"symbol"`
	URI                   string  `json:"uri"`
	BondingCurveKey       string  `json:"bondingCurveKey"`
	InitialBuy            float64 `json:"initialBuy"`
	SolAmount             float64 `json:"solAmount"`
	TokenAmount           float64 `json:"tokenAmount"`
	MarketCapSol          float64 `json:"marketCapSol"`
	VSolInBondingCurve    float64 `json:"vSolInBondingCurve"`
	VTokensInBondingCurve float64 `json:"vTokensInBondingCurve"`
}

// decoded is the closed variant set an inbound frame maps to. Both fields
// nil means the frame carried an unrecognized tag and is dropped.
type decoded struct {
	newToken *domain.NewTokenEvent
	trade    *domain.TradeEvent
}

// decodeFrame parses one inbound frame. A JSON error means the frame is
// malformed; an unknown tag is not an error.
func decodeFrame(data []byte) (decoded, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return decoded{}, err
	}

	switch f.TxType {
	case txTypeCreate:
		return decoded{newToken: &domain.NewTokenEvent{
			Signature:       f.Signature,
			Mint:            f.Mint,
			Trader:          f.TraderPublicKey,
			Name:            f.Name,
			Symbol:          f.Symbol,
			URI:             f.URI,
			BondingCurveKey: f.BondingCurveKey,
			InitialBuy:      f.InitialBuy,
			SOLAmount:       f.SolAmount,
			MarketCapSOL:    f.MarketCapSol,
			VSolReserves:    f.VSolInBondingCurve,
			VTokenReserves:  f.VTokensInBondingCurve,
		}}, nil
	case txTypeBuy, txTypeSell:
		direction := domain.DirectionBuy
		if f.TxType == txTypeSell {
			direction = domain.DirectionSell
		}
		return decoded{trade: &domain.TradeEvent{
			Signature:      f.Signature,
			Mint:           f.Mint,
			Trader:         f.TraderPublicKey,
			Direction:      direction,
			TokenAmount:    f.TokenAmount,
			SOLAmount:      f.SolAmount,
			MarketCapSOL:   f.MarketCapSol,
			VSolReserves:   f.VSolInBondingCurve,
			VTokenReserves: f.VTokensInBondingCurve,
		}}, nil
	default:
		// Unrecognized tags are dropped silently so protocol additions
		// on the venue side do not break the client.
		return decoded{}, nil
	}
}
