package pump

import (
	"encoding/binary"
	"testing"
)

// curveAccountData builds raw account bytes: 8-byte discriminator followed
// by five little-endian u64 fields and a bool.
func curveAccountData(vTok, vSol, rTok, rSol, supply uint64, complete bool) []byte {
	data := make([]byte, 8, 49)
	for _, v := range []uint64{vTok, vSol, rTok, rSol, supply} {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		data = append(data, b[:]...)
	}
	if complete {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	return data
}

func TestDecodeBondingCurve(t *testing.T) {
	data := curveAccountData(1_000_000_000_000, 30_000_000_000, 800_000_000_000, 5_000_000_000, TotalSupply, false)

	state, err := DecodeBondingCurve(data)
	if err != nil {
		t.Fatalf("DecodeBondingCurve: %v", err)
	}

	if state.VirtualTokenReserves != 1_000_000_000_000 {
		t.Errorf("VirtualTokenReserves = %d", state.VirtualTokenReserves)
	}
	if state.VirtualSolReserves != 30_000_000_000 {
		t.Errorf("VirtualSolReserves = %d", state.VirtualSolReserves)
	}
	if state.TokenTotalSupply != TotalSupply {
		t.Errorf("TokenTotalSupply = %d", state.TokenTotalSupply)
	}
	if state.Complete {
		t.Error("Complete should be false")
	}
}

func TestDecodeBondingCurve_Complete(t *testing.T) {
	data := curveAccountData(0, 0, 0, 0, TotalSupply, true)

	state, err := DecodeBondingCurve(data)
	if err != nil {
		t.Fatalf("DecodeBondingCurve: %v", err)
	}
	if !state.Complete {
		t.Error("Complete should be true")
	}
}

func TestDecodeBondingCurve_TooShort(t *testing.T) {
	if _, err := DecodeBondingCurve([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated data")
	}
	if _, err := DecodeBondingCurve(nil); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestSnapshot(t *testing.T) {
	state := &BondingCurveState{
		VirtualTokenReserves: 500,
		VirtualSolReserves:   600,
		TokenTotalSupply:     TotalSupply,
		Complete:             false,
	}

	snap := Snapshot(testMint, state)

	if snap.Mint != testMint.String() {
		t.Errorf("Mint = %s", snap.Mint)
	}
	if snap.BondingCurve != DeriveBondingCurve(testMint).String() {
		t.Errorf("BondingCurve = %s", snap.BondingCurve)
	}
	if snap.VirtualSolReserves != 600 || snap.VirtualTokenReserves != 500 {
		t.Errorf("reserves = %d/%d", snap.VirtualSolReserves, snap.VirtualTokenReserves)
	}
}
