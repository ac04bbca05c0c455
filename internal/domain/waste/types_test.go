package waste

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePhysicalState(t *testing.T) {
	tests := []struct {
		raw  string
		want PhysicalState
	}{
		{"Liquid", StateLiquid},
		{"clear oily liquid", StateLiquid},
		{"Aqueous solution", StateAqueous},
		{"white crystalline solid", StateSolid},
		{"fine powder", StateSolid},
		{"compressed gas", StateGas},
		{"Vapour", StateGas},
		{"thick sludge", StateSludge},
		{"paste", StateSludge},
		{"", StateUnknown},
		{"n/a", StateUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePhysicalState(tt.raw), "input %q", tt.raw)
	}
}

func TestPhysicalStateGates(t *testing.T) {
	assert.True(t, StateSolid.IsSolid())
	assert.False(t, StateLiquid.IsSolid())

	assert.True(t, StateLiquid.IsLiquidLike())
	assert.True(t, StateAqueous.IsLiquidLike())
	assert.False(t, StateSolid.IsLiquidLike())
	assert.False(t, StateSludge.IsLiquidLike())
	assert.False(t, StateUnknown.IsLiquidLike())
}

func TestDedupeCodes(t *testing.T) {
	got := DedupeCodes([]string{"U002", "D001", "U002", "D009", "D001"})
	assert.Equal(t, []string{"D001", "D009", "U002"}, got)

	assert.Empty(t, DedupeCodes(nil))
}
