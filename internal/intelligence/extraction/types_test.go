package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HazWaste-Intelligence/internal/domain/waste"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// panicStrategy blows up on every call; Protect must absorb it.
type panicStrategy struct{}

func (panicStrategy) Name() string { return "panicky" }
func (panicStrategy) Extract(context.Context, Input) *Attempt {
	panic("boom")
}

// nilStrategy violates the contract by returning nil.
type nilStrategy struct{}

func (nilStrategy) Name() string                            { return "nil-returning" }
func (nilStrategy) Extract(context.Context, Input) *Attempt { return nil }

func TestProtect_RecoversPanic(t *testing.T) {
	s := Protect(panicStrategy{})
	att := s.Extract(context.Background(), Input{Text: "x"})

	require.NotNil(t, att)
	assert.Zero(t, att.Confidence)
	assert.NotNil(t, att.Fields)
	assert.True(t, errors.IsCode(att.Err, errors.ErrCodeStrategyFailure))
}

func TestProtect_NormalizesNilAttempt(t *testing.T) {
	s := Protect(nilStrategy{})
	att := s.Extract(context.Background(), Input{Text: "x"})

	require.NotNil(t, att)
	assert.NotNil(t, att.Fields)
	assert.True(t, errors.IsCode(att.Err, errors.ErrCodeStrategyFailure))
}

func TestProtect_Idempotent(t *testing.T) {
	s := Protect(panicStrategy{})
	assert.Same(t, s, Protect(s))
}

func fv(raw string, conf float64, src string) *FieldValue {
	return &FieldValue{Raw: raw, Confidence: conf, Source: src}
}

func TestMerge_PicksBestPerField(t *testing.T) {
	a := &Attempt{Fields: &PartialResult{
		ProductName:   fv("Thinner", 0.9, "a"),
		PH:            fv("7", 0.3, "a"),
		Composition:   []waste.ChemicalComponent{{Name: "Acetone", Identifier: "67-64-1"}},
		CompositionConfidence: 0.6,
	}}
	b := &Attempt{Fields: &PartialResult{
		ProductName: fv("Universal Thinner 40", 0.7, "b"),
		PH:          fv("7.2", 0.8, "b"),
		Composition: []waste.ChemicalComponent{
			{Name: "Acetone", Identifier: "67-64-1"},
			{Name: "Toluene", Identifier: "108-88-3"},
		},
		CompositionConfidence: 0.8,
	}}

	m := Merge([]*Attempt{a, nil, b})

	assert.Equal(t, "Thinner", m.ProductName.Raw)
	assert.Equal(t, "7.2", m.PH.Raw)
	assert.Len(t, m.Composition, 2)
	assert.InDelta(t, 0.8, m.CompositionConfidence, 1e-9)
	assert.Nil(t, m.FlashPointC)
}

func TestOverall_Weighting(t *testing.T) {
	empty := &PartialResult{}
	assert.Zero(t, empty.Overall())

	full := &PartialResult{
		ProductName:           fv("p", 1, "s"),
		PhysicalState:         fv("liquid", 1, "s"),
		PH:                    fv("7", 1, "s"),
		FlashPointC:           fv("10", 1, "s"),
		Composition:           []waste.ChemicalComponent{{Name: "x"}},
		CompositionConfidence: 1,
	}
	assert.InDelta(t, 1.0, full.Overall(), 1e-9)

	// Composition alone carries a third of the total weight.
	compOnly := &PartialResult{
		Composition:           []waste.ChemicalComponent{{Name: "x"}},
		CompositionConfidence: 1,
	}
	assert.InDelta(t, 1.0/3.0, compOnly.Overall(), 1e-9)

	var nilResult *PartialResult
	assert.Zero(t, nilResult.Overall())
}

func TestBulkProperties_Conversion(t *testing.T) {
	ph := 1.5
	flash := 58.0
	p := &PartialResult{
		PhysicalState: &FieldValue{Raw: "aqueous solution", Confidence: 0.9},
		PH:            &FieldValue{Raw: "1.5", Number: &ph, Confidence: 0.9},
		FlashPointC:   &FieldValue{Raw: "58", Number: &flash, Confidence: 0.9},
	}
	bulk := p.BulkProperties()

	assert.Equal(t, waste.StateAqueous, bulk.PhysicalState)
	require.NotNil(t, bulk.PH)
	assert.InDelta(t, 1.5, *bulk.PH, 1e-9)
	require.NotNil(t, bulk.FlashPointCelsius)

	undetermined := &PartialResult{
		PH: &FieldValue{Raw: UndeterminedValue, Confidence: 0.2},
	}
	bulk = undetermined.BulkProperties()
	assert.Nil(t, bulk.PH, "undetermined pH must not produce a number")
	assert.Equal(t, waste.StateUnknown, bulk.PhysicalState)
}
