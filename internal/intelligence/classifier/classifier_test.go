package classifier

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HazWaste-Intelligence/internal/domain/waste"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/registry"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	return NewClassifier(registry.Build(logging.NewNopLogger()), logging.NewNopLogger())
}

func ptr(v float64) *float64 { return &v }

func TestClassify_AcetoneIgnitableLiquid(t *testing.T) {
	c := newClassifier(t)

	components := []waste.ChemicalComponent{
		{Name: "Acetone", Identifier: "67-64-1", Percentage: "100"},
	}
	bulk := waste.BulkProperties{
		PhysicalState:     waste.StateLiquid,
		FlashPointCelsius: ptr(-20),
	}

	result := c.Classify(components, bulk)

	assert.Contains(t, result.Codes, "U002")
	assert.Contains(t, result.Codes, "D001")
	assert.Empty(t, result.UnknownComponents)
	assert.Equal(t, 1.0, result.OverallConfidence)

	require.Len(t, result.PerComponent, 1)
	assert.Equal(t, 1.0, result.PerComponent[0].Confidence)
}

func TestClassify_MercuricChlorideSolid(t *testing.T) {
	c := newClassifier(t)

	components := []waste.ChemicalComponent{
		{Name: "Mercury(II) chloride", Identifier: "7487-94-7"},
	}
	bulk := waste.BulkProperties{PhysicalState: waste.StateSolid}

	result := c.Classify(components, bulk)

	assert.Contains(t, result.Codes, "P092")
	assert.Contains(t, result.Codes, "D009")
	assert.Empty(t, result.UnknownComponents)

	found := false
	for _, r := range result.Reasoning {
		if strings.Contains(r, "D009") && strings.Contains(r, "TCLP testing required") {
			found = true
		}
	}
	assert.True(t, found, "characteristic hit must state that TCLP testing is required")
}

func TestClassify_InvalidIdentifierGoesUnknown(t *testing.T) {
	c := newClassifier(t)

	components := []waste.ChemicalComponent{
		{Name: "Unknown", Identifier: "000-00-0"},
	}
	result := c.Classify(components, waste.BulkProperties{PhysicalState: waste.StateLiquid})

	assert.Empty(t, result.Codes)
	require.Len(t, result.UnknownComponents, 1)
	assert.Equal(t, "invalid identifier format", result.UnknownComponents[0].Reason)
	assert.Zero(t, result.OverallConfidence)
}

func TestClassify_AcuteOnlyYieldsExactlyThatCode(t *testing.T) {
	c := newClassifier(t)

	// Hydrogen cyanide is acute-listed and appears in no other table.
	components := []waste.ChemicalComponent{
		{Name: "Hydrogen cyanide", Identifier: "74-90-8"},
	}
	result := c.Classify(components, waste.BulkProperties{PhysicalState: waste.StateLiquid})

	assert.Equal(t, []string{"P063"}, result.Codes)
	require.Len(t, result.PerComponent, 1)
	assert.Equal(t, 1.0, result.PerComponent[0].Confidence)
}

func TestClassify_ValidUnlistedIsCleanDetermination(t *testing.T) {
	c := newClassifier(t)

	components := []waste.ChemicalComponent{
		{Name: "Water", Identifier: "7732-18-5", Percentage: "100"},
	}
	result := c.Classify(components, waste.BulkProperties{PhysicalState: waste.StateLiquid})

	assert.Empty(t, result.Codes)
	assert.Empty(t, result.UnknownComponents)
	assert.Equal(t, 1.0, result.OverallConfidence, "a registry miss on a valid identifier is a clean determination")
}

func TestClassify_MultiEntryCharacteristicAllSurface(t *testing.T) {
	c := newClassifier(t)

	components := []waste.ChemicalComponent{
		{Name: "Lead chromate", Identifier: "7758-97-6"},
	}
	result := c.Classify(components, waste.BulkProperties{PhysicalState: waste.StateSolid})

	assert.Contains(t, result.Codes, "D007")
	assert.Contains(t, result.Codes, "D008")
}

func TestClassify_CorrosivityBoundaries(t *testing.T) {
	c := newClassifier(t)

	classify := func(ph float64, state waste.PhysicalState) []string {
		r := c.Classify(nil, waste.BulkProperties{PhysicalState: state, PH: ptr(ph)})
		return r.Codes
	}

	assert.Contains(t, classify(2.0, waste.StateLiquid), "D002")
	assert.NotContains(t, classify(2.01, waste.StateLiquid), "D002")
	assert.NotContains(t, classify(2.0, waste.StateSolid), "D002", "solids are excluded from the pH rule")
	assert.Contains(t, classify(12.5, waste.StateAqueous), "D002")
	assert.NotContains(t, classify(12.49, waste.StateAqueous), "D002")
	assert.NotContains(t, classify(7.0, waste.StateLiquid), "D002")
}

func TestClassify_IgnitabilityBoundaries(t *testing.T) {
	c := newClassifier(t)

	classify := func(flash float64, state waste.PhysicalState) []string {
		r := c.Classify(nil, waste.BulkProperties{PhysicalState: state, FlashPointCelsius: ptr(flash)})
		return r.Codes
	}

	assert.Contains(t, classify(59.99, waste.StateLiquid), "D001")
	assert.NotContains(t, classify(60.0, waste.StateLiquid), "D001")
	assert.NotContains(t, classify(59.99, waste.StateSolid), "D001")
	assert.Contains(t, classify(-20, waste.StateUnknown), "D001", "unknown state is not solid")
}

func TestClassify_NameHeuristicsForMissingIdentifier(t *testing.T) {
	c := newClassifier(t)

	components := []waste.ChemicalComponent{
		{Name: "Lead oxide pigment"},
	}
	result := c.Classify(components, waste.BulkProperties{PhysicalState: waste.StateSolid})

	assert.Contains(t, result.Codes, "D008")
	require.Len(t, result.PerComponent, 1)
	assert.Equal(t, 0.5, result.PerComponent[0].Confidence, "keyword evidence scores half of a registry hit")
	require.Len(t, result.UnknownComponents, 1)
	assert.Equal(t, "missing identifier", result.UnknownComponents[0].Reason)
}

func TestClassify_HeuristicsSkippedForValidIdentifier(t *testing.T) {
	c := newClassifier(t)

	// Valid, unlisted identifier with a solvent-looking name: heuristics
	// must not fire because an identifier lookup was possible.
	components := []waste.ChemicalComponent{
		{Name: "Acetone substitute", Identifier: "7732-18-5"},
	}
	result := c.Classify(components, waste.BulkProperties{PhysicalState: waste.StateLiquid})

	assert.Empty(t, result.Codes)
}

func TestClassify_Deterministic(t *testing.T) {
	c := newClassifier(t)

	components := []waste.ChemicalComponent{
		{Name: "Benzene", Identifier: "71-43-2", Percentage: "30%"},
		{Name: "Mercury", Identifier: "7439-97-6", Percentage: "1%"},
		{Name: "Mystery sludge", Identifier: "bad-id"},
	}
	bulk := waste.BulkProperties{PhysicalState: waste.StateLiquid, PH: ptr(1.0), FlashPointCelsius: ptr(10)}

	first := c.Classify(components, bulk)
	second := c.Classify(components, bulk)

	assert.True(t, reflect.DeepEqual(first.Codes, second.Codes))
	assert.True(t, reflect.DeepEqual(first.Reasoning, second.Reasoning))
	assert.Equal(t, first.OverallConfidence, second.OverallConfidence)
}

func TestClassify_PercentageWeightedConfidence(t *testing.T) {
	c := newClassifier(t)

	// 90% clean water at confidence 1.0, 10% unknown at 0.
	components := []waste.ChemicalComponent{
		{Name: "Water", Identifier: "7732-18-5", Percentage: "90%"},
		{Name: "Mystery", Identifier: "not-a-cas", Percentage: "10%"},
	}
	result := c.Classify(components, waste.BulkProperties{PhysicalState: waste.StateLiquid})

	assert.InDelta(t, 0.9, result.OverallConfidence, 1e-9)
}

func TestClassify_NoComponentsBulkOnly(t *testing.T) {
	c := newClassifier(t)

	result := c.Classify(nil, waste.BulkProperties{PhysicalState: waste.StateLiquid, PH: ptr(1.0)})
	assert.Equal(t, []string{"D002"}, result.Codes)
	assert.InDelta(t, 0.8, result.OverallConfidence, 1e-9)

	empty := c.Classify(nil, waste.BulkProperties{PhysicalState: waste.StateLiquid})
	assert.Empty(t, empty.Codes)
	assert.Zero(t, empty.OverallConfidence)
}
