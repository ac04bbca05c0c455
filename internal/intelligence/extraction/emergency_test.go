package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmergency_AlwaysPopulatesRequiredFields(t *testing.T) {
	s := NewEmergencyStrategy()
	att := s.Extract(context.Background(), Input{Text: ""})

	require.NotNil(t, att)
	f := att.Fields
	require.NotNil(t, f.ProductName)
	require.NotNil(t, f.PhysicalState)
	require.NotNil(t, f.PH)
	require.NotNil(t, f.FlashPointC)

	assert.Equal(t, "Unknown product", f.ProductName.Raw)
	assert.Equal(t, "liquid", f.PhysicalState.Raw)
	assert.Equal(t, UndeterminedValue, f.PH.Raw)
	assert.Nil(t, f.PH.Number)
	assert.Equal(t, UndeterminedValue, f.FlashPointC.Raw)
	assert.Nil(t, f.FlashPointC.Number)
	assert.NoError(t, att.Err)
}

func TestEmergency_KeywordStateGuess(t *testing.T) {
	s := NewEmergencyStrategy()

	att := s.Extract(context.Background(), Input{Text: "white crystalline powder, odorless"})
	assert.Equal(t, "solid", att.Fields.PhysicalState.Raw)

	att = s.Extract(context.Background(), Input{Text: "compressed gas cylinder"})
	assert.Equal(t, "gas", att.Fields.PhysicalState.Raw)
}

func TestEmergency_ScavengesCASTokens(t *testing.T) {
	s := NewEmergencyStrategy()
	att := s.Extract(context.Background(), Input{
		Text: "contains 67-64-1 and traces of 71-43-2, also 67-64-1 again and bogus 000-00-0",
	})

	require.Len(t, att.Fields.Composition, 2)
	assert.Equal(t, "67-64-1", att.Fields.Composition[0].Identifier)
	assert.Equal(t, "71-43-2", att.Fields.Composition[1].Identifier)
}

func TestEmergency_ConfidenceStaysLow(t *testing.T) {
	s := NewEmergencyStrategy()
	att := s.Extract(context.Background(), Input{Text: sampleSDS})
	assert.LessOrEqual(t, att.Confidence, 0.25)
}
