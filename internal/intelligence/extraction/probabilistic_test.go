package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/provider"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

const goodCompletion = `{
  "product_name": "Universal Thinner 40",
  "physical_state": "liquid",
  "ph": 7.2,
  "flash_point_celsius": -18,
  "composition": [
    {"name": "Acetone", "cas": "67-64-1", "percentage": "40-60%"},
    {"name": "Proprietary resin", "cas": null, "percentage": "<5%"}
  ],
  "confidence": 0.82
}`

func TestProbabilistic_GoodCompletion(t *testing.T) {
	p := provider.NewStaticProvider("stub", goodCompletion)
	s := NewProbabilisticStrategy(p, 0.1, 2048, nil)

	att := s.Extract(context.Background(), Input{Text: sampleSDS})
	require.NoError(t, att.Err)

	f := att.Fields
	require.NotNil(t, f.ProductName)
	assert.Equal(t, "Universal Thinner 40", f.ProductName.Raw)
	assert.InDelta(t, 0.82, f.ProductName.Confidence, 1e-9)

	require.NotNil(t, f.PH)
	require.NotNil(t, f.PH.Number)
	assert.InDelta(t, 7.2, *f.PH.Number, 1e-9)

	require.Len(t, f.Composition, 2)
	assert.Equal(t, "67-64-1", f.Composition[0].Identifier)
	assert.Empty(t, f.Composition[1].Identifier)

	assert.Greater(t, att.Confidence, 0.7)
}

func TestProbabilistic_FencedJSONAccepted(t *testing.T) {
	p := provider.NewStaticProvider("stub", "```json\n"+goodCompletion+"\n```")
	s := NewProbabilisticStrategy(p, 0.1, 2048, nil)

	att := s.Extract(context.Background(), Input{Text: sampleSDS})
	require.NoError(t, att.Err)
	assert.Equal(t, "Universal Thinner 40", att.Fields.ProductName.Raw)
}

func TestProbabilistic_MalformedReplyDegrades(t *testing.T) {
	p := provider.NewStaticProvider("stub", "I could not find any chemicals, sorry!")
	s := NewProbabilisticStrategy(p, 0.1, 2048, nil)

	att := s.Extract(context.Background(), Input{Text: sampleSDS})
	require.NotNil(t, att)
	assert.Zero(t, att.Confidence)
	assert.True(t, errors.IsCode(att.Err, errors.ErrCodeMalformedProviderResponse))
}

func TestProbabilistic_ProviderFailurePreserved(t *testing.T) {
	p := provider.NewFailingProvider("down",
		errors.New(errors.ErrCodeProviderUnavailable, "connection refused"))
	s := NewProbabilisticStrategy(p, 0.1, 2048, nil)

	att := s.Extract(context.Background(), Input{Text: sampleSDS})
	assert.Zero(t, att.Confidence)
	assert.True(t, errors.IsTransient(att.Err), "transient cause must survive for the retry policy")
}

func TestProbabilistic_EmptyDocument(t *testing.T) {
	p := provider.NewStaticProvider("stub", goodCompletion)
	s := NewProbabilisticStrategy(p, 0.1, 2048, nil)

	att := s.Extract(context.Background(), Input{Text: " "})
	assert.True(t, errors.IsCode(att.Err, errors.ErrCodeEmptyDocument))
}
