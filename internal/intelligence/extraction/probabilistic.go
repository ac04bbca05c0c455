package extraction

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/turtacn/HazWaste-Intelligence/internal/domain/waste"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/casnum"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/provider"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// ProbabilisticStrategyName identifies the text-completion-backed strategy.
const ProbabilisticStrategyName = "probabilistic-completion"

const extractionSystemPrompt = `You are an extraction engine for chemical safety data sheets.
Read the document and return only the requested JSON object.
Use null for any field the document does not state. Never guess CAS numbers.`

// extractionSchema is the structured-output contract sent to the provider.
var extractionSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "product_name": {"type": ["string", "null"]},
    "physical_state": {"type": ["string", "null"], "description": "liquid, solid, gas, aqueous or sludge"},
    "ph": {"type": ["number", "null"]},
    "flash_point_celsius": {"type": ["number", "null"]},
    "composition": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "cas": {"type": ["string", "null"]},
          "percentage": {"type": ["string", "null"]}
        },
        "required": ["name"]
      }
    },
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  },
  "required": ["composition", "confidence"]
}`)

// completionPayload mirrors extractionSchema on the way back in.
type completionPayload struct {
	ProductName       *string  `json:"product_name"`
	PhysicalState     *string  `json:"physical_state"`
	PH                *float64 `json:"ph"`
	FlashPointCelsius *float64 `json:"flash_point_celsius"`
	Composition       []struct {
		Name       string  `json:"name"`
		CAS        *string `json:"cas"`
		Percentage *string `json:"percentage"`
	} `json:"composition"`
	Confidence *float64 `json:"confidence"`
}

// ProbabilisticStrategy extracts fields by asking a text-completion provider
// for a structured JSON rendition of the document.  Provider failures and
// malformed replies degrade to a zero-confidence Attempt whose Err preserves
// the cause, so the orchestrator can retry transient ones.
type ProbabilisticStrategy struct {
	provider    provider.Provider
	temperature float64
	maxTokens   int
	logger      logging.Logger
}

// NewProbabilisticStrategy builds the strategy around a provider.
func NewProbabilisticStrategy(p provider.Provider, temperature float64, maxTokens int, logger logging.Logger) *ProbabilisticStrategy {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ProbabilisticStrategy{
		provider:    p,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger.Named("extraction.probabilistic"),
	}
}

func (s *ProbabilisticStrategy) Name() string { return ProbabilisticStrategyName }

// Extract sends the document to the provider and converts the structured
// reply into a PartialResult.
func (s *ProbabilisticStrategy) Extract(ctx context.Context, in Input) *Attempt {
	started := time.Now()

	if strings.TrimSpace(in.Text) == "" {
		return failedAttempt(s.Name(), started,
			errors.New(errors.ErrCodeEmptyDocument, "document text is empty"))
	}

	comp, err := s.provider.Complete(ctx, provider.Request{
		System:      extractionSystemPrompt,
		Prompt:      "Extract the classification fields from this safety data sheet:\n\n" + in.Text,
		Schema:      extractionSchema,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		s.logger.Warn("completion request failed", logging.Err(err),
			logging.String("provider", s.provider.Name()))
		return failedAttempt(s.Name(), started, err)
	}

	var payload completionPayload
	if err := json.Unmarshal([]byte(stripFences(comp.Text)), &payload); err != nil {
		return failedAttempt(s.Name(), started,
			errors.Wrap(err, errors.ErrCodeMalformedProviderResponse, "provider reply is not the requested JSON object"))
	}

	fields := s.toFields(&payload)
	applyHints(in.Hints, fields)

	return &Attempt{
		StrategyName: s.Name(),
		Confidence:   fields.Overall(),
		Fields:       fields,
		Elapsed:      time.Since(started),
	}
}

// toFields converts the wire payload into a PartialResult, stamping every
// populated field with the provider's self-reported confidence (clamped to
// [0,1]; 0.75 when absent).
func (s *ProbabilisticStrategy) toFields(p *completionPayload) *PartialResult {
	conf := 0.75
	if p.Confidence != nil {
		conf = *p.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
	}

	fields := &PartialResult{}
	src := s.Name()

	if p.ProductName != nil && *p.ProductName != "" {
		fields.ProductName = &FieldValue{Raw: *p.ProductName, Confidence: conf, Source: src}
	}
	if p.PhysicalState != nil && *p.PhysicalState != "" {
		fields.PhysicalState = &FieldValue{Raw: *p.PhysicalState, Confidence: conf, Source: src}
	}
	if p.PH != nil {
		v := *p.PH
		fields.PH = &FieldValue{Raw: formatNumber(v), Number: &v, Confidence: conf, Source: src}
	}
	if p.FlashPointCelsius != nil {
		v := *p.FlashPointCelsius
		fields.FlashPointC = &FieldValue{Raw: formatNumber(v), Number: &v, Confidence: conf, Source: src}
	}

	for _, row := range p.Composition {
		c := waste.ChemicalComponent{Name: strings.TrimSpace(row.Name)}
		if c.Name == "" {
			continue
		}
		if row.CAS != nil {
			c.Identifier, _ = casnum.Normalize(*row.CAS)
		}
		if row.Percentage != nil {
			c.Percentage = strings.TrimSpace(*row.Percentage)
		}
		fields.Composition = append(fields.Composition, c)
	}
	if len(fields.Composition) > 0 {
		fields.CompositionConfidence = conf
	}

	return fields
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func formatNumber(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
