package extraction

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/HazWaste-Intelligence/internal/domain/waste"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/casnum"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// DeterministicStrategyName identifies the first-pass section/regex strategy.
const DeterministicStrategyName = "deterministic-sections"

// DeterministicStrategy extracts fields by running the ordered pattern table
// over the document text.  It is cheap, side-effect free, and always the
// first pass; the orchestrator short-circuits on its result when confidence
// is high enough.
type DeterministicStrategy struct {
	rules  []PatternRule
	logger logging.Logger
}

// NewDeterministicStrategy builds the strategy with the default pattern
// table.
func NewDeterministicStrategy(logger logging.Logger) *DeterministicStrategy {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DeterministicStrategy{
		rules:  defaultPatternTable,
		logger: logger.Named("extraction.deterministic"),
	}
}

func (s *DeterministicStrategy) Name() string { return DeterministicStrategyName }

// Extract runs the pattern cascade.  Empty input yields a zero-confidence
// attempt; nothing here can fail harder than that.
func (s *DeterministicStrategy) Extract(ctx context.Context, in Input) *Attempt {
	started := time.Now()

	text := in.Text
	if strings.TrimSpace(text) == "" {
		return failedAttempt(s.Name(), started,
			errors.New(errors.ErrCodeEmptyDocument, "document text is empty"))
	}
	if err := ctx.Err(); err != nil {
		return failedAttempt(s.Name(), started, err)
	}

	fields := &PartialResult{}
	s.applyScalarRules(text, fields)
	s.applyComposition(text, fields)
	applyHints(in.Hints, fields)
	deriveFlashCelsius(fields)

	s.logger.Debug("deterministic pass complete",
		logging.Int("components", len(fields.Composition)),
		logging.Float64("confidence", fields.Overall()),
		logging.Duration("elapsed", time.Since(started)))

	return &Attempt{
		StrategyName: s.Name(),
		Confidence:   fields.Overall(),
		Fields:       fields,
		Elapsed:      time.Since(started),
	}
}

// applyScalarRules walks the table in priority order and fills each scalar
// field from its first matching rule.
func (s *DeterministicStrategy) applyScalarRules(text string, fields *PartialResult) {
	taken := make(map[FieldKind]bool, 5)
	for _, rule := range s.rules {
		if taken[rule.Field] {
			continue
		}
		m := rule.Re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		if raw == "" {
			continue
		}
		fv := &FieldValue{Raw: raw, Confidence: rule.Confidence, Source: s.Name()}
		switch rule.Field {
		case FieldProductName:
			fields.ProductName = fv
		case FieldPhysicalState:
			fields.PhysicalState = fv
		case FieldPH, FieldFlashPointC, FieldFlashPointF:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			fv.Number = &n
			switch rule.Field {
			case FieldPH:
				fields.PH = fv
			case FieldFlashPointC:
				fields.FlashPointC = fv
			case FieldFlashPointF:
				fields.FlashPointF = fv
			}
		}
		taken[rule.Field] = true
	}
}

// applyComposition parses the section-3 style component table, preferring
// the columnar layouts and falling back to inline prose mentions.
func (s *DeterministicStrategy) applyComposition(text string, fields *PartialResult) {
	components := parseColumnarComposition(text)
	conf := 0.9
	if len(components) == 0 {
		components = parseInlineComposition(text)
		conf = 0.7
	}
	if len(components) == 0 {
		return
	}
	fields.Composition = components
	fields.CompositionConfidence = conf
}

func parseColumnarComposition(text string) []waste.ChemicalComponent {
	var out []waste.ChemicalComponent
	seen := make(map[string]bool)

	for _, m := range compositionNameFirst.FindAllStringSubmatch(text, -1) {
		appendComponent(&out, seen, m[1], m[2], m[3])
	}
	for _, m := range compositionCASFirst.FindAllStringSubmatch(text, -1) {
		appendComponent(&out, seen, m[2], m[1], m[3])
	}
	return out
}

func parseInlineComposition(text string) []waste.ChemicalComponent {
	var out []waste.ChemicalComponent
	seen := make(map[string]bool)

	for _, m := range compositionInline.FindAllStringSubmatch(text, -1) {
		appendComponent(&out, seen, m[1], m[2], m[3])
	}
	return out
}

func appendComponent(out *[]waste.ChemicalComponent, seen map[string]bool, name, cas, pct string) {
	id, _ := casnum.Normalize(cas)
	if seen[id] {
		return
	}
	seen[id] = true
	*out = append(*out, waste.ChemicalComponent{
		Name:       strings.TrimSpace(name),
		Identifier: id,
		Percentage: strings.TrimSpace(pct),
	})
}

// applyHints overlays caller-supplied knowledge onto the extracted fields.
// Hints are authoritative: a caller that already knows the physical state or
// the composition outranks anything read from the text.
func applyHints(h *Hints, fields *PartialResult) {
	if h == nil {
		return
	}
	if h.PhysicalState != "" {
		fields.PhysicalState = &FieldValue{Raw: h.PhysicalState, Confidence: 1.0, Source: "caller-hint"}
	}
	if len(h.Composition) > 0 {
		fields.Composition = h.Composition
		fields.CompositionConfidence = 1.0
	}
}

// deriveFlashCelsius backfills FlashPointC from FlashPointF when only the
// Fahrenheit form was present, at slightly reduced confidence.
func deriveFlashCelsius(fields *PartialResult) {
	if fields.FlashPointC != nil || fields.FlashPointF == nil || fields.FlashPointF.Number == nil {
		return
	}
	c := (*fields.FlashPointF.Number - 32) * 5 / 9
	fields.FlashPointC = &FieldValue{
		Raw:        fields.FlashPointF.Raw + " (converted)",
		Number:     &c,
		Confidence: fields.FlashPointF.Confidence * 0.95,
		Source:     fields.FlashPointF.Source,
	}
}
