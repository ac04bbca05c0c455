package extraction

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/turtacn/HazWaste-Intelligence/internal/domain/waste"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/casnum"
)

// EmergencyStrategyName identifies the terminal fallback strategy.
const EmergencyStrategyName = "emergency-fallback"

// UndeterminedValue is the Raw marker for a required numeric field the
// fallback could not determine.  The FieldValue itself is always non-nil;
// only the numeric pointer stays nil.
const UndeterminedValue = "undetermined"

// emergencyConfidence is the flat confidence every fallback field carries.
// Low on purpose: the result exists to satisfy the always-terminate
// contract, not to be trusted.
const emergencyConfidence = 0.2

var (
	anyCAS = regexp.MustCompile(`\b(\d{1,7}-\d{2}-\d)\b`)
	// Loose keyword sets; the first hit decides the state guess.
	solidWords  = regexp.MustCompile(`(?i)\b(solid|powder|granule|crystal|pellet|flake)\b`)
	gasWords    = regexp.MustCompile(`(?i)\b(gas|aerosol|vapou?r)\b`)
	sludgeWords = regexp.MustCompile(`(?i)\b(sludge|slurry|paste)\b`)
)

// EmergencyStrategy is the guaranteed-terminal extraction path.  It applies
// a handful of permissive keyword heuristics and, where even those find
// nothing, substitutes fixed defaults so that every required field is
// populated: physical state defaults to "liquid", pH and flash point to
// "undetermined".  It never returns an error and never returns less than a
// complete field set.
type EmergencyStrategy struct{}

// NewEmergencyStrategy builds the fallback strategy.
func NewEmergencyStrategy() *EmergencyStrategy { return &EmergencyStrategy{} }

func (s *EmergencyStrategy) Name() string { return EmergencyStrategyName }

// Extract always succeeds.  Context cancellation is deliberately ignored:
// by the time the orchestrator reaches this strategy there is nothing
// cheaper left to do, and the scan is a few regexes over in-memory text.
func (s *EmergencyStrategy) Extract(_ context.Context, in Input) *Attempt {
	started := time.Now()

	fields := &PartialResult{
		ProductName:   &FieldValue{Raw: guessProductName(in.Text), Confidence: emergencyConfidence, Source: s.Name()},
		PhysicalState: &FieldValue{Raw: guessPhysicalState(in.Text), Confidence: emergencyConfidence, Source: s.Name()},
		PH:            &FieldValue{Raw: UndeterminedValue, Confidence: emergencyConfidence, Source: s.Name()},
		FlashPointC:   &FieldValue{Raw: UndeterminedValue, Confidence: emergencyConfidence, Source: s.Name()},
	}

	fields.Composition = scavengeComposition(in.Text)
	if len(fields.Composition) > 0 {
		fields.CompositionConfidence = emergencyConfidence
	}
	applyHints(in.Hints, fields)

	return &Attempt{
		StrategyName: s.Name(),
		Confidence:   fields.Overall(),
		Fields:       fields,
		Elapsed:      time.Since(started),
	}
}

// guessProductName takes the first plausible line of the document, or a
// fixed placeholder when the text is blank.
func guessProductName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= 3 && len(line) <= 120 {
			return line
		}
	}
	return "Unknown product"
}

// guessPhysicalState scans for state keywords anywhere in the text and
// defaults to "liquid", the most common waste-stream form.
func guessPhysicalState(text string) string {
	switch {
	case solidWords.MatchString(text):
		return "solid"
	case gasWords.MatchString(text):
		return "gas"
	case sludgeWords.MatchString(text):
		return "sludge"
	default:
		return "liquid"
	}
}

// scavengeComposition collects every CAS-shaped token in the document as an
// unnamed constituent.  Names are unrecoverable at this point; the
// classifier only needs identifiers.
func scavengeComposition(text string) []waste.ChemicalComponent {
	var out []waste.ChemicalComponent
	seen := make(map[string]bool)

	for _, m := range anyCAS.FindAllString(text, -1) {
		id, ok := casnum.Normalize(m)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, waste.ChemicalComponent{
			Name:       "unidentified constituent",
			Identifier: id,
		})
	}
	return out
}
