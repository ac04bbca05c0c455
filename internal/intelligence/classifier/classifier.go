// Package classifier maps extracted chemical constituents and bulk physical
// properties onto regulatory waste codes.  The algorithm is constituent
// first: each component's identifier is normalized and run through the
// registry tables in severity order, then mixture-level characteristic rules
// (ignitability, corrosivity) are applied to the measured bulk properties.
// Classification is pure and deterministic; the same inputs always yield the
// same codes and reasoning.
package classifier

import (
	"fmt"
	"regexp"

	"github.com/turtacn/HazWaste-Intelligence/internal/domain/waste"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/casnum"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/registry"
)

// ---------------------------------------------------------------------------
// Evidence weights
// ---------------------------------------------------------------------------

// Evidence weights per lookup path.  Per-component confidence is the ratio
// of accumulated weight to the maximum weight achievable by the paths that
// fired, so a registry hit scores 1.0 on its own path while a name
// heuristic, carrying heuristicWeight against the characteristic-grade
// nominal, scores 0.5.
const (
	weightAcute          = 50.0
	weightToxic          = 40.0
	weightCharacteristic = 30.0
	weightHeuristic      = 15.0
	nominalHeuristic     = 30.0
)

// Characteristic codes derived from measured bulk properties.
const (
	codeIgnitable = "D001"
	codeCorrosive = "D002"

	flashPointCutoffC = 60.0
	corrosiveLowPH    = 2.0
	corrosiveHighPH   = 12.5
)

// ---------------------------------------------------------------------------
// Name-pattern heuristics
// ---------------------------------------------------------------------------

// nameHeuristic maps a name pattern to a potential characteristic code.
// Heuristics are a last resort for components without a usable identifier;
// they never run when an identifier lookup was possible.
type nameHeuristic struct {
	re   *regexp.Regexp
	code string
	what string
}

var nameHeuristics = []nameHeuristic{
	{regexp.MustCompile(`(?i)\bmercur(y|ic|ous)\b`), "D009", "mercury compound"},
	{regexp.MustCompile(`(?i)\blead\b`), "D008", "lead compound"},
	{regexp.MustCompile(`(?i)\bchrom(ium|ate|ic)\b`), "D007", "chromium compound"},
	{regexp.MustCompile(`(?i)\bcadmium\b`), "D006", "cadmium compound"},
	{regexp.MustCompile(`(?i)\barsen(ic|ate|ite)\b`), "D004", "arsenic compound"},
	{regexp.MustCompile(`(?i)\bbarium\b`), "D005", "barium compound"},
	{regexp.MustCompile(`(?i)\bselenium\b`), "D010", "selenium compound"},
	{regexp.MustCompile(`(?i)\bsilver\b`), "D011", "silver compound"},
	{regexp.MustCompile(`(?i)\bbenzene\b`), "D018", "benzene"},
	{regexp.MustCompile(`(?i)\b(acetone|ethanol|isopropanol|methanol|toluene|xylene|naphtha|thinner)\b`), codeIgnitable, "ignitable solvent"},
}

// ---------------------------------------------------------------------------
// Classifier
// ---------------------------------------------------------------------------

// Classifier derives waste codes from composition and bulk properties using
// the regulatory registry tables.
type Classifier struct {
	registry *registry.Registry
	logger   logging.Logger
}

// NewClassifier builds a Classifier over a built registry.
func NewClassifier(reg *registry.Registry, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Classifier{registry: reg, logger: logger.Named("classifier")}
}

// Classify runs the constituent-first algorithm and returns a fresh,
// immutable result.  It never returns an error: unusable components are
// recorded in UnknownComponents and excluded from code derivation.
func (c *Classifier) Classify(components []waste.ChemicalComponent, bulk waste.BulkProperties) *waste.ClassificationResult {
	result := &waste.ClassificationResult{
		Codes:             []string{},
		Reasoning:         []string{},
		PerComponent:      []waste.ComponentClassification{},
		UnknownComponents: []waste.UnknownComponent{},
	}

	var allCodes []string
	for _, comp := range components {
		cc, unknown := c.classifyComponent(comp)
		if unknown != nil {
			result.UnknownComponents = append(result.UnknownComponents, *unknown)
		}
		if cc != nil {
			result.PerComponent = append(result.PerComponent, *cc)
			allCodes = append(allCodes, cc.Codes...)
			result.Reasoning = append(result.Reasoning, cc.Reasoning...)
		}
	}

	bulkCodes, bulkReasons := deriveBulkCodes(bulk)
	allCodes = append(allCodes, bulkCodes...)
	result.Reasoning = append(result.Reasoning, bulkReasons...)

	result.Codes = waste.DedupeCodes(allCodes)
	result.OverallConfidence = overallConfidence(components, result.PerComponent, len(bulkCodes) > 0)

	c.logger.Debug("classification complete",
		logging.Int("components", len(components)),
		logging.Int("codes", len(result.Codes)),
		logging.Float64("confidence", result.OverallConfidence))

	return result
}

// classifyComponent runs the priority-ordered lookups for one constituent.
// It returns the per-component record (nil when nothing fired) and an
// unknown-component record (nil when the identifier was usable).
func (c *Classifier) classifyComponent(comp waste.ChemicalComponent) (*waste.ComponentClassification, *waste.UnknownComponent) {
	id, valid := casnum.Normalize(comp.Identifier)
	if !valid {
		return c.classifyByName(comp), unknownRecord(comp)
	}

	cc := &waste.ComponentClassification{Name: comp.Name, Identifier: id}
	var accumulated, achievable float64

	if acute, ok := c.registry.LookupAcute(id); ok {
		cc.Codes = append(cc.Codes, acute.Code)
		cc.Reasoning = append(cc.Reasoning, fmt.Sprintf(
			"%s (%s): acutely hazardous listing %s (%s)", comp.Name, id, acute.Code, acute.Citation))
		accumulated += weightAcute
		achievable += weightAcute
	}
	if toxic, ok := c.registry.LookupToxic(id); ok {
		cc.Codes = append(cc.Codes, toxic.Code)
		cc.Reasoning = append(cc.Reasoning, fmt.Sprintf(
			"%s (%s): listed toxic commercial chemical %s (%s)", comp.Name, id, toxic.Code, toxic.Citation))
		accumulated += weightToxic
		achievable += weightToxic
	}
	for _, limit := range c.registry.LookupCharacteristic(id) {
		cc.Codes = append(cc.Codes, limit.Code)
		cc.Reasoning = append(cc.Reasoning, fmt.Sprintf(
			"%s (%s): potential characteristic %s for %s, TCLP testing required (threshold %g %s)",
			comp.Name, id, limit.Code, limit.ConstituentName, limit.ThresholdValue, limit.Units))
		accumulated += weightCharacteristic
		achievable += weightCharacteristic
	}

	if achievable == 0 {
		// Valid identifier, no listing anywhere: a clean determination,
		// not a failure.
		cc.Confidence = 1.0
		cc.Reasoning = append(cc.Reasoning, fmt.Sprintf(
			"%s (%s): no acute, toxic or characteristic listing found", comp.Name, id))
		return cc, nil
	}

	cc.Confidence = accumulated / achievable
	return cc, nil
}

// classifyByName applies the name-pattern heuristics to a component without
// a usable identifier.  Hits are low-weight potential codes; no hit means no
// per-component record at all.
func (c *Classifier) classifyByName(comp waste.ChemicalComponent) *waste.ComponentClassification {
	cc := &waste.ComponentClassification{Name: comp.Name, Identifier: comp.Identifier}
	var accumulated, achievable float64

	for _, h := range nameHeuristics {
		if !h.re.MatchString(comp.Name) {
			continue
		}
		cc.Codes = append(cc.Codes, h.code)
		cc.Reasoning = append(cc.Reasoning, fmt.Sprintf(
			"%s: name suggests %s, potential %s assigned on keyword evidence only", comp.Name, h.what, h.code))
		accumulated += weightHeuristic
		achievable += nominalHeuristic
	}

	if achievable == 0 {
		return nil
	}
	cc.Confidence = accumulated / achievable
	return cc
}

func unknownRecord(comp waste.ChemicalComponent) *waste.UnknownComponent {
	reason := "invalid identifier format"
	if comp.Identifier == "" {
		reason = "missing identifier"
	}
	return &waste.UnknownComponent{Name: comp.Name, Identifier: comp.Identifier, Reason: reason}
}

// deriveBulkCodes applies the mixture-level characteristic rules.
// Ignitability needs a measured flash point strictly below the cutoff on a
// non-solid stream.  Corrosivity needs pH at or beyond either bound on a
// liquid or aqueous stream; solids are categorically excluded from the
// pH rule because the regulatory test is defined for aqueous media.
func deriveBulkCodes(bulk waste.BulkProperties) (codes []string, reasons []string) {
	if bulk.FlashPointCelsius != nil && *bulk.FlashPointCelsius < flashPointCutoffC && !bulk.PhysicalState.IsSolid() {
		codes = append(codes, codeIgnitable)
		reasons = append(reasons, fmt.Sprintf(
			"mixture flash point %.2f °C below %.0f °C cutoff on non-solid waste: ignitability code %s",
			*bulk.FlashPointCelsius, flashPointCutoffC, codeIgnitable))
	}
	if bulk.PH != nil && (*bulk.PH <= corrosiveLowPH || *bulk.PH >= corrosiveHighPH) && bulk.PhysicalState.IsLiquidLike() {
		codes = append(codes, codeCorrosive)
		reasons = append(reasons, fmt.Sprintf(
			"mixture pH %.2f at or beyond corrosivity bounds (<=%.1f or >=%.1f) on liquid waste: corrosivity code %s",
			*bulk.PH, corrosiveLowPH, corrosiveHighPH, codeCorrosive))
	}
	return codes, reasons
}

// overallConfidence aggregates per-component confidences into the
// record-level score: a percentage-weighted mean in which unknown components
// contribute zero.  Components without a parseable percentage weigh one
// percentage point.  When no components exist at all the score falls back to
// 0.8 if measured bulk properties produced codes, else zero.  No fixed
// minimum is applied; weak evidence must read as weak.
func overallConfidence(components []waste.ChemicalComponent, classified []waste.ComponentClassification, bulkFired bool) float64 {
	if len(components) == 0 {
		if bulkFired {
			return 0.8
		}
		return 0
	}

	confByKey := make(map[string]float64, len(classified))
	for _, cc := range classified {
		confByKey[cc.Name+"|"+cc.Identifier] = cc.Confidence
	}

	var weightSum, confSum float64
	for _, comp := range components {
		w := 1.0
		if pct, ok := casnum.NormalizePercentage(comp.Percentage); ok {
			w = pct
		}
		weightSum += w

		id, valid := casnum.Normalize(comp.Identifier)
		key := comp.Name + "|" + id
		if !valid {
			key = comp.Name + "|" + comp.Identifier
		}
		confSum += w * confByKey[key]
	}
	if weightSum == 0 {
		return 0
	}
	return confSum / weightSum
}
