// Package waste provides the core domain model for hazardous-waste
// classification in the HazWaste-Intelligence platform.  It defines the value
// objects exchanged between extraction and classification: chemical
// components, bulk physical properties, and the classification result
// aggregate emitted to callers.
package waste

import (
	"sort"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Physical State
// ─────────────────────────────────────────────────────────────────────────────

// PhysicalState is the coarse physical form of a waste stream.  It gates the
// bulk characteristic rules: ignitability requires a non-solid, corrosivity
// requires a liquid or aqueous stream.
type PhysicalState string

const (
	StateLiquid  PhysicalState = "liquid"
	StateSolid   PhysicalState = "solid"
	StateGas     PhysicalState = "gas"
	StateAqueous PhysicalState = "aqueous"
	StateSludge  PhysicalState = "sludge"
	StateUnknown PhysicalState = "unknown"
)

// ParsePhysicalState maps free-form SDS wording onto a PhysicalState.
// Unrecognised input yields StateUnknown.
func ParsePhysicalState(raw string) PhysicalState {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return StateUnknown
	case strings.Contains(s, "aqueous"), strings.Contains(s, "solution"):
		return StateAqueous
	case strings.Contains(s, "liquid"), strings.Contains(s, "oil"):
		return StateLiquid
	case strings.Contains(s, "solid"), strings.Contains(s, "powder"),
		strings.Contains(s, "granul"), strings.Contains(s, "crystal"),
		strings.Contains(s, "pellet"), strings.Contains(s, "flake"):
		return StateSolid
	case strings.Contains(s, "gas"), strings.Contains(s, "vapor"),
		strings.Contains(s, "vapour"), strings.Contains(s, "aerosol"):
		return StateGas
	case strings.Contains(s, "sludge"), strings.Contains(s, "slurry"),
		strings.Contains(s, "paste"), strings.Contains(s, "gel"):
		return StateSludge
	default:
		return StateUnknown
	}
}

// IsSolid reports whether the state categorically excludes the pH-based
// corrosivity rule and the flash-point ignitability rule.
func (s PhysicalState) IsSolid() bool { return s == StateSolid }

// IsLiquidLike reports whether the state qualifies for the pH-based
// corrosivity rule (liquids and aqueous streams only).
func (s PhysicalState) IsLiquidLike() bool {
	return s == StateLiquid || s == StateAqueous
}

// ─────────────────────────────────────────────────────────────────────────────
// Composition
// ─────────────────────────────────────────────────────────────────────────────

// ChemicalComponent is one row of an SDS composition table.  Identifier is
// the raw CAS registry number as extracted; normalization happens at
// classification time.  Percentage keeps its raw string form because SDS
// sheets routinely publish ranges and bounds ("10-20%", "<0.1%").
type ChemicalComponent struct {
	Name              string   `json:"name"`
	Identifier        string   `json:"identifier,omitempty"`
	Percentage        string   `json:"percentage,omitempty"`
	FlashPointCelsius *float64 `json:"flash_point_celsius,omitempty"`
}

// BulkProperties are the measured whole-mixture properties used by the
// characteristic rules, independent of any single constituent.
type BulkProperties struct {
	PhysicalState     PhysicalState `json:"physical_state"`
	PH                *float64      `json:"ph,omitempty"`
	FlashPointCelsius *float64      `json:"flash_point_celsius,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Classification Result Aggregate
// ─────────────────────────────────────────────────────────────────────────────

// ComponentClassification records the codes and evidence gathered for a
// single constituent.
type ComponentClassification struct {
	Name       string   `json:"name"`
	Identifier string   `json:"identifier"`
	Codes      []string `json:"codes"`
	Confidence float64  `json:"confidence"`
	Reasoning  []string `json:"reasoning,omitempty"`
}

// UnknownComponent is a constituent excluded from code derivation, retained
// for reporting.
type UnknownComponent struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier,omitempty"`
	Reason     string `json:"reason"`
}

// ClassificationResult is the immutable value object produced by one
// classification call.  Codes is always the deduplicated, sorted union of
// per-component codes and bulk-property characteristic codes.
type ClassificationResult struct {
	Codes             []string                  `json:"codes"`
	Reasoning         []string                  `json:"reasoning"`
	PerComponent      []ComponentClassification `json:"per_component"`
	OverallConfidence float64                   `json:"overall_confidence"`
	UnknownComponents []UnknownComponent        `json:"unknown_components"`
}

// DedupeCodes returns codes deduplicated and sorted, the canonical form
// required of ClassificationResult.Codes.
func DedupeCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
