// Package extraction implements the layered property-extraction strategies
// that pull structured fields (product name, physical state, pH, flash
// point, composition table) out of raw safety-data-sheet text.  Every
// strategy honours the same contract: it returns an Attempt and never
// panics; internal failure degrades to a zero-confidence Attempt instead of
// propagating upward.
package extraction

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/HazWaste-Intelligence/internal/domain/waste"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// Core data structures
// ---------------------------------------------------------------------------

// FieldValue is one extracted field with its evidence.  Raw keeps the
// verbatim text the value came from; Number is populated only when the field
// is numeric and parseable.
type FieldValue struct {
	Raw        string   `json:"raw"`
	Number     *float64 `json:"number,omitempty"`
	Confidence float64  `json:"confidence"`
	Source     string   `json:"source"`
}

// PartialResult is the structured output of a single extraction strategy.
// Fields are nil when the strategy found nothing for them.
type PartialResult struct {
	ProductName   *FieldValue `json:"product_name,omitempty"`
	PhysicalState *FieldValue `json:"physical_state,omitempty"`
	PH            *FieldValue `json:"ph,omitempty"`
	FlashPointC   *FieldValue `json:"flash_point_c,omitempty"`
	FlashPointF   *FieldValue `json:"flash_point_f,omitempty"`

	Composition           []waste.ChemicalComponent `json:"composition,omitempty"`
	CompositionConfidence float64                   `json:"composition_confidence"`
}

// Overall computes the record-level confidence of a PartialResult as the
// weighted mean over the required fields.  The composition table weighs
// double since it drives code derivation; FlashPointF is a convenience
// duplicate of FlashPointC and does not count.  Missing fields contribute
// zero, so a sparse result is honestly low-confidence.
func (p *PartialResult) Overall() float64 {
	if p == nil {
		return 0
	}
	fieldConf := func(f *FieldValue) float64 {
		if f == nil {
			return 0
		}
		return f.Confidence
	}
	const totalWeight = 6.0 // four single-weight fields + double-weight composition
	sum := fieldConf(p.ProductName) +
		fieldConf(p.PhysicalState) +
		fieldConf(p.PH) +
		fieldConf(p.FlashPointC) +
		2*p.CompositionConfidence
	return sum / totalWeight
}

// BulkProperties converts the extracted fields into the domain value object
// consumed by the classifier.
func (p *PartialResult) BulkProperties() waste.BulkProperties {
	out := waste.BulkProperties{PhysicalState: waste.StateUnknown}
	if p == nil {
		return out
	}
	if p.PhysicalState != nil {
		out.PhysicalState = waste.ParsePhysicalState(p.PhysicalState.Raw)
	}
	if p.PH != nil && p.PH.Number != nil {
		v := *p.PH.Number
		out.PH = &v
	}
	if p.FlashPointC != nil && p.FlashPointC.Number != nil {
		v := *p.FlashPointC.Number
		out.FlashPointCelsius = &v
	}
	return out
}

// Attempt is the outcome of one strategy invocation.  Err records a degraded
// run for diagnostics; the Attempt itself is still well-formed and carries
// whatever confidence the strategy could honestly claim.
type Attempt struct {
	StrategyName string         `json:"strategy_name"`
	Confidence   float64        `json:"confidence"`
	Fields       *PartialResult `json:"fields"`
	Elapsed      time.Duration  `json:"elapsed"`
	Err          error          `json:"-"`
}

// ---------------------------------------------------------------------------
// Strategy contract
// ---------------------------------------------------------------------------

// Hints are caller-supplied properties already known before extraction runs,
// for example from a manifest accompanying the document.
type Hints struct {
	PhysicalState string                    `json:"physical_state,omitempty"`
	Composition   []waste.ChemicalComponent `json:"composition,omitempty"`
}

// Input is what every strategy consumes: the rendered document text plus
// optional hints.
type Input struct {
	Text  string `json:"text"`
	Hints *Hints `json:"hints,omitempty"`
}

// Strategy is the shared extraction contract.  Extract must always return a
// non-nil Attempt with a non-nil Fields, must never panic, and must respect
// ctx cancellation.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, in Input) *Attempt
}

// failedAttempt builds the canonical zero-confidence Attempt for a strategy
// that could not produce a usable result.
func failedAttempt(name string, started time.Time, err error) *Attempt {
	return &Attempt{
		StrategyName: name,
		Confidence:   0,
		Fields:       &PartialResult{},
		Elapsed:      time.Since(started),
		Err:          err,
	}
}

// ---------------------------------------------------------------------------
// Panic protection
// ---------------------------------------------------------------------------

type protectedStrategy struct {
	inner Strategy
}

// Protect wraps a Strategy so that a panic inside Extract degrades to a
// zero-confidence Attempt carrying a StrategyFailure error.  The
// orchestrator wraps every registered strategy; strategies themselves stay
// free of recover boilerplate.
func Protect(s Strategy) Strategy {
	if _, ok := s.(*protectedStrategy); ok {
		return s
	}
	return &protectedStrategy{inner: s}
}

func (p *protectedStrategy) Name() string { return p.inner.Name() }

func (p *protectedStrategy) Extract(ctx context.Context, in Input) (att *Attempt) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			att = failedAttempt(p.inner.Name(), started,
				errors.New(errors.ErrCodeStrategyFailure, fmt.Sprintf("strategy panicked: %v", r)))
		}
	}()
	att = p.inner.Extract(ctx, in)
	if att == nil {
		return failedAttempt(p.inner.Name(), started,
			errors.New(errors.ErrCodeStrategyFailure, "strategy returned nil attempt"))
	}
	if att.Fields == nil {
		att.Fields = &PartialResult{}
	}
	return att
}

// ---------------------------------------------------------------------------
// Field-level merge
// ---------------------------------------------------------------------------

// Merge combines several attempts into a single hybrid PartialResult by
// selecting, for each field independently, the candidate with the highest
// field-level confidence across all attempts.  Whole-record confidence is
// recomputed from the merged fields, not inherited from any one attempt.
func Merge(attempts []*Attempt) *PartialResult {
	merged := &PartialResult{}

	better := func(cur, cand *FieldValue) *FieldValue {
		if cand == nil {
			return cur
		}
		if cur == nil || cand.Confidence > cur.Confidence {
			return cand
		}
		return cur
	}

	for _, a := range attempts {
		if a == nil || a.Fields == nil {
			continue
		}
		f := a.Fields
		merged.ProductName = better(merged.ProductName, f.ProductName)
		merged.PhysicalState = better(merged.PhysicalState, f.PhysicalState)
		merged.PH = better(merged.PH, f.PH)
		merged.FlashPointC = better(merged.FlashPointC, f.FlashPointC)
		merged.FlashPointF = better(merged.FlashPointF, f.FlashPointF)
		if len(f.Composition) > 0 && f.CompositionConfidence > merged.CompositionConfidence {
			merged.Composition = f.Composition
			merged.CompositionConfidence = f.CompositionConfidence
		}
	}
	return merged
}
