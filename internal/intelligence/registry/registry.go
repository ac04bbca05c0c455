// Package registry builds the immutable regulatory lookup tables used by the
// constituent classifier: the acutely-hazardous listings, the
// toxic-commercial-chemical listings, and the characteristic
// leachable-concentration limits.  Tables are built once at startup from
// embedded datasets and are never mutated afterwards, so lookups are safe for
// concurrent use without locking.
package registry

import (
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/casnum"
)

// ─────────────────────────────────────────────────────────────────────────────
// Registry Entry Variants
// ─────────────────────────────────────────────────────────────────────────────

// AcuteListing is one acutely-hazardous listed chemical.  Presence at any
// concentration triggers its code.
type AcuteListing struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Citation string `json:"citation"`
}

// ToxicListing is one toxic listed commercial chemical.
type ToxicListing struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Citation string `json:"citation"`
}

// CharacteristicLimit is one leachable-concentration threshold.  A hit means
// the constituent may exceed the regulatory limit; confirmation requires TCLP
// testing, which is why its evidentiary weight is below the listed variants.
type CharacteristicLimit struct {
	Code            string  `json:"code"`
	ConstituentName string  `json:"constituent_name"`
	ThresholdValue  float64 `json:"threshold_value"`
	Units           string  `json:"units"`
	Method          string  `json:"method"`
	Citation        string  `json:"citation"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Source Records
// ─────────────────────────────────────────────────────────────────────────────

// acuteRecord, toxicRecord and characteristicRecord carry a raw CAS string
// alongside the entry payload; Build normalizes the identifier and drops
// records whose identifier does not canonicalise.
type acuteRecord struct {
	cas   string
	entry AcuteListing
}

type toxicRecord struct {
	cas   string
	entry ToxicListing
}

type characteristicRecord struct {
	cas   string
	entry CharacteristicLimit
}

// Sources groups the three datasets a Registry is built from.  The zero value
// is usable and yields an empty registry.
type Sources struct {
	Acute          []acuteRecord
	Toxic          []toxicRecord
	Characteristic []characteristicRecord
}

// ─────────────────────────────────────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────────────────────────────────────

// Registry holds the three lookup tables keyed by normalized CAS number.
// A single identifier may map to several characteristic limits (one compound
// crossing two metal thresholds, for instance), so that table's values are
// slices.
type Registry struct {
	acute          map[string]AcuteListing
	toxic          map[string]ToxicListing
	characteristic map[string][]CharacteristicLimit
}

// Build constructs a Registry from the embedded regulatory datasets.
func Build(logger logging.Logger) *Registry {
	return BuildFromSources(embeddedSources(), logger)
}

// BuildFromSources constructs a Registry from the given datasets.  Records
// whose identifier fails normalization are skipped with a build-time warning;
// a bad source row must never turn into a runtime error.
func BuildFromSources(src Sources, logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("registry")

	r := &Registry{
		acute:          make(map[string]AcuteListing, len(src.Acute)),
		toxic:          make(map[string]ToxicListing, len(src.Toxic)),
		characteristic: make(map[string][]CharacteristicLimit, len(src.Characteristic)),
	}

	skipped := 0
	for _, rec := range src.Acute {
		id, ok := casnum.Normalize(rec.cas)
		if !ok {
			skipped++
			logger.Warn("skipping acute listing with invalid identifier",
				logging.String("cas", rec.cas), logging.String("code", rec.entry.Code))
			continue
		}
		r.acute[id] = rec.entry
	}
	for _, rec := range src.Toxic {
		id, ok := casnum.Normalize(rec.cas)
		if !ok {
			skipped++
			logger.Warn("skipping toxic listing with invalid identifier",
				logging.String("cas", rec.cas), logging.String("code", rec.entry.Code))
			continue
		}
		r.toxic[id] = rec.entry
	}
	for _, rec := range src.Characteristic {
		id, ok := casnum.Normalize(rec.cas)
		if !ok {
			skipped++
			logger.Warn("skipping characteristic limit with invalid identifier",
				logging.String("cas", rec.cas), logging.String("code", rec.entry.Code))
			continue
		}
		r.characteristic[id] = append(r.characteristic[id], rec.entry)
	}

	logger.Info("regulatory registries built",
		logging.Int("acute", len(r.acute)),
		logging.Int("toxic", len(r.toxic)),
		logging.Int("characteristic", len(r.characteristic)),
		logging.Int("skipped", skipped))

	return r
}

// LookupAcute returns the acute listing for a normalized identifier.
func (r *Registry) LookupAcute(id string) (AcuteListing, bool) {
	e, ok := r.acute[id]
	return e, ok
}

// LookupToxic returns the toxic listing for a normalized identifier.
func (r *Registry) LookupToxic(id string) (ToxicListing, bool) {
	e, ok := r.toxic[id]
	return e, ok
}

// LookupCharacteristic returns every characteristic limit for a normalized
// identifier.  The returned slice is shared; callers must not mutate it.
func (r *Registry) LookupCharacteristic(id string) []CharacteristicLimit {
	return r.characteristic[id]
}

// Sizes reports the entry count of each table, for health and startup logs.
func (r *Registry) Sizes() (acute, toxic, characteristic int) {
	return len(r.acute), len(r.toxic), len(r.characteristic)
}
