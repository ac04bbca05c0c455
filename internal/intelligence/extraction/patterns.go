package extraction

import "regexp"

// ---------------------------------------------------------------------------
// Ordered pattern table
// ---------------------------------------------------------------------------

// FieldKind identifies which PartialResult field a pattern feeds.
type FieldKind string

const (
	FieldProductName   FieldKind = "product_name"
	FieldPhysicalState FieldKind = "physical_state"
	FieldPH            FieldKind = "ph"
	FieldFlashPointC   FieldKind = "flash_point_c"
	FieldFlashPointF   FieldKind = "flash_point_f"
)

// PatternRule is one row of the ordered extraction table.  Rules are applied
// in ascending Priority per field; the first match wins and carries the
// rule's Confidence.  Keeping the cascade as data rather than inline
// branching lets each rule be tested and extended on its own.
type PatternRule struct {
	Field      FieldKind
	Priority   int
	Confidence float64
	Re         *regexp.Regexp
}

// numeric fragment shared by the pH and flash-point rules.
const num = `(-?\d+(?:\.\d+)?)`

// defaultPatternTable is the deterministic strategy's rule set, ordered
// strongest-first within each field.  Capture group 1 is always the value.
var defaultPatternTable = []PatternRule{
	// Product name: the labelled SDS section-1 forms first, a generic
	// "trade name" label as fallback.
	{FieldProductName, 1, 0.95, regexp.MustCompile(`(?im)^\s*product\s+name\s*[:\-]\s*(.+?)\s*$`)},
	{FieldProductName, 2, 0.85, regexp.MustCompile(`(?im)^\s*product\s+identifier\s*[:\-]\s*(.+?)\s*$`)},
	{FieldProductName, 3, 0.70, regexp.MustCompile(`(?im)^\s*trade\s+name\s*[:\-]\s*(.+?)\s*$`)},

	// Physical state: explicit state label, then form, then appearance.
	{FieldPhysicalState, 1, 0.95, regexp.MustCompile(`(?im)^\s*physical\s+state\s*[:\-]\s*([a-z][a-z /,()-]*)`)},
	{FieldPhysicalState, 2, 0.85, regexp.MustCompile(`(?im)^\s*(?:physical\s+)?form\s*[:\-]\s*([a-z][a-z /,()-]*)`)},
	{FieldPhysicalState, 3, 0.60, regexp.MustCompile(`(?im)^\s*appearance\s*[:\-]\s*([a-z][a-z /,()-]*)`)},

	// pH: labelled value, optionally with a comparator the number parser
	// ignores.  A trailing range ("2.0 - 3.0") only captures the low end.
	{FieldPH, 1, 0.95, regexp.MustCompile(`(?im)^\s*pH(?:\s*\(concentrate\))?\s*[:\-]?\s*[<>≤≥]?\s*` + num)},
	{FieldPH, 2, 0.70, regexp.MustCompile(`(?i)\bpH\s+(?:value\s+)?(?:of\s+)?[<>≤≥]?\s*` + num)},

	// Flash point, Celsius first.  SDS sheets write "61 °C", "61C",
	// "61 deg C" and the closed-cup qualifiers.
	{FieldFlashPointC, 1, 0.95, regexp.MustCompile(`(?i)flash\s*point[^:\n]*[:\-]?\s*` + num + `\s*(?:°|º|deg(?:rees)?\s*)?C\b`)},
	{FieldFlashPointC, 2, 0.75, regexp.MustCompile(`(?i)\bF\.?P\.?\s*[:\-]?\s*` + num + `\s*(?:°|º)?\s*C\b`)},
	{FieldFlashPointF, 1, 0.90, regexp.MustCompile(`(?i)flash\s*point[^:\n]*[:\-]?\s*` + num + `\s*(?:°|º|deg(?:rees)?\s*)?F\b`)},
}

// compositionRowPatterns match one line of an SDS section-3 composition
// table.  Group order: name, CAS, optional percentage.  The CAS-first
// layout some vendors use is covered by the second pattern, which yields
// (cas, name, percentage) and is re-ordered by the caller.
var (
	compositionNameFirst = regexp.MustCompile(
		`(?m)^\s*([A-Za-z][A-Za-z0-9 ,()\[\]'.%/+-]{1,70}?)\s{2,}(\d{1,7}-\d{2}-\d)(?:\s{2,}([<>≤≥]?\s*\d+(?:\.\d+)?(?:\s*[-–]\s*\d+(?:\.\d+)?)?\s*%?))?\s*$`)
	compositionCASFirst = regexp.MustCompile(
		`(?m)^\s*(\d{1,7}-\d{2}-\d)\s{2,}([A-Za-z][A-Za-z0-9 ,()\[\]'.%/+-]{1,70}?)(?:\s{2,}([<>≤≥]?\s*\d+(?:\.\d+)?(?:\s*[-–]\s*\d+(?:\.\d+)?)?\s*%?))?\s*$`)
	// Inline prose form: "Acetone (CAS 67-64-1) 100%".
	compositionInline = regexp.MustCompile(
		`(?i)([A-Za-z][A-Za-z0-9 ,()\[\]'.+-]{1,60}?)\s*\(\s*CAS(?:\s*(?:No\.?|#))?\s*[:\-]?\s*(\d{1,7}-\d{2}-\d)\s*\)(?:\s*[,:]?\s*([<>≤≥]?\s*\d+(?:\.\d+)?(?:\s*[-–]\s*\d+(?:\.\d+)?)?\s*%))?`)
)
