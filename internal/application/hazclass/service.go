// Package hazclass is the application service tying the platform together:
// one call runs extraction through the orchestrator, classifies the
// extracted constituents and bulk properties, and assembles the output
// document returned to callers. Feedback recording and event publication
// hang off the same service.
package hazclass

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/HazWaste-Intelligence/internal/domain/waste"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/extraction"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/orchestrator"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// extractor is the orchestrator surface the service consumes.
type extractor interface {
	Extract(ctx context.Context, in extraction.Input) *orchestrator.Outcome
}

// codeClassifier is the classification engine surface.
type codeClassifier interface {
	Classify(components []waste.ChemicalComponent, bulk waste.BulkProperties) *waste.ClassificationResult
}

// feedbackStore is the optional analyst-feedback surface.
type feedbackStore interface {
	Append(ctx context.Context, rec postgres.Feedback) error
	Recent(ctx context.Context, limit int) ([]postgres.Feedback, error)
}

// eventPublisher is the optional downstream-event surface.
type eventPublisher interface {
	PublishAsync(ctx context.Context, ev kafka.ClassificationEvent)
}

// classificationMetrics is the optional telemetry surface.
type classificationMetrics interface {
	ObserveClassification(codes []string, elapsed time.Duration)
}

// Request is one classification job: the rendered safety-document text plus
// any properties the caller already knows.
type Request struct {
	Text  string            `json:"text"`
	Hints *extraction.Hints `json:"hints,omitempty"`
}

// Document is the classification output returned to callers.
type Document struct {
	RequestID           string                    `json:"requestId"`
	DocumentFingerprint string                    `json:"documentFingerprint"`
	ProductName         string                    `json:"productName,omitempty"`
	PhysicalState       string                    `json:"physicalState"`
	PH                  *float64                  `json:"ph,omitempty"`
	FlashPointCelsius   *float64                  `json:"flashPointCelsius,omitempty"`
	Composition         []waste.ChemicalComponent `json:"composition"`

	WasteCodes        []string                        `json:"wasteCodes"`
	Reasoning         []string                        `json:"reasoning"`
	PerComponent      []waste.ComponentClassification `json:"perComponent"`
	UnknownComponents []waste.UnknownComponent        `json:"unknownComponents"`

	// Confidence is the classification engine's overall confidence;
	// ExtractionConfidence is the orchestrator's record-level confidence.
	Confidence           float64 `json:"confidence"`
	ExtractionConfidence float64 `json:"extractionConfidence"`

	ExtractionSource string   `json:"extractionSource"`
	Emergency        bool     `json:"emergency"`
	Warnings         []string `json:"warnings,omitempty"`

	CompletedAt time.Time `json:"completedAt"`
}

// Service runs classifications end to end.
type Service struct {
	extractor  extractor
	classifier codeClassifier
	feedback   feedbackStore
	events     eventPublisher
	metrics    classificationMetrics
	logger     logging.Logger
	now        func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithFeedbackStore enables analyst-feedback recording.
func WithFeedbackStore(fs feedbackStore) Option {
	return func(s *Service) { s.feedback = fs }
}

// WithEventPublisher enables completion-event publication.
func WithEventPublisher(p eventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// WithMetrics enables classification telemetry.
func WithMetrics(m classificationMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService wires a Service. The extractor and classifier are mandatory;
// everything else is optional and nil-safe.
func NewService(ex extractor, cl codeClassifier, log logging.Logger, opts ...Option) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &Service{
		extractor:  ex,
		classifier: cl,
		logger:     log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classify runs one document through extraction and classification.
func (s *Service) Classify(ctx context.Context, req Request) (*Document, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New(errors.ErrCodeEmptyDocument, "document text is empty")
	}

	requestID := uuid.NewString()
	fingerprint := cache.Fingerprint(req.Text, req.Hints)
	started := s.now()

	log := s.logger.With(logging.String("request_id", requestID))
	log.Info("classification started",
		logging.Int("text_bytes", len(req.Text)),
		logging.String("fingerprint", fingerprint[:12]),
	)

	outcome := s.extractor.Extract(ctx, extraction.Input{Text: req.Text, Hints: req.Hints})

	bulk := outcome.Fields.BulkProperties()
	result := s.classifier.Classify(outcome.Fields.Composition, bulk)

	doc := assemble(requestID, fingerprint, outcome, bulk, result)
	doc.CompletedAt = s.now().UTC()

	elapsed := s.now().Sub(started)
	if s.metrics != nil {
		s.metrics.ObserveClassification(doc.WasteCodes, elapsed)
	}
	if s.events != nil {
		s.events.PublishAsync(ctx, kafka.ClassificationEvent{
			RequestID:           requestID,
			DocumentFingerprint: fingerprint,
			ProductName:         doc.ProductName,
			WasteCodes:          doc.WasteCodes,
			Confidence:          doc.Confidence,
			Emergency:           doc.Emergency,
			CompletedAt:         doc.CompletedAt,
		})
	}

	log.Info("classification completed",
		logging.Int("codes", len(doc.WasteCodes)),
		logging.Float64("confidence", doc.Confidence),
		logging.Bool("emergency", doc.Emergency),
		logging.Duration("elapsed", elapsed),
	)
	return doc, nil
}

// RecordFeedback appends one analyst verdict. Returns ServiceUnavailable
// when no store is configured.
func (s *Service) RecordFeedback(ctx context.Context, rec postgres.Feedback) error {
	if s.feedback == nil {
		return errors.New(errors.ErrCodeServiceUnavailable, "feedback store not configured")
	}
	return s.feedback.Append(ctx, rec)
}

// RecentFeedback lists the newest analyst verdicts.
func (s *Service) RecentFeedback(ctx context.Context, limit int) ([]postgres.Feedback, error) {
	if s.feedback == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "feedback store not configured")
	}
	return s.feedback.Recent(ctx, limit)
}

func assemble(requestID, fingerprint string, outcome *orchestrator.Outcome,
	bulk waste.BulkProperties, result *waste.ClassificationResult) *Document {

	doc := &Document{
		RequestID:           requestID,
		DocumentFingerprint: fingerprint,
		PhysicalState:       string(bulk.PhysicalState),
		PH:                  bulk.PH,
		FlashPointCelsius:   bulk.FlashPointCelsius,
		Composition:         outcome.Fields.Composition,

		WasteCodes:        result.Codes,
		Reasoning:         result.Reasoning,
		PerComponent:      result.PerComponent,
		UnknownComponents: result.UnknownComponents,

		Confidence:           result.OverallConfidence,
		ExtractionConfidence: outcome.Confidence,
		ExtractionSource:     outcome.Source,
		Emergency:            outcome.Emergency,
		Warnings:             outcome.Warnings,
	}
	if outcome.Fields.ProductName != nil && outcome.Fields.ProductName.Raw != extraction.UndeterminedValue {
		doc.ProductName = outcome.Fields.ProductName.Raw
	}
	if doc.Composition == nil {
		doc.Composition = []waste.ChemicalComponent{}
	}
	return doc
}
