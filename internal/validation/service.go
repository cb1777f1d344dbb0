// Package validation orchestrates case bundle evaluation: per-document
// scoring, cross-document validation, aggregation, and the final decision.
//
// Evaluation itself is pure and deterministic; persistence, audit, and
// duplicate detection happen around it and never influence the score.
package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"dossier/internal/audit"
	"dossier/internal/casefile"
	"dossier/internal/fingerprint"
	"dossier/internal/validation/aggregate"
	"dossier/internal/validation/config"
	"dossier/internal/validation/crossval"
	"dossier/internal/validation/decide"
	"dossier/internal/validation/integrity"
	"dossier/internal/validation/metrics"
	"dossier/internal/validation/models"
	"dossier/internal/validation/normalize"
	"dossier/internal/validation/ports"
	"dossier/internal/validation/scorer"
	id "dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/sentinel"
	"dossier/pkg/requestcontext"
)

// Service evaluates claim case bundles.
type Service struct {
	rules      config.RuleSet
	analyzer   *integrity.Analyzer
	scorer     *scorer.Scorer
	validator  *crossval.Validator
	aggregator *aggregate.Scorer
	mapper     *decide.Mapper

	cases          ports.CaseStore
	auditPublisher ports.AuditPublisher
	fingerprints   ports.FingerprintStore
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	matcher        normalize.Matcher
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger for evaluation lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditPublisher sets the audit sink for decision events.
func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = p }
}

// WithFingerprintStore enables duplicate-document detection.
func WithFingerprintStore(store ports.FingerprintStore) Option {
	return func(s *Service) { s.fingerprints = store }
}

// WithRuleSet overrides the default scoring rule table.
func WithRuleSet(rules config.RuleSet) Option {
	return func(s *Service) { s.rules = rules }
}

// WithMatcher swaps the name comparator. Deduction amounts are unaffected.
func WithMatcher(m normalize.Matcher) Option {
	return func(s *Service) { s.matcher = m }
}

// New constructs the validation service. The case store is required; audit,
// metrics, and fingerprinting are optional collaborators.
func New(cases ports.CaseStore, opts ...Option) (*Service, error) {
	if cases == nil {
		return nil, fmt.Errorf("case store is required")
	}

	svc := &Service{
		rules: config.DefaultRuleSet(),
		cases: cases,
	}
	for _, opt := range opts {
		opt(svc)
	}

	svc.analyzer = integrity.New(svc.rules)
	svc.scorer = scorer.New(svc.rules)
	if svc.matcher != nil {
		svc.validator = crossval.NewWithMatcher(svc.rules, svc.matcher)
	} else {
		svc.validator = crossval.New(svc.rules)
	}
	svc.aggregator = aggregate.New(svc.rules)
	svc.mapper = decide.New(svc.rules)
	svc.tracer = otel.Tracer("dossier/validation")

	return svc, nil
}

// EvaluateRequest is one case bundle submitted for evaluation.
type EvaluateRequest struct {
	CaseID    id.CaseID
	Documents []models.DocumentInput
}

// DuplicateNotice flags a document whose content digest was already seen in
// an earlier case. Advisory only.
type DuplicateNotice struct {
	Kind                models.DocumentKind `json:"kind"`
	Digest              string              `json:"digest"`
	PriorCaseID         string              `json:"prior_case_id"`
	PriorRecommendation string              `json:"prior_recommendation"`
	PriorScore          int                 `json:"prior_score"`
}

// EvaluateResult carries the decision plus everything a reviewer needs to
// retrace it.
type EvaluateResult struct {
	CaseID      id.CaseID
	Decision    models.Decision
	Documents   []*models.DocumentRecord
	Findings    []models.Finding
	Duplicates  []DuplicateNotice
	EvaluatedAt time.Time
}

// Evaluate normalizes, scores, cross-validates, and decides one bundle, then
// persists the case and emits an audit event. Identical inputs always yield
// an identical decision.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (*EvaluateResult, error) {
	ctx, span := s.tracer.Start(ctx, "case.evaluate",
		trace.WithAttributes(attribute.Int("documents", len(req.Documents))))
	defer span.End()

	start := time.Now()

	caseID := req.CaseID
	if caseID.IsNil() {
		caseID = id.NewCaseID()
	}

	bundle := s.buildBundle(caseID, req.Documents)

	// Individual scores have no cross-document dependency; fan out, then
	// join before cross-validation.
	g, _ := errgroup.WithContext(ctx)
	for _, doc := range bundle.Documents {
		g.Go(func() error {
			doc.Score, doc.Deductions = s.scorer.Score(doc.Kind, doc.Fields, doc.Integrity)
			return nil
		})
	}
	_ = g.Wait()

	findings := s.validator.Validate(bundle)
	breakdown := s.aggregator.Aggregate(findings)
	decision := s.mapper.Map(breakdown)

	result := &EvaluateResult{
		CaseID:      caseID,
		Decision:    decision,
		Documents:   bundle.Documents,
		Findings:    findings,
		EvaluatedAt: requestcontext.Now(ctx),
	}
	result.Duplicates = s.detectDuplicates(ctx, bundle, decision)

	if err := s.persist(ctx, result); err != nil {
		return nil, err
	}
	s.emitAudit(ctx, result)
	s.observe(decision, time.Since(start))

	if s.logger != nil {
		s.logger.InfoContext(ctx, "case evaluated",
			"case_id", caseID,
			"documents", len(bundle.Documents),
			"status", decision.Status,
			"recommendation", decision.Recommendation,
			"score", breakdown.FinalScore,
			"rule_set", breakdown.RuleSetVersion,
		)
	}

	return result, nil
}

// Case returns a previously decided case.
func (s *Service) Case(ctx context.Context, caseID id.CaseID) (*casefile.Record, error) {
	record, err := s.cases.Get(ctx, caseID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "case %s not found", caseID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load case")
	}
	return record, nil
}

// RecentCases returns the newest decided cases for review.
func (s *Service) RecentCases(ctx context.Context, limit int) ([]*casefile.Record, error) {
	records, err := s.cases.Recent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recent cases")
	}
	return records, nil
}

// buildBundle normalizes raw inputs into immutable document records.
func (s *Service) buildBundle(caseID id.CaseID, inputs []models.DocumentInput) *models.CaseBundle {
	bundle := &models.CaseBundle{ID: caseID}
	for _, input := range inputs {
		bundle.Documents = append(bundle.Documents, &models.DocumentRecord{
			ID:            id.NewDocumentID(),
			Kind:          input.Kind,
			Fields:        normalize.Fields(input.Fields),
			Integrity:     s.analyzer.Analyze(input.Integrity),
			ContentSHA256: input.ContentSHA256,
		})
	}
	return bundle
}

// detectDuplicates looks up and registers content digests. Best effort: a
// fingerprint-store failure is logged and the evaluation proceeds.
func (s *Service) detectDuplicates(ctx context.Context, bundle *models.CaseBundle, decision models.Decision) []DuplicateNotice {
	if s.fingerprints == nil {
		return nil
	}

	var notices []DuplicateNotice
	for _, doc := range bundle.Documents {
		if doc.ContentSHA256 == "" {
			continue
		}

		entry, err := s.fingerprints.Lookup(ctx, doc.ContentSHA256)
		if err != nil {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "fingerprint lookup failed",
					"case_id", bundle.ID, "error", err)
			}
			continue
		}
		if entry != nil {
			notices = append(notices, DuplicateNotice{
				Kind:                doc.Kind,
				Digest:              doc.ContentSHA256,
				PriorCaseID:         entry.CaseID,
				PriorRecommendation: entry.Recommendation,
				PriorScore:          entry.Score,
			})
			s.metrics.IncrementDuplicate()
			s.emitDuplicateAudit(ctx, bundle.ID, doc.Kind, entry)
			continue
		}

		err = s.fingerprints.Register(ctx, fingerprint.Entry{
			Digest:         doc.ContentSHA256,
			CaseID:         bundle.ID.String(),
			Recommendation: string(decision.Recommendation),
			Score:          decision.Breakdown.FinalScore,
			SeenAt:         time.Now(),
		})
		if err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "fingerprint register failed",
				"case_id", bundle.ID, "error", err)
		}
	}
	return notices
}

func (s *Service) emitDuplicateAudit(ctx context.Context, caseID id.CaseID, kind models.DocumentKind, prior *fingerprint.Entry) {
	if s.auditPublisher == nil {
		return
	}

	event := audit.Event{
		CaseID:    caseID,
		RequestID: requestcontext.RequestID(ctx),
		Subject:   requestcontext.Subject(ctx),
		Action:    audit.ActionDuplicateFound,
		Reason:    fmt.Sprintf("%s digest first seen in case %s", kind, prior.CaseID),
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"case_id", caseID, "error", err)
	}
}

func (s *Service) persist(ctx context.Context, result *EvaluateResult) error {
	kinds := make([]models.DocumentKind, len(result.Documents))
	for i, doc := range result.Documents {
		kinds[i] = doc.Kind
	}

	record := &casefile.Record{
		ID:             result.CaseID,
		Subject:        requestcontext.Subject(ctx),
		Status:         result.Decision.Status,
		Recommendation: result.Decision.Recommendation,
		FinalScore:     result.Decision.Breakdown.FinalScore,
		RuleSetVersion: result.Decision.Breakdown.RuleSetVersion,
		Breakdown:      result.Decision.Breakdown,
		Findings:       result.Findings,
		DocumentKinds:  kinds,
		CreatedAt:      result.EvaluatedAt,
	}
	if err := s.cases.Save(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Newf(dErrors.CodeConflict, "case %s already decided", record.ID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist case")
	}
	return nil
}

func (s *Service) emitAudit(ctx context.Context, result *EvaluateResult) {
	if s.auditPublisher == nil {
		return
	}

	summaries := make([]audit.DocumentSummary, len(result.Documents))
	for i, doc := range result.Documents {
		display := make(map[string]string, len(doc.Fields))
		for name, value := range doc.Fields {
			if value.Present() {
				display[name] = value.Display
			}
		}
		summaries[i] = audit.DocumentSummary{
			Kind:         string(doc.Kind),
			Score:        doc.Score,
			Tampered:     doc.Integrity.Tampered,
			MaskedFields: audit.MaskFields(display),
		}
	}

	event := audit.Event{
		CaseID:         result.CaseID,
		RequestID:      requestcontext.RequestID(ctx),
		Subject:        requestcontext.Subject(ctx),
		Action:         audit.ActionCaseEvaluated,
		Status:         string(result.Decision.Status),
		Recommendation: string(result.Decision.Recommendation),
		Score:          result.Decision.Breakdown.FinalScore,
		RuleSetVersion: result.Decision.Breakdown.RuleSetVersion,
		Reason:         aggregate.Describe(result.Decision.Breakdown),
		Documents:      summaries,
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"case_id", result.CaseID, "error", err)
	}
}

func (s *Service) observe(decision models.Decision, elapsed time.Duration) {
	s.metrics.IncrementDecision(string(decision.Status), string(decision.Recommendation))
	for _, d := range decision.Breakdown.Deductions {
		if d.Amount > 0 {
			s.metrics.IncrementDeduction(d.Code)
		}
	}
	s.metrics.ObserveEvaluateLatency(elapsed)
}
