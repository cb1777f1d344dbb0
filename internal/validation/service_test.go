package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"dossier/internal/audit"
	"dossier/internal/casefile/store/cases"
	"dossier/internal/fingerprint"
	"dossier/internal/validation/models"
	id "dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	svc          *Service
	caseStore    *cases.Memory
	auditStore   *audit.MemoryStore
	fingerprints *fingerprint.MemoryStore
	ctx          context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.caseStore = cases.NewMemory()
	s.auditStore = audit.NewMemoryStore()
	s.fingerprints = fingerprint.NewMemoryStore()
	s.ctx = context.Background()

	svc, err := New(s.caseStore,
		WithAuditPublisher(audit.NewStorePublisher(s.auditStore)),
		WithFingerprintStore(s.fingerprints),
	)
	s.Require().NoError(err)
	s.svc = svc
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func deathCertificate() models.DocumentInput {
	return models.DocumentInput{
		Kind: models.KindDeathCertificate,
		Fields: map[string]string{
			"deceased_name": "Jean Dupont",
			"death_date":    "10/06/2025",
			"location":      "Lyon",
		},
	}
}

func insuranceContract() models.DocumentInput {
	return models.DocumentInput{
		Kind: models.KindInsuranceContract,
		Fields: map[string]string{
			"policy_number":     "POL-2023-001",
			"subscriber_name":   "Jean Dupont",
			"beneficiary_names": "Marie Dupont",
			"effective_date":    "01/01/2025",
			"end_date":          "31/12/2025",
		},
	}
}

func bankAccount() models.DocumentInput {
	return models.DocumentInput{
		Kind: models.KindBankAccount,
		Fields: map[string]string{
			"account_holder": "Marie Dupont",
			"iban":           "FR7630006000011234567890189",
			"bic":            "AGRIFRPP",
		},
	}
}

func identityDocument() models.DocumentInput {
	return models.DocumentInput{
		Kind: models.KindIdentityDocument,
		Fields: map[string]string{
			"name":            "Jean Dupont",
			"first_name":      "Jean",
			"birth_date":      "05/03/1960",
			"document_number": "123456789",
			"expiration_date": "05/03/2030",
		},
	}
}

func proofOfResidence() models.DocumentInput {
	return models.DocumentInput{
		Kind: models.KindProofOfResidence,
		Fields: map[string]string{
			"name":          "Jean Dupont",
			"address":       "12 Rue de la Paix, Lyon",
			"document_date": "01/05/2025",
		},
	}
}

func completeBundle() []models.DocumentInput {
	return []models.DocumentInput{
		deathCertificate(), insuranceContract(), bankAccount(),
		identityDocument(), proofOfResidence(),
	}
}

func (s *ServiceSuite) evaluate(docs []models.DocumentInput) *EvaluateResult {
	result, err := s.svc.Evaluate(s.ctx, EvaluateRequest{Documents: docs})
	s.Require().NoError(err)
	return result
}

func (s *ServiceSuite) TestCompleteConsistentBundle() {
	result := s.evaluate(completeBundle())

	s.Equal(100, result.Decision.Breakdown.FinalScore)
	s.Equal(models.StatusValid, result.Decision.Status)
	s.Equal(models.RecommendAccept, result.Decision.Recommendation)
	s.Empty(result.Findings)

	for _, doc := range result.Documents {
		s.Equal(100, doc.Score)
	}
}

func (s *ServiceSuite) TestBorderlineBundleLandsExactlyOnAccept() {
	docs := completeBundle()
	// Identity card extracted poorly: only the family name survived, and the
	// metadata names a suspicious editor. Document score 100-10-40 = 50,
	// which also trips the low-confidence rule.
	docs[3] = models.DocumentInput{
		Kind:      models.KindIdentityDocument,
		Fields:    map[string]string{"name": "Pierre Morel"},
		Integrity: models.IntegritySignals{EditingToolHints: []string{"Canva"}},
	}

	result := s.evaluate(docs)

	// 100 - 10 (low confidence) - 20 (identity vs subscriber mismatch).
	s.Equal(70, result.Decision.Breakdown.FinalScore)
	s.Equal(models.RecommendAccept, result.Decision.Recommendation)
}

func (s *ServiceSuite) TestTamperedIdentityAndIncompleteContract() {
	docs := completeBundle()
	docs[3].Integrity.TamperedRaw = true
	delete(docs[1].Fields, "policy_number")

	result := s.evaluate(docs)

	// 100 - 50 (fraud) - 15 (missing critical field) - 10 (identity at 50).
	s.Equal(25, result.Decision.Breakdown.FinalScore)
	s.Equal(models.StatusInvalid, result.Decision.Status)
	s.Equal(models.RecommendReject, result.Decision.Recommendation)

	var codes []models.FindingCode
	for _, f := range result.Findings {
		codes = append(codes, f.Code)
	}
	s.Contains(codes, models.FindingFraudPresent)
	s.Contains(codes, models.FindingMissingCriticalFields)
	s.Contains(codes, models.FindingLowConfidenceDocument)
}

func (s *ServiceSuite) TestDeathOutsideContractPeriod() {
	docs := completeBundle()
	docs[0].Fields["death_date"] = "02/01/2026"

	result := s.evaluate(docs)

	s.Equal(75, result.Decision.Breakdown.FinalScore)
	s.Equal(models.RecommendAccept, result.Decision.Recommendation)
	s.Require().Len(result.Findings, 1)
	s.Equal(models.FindingDateIntervalViolation, result.Findings[0].Code)
}

func (s *ServiceSuite) TestEmptyBundleRejects() {
	result := s.evaluate(nil)

	s.Equal(0, result.Decision.Breakdown.FinalScore)
	s.Equal(models.StatusInvalid, result.Decision.Status)
	s.Equal(models.RecommendReject, result.Decision.Recommendation)
}

func (s *ServiceSuite) TestDeterministicDecision() {
	first := s.evaluate(completeBundle())

	docs := completeBundle()
	docs[2].Fields["account_holder"] = "Luc Bernard"
	second := s.evaluate(docs)
	third := s.evaluate(docs)

	s.NotEqual(first.Decision, second.Decision)
	s.Equal(second.Decision, third.Decision, "identical inputs must reproduce the decision")
}

func (s *ServiceSuite) TestDeductionsNeverExceedBase() {
	docs := []models.DocumentInput{
		{Kind: models.KindIdentityDocument, Integrity: models.IntegritySignals{TamperedRaw: true}},
	}
	result := s.evaluate(docs)

	s.Equal(0, result.Decision.Breakdown.FinalScore)
	s.GreaterOrEqual(result.Decision.Breakdown.FinalScore, 0)
}

func (s *ServiceSuite) TestCasePersistence() {
	result := s.evaluate(completeBundle())

	record, err := s.svc.Case(s.ctx, result.CaseID)
	s.Require().NoError(err)
	s.Equal(result.Decision.Status, record.Status)
	s.Equal(result.Decision.Breakdown.FinalScore, record.FinalScore)
	s.Len(record.DocumentKinds, 5)

	recent, err := s.svc.RecentCases(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(result.CaseID, recent[0].ID)
}

func (s *ServiceSuite) TestResubmittedCaseIDConflicts() {
	caseID := id.NewCaseID()

	_, err := s.svc.Evaluate(s.ctx, EvaluateRequest{CaseID: caseID, Documents: completeBundle()})
	s.Require().NoError(err)

	_, err = s.svc.Evaluate(s.ctx, EvaluateRequest{CaseID: caseID, Documents: completeBundle()})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Contains(err.Error(), caseID.String())

	record, getErr := s.svc.Case(s.ctx, caseID)
	s.Require().NoError(getErr)
	s.Equal(models.RecommendAccept, record.Recommendation, "first decision stays untouched")
}

func (s *ServiceSuite) TestDeductionTriggersNeverRaiseScore() {
	baseline := s.evaluate(completeBundle()).Decision.Breakdown.FinalScore

	triggers := map[string]func(docs []models.DocumentInput){
		"tampered death certificate": func(docs []models.DocumentInput) {
			docs[0].Integrity.TamperedRaw = true
		},
		"suspicious editing tool": func(docs []models.DocumentInput) {
			docs[3].Integrity.EditingToolHints = []string{"Canva 2.0"}
		},
		"missing contract field": func(docs []models.DocumentInput) {
			delete(docs[1].Fields, "policy_number")
		},
		"missing critical document": func(docs []models.DocumentInput) {
			docs[2].Fields = map[string]string{}
			docs[2].Kind = models.KindUnknown
		},
		"holder matches no beneficiary": func(docs []models.DocumentInput) {
			docs[2].Fields["account_holder"] = "Paul Riviere"
		},
		"death outside coverage": func(docs []models.DocumentInput) {
			docs[0].Fields["death_date"] = "02/01/2026"
		},
	}

	for name, mutate := range triggers {
		s.Run(name, func() {
			docs := completeBundle()
			mutate(docs)
			result := s.evaluate(docs)
			s.LessOrEqual(result.Decision.Breakdown.FinalScore, baseline, "a new trigger must never raise the score")
		})
	}
}

func (s *ServiceSuite) TestCaseNotFound() {
	_, err := s.svc.Case(s.ctx, id.NewCaseID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDuplicateDocumentDetection() {
	digest := "a3f5b8c2d4e60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"

	docs := completeBundle()
	docs[0].ContentSHA256 = digest
	first := s.evaluate(docs)
	s.Empty(first.Duplicates)

	again := completeBundle()
	again[0].ContentSHA256 = digest
	second := s.evaluate(again)

	s.Require().Len(second.Duplicates, 1)
	s.Equal(digest, second.Duplicates[0].Digest)
	s.Equal(first.CaseID.String(), second.Duplicates[0].PriorCaseID)
	s.Equal("ACCEPT", second.Duplicates[0].PriorRecommendation)

	s.Equal(second.Decision, first.Decision, "duplicates are advisory and never change the decision")

	events, err := s.auditStore.ListByCase(s.ctx, second.CaseID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionDuplicateFound, events[0].Action)
	s.Contains(events[0].Reason, first.CaseID.String())
}

func (s *ServiceSuite) TestAuditTrailMasksSensitiveFields() {
	result := s.evaluate(completeBundle())

	events, err := s.auditStore.ListByCase(s.ctx, result.CaseID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)

	event := events[0]
	s.Equal(audit.ActionCaseEvaluated, event.Action)
	s.Equal("ACCEPT", event.Recommendation)

	for _, doc := range event.Documents {
		if doc.Kind != string(models.KindBankAccount) {
			continue
		}
		s.Equal("FR76*******************0189", doc.MaskedFields["iban"])
		s.NotContains(doc.MaskedFields["iban"], "30006000011234567890")
	}
}

func (s *ServiceSuite) TestNewRequiresCaseStore() {
	_, err := New(nil)
	s.Require().Error(err)
	s.Contains(err.Error(), "case store is required")
}
