package crossval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/internal/validation/config"
	"dossier/internal/validation/models"
	"dossier/internal/validation/normalize"
	id "dossier/pkg/domain"
)

func doc(kind models.DocumentKind, fields map[string]string) *models.DocumentRecord {
	return &models.DocumentRecord{
		ID:     id.NewDocumentID(),
		Kind:   kind,
		Fields: normalize.Fields(fields),
		Score:  100,
	}
}

// completeBundle builds the five-document happy path: every critical field
// present, all names consistent, death inside the contract period.
func completeBundle() *models.CaseBundle {
	return &models.CaseBundle{
		ID: id.NewCaseID(),
		Documents: []*models.DocumentRecord{
			doc(models.KindDeathCertificate, map[string]string{
				"deceased_name": "Jean Dupont",
				"death_date":    "10/06/2025",
				"location":      "Lyon",
			}),
			doc(models.KindInsuranceContract, map[string]string{
				"policy_number":     "POL-2023-001",
				"subscriber_name":   "Jean Dupont",
				"beneficiary_names": "Marie Dupont",
				"effective_date":    "01/01/2025",
				"end_date":          "31/12/2025",
			}),
			doc(models.KindBankAccount, map[string]string{
				"account_holder": "Marie Dupont",
				"iban":           "FR7630006000011234567890189",
				"bic":            "AGRIFRPP",
			}),
			doc(models.KindIdentityDocument, map[string]string{
				"name":            "Jean Dupont",
				"first_name":      "Jean",
				"birth_date":      "05/03/1960",
				"document_number": "123456789",
				"expiration_date": "05/03/2030",
			}),
			doc(models.KindProofOfResidence, map[string]string{
				"name":          "Jean Dupont",
				"address":       "12 Rue de la Paix, Lyon",
				"document_date": "01/05/2025",
			}),
		},
	}
}

func codes(findings []models.Finding) []models.FindingCode {
	out := make([]models.FindingCode, len(findings))
	for i, f := range findings {
		out[i] = f.Code
	}
	return out
}

func TestValidate(t *testing.T) {
	v := New(config.DefaultRuleSet())

	t.Run("consistent bundle yields no findings", func(t *testing.T) {
		assert.Empty(t, v.Validate(completeBundle()))
	})

	t.Run("empty bundle reports everything missing", func(t *testing.T) {
		findings := v.Validate(&models.CaseBundle{ID: id.NewCaseID()})
		got := codes(findings)
		assert.Equal(t, models.FindingEmptyBundle, got[0])
		assert.Contains(t, got, models.FindingMissingCriticalDocuments)
		assert.Contains(t, got, models.FindingMissingCriticalFields)
	})

	t.Run("tampered document raises fraud", func(t *testing.T) {
		bundle := completeBundle()
		bundle.ByKind(models.KindBankAccount).Integrity.Tampered = true

		findings := v.Validate(bundle)
		require.Len(t, findings, 1)
		assert.Equal(t, models.FindingFraudPresent, findings[0].Code)
		assert.Contains(t, findings[0].Detail, "bank_account")
	})

	t.Run("each absent critical document is reported", func(t *testing.T) {
		bundle := completeBundle()
		bundle.Documents = bundle.Documents[:2] // death certificate + contract only

		findings := v.Validate(bundle)
		require.Len(t, findings, 1)
		assert.Equal(t, models.FindingMissingCriticalDocuments, findings[0].Code)
		assert.Contains(t, findings[0].Detail, "bank_account")
	})

	t.Run("unknown document does not substitute for a critical kind", func(t *testing.T) {
		bundle := &models.CaseBundle{
			ID:        id.NewCaseID(),
			Documents: []*models.DocumentRecord{doc(models.KindUnknown, nil)},
		}
		findings := v.Validate(bundle)
		count := 0
		for _, f := range findings {
			if f.Code == models.FindingMissingCriticalDocuments {
				count++
			}
		}
		assert.Equal(t, 3, count)
	})

	t.Run("missing critical fields reported per field", func(t *testing.T) {
		bundle := completeBundle()
		contract := bundle.ByKind(models.KindInsuranceContract)
		delete(contract.Fields, "policy_number")
		delete(contract.Fields, "end_date")

		findings := v.Validate(bundle)
		var details []string
		for _, f := range findings {
			if f.Code == models.FindingMissingCriticalFields {
				details = append(details, f.Detail)
			}
		}
		require.Len(t, details, 2)
		assert.Contains(t, details[0], "policy_number")
	})

	t.Run("low-confidence document flagged below threshold", func(t *testing.T) {
		bundle := completeBundle()
		bundle.ByKind(models.KindProofOfResidence).Score = 59

		findings := v.Validate(bundle)
		require.Len(t, findings, 1)
		assert.Equal(t, models.FindingLowConfidenceDocument, findings[0].Code)
	})

	t.Run("score at threshold is not low confidence", func(t *testing.T) {
		bundle := completeBundle()
		bundle.ByKind(models.KindProofOfResidence).Score = 60

		assert.Empty(t, v.Validate(bundle))
	})

	t.Run("deceased vs subscriber mismatch", func(t *testing.T) {
		bundle := completeBundle()
		bundle.ByKind(models.KindDeathCertificate).Fields["deceased_name"] = normalize.Name("Pierre Morel")

		findings := v.Validate(bundle)
		require.Len(t, findings, 1)
		assert.Equal(t, models.FindingNameMismatch, findings[0].Code)
		assert.Equal(t, models.RelationDeceasedSubscriber, findings[0].Relation)
	})

	t.Run("any listed beneficiary matching the holder passes", func(t *testing.T) {
		bundle := completeBundle()
		bundle.ByKind(models.KindInsuranceContract).Fields["beneficiary_names"] =
			normalize.Name("Paul Dupont; Marie Dupont")

		assert.Empty(t, v.Validate(bundle))
	})

	t.Run("holder matching no beneficiary mismatches", func(t *testing.T) {
		bundle := completeBundle()
		bundle.ByKind(models.KindBankAccount).Fields["account_holder"] = normalize.Name("Luc Bernard")

		findings := v.Validate(bundle)
		require.Len(t, findings, 1)
		assert.Equal(t, models.RelationBeneficiaryAccount, findings[0].Relation)
	})

	t.Run("multiple relations mismatch independently", func(t *testing.T) {
		bundle := completeBundle()
		bundle.ByKind(models.KindIdentityDocument).Fields["name"] = normalize.Name("Pierre Morel")
		bundle.ByKind(models.KindProofOfResidence).Fields["name"] = normalize.Name("Pierre Morel")

		findings := v.Validate(bundle)
		require.Len(t, findings, 2)
		assert.Equal(t, models.RelationIdentitySubscriber, findings[0].Relation)
		assert.Equal(t, models.RelationResidenceSubscriber, findings[1].Relation)
	})

	t.Run("relation with an absent side is skipped", func(t *testing.T) {
		bundle := completeBundle()
		death := bundle.ByKind(models.KindDeathCertificate)
		delete(death.Fields, "deceased_name")

		findings := v.Validate(bundle)
		for _, f := range findings {
			assert.NotEqual(t, models.FindingNameMismatch, f.Code,
				"absence is a missing-field concern, not a mismatch")
		}
	})

	t.Run("death before contract start violates the interval", func(t *testing.T) {
		bundle := completeBundle()
		bundle.ByKind(models.KindDeathCertificate).Fields["death_date"] = normalize.Date("31/12/2024")

		findings := v.Validate(bundle)
		require.Len(t, findings, 1)
		assert.Equal(t, models.FindingDateIntervalViolation, findings[0].Code)
	})

	t.Run("death on a boundary date is inside the interval", func(t *testing.T) {
		bundle := completeBundle()
		bundle.ByKind(models.KindDeathCertificate).Fields["death_date"] = normalize.Date("31/12/2025")

		assert.Empty(t, v.Validate(bundle))
	})

	t.Run("interval is skipped when any date is absent", func(t *testing.T) {
		bundle := completeBundle()
		contract := bundle.ByKind(models.KindInsuranceContract)
		delete(contract.Fields, "end_date")
		bundle.ByKind(models.KindDeathCertificate).Fields["death_date"] = normalize.Date("01/01/1990")

		findings := v.Validate(bundle)
		for _, f := range findings {
			assert.NotEqual(t, models.FindingDateIntervalViolation, f.Code)
		}
	})
}
