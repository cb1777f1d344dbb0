package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/internal/validation/config"
	"dossier/internal/validation/models"
	"dossier/internal/validation/normalize"
)

func completeFields(kind models.DocumentKind) map[string]models.FieldValue {
	raw := map[string]string{}
	for _, name := range kind.RequiredFields() {
		if models.IsDateField(name) {
			raw[name] = "01/06/2024"
		} else {
			raw[name] = "Jean Dupont"
		}
	}
	return normalize.Fields(raw)
}

func findDeduction(t *testing.T, deductions []models.Deduction, code string) models.Deduction {
	t.Helper()
	for _, d := range deductions {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("deduction %s not found in %v", code, deductions)
	return models.Deduction{}
}

func TestScore(t *testing.T) {
	s := New(config.DefaultRuleSet())

	t.Run("complete clean document scores 100", func(t *testing.T) {
		score, deductions := s.Score(models.KindDeathCertificate,
			completeFields(models.KindDeathCertificate), models.IntegrityFlags{})
		assert.Equal(t, 100, score)
		assert.Empty(t, deductions)
	})

	t.Run("tampering deducts 50", func(t *testing.T) {
		score, deductions := s.Score(models.KindDeathCertificate,
			completeFields(models.KindDeathCertificate),
			models.IntegrityFlags{Tampered: true})
		assert.Equal(t, 50, score)
		d := findDeduction(t, deductions, CodeTampered)
		assert.Equal(t, 50, d.Amount)
	})

	t.Run("suspicious tool deducts 10", func(t *testing.T) {
		score, _ := s.Score(models.KindBankAccount,
			completeFields(models.KindBankAccount),
			models.IntegrityFlags{SuspiciousTool: "Photoshop"})
		assert.Equal(t, 90, score)
	})

	t.Run("font variants deduct only above threshold", func(t *testing.T) {
		fields := completeFields(models.KindBankAccount)

		score, _ := s.Score(models.KindBankAccount, fields,
			models.IntegrityFlags{FontVariantCount: 6})
		assert.Equal(t, 100, score, "six fonts is at the threshold, not over")

		score, _ = s.Score(models.KindBankAccount, fields,
			models.IntegrityFlags{FontVariantCount: 7})
		assert.Equal(t, 95, score)
	})

	t.Run("missing fields deduct 10 each in schema order", func(t *testing.T) {
		fields := completeFields(models.KindInsuranceContract)
		delete(fields, models.FieldPolicyNumber)
		delete(fields, models.FieldEndDate)

		score, deductions := s.Score(models.KindInsuranceContract, fields, models.IntegrityFlags{})
		assert.Equal(t, 80, score)
		d := findDeduction(t, deductions, CodeMissingFields)
		assert.Equal(t, 20, d.Amount)
		assert.Equal(t, "missing required fields: policy_number, end_date", d.Reason)
	})

	t.Run("missing field deduction caps at 40", func(t *testing.T) {
		score, deductions := s.Score(models.KindInsuranceContract,
			map[string]models.FieldValue{}, models.IntegrityFlags{})
		assert.Equal(t, 60, score, "five missing fields cap at 40, not 50")
		d := findDeduction(t, deductions, CodeMissingFields)
		assert.Equal(t, 40, d.Amount)
	})

	t.Run("rules cumulate instead of short-circuiting", func(t *testing.T) {
		fields := completeFields(models.KindIdentityDocument)
		delete(fields, models.FieldDocumentNumber)

		score, deductions := s.Score(models.KindIdentityDocument, fields,
			models.IntegrityFlags{Tampered: true, SuspiciousTool: "GIMP", FontVariantCount: 8})
		// 100 - 50 - 10 - 5 - 10
		assert.Equal(t, 25, score)
		require.Len(t, deductions, 4)
	})

	t.Run("score clamps at zero", func(t *testing.T) {
		score, _ := s.Score(models.KindIdentityDocument,
			map[string]models.FieldValue{},
			models.IntegrityFlags{Tampered: true, SuspiciousTool: "Canva", FontVariantCount: 9})
		// 100 - 50 - 10 - 5 - 40 would be -5
		assert.Equal(t, 0, score)
	})

	t.Run("unknown documents have no required fields", func(t *testing.T) {
		score, deductions := s.Score(models.KindUnknown,
			map[string]models.FieldValue{}, models.IntegrityFlags{})
		assert.Equal(t, 100, score)
		assert.Empty(t, deductions)
	})
}
