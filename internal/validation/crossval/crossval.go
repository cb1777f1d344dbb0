// Package crossval compares normalized fields across the document set and
// emits findings for the aggregate scorer.
package crossval

import (
	"fmt"

	"dossier/internal/validation/config"
	"dossier/internal/validation/models"
	"dossier/internal/validation/normalize"
)

// Validator runs the cross-document checks. Pure given normalized fields;
// it never mutates records. The bundle must already carry individual scores.
type Validator struct {
	rules   config.RuleSet
	matcher normalize.Matcher
}

// New builds a validator with the token-set name matcher.
func New(rules config.RuleSet) *Validator {
	return &Validator{rules: rules, matcher: normalize.TokenSetMatcher{}}
}

// NewWithMatcher builds a validator with a custom name comparator. The
// comparator only changes which relations match, never deduction amounts.
func NewWithMatcher(rules config.RuleSet, m normalize.Matcher) *Validator {
	return &Validator{rules: rules, matcher: m}
}

// criticalKinds lists the documents a death claim cannot be evaluated
// without, in reporting order.
var criticalKinds = []models.DocumentKind{
	models.KindDeathCertificate,
	models.KindInsuranceContract,
	models.KindBankAccount,
}

// Validate emits findings in fixed evaluation order: empty bundle, fraud,
// missing critical documents, missing critical fields, low-confidence
// documents, name mismatches, date-interval violation. The order is part of
// the contract; breakdowns replay it verbatim.
func (v *Validator) Validate(bundle *models.CaseBundle) []models.Finding {
	if len(bundle.Documents) == 0 {
		// Degenerate case: still report the absent critical documents so the
		// breakdown explains itself.
		findings := []models.Finding{{
			Code:   models.FindingEmptyBundle,
			Detail: "no documents submitted",
		}}
		findings = append(findings, v.missingDocuments(bundle)...)
		findings = append(findings, models.Finding{
			Code:   models.FindingMissingCriticalFields,
			Detail: "no critical documents present to supply required fields",
		})
		return findings
	}

	var findings []models.Finding
	findings = append(findings, v.fraud(bundle)...)
	findings = append(findings, v.missingDocuments(bundle)...)
	findings = append(findings, v.missingFields(bundle)...)
	findings = append(findings, v.lowConfidence(bundle)...)
	findings = append(findings, v.nameMismatches(bundle)...)
	findings = append(findings, v.dateInterval(bundle)...)
	return findings
}

func (v *Validator) fraud(bundle *models.CaseBundle) []models.Finding {
	var findings []models.Finding
	for _, doc := range bundle.Documents {
		if doc.Integrity.Tampered {
			findings = append(findings, models.Finding{
				Code:   models.FindingFraudPresent,
				Detail: fmt.Sprintf("%s flagged as tampered", doc.Kind),
			})
		}
	}
	return findings
}

func (v *Validator) missingDocuments(bundle *models.CaseBundle) []models.Finding {
	var findings []models.Finding
	for _, kind := range criticalKinds {
		// An unknown document never substitutes for a required kind.
		if bundle.ByKind(kind) == nil {
			findings = append(findings, models.Finding{
				Code:   models.FindingMissingCriticalDocuments,
				Detail: fmt.Sprintf("critical document absent: %s", kind),
			})
		}
	}
	return findings
}

func (v *Validator) missingFields(bundle *models.CaseBundle) []models.Finding {
	var findings []models.Finding
	for _, kind := range criticalKinds {
		doc := bundle.ByKind(kind)
		if doc == nil {
			continue
		}
		for _, name := range kind.RequiredFields() {
			if !doc.Field(name).Present() {
				findings = append(findings, models.Finding{
					Code:   models.FindingMissingCriticalFields,
					Detail: fmt.Sprintf("%s missing %s", kind, name),
				})
			}
		}
	}
	return findings
}

func (v *Validator) lowConfidence(bundle *models.CaseBundle) []models.Finding {
	var findings []models.Finding
	for _, doc := range bundle.Documents {
		if doc.Score < v.rules.LowConfidenceThreshold {
			findings = append(findings, models.Finding{
				Code:   models.FindingLowConfidenceDocument,
				Detail: fmt.Sprintf("%s scored %d, below %d", doc.Kind, doc.Score, v.rules.LowConfidenceThreshold),
			})
		}
	}
	return findings
}

// nameMismatches evaluates the four identity relations. A relation is only
// checked when both sides are present; a missing side is already covered by
// the missing-fields finding.
func (v *Validator) nameMismatches(bundle *models.CaseBundle) []models.Finding {
	var findings []models.Finding

	death := bundle.ByKind(models.KindDeathCertificate)
	contract := bundle.ByKind(models.KindInsuranceContract)
	bank := bundle.ByKind(models.KindBankAccount)
	identity := bundle.ByKind(models.KindIdentityDocument)
	residence := bundle.ByKind(models.KindProofOfResidence)

	var subscriber models.FieldValue
	if contract != nil {
		subscriber = contract.Field(models.FieldSubscriberName)
	}

	if death != nil && contract != nil {
		deceased := death.Field(models.FieldDeceasedName)
		if bothPresent(deceased, subscriber) && !v.matcher.Matches(deceased, subscriber) {
			findings = append(findings, mismatch(models.RelationDeceasedSubscriber,
				deceased, subscriber))
		}
	}

	if contract != nil && bank != nil {
		beneficiaries := contract.Field(models.FieldBeneficiaryNames)
		holder := bank.Field(models.FieldAccountHolder)
		if bothPresent(beneficiaries, holder) && !v.anyBeneficiaryMatches(beneficiaries, holder) {
			findings = append(findings, mismatch(models.RelationBeneficiaryAccount,
				beneficiaries, holder))
		}
	}

	if identity != nil && contract != nil {
		name := identity.Field(models.FieldName)
		if bothPresent(name, subscriber) && !v.matcher.Matches(name, subscriber) {
			findings = append(findings, mismatch(models.RelationIdentitySubscriber,
				name, subscriber))
		}
	}

	if residence != nil && contract != nil {
		name := residence.Field(models.FieldName)
		if bothPresent(name, subscriber) && !v.matcher.Matches(name, subscriber) {
			findings = append(findings, mismatch(models.RelationResidenceSubscriber,
				name, subscriber))
		}
	}

	return findings
}

// anyBeneficiaryMatches splits the contract's beneficiary field into
// individual names and matches the account holder against each.
func (v *Validator) anyBeneficiaryMatches(beneficiaries, holder models.FieldValue) bool {
	names := normalize.SplitNames(beneficiaries)
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		if v.matcher.Matches(name, holder) {
			return true
		}
	}
	return false
}

// dateInterval checks contract.effective_date <= death_date <= contract.end_date.
// Evaluated only when all three dates are present; absence is a
// missing-fields concern, never a date violation.
func (v *Validator) dateInterval(bundle *models.CaseBundle) []models.Finding {
	death := bundle.ByKind(models.KindDeathCertificate)
	contract := bundle.ByKind(models.KindInsuranceContract)
	if death == nil || contract == nil {
		return nil
	}

	deathDate := death.Field(models.FieldDeathDate)
	effective := contract.Field(models.FieldEffectiveDate)
	end := contract.Field(models.FieldEndDate)
	if deathDate.Date == nil || effective.Date == nil || end.Date == nil {
		return nil
	}

	d, from, to := *deathDate.Date, *effective.Date, *end.Date
	if d.Before(from) || d.After(to) {
		return []models.Finding{{
			Code: models.FindingDateIntervalViolation,
			Detail: fmt.Sprintf("death date %s outside contract period %s to %s",
				deathDate.Display, effective.Display, end.Display),
		}}
	}
	return nil
}

func bothPresent(a, b models.FieldValue) bool {
	return a.Present() && b.Present()
}

func mismatch(relation string, left, right models.FieldValue) models.Finding {
	return models.Finding{
		Code:     models.FindingNameMismatch,
		Relation: relation,
		Detail:   fmt.Sprintf("%s: %q does not match %q", relation, left.Display, right.Display),
	}
}
