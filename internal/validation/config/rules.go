// Package config holds the versioned scoring rule table.
//
// Every weight and threshold the scorers use is named here and frozen at
// construction. Any change to an amount must bump Version so breakdowns stay
// reproducible for audit: the version travels inside every ScoreBreakdown.
package config

// RuleSet is the immutable scoring configuration shared by the individual
// scorer, cross-validator, aggregate scorer, and decision mapper.
type RuleSet struct {
	Version string

	// Individual document scoring.
	TamperPenalty         int
	SuspiciousToolPenalty int
	FontVariantPenalty    int
	FontVariantThreshold  int
	MissingFieldPenalty   int
	MissingFieldCap       int

	// Cross-document scoring.
	EmptyBundlePenalty      int
	FraudPenalty            int
	MissingDocumentsPenalty int
	MissingFieldsPenalty    int
	LowConfidencePenalty    int
	LowConfidenceThreshold  int
	NameMismatchPenalty     int
	NameMismatchCap         int
	DateIntervalPenalty     int

	// Decision thresholds, inclusive lower bounds.
	AcceptThreshold      int
	InvestigateThreshold int

	// Integrity analysis.
	EditingToolFingerprints []string
}

// BaseScore is the starting score before deductions, for documents and
// bundles alike.
const BaseScore = 100

// DefaultRuleSet returns rule set v1.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Version: "v1",

		TamperPenalty:         50,
		SuspiciousToolPenalty: 10,
		FontVariantPenalty:    5,
		FontVariantThreshold:  6,
		MissingFieldPenalty:   10,
		MissingFieldCap:       40,

		EmptyBundlePenalty:      100,
		FraudPenalty:            50,
		MissingDocumentsPenalty: 15,
		MissingFieldsPenalty:    15,
		LowConfidencePenalty:    10,
		LowConfidenceThreshold:  60,
		NameMismatchPenalty:     20,
		NameMismatchCap:         60,
		DateIntervalPenalty:     25,

		AcceptThreshold:      70,
		InvestigateThreshold: 50,

		EditingToolFingerprints: []string{
			"canva",
			"photoshop",
			"illustrator",
			"gimp",
			"inkscape",
			"adobe acrobat pro",
		},
	}
}
