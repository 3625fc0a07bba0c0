package analysis

import (
	"strings"

	"contractflow/types"
)

// riskTerms maps each language's risk vocabulary onto the canonical tiers.
// Arabic carries a few synonyms the model is known to produce.
var riskTerms = map[types.Language]map[string]types.RiskLevel{
	types.LangEnglish: {
		"low":    types.RiskLow,
		"medium": types.RiskMedium,
		"high":   types.RiskHigh,
	},
	types.LangArabic: {
		"منخفض":  types.RiskLow,
		"منخفضة": types.RiskLow,
		"متوسط":  types.RiskMedium,
		"متوسطة": types.RiskMedium,
		"عالي":   types.RiskHigh,
		"عالية":  types.RiskHigh,
		"مرتفع":  types.RiskHigh,
	},
}

// canonicalTerm is the preferred spelling per language when writing a tier back.
var canonicalTerm = map[types.Language]map[types.RiskLevel]string{
	types.LangEnglish: {
		types.RiskLow:    "Low",
		types.RiskMedium: "Medium",
		types.RiskHigh:   "High",
	},
	types.LangArabic: {
		types.RiskLow:    "منخفض",
		types.RiskMedium: "متوسط",
		types.RiskHigh:   "عالي",
	},
}

// RiskFromTerm translates a language-local risk term into the canonical tier.
// Unrecognized vocabulary yields Unknown.
func RiskFromTerm(lang types.Language, term string) types.RiskLevel {
	terms, ok := riskTerms[lang]
	if !ok {
		return types.RiskUnknown
	}
	if level, ok := terms[strings.ToLower(strings.TrimSpace(term))]; ok {
		return level
	}
	return types.RiskUnknown
}

// TermFor re-expresses a canonical tier in a language's own vocabulary.
func TermFor(lang types.Language, level types.RiskLevel) string {
	if terms, ok := canonicalTerm[lang]; ok {
		if term, ok := terms[level]; ok {
			return term
		}
	}
	return canonicalTerm[types.LangEnglish][types.RiskMedium]
}

// Reconcile combines the per-language risk assessments into one canonical
// tier: the highest present tier wins. The reconciled tier is written back
// into every present result in that result's own vocabulary, so the stored
// languages never disagree. No results at all means Unknown.
func Reconcile(set types.AnalysisSet) (types.RiskLevel, types.AnalysisSet) {
	if len(set) == 0 {
		return types.RiskUnknown, set
	}

	reconciled := types.RiskUnknown
	for lang, result := range set {
		if level := RiskFromTerm(lang, result.RiskLevel); level.Rank() > reconciled.Rank() {
			reconciled = level
		}
	}
	if reconciled == types.RiskUnknown {
		return types.RiskUnknown, set
	}

	out := set.Clone()
	for lang, result := range out {
		result.RiskLevel = TermFor(lang, reconciled)
		out[lang] = result
	}
	return reconciled, out
}
