package analysis

import (
	"encoding/json"
	"strings"

	"contractflow/types"
)

// Per-language sentinels for clause fields the model did not return.
var notFoundText = map[types.Language]string{
	types.LangEnglish: "Not found",
	types.LangArabic:  "غير موجود",
}

// Per-language fallback text when the model output is not usable at all.
var unableText = map[types.Language]string{
	types.LangEnglish: "Unable to extract. The document may not be a contract.",
	types.LangArabic:  "تعذر الاستخراج. قد لا يكون المستند عقدًا.",
}

// NotFoundSentinel returns the "clause absent" sentinel for a language.
func NotFoundSentinel(lang types.Language) string {
	if s, ok := notFoundText[lang]; ok {
		return s
	}
	return notFoundText[types.LangEnglish]
}

// rawAnalysis is the decode target for the model's JSON output.
type rawAnalysis struct {
	ExtractedClauses map[string]string `json:"extracted_clauses"`
	Summary          string            `json:"summary"`
	RiskLevel        string            `json:"risk_level"`
}

// Parse turns raw model text into a fully populated AnalysisResult. The model
// is an untrusted collaborator: fenced code blocks and stray prose are
// tolerated, and anything undecodable degrades to the deterministic fallback
// result. Parse never fails.
func Parse(raw string, lang types.Language) types.AnalysisResult {
	jsonStr := strings.TrimSpace(raw)
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")
	jsonStr = strings.TrimSpace(jsonStr)

	var decoded rawAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &decoded); err != nil {
		// Retry on the first balanced-looking {...} substring.
		start := strings.Index(jsonStr, "{")
		end := strings.LastIndex(jsonStr, "}")
		if start == -1 || end <= start {
			return Fallback(lang)
		}
		if err := json.Unmarshal([]byte(jsonStr[start:end+1]), &decoded); err != nil {
			return Fallback(lang)
		}
	}

	// Required top-level fields; a decoded object without them is as useless
	// as no object at all.
	if decoded.ExtractedClauses == nil || strings.TrimSpace(decoded.Summary) == "" || strings.TrimSpace(decoded.RiskLevel) == "" {
		return Fallback(lang)
	}

	pick := func(key string) string {
		if v, ok := decoded.ExtractedClauses[key]; ok && strings.TrimSpace(v) != "" {
			return v
		}
		return NotFoundSentinel(lang)
	}

	return types.AnalysisResult{
		Clauses: types.Clauses{
			Deadlines:             pick("deadlines"),
			Responsibilities:      pick("responsibilities"),
			PaymentTerms:          pick("payment_terms"),
			Penalties:             pick("penalties"),
			Confidentiality:       pick("confidentiality"),
			TerminationConditions: pick("termination_conditions"),
		},
		Summary:   decoded.Summary,
		RiskLevel: decoded.RiskLevel,
	}
}

// Fallback is the deterministic degraded result: all six clause fields carry
// the "unable to extract" sentinel and the risk tier is Medium in the
// result's own language.
func Fallback(lang types.Language) types.AnalysisResult {
	text, ok := unableText[lang]
	if !ok {
		text = unableText[types.LangEnglish]
	}
	return types.AnalysisResult{
		Clauses: types.Clauses{
			Deadlines:             text,
			Responsibilities:      text,
			PaymentTerms:          text,
			Penalties:             text,
			Confidentiality:       text,
			TerminationConditions: text,
		},
		Summary:   text,
		RiskLevel: TermFor(lang, types.RiskMedium),
	}
}
