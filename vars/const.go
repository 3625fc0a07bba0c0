package vars

import (
	"os"
)

// GetEnv reads an environment variable, falling back to a default.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

const (
	// LLM providers
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	// Default model names
	QWEN7B     = "qwen2.5:7b"
	QWEN3B     = "qwen2.5:3b"
	GPT4OMINI  = "gpt-4o-mini"
	DEEPSEEKR1 = "deepseek-r1:7b"
)

// Runtime configuration (overridable via environment for Docker deployments).
var (
	// HTTP
	PORT = GetEnv("PORT", "8081")

	// LLM
	LLMPROVIDER = GetEnv("LLM_PROVIDER", ProviderOllama)
	LLMMODEL    = GetEnv("LLM_MODEL", QWEN7B)
	OLLAMA_PATH = GetEnv("OLLAMA_PATH", "http://localhost:11434")
	OPENAI_KEY  = GetEnv("OPENAI_API_KEY", "")
	OPENAI_URL  = GetEnv("OPENAI_BASE_URL", "")

	// PG
	PGUSER = GetEnv("PGUSER", "root")
	PGPWD  = GetEnv("PGPWD", "root")
	PGDB   = GetEnv("PGDB", "contractflow")
	PGHOST = GetEnv("PGHOST", "localhost")
	PGPORT = GetEnv("PGPORT", "5432")

	// Webhook endpoint for workflow notifications; empty disables them.
	NOTIFY_URL = GetEnv("NOTIFY_URL", "")
)

// Prompt templates. {{.Content}} and {{.CurrentDate}} are substituted before the call.
const (
	CLAUSE_PROMPT_EN = `
You are a professional legal contract analyst. Read the contract below and extract its key clauses.
Current date: {{.CurrentDate}} (use it to interpret relative periods such as "within 30 days").

Return a single JSON object with exactly this shape:

{
  "extracted_clauses": {
    "deadlines": "...",
    "responsibilities": "...",
    "payment_terms": "...",
    "penalties": "...",
    "confidentiality": "...",
    "termination_conditions": "..."
  },
  "summary": "...",
  "risk_level": "Low" | "Medium" | "High"
}

Rules:
1. Every clause value must quote or closely paraphrase the relevant contract text in English.
2. If a clause is genuinely absent from the contract, write exactly "Not found" for that field.
3. "summary" is a synopsis of the contract in at most 3 sentences.
4. "risk_level" reflects the overall legal exposure for the signing party.

Contract text:
{{.Content}}

Output JSON only. No markdown.
`

	CLAUSE_PROMPT_AR = `
You are a professional legal contract analyst. Read the contract below and extract its key clauses.
Current date: {{.CurrentDate}} (use it to interpret relative periods such as "within 30 days").

Return a single JSON object with exactly this shape:

{
  "extracted_clauses": {
    "deadlines": "...",
    "responsibilities": "...",
    "payment_terms": "...",
    "penalties": "...",
    "confidentiality": "...",
    "termination_conditions": "..."
  },
  "summary": "...",
  "risk_level": "منخفض" | "متوسط" | "عالي"
}

Rules:
1. Every clause value, the summary and the risk level must be written in Arabic, even when the contract itself is in another language.
2. If a clause is genuinely absent from the contract, write exactly "غير موجود" for that field.
3. "summary" is a synopsis of the contract in at most 3 sentences.
4. "risk_level" must be exactly one of: منخفض, متوسط, عالي.

Contract text:
{{.Content}}

Output JSON only. No markdown.
`

	DEADLINE_PROMPT = `
You are a date extraction assistant.
Current date: {{.CurrentDate}}.

The text below describes deadline obligations taken from a contract. Determine the single
most relevant concrete deadline date, computing relative periods from the current date.

Answer with exactly one line and nothing else:
- a date in YYYY-MM-DD format, or
- the words "no date found" if no concrete date can be determined.

Text:
{{.Content}}
`
)
