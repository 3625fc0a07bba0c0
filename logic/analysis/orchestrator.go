package analysis

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"

	"contractflow/logic/chat"
	"contractflow/types"
	"contractflow/vars"
)

// Prompt inputs beyond this size get truncated; very long contracts blow the
// model's context window without improving clause extraction.
const maxPromptContent = 10000

var clausePrompts = map[types.Language]string{
	types.LangEnglish: vars.CLAUSE_PROMPT_EN,
	types.LangArabic:  vars.CLAUSE_PROMPT_AR,
}

// Orchestrator drives the clause-extraction pipeline: per-language prompts,
// bounded retry against the LLM, parsing and risk reconciliation.
type Orchestrator struct {
	chatModel model.ToolCallingChatModel

	// Retry policy for transient failures.
	MaxAttempts int
	Delay       time.Duration
	Timeout     time.Duration
}

func NewOrchestrator(chatModel model.ToolCallingChatModel) *Orchestrator {
	return &Orchestrator{
		chatModel:   chatModel,
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		Timeout:     90 * time.Second,
	}
}

// Analyze produces an AnalysisResult for every requested language.
//
// Languages already present in existing are never re-run or overwritten; the
// orchestrator only fills the gap and then re-reconciles risk across the whole
// set. Requested languages run concurrently and all must complete (or fail)
// before reconciliation. If any language exhausts its retry budget the whole
// call fails and nothing is returned; the caller persists nothing.
func (o *Orchestrator) Analyze(ctx context.Context, text string, want []types.Language, existing types.AnalysisSet) (types.AnalysisSet, types.RiskLevel, error) {
	if strings.TrimSpace(text) == "" {
		return nil, types.RiskUnknown, &types.ValidationError{Field: "text", Reason: "contract body is empty"}
	}
	if len(want) == 0 {
		want = types.DefaultLanguages
	}

	results := existing.Clone()

	var missing []types.Language
	for _, lang := range want {
		if _, ok := results[lang]; !ok {
			missing = append(missing, lang)
		}
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	for _, lang := range missing {
		wg.Add(1)
		go func(lang types.Language) {
			defer wg.Done()
			raw, err := o.generateWithRetry(ctx, lang, text)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			// Malformed output never fails the pipeline; Parse degrades to
			// the fallback result.
			results[lang] = Parse(raw, lang)
		}(lang)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, types.RiskUnknown, firstErr
	}

	risk, results := Reconcile(results)
	return results, risk, nil
}

// generateWithRetry calls the LLM with the language's clause prompt, retrying
// transient failures up to MaxAttempts with a fixed inter-attempt delay.
// Non-retryable failures (bad credentials, missing model) surface immediately.
func (o *Orchestrator) generateWithRetry(ctx context.Context, lang types.Language, text string) (string, error) {
	prompt := buildClausePrompt(lang, text)

	var lastErr error
	for attempt := 1; attempt <= o.MaxAttempts; attempt++ {
		raw, err := chat.Generate(ctx, o.chatModel, prompt, o.Timeout, model.WithTemperature(0.1))
		if err == nil {
			return raw, nil
		}

		svcErr := chat.Classify("analysis", err)
		lastErr = svcErr
		if !svcErr.Retryable() {
			return "", svcErr
		}
		slog.Warn("analysis attempt failed",
			"lang", lang, "attempt", attempt, "cause", svcErr.Cause, "err", err)
		if attempt < o.MaxAttempts {
			time.Sleep(o.Delay)
		}
	}
	return "", lastErr
}

func buildClausePrompt(lang types.Language, text string) string {
	if len(text) > maxPromptContent {
		text = text[:maxPromptContent]
	}
	tmpl, ok := clausePrompts[lang]
	if !ok {
		tmpl = vars.CLAUSE_PROMPT_EN
	}
	prompt := strings.ReplaceAll(tmpl, "{{.Content}}", text)
	return strings.ReplaceAll(prompt, "{{.CurrentDate}}", time.Now().Format("2006-01-02"))
}
