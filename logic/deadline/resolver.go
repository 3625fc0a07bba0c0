package deadline

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"

	"contractflow/logic/analysis"
	"contractflow/logic/chat"
	"contractflow/types"
	"contractflow/vars"
)

// noDateToken is the literal the prompt asks the model to answer with when no
// concrete date can be determined.
const noDateToken = "no date found"

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Resolver turns free-text deadline language into a concrete calendar date.
// Resolution is background enrichment: it is attempted once, never retried,
// and a failure of any kind yields "no date" rather than an error.
type Resolver struct {
	chatModel model.ToolCallingChatModel
	Timeout   time.Duration
}

func NewResolver(chatModel model.ToolCallingChatModel) *Resolver {
	return &Resolver{
		chatModel: chatModel,
		Timeout:   30 * time.Second,
	}
}

// Resolve returns the deadline date inferred from freeText, or nil when there
// is none. Empty input and the extraction sentinels short-circuit without a
// model call.
func (r *Resolver) Resolve(ctx context.Context, freeText string, today time.Time) *time.Time {
	trimmed := strings.TrimSpace(freeText)
	if trimmed == "" || isSentinel(trimmed) {
		return nil
	}

	prompt := strings.ReplaceAll(vars.DEADLINE_PROMPT, "{{.Content}}", trimmed)
	prompt = strings.ReplaceAll(prompt, "{{.CurrentDate}}", today.Format("2006-01-02"))

	raw, err := chat.Generate(ctx, r.chatModel, prompt, r.Timeout, model.WithTemperature(0))
	if err != nil {
		// Swallowed: nobody is waiting on this result.
		slog.Debug("deadline resolution failed", "err", err)
		return nil
	}

	answer := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(answer, noDateToken) {
		return nil
	}
	match := datePattern.FindString(answer)
	if match == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", match)
	if err != nil {
		return nil
	}
	return &t
}

func isSentinel(text string) bool {
	switch text {
	case analysis.NotFoundSentinel(types.LangEnglish),
		analysis.NotFoundSentinel(types.LangArabic),
		"no deadline found":
		return true
	}
	return false
}
