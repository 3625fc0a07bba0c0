package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"contractflow/storage/postgres"
	"contractflow/types"
)

// Resolver matches logic/deadline.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, freeText string, today time.Time) *time.Time
}

// StartCronJob schedules the nightly deadline sweep: analyzed contracts that
// still have no resolved deadline get one more resolution attempt. The sweep
// follows the same rule as the inline enrichment and never overwrites an
// existing deadline.
func StartCronJob(pgRepo *postgres.ContractRepo, resolver Resolver) *cron.Cron {
	c := cron.New()

	// Daily at 02:00.
	_, _ = c.AddFunc("0 2 * * *", func() {
		SweepDeadlines(context.Background(), pgRepo, resolver)
	})

	c.Start()
	return c
}

// SweepDeadlines runs one pass of the deadline enrichment sweep.
func SweepDeadlines(ctx context.Context, pgRepo *postgres.ContractRepo, resolver Resolver) {
	contracts, err := pgRepo.ListMissingDeadline(ctx, 50)
	if err != nil {
		slog.Error("deadline sweep: list failed", "err", err)
		return
	}

	resolved := 0
	for _, contract := range contracts {
		text := ""
		if r, ok := contract.Analysis[types.LangEnglish]; ok {
			text = r.Clauses.Deadlines
		} else if r, ok := contract.Analysis[types.LangArabic]; ok {
			text = r.Clauses.Deadlines
		}

		deadline := resolver.Resolve(ctx, text, time.Now())
		if deadline == nil {
			continue
		}
		written, err := pgRepo.SetDeadlineIfAbsent(ctx, contract.ID, *deadline)
		if err != nil {
			slog.Warn("deadline sweep: persist failed", "contract", contract.ID, "err", err)
			continue
		}
		if written {
			resolved++
		}
	}
	slog.Info("deadline sweep finished", "checked", len(contracts), "resolved", resolved)
}
