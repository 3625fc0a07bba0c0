package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"contractflow/logic/workflow"
	"contractflow/notify"
	"contractflow/types"
)

// Store is the document-store collaborator. *postgres.ContractRepo satisfies it.
type Store interface {
	Create(ctx context.Context, c *types.Contract) error
	GetByID(ctx context.Context, id string) (*types.Contract, error)
	UpdateGuarded(ctx context.Context, c *types.Contract, prevUpdatedAt time.Time) error
	SetDeadlineIfAbsent(ctx context.Context, id string, deadline time.Time) (bool, error)
	List(ctx context.Context, filter types.ListFilter) ([]*types.Contract, error)
}

// Analyzer runs the clause-extraction pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, text string, want []types.Language, existing types.AnalysisSet) (types.AnalysisSet, types.RiskLevel, error)
}

// DeadlineResolver turns free-text deadline language into a concrete date.
type DeadlineResolver interface {
	Resolve(ctx context.Context, freeText string, today time.Time) *time.Time
}

// WorkflowService is the single entry point screens call. Every operation is
// permission check, then domain action, then guarded status persist: a failed
// domain action leaves the persisted status untouched.
type WorkflowService struct {
	store     Store
	analyzer  Analyzer
	deadlines DeadlineResolver
	notifier  notify.Notifier
	now       func() time.Time
}

func NewWorkflowService(store Store, analyzer Analyzer, deadlines DeadlineResolver, notifier notify.Notifier) *WorkflowService {
	return &WorkflowService{
		store:     store,
		analyzer:  analyzer,
		deadlines: deadlines,
		notifier:  notifier,
		now:       time.Now,
	}
}

// UploadRequest carries the fields a new contract needs. Text is the full
// body used as analysis input; it is immutable after upload.
type UploadRequest struct {
	Title          string
	Text           string
	OrganizationID *string
	UploadedBy     string
}

// Upload creates a contract in status uploaded.
func (s *WorkflowService) Upload(ctx context.Context, req UploadRequest) (*types.Contract, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &types.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, &types.ValidationError{Field: "text", Reason: "contract body is empty"}
	}
	if req.UploadedBy == "" {
		return nil, &types.ValidationError{Field: "uploaded_by", Reason: "must not be empty"}
	}

	now := s.now()
	c := &types.Contract{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Status:         types.StatusUploaded,
		OrganizationID: req.OrganizationID,
		UploadedBy:     req.UploadedBy,
		Text:           req.Text,
		RiskLevel:      types.RiskUnknown,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	slog.Info("contract uploaded", "id", c.ID, "by", req.UploadedBy)
	return c, nil
}

// Assign hands the contract to a reviewer.
func (s *WorkflowService) Assign(ctx context.Context, id string, actor types.Actor, assigneeID string) (*types.Contract, error) {
	if assigneeID == "" {
		return nil, &types.ValidationError{Field: "assignee", Reason: "must not be empty"}
	}

	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(c, actor, types.StatusAssigned); err != nil {
		return nil, err
	}

	prev := c.UpdatedAt
	workflow.Apply(c, actor, types.StatusAssigned, "", s.now())
	c.AssignedTo = &assigneeID
	if err := s.store.UpdateGuarded(ctx, c, prev); err != nil {
		return nil, err
	}

	s.emit("assigned", c, actor)
	return c, nil
}

// Analyze runs the extraction pipeline and advances the contract to analyzed.
// Languages already analyzed keep their stored result untouched; only the
// missing ones are produced, then risk is reconciled across the whole set.
func (s *WorkflowService) Analyze(ctx context.Context, id string, actor types.Actor, langs []types.Language) (*types.Contract, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Text) == "" {
		return nil, &types.ValidationError{Field: "text", Reason: "contract has no analyzable text"}
	}
	if err := workflow.Authorize(c, actor, types.StatusAnalyzed); err != nil {
		return nil, err
	}

	set, risk, err := s.analyzer.Analyze(ctx, c.Text, langs, c.Analysis)
	if err != nil {
		// Status stays where it was; no partial stuck states.
		return nil, err
	}

	prev := c.UpdatedAt
	workflow.Apply(c, actor, types.StatusAnalyzed, "", s.now())
	c.Analysis = set
	c.RiskLevel = risk
	if err := s.store.UpdateGuarded(ctx, c, prev); err != nil {
		return nil, err
	}

	s.emit("analyzed", c, actor)
	go s.enrichDeadline(c.ID, set)
	return c, nil
}

// Approve records a positive decision. An empty comment gets the default.
func (s *WorkflowService) Approve(ctx context.Context, id string, actor types.Actor, comment string) (*types.Contract, error) {
	return s.decide(ctx, id, actor, types.StatusApproved, comment)
}

// Reject records a negative decision. An empty comment gets the default.
func (s *WorkflowService) Reject(ctx context.Context, id string, actor types.Actor, comment string) (*types.Contract, error) {
	return s.decide(ctx, id, actor, types.StatusRejected, comment)
}

func (s *WorkflowService) decide(ctx context.Context, id string, actor types.Actor, target types.Status, comment string) (*types.Contract, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.Authorize(c, actor, target); err != nil {
		return nil, err
	}

	prev := c.UpdatedAt
	workflow.Apply(c, actor, target, comment, s.now())
	if err := s.store.UpdateGuarded(ctx, c, prev); err != nil {
		return nil, err
	}

	s.emit(string(target), c, actor)
	return c, nil
}

// Get loads one contract.
func (s *WorkflowService) Get(ctx context.Context, id string) (*types.Contract, error) {
	return s.store.GetByID(ctx, id)
}

// List returns contracts matching the filter.
func (s *WorkflowService) List(ctx context.Context, filter types.ListFilter) ([]*types.Contract, error) {
	return s.store.List(ctx, filter)
}

// enrichDeadline resolves the contract deadline from the freshly produced
// analysis in the background. The screen that triggered the analysis is not
// waiting on this; failures vanish into the log and an already-present
// deadline is never replaced.
func (s *WorkflowService) enrichDeadline(contractID string, set types.AnalysisSet) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	text := deadlineClause(set)
	resolved := s.deadlines.Resolve(ctx, text, s.now())
	if resolved == nil {
		return
	}
	written, err := s.store.SetDeadlineIfAbsent(ctx, contractID, *resolved)
	if err != nil {
		slog.Warn("deadline persist failed", "contract", contractID, "err", err)
		return
	}
	if written {
		slog.Info("deadline resolved", "contract", contractID, "deadline", resolved.Format("2006-01-02"))
	}
}

// deadlineClause picks the deadlines clause to resolve from: the English
// result when present, otherwise the Arabic one. A deadline belongs to the
// contract, not to the language it was extracted in.
func deadlineClause(set types.AnalysisSet) string {
	if r, ok := set[types.LangEnglish]; ok {
		return r.Clauses.Deadlines
	}
	if r, ok := set[types.LangArabic]; ok {
		return r.Clauses.Deadlines
	}
	return ""
}

func (s *WorkflowService) emit(eventType string, c *types.Contract, actor types.Actor) {
	ev := notify.Event{
		Type:       eventType,
		ContractID: c.ID,
		ActorID:    actor.ID,
		Status:     c.Status,
		OccurredAt: s.now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.notifier.Notify(ctx, ev)
	}()
}
