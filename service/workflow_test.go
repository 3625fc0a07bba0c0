package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractflow/notify"
	"contractflow/types"
)

// fakeStore is an in-memory Store with the same guarded-update semantics as
// the postgres repo.
type fakeStore struct {
	mu        sync.Mutex
	contracts map[string]*types.Contract
	deadlines map[string]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		contracts: make(map[string]*types.Contract),
		deadlines: make(map[string]time.Time),
	}
}

func (s *fakeStore) Create(_ context.Context, c *types.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.contracts[c.ID] = &cp
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*types.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) UpdateGuarded(_ context.Context, c *types.Contract, prevUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.contracts[c.ID]
	if !ok {
		return types.ErrNotFound
	}
	if !current.UpdatedAt.Equal(prevUpdatedAt) {
		return types.ErrConflict
	}
	cp := *c
	s.contracts[c.ID] = &cp
	return nil
}

func (s *fakeStore) SetDeadlineIfAbsent(_ context.Context, id string, deadline time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok {
		return false, types.ErrNotFound
	}
	if c.Deadline != nil {
		return false, nil
	}
	c.Deadline = &deadline
	s.deadlines[id] = deadline
	return true, nil
}

func (s *fakeStore) List(_ context.Context, _ types.ListFilter) ([]*types.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStore) status(id string) types.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contracts[id].Status
}

func (s *fakeStore) deadlineOf(id string) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contracts[id].Deadline
}

type fakeAnalyzer struct {
	set  types.AnalysisSet
	risk types.RiskLevel
	err  error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string, _ []types.Language, existing types.AnalysisSet) (types.AnalysisSet, types.RiskLevel, error) {
	if f.err != nil {
		return nil, types.RiskUnknown, f.err
	}
	out := existing.Clone()
	for k, v := range f.set {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out, f.risk, nil
}

type fakeResolver struct {
	date *time.Time
}

func (f *fakeResolver) Resolve(_ context.Context, _ string, _ time.Time) *time.Time {
	return f.date
}

func englishResult() types.AnalysisResult {
	return types.AnalysisResult{
		Clauses:   types.Clauses{Deadlines: "within 30 days of signing"},
		Summary:   "summary",
		RiskLevel: "Medium",
	}
}

func newTestService(store *fakeStore, analyzer Analyzer, resolver DeadlineResolver) *WorkflowService {
	if analyzer == nil {
		analyzer = &fakeAnalyzer{
			set:  types.AnalysisSet{types.LangEnglish: englishResult()},
			risk: types.RiskMedium,
		}
	}
	if resolver == nil {
		resolver = &fakeResolver{}
	}
	return NewWorkflowService(store, analyzer, resolver, notify.Noop{})
}

func uploadContract(t *testing.T, svc *WorkflowService) *types.Contract {
	t.Helper()
	c, err := svc.Upload(context.Background(), UploadRequest{
		Title:      "Supply agreement",
		Text:       "The supplier shall deliver within 30 days of signing.",
		UploadedBy: "creator-1",
	})
	require.NoError(t, err)
	return c
}

var admin = types.Actor{ID: "admin-1", Role: types.RoleAdmin}

func TestUploadValidation(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, nil)

	var validationErr *types.ValidationError
	_, err := svc.Upload(context.Background(), UploadRequest{Title: "t", Text: "  ", UploadedBy: "u"})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "text", validationErr.Field)

	_, err = svc.Upload(context.Background(), UploadRequest{Title: "", Text: "body", UploadedBy: "u"})
	require.ErrorAs(t, err, &validationErr)
}

func TestUploadCreatesUploadedContract(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)

	c := uploadContract(t, svc)
	assert.Equal(t, types.StatusUploaded, c.Status)
	assert.Equal(t, types.RiskUnknown, c.RiskLevel)
	assert.NotEmpty(t, c.ID)
}

func TestAssignSetsReviewerAndTimestamp(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)
	c := uploadContract(t, svc)

	updated, err := svc.Assign(context.Background(), c.ID, admin, "la-1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "la-1", *updated.AssignedTo)
	assert.NotNil(t, updated.AssignedAt)
}

func TestAssistantCannotAnalyzeUnassignedContract(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)
	c := uploadContract(t, svc)

	assistant := types.Actor{ID: "la-1", Role: types.RoleLegalAssistant}
	_, err := svc.Analyze(context.Background(), c.ID, assistant, nil)
	assert.ErrorIs(t, err, types.ErrForbidden)
	assert.Equal(t, types.StatusUploaded, store.status(c.ID))

	// The admin can analyze the very same contract directly.
	updated, err := svc.Analyze(context.Background(), c.ID, admin, nil)
	require.NoError(t, err)
	assert.Equal(t, types.StatusAnalyzed, updated.Status)
	assert.Equal(t, types.StatusAnalyzed, store.status(c.ID))
}

func TestAnalyzeFailureLeavesStatusUntouched(t *testing.T) {
	store := newFakeStore()
	failing := &fakeAnalyzer{err: &types.ServiceError{
		Op:    "analysis",
		Cause: types.CauseUnavailable,
		Err:   context.DeadlineExceeded,
	}}
	svc := newTestService(store, failing, nil)
	c := uploadContract(t, svc)

	_, err := svc.Analyze(context.Background(), c.ID, admin, nil)

	var svcErr *types.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, types.StatusUploaded, store.status(c.ID))
}

func TestAnalyzePersistsResultsAndRisk(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)
	c := uploadContract(t, svc)

	updated, err := svc.Analyze(context.Background(), c.ID, admin, []types.Language{types.LangEnglish})
	require.NoError(t, err)
	assert.Equal(t, types.RiskMedium, updated.RiskLevel)
	require.Contains(t, updated.Analysis, types.LangEnglish)

	persisted, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Analysis, persisted.Analysis)
}

func TestAnalyzeEnrichesDeadlineInBackground(t *testing.T) {
	store := newFakeStore()
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(store, nil, &fakeResolver{date: &date})
	c := uploadContract(t, svc)

	_, err := svc.Analyze(context.Background(), c.ID, admin, nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		d := store.deadlineOf(c.ID)
		return d != nil && d.Equal(date)
	}, time.Second, 10*time.Millisecond)
}

func TestDeadlineNeverDowngraded(t *testing.T) {
	store := newFakeStore()
	original := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(store, nil, &fakeResolver{date: &later})
	c := uploadContract(t, svc)

	// Pre-existing concrete deadline.
	store.mu.Lock()
	store.contracts[c.ID].Deadline = &original
	store.mu.Unlock()

	_, err := svc.Analyze(context.Background(), c.ID, admin, nil)
	require.NoError(t, err)

	// Give the background enrichment a moment; it must not replace anything.
	time.Sleep(50 * time.Millisecond)
	d := store.deadlineOf(c.ID)
	require.NotNil(t, d)
	assert.True(t, d.Equal(original))
}

func TestApproveRecordsDefaultComment(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)
	c := uploadContract(t, svc)

	_, err := svc.Analyze(context.Background(), c.ID, admin, nil)
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), c.ID, admin, "")
	require.NoError(t, err)
	assert.Equal(t, types.StatusApproved, approved.Status)
	assert.NotEmpty(t, approved.ApprovalComment)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, admin.ID, *approved.ApprovedBy)
}

func TestRejectFromReviewedKeepsComment(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)
	c := uploadContract(t, svc)

	_, err := svc.Analyze(context.Background(), c.ID, admin, nil)
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), c.ID, admin, "missing signatures")
	require.NoError(t, err)
	assert.Equal(t, "missing signatures", rejected.ApprovalComment)
}

func TestDecisionOnTerminalContractFails(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)
	c := uploadContract(t, svc)

	_, err := svc.Analyze(context.Background(), c.ID, admin, nil)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), c.ID, admin, "")
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), c.ID, admin, "too late")
	assert.ErrorIs(t, err, types.ErrInvalidTransition)
}

func TestConcurrentModificationSurfacesConflict(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, nil)
	c := uploadContract(t, svc)

	// A concurrent writer gets there between our read and our write.
	store.mu.Lock()
	store.contracts[c.ID].UpdatedAt = store.contracts[c.ID].UpdatedAt.Add(time.Second)
	store.mu.Unlock()

	stale := *c
	err := store.UpdateGuarded(context.Background(), &stale, c.UpdatedAt)
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestGetUnknownContract(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, nil)
	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
