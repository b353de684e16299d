package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/hierarchy"
	"github.com/knaito/nippo/internal/repository"
	"github.com/knaito/nippo/internal/testutil"
)

func newWorkItemFixture(t *testing.T) (WorkItemService, *domain.WorkType, repository.WorkItemRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	wtRepo := repository.NewSQLiteWorkTypeRepo(database)
	itemRepo := repository.NewSQLiteWorkItemRepo(database)
	svc := NewWorkItemService(itemRepo, wtRepo, testutil.NewTestUoW(database))

	wt := testutil.NewTestWorkType("machining")
	require.NoError(t, wtRepo.Create(context.Background(), wt))
	return svc, wt, itemRepo
}

func TestWorkItemService_CreateAssignsIDPositionAndLevel(t *testing.T) {
	svc, wt, _ := newWorkItemFixture(t)
	ctx := context.Background()

	first := &domain.WorkItem{WorkTypeID: wt.ID, Name: "design"}
	require.NoError(t, svc.Create(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, first.Level)

	child := &domain.WorkItem{WorkTypeID: wt.ID, Name: "draft", ParentID: &first.ID}
	require.NoError(t, svc.Create(ctx, child))
	assert.Equal(t, 1, child.Position)
	assert.Equal(t, 2, child.Level, "level derives from the parent")
}

func TestWorkItemService_CreateRejectsForeignParent(t *testing.T) {
	svc, wt, _ := newWorkItemFixture(t)
	ctx := context.Background()

	other := &domain.WorkItem{WorkTypeID: wt.ID, Name: "root"}
	require.NoError(t, svc.Create(ctx, other))

	otherWT, err := NewWorkTypeService(repositoryWorkTypes(t, svc)).Create(ctx, "assembly")
	require.NoError(t, err)

	stray := &domain.WorkItem{WorkTypeID: otherWT.ID, Name: "stray", ParentID: &other.ID}
	err = svc.Create(ctx, stray)
	var verr *hierarchy.ValidationError
	require.ErrorAs(t, err, &verr)
}

// repositoryWorkTypes digs the work-type repo back out for cross-service
// fixtures sharing one database.
func repositoryWorkTypes(t *testing.T, svc WorkItemService) repository.WorkTypeRepo {
	t.Helper()
	impl, ok := svc.(*workItemService)
	require.True(t, ok)
	return impl.workTypes
}

func TestWorkItemService_CreateRejectsDepthBeyondMax(t *testing.T) {
	svc, wt, _ := newWorkItemFixture(t)
	ctx := context.Background()

	parent := &domain.WorkItem{WorkTypeID: wt.ID, Name: "level1"}
	require.NoError(t, svc.Create(ctx, parent))
	for i := 2; i <= domain.MaxLevel; i++ {
		next := &domain.WorkItem{WorkTypeID: wt.ID, Name: "deeper", ParentID: &parent.ID}
		require.NoError(t, svc.Create(ctx, next))
		parent = next
	}

	tooDeep := &domain.WorkItem{WorkTypeID: wt.ID, Name: "level5", ParentID: &parent.ID}
	err := svc.Create(ctx, tooDeep)
	var verr *hierarchy.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestWorkItemService_NonCycleTimeDropsTarget(t *testing.T) {
	svc, wt, _ := newWorkItemFixture(t)
	ctx := context.Background()

	target := 30
	w := &domain.WorkItem{WorkTypeID: wt.ID, Name: "inspect", Attribute: domain.AttributeTiming, TargetMinutes: &target}
	require.NoError(t, svc.Create(ctx, w))
	assert.Nil(t, w.TargetMinutes)
}

func TestWorkItemService_DeleteRemovesSubtreeAndReportsCount(t *testing.T) {
	svc, wt, itemRepo := newWorkItemFixture(t)
	ctx := context.Background()

	root := &domain.WorkItem{WorkTypeID: wt.ID, Name: "milling"}
	require.NoError(t, svc.Create(ctx, root))
	child := &domain.WorkItem{WorkTypeID: wt.ID, Name: "rough", ParentID: &root.ID}
	require.NoError(t, svc.Create(ctx, child))
	grandchild := &domain.WorkItem{WorkTypeID: wt.ID, Name: "first pass", ParentID: &child.ID}
	require.NoError(t, svc.Create(ctx, grandchild))
	bystander := &domain.WorkItem{WorkTypeID: wt.ID, Name: "deburr"}
	require.NoError(t, svc.Create(ctx, bystander))

	n, err := svc.Delete(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = itemRepo.GetByID(ctx, grandchild.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = itemRepo.GetByID(ctx, bystander.ID)
	assert.NoError(t, err)
}

func TestWorkItemService_LeadtimeAutofillsImmediatePrevious(t *testing.T) {
	svc, wt, _ := newWorkItemFixture(t)
	ctx := context.Background()

	first := &domain.WorkItem{WorkTypeID: wt.ID, Name: "casting"}
	require.NoError(t, svc.Create(ctx, first))

	second := &domain.WorkItem{WorkTypeID: wt.ID, Name: "finishing", InternalLeadtime: true}
	require.NoError(t, svc.Create(ctx, second))
	assert.Equal(t, []string{first.ID}, second.InternalLeadtimeItems)
}

func TestWorkItemService_RegistrationOrderIsAppendOnly(t *testing.T) {
	svc, wt, _ := newWorkItemFixture(t)
	ctx := context.Background()

	first := &domain.WorkItem{WorkTypeID: wt.ID, Name: "casting"}
	require.NoError(t, svc.Create(ctx, first))
	second := &domain.WorkItem{WorkTypeID: wt.ID, Name: "finishing", InternalLeadtime: true}
	require.NoError(t, svc.Create(ctx, second))
	third := &domain.WorkItem{WorkTypeID: wt.ID, Name: "inspection"}
	require.NoError(t, svc.Create(ctx, third))

	// Editing an item must not move it: the auto-filled predecessor is
	// only valid while its item stays earlier in registration order.
	first.Name = "casting v2"
	require.NoError(t, svc.Update(ctx, first))

	items, err := svc.ListByWorkType(ctx, wt.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, w := range items {
		assert.Equal(t, i, w.Position)
	}
	assert.Equal(t, []string{items[0].ID}, items[1].InternalLeadtimeItems,
		"finishing's lead-time predecessor stays the earlier-registered item")
}

func TestWorkItemService_DisablingLeadtimeClearsTargets(t *testing.T) {
	svc, wt, _ := newWorkItemFixture(t)
	ctx := context.Background()

	first := &domain.WorkItem{WorkTypeID: wt.ID, Name: "casting"}
	require.NoError(t, svc.Create(ctx, first))
	second := &domain.WorkItem{WorkTypeID: wt.ID, Name: "finishing", InternalLeadtime: true}
	require.NoError(t, svc.Create(ctx, second))
	require.NotEmpty(t, second.InternalLeadtimeItems)

	second.InternalLeadtime = false
	require.NoError(t, svc.Update(ctx, second))
	assert.Empty(t, second.InternalLeadtimeItems)
}

func TestWorkItemService_PredecessorCandidatesExposed(t *testing.T) {
	svc, wt, _ := newWorkItemFixture(t)
	ctx := context.Background()

	design := &domain.WorkItem{WorkTypeID: wt.ID, Name: "design"}
	require.NoError(t, svc.Create(ctx, design))
	build := &domain.WorkItem{WorkTypeID: wt.ID, Name: "build"}
	require.NoError(t, svc.Create(ctx, build))

	cands, err := svc.PredecessorCandidates(ctx, build.ID)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, design.ID, cands[0].ID)

	prev, err := svc.ImmediatePrevious(ctx, build.ID)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, design.ID, prev.ID)

	none, err := svc.ImmediatePrevious(ctx, design.ID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestWorkItemService_DeleteRollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	wtRepo := repository.NewSQLiteWorkTypeRepo(database)
	itemRepo := repository.NewSQLiteWorkItemRepo(database)

	wt := testutil.NewTestWorkType("machining")
	require.NoError(t, wtRepo.Create(ctx, wt))

	failing := &testutil.FailOnNthExecUoW{DB: database, FailOn: 1, Err: errors.New("disk full")}
	svc := NewWorkItemService(itemRepo, wtRepo, failing)

	// Creating through the plain path first.
	plain := NewWorkItemService(itemRepo, wtRepo, testutil.NewTestUoW(database))
	root := &domain.WorkItem{WorkTypeID: wt.ID, Name: "milling"}
	require.NoError(t, plain.Create(ctx, root))

	_, err := svc.Delete(ctx, root.ID)
	require.Error(t, err)

	_, err = itemRepo.GetByID(ctx, root.ID)
	assert.NoError(t, err, "failed delete must leave the item in place")
}
