package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/testutil"
)

func TestWorkItemRepo_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	wtRepo := NewSQLiteWorkTypeRepo(db)
	repo := NewSQLiteWorkItemRepo(db)

	wt := testutil.NewTestWorkType("machining")
	require.NoError(t, wtRepo.Create(ctx, wt))

	item := testutil.NewTestWorkItem(wt.ID, "design",
		testutil.WithCycleTime(90),
		testutil.WithChecklist("drawing approved", "tolerance checked"),
		testutil.WithMethod("CAD"),
		testutil.WithItemCategories("engineering"),
		testutil.WithLeafOverride(true),
	)
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, domain.AttributeCycleTime, got.Attribute)
	require.NotNil(t, got.TargetMinutes)
	assert.Equal(t, 90, *got.TargetMinutes)
	assert.Equal(t, []string{"drawing approved", "tolerance checked"}, got.Checklist)
	assert.Equal(t, []string{"CAD"}, got.Method)
	assert.Equal(t, []string{"engineering"}, got.Categories)
	require.NotNil(t, got.LeafOverride)
	assert.True(t, *got.LeafOverride)
	assert.Nil(t, got.ParentID)
}

func TestWorkItemRepo_ListByWorkTypePreservesRegistrationOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	wtRepo := NewSQLiteWorkTypeRepo(db)
	repo := NewSQLiteWorkItemRepo(db)

	wt := testutil.NewTestWorkType("assembly")
	require.NoError(t, wtRepo.Create(ctx, wt))

	names := []string{"frame", "wiring", "inspection"}
	for _, name := range names {
		pos, err := repo.NextPosition(ctx, wt.ID)
		require.NoError(t, err)
		item := testutil.NewTestWorkItem(wt.ID, name, testutil.WithPosition(pos))
		require.NoError(t, repo.Create(ctx, item))
	}

	items, err := repo.ListByWorkType(ctx, wt.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, names[i], item.Name)
		assert.Equal(t, i, item.Position)
	}
}

func TestWorkItemRepo_NextPositionStartsAtZero(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	wtRepo := NewSQLiteWorkTypeRepo(db)
	repo := NewSQLiteWorkItemRepo(db)

	wt := testutil.NewTestWorkType("empty")
	require.NoError(t, wtRepo.Create(ctx, wt))

	pos, err := repo.NextPosition(ctx, wt.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestWorkItemRepo_ParentChildLinkSurvivesRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	wtRepo := NewSQLiteWorkTypeRepo(db)
	repo := NewSQLiteWorkItemRepo(db)

	wt := testutil.NewTestWorkType("machining")
	require.NoError(t, wtRepo.Create(ctx, wt))

	parent := testutil.NewTestWorkItem(wt.ID, "milling")
	require.NoError(t, repo.Create(ctx, parent))
	child := testutil.NewTestWorkItem(wt.ID, "rough cut",
		testutil.WithParent(parent), testutil.WithPosition(1))
	require.NoError(t, repo.Create(ctx, child))

	got, err := repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parent.ID, *got.ParentID)
	assert.Equal(t, 2, got.Level)
}

func TestWorkItemRepo_DeleteMany(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	wtRepo := NewSQLiteWorkTypeRepo(db)
	repo := NewSQLiteWorkItemRepo(db)

	wt := testutil.NewTestWorkType("machining")
	require.NoError(t, wtRepo.Create(ctx, wt))

	a := testutil.NewTestWorkItem(wt.ID, "a")
	b := testutil.NewTestWorkItem(wt.ID, "b", testutil.WithParent(a), testutil.WithPosition(1))
	c := testutil.NewTestWorkItem(wt.ID, "c", testutil.WithPosition(2))
	for _, item := range []*domain.WorkItem{a, b, c} {
		require.NoError(t, repo.Create(ctx, item))
	}

	require.NoError(t, repo.DeleteMany(ctx, []string{a.ID, b.ID}))

	_, err := repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	survivor, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "c", survivor.Name)
}

func TestWorkItemRepo_DeleteManyEmptyIsNoop(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)
	require.NoError(t, repo.DeleteMany(context.Background(), nil))
}

func TestWorkItemRepo_UpdateKeepsRegistrationOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	wtRepo := NewSQLiteWorkTypeRepo(db)
	repo := NewSQLiteWorkItemRepo(db)

	wt := testutil.NewTestWorkType("assembly")
	require.NoError(t, wtRepo.Create(ctx, wt))

	a := testutil.NewTestWorkItem(wt.ID, "a", testutil.WithPosition(0))
	b := testutil.NewTestWorkItem(wt.ID, "b", testutil.WithPosition(1))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	// Field edits on an earlier item must not disturb the flat-list order
	// later items' predecessor derivation depends on.
	a.Name = "a renamed"
	a.Checklist = []string{"wipe down"}
	require.NoError(t, repo.Update(ctx, a))

	items, err := repo.ListByWorkType(ctx, wt.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a renamed", items[0].Name)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, "b", items[1].Name)
	assert.Equal(t, 1, items[1].Position)
}

func TestWorkItemRepo_GetByIDNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWorkItemRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWorkItemRepo_UpdatePersistsLeadtimeFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	wtRepo := NewSQLiteWorkTypeRepo(db)
	repo := NewSQLiteWorkItemRepo(db)

	wt := testutil.NewTestWorkType("machining")
	require.NoError(t, wtRepo.Create(ctx, wt))

	pred := testutil.NewTestWorkItem(wt.ID, "casting")
	item := testutil.NewTestWorkItem(wt.ID, "finishing", testutil.WithPosition(1))
	require.NoError(t, repo.Create(ctx, pred))
	require.NoError(t, repo.Create(ctx, item))

	item.InternalLeadtime = true
	item.InternalLeadtimeItems = []string{pred.ID}
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.InternalLeadtime)
	assert.Equal(t, []string{pred.ID}, got.InternalLeadtimeItems)
	assert.False(t, got.ExternalLeadtime)
	assert.Empty(t, got.ExternalLeadtimeItems)
}
