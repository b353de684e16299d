package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/testutil"
)

func TestReportRepo_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteReportRepo(db)

	entry := domain.WorkItemEntry{
		WorkItemID:    "item-1",
		WorkTypeID:    "wt-1",
		Minutes:       testutil.IntPtr(45),
		TargetMinutes: testutil.IntPtr(60),
		Checklist: []domain.ChecklistMark{
			{Name: "drawing approved", Checked: true},
			{Name: "tolerance checked", Checked: false},
		},
	}
	rep := testutil.NewTestReport("alice", testutil.Date(2024, time.March, 5),
		testutil.WithEntry("proj-1", entry),
		testutil.WithEntry("proj-2"),
	)
	require.NoError(t, repo.Create(ctx, rep))

	got, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "2024-03-05", got.DateString())
	require.Len(t, got.Projects, 2)
	assert.Equal(t, "proj-1", got.Projects[0].ProjectID)
	require.Len(t, got.Projects[0].Items, 1)

	item := got.Projects[0].Items[0]
	assert.Equal(t, "item-1", item.WorkItemID)
	require.NotNil(t, item.Minutes)
	assert.Equal(t, 45, *item.Minutes)
	require.NotNil(t, item.TargetMinutes)
	assert.Equal(t, 60, *item.TargetMinutes)
	require.Len(t, item.Checklist, 2)
	assert.True(t, item.Checklist[0].Checked)
	assert.False(t, item.Checklist[1].Checked)

	assert.Empty(t, got.Projects[1].Items)
}

func TestReportRepo_GetByUserAndDate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteReportRepo(db)

	date := testutil.Date(2024, time.March, 5)
	rep := testutil.NewTestReport("alice", date)
	require.NoError(t, repo.Create(ctx, rep))

	got, err := repo.GetByUserAndDate(ctx, "alice", date)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)

	_, err = repo.GetByUserAndDate(ctx, "bob", date)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportRepo_ListByUserNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteReportRepo(db)

	for _, d := range []time.Time{
		testutil.Date(2024, time.March, 3),
		testutil.Date(2024, time.March, 7),
		testutil.Date(2024, time.March, 5),
	} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestReport("alice", d)))
	}
	require.NoError(t, repo.Create(ctx, testutil.NewTestReport("bob", testutil.Date(2024, time.March, 9))))

	reports, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "2024-03-07", reports[0].DateString())
	assert.Equal(t, "2024-03-05", reports[1].DateString())
	assert.Equal(t, "2024-03-03", reports[2].DateString())
}

func TestReportRepo_UpdateRewritesEntries(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteReportRepo(db)

	rep := testutil.NewTestReport("alice", testutil.Date(2024, time.March, 5),
		testutil.WithEntry("proj-1", domain.WorkItemEntry{WorkItemID: "old", WorkTypeID: "wt-1"}),
	)
	require.NoError(t, repo.Create(ctx, rep))

	rep.Projects = []domain.ProjectEntry{
		{ProjectID: "proj-2", Items: []domain.WorkItemEntry{{WorkItemID: "new", WorkTypeID: "wt-1"}}},
	}
	require.NoError(t, repo.Update(ctx, rep))

	got, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, "proj-2", got.Projects[0].ProjectID)
	require.Len(t, got.Projects[0].Items, 1)
	assert.Equal(t, "new", got.Projects[0].Items[0].WorkItemID)
}

func TestReportRepo_DeleteCascadesToEntries(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteReportRepo(db)

	rep := testutil.NewTestReport("alice", testutil.Date(2024, time.March, 5),
		testutil.WithEntry("proj-1", domain.WorkItemEntry{WorkItemID: "item-1", WorkTypeID: "wt-1"}),
	)
	require.NoError(t, repo.Create(ctx, rep))
	require.NoError(t, repo.Delete(ctx, rep.ID))

	_, err := repo.GetByID(ctx, rep.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM report_entries`).Scan(&count))
	assert.Zero(t, count)
}

func TestReportRepo_EntriesSurviveMasterDeletion(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	wtRepo := NewSQLiteWorkTypeRepo(db)
	itemRepo := NewSQLiteWorkItemRepo(db)
	repo := NewSQLiteReportRepo(db)

	wt := testutil.NewTestWorkType("machining")
	require.NoError(t, wtRepo.Create(ctx, wt))
	item := testutil.NewTestWorkItem(wt.ID, "design")
	require.NoError(t, itemRepo.Create(ctx, item))

	rep := testutil.NewTestReport("alice", testutil.Date(2024, time.March, 5),
		testutil.WithEntry("proj-1", testutil.NewTestEntry(item, testutil.IntPtr(30))),
	)
	require.NoError(t, repo.Create(ctx, rep))

	// Master rows go away; the report keeps its dangling reference.
	require.NoError(t, wtRepo.Delete(ctx, wt.ID))

	got, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	require.Len(t, got.Projects, 1)
	require.Len(t, got.Projects[0].Items, 1)
	assert.Equal(t, item.ID, got.Projects[0].Items[0].WorkItemID)
}
