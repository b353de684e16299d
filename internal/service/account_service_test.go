package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/repository"
	"github.com/knaito/nippo/internal/testutil"
)

func newAccountFixture(t *testing.T) (AccountService, repository.WorkTypeRepo, repository.WorkItemRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	accounts := repository.NewSQLiteAccountRepo(database)
	wtRepo := repository.NewSQLiteWorkTypeRepo(database)
	itemRepo := repository.NewSQLiteWorkItemRepo(database)
	return NewAccountService(accounts, itemRepo), wtRepo, itemRepo
}

func TestAccountService_EnsureAdminIsIdempotent(t *testing.T) {
	svc, _, _ := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "changeme"))
	require.NoError(t, svc.EnsureAdmin(ctx, "other-password"))

	admin, err := svc.GetByUsername(ctx, domain.AdminUsername)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.Equal(t, "changeme", admin.Password, "seeding must not overwrite an existing admin")
}

func TestAccountService_AdminCannotBeDeletedOrDemoted(t *testing.T) {
	svc, _, _ := newAccountFixture(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureAdmin(ctx, "changeme"))

	assert.ErrorIs(t, svc.Delete(ctx, domain.AdminUsername), ErrAdminImmutable)

	admin, err := svc.GetByUsername(ctx, domain.AdminUsername)
	require.NoError(t, err)
	admin.Role = domain.RoleUser
	assert.ErrorIs(t, svc.Update(ctx, admin), ErrAdminImmutable)
}

func TestAccountService_Authenticate(t *testing.T) {
	svc, _, _ := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, testutil.NewTestAccount("alice")))

	got, err := svc.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAccountService_CreateRejectsDuplicates(t *testing.T) {
	svc, _, _ := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, testutil.NewTestAccount("alice")))
	err := svc.Create(ctx, testutil.NewTestAccount("alice"))
	assert.Error(t, err)
}

func TestAccountService_VisibleItemsAppliesCategoryScope(t *testing.T) {
	svc, wtRepo, itemRepo := newAccountFixture(t)
	ctx := context.Background()

	wt := testutil.NewTestWorkType("machining")
	require.NoError(t, wtRepo.Create(ctx, wt))

	visible := testutil.NewTestWorkItem(wt.ID, "design", testutil.WithItemCategories("engineering"))
	hidden := testutil.NewTestWorkItem(wt.ID, "audit",
		testutil.WithItemCategories("finance"), testutil.WithPosition(1))
	uncategorized := testutil.NewTestWorkItem(wt.ID, "cleanup", testutil.WithPosition(2))
	for _, w := range []*domain.WorkItem{visible, hidden, uncategorized} {
		require.NoError(t, itemRepo.Create(ctx, w))
	}

	require.NoError(t, svc.Create(ctx, testutil.NewTestAccount("alice", testutil.WithCategories("engineering"))))
	require.NoError(t, svc.Create(ctx, testutil.NewTestAccount("root", testutil.WithRole(domain.RoleAdmin))))

	items, err := svc.VisibleItems(ctx, "alice", wt.ID)
	require.NoError(t, err)
	names := itemNames(items)
	assert.Contains(t, names, "design")
	assert.Contains(t, names, "cleanup", "uncategorized items stay visible")
	assert.NotContains(t, names, "audit")

	all, err := svc.VisibleItems(ctx, "root", wt.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func itemNames(items []*domain.WorkItem) []string {
	names := make([]string, len(items))
	for i, w := range items {
		names[i] = w.Name
	}
	return names
}
