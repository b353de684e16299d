package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/hierarchy"
	"github.com/knaito/nippo/internal/repository"
)

type accountService struct {
	accounts  repository.AccountRepo
	workItems repository.WorkItemRepo
}

func NewAccountService(accounts repository.AccountRepo, workItems repository.WorkItemRepo) AccountService {
	return &accountService{accounts: accounts, workItems: workItems}
}

func (s *accountService) Create(ctx context.Context, a *domain.Account) error {
	if a.Username == "" {
		return fmt.Errorf("username must not be empty")
	}
	if a.Password == "" {
		return fmt.Errorf("password must not be empty")
	}
	if a.Role == "" {
		a.Role = domain.RoleUser
	}
	if a.Role != domain.RoleAdmin && a.Role != domain.RoleUser {
		return fmt.Errorf("unknown role %q", a.Role)
	}
	if _, err := s.accounts.GetByUsername(ctx, a.Username); err == nil {
		return fmt.Errorf("account %q already exists", a.Username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.accounts.Create(ctx, a)
}

func (s *accountService) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	a, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(a.Password), []byte(password)) != 1 {
		return nil, ErrBadCredentials
	}
	return a, nil
}

func (s *accountService) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.accounts.GetByUsername(ctx, username)
}

func (s *accountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *accountService) Update(ctx context.Context, a *domain.Account) error {
	if a.Username == domain.AdminUsername && a.Role != domain.RoleAdmin {
		return ErrAdminImmutable
	}
	a.UpdatedAt = time.Now().UTC()
	return s.accounts.Update(ctx, a)
}

func (s *accountService) Delete(ctx context.Context, username string) error {
	if username == domain.AdminUsername {
		return ErrAdminImmutable
	}
	return s.accounts.Delete(ctx, username)
}

func (s *accountService) EnsureAdmin(ctx context.Context, password string) error {
	_, err := s.accounts.GetByUsername(ctx, domain.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	now := time.Now().UTC()
	return s.accounts.Create(ctx, &domain.Account{
		Username:  domain.AdminUsername,
		Password:  password,
		Role:      domain.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// VisibleItems narrows a work type's item list to what the account's
// category scope lets it see. Admins and "all"-scoped users get the whole
// hierarchically ordered list.
func (s *accountService) VisibleItems(ctx context.Context, username, workTypeID string) ([]*domain.WorkItem, error) {
	a, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	items, err := s.workItems.ListByWorkType(ctx, workTypeID)
	if err != nil {
		return nil, err
	}
	tree, err := hierarchy.Build(items)
	if err != nil {
		return nil, err
	}
	if a.CanSeeAll() {
		return tree.DepthFirstOrder(), nil
	}
	return tree.FilterForCategories(a.Categories), nil
}
