package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/knaito/nippo/internal/db"
	"github.com/knaito/nippo/internal/domain"
	"github.com/knaito/nippo/internal/hierarchy"
	"github.com/knaito/nippo/internal/repository"
)

type workItemService struct {
	workItems repository.WorkItemRepo
	workTypes repository.WorkTypeRepo
	uow       db.UnitOfWork
}

func NewWorkItemService(workItems repository.WorkItemRepo, workTypes repository.WorkTypeRepo, uow db.UnitOfWork) WorkItemService {
	return &workItemService{workItems: workItems, workTypes: workTypes, uow: uow}
}

func (s *workItemService) Create(ctx context.Context, w *domain.WorkItem) error {
	if err := s.validate(ctx, w); err != nil {
		return err
	}
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	pos, err := s.workItems.NextPosition(ctx, w.WorkTypeID)
	if err != nil {
		return err
	}
	w.Position = pos
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	if err := s.autofillLeadtime(ctx, w); err != nil {
		return err
	}
	return s.workItems.Create(ctx, w)
}

func (s *workItemService) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.workItems.GetByID(ctx, id)
}

func (s *workItemService) ListByWorkType(ctx context.Context, workTypeID string) ([]*domain.WorkItem, error) {
	return s.workItems.ListByWorkType(ctx, workTypeID)
}

func (s *workItemService) Tree(ctx context.Context, workTypeID string) (*hierarchy.Tree, error) {
	items, err := s.workItems.ListByWorkType(ctx, workTypeID)
	if err != nil {
		return nil, err
	}
	return hierarchy.Build(items)
}

func (s *workItemService) Update(ctx context.Context, w *domain.WorkItem) error {
	if err := s.validate(ctx, w); err != nil {
		return err
	}
	w.UpdatedAt = time.Now().UTC()
	if err := s.autofillLeadtime(ctx, w); err != nil {
		return err
	}
	return s.workItems.Update(ctx, w)
}

// Delete removes the item and its whole descendant closure in one
// transaction. The parent_id cascade in the schema is a backstop; computing
// the closure here lets the caller report how many items went away.
func (s *workItemService) Delete(ctx context.Context, id string) (int, error) {
	item, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	tree, err := s.Tree(ctx, item.WorkTypeID)
	if err != nil {
		return 0, err
	}
	ids := append([]string{id}, tree.DescendantIDs(id)...)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteWorkItemRepo(tx).DeleteMany(ctx, ids)
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *workItemService) PredecessorCandidates(ctx context.Context, itemID string) ([]hierarchy.Predecessor, error) {
	item, err := s.workItems.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	tree, err := s.Tree(ctx, item.WorkTypeID)
	if err != nil {
		return nil, err
	}
	return tree.Candidates(itemID), nil
}

func (s *workItemService) ImmediatePrevious(ctx context.Context, itemID string) (*hierarchy.Predecessor, error) {
	item, err := s.workItems.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	tree, err := s.Tree(ctx, item.WorkTypeID)
	if err != nil {
		return nil, err
	}
	prev, ok := tree.ImmediatePrevious(itemID)
	if !ok {
		return nil, nil
	}
	return &prev, nil
}

// validate enforces the structural invariants: the work type exists, the
// parent (if any) lives in the same work type one level up, and the tree
// never grows past MaxLevel.
func (s *workItemService) validate(ctx context.Context, w *domain.WorkItem) error {
	if w.Name == "" {
		return &hierarchy.ValidationError{ItemID: w.ID, Reason: "name must not be empty"}
	}
	if _, err := s.workTypes.GetByID(ctx, w.WorkTypeID); err != nil {
		return err
	}
	if !domain.ValidAttributes[string(w.Attribute)] {
		return &hierarchy.ValidationError{ItemID: w.ID, Reason: "unknown attribute " + string(w.Attribute)}
	}
	if w.Attribute != domain.AttributeCycleTime {
		w.TargetMinutes = nil
	}

	if w.ParentID == nil {
		w.Level = 1
		return nil
	}
	parent, err := s.workItems.GetByID(ctx, *w.ParentID)
	if err != nil {
		return err
	}
	if parent.WorkTypeID != w.WorkTypeID {
		return &hierarchy.ValidationError{ItemID: w.ID, Reason: "parent belongs to a different work type"}
	}
	if parent.Level >= domain.MaxLevel {
		return &hierarchy.ValidationError{ItemID: w.ID, Reason: "parent is already at the deepest level"}
	}
	w.Level = parent.Level + 1
	return nil
}

// autofillLeadtime defaults an enabled lead-time flag with no target to the
// immediately previous leaf, mirroring the toggle behavior of the report
// master screen. Disabled flags drop their targets.
func (s *workItemService) autofillLeadtime(ctx context.Context, w *domain.WorkItem) error {
	if !w.InternalLeadtime {
		w.InternalLeadtimeItems = nil
	}
	if !w.ExternalLeadtime {
		w.ExternalLeadtimeItems = nil
	}
	if (!w.InternalLeadtime || len(w.InternalLeadtimeItems) > 0) &&
		(!w.ExternalLeadtime || len(w.ExternalLeadtimeItems) > 0) {
		return nil
	}

	items, err := s.workItems.ListByWorkType(ctx, w.WorkTypeID)
	if err != nil {
		return err
	}
	// On update the stored row must reflect the incoming state; on create
	// the item is not persisted yet and joins the snapshot at the end.
	found := false
	for i, item := range items {
		if item.ID == w.ID {
			items[i] = w
			found = true
		}
	}
	if !found {
		items = append(items, w)
	}
	tree, err := hierarchy.Build(items)
	if err != nil {
		return err
	}
	prev, ok := tree.ImmediatePrevious(w.ID)
	if !ok {
		return nil
	}
	if w.InternalLeadtime && len(w.InternalLeadtimeItems) == 0 {
		w.InternalLeadtimeItems = []string{prev.ID}
	}
	if w.ExternalLeadtime && len(w.ExternalLeadtimeItems) == 0 {
		w.ExternalLeadtimeItems = []string{prev.ID}
	}
	return nil
}
