package items

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
)

type stubItemRepo struct {
	item  *models.Item
	items []models.Item
	err   error

	created *models.Item
	saved   *models.Item
	deleted uuid.UUID
}

func (s *stubItemRepo) WithTx(tx *gorm.DB) ItemRepository {
	return s
}

func (s *stubItemRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = item
	return item, nil
}

func (s *stubItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.item == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.item, nil
}

func (s *stubItemRepo) List(ctx context.Context) ([]models.Item, error) {
	return s.items, s.err
}

func (s *stubItemRepo) Save(ctx context.Context, item *models.Item) (*models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = item
	return item, nil
}

func (s *stubItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = id
	return s.err
}

func TestCreateRequiresName(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubItemRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateItemInput{Value: decimal.NewFromInt(10)})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsNegativeValue(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubItemRepo{})

	_, err := svc.Create(context.Background(), CreateItemInput{
		Name:  "Nyx Prize",
		Value: decimal.NewFromInt(-1),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePersistsItem(t *testing.T) {
	t.Parallel()

	repo := &stubItemRepo{}
	svc, _ := NewService(repo)

	summary := "limited run"
	item, err := svc.Create(context.Background(), CreateItemInput{
		Name:       "Nyx Prize",
		Summary:    &summary,
		Value:      decimal.RequireFromString("1500.00"),
		Highlights: []string{"rare"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if repo.created == nil || repo.created.Name != "Nyx Prize" {
		t.Fatalf("item not persisted: %+v", repo.created)
	}
	if !item.Value.Equal(decimal.RequireFromString("1500.00")) {
		t.Fatalf("unexpected value: %s", item.Value)
	}
}

func TestGetMapsNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubItemRepo{})

	_, err := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	t.Parallel()

	stored := &models.Item{
		ID:    uuid.New(),
		Name:  "Nyx Prize",
		Value: decimal.NewFromInt(100),
	}
	repo := &stubItemRepo{item: stored}
	svc, _ := NewService(repo)

	newValue := decimal.NewFromInt(250)
	updated, err := svc.Update(context.Background(), stored.ID, ItemPatch{Value: &newValue})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Nyx Prize" {
		t.Fatalf("name should be unchanged, got %q", updated.Name)
	}
	if !updated.Value.Equal(newValue) {
		t.Fatalf("value not updated: %s", updated.Value)
	}
	if repo.saved == nil {
		t.Fatal("expected save call")
	}
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	t.Parallel()

	stored := &models.Item{ID: uuid.New(), Name: "Nyx Prize", Value: decimal.NewFromInt(100)}
	svc, _ := NewService(&stubItemRepo{item: stored})

	empty := ""
	_, err := svc.Update(context.Background(), stored.ID, ItemPatch{Name: &empty})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteChecksExistence(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubItemRepo{})

	err := svc.Delete(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteRemovesItem(t *testing.T) {
	t.Parallel()

	stored := &models.Item{ID: uuid.New(), Name: "Nyx Prize", Value: decimal.NewFromInt(100)}
	repo := &stubItemRepo{item: stored}
	svc, _ := NewService(repo)

	if err := svc.Delete(context.Background(), stored.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deleted != stored.ID {
		t.Fatalf("unexpected deleted id: %s", repo.deleted)
	}
}
