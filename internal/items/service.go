package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
)

// ItemRepository defines the persistence surface required by the item service.
type ItemRepository interface {
	WithTx(tx *gorm.DB) ItemRepository
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
	Save(ctx context.Context, item *models.Item) (*models.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes prize item operations.
type Service interface {
	Create(ctx context.Context, input CreateItemInput) (*models.Item, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
	Update(ctx context.Context, id uuid.UUID, patch ItemPatch) (*models.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo ItemRepository
}

// NewService builds an item service backed by the provided repository.
func NewService(repo ItemRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{repo: repo}, nil
}

// CreateItemInput captures the payload required to register a prize item.
type CreateItemInput struct {
	Name           string
	Summary        *string
	Value          decimal.Decimal
	Highlights     []string
	Specifications *string
	Features       *string
	Thumbnail      *string
	Images         []string
}

// ItemPatch carries per-field updates; nil fields keep their stored value.
type ItemPatch struct {
	Name           *string
	Summary        *string
	Value          *decimal.Decimal
	Highlights     *[]string
	Specifications *string
	Features       *string
	Thumbnail      *string
	Images         *[]string
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item value must be non-negative")
	}

	item := &models.Item{
		Name:           input.Name,
		Summary:        input.Summary,
		Value:          input.Value,
		Highlights:     input.Highlights,
		Specifications: input.Specifications,
		Features:       input.Features,
		Thumbnail:      input.Thumbnail,
		Images:         input.Images,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context) ([]models.Item, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, patch ItemPatch) (*models.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		item.Name = *patch.Name
	}
	if patch.Summary != nil {
		item.Summary = patch.Summary
	}
	if patch.Value != nil {
		if patch.Value.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item value must be non-negative")
		}
		item.Value = *patch.Value
	}
	if patch.Highlights != nil {
		item.Highlights = *patch.Highlights
	}
	if patch.Specifications != nil {
		item.Specifications = patch.Specifications
	}
	if patch.Features != nil {
		item.Features = patch.Features
	}
	if patch.Thumbnail != nil {
		item.Thumbnail = patch.Thumbnail
	}
	if patch.Images != nil {
		item.Images = *patch.Images
	}

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save item")
	}
	return saved, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
	}
	return nil
}
