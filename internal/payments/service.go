package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	"github.com/nyxoasis/oasis-backend/pkg/enums"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
)

// PaymentRepository defines the persistence surface required by the service.
type PaymentRepository interface {
	WithTx(tx *gorm.DB) PaymentRepository
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindByIDAndBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Payment, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Payment, error)
	Save(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes ledger reads plus administrative corrections.
type Service interface {
	History(ctx context.Context, buyerID uuid.UUID) ([]models.Payment, error)
	Get(ctx context.Context, id, buyerID uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, id uuid.UUID, patch PaymentPatch) (*models.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo PaymentRepository
}

// NewService builds a payment service backed by the provided repository.
func NewService(repo PaymentRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	return &service{repo: repo}, nil
}

// PaymentPatch carries per-field corrections; nil fields keep their value.
type PaymentPatch struct {
	AmountPaid *decimal.Decimal
	Processor  *enums.PaymentProcessor
}

func (s *service) History(ctx context.Context, buyerID uuid.UUID) ([]models.Payment, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	rows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payments")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id, buyerID uuid.UUID) (*models.Payment, error) {
	row, err := s.repo.FindByIDAndBuyer(ctx, id, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, patch PaymentPatch) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
	}

	if patch.AmountPaid != nil {
		if patch.AmountPaid.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount paid must be non-negative")
		}
		payment.AmountPaid = *patch.AmountPaid
	}
	if patch.Processor != nil {
		if !patch.Processor.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment processor")
		}
		payment.Processor = *patch.Processor
	}

	saved, err := s.repo.Save(ctx, payment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save payment")
	}
	return saved, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete payment")
	}
	return nil
}
