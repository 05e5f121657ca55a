package tickets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
)

// TicketRepository defines the persistence surface required by the service.
type TicketRepository interface {
	WithTx(tx *gorm.DB) TicketRepository
	Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	FindByIDAndBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Ticket, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Ticket, error)
	ListByBuyerAndNyxcipher(ctx context.Context, buyerID, nyxcipherID uuid.UUID) ([]models.Ticket, error)
	Save(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	StampPayment(ctx context.Context, id, paymentID uuid.UUID, numbers pq.Int64Array) error
	DeleteUnpaid(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type drawLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Nyxcipher, error)
}

// Service exposes buyer-scoped ticket reads plus administrative writes.
type Service interface {
	Get(ctx context.Context, id, buyerID uuid.UUID) (*models.Ticket, error)
	List(ctx context.Context, buyerID uuid.UUID) ([]models.Ticket, error)
	ListForNyxcipher(ctx context.Context, buyerID, nyxcipherID uuid.UUID) ([]models.Ticket, error)
	Save(ctx context.Context, input CreateTicketInput) (*models.Ticket, error)
	Update(ctx context.Context, id uuid.UUID, patch TicketPatch) (*models.Ticket, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  TicketRepository
	draws drawLoader
}

// NewService builds a ticket service backed by the provided stack.
func NewService(repo TicketRepository, draws drawLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ticket repository required")
	}
	if draws == nil {
		return nil, fmt.Errorf("draw loader required")
	}
	return &service{repo: repo, draws: draws}, nil
}

// CreateTicketInput captures the payload for directly registering a ticket.
type CreateTicketInput struct {
	NyxcipherID uuid.UUID
	BuyerID     uuid.UUID
	TicketCount int
	TicketPrice decimal.Decimal
}

// TicketPatch carries per-field updates; nil fields keep their stored value.
type TicketPatch struct {
	TicketCount *int
	TicketPrice *decimal.Decimal
}

func (s *service) Get(ctx context.Context, id, buyerID uuid.UUID) (*models.Ticket, error) {
	row, err := s.repo.FindByIDAndBuyer(ctx, id, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ticket")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, buyerID uuid.UUID) ([]models.Ticket, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	rows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tickets")
	}
	return rows, nil
}

func (s *service) ListForNyxcipher(ctx context.Context, buyerID, nyxcipherID uuid.UUID) ([]models.Ticket, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	if _, err := s.draws.Get(ctx, nyxcipherID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByBuyerAndNyxcipher(ctx, buyerID, nyxcipherID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list nyxcipher tickets")
	}
	return rows, nil
}

func (s *service) Save(ctx context.Context, input CreateTicketInput) (*models.Ticket, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	if input.TicketCount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket count must be positive")
	}
	if input.TicketPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket price must be non-negative")
	}
	if _, err := s.draws.Get(ctx, input.NyxcipherID); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		NyxcipherID: input.NyxcipherID,
		BuyerID:     input.BuyerID,
		TicketCount: input.TicketCount,
		TicketPrice: input.TicketPrice,
	}
	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create ticket")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, patch TicketPatch) (*models.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ticket")
	}
	if ticket.PaymentID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "paid tickets are immutable")
	}

	if patch.TicketCount != nil {
		if *patch.TicketCount <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket count must be positive")
		}
		ticket.TicketCount = *patch.TicketCount
	}
	if patch.TicketPrice != nil {
		if patch.TicketPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket price must be non-negative")
		}
		ticket.TicketPrice = *patch.TicketPrice
	}

	saved, err := s.repo.Save(ctx, ticket)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save ticket")
	}
	return saved, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ticket")
	}
	if ticket.PaymentID != nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "paid tickets cannot be deleted")
	}
	if err := s.repo.DeleteUnpaid(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete ticket")
	}
	return nil
}
