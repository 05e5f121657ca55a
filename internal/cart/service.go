package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	"github.com/nyxoasis/oasis-backend/pkg/enums"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	CreateEntry(ctx context.Context, entry *models.CartEntry) (*models.CartEntry, error)
	FindEntryByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	DeleteUnpaidTicket(ctx context.Context, ticketID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type drawLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Nyxcipher, error)
}

// Service exposes cart staging operations.
type Service interface {
	AddEntry(ctx context.Context, userID uuid.UUID, input AddEntryInput) (*models.CartEntry, error)
	RemoveEntry(ctx context.Context, userID, entryID uuid.UUID) error
	ListEntries(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error)
}

type service struct {
	repo  CartRepository
	tx    txRunner
	draws drawLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, draws drawLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if draws == nil {
		return nil, fmt.Errorf("draw loader required")
	}
	return &service{repo: repo, tx: tx, draws: draws}, nil
}

// AddEntryInput captures the payload required to stage a ticket purchase.
type AddEntryInput struct {
	NyxcipherID uuid.UUID
	TicketCount int
}

// AddEntry stages a ticket purchase against an active draw. The unpaid ticket
// and the cart entry are created in one transaction; the ticket price is
// captured from the draw's item at this moment.
func (s *service) AddEntry(ctx context.Context, userID uuid.UUID, input AddEntryInput) (*models.CartEntry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.TicketCount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket count must be positive")
	}

	draw, err := s.draws.Get(ctx, input.NyxcipherID)
	if err != nil {
		return nil, err
	}
	if draw.Status != enums.NyxcipherStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "nyxcipher is not open for entries").
			WithDetails(map[string]any{"status": draw.Status})
	}
	if draw.Item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "nyxcipher item missing")
	}

	var entry *models.CartEntry
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		bound := s.repo.WithTx(tx)

		ticket := &models.Ticket{
			NyxcipherID: draw.ID,
			BuyerID:     userID,
			TicketCount: input.TicketCount,
			TicketPrice: draw.Item.Value,
		}
		if _, err := bound.CreateTicket(ctx, ticket); err != nil {
			return err
		}

		created, err := bound.CreateEntry(ctx, &models.CartEntry{
			UserID:      userID,
			NyxcipherID: draw.ID,
			TicketID:    ticket.ID,
		})
		if err != nil {
			return err
		}
		entry = created
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stage cart entry")
	}
	return entry, nil
}

// RemoveEntry drops the entry together with its unpaid ticket.
func (s *service) RemoveEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	entry, err := s.repo.FindEntryByIDAndUser(ctx, entryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart entry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart entry")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		bound := s.repo.WithTx(tx)
		if err := bound.DeleteEntry(ctx, entry.ID); err != nil {
			return err
		}
		return bound.DeleteUnpaidTicket(ctx, entry.TicketID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart entry")
	}
	return nil
}

// ListEntries returns the user's cart in the order checkout will settle it.
func (s *service) ListEntries(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart entries")
	}
	return rows, nil
}
