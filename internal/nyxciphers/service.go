package nyxciphers

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

// NyxcipherRepository defines the persistence surface required by the service.
type NyxcipherRepository interface {
	WithTx(tx *gorm.DB) NyxcipherRepository
	Create(ctx context.Context, nyxcipher *models.Nyxcipher) (*models.Nyxcipher, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Nyxcipher, error)
	List(ctx context.Context) ([]models.Nyxcipher, error)
	ListByStatus(ctx context.Context, status enums.NyxcipherStatus) ([]models.Nyxcipher, error)
	ListWinners(ctx context.Context) ([]models.Nyxcipher, error)
	ListBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]models.Nyxcipher, error)
	FindByIDAndSponsor(ctx context.Context, id, sponsorID uuid.UUID) (*models.Nyxcipher, error)
	Save(ctx context.Context, nyxcipher *models.Nyxcipher) (*models.Nyxcipher, error)
	MarkTicketWinning(ctx context.Context, ticketID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type itemLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type ticketFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
}

// Service exposes draw lifecycle operations.
type Service interface {
	Create(ctx context.Context, sponsorID uuid.UUID, input CreateNyxcipherInput) (*models.Nyxcipher, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Nyxcipher, error)
	List(ctx context.Context) ([]models.Nyxcipher, error)
	ListActive(ctx context.Context) ([]models.Nyxcipher, error)
	ListWinners(ctx context.Context) ([]models.Nyxcipher, error)
	ListForSponsor(ctx context.Context, sponsorID uuid.UUID) ([]models.Nyxcipher, error)
	GetForSponsor(ctx context.Context, id, sponsorID uuid.UUID) (*models.Nyxcipher, error)
	Update(ctx context.Context, id uuid.UUID, patch NyxcipherPatch) (*models.Nyxcipher, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    NyxcipherRepository
	tx      txRunner
	items   itemLoader
	tickets ticketFinder
}

// NewService builds a draw service backed by the provided stack.
func NewService(repo NyxcipherRepository, tx txRunner, items itemLoader, tickets ticketFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("nyxcipher repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if items == nil {
		return nil, fmt.Errorf("item loader required")
	}
	if tickets == nil {
		return nil, fmt.Errorf("ticket finder required")
	}
	return &service{repo: repo, tx: tx, items: items, tickets: tickets}, nil
}

// CreateNyxcipherInput captures the payload required to open a draw.
type CreateNyxcipherInput struct {
	Name             string
	Category         enums.NyxcipherCategory
	ItemID           uuid.UUID
	CharityRecipient *string
}

// NyxcipherPatch carries per-field updates; nil fields keep their stored value.
type NyxcipherPatch struct {
	Name             *string
	Category         *enums.NyxcipherCategory
	Status           *enums.NyxcipherStatus
	ItemID           *uuid.UUID
	CharityRecipient *string
	WinningTicketID  *uuid.UUID
}

func (s *service) Create(ctx context.Context, sponsorID uuid.UUID, input CreateNyxcipherInput) (*models.Nyxcipher, error) {
	if sponsorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sponsor id is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nyxcipher name is required")
	}
	if input.Category != "" && !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
	}
	if _, err := s.items.Get(ctx, input.ItemID); err != nil {
		return nil, err
	}

	nyxcipher := &models.Nyxcipher{
		Name:             input.Name,
		Category:         input.Category,
		Status:           enums.NyxcipherStatusDraft,
		ItemID:           input.ItemID,
		SponsorID:        sponsorID,
		CharityRecipient: input.CharityRecipient,
	}
	if nyxcipher.Category == "" {
		nyxcipher.Category = enums.NyxcipherCategoryOther
	}

	created, err := s.repo.Create(ctx, nyxcipher)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create nyxcipher")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Nyxcipher, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "nyxcipher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load nyxcipher")
	}
	return row, nil
}

func (s *service) List(ctx context.Context) ([]models.Nyxcipher, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list nyxciphers")
	}
	return rows, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Nyxcipher, error) {
	rows, err := s.repo.ListByStatus(ctx, enums.NyxcipherStatusActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active nyxciphers")
	}
	return rows, nil
}

func (s *service) ListWinners(ctx context.Context) ([]models.Nyxcipher, error) {
	rows, err := s.repo.ListWinners(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list winners")
	}
	return rows, nil
}

func (s *service) ListForSponsor(ctx context.Context, sponsorID uuid.UUID) ([]models.Nyxcipher, error) {
	if sponsorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sponsor id is required")
	}
	rows, err := s.repo.ListBySponsor(ctx, sponsorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sponsor nyxciphers")
	}
	return rows, nil
}

func (s *service) GetForSponsor(ctx context.Context, id, sponsorID uuid.UUID) (*models.Nyxcipher, error) {
	row, err := s.repo.FindByIDAndSponsor(ctx, id, sponsorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "nyxcipher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sponsor nyxcipher")
	}
	return row, nil
}

// Update applies the patch field by field. Attaching a winning ticket is only
// legal on a closed draw; the ticket must belong to the draw and be paid, and
// the winner is derived from the ticket's buyer inside one transaction.
func (s *service) Update(ctx context.Context, id uuid.UUID, patch NyxcipherPatch) (*models.Nyxcipher, error) {
	nyxcipher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "nyxcipher name cannot be empty")
		}
		nyxcipher.Name = *patch.Name
	}
	if patch.Category != nil {
		if !patch.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		nyxcipher.Category = *patch.Category
	}
	if patch.Status != nil {
		if err := validateTransition(nyxcipher.Status, *patch.Status); err != nil {
			return nil, err
		}
		nyxcipher.Status = *patch.Status
	}
	if patch.ItemID != nil {
		if _, err := s.items.Get(ctx, *patch.ItemID); err != nil {
			return nil, err
		}
		nyxcipher.ItemID = *patch.ItemID
		nyxcipher.Item = nil
	}
	if patch.CharityRecipient != nil {
		nyxcipher.CharityRecipient = patch.CharityRecipient
	}

	if patch.WinningTicketID == nil {
		saved, err := s.repo.Save(ctx, nyxcipher)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save nyxcipher")
		}
		return saved, nil
	}

	if nyxcipher.Status != enums.NyxcipherStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "winner can only be attached to a closed nyxcipher")
	}
	if nyxcipher.WinnerID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "nyxcipher already has a winner")
	}

	ticket, err := s.tickets.FindByID(ctx, *patch.WinningTicketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "winning ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load winning ticket")
	}
	if ticket.NyxcipherID != nyxcipher.ID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket belongs to a different nyxcipher")
	}
	if ticket.PaymentID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "winning ticket was never paid")
	}

	nyxcipher.WinningTicketID = &ticket.ID
	nyxcipher.WinnerID = &ticket.BuyerID
	nyxcipher.WinningTicket = nil
	nyxcipher.Winner = nil

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		bound := s.repo.WithTx(tx)
		if _, err := bound.Save(ctx, nyxcipher); err != nil {
			return err
		}
		return bound.MarkTicketWinning(ctx, ticket.ID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach winner")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete nyxcipher")
	}
	return nil
}

func validateTransition(from, to enums.NyxcipherStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
	}
	if from == to {
		return nil
	}
	switch {
	case from == enums.NyxcipherStatusDraft && to == enums.NyxcipherStatusActive:
		return nil
	case from == enums.NyxcipherStatusActive && to == enums.NyxcipherStatusClosed:
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
		WithDetails(map[string]any{"from": from, "to": to})
}
