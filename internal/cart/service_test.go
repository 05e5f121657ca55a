package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	"github.com/nyxoasis/oasis-backend/pkg/enums"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
)

func TestAddEntryRejectsInactiveDraw(t *testing.T) {
	t.Parallel()

	draw := activeDraw()
	draw.Status = enums.NyxcipherStatusDraft
	svc := newTestService(&stubCartRepo{}, draw)

	_, err := svc.AddEntry(context.Background(), uuid.New(), AddEntryInput{NyxcipherID: draw.ID, TicketCount: 2})
	if err == nil {
		t.Fatal("expected error for non-active draw")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestAddEntryRejectsNonPositiveCount(t *testing.T) {
	t.Parallel()

	draw := activeDraw()
	svc := newTestService(&stubCartRepo{}, draw)

	_, err := svc.AddEntry(context.Background(), uuid.New(), AddEntryInput{NyxcipherID: draw.ID, TicketCount: 0})
	if err == nil {
		t.Fatal("expected error for zero tickets")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestAddEntryCreatesTicketAndEntry(t *testing.T) {
	t.Parallel()

	draw := activeDraw()
	repo := &stubCartRepo{}
	svc := newTestService(repo, draw)
	userID := uuid.New()

	entry, err := svc.AddEntry(context.Background(), userID, AddEntryInput{NyxcipherID: draw.ID, TicketCount: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected entry")
	}
	if repo.createdTicket == nil {
		t.Fatal("expected ticket to be staged")
	}
	if repo.createdTicket.TicketCount != 3 {
		t.Fatalf("expected 3 tickets, got %d", repo.createdTicket.TicketCount)
	}
	if !repo.createdTicket.TicketPrice.Equal(draw.Item.Value) {
		t.Fatalf("expected price captured from item, got %s", repo.createdTicket.TicketPrice)
	}
	if repo.createdEntry.UserID != userID {
		t.Fatalf("entry bound to wrong user")
	}
	if repo.createdEntry.TicketID != repo.createdTicket.ID {
		t.Fatal("entry must reference the staged ticket")
	}
}

func TestRemoveEntryNotFound(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{findErr: gorm.ErrRecordNotFound}
	svc := newTestService(repo, activeDraw())

	err := svc.RemoveEntry(context.Background(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatal("expected error for missing entry")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestRemoveEntryDeletesEntryAndTicket(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	entry := &models.CartEntry{ID: uuid.New(), UserID: userID, TicketID: uuid.New()}
	repo := &stubCartRepo{entry: entry}
	svc := newTestService(repo, activeDraw())

	if err := svc.RemoveEntry(context.Background(), userID, entry.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deletedEntry != entry.ID {
		t.Fatal("expected entry to be deleted")
	}
	if repo.deletedTicket != entry.TicketID {
		t.Fatal("expected unpaid ticket to be deleted")
	}
}

func activeDraw() *models.Nyxcipher {
	return &models.Nyxcipher{
		ID:     uuid.New(),
		Name:   "midnight draw",
		Status: enums.NyxcipherStatusActive,
		Item:   &models.Item{ID: uuid.New(), Name: "prize", Value: decimal.NewFromInt(25)},
	}
}

func newTestService(repo CartRepository, draw *models.Nyxcipher) Service {
	svc, err := NewService(repo, stubTxRunner{}, drawLoaderFunc(func(ctx context.Context, id uuid.UUID) (*models.Nyxcipher, error) {
		return draw, nil
	}))
	if err != nil {
		panic(err)
	}
	return svc
}

type drawLoaderFunc func(ctx context.Context, id uuid.UUID) (*models.Nyxcipher, error)

func (f drawLoaderFunc) Get(ctx context.Context, id uuid.UUID) (*models.Nyxcipher, error) {
	return f(ctx, id)
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCartRepo struct {
	entry   *models.CartEntry
	findErr error

	createdTicket *models.Ticket
	createdEntry  *models.CartEntry
	deletedEntry  uuid.UUID
	deletedTicket uuid.UUID
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubCartRepo) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	ticket.ID = uuid.New()
	s.createdTicket = ticket
	return ticket, nil
}

func (s *stubCartRepo) CreateEntry(ctx context.Context, entry *models.CartEntry) (*models.CartEntry, error) {
	entry.ID = uuid.New()
	s.createdEntry = entry
	return entry, nil
}

func (s *stubCartRepo) FindEntryByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartEntry, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.entry, nil
}

func (s *stubCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error) {
	if s.entry == nil {
		return nil, nil
	}
	return []models.CartEntry{*s.entry}, nil
}

func (s *stubCartRepo) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	s.deletedEntry = id
	return nil
}

func (s *stubCartRepo) DeleteUnpaidTicket(ctx context.Context, ticketID uuid.UUID) error {
	s.deletedTicket = ticketID
	return nil
}
