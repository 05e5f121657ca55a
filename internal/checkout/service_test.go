package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/internal/cart"
	"github.com/nyxoasis/oasis-backend/internal/payments"
	"github.com/nyxoasis/oasis-backend/internal/tickets"
	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	"github.com/nyxoasis/oasis-backend/pkg/enums"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
)

func TestCheckoutRejectsUnknownProcessor(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubUserFinder{user: testUser()}, &stubCartRepo{}, &stubPaymentRepo{}, &stubTicketRepo{}, &stubLocker{})

	_, err := svc.Checkout(context.Background(), "buyer@example.com", "venmo")
	if err == nil {
		t.Fatal("expected error for unknown processor")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestCheckoutUserNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubUserFinder{err: gorm.ErrRecordNotFound}, &stubCartRepo{}, &stubPaymentRepo{}, &stubTicketRepo{}, &stubLocker{})

	_, err := svc.Checkout(context.Background(), "ghost@example.com", enums.PaymentProcessorStripe)
	if err == nil {
		t.Fatal("expected error for missing user")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubUserFinder{user: testUser()}, &stubCartRepo{}, &stubPaymentRepo{}, &stubTicketRepo{}, &stubLocker{})

	_, err := svc.Checkout(context.Background(), "buyer@example.com", enums.PaymentProcessorStripe)
	if err == nil {
		t.Fatal("expected error for empty cart")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestCheckoutLockContention(t *testing.T) {
	t.Parallel()

	user := testUser()
	cartRepo := &stubCartRepo{entries: entriesFor(user.ID, 1)}
	locker := &stubLocker{held: true}
	svc := newTestService(t, &stubUserFinder{user: user}, cartRepo, &stubPaymentRepo{}, &stubTicketRepo{}, locker)

	_, err := svc.Checkout(context.Background(), "buyer@example.com", enums.PaymentProcessorStripe)
	if err == nil {
		t.Fatal("expected error for held lock")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
	if locker.released {
		t.Fatal("lock should not be released when never acquired")
	}
}

func TestCheckoutSettlesEntriesInOrder(t *testing.T) {
	t.Parallel()

	user := testUser()
	entries := entriesFor(user.ID, 2)
	cartRepo := &stubCartRepo{entries: entries}
	payRepo := &stubPaymentRepo{}
	tickRepo := &stubTicketRepo{}
	locker := &stubLocker{}
	svc := newTestService(t, &stubUserFinder{user: user}, cartRepo, payRepo, tickRepo, locker)

	result, err := svc.Checkout(context.Background(), "buyer@example.com", enums.PaymentProcessorStripe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Settled != 2 || result.Total != 2 {
		t.Fatalf("expected 2/2 settled, got %d/%d", result.Settled, result.Total)
	}
	if len(payRepo.created) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payRepo.created))
	}
	if payRepo.created[0].TicketID != entries[0].TicketID {
		t.Fatal("entries must settle in cart order")
	}

	first := payRepo.created[0]
	wantAmount := entries[0].Ticket.TicketPrice.Mul(decimal.NewFromInt(int64(entries[0].Ticket.TicketCount)))
	if !first.AmountPaid.Equal(wantAmount) {
		t.Fatalf("expected amount %s, got %s", wantAmount, first.AmountPaid)
	}
	if len(first.AssignedNumbers) != entries[0].Ticket.TicketCount {
		t.Fatalf("expected %d assigned numbers, got %d", entries[0].Ticket.TicketCount, len(first.AssignedNumbers))
	}
	for _, n := range first.AssignedNumbers {
		if n < 1_000_000 || n >= 10_000_000 {
			t.Fatalf("assigned number %d out of range", n)
		}
	}

	if len(cartRepo.deletedEntries) != 2 {
		t.Fatalf("expected 2 entries deleted, got %d", len(cartRepo.deletedEntries))
	}
	if len(tickRepo.stamped) != 2 {
		t.Fatalf("expected 2 tickets stamped, got %d", len(tickRepo.stamped))
	}
	if !locker.released {
		t.Fatal("lock must be released after the run")
	}
}

func TestCheckoutHaltsOnEntryFailure(t *testing.T) {
	t.Parallel()

	user := testUser()
	entries := entriesFor(user.ID, 3)
	cartRepo := &stubCartRepo{entries: entries}
	payRepo := &stubPaymentRepo{failAt: 1}
	locker := &stubLocker{}
	svc := newTestService(t, &stubUserFinder{user: user}, cartRepo, payRepo, &stubTicketRepo{}, locker)

	result, err := svc.Checkout(context.Background(), "buyer@example.com", enums.PaymentProcessorStripe)
	if err == nil {
		t.Fatal("expected halt error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error code: %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected structured details, got %T", typed.Details())
	}
	if details["settled"] != 1 || details["total"] != 3 {
		t.Fatalf("unexpected details %v", details)
	}
	if result == nil || result.Settled != 1 {
		t.Fatalf("expected 1 settled entry, got %+v", result)
	}
	if !locker.released {
		t.Fatal("lock must be released after a halted run")
	}
}

func testUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "buyer@example.com", Role: enums.RoleCustomer}
}

func entriesFor(userID uuid.UUID, n int) []models.CartEntry {
	entries := make([]models.CartEntry, n)
	for i := range entries {
		ticketID := uuid.New()
		entries[i] = models.CartEntry{
			ID:          uuid.New(),
			UserID:      userID,
			NyxcipherID: uuid.New(),
			TicketID:    ticketID,
			Ticket: &models.Ticket{
				ID:          ticketID,
				BuyerID:     userID,
				TicketCount: i + 2,
				TicketPrice: decimal.NewFromInt(10),
			},
		}
	}
	return entries
}

func newTestService(t *testing.T, users *stubUserFinder, cartRepo cart.CartRepository, payRepo payments.PaymentRepository, tickRepo tickets.TicketRepository, locker *stubLocker) Service {
	t.Helper()
	svc, err := NewService(users, cartRepo, payRepo, tickRepo, stubTxRunner{}, locker, time.Minute, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubUserFinder struct {
	user *models.User
	err  error
}

func (s *stubUserFinder) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubLocker struct {
	held     bool
	released bool
}

func (s *stubLocker) AcquireCheckoutLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	return !s.held, nil
}

func (s *stubLocker) ReleaseCheckoutLock(ctx context.Context, userID string) error {
	s.released = true
	return nil
}

type stubCartRepo struct {
	entries        []models.CartEntry
	deletedEntries []uuid.UUID
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.CartRepository { return s }

func (s *stubCartRepo) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	return ticket, nil
}

func (s *stubCartRepo) CreateEntry(ctx context.Context, entry *models.CartEntry) (*models.CartEntry, error) {
	return entry, nil
}

func (s *stubCartRepo) FindEntryByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartEntry, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error) {
	return s.entries, nil
}

func (s *stubCartRepo) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	s.deletedEntries = append(s.deletedEntries, id)
	return nil
}

func (s *stubCartRepo) DeleteUnpaidTicket(ctx context.Context, ticketID uuid.UUID) error {
	return nil
}

type stubPaymentRepo struct {
	created []models.Payment
	failAt  int
}

func (s *stubPaymentRepo) WithTx(tx *gorm.DB) payments.PaymentRepository { return s }

func (s *stubPaymentRepo) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if s.failAt > 0 && len(s.created) == s.failAt {
		return nil, errors.New("processor unavailable")
	}
	payment.ID = uuid.New()
	s.created = append(s.created, *payment)
	return payment, nil
}

func (s *stubPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPaymentRepo) FindByIDAndBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPaymentRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Payment, error) {
	return nil, nil
}

func (s *stubPaymentRepo) Save(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	return payment, nil
}

func (s *stubPaymentRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type stubTicketRepo struct {
	stamped []uuid.UUID
}

func (s *stubTicketRepo) WithTx(tx *gorm.DB) tickets.TicketRepository { return s }

func (s *stubTicketRepo) Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	return ticket, nil
}

func (s *stubTicketRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTicketRepo) FindByIDAndBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Ticket, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTicketRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Ticket, error) {
	return nil, nil
}

func (s *stubTicketRepo) ListByBuyerAndNyxcipher(ctx context.Context, buyerID, nyxcipherID uuid.UUID) ([]models.Ticket, error) {
	return nil, nil
}

func (s *stubTicketRepo) Save(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	return ticket, nil
}

func (s *stubTicketRepo) StampPayment(ctx context.Context, id, paymentID uuid.UUID, numbers pq.Int64Array) error {
	s.stamped = append(s.stamped, id)
	return nil
}

func (s *stubTicketRepo) DeleteUnpaid(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubTicketRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
