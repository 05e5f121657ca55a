package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/internal/cart"
	"github.com/nyxoasis/oasis-backend/internal/numbers"
	"github.com/nyxoasis/oasis-backend/internal/payments"
	"github.com/nyxoasis/oasis-backend/internal/tickets"
	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	"github.com/nyxoasis/oasis-backend/pkg/enums"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
	"github.com/nyxoasis/oasis-backend/pkg/logger"
	"github.com/nyxoasis/oasis-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type checkoutLocker interface {
	AcquireCheckoutLock(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, userID string) error
}

// Service settles a user's cart into paid tickets.
type Service interface {
	Checkout(ctx context.Context, email string, processor enums.PaymentProcessor) (*Result, error)
}

type service struct {
	users    userFinder
	cartRepo cart.CartRepository
	payRepo  payments.PaymentRepository
	tickRepo tickets.TicketRepository
	tx       txRunner
	locker   checkoutLocker
	lockTTL  time.Duration
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	generate func(n int) []int64
	now      func() time.Time
}

// NewService builds the checkout orchestrator.
func NewService(
	users userFinder,
	cartRepo cart.CartRepository,
	payRepo payments.PaymentRepository,
	tickRepo tickets.TicketRepository,
	tx txRunner,
	locker checkoutLocker,
	lockTTL time.Duration,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if payRepo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if tickRepo == nil {
		return nil, fmt.Errorf("ticket repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if locker == nil {
		return nil, fmt.Errorf("checkout locker required")
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &service{
		users:    users,
		cartRepo: cartRepo,
		payRepo:  payRepo,
		tickRepo: tickRepo,
		tx:       tx,
		locker:   locker,
		lockTTL:  lockTTL,
		metrics:  checkoutMetrics,
		logg:     logg,
		generate: numbers.Generate,
		now:      time.Now,
	}, nil
}

// Result reports how far a checkout run got. Settled equals Total on
// success; on a halt the payments already created stay committed.
type Result struct {
	Payments []models.Payment
	Settled  int
	Total    int
}

// Checkout walks the cart in entry order. Each entry settles in its own
// transaction: payment created, cart entry deleted, ticket stamped. A failing
// entry halts the run without touching already-settled entries.
func (s *service) Checkout(ctx context.Context, email string, processor enums.PaymentProcessor) (result *Result, err error) {
	start := s.now()

	if !processor.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment processor")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	entries, err := s.cartRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(entries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	acquired, lockErr := s.locker.AcquireCheckoutLock(ctx, user.ID.String(), s.lockTTL)
	if lockErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lockErr, "acquire checkout lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer func() {
		if relErr := s.locker.ReleaseCheckoutLock(ctx, user.ID.String()); relErr != nil {
			err = multierr.Append(err, pkgerrors.Wrap(pkgerrors.CodeDependency, relErr, "release checkout lock"))
		}
	}()

	result = &Result{Total: len(entries)}
	for _, entry := range entries {
		payment, entryErr := s.settleEntry(ctx, user.ID, entry, processor)
		if entryErr != nil {
			s.metrics.IncFailure(string(processor))
			s.metrics.AddPaymentsCreated(result.Settled)
			s.observe(processor, start)
			if s.logg != nil {
				halted := s.logg.WithFields(ctx, map[string]any{
					"entry_id": entry.ID.String(),
					"settled":  result.Settled,
					"total":    result.Total,
				})
				s.logg.Error(halted, "checkout.halted", entryErr)
			}
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, entryErr, "checkout halted").
				WithDetails(map[string]any{
					"settled":  result.Settled,
					"total":    result.Total,
					"entry_id": entry.ID.String(),
				})
		}
		result.Payments = append(result.Payments, *payment)
		result.Settled++
	}

	s.metrics.IncSuccess(string(processor))
	s.metrics.AddPaymentsCreated(result.Settled)
	s.observe(processor, start)
	if s.logg != nil {
		done := s.logg.WithFields(ctx, map[string]any{"settled": result.Settled})
		s.logg.Info(done, "checkout.complete")
	}
	return result, nil
}

func (s *service) settleEntry(ctx context.Context, userID uuid.UUID, entry models.CartEntry, processor enums.PaymentProcessor) (*models.Payment, error) {
	ticket := entry.Ticket
	if ticket == nil {
		return nil, fmt.Errorf("cart entry %s has no ticket", entry.ID)
	}
	if ticket.PaymentID != nil {
		return nil, fmt.Errorf("ticket %s is already paid", ticket.ID)
	}

	assigned := s.generate(ticket.TicketCount)
	amount := ticket.TicketPrice.Mul(decimal.NewFromInt(int64(ticket.TicketCount)))

	var payment *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.payRepo.WithTx(tx).Create(ctx, &models.Payment{
			BuyerID:         userID,
			NyxcipherID:     entry.NyxcipherID,
			TicketID:        ticket.ID,
			PurchaseDate:    s.now(),
			AssignedNumbers: assigned,
			AmountPaid:      amount,
			Processor:       processor,
		})
		if err != nil {
			return err
		}
		if err := s.cartRepo.WithTx(tx).DeleteEntry(ctx, entry.ID); err != nil {
			return err
		}
		if err := s.tickRepo.WithTx(tx).StampPayment(ctx, ticket.ID, created.ID, assigned); err != nil {
			return err
		}
		payment = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *service) observe(processor enums.PaymentProcessor, start time.Time) {
	s.metrics.ObserveDuration(string(processor), s.now().Sub(start))
}
