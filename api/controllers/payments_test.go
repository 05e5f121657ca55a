package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyxoasis/oasis-backend/api/middleware"
	checkoutsvc "github.com/nyxoasis/oasis-backend/internal/checkout"
	paymentsvc "github.com/nyxoasis/oasis-backend/internal/payments"
	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	"github.com/nyxoasis/oasis-backend/pkg/enums"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
)

type stubCheckoutService struct {
	result *checkoutsvc.Result
	err    error

	gotEmail     string
	gotProcessor enums.PaymentProcessor
}

func (s *stubCheckoutService) Checkout(ctx context.Context, email string, processor enums.PaymentProcessor) (*checkoutsvc.Result, error) {
	s.gotEmail = email
	s.gotProcessor = processor
	if s.err != nil {
		return s.result, s.err
	}
	return s.result, nil
}

type stubPaymentService struct {
	payments []models.Payment
	payment  *models.Payment
	err      error
}

func (s stubPaymentService) History(ctx context.Context, buyerID uuid.UUID) ([]models.Payment, error) {
	return s.payments, s.err
}

func (s stubPaymentService) Get(ctx context.Context, id, buyerID uuid.UUID) (*models.Payment, error) {
	return s.payment, s.err
}

func (s stubPaymentService) Update(ctx context.Context, id uuid.UUID, patch paymentsvc.PaymentPatch) (*models.Payment, error) {
	return s.payment, s.err
}

func (s stubPaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func TestCheckoutSuccess(t *testing.T) {
	t.Parallel()

	payment := models.Payment{
		ID:          uuid.New(),
		BuyerID:     uuid.New(),
		NyxcipherID: uuid.New(),
		TicketID:    uuid.New(),
		AmountPaid:  decimal.RequireFromString("150.00"),
		Processor:   enums.PaymentProcessorStripe,
	}
	svc := &stubCheckoutService{result: &checkoutsvc.Result{Payments: []models.Payment{payment}, Settled: 1, Total: 1}}
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment", strings.NewReader(`{"payment_processor":"stripe"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithEmail(req.Context(), "buyer@example.com"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotEmail != "buyer@example.com" {
		t.Fatalf("unexpected email: %s", svc.gotEmail)
	}
	if svc.gotProcessor != enums.PaymentProcessorStripe {
		t.Fatalf("unexpected processor: %s", svc.gotProcessor)
	}

	var envelope struct {
		Data checkoutResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Settled != 1 || envelope.Data.Total != 1 {
		t.Fatalf("unexpected tallies: %+v", envelope.Data)
	}
	if len(envelope.Data.Payments) != 1 || envelope.Data.Payments[0].ID != payment.ID {
		t.Fatalf("unexpected payments: %+v", envelope.Data.Payments)
	}
}

func TestCheckoutRequiresUserContext(t *testing.T) {
	t.Parallel()

	handler := Checkout(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment", strings.NewReader(`{"payment_processor":"stripe"}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCheckoutValidationError(t *testing.T) {
	t.Parallel()

	handler := Checkout(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithEmail(req.Context(), "buyer@example.com"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutPartialFailurePropagates(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{
		result: &checkoutsvc.Result{Settled: 1, Total: 3},
		err: pkgerrors.New(pkgerrors.CodeDependency, "checkout halted").
			WithDetails(map[string]any{"settled": 1, "total": 3}),
	}
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment", strings.NewReader(`{"payment_processor":"paypal"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithEmail(req.Context(), "buyer@example.com"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestPaymentHistory(t *testing.T) {
	t.Parallel()

	buyerID := uuid.New()
	payments := []models.Payment{
		{ID: uuid.New(), BuyerID: buyerID, Processor: enums.PaymentProcessorCrypto},
		{ID: uuid.New(), BuyerID: buyerID, Processor: enums.PaymentProcessorStripe},
	}
	handler := PaymentHistory(stubPaymentService{payments: payments}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment/history", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), buyerID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []paymentResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(envelope.Data))
	}
	if envelope.Data[0].ID != payments[0].ID {
		t.Fatalf("unexpected ordering: %+v", envelope.Data)
	}
}

func TestPaymentHistoryRequiresUserContext(t *testing.T) {
	t.Parallel()

	handler := PaymentHistory(stubPaymentService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment/history", nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
