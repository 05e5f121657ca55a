package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyxoasis/oasis-backend/api/middleware"
	"github.com/nyxoasis/oasis-backend/api/responses"
	"github.com/nyxoasis/oasis-backend/api/validators"
	checkoutsvc "github.com/nyxoasis/oasis-backend/internal/checkout"
	paymentsvc "github.com/nyxoasis/oasis-backend/internal/payments"
	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	"github.com/nyxoasis/oasis-backend/pkg/enums"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
	"github.com/nyxoasis/oasis-backend/pkg/logger"
)

// Checkout handles settlement of the caller's cart into paid tickets.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		email := middleware.EmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), email, enums.PaymentProcessor(payload.PaymentProcessor))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(result))
	}
}

// PaymentHistory handles listing the caller's payments, newest first.
func PaymentHistory(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		buyerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payments, err := svc.History(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]paymentResponse, 0, len(payments))
		for i := range payments {
			out = append(out, newPaymentResponse(&payments[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// PaymentFetch handles lookup of one of the caller's payments.
func PaymentFetch(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		buyerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.Get(r.Context(), id, buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPaymentResponse(payment))
	}
}

// PaymentUpdate handles administrative correction of a payment record.
func PaymentUpdate(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		id, err := pathUUID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch, err := payload.toPatch()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.Update(r.Context(), id, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPaymentResponse(payment))
	}
}

// PaymentDelete handles administrative removal of a payment record.
func PaymentDelete(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		id, err := pathUUID(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type checkoutRequest struct {
	PaymentProcessor string `json:"payment_processor" validate:"required"`
}

type checkoutResponse struct {
	Settled  int               `json:"settled"`
	Total    int               `json:"total"`
	Payments []paymentResponse `json:"payments"`
}

func newCheckoutResponse(result *checkoutsvc.Result) checkoutResponse {
	payments := make([]paymentResponse, 0, len(result.Payments))
	for i := range result.Payments {
		payments = append(payments, newPaymentResponse(&result.Payments[i]))
	}
	return checkoutResponse{
		Settled:  result.Settled,
		Total:    result.Total,
		Payments: payments,
	}
}

type updatePaymentRequest struct {
	AmountPaid *decimal.Decimal `json:"amount_paid,omitempty"`
	Processor  *string          `json:"processor,omitempty"`
}

func (r updatePaymentRequest) toPatch() (paymentsvc.PaymentPatch, error) {
	patch := paymentsvc.PaymentPatch{AmountPaid: r.AmountPaid}
	if r.Processor != nil {
		processor := enums.PaymentProcessor(*r.Processor)
		if !processor.IsValid() {
			return paymentsvc.PaymentPatch{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid processor")
		}
		patch.Processor = &processor
	}
	return patch, nil
}

type paymentResponse struct {
	ID              uuid.UUID          `json:"id"`
	NyxcipherID     uuid.UUID          `json:"nyxcipher_id"`
	Nyxcipher       *nyxcipherResponse `json:"nyxcipher,omitempty"`
	TicketID        uuid.UUID          `json:"ticket_id"`
	Ticket          *ticketResponse    `json:"ticket,omitempty"`
	PurchaseDate    time.Time          `json:"purchase_date"`
	AssignedNumbers []int64            `json:"assigned_numbers,omitempty"`
	AmountPaid      decimal.Decimal    `json:"amount_paid"`
	Processor       string             `json:"processor"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func newPaymentResponse(payment *models.Payment) paymentResponse {
	out := paymentResponse{
		ID:              payment.ID,
		NyxcipherID:     payment.NyxcipherID,
		TicketID:        payment.TicketID,
		PurchaseDate:    payment.PurchaseDate,
		AssignedNumbers: payment.AssignedNumbers,
		AmountPaid:      payment.AmountPaid,
		Processor:       string(payment.Processor),
		CreatedAt:       payment.CreatedAt,
		UpdatedAt:       payment.UpdatedAt,
	}
	if payment.Nyxcipher != nil {
		draw := newNyxcipherResponse(payment.Nyxcipher)
		out.Nyxcipher = &draw
	}
	if payment.Ticket != nil {
		ticket := newTicketResponse(payment.Ticket)
		out.Ticket = &ticket
	}
	return out
}
