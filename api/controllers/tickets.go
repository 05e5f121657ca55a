package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyxoasis/oasis-backend/api/responses"
	"github.com/nyxoasis/oasis-backend/api/validators"
	ticketsvc "github.com/nyxoasis/oasis-backend/internal/tickets"
	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
	"github.com/nyxoasis/oasis-backend/pkg/logger"
)

// TicketList handles listing of the caller's tickets, newest first.
func TicketList(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		buyerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tickets, err := svc.List(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newTicketListResponse(tickets))
	}
}

// TicketFetch handles lookup of one of the caller's tickets.
func TicketFetch(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		buyerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "ticketId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Get(r.Context(), id, buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newTicketResponse(ticket))
	}
}

// TicketListForNyxcipher handles listing the caller's tickets within one draw.
func TicketListForNyxcipher(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		buyerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		nyxcipherID, err := pathUUID(r, "nyxcipherId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tickets, err := svc.ListForNyxcipher(r.Context(), buyerID, nyxcipherID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newTicketListResponse(tickets))
	}
}

// TicketCreate handles direct registration of an unpaid ticket for the caller.
func TicketCreate(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		buyerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createTicketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Save(r.Context(), payload.toInput(buyerID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newTicketResponse(ticket))
	}
}

// TicketUpdate handles administrative correction of an unpaid ticket.
func TicketUpdate(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		id, err := pathUUID(r, "ticketId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateTicketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Update(r.Context(), id, ticketsvc.TicketPatch{
			TicketCount: payload.TicketCount,
			TicketPrice: payload.TicketPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newTicketResponse(ticket))
	}
}

// TicketDelete handles administrative removal of an unpaid ticket.
func TicketDelete(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}

		id, err := pathUUID(r, "ticketId")
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

type createTicketRequest struct {
	NyxcipherID uuid.UUID       `json:"nyxcipher_id" validate:"required"`
	TicketCount int             `json:"ticket_count" validate:"required,min=1"`
	TicketPrice decimal.Decimal `json:"ticket_price" validate:"required"`
}

func (r createTicketRequest) toInput(buyerID uuid.UUID) ticketsvc.CreateTicketInput {
	return ticketsvc.CreateTicketInput{
		NyxcipherID: r.NyxcipherID,
		BuyerID:     buyerID,
		TicketCount: r.TicketCount,
		TicketPrice: r.TicketPrice,
	}
}

type updateTicketRequest struct {
	TicketCount *int             `json:"ticket_count,omitempty" validate:"omitempty,min=1"`
	TicketPrice *decimal.Decimal `json:"ticket_price,omitempty"`
}

type ticketResponse struct {
	ID              uuid.UUID          `json:"id"`
	NyxcipherID     uuid.UUID          `json:"nyxcipher_id"`
	Nyxcipher       *nyxcipherResponse `json:"nyxcipher,omitempty"`
	BuyerID         uuid.UUID          `json:"buyer_id"`
	TicketCount     int                `json:"ticket_count"`
	TicketPrice     decimal.Decimal    `json:"ticket_price"`
	PaymentID       *uuid.UUID         `json:"payment_id,omitempty"`
	AssignedNumbers []int64            `json:"assigned_numbers,omitempty"`
	WinningTicket   bool               `json:"winning_ticket"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func newTicketResponse(ticket *models.Ticket) ticketResponse {
	out := ticketResponse{
		ID:              ticket.ID,
		NyxcipherID:     ticket.NyxcipherID,
		BuyerID:         ticket.BuyerID,
		TicketCount:     ticket.TicketCount,
		TicketPrice:     ticket.TicketPrice,
		PaymentID:       ticket.PaymentID,
		AssignedNumbers: ticket.AssignedNumbers,
		WinningTicket:   ticket.WinningTicket,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
	if ticket.Nyxcipher != nil {
		draw := newNyxcipherResponse(ticket.Nyxcipher)
		out.Nyxcipher = &draw
	}
	return out
}

func newTicketListResponse(tickets []models.Ticket) []ticketResponse {
	out := make([]ticketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, newTicketResponse(&tickets[i]))
	}
	return out
}
