package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nyxoasis/oasis-backend/api/responses"
	"github.com/nyxoasis/oasis-backend/api/validators"
	cartsvc "github.com/nyxoasis/oasis-backend/internal/cart"
	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
	"github.com/nyxoasis/oasis-backend/pkg/logger"
)

// CartList handles listing the caller's pending cart entries, oldest first.
func CartList(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.ListEntries(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]cartEntryResponse, 0, len(entries))
		for i := range entries {
			out = append(out, newCartEntryResponse(&entries[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// CartAdd handles staging a ticket purchase against an active draw.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartEntryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.AddEntry(r.Context(), userID, cartsvc.AddEntryInput{
			NyxcipherID: payload.NyxcipherID,
			TicketCount: payload.TicketCount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartEntryResponse(entry))
	}
}

// CartRemove handles withdrawal of a pending entry and its unpaid ticket.
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entryID, err := pathUUID(r, "entryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveEntry(r.Context(), userID, entryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

type addCartEntryRequest struct {
	NyxcipherID uuid.UUID `json:"nyxcipher_id" validate:"required"`
	TicketCount int       `json:"ticket_count" validate:"required,min=1"`
}

type cartEntryResponse struct {
	ID          uuid.UUID          `json:"id"`
	NyxcipherID uuid.UUID          `json:"nyxcipher_id"`
	Nyxcipher   *nyxcipherResponse `json:"nyxcipher,omitempty"`
	TicketID    uuid.UUID          `json:"ticket_id"`
	Ticket      *ticketResponse    `json:"ticket,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func newCartEntryResponse(entry *models.CartEntry) cartEntryResponse {
	out := cartEntryResponse{
		ID:          entry.ID,
		NyxcipherID: entry.NyxcipherID,
		TicketID:    entry.TicketID,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
	if entry.Nyxcipher != nil {
		draw := newNyxcipherResponse(entry.Nyxcipher)
		out.Nyxcipher = &draw
	}
	if entry.Ticket != nil {
		ticket := newTicketResponse(entry.Ticket)
		out.Ticket = &ticket
	}
	return out
}
