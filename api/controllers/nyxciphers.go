package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nyxoasis/oasis-backend/api/responses"
	"github.com/nyxoasis/oasis-backend/api/validators"
	nyxciphersvc "github.com/nyxoasis/oasis-backend/internal/nyxciphers"
	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	"github.com/nyxoasis/oasis-backend/pkg/enums"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
	"github.com/nyxoasis/oasis-backend/pkg/logger"
)

// NyxcipherActive handles the public listing of draws open for entry.
func NyxcipherActive(svc nyxciphersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nyxcipher service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draws, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if limit > 0 && len(draws) > limit {
			draws = draws[:limit]
		}

		responses.WriteSuccess(w, newNyxcipherListResponse(draws))
	}
}

// NyxcipherWinners handles the public listing of settled draws and their winners.
func NyxcipherWinners(svc nyxciphersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nyxcipher service unavailable"))
			return
		}

		draws, err := svc.ListWinners(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newNyxcipherListResponse(draws))
	}
}

// NyxcipherFetch handles public lookup of a single draw.
func NyxcipherFetch(svc nyxciphersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nyxcipher service unavailable"))
			return
		}

		id, err := pathUUID(r, "nyxcipherId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draw, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newNyxcipherResponse(draw))
	}
}

// NyxcipherList handles listing of every draw regardless of status.
func NyxcipherList(svc nyxciphersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nyxcipher service unavailable"))
			return
		}

		draws, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newNyxcipherListResponse(draws))
	}
}

// NyxcipherSponsorList handles listing of the caller's own draws.
func NyxcipherSponsorList(svc nyxciphersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nyxcipher service unavailable"))
			return
		}

		sponsorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draws, err := svc.ListForSponsor(r.Context(), sponsorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newNyxcipherListResponse(draws))
	}
}

// NyxcipherSponsorFetch handles lookup of one of the caller's own draws.
func NyxcipherSponsorFetch(svc nyxciphersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nyxcipher service unavailable"))
			return
		}

		sponsorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "nyxcipherId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draw, err := svc.GetForSponsor(r.Context(), id, sponsorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newNyxcipherResponse(draw))
	}
}

// NyxcipherCreate handles opening a new draw, owned by the caller.
func NyxcipherCreate(svc nyxciphersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nyxcipher service unavailable"))
			return
		}

		sponsorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createNyxcipherRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draw, err := svc.Create(r.Context(), sponsorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newNyxcipherResponse(draw))
	}
}

// NyxcipherUpdate handles partial updates of a draw, including status
// transitions and winner assignment.
func NyxcipherUpdate(svc nyxciphersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nyxcipher service unavailable"))
			return
		}

		id, err := pathUUID(r, "nyxcipherId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateNyxcipherRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch, err := payload.toPatch()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draw, err := svc.Update(r.Context(), id, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newNyxcipherResponse(draw))
	}
}

// NyxcipherDelete handles removal of a draft draw.
func NyxcipherDelete(svc nyxciphersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "nyxcipher service unavailable"))
			return
		}

		id, err := pathUUID(r, "nyxcipherId")
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

type createNyxcipherRequest struct {
	Name             string    `json:"name" validate:"required"`
	Category         string    `json:"category,omitempty"`
	ItemID           uuid.UUID `json:"item_id" validate:"required"`
	CharityRecipient *string   `json:"charity_recipient,omitempty"`
}

func (r createNyxcipherRequest) toInput() (nyxciphersvc.CreateNyxcipherInput, error) {
	category := enums.NyxcipherCategory(r.Category)
	if r.Category != "" && !category.IsValid() {
		return nyxciphersvc.CreateNyxcipherInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	return nyxciphersvc.CreateNyxcipherInput{
		Name:             validators.SanitizeString(r.Name, 200),
		Category:         category,
		ItemID:           r.ItemID,
		CharityRecipient: sanitizeStringPtr(r.CharityRecipient, 200),
	}, nil
}

type updateNyxcipherRequest struct {
	Name             *string    `json:"name,omitempty"`
	Category         *string    `json:"category,omitempty"`
	Status           *string    `json:"status,omitempty"`
	ItemID           *uuid.UUID `json:"item_id,omitempty"`
	CharityRecipient *string    `json:"charity_recipient,omitempty"`
	WinningTicketID  *uuid.UUID `json:"winning_ticket_id,omitempty"`
}

func (r updateNyxcipherRequest) toPatch() (nyxciphersvc.NyxcipherPatch, error) {
	patch := nyxciphersvc.NyxcipherPatch{
		Name:             r.Name,
		ItemID:           r.ItemID,
		CharityRecipient: r.CharityRecipient,
		WinningTicketID:  r.WinningTicketID,
	}
	if r.Category != nil {
		category := enums.NyxcipherCategory(*r.Category)
		if !category.IsValid() {
			return nyxciphersvc.NyxcipherPatch{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		patch.Category = &category
	}
	if r.Status != nil {
		status := enums.NyxcipherStatus(*r.Status)
		if !status.IsValid() {
			return nyxciphersvc.NyxcipherPatch{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		patch.Status = &status
	}
	return patch, nil
}

type userSummaryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type nyxcipherResponse struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name"`
	Category         string               `json:"category"`
	Status           string               `json:"status"`
	ItemID           uuid.UUID            `json:"item_id"`
	Item             *itemResponse        `json:"item,omitempty"`
	SponsorID        uuid.UUID            `json:"sponsor_id"`
	Sponsor          *userSummaryResponse `json:"sponsor,omitempty"`
	CharityRecipient *string              `json:"charity_recipient,omitempty"`
	WinnerID         *uuid.UUID           `json:"winner_id,omitempty"`
	Winner           *userSummaryResponse `json:"winner,omitempty"`
	WinningTicketID  *uuid.UUID           `json:"winning_ticket_id,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func newNyxcipherResponse(draw *models.Nyxcipher) nyxcipherResponse {
	out := nyxcipherResponse{
		ID:               draw.ID,
		Name:             draw.Name,
		Category:         string(draw.Category),
		Status:           string(draw.Status),
		ItemID:           draw.ItemID,
		SponsorID:        draw.SponsorID,
		CharityRecipient: draw.CharityRecipient,
		WinnerID:         draw.WinnerID,
		WinningTicketID:  draw.WinningTicketID,
		CreatedAt:        draw.CreatedAt,
		UpdatedAt:        draw.UpdatedAt,
	}
	if draw.Item != nil {
		item := newItemResponse(draw.Item)
		out.Item = &item
	}
	if draw.Sponsor != nil {
		out.Sponsor = &userSummaryResponse{ID: draw.Sponsor.ID, Name: draw.Sponsor.Name}
	}
	if draw.Winner != nil {
		out.Winner = &userSummaryResponse{ID: draw.Winner.ID, Name: draw.Winner.Name}
	}
	return out
}

func newNyxcipherListResponse(draws []models.Nyxcipher) []nyxcipherResponse {
	out := make([]nyxcipherResponse, 0, len(draws))
	for i := range draws {
		out = append(out, newNyxcipherResponse(&draws[i]))
	}
	return out
}
