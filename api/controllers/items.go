package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nyxoasis/oasis-backend/api/responses"
	"github.com/nyxoasis/oasis-backend/api/validators"
	itemsvc "github.com/nyxoasis/oasis-backend/internal/items"
	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
	"github.com/nyxoasis/oasis-backend/pkg/logger"
)

// ItemCreate handles registration of a new prize item.
func ItemCreate(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newItemResponse(item))
	}
}

// ItemFetch handles lookup of a single prize item.
func ItemFetch(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		id, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newItemResponse(item))
	}
}

// ItemList handles listing of the full prize catalog.
func ItemList(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]itemResponse, 0, len(items))
		for i := range items {
			out = append(out, newItemResponse(&items[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// ItemUpdate handles partial updates of a prize item.
func ItemUpdate(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		id, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, payload.toPatch())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newItemResponse(item))
	}
}

// ItemDelete handles removal of a prize item.
func ItemDelete(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		id, err := pathUUID(r, "itemId")
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

type createItemRequest struct {
	Name           string          `json:"name" validate:"required"`
	Summary        *string         `json:"summary,omitempty"`
	Value          decimal.Decimal `json:"value" validate:"required"`
	Highlights     []string        `json:"highlights,omitempty"`
	Specifications *string         `json:"specifications,omitempty"`
	Features       *string         `json:"features,omitempty"`
	Thumbnail      *string         `json:"thumbnail,omitempty"`
	Images         []string        `json:"images,omitempty"`
}

func (r createItemRequest) toInput() itemsvc.CreateItemInput {
	return itemsvc.CreateItemInput{
		Name:           validators.SanitizeString(r.Name, 200),
		Summary:        sanitizeStringPtr(r.Summary, 2000),
		Value:          r.Value,
		Highlights:     r.Highlights,
		Specifications: r.Specifications,
		Features:       r.Features,
		Thumbnail:      r.Thumbnail,
		Images:         r.Images,
	}
}

type updateItemRequest struct {
	Name           *string          `json:"name,omitempty"`
	Summary        *string          `json:"summary,omitempty"`
	Value          *decimal.Decimal `json:"value,omitempty"`
	Highlights     *[]string        `json:"highlights,omitempty"`
	Specifications *string          `json:"specifications,omitempty"`
	Features       *string          `json:"features,omitempty"`
	Thumbnail      *string          `json:"thumbnail,omitempty"`
	Images         *[]string        `json:"images,omitempty"`
}

func (r updateItemRequest) toPatch() itemsvc.ItemPatch {
	return itemsvc.ItemPatch{
		Name:           r.Name,
		Summary:        r.Summary,
		Value:          r.Value,
		Highlights:     r.Highlights,
		Specifications: r.Specifications,
		Features:       r.Features,
		Thumbnail:      r.Thumbnail,
		Images:         r.Images,
	}
}

type itemResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Summary        *string         `json:"summary,omitempty"`
	Value          decimal.Decimal `json:"value"`
	Highlights     []string        `json:"highlights,omitempty"`
	Specifications *string         `json:"specifications,omitempty"`
	Features       *string         `json:"features,omitempty"`
	Thumbnail      *string         `json:"thumbnail,omitempty"`
	Images         []string        `json:"images,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func newItemResponse(item *models.Item) itemResponse {
	return itemResponse{
		ID:             item.ID,
		Name:           item.Name,
		Summary:        item.Summary,
		Value:          item.Value,
		Highlights:     item.Highlights,
		Specifications: item.Specifications,
		Features:       item.Features,
		Thumbnail:      item.Thumbnail,
		Images:         item.Images,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}
