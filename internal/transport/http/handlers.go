package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"github.com/kahvecikaan/shopping-list/internal/service"
	"net/http"
	"strconv"
)

type ItemHandler struct {
	itemService service.ItemService
	logger      hclog.Logger
}

func NewItemHandler(is service.ItemService, log hclog.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: is,
		logger:      log,
	}
}

// GetItems handles GET /api/items
//
// swagger:route GET /api/items items listItems
//
// Returns every item on the shopping list, ordered by id.
//
// Responses:
//
//	200: itemsResponse
//	404: errorResponse
//	500: errorResponse
func (h *ItemHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.GetItems(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "Error getting items")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// GetItemByID handles GET /api/items/{id}
//
// swagger:route GET /api/items/{id} items getItemByID
//
// Returns an item by ID.
//
// Responses:
//
//	200: itemResponse
//	400: errorResponse
//	404: errorResponse
func (h *ItemHandler) GetItemByID(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.GetItemByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "Error getting item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// AddItem handles POST /api/items
//
// swagger:route POST /api/items items addItem
//
// Adds a new item. Only the description is used; new items are never done.
//
// Responses:
//
//	201: itemResponse
//	400: errorResponse
//	500: errorResponse
func (h *ItemHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	// Retrieve the decoded item from the context
	body, ok := r.Context().Value(ContextKeyItem).(*domain.Item)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid item data")
		return
	}

	item, err := h.itemService.AddItem(r.Context(), body.Description)
	if err != nil {
		h.writeServiceError(w, err, "Error adding item")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/items/%d", item.ID))
	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/items/{id}
//
// swagger:route PUT /api/items/{id} items updateItem
//
// Replaces an existing item. The id in the body must match the path.
//
// Responses:
//
//	204: noContentResponse
//	400: errorResponse
//	404: errorResponse
//	500: errorResponse
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	// Retrieve the decoded item from the context
	item, ok := r.Context().Value(ContextKeyItem).(*domain.Item)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid item data")
		return
	}

	err := h.itemService.UpdateItem(r.Context(), id, item)
	if err != nil {
		h.writeServiceError(w, err, "Error updating item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteItem handles DELETE /api/items/{id}
//
// swagger:route DELETE /api/items/{id} items deleteItem
//
// Deletes an item.
//
// Responses:
//
//	204: noContentResponse
//	404: errorResponse
//	500: errorResponse
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	err := h.itemService.DeleteItem(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "Error deleting item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func itemID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return 0, false
	}
	return id, true
}

// writeServiceError turns a service error into the matching status code.
// fallback is used as the message when the error is not the caller's fault.
func (h *ItemHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		resp := ErrorResponse{Message: err.Error()}
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			resp.Message = verrs[0].Message
			resp.Messages = verrs.Errors()
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case domain.KindNotFound:
		writeError(w, http.StatusNotFound, "Item not found")
	case domain.KindUnavailable:
		writeError(w, http.StatusNotFound, "Shopping list store not available.")
	case domain.KindConcurrencyConflict:
		h.logger.Warn("Concurrent modification", "error", err)
		writeError(w, http.StatusInternalServerError, "Item was modified by another request, please retry")
	default:
		h.logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}
