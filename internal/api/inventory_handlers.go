package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/inventory"
)

func decodeStockRequest(r *http.Request, w http.ResponseWriter) (*inventory.StockRecord, bool) {
	var req StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return nil, false
	}
	category, err := inventory.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_category", err.Error())
		return nil, false
	}
	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_expiry_date", "expiry_date must be YYYY-MM-DD")
		return nil, false
	}
	return &inventory.StockRecord{
		Name:           req.Name,
		Category:       category,
		Manufacturer:   req.Manufacturer,
		BatchNumber:    req.BatchNumber,
		CurrentStock:   req.CurrentStock,
		MinStock:       req.MinStock,
		UnitPriceCents: req.UnitPriceCents,
		ExpiryDate:     expiry,
		Location:       req.Location,
	}, true
}

func createStockHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := decodeStockRequest(r, w)
		if !ok {
			return
		}
		view, err := svc.Create(r.Context(), rec)
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, view)
	}
}

func listStockHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if search := q.Get("search"); search != "" {
			views, err := svc.Search(r.Context(), search)
			if err != nil {
				handleInventoryError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, views)
			return
		}
		if categoryStr := q.Get("category"); categoryStr != "" {
			category, err := inventory.ParseCategory(categoryStr)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_category", err.Error())
				return
			}
			views, err := svc.ListByCategory(r.Context(), category)
			if err != nil {
				handleInventoryError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, views)
			return
		}

		views, err := svc.List(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func getStockHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_stock_id", "id must be a valid UUID")
			return
		}
		view, err := svc.Get(r.Context(), id)
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func updateStockHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_stock_id", "id must be a valid UUID")
			return
		}
		rec, ok := decodeStockRequest(r, w)
		if !ok {
			return
		}
		rec.ID = id
		view, err := svc.Update(r.Context(), rec)
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func deleteStockHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_stock_id", "id must be a valid UUID")
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			handleInventoryError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func lowStockHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.ListLowStock(r.Context())
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func expiringStockHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.ListExpiring(r.Context())
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func recordMovementHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_stock_id", "id must be a valid UUID")
			return
		}
		var req MovementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		movementType, err := inventory.ParseMovementType(req.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_movement_type", err.Error())
			return
		}
		userID, ok := actingUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}

		view, err := svc.RecordMovement(r.Context(), inventory.Movement{
			StockID:  id,
			Type:     movementType,
			Quantity: req.Quantity,
			Reason:   req.Reason,
			UserID:   userID,
		})
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func listMovementsHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_stock_id", "id must be a valid UUID")
			return
		}
		movements, err := svc.ListMovements(r.Context(), id, queryInt(r, "limit"), queryInt(r, "offset"))
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, movements)
	}
}

func handleInventoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrNameRequired),
		errors.Is(err, inventory.ErrNegativeStock),
		errors.Is(err, inventory.ErrNegativePrice),
		errors.Is(err, inventory.ErrInvalidMovement):
		writeError(w, http.StatusBadRequest, "invalid_stock_data", err.Error())
	case errors.Is(err, inventory.ErrStockNotFound):
		writeError(w, http.StatusNotFound, "stock_not_found", err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
