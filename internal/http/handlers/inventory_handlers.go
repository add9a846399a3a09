package handlers

import "net/http"

// IncreaseStockHandler godoc
// @Summary Increase stock of a product
// @Description Atomically adds the given amount to the product's stock quantity.
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param adjustment body AmountRequest true "Amount to add"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /inventory/{id}/stock/increase [put]
func (h *Handlers) IncreaseStockHandler(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, true)
}

// DecreaseStockHandler godoc
// @Summary Decrease stock of a product
// @Description Atomically removes the given amount from the product's stock quantity. Fails with 409 when the on-hand quantity is insufficient.
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param adjustment body AmountRequest true "Amount to remove"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Failure 409 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /inventory/{id}/stock/decrease [put]
func (h *Handlers) DecreaseStockHandler(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, false)
}

// adjustStock validates the request fully before the engine opens any
// transaction, so malformed requests never take a row lock.
func (h *Handlers) adjustStock(w http.ResponseWriter, r *http.Request, increase bool) {
	id, err := productID(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, statusError, err.Error())
		return
	}

	var req AmountRequest
	if err := readJSON(w, r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, statusError, "invalid input")
		return
	}

	if errs := validateAmount(req); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Status:  statusError,
			Message: errs[0].Description,
			Errors:  errs,
		})
		return
	}

	message := "stock incremented successfully"
	if increase {
		err = h.engine.Increase(r.Context(), id, *req.Amount)
	} else {
		err = h.engine.Decrease(r.Context(), id, *req.Amount)
		message = "stock decremented successfully"
	}
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, statusSuccess, message)
}

// GetLowStockHandler godoc
// @Summary List products below their low-stock threshold
// @Tags inventory
// @Produce json
// @Success 200 {object} ProductListResponse
// @Failure 500 {object} MessageResponse
// @Router /inventory/low-stock [get]
func (h *Handlers) GetLowStockHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetLowStock(r.Context())
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	message := "low stock products fetched successfully"
	if len(products) == 0 {
		message = "no low stock products found"
	}
	writeJSON(w, http.StatusOK, ProductListResponse{
		Status:   statusSuccess,
		Message:  message,
		Products: products,
	})
}
