package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/inventory-api/internal/models"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the inventory. The (name, description) pair must be unique.
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductCreateRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} MessageResponse
// @Router /products [post]
func (h *Handlers) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductCreateRequest
	if err := readJSON(w, r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, statusError, "invalid input")
		return
	}

	if errs := validateCreateProduct(req); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Status:  statusError,
			Message: errs[0].Description,
			Errors:  errs,
		})
		return
	}

	created, err := h.products.Create(r.Context(), models.Product{
		Name:              *req.Name,
		Description:       *req.Description,
		StockQuantity:     *req.StockQuantity,
		LowStockThreshold: *req.LowStockThreshold,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ProductResponse{
		Status:  statusSuccess,
		Message: "product created successfully",
		Product: created,
	})
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {object} ProductListResponse
// @Failure 500 {object} MessageResponse
// @Router /products [get]
func (h *Handlers) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAll(r.Context())
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	message := "products fetched successfully"
	if len(products) == 0 {
		message = "no products found"
	}
	writeJSON(w, http.StatusOK, ProductListResponse{
		Status:   statusSuccess,
		Message:  message,
		Products: products,
	})
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /products/{id} [get]
func (h *Handlers) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, statusError, err.Error())
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductResponse{
		Status:  statusSuccess,
		Message: "product fetched successfully",
		Product: product,
	})
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Partial update: only supplied fields are replaced.
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductUpdateRequest true "Fields to update"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Router /products/{id} [put]
func (h *Handlers) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, statusError, err.Error())
		return
	}

	var req ProductUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, statusError, "invalid input")
		return
	}

	if errs := validateUpdateProduct(req); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Status:  statusError,
			Message: errs[0].Description,
			Errors:  errs,
		})
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	// Merge supplied fields onto the current record; absent fields keep
	// their prior values.
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}

	updated, err := h.products.Update(r.Context(), product)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductResponse{
		Status:  statusSuccess,
		Message: "product updated successfully",
		Product: updated,
	})
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /products/{id} [delete]
func (h *Handlers) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, statusError, err.Error())
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, statusSuccess, "product deleted successfully")
}
