package handlers

import "github.com/rogerio-castellano/inventory-api/internal/models"

// All responses share the {status, message, ...payload} envelope.
// status is "success" for 2xx, "error" for client failures and "failed" for
// server failures.

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ProductResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Product models.Product `json:"product"`
}

type ProductListResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Products []models.Product `json:"products"`
}

type ValidationErrorResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type ImportResultResponse struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// ProductCreateRequest carries the create payload. Pointer fields distinguish
// absent values from zero values.
type ProductCreateRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	StockQuantity     *int    `json:"stock_quantity"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
}

// ProductUpdateRequest carries a partial update; only supplied fields are
// replaced.
type ProductUpdateRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	StockQuantity     *int    `json:"stock_quantity"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
}

// AmountRequest is the body of the stock increase/decrease endpoints.
type AmountRequest struct {
	Amount *int `json:"amount"`
}
