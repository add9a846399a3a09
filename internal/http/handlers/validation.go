package handlers

import "strings"

// FieldError describes a single failed validation check.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

const (
	nameMinLen = 3
	nameMaxLen = 50
)

func validateCreateProduct(req ProductCreateRequest) []FieldError {
	var errs []FieldError
	errs = append(errs, checkName(req.Name, true)...)
	errs = append(errs, checkDescription(req.Description, true)...)
	errs = append(errs, checkNonNegative("stock_quantity", req.StockQuantity, true)...)
	errs = append(errs, checkNonNegative("low_stock_threshold", req.LowStockThreshold, true)...)
	return errs
}

func validateUpdateProduct(req ProductUpdateRequest) []FieldError {
	var errs []FieldError
	errs = append(errs, checkName(req.Name, false)...)
	errs = append(errs, checkDescription(req.Description, false)...)
	errs = append(errs, checkNonNegative("stock_quantity", req.StockQuantity, false)...)
	errs = append(errs, checkNonNegative("low_stock_threshold", req.LowStockThreshold, false)...)
	return errs
}

func validateAmount(req AmountRequest) []FieldError {
	if req.Amount == nil {
		return []FieldError{{Field: "amount", Description: "amount is required"}}
	}
	if *req.Amount <= 0 {
		return []FieldError{{Field: "amount", Description: "amount must be a positive integer"}}
	}
	return nil
}

func checkName(name *string, required bool) []FieldError {
	if name == nil {
		if required {
			return []FieldError{{Field: "name", Description: "name is required"}}
		}
		return nil
	}
	if n := len(strings.TrimSpace(*name)); n < nameMinLen || n > nameMaxLen {
		return []FieldError{{Field: "name", Description: "name must be between 3 and 50 characters"}}
	}
	return nil
}

func checkDescription(description *string, required bool) []FieldError {
	if description == nil {
		if required {
			return []FieldError{{Field: "description", Description: "description is required"}}
		}
		return nil
	}
	if strings.TrimSpace(*description) == "" {
		return []FieldError{{Field: "description", Description: "description must not be empty"}}
	}
	return nil
}

func checkNonNegative(field string, value *int, required bool) []FieldError {
	if value == nil {
		if required {
			return []FieldError{{Field: field, Description: field + " is required"}}
		}
		return nil
	}
	if *value < 0 {
		return []FieldError{{Field: field, Description: field + " must not be negative"}}
	}
	return nil
}
