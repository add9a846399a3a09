package http_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
)

func stockPath(id int, op string) string {
	return fmt.Sprintf("/api/v1/inventory/%d/stock/%s", id, op)
}

func productQuantity(t *testing.T, r http.Handler, id int) int {
	t.Helper()
	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching product, got %d", w.Code)
	}
	resp := decodeBody(t, w)
	product := resp["product"].(map[string]any)
	return int(product["stock_quantity"].(float64))
}

func TestStockAdjustment_Scenario(t *testing.T) {
	r, _ := newTestRouter()

	// Create: 40 on hand, threshold 3.
	id := createProduct(t, r, "samsung s25", "new faster iphone", 40, 3)

	// Increase by 10 -> 50.
	w := doJSON(r, http.MethodPut, stockPath(id, "increase"), map[string]any{"amount": 10})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on increase, got %d: %s", w.Code, w.Body.String())
	}
	if got := productQuantity(t, r, id); got != 50 {
		t.Fatalf("expected quantity 50, got %d", got)
	}

	// Decrease by 10 -> back to 40.
	w = doJSON(r, http.MethodPut, stockPath(id, "decrease"), map[string]any{"amount": 10})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on decrease, got %d", w.Code)
	}
	if got := productQuantity(t, r, id); got != 40 {
		t.Fatalf("expected quantity 40, got %d", got)
	}

	// Decrease by 50: insufficient stock, quantity unchanged.
	w = doJSON(r, http.MethodPut, stockPath(id, "decrease"), map[string]any{"amount": 50})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on oversized decrease, got %d", w.Code)
	}
	resp := decodeBody(t, w)
	if resp["message"] != "insufficient stock available" {
		t.Errorf("unexpected message %v", resp["message"])
	}
	if got := productQuantity(t, r, id); got != 40 {
		t.Fatalf("expected quantity still 40, got %d", got)
	}

	// 40 >= 3: the product must not appear in the low-stock listing.
	w = doJSON(r, http.MethodGet, "/api/v1/inventory/low-stock", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on low-stock, got %d", w.Code)
	}
	resp = decodeBody(t, w)
	if products, ok := resp["products"].([]any); ok {
		for _, p := range products {
			if int(p.(map[string]any)["id"].(float64)) == id {
				t.Errorf("product with quantity >= threshold listed as low stock")
			}
		}
	}
}

func TestStockAdjustment_Validation(t *testing.T) {
	r, _ := newTestRouter()
	id := createProduct(t, r, "Laptop", "14 inch ultrabook", 5, 2)

	tests := []struct {
		name       string
		path       string
		payload    map[string]any
		expectCode int
	}{
		{"missing amount", stockPath(id, "increase"), map[string]any{}, http.StatusBadRequest},
		{"zero amount", stockPath(id, "increase"), map[string]any{"amount": 0}, http.StatusBadRequest},
		{"negative amount", stockPath(id, "decrease"), map[string]any{"amount": -5}, http.StatusBadRequest},
		{"non-numeric amount", stockPath(id, "increase"), map[string]any{"amount": "ten"}, http.StatusBadRequest},
		{"non-numeric id", "/api/v1/inventory/abc/stock/increase", map[string]any{"amount": 1}, http.StatusBadRequest},
		{"missing product", stockPath(999, "increase"), map[string]any{"amount": 1}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPut, tt.path, tt.payload)
			if w.Code != tt.expectCode {
				t.Errorf("expected %d, got %d: %s", tt.expectCode, w.Code, w.Body.String())
			}
		})
	}

	// None of the rejected requests may have touched the quantity.
	if got := productQuantity(t, r, id); got != 5 {
		t.Errorf("expected quantity 5 after rejected adjustments, got %d", got)
	}
}

func TestLowStockHandler(t *testing.T) {
	r, _ := newTestRouter()
	lowID := createProduct(t, r, "Cable", "USB-C cable", 1, 5)
	createProduct(t, r, "Charger", "65W charger", 50, 5)
	createProduct(t, r, "Adapter", "HDMI adapter", 5, 5) // at threshold, not low

	w := doJSON(r, http.MethodGet, "/api/v1/inventory/low-stock", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeBody(t, w)
	products := resp["products"].([]any)
	if len(products) != 1 {
		t.Fatalf("expected 1 low-stock product, got %d", len(products))
	}
	if int(products[0].(map[string]any)["id"].(float64)) != lowID {
		t.Errorf("wrong product in low-stock listing")
	}
}

func TestConcurrentIncreasesOverHTTP(t *testing.T) {
	r, _ := newTestRouter()
	id := createProduct(t, r, "Laptop", "14 inch ultrabook", 100, 2)

	const n = 30
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			w := doJSON(r, http.MethodPut, stockPath(id, "increase"), map[string]any{"amount": 1})
			if w.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", w.Code)
			}
		}()
	}
	wg.Wait()

	if got := productQuantity(t, r, id); got != 100+n {
		t.Errorf("expected quantity %d, got %d (lost updates)", 100+n, got)
	}
}
