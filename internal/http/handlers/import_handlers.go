package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/inventory-api/internal/models"
)

type csvRow struct {
	line              int
	name              string
	description       string
	stockQuantity     int
	lowStockThreshold int
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Multipart upload with a "file" field. Expected columns: name, description, stock_quantity, low_stock_threshold. Invalid rows are reported and skipped.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportResultResponse
// @Failure 400 {object} MessageResponse
// @Router /products/import [post]
func (h *Handlers) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		respondMessage(w, http.StatusBadRequest, statusError, "missing file upload")
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, statusError, err.Error())
		return
	}

	imported := 0
	var rowErrors []string
	for _, row := range rows {
		if err := validateRow(row); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", row.line, err))
			continue
		}
		_, err := h.products.Create(r.Context(), models.Product{
			Name:              row.name,
			Description:       row.description,
			StockQuantity:     row.stockQuantity,
			LowStockThreshold: row.lowStockThreshold,
		})
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", row.line, err))
			continue
		}
		imported++
	}

	writeJSON(w, http.StatusOK, ImportResultResponse{
		Status:   statusSuccess,
		Message:  fmt.Sprintf("%d product(s) imported", imported),
		Imported: imported,
		Errors:   rowErrors,
	})
}

func parseCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, header := range headers {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"name", "description", "stock_quantity", "low_stock_threshold"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", required)
		}
	}

	var rows []csvRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}
		line++

		rows = append(rows, csvRow{
			line:              line,
			name:              record[index["name"]],
			description:       record[index["description"]],
			stockQuantity:     parseInt(record[index["stock_quantity"]]),
			lowStockThreshold: parseInt(record[index["low_stock_threshold"]]),
		})
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	if n := len(strings.TrimSpace(r.name)); n < nameMinLen || n > nameMaxLen {
		return errors.New("name must be between 3 and 50 characters")
	}
	if strings.TrimSpace(r.description) == "" {
		return errors.New("description must not be empty")
	}
	if r.stockQuantity < 0 {
		return errors.New("stock_quantity must not be negative")
	}
	if r.lowStockThreshold < 0 {
		return errors.New("low_stock_threshold must not be negative")
	}
	return nil
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}
