package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/inventory-api/internal/repo"
	"github.com/rogerio-castellano/inventory-api/internal/stock"
)

const (
	statusSuccess = "success"
	statusError   = "error"
	statusFailed  = "failed"
)

// readJSON decodes the request body into data, rejecting bodies over one
// megabyte or containing more than a single JSON value.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	out, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// productID parses the {id} route parameter as a positive integer.
func productID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

// respondMessage writes a bare {status, message} envelope.
func respondMessage(w http.ResponseWriter, code int, status, message string) {
	writeJSON(w, code, MessageResponse{Status: status, Message: message})
}

// respondDomainError maps store and engine errors to the HTTP taxonomy.
// Unexpected failures are sanitized: internal detail goes to the log, not to
// the client.
func (h *Handlers) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		respondMessage(w, http.StatusNotFound, statusError, "product not found")
	case errors.Is(err, repo.ErrProductExists):
		respondMessage(w, http.StatusConflict, statusError, "product already exists with same name and description")
	case errors.Is(err, stock.ErrInsufficientStock):
		respondMessage(w, http.StatusConflict, statusError, "insufficient stock available")
	case errors.Is(err, stock.ErrInvalidAmount):
		respondMessage(w, http.StatusBadRequest, statusError, "amount must be a positive integer")
	case errors.Is(err, repo.ErrStoreUnavailable):
		h.log.Error().Err(err).Msg("store unavailable")
		respondMessage(w, http.StatusInternalServerError, statusFailed,
			"Database connection failed. Please verify that your database server is running and accessible.")
	default:
		h.log.Error().Err(err).Msg("unexpected error")
		respondMessage(w, http.StatusInternalServerError, statusFailed, "Something went wrong!")
	}
}
