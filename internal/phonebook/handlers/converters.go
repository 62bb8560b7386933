package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	e "github.com/gartstein/phonebook/internal/phonebook/errors"
	"github.com/gartstein/phonebook/internal/phonebook/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// companyRequest is the body of POST /companies.
type companyRequest struct {
	CompanyName      string `json:"companyName"`
	RegistrationDate string `json:"registrationDate"`
}

// personRequest is the body of POST and PUT /persons.
type personRequest struct {
	ID          uint   `json:"id"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	CompanyID   uint   `json:"companyId"`
	Version     uint   `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// requestToCompany converts a decoded request into a Company model.
func requestToCompany(req *companyRequest) (*models.Company, error) {
	registered, err := parseDate(req.RegistrationDate)
	if err != nil {
		return nil, err
	}
	return &models.Company{
		CompanyName:      req.CompanyName,
		RegistrationDate: registered,
	}, nil
}

// requestToPerson converts a decoded request into a Person model.
func requestToPerson(req *personRequest) *models.Person {
	return &models.Person{
		ID:          req.ID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		CompanyID:   req.CompanyID,
		Version:     req.Version,
	}
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Empty input
// yields the zero time, which the services reject as missing.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: registrationDate must be YYYY-MM-DD or RFC 3339", e.ErrInvalidInput)
}

// entityID reads the id from the route, falling back to the id query
// parameter used by PUT and DELETE without a path segment.
func entityID(r *http.Request) (uint, error) {
	raw, ok := mux.Vars(r)["id"]
	if !ok {
		raw = r.URL.Query().Get("id")
	}
	if raw == "" {
		return 0, fmt.Errorf("%w: id is required", e.ErrInvalidInput)
	}
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", e.ErrInvalidInput, raw)
	}
	return uint(id), nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", e.ErrInvalidInput)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// mapServiceError maps domain or repository errors to HTTP status codes and
// the message returned to the client.
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrDuplicateName):
		return http.StatusBadRequest, e.ErrDuplicateName.Error()
	case errors.Is(err, e.ErrInvalidInput), errors.Is(err, e.ErrIDMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrNotFound.Error()
	case errors.Is(err, e.ErrConcurrencyConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondError writes the mapped error. Internal errors are logged.
func respondError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, message := mapServiceError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Internal server error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestID(r.Context())),
		)
	}
	respondJSON(w, status, errorResponse{Error: strings.TrimSpace(message)})
}
