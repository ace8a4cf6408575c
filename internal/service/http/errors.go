package httpsvc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// Коды ошибок в теле ответа.
const (
	CodeNotFound          = "not_found"
	CodeInvalidRequest    = "invalid_request"
	CodeInvalidTransition = "invalid_transition"
	CodeUnavailable       = "product_unavailable"
	CodeOutOfStock        = "inventory_unavailable"
	CodeConflict          = "conflict"
	CodePaymentFailed     = "payment_failed"
	CodeNotImplemented    = "not_implemented"
	CodeInternal          = "internal"
)

var (
	errBadRequest = errors.New("bad request")
	// errNoStock возвращается, если API собран без складского учёта.
	errNoStock = errors.New("stock tracking is not configured")
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify сопоставляет доменную ошибку с HTTP-статусом и кодом.
func classify(err error) (int, string) {
	var validationErrs validator.ValidationErrors
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, CodeNotFound
	case errors.As(err, &validationErrs),
		errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidOrder),
		errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidCustomer),
		errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict, CodeInvalidTransition
	case errors.Is(err, domain.ErrProductUnavailable):
		return http.StatusConflict, CodeUnavailable
	case errors.Is(err, domain.ErrInventoryReservation):
		return http.StatusConflict, CodeOutOfStock
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrOrderAlreadyExists):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, domain.ErrPaymentFailed):
		return http.StatusPaymentRequired, CodePaymentFailed
	case errors.Is(err, errNoStock):
		return http.StatusNotImplemented, CodeNotImplemented
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		message = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decode читает JSON-тело и валидирует его тегами validate.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed json body: %w", errBadRequest, err)
	}
	return h.validate.Struct(dst)
}
