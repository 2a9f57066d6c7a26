package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"jobdesk/internal/bootstrap/logging"
	domainhauling "jobdesk/internal/domain/hauling"
	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/persistence/filter"
	"jobdesk/internal/usecase/joborders"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	body := errorBody{Error: err.Error()}

	var fieldErr *errs.FieldError
	if errors.As(err, &fieldErr) {
		body = errorBody{Error: fieldErr.Error(), Field: fieldErr.Field}
	}

	if status >= http.StatusInternalServerError {
		logging.Error(r.Context(), "request failed", slog.Any("err", errs.Loggable(err)))
		body = errorBody{Error: http.StatusText(status)}
	} else {
		logging.Info(r.Context(), "request rejected", slog.Int("status", status), slog.String("err", err.Error()))
	}
	writeJSON(w, status, body)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, filter.ErrInvalidCriteria),
		errs.IsInvalid(err),
		errors.Is(err, joborders.ErrUnknownPreset):
		return http.StatusBadRequest
	case errors.Is(err, joborder.ErrJobOrderNotFound),
		errors.Is(err, joborder.ErrCorrectionNotFound),
		errors.Is(err, workforce.ErrEmployeeNotFound),
		errors.Is(err, domainhauling.ErrForm3NotFound),
		errors.Is(err, domainhauling.ErrRecordNotFound),
		errors.Is(err, domainhauling.ErrIncidentNotFound):
		return http.StatusNotFound
	case errors.Is(err, joborder.ErrJobOrderArchived),
		errors.Is(err, joborder.ErrCorrectionResolved):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
