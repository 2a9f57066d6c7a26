package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
	"jobdesk/internal/usecase/hauling"
)

func (a *api) listJobOrders(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())
	f := ports.JobOrderFilter{
		Search:       q.str("search"),
		ServiceTypes: q.list("service_type"),
		Statuses:     q.list("status"),
		CreatorIDs:   q.ids("created_by"),
		Created:      q.dates("created"),
		Archived:     q.dates("archived"),
		OnlyArchived: q.flag("only_archived"),
		Sort:         q.sort(),
	}
	page := q.page()
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	var (
		res ports.PageResult[joborder.JobOrder]
		err error
	)
	if preset := q.str("preset"); preset != "" {
		res, err = a.JobOrders.ListWithPreset(r.Context(), callerFrom(r.Context()), preset, f, page)
	} else {
		res, err = a.JobOrders.ListJobOrders(r.Context(), callerFrom(r.Context()), f, page)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPageView(res, jobOrderOut))
}

func (a *api) listCorrections(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())
	f := ports.CorrectionFilter{
		Search:      q.str("search"),
		Statuses:    q.list("status"),
		CreatorIDs:  q.ids("created_by"),
		JobOrderIDs: q.ids("job_order_id"),
		Created:     q.dates("created"),
		LatestOnly:  q.flag("latest_only"),
	}
	page := q.page()
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	res, err := a.JobOrders.ListCorrections(r.Context(), callerFrom(r.Context()), f, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPageView(res, correctionOut))
}

func (a *api) listEmployees(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())
	f := ports.EmployeeFilter{
		Search:          q.str("search"),
		PositionIDs:     q.ids("position_id"),
		AccountStatuses: q.list("account_status"),
		Created:         q.dates("created"),
		Archived:        q.dates("archived"),
		OnlyArchived:    q.flag("only_archived"),
	}
	page := q.page()
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	res, err := a.Workforce.ListEmployees(r.Context(), f, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPageView(res, employeeOut))
}

func (a *api) listUsers(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())
	f := ports.UserFilter{
		Search:          q.str("search"),
		Roles:           q.list("role"),
		Created:         q.dates("created"),
		Deactivated:     q.dates("deactivated"),
		OnlyDeactivated: q.flag("only_deactivated"),
	}
	page := q.page()
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	res, err := a.Workforce.ListUsers(r.Context(), f, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPageView(res, userOut))
}

func (a *api) listTrucks(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())
	f := ports.TruckFilter{
		Search:       q.str("search"),
		Archived:     q.dates("archived"),
		OnlyArchived: q.flag("only_archived"),
	}
	page := q.page()
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	res, err := a.Workforce.ListTrucks(r.Context(), f, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPageView(res, truckOut))
}

func (a *api) listIncidents(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())
	f := ports.IncidentFilter{
		Statuses:         q.list("status"),
		JobOrderIDs:      q.ids("job_order_id"),
		HaulingRecordIDs: q.ids("hauling_record_id"),
		Created:          q.dates("created"),
		UnreadOnly:       q.flag("unread_only"),
	}
	page := q.page()
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}

	res, err := a.Hauling.ListIncidents(r.Context(), f, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPageView(res, incidentOut))
}

func (a *api) markIncidentRead(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, r, badParam("id", raw))
		return
	}
	if err := a.Hauling.MarkIncidentRead(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createHaulingRecordRequest struct {
	Form3ID    uint64  `json:"form3_id"`
	TruckID    *uint64 `json:"truck_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	WeightTons string  `json:"weight_tons"`
}

func (a *api) createHaulingRecord(w http.ResponseWriter, r *http.Request) {
	var req createHaulingRecordRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, errs.Invalid("body", "decode request: %v", err))
		return
	}

	record, err := a.Hauling.CreateHaulingRecord(r.Context(), hauling.CreateRecordInput{
		Form3ID:    req.Form3ID,
		TruckID:    req.TruckID,
		Date:       req.Date,
		Status:     req.Status,
		WeightTons: req.WeightTons,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, haulingRecordOut(record))
}

func (a *api) healthz(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok"}
	if a.Hauling != nil {
		at, found, err := a.Hauling.LastAutocomplete(r.Context())
		switch {
		case err != nil:
			logging.Warn(r.Context(), "read last auto-completion failed", slog.Any("err", errs.Loggable(err)))
		case found:
			body["hauling_autocomplete_last_run"] = at.Format(time.RFC3339)
		}
	}
	writeJSON(w, http.StatusOK, body)
}
