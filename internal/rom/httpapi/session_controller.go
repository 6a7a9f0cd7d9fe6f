package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gaitbase/internal/infra/httpserver"
	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/httpapi/internal"
	"gaitbase/internal/rom/usecases"
)

const (
	createPatientErrMessage = "failed to create patient"
	createROMErrMessage     = "failed to create rom"
	updateFieldErrMessage   = "failed to update field"
)

func NewSessionController(sessions usecases.SessionService, patients usecases.PatientService, reports usecases.ReportService) *SessionController {
	return &SessionController{
		sessions: sessions,
		patients: patients,
		reports:  reports,
		now:      time.Now,
	}
}

var _ httpserver.Controller = &SessionController{}

type SessionController struct {
	sessions usecases.SessionService
	patients usecases.PatientService
	reports  usecases.ReportService
	now      func() time.Time
}

func (c *SessionController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/catalogue", c.listFields())
	router.Handle("POST /v1/patients", c.createPatient())
	router.Handle("GET /v1/patients/{patient_id}", c.getPatient())
	router.Handle("POST /v1/roms", c.createROM())
	router.Handle("POST /v1/roms/{rom_id}/sessions", c.openROM())
	router.Handle("GET /v1/roms/{rom_id}/report", c.romReport())
	router.Handle("GET /v1/roms/{rom_id}/export", c.romExport())
	router.Handle("GET /v1/sessions/{id}", c.getSession())
	router.Handle("PUT /v1/sessions/{id}/fields/{name}", c.updateField())
	router.Handle("GET /v1/sessions/{id}/report", c.sessionReport())
	router.Handle("GET /v1/sessions/{id}/export", c.sessionExport())
	router.Handle("DELETE /v1/sessions/{id}", c.closeSession())
}

func (c *SessionController) listFields() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.ToFieldListResponse(c.sessions.Fields()))
	}
}

func (c *SessionController) createPatient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.PatientCreateRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, createPatientErrMessage)
			return
		}

		identity := body.ToDomain()
		id, err := c.patients.Create(r.Context(), identity)
		if err != nil {
			replyWithServiceError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.ToPatientResponse(id, identity))
	}
}

func (c *SessionController) getPatient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpserver.GetPathParamInt64(r, "patient_id")
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		identity, err := c.patients.Get(r.Context(), id)
		if err != nil {
			replyWithServiceError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.ToPatientResponse(id, identity))
	}
}

func (c *SessionController) createROM() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.ROMCreateRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil || body.PatientID <= 0 {
			httpserver.ReplyWithError(w, http.StatusBadRequest, createROMErrMessage)
			return
		}

		session, err := c.sessions.Create(r.Context(), body.PatientID)
		if err != nil {
			replyWithServiceError(w, err)
			return
		}

		session.Lock()
		defer session.Unlock()
		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.ToSessionResponse(session))
	}
}

func (c *SessionController) openROM() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		romID, err := httpserver.GetPathParamInt64(r, "rom_id")
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		session, err := c.sessions.Open(r.Context(), romID)
		if err != nil {
			replyWithServiceError(w, err)
			return
		}

		session.Lock()
		defer session.Unlock()
		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.ToSessionResponse(session))
	}
}

func (c *SessionController) romReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := c.romSnapshot(w, r)
		if !ok {
			return
		}
		c.replyWithReport(w, r, snapshot)
	}
}

func (c *SessionController) romExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := c.romSnapshot(w, r)
		if !ok {
			return
		}
		c.replyWithExport(w, r, snapshot)
	}
}

func (c *SessionController) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := c.sessions.Get(r.PathValue("id"))
		if err != nil {
			replyWithServiceError(w, err)
			return
		}

		session.Lock()
		defer session.Unlock()
		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.ToSessionResponse(session))
	}
}

func (c *SessionController) updateField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.FieldUpdateRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, updateFieldErrMessage)
			return
		}
		input, err := body.ToInput()
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		session, err := c.sessions.Get(r.PathValue("id"))
		if err != nil {
			replyWithServiceError(w, err)
			return
		}

		session.Lock()
		update, err := session.Edit(r.Context(), r.PathValue("name"), input)
		session.Unlock()
		if err != nil {
			replyWithServiceError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.ToFieldUpdateResponse(update))
	}
}

func (c *SessionController) sessionReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := c.sessionSnapshot(w, r)
		if !ok {
			return
		}
		c.replyWithReport(w, r, snapshot)
	}
}

func (c *SessionController) sessionExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := c.sessionSnapshot(w, r)
		if !ok {
			return
		}
		c.replyWithExport(w, r, snapshot)
	}
}

func (c *SessionController) closeSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		force := httpserver.GetQueryParamBool(r, "force", false)
		if err := c.sessions.Close(r.Context(), r.PathValue("id"), force); err != nil {
			replyWithServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (c *SessionController) romSnapshot(w http.ResponseWriter, r *http.Request) (domain.Snapshot, bool) {
	romID, err := httpserver.GetPathParamInt64(r, "rom_id")
	if err != nil {
		httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
		return domain.Snapshot{}, false
	}

	snapshot, err := c.sessions.Snapshot(r.Context(), romID)
	if err != nil {
		replyWithServiceError(w, err)
		return domain.Snapshot{}, false
	}
	return snapshot, true
}

func (c *SessionController) sessionSnapshot(w http.ResponseWriter, r *http.Request) (domain.Snapshot, bool) {
	session, err := c.sessions.Get(r.PathValue("id"))
	if err != nil {
		replyWithServiceError(w, err)
		return domain.Snapshot{}, false
	}

	session.Lock()
	defer session.Unlock()
	return session.Snapshot(), true
}

func (c *SessionController) replyWithReport(w http.ResponseWriter, r *http.Request, snapshot domain.Snapshot) {
	units := httpserver.GetQueryParamBool(r, "units", true)
	text, err := c.reports.Text(r.Context(), snapshot, units)
	if err != nil {
		replyWithServiceError(w, err)
		return
	}
	httpserver.ReplyTextResponse(w, http.StatusOK, text)
}

func (c *SessionController) replyWithExport(w http.ResponseWriter, r *http.Request, snapshot domain.Snapshot) {
	format, err := usecases.ParseExportFormat(httpserver.GetQueryParam(r, "format"))
	if err != nil {
		httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := usecases.ExportFileName(snapshot.Identity(), format, c.now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if err := usecases.Export(w, snapshot, format); err != nil {
		slog.Error("writing export", slog.String("file", name), slog.Any("error", err))
	}
}

func replyWithServiceError(w http.ResponseWriter, err error) {
	var unknownField *domain.UnknownFieldError
	var readOnly *domain.ReadOnlyFieldError
	var invalidState *domain.InvalidStateError
	var configuration *domain.ConfigurationError

	switch {
	case errors.As(err, &unknownField),
		errors.Is(err, usecases.ErrSessionNotFound),
		errors.Is(err, usecases.ErrROMNotFound),
		errors.Is(err, usecases.ErrPatientNotFound):
		httpserver.ReplyWithError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &readOnly),
		errors.As(err, &invalidState),
		errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrInvalidDate):
		httpserver.ReplyWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, usecases.ErrSessionBusy):
		httpserver.ReplyWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecases.ErrPatientCodeRequired):
		httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &configuration):
		slog.Error("configuration error", slog.Any("error", err))
		httpserver.ReplyWithError(w, http.StatusInternalServerError, err.Error())
	default:
		slog.Error("request failed", slog.Any("error", err))
		httpserver.ReplyWithError(w, http.StatusInternalServerError, "internal error")
	}
}
