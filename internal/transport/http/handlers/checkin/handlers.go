package checkinhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"checkin/internal/domain/audit"
	"checkin/internal/domain/auth"
	"checkin/internal/domain/checkin"
	"checkin/internal/transport/http/api"
	"checkin/internal/transport/http/middleware"
	"checkin/internal/transport/http/shared"
)

const (
	auditEntityCheckIn  = "checkin"
	auditActionCreate   = "performance.checkin.create"
	auditActionUpdate   = "performance.checkin.update"
	idempotencyEndpoint = "performance.checkin.save"
)

type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
	List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error)
}

type IdempotencyStore interface {
	Check(ctx context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error)
	Save(ctx context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error
}

type Handler struct {
	Service     *checkin.Service
	Perms       middleware.PermissionStore
	Audit       AuditRecorder
	Idempotency IdempotencyStore
	Now         func() time.Time
}

func NewHandler(service *checkin.Service, perms middleware.PermissionStore, auditSvc AuditRecorder, idem IdempotencyStore) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Idempotency: idem, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)
	write := middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)

	r.With(read).Get("/team-members", h.handleListTeamMembers)
	r.With(read).Get("/skills", h.handleListSkills)
	r.With(read).Get("/reflection-questions", h.handleReflectionQuestions)
	r.Route("/checkins", func(r chi.Router) {
		r.With(read).Get("/", h.handleListCheckIns)
		r.With(write).Post("/", h.handleSaveCheckIn)
		r.With(write).Post("/form", h.handleOpenForm)
		r.With(read).Get("/{checkinID}", h.handleGetCheckIn)
		r.With(write).Put("/{checkinID}", h.handleSaveCheckIn)
		r.With(read).Get("/{checkinID}/pdf", h.handleExportPDF)
		r.With(read).Get("/{checkinID}/history", h.handleHistory)
	})
	r.Route("/annual", func(r chi.Router) {
		r.With(write).Post("/maturity-snapshot", h.handleMaturitySnapshot)
		r.With(write).Post("/growth-areas", h.handleGrowthAreas)
	})
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handler) handleListTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.ListSubjects(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "team_member_list_failed", "failed to list team members", middleware.GetRequestID(r.Context()))
		return
	}
	if members == nil {
		members = []checkin.TeamMember{}
	}
	api.Success(w, members, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.Service.ListSkills(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "skill_list_failed", "failed to list skills", middleware.GetRequestID(r.Context()))
		return
	}
	type skillOption struct {
		checkin.Skill
		DisplayName string `json:"displayName"`
	}
	out := make([]skillOption, 0, len(skills))
	for _, skill := range skills {
		out = append(out, skillOption{Skill: skill, DisplayName: skill.DisplayName()})
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReflectionQuestions(w http.ResponseWriter, r *http.Request) {
	api.Success(w, checkin.ReflectionQuestions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCheckIns(w http.ResponseWriter, r *http.Request) {
	filter := checkin.ListFilter{
		TeamMemberID: r.URL.Query().Get("teamMemberId"),
		ManagerID:    r.URL.Query().Get("managerId"),
		Type:         checkin.ReviewType(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))),
	}
	validator := shared.NewValidator()
	validator.Enum("type", string(filter.Type), []string{string(checkin.TypeQuarterly), string(checkin.TypeAnnual)}, "must be one of: quarterly annual")
	if filter.TeamMemberID != "" && !validID(filter.TeamMemberID) {
		validator.Add("teamMemberId", "must be a valid id")
	}
	if filter.ManagerID != "" && !validID(filter.ManagerID) {
		validator.Add("managerId", "must be a valid id")
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	records, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checkin_list_failed", "failed to list check-ins", middleware.GetRequestID(r.Context()))
		return
	}
	if records == nil {
		records = []checkin.CheckIn{}
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetCheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := checkInID(w, r)
	if !ok {
		return
	}
	record, err := h.Service.Get(r.Context(), id)
	if err != nil {
		failCheckIn(w, r, err, "checkin_get_failed", "failed to load check-in")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

type saveRequest struct {
	ID           string              `json:"id" validate:"omitempty,uuid"`
	TeamMemberID string              `json:"teamMemberId" validate:"required,uuid"`
	Type         string              `json:"type" validate:"required,oneof=quarterly annual"`
	ReviewDate   string              `json:"reviewDate" validate:"required"`
	Annual       *checkin.AnnualData `json:"annual"`
}

func (h *Handler) handleSaveCheckIn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var payload saveRequest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if pathID := chi.URLParam(r, "checkinID"); pathID != "" {
		if payload.ID != "" && payload.ID != pathID {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "id does not match path", middleware.GetRequestID(r.Context()))
			return
		}
		payload.ID = pathID
	}

	validator := shared.NewValidator()
	validator.Struct(payload)
	reviewDate, _ := validator.Date("reviewDate", payload.ReviewDate)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	// hash covers the target id as well as the body
	requestHash := middleware.RequestHash(append([]byte(payload.ID+"\n"), body...))
	if idempotencyKey != "" && h.Idempotency != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, idempotencyEndpoint, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Success(w, json.RawMessage(stored), middleware.GetRequestID(r.Context()))
			return
		}
	}

	var before *checkin.CheckIn
	if payload.ID != "" {
		current, err := h.Service.Get(r.Context(), payload.ID)
		if err != nil {
			failCheckIn(w, r, err, "checkin_get_failed", "failed to load check-in")
			return
		}
		before = &current
	}

	form := checkin.NewForm(before, "", h.now())
	if err := applyFields(form, payload.TeamMemberID, payload.Type, reviewDate, payload.Annual); err != nil {
		failCheckIn(w, r, err, "checkin_save_failed", "failed to save check-in")
		return
	}

	saved, err := h.Service.Save(r.Context(), form, user.UserID)
	if err != nil {
		failCheckIn(w, r, err, "checkin_save_failed", "failed to save check-in")
		return
	}

	action := auditActionCreate
	var auditBefore any
	if before != nil {
		action = auditActionUpdate
		auditBefore = before
	}
	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.UserID, action, auditEntityCheckIn, saved.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), auditBefore, saved); err != nil {
			slog.Warn("audit "+action+" failed", "err", err)
		}
	}

	if idempotencyKey != "" && h.Idempotency != nil {
		encoded, err := json.Marshal(saved)
		if err != nil {
			slog.Warn("idempotency response marshal failed", "err", err)
		} else if err := h.Idempotency.Save(r.Context(), user.UserID, idempotencyEndpoint, idempotencyKey, requestHash, encoded); err != nil {
			slog.Warn("idempotency save failed", "err", err)
		}
	}

	if before == nil {
		api.Created(w, saved, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := checkInID(w, r)
	if !ok {
		return
	}
	content, err := h.Service.ExportPDF(r.Context(), id)
	if err != nil {
		failCheckIn(w, r, err, "checkin_export_failed", "failed to export check-in")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=checkin-%s.pdf", id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		slog.Warn("checkin pdf write failed", "err", err)
	}
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := checkInID(w, r)
	if !ok {
		return
	}
	if h.Audit == nil {
		api.Success(w, []audit.Event{}, middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	events, err := h.Audit.List(r.Context(), audit.Filter{EntityType: auditEntityCheckIn, EntityID: id}, false, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checkin_history_failed", "failed to load check-in history", middleware.GetRequestID(r.Context()))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

// applyFields copies submitted values onto the form through its setters.
func applyFields(form *checkin.Form, teamMemberID, reviewType string, reviewDate time.Time, annual *checkin.AnnualData) error {
	if teamMemberID != "" {
		if err := form.SetSubject(teamMemberID); err != nil {
			return err
		}
	}
	if reviewType != "" {
		if err := form.SetType(checkin.ReviewType(reviewType)); err != nil {
			return err
		}
	}
	if !reviewDate.IsZero() {
		form.SetReviewDate(reviewDate)
	}
	if annual != nil {
		if annual.ReflectionQuestions != nil {
			form.Annual.ReflectionQuestions = checkin.NormalizeReflection(annual.ReflectionQuestions)
		}
		if annual.PeerFeedback != nil {
			form.Annual.PeerFeedback = annual.PeerFeedback
		}
		if annual.MaturitySnapshot != nil {
			form.Annual.MaturitySnapshot = annual.MaturitySnapshot
		}
		if annual.GrowthAreas != nil {
			form.Annual.GrowthAreas = annual.GrowthAreas
		}
	}
	return nil
}

func checkInID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "checkinID")
	if !validID(id) {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid check-in id", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return id, true
}

func validID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func failCheckIn(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, checkin.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "check-in not found", requestID)
	case errors.Is(err, checkin.ErrSubjectLocked), errors.Is(err, checkin.ErrSaveInFlight):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.Is(err, checkin.ErrSubjectRequired),
		errors.Is(err, checkin.ErrInvalidType),
		errors.Is(err, checkin.ErrReviewDateRequired),
		errors.Is(err, checkin.ErrManagerRequired),
		errors.Is(err, checkin.ErrInvalidRating):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
