package checkinhandler

import (
	"encoding/json"
	"net/http"

	"checkin/internal/domain/checkin"
	"checkin/internal/transport/http/api"
	"checkin/internal/transport/http/middleware"
	"checkin/internal/transport/http/shared"
)

type openFormRequest struct {
	ID              string              `json:"id" validate:"omitempty,uuid"`
	PresetSubjectID string              `json:"presetSubjectId" validate:"omitempty,uuid"`
	TeamMemberID    string              `json:"teamMemberId" validate:"omitempty,uuid"`
	Type            string              `json:"type" validate:"omitempty,oneof=quarterly annual"`
	ReviewDate      string              `json:"reviewDate"`
	Annual          *checkin.AnnualData `json:"annual"`
}

type formResponse struct {
	*checkin.Form
	Quarter      string         `json:"quarter"`
	Year         int            `json:"year"`
	RatingLabels map[int]string `json:"ratingLabels"`
}

func newFormResponse(form *checkin.Form) formResponse {
	labels := make(map[int]string, checkin.MaxGrowthRating)
	for rating := checkin.MinGrowthRating; rating <= checkin.MaxGrowthRating; rating++ {
		labels[rating] = checkin.RatingLabel(rating)
	}
	return formResponse{Form: form, Quarter: form.Quarter(), Year: form.Year(), RatingLabels: labels}
}

// handleOpenForm builds form state for a new or existing check-in, applies any
// edits the client sends along and loads the subject-derived annual sections.
func (h *Handler) handleOpenForm(w http.ResponseWriter, r *http.Request) {
	var payload openFormRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	reviewDate, err := shared.ParseDate(payload.ReviewDate)
	if err != nil {
		validator.Add("reviewDate", "must be a valid date in YYYY-MM-DD format")
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	form, err := h.Service.OpenForm(r.Context(), payload.ID, payload.PresetSubjectID, h.now())
	if err != nil {
		failCheckIn(w, r, err, "checkin_form_failed", "failed to open check-in form")
		return
	}

	subject := form.TeamMemberID
	if err := applyFields(form, payload.TeamMemberID, payload.Type, reviewDate, payload.Annual); err != nil {
		failCheckIn(w, r, err, "checkin_form_failed", "failed to open check-in form")
		return
	}
	if form.TeamMemberID != subject {
		h.Service.LoadSubjectName(r.Context(), form)
	}
	if form.Type == checkin.TypeAnnual {
		h.Service.LoadAnnual(r.Context(), form)
	}

	api.Success(w, newFormResponse(form), middleware.GetRequestID(r.Context()))
}

type annualSectionRequest struct {
	TeamMemberID string          `json:"teamMemberId" validate:"omitempty,uuid"`
	Current      json.RawMessage `json:"current"`
}

func (h *Handler) handleMaturitySnapshot(w http.ResponseWriter, r *http.Request) {
	var payload annualSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var current []checkin.MaturitySnapshotEntry
	if !decodeCurrent(w, r, payload, &current) {
		return
	}
	snapshot := h.Service.LoadMaturitySnapshot(r.Context(), payload.TeamMemberID, current)
	api.Success(w, snapshot, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGrowthAreas(w http.ResponseWriter, r *http.Request) {
	var payload annualSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var current []checkin.GrowthAreaEntry
	if !decodeCurrent(w, r, payload, &current) {
		return
	}
	areas := h.Service.LoadGrowthAreas(r.Context(), payload.TeamMemberID, current)
	api.Success(w, areas, middleware.GetRequestID(r.Context()))
}

func decodeCurrent(w http.ResponseWriter, r *http.Request, payload annualSectionRequest, dst any) bool {
	validator := shared.NewValidator()
	validator.Struct(payload)
	if len(payload.Current) > 0 && string(payload.Current) != "null" {
		if err := json.Unmarshal(payload.Current, dst); err != nil {
			validator.Add("current", "must be a list of entries")
		}
	}
	return !validator.Reject(w, middleware.GetRequestID(r.Context()))
}
