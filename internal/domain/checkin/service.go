package checkin

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListSubjects(ctx context.Context) ([]TeamMember, error) {
	return s.store.ListActiveTeamMembers(ctx)
}

func (s *Service) ListSkills(ctx context.Context) ([]Skill, error) {
	return s.store.ListSkills(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (CheckIn, error) {
	return s.store.GetCheckIn(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]CheckIn, error) {
	return s.store.ListCheckIns(ctx, filter)
}

// OpenForm builds the form for an existing check-in (existingID) or a new
// one, resolves the subject name and, for annual check-ins, loads the
// maturity snapshot and growth areas.
func (s *Service) OpenForm(ctx context.Context, existingID, presetSubjectID string, today time.Time) (*Form, error) {
	var existing *CheckIn
	if existingID != "" {
		record, err := s.store.GetCheckIn(ctx, existingID)
		if err != nil {
			return nil, err
		}
		existing = &record
	}
	form := NewForm(existing, presetSubjectID, today)
	s.LoadSubjectName(ctx, form)
	if form.Type == TypeAnnual {
		s.LoadAnnual(ctx, form)
	}
	return form, nil
}

// LoadSubjectName resolves the display name of the form's subject. A failed
// lookup leaves the name empty.
func (s *Service) LoadSubjectName(ctx context.Context, form *Form) {
	if form.TeamMemberID == "" {
		form.SubjectName = ""
		return
	}
	members, err := s.store.ListActiveTeamMembers(ctx)
	if err != nil {
		slog.Warn("checkin subject list failed", "err", err)
	}
	form.ResolveSubjectName(members)
}

// LoadAnnual refreshes the subject-derived annual sections of the form.
func (s *Service) LoadAnnual(ctx context.Context, form *Form) {
	form.Annual.MaturitySnapshot = s.LoadMaturitySnapshot(ctx, form.TeamMemberID, form.Annual.MaturitySnapshot)
	form.Annual.GrowthAreas = s.LoadGrowthAreas(ctx, form.TeamMemberID, form.Annual.GrowthAreas)
}

// LoadMaturitySnapshot recomputes the subject's snapshot and merges it with
// current. When any lookup fails current is returned unchanged.
func (s *Service) LoadMaturitySnapshot(ctx context.Context, teamMemberID string, current []MaturitySnapshotEntry) []MaturitySnapshotEntry {
	if teamMemberID == "" {
		return nonNil(current)
	}
	fresh, err := s.buildMaturitySnapshot(ctx, teamMemberID)
	if err != nil {
		slog.Warn("maturity snapshot load failed", "teamMemberId", teamMemberID, "err", err)
		return nonNil(current)
	}
	return MergeMaturitySnapshot(current, fresh)
}

func (s *Service) buildMaturitySnapshot(ctx context.Context, teamMemberID string) ([]MaturitySnapshotEntry, error) {
	ratings, err := s.store.ListMaturityRatings(ctx, teamMemberID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	if len(ratings) == 0 {
		return []MaturitySnapshotEntry{}, nil
	}

	seen := map[string]bool{}
	skillIDs := make([]string, 0, len(ratings))
	for _, rating := range ratings {
		if !seen[rating.SkillID] {
			seen[rating.SkillID] = true
			skillIDs = append(skillIDs, rating.SkillID)
		}
	}
	mappings, err := s.store.ListCategoryMappings(ctx, skillIDs)
	if err != nil {
		return nil, fmt.Errorf("list category mappings: %w", err)
	}
	levels, err := s.store.ListLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	if unranked := UnrankedLevels(levels); len(unranked) > 0 {
		slog.Warn("maturity levels without rank", "levels", unranked)
	}
	return BuildMaturitySnapshot(ratings, mappings, levels), nil
}

// LoadGrowthAreas seeds growth areas from the subject's history. Entries the
// caller already holds are never replaced.
func (s *Service) LoadGrowthAreas(ctx context.Context, teamMemberID string, current []GrowthAreaEntry) []GrowthAreaEntry {
	if len(current) > 0 {
		return current
	}
	if teamMemberID == "" {
		return BuildGrowthAreas(nil)
	}
	history, err := s.store.ListGrowthHistory(ctx, teamMemberID)
	if err != nil {
		slog.Warn("growth area history load failed", "teamMemberId", teamMemberID, "err", err)
		history = nil
	}
	return BuildGrowthAreas(history)
}

// Save persists the form as a single row: an update when the form carries
// an id, an insert otherwise. On success the form adopts the stored id.
func (s *Service) Save(ctx context.Context, form *Form, managerID string) (CheckIn, error) {
	if managerID == "" {
		return CheckIn{}, ErrManagerRequired
	}
	if err := form.Validate(); err != nil {
		return CheckIn{}, err
	}
	if err := form.BeginSave(); err != nil {
		return CheckIn{}, err
	}
	defer form.EndSave()

	payload := form.Payload(managerID)
	var (
		saved CheckIn
		err   error
	)
	if payload.ID != "" {
		saved, err = s.store.UpdateCheckIn(ctx, payload)
	} else {
		saved, err = s.store.InsertCheckIn(ctx, payload)
	}
	if err != nil {
		slog.Warn("checkin save failed", "id", payload.ID, "teamMemberId", payload.TeamMemberID, "err", err)
		return CheckIn{}, fmt.Errorf("save check-in: %w", err)
	}
	form.ID = saved.ID
	return saved, nil
}
