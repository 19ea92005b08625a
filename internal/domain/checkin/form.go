package checkin

import (
	"fmt"
	"strings"
	"time"
)

// QuarterOf returns the quarter label (Q1..Q4) of a date's calendar month.
func QuarterOf(date time.Time) string {
	month := int(date.Month()) - 1
	return fmt.Sprintf("Q%d", month/3+1)
}

// Form is the editable state of one check-in. Sub-form edits go through the
// package's pure update functions and are written back into Annual.
type Form struct {
	ID            string     `json:"id,omitempty"`
	TeamMemberID  string     `json:"teamMemberId"`
	SubjectName   string     `json:"subjectName"`
	SubjectLocked bool       `json:"subjectLocked"`
	Type          ReviewType `json:"type"`
	ReviewDate    time.Time  `json:"reviewDate"`
	Annual        AnnualData `json:"annual"`

	saving bool
}

// NewForm seeds a form from an existing record, or from defaults when
// existing is nil. A preset subject id pins the subject.
func NewForm(existing *CheckIn, presetSubjectID string, today time.Time) *Form {
	form := &Form{
		Type:       TypeQuarterly,
		ReviewDate: truncateDay(today),
		Annual: AnnualData{
			ReflectionQuestions: NewReflectionData(),
			PeerFeedback:        []PeerFeedbackEntry{},
			MaturitySnapshot:    []MaturitySnapshotEntry{},
			GrowthAreas:         []GrowthAreaEntry{},
		},
	}
	if existing != nil {
		form.ID = existing.ID
		form.TeamMemberID = existing.TeamMemberID
		if existing.Type.Valid() {
			form.Type = existing.Type
		}
		if !existing.ReviewDate.IsZero() {
			form.ReviewDate = truncateDay(existing.ReviewDate)
		}
		form.Annual.ReflectionQuestions = NormalizeReflection(existing.ReflectionQuestions)
		if existing.PeerFeedback != nil {
			form.Annual.PeerFeedback = existing.PeerFeedback
		}
		if existing.MaturitySnapshot != nil {
			form.Annual.MaturitySnapshot = existing.MaturitySnapshot
		}
		if existing.GrowthAreas != nil {
			form.Annual.GrowthAreas = existing.GrowthAreas
		}
	}
	if presetSubjectID != "" {
		form.TeamMemberID = presetSubjectID
		form.SubjectLocked = true
	}
	return form
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (f *Form) SetSubject(id string) error {
	if f.SubjectLocked && id != f.TeamMemberID {
		return ErrSubjectLocked
	}
	if id != f.TeamMemberID {
		f.TeamMemberID = id
		f.SubjectName = ""
	}
	return nil
}

// ResolveSubjectName looks the selected subject up in the loaded list.
func (f *Form) ResolveSubjectName(members []TeamMember) {
	f.SubjectName = ""
	for _, m := range members {
		if m.ID == f.TeamMemberID {
			f.SubjectName = m.FullName
			return
		}
	}
}

func (f *Form) SetType(t ReviewType) error {
	normalized := ReviewType(strings.ToLower(strings.TrimSpace(string(t))))
	if !normalized.Valid() {
		return ErrInvalidType
	}
	f.Type = normalized
	return nil
}

func (f *Form) SetReviewDate(date time.Time) {
	f.ReviewDate = truncateDay(date)
}

func (f *Form) Quarter() string {
	if f.ReviewDate.IsZero() {
		return ""
	}
	return QuarterOf(f.ReviewDate)
}

func (f *Form) Year() int {
	return f.ReviewDate.Year()
}

func (f *Form) Validate() error {
	if strings.TrimSpace(f.TeamMemberID) == "" {
		return ErrSubjectRequired
	}
	if !f.Type.Valid() {
		return ErrInvalidType
	}
	if f.ReviewDate.IsZero() {
		return ErrReviewDateRequired
	}
	if f.Type == TypeAnnual {
		if err := ValidateGrowthAreas(f.Annual.GrowthAreas); err != nil {
			return err
		}
	}
	return nil
}

// Payload builds the row to persist. Quarterly check-ins drop the annual
// documents; annual check-ins drop the quarter.
func (f *Form) Payload(managerID string) CheckIn {
	year := f.Year()
	record := CheckIn{
		ID:           f.ID,
		TeamMemberID: f.TeamMemberID,
		ManagerID:    managerID,
		Type:         f.Type,
		ReviewDate:   f.ReviewDate,
		Year:         &year,
	}
	if f.Type == TypeQuarterly {
		quarter := f.Quarter()
		record.Quarter = &quarter
		return record
	}
	record.ReflectionQuestions = NormalizeReflection(f.Annual.ReflectionQuestions)
	record.PeerFeedback = nonNil(f.Annual.PeerFeedback)
	record.MaturitySnapshot = nonNil(f.Annual.MaturitySnapshot)
	record.GrowthAreas = nonNil(f.Annual.GrowthAreas)
	return record
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

// BeginSave marks a save in flight; a second submit is rejected until EndSave.
func (f *Form) BeginSave() error {
	if f.saving {
		return ErrSaveInFlight
	}
	f.saving = true
	return nil
}

func (f *Form) EndSave() {
	f.saving = false
}

func (f *Form) Saving() bool {
	return f.saving
}
