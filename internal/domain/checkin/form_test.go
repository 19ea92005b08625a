package checkin

import (
	"errors"
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestQuarterOf(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{name: "january", date: date(2024, time.January, 1), want: "Q1"},
		{name: "february", date: date(2024, time.February, 10), want: "Q1"},
		{name: "march end", date: date(2024, time.March, 31), want: "Q1"},
		{name: "april", date: date(2024, time.April, 1), want: "Q2"},
		{name: "july", date: date(2024, time.July, 4), want: "Q3"},
		{name: "september", date: date(2024, time.September, 30), want: "Q3"},
		{name: "october", date: date(2024, time.October, 1), want: "Q4"},
		{name: "december", date: date(2024, time.December, 31), want: "Q4"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := QuarterOf(tc.date); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNewFormDefaults(t *testing.T) {
	form := NewForm(nil, "", time.Date(2024, time.July, 4, 15, 30, 0, 0, time.UTC))
	if form.Type != TypeQuarterly {
		t.Fatalf("expected quarterly default, got %s", form.Type)
	}
	if !form.ReviewDate.Equal(date(2024, time.July, 4)) {
		t.Fatalf("expected review date truncated to day, got %v", form.ReviewDate)
	}
	if form.SubjectLocked {
		t.Fatal("did not expect subject to be locked")
	}
	if len(form.Annual.ReflectionQuestions) != len(ReflectionQuestions) {
		t.Fatalf("expected %d reflection keys, got %d", len(ReflectionQuestions), len(form.Annual.ReflectionQuestions))
	}
	if form.Quarter() != "Q3" || form.Year() != 2024 {
		t.Fatalf("expected Q3 2024, got %s %d", form.Quarter(), form.Year())
	}
}

func TestNewFormFromExistingRecord(t *testing.T) {
	existing := &CheckIn{
		ID:           "c1",
		TeamMemberID: "tm1",
		Type:         TypeAnnual,
		ReviewDate:   date(2023, time.December, 1),
		ReflectionQuestions: ReflectionData{
			QuestionGrowthFocus: {SubjectResponse: "testing"},
		},
		PeerFeedback: []PeerFeedbackEntry{{PeerName: "Ana"}},
	}
	form := NewForm(existing, "", date(2024, time.January, 5))
	if form.ID != "c1" || form.TeamMemberID != "tm1" || form.Type != TypeAnnual {
		t.Fatalf("unexpected form: %+v", form)
	}
	if form.Annual.ReflectionQuestions[QuestionGrowthFocus].SubjectResponse != "testing" {
		t.Fatalf("expected stored reflection answer, got %+v", form.Annual.ReflectionQuestions)
	}
	if len(form.Annual.ReflectionQuestions) != len(ReflectionQuestions) {
		t.Fatalf("expected all reflection keys, got %d", len(form.Annual.ReflectionQuestions))
	}
	if len(form.Annual.PeerFeedback) != 1 {
		t.Fatalf("expected one peer entry, got %d", len(form.Annual.PeerFeedback))
	}
}

func TestPresetSubjectLocksSelection(t *testing.T) {
	form := NewForm(nil, "tm1", date(2024, time.May, 1))
	if !form.SubjectLocked || form.TeamMemberID != "tm1" {
		t.Fatalf("expected locked subject tm1, got %+v", form)
	}
	if err := form.SetSubject("tm2"); !errors.Is(err, ErrSubjectLocked) {
		t.Fatalf("expected ErrSubjectLocked, got %v", err)
	}
	if err := form.SetSubject("tm1"); err != nil {
		t.Fatalf("re-selecting the locked subject should succeed, got %v", err)
	}
}

func TestResolveSubjectName(t *testing.T) {
	members := []TeamMember{{ID: "tm1", FullName: "Ada Lovelace"}, {ID: "tm2", FullName: "Grace Hopper"}}
	form := NewForm(nil, "", date(2024, time.May, 1))
	if err := form.SetSubject("tm2"); err != nil {
		t.Fatalf("set subject: %v", err)
	}
	form.ResolveSubjectName(members)
	if form.SubjectName != "Grace Hopper" {
		t.Fatalf("expected Grace Hopper, got %q", form.SubjectName)
	}
	if err := form.SetSubject("tm3"); err != nil {
		t.Fatalf("set subject: %v", err)
	}
	if form.SubjectName != "" {
		t.Fatalf("expected name cleared on subject change, got %q", form.SubjectName)
	}
	form.ResolveSubjectName(members)
	if form.SubjectName != "" {
		t.Fatalf("expected empty name for unknown subject, got %q", form.SubjectName)
	}
}

func TestSetType(t *testing.T) {
	form := NewForm(nil, "", date(2024, time.May, 1))
	if err := form.SetType(" Annual "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if form.Type != TypeAnnual {
		t.Fatalf("expected annual, got %s", form.Type)
	}
	if err := form.SetType("monthly"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	form := NewForm(nil, "", date(2024, time.May, 1))
	if err := form.Validate(); !errors.Is(err, ErrSubjectRequired) {
		t.Fatalf("expected ErrSubjectRequired, got %v", err)
	}
	_ = form.SetSubject("tm1")
	if err := form.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	form.SetReviewDate(time.Time{})
	if err := form.Validate(); !errors.Is(err, ErrReviewDateRequired) {
		t.Fatalf("expected ErrReviewDateRequired, got %v", err)
	}
	form.SetReviewDate(date(2024, time.May, 1))
	_ = form.SetType(TypeAnnual)
	form.Annual.GrowthAreas = []GrowthAreaEntry{{Q1: 0, Q2: 3, Q3: 3, Q4: 3}}
	if err := form.Validate(); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
}

func TestQuarterlyPayloadDropsAnnualDocuments(t *testing.T) {
	form := NewForm(nil, "tm1", date(2024, time.February, 10))
	form.Annual.PeerFeedback = AddPeer(nil)
	form.Annual.GrowthAreas = BuildGrowthAreas(nil)

	payload := form.Payload("m1")
	if payload.Quarter == nil || *payload.Quarter != "Q1" {
		t.Fatalf("expected quarter Q1, got %v", payload.Quarter)
	}
	if payload.Year == nil || *payload.Year != 2024 {
		t.Fatalf("expected year 2024, got %v", payload.Year)
	}
	if payload.ReflectionQuestions != nil || payload.PeerFeedback != nil || payload.MaturitySnapshot != nil || payload.GrowthAreas != nil {
		t.Fatalf("expected annual documents to be nil, got %+v", payload)
	}
	if payload.ManagerID != "m1" || payload.TeamMemberID != "tm1" {
		t.Fatalf("unexpected ownership: %+v", payload)
	}
}

func TestAnnualPayloadAttachesDocuments(t *testing.T) {
	form := NewForm(nil, "tm1", date(2024, time.December, 31))
	_ = form.SetType(TypeAnnual)
	form.Annual.PeerFeedback = []PeerFeedbackEntry{{PeerName: "Ana"}}
	form.Annual.MaturitySnapshot = nil
	form.Annual.GrowthAreas = BuildGrowthAreas(nil)

	payload := form.Payload("m1")
	if payload.Quarter != nil {
		t.Fatalf("expected nil quarter, got %q", *payload.Quarter)
	}
	if payload.Year == nil || *payload.Year != 2024 {
		t.Fatalf("expected year 2024, got %v", payload.Year)
	}
	if len(payload.ReflectionQuestions) != len(ReflectionQuestions) {
		t.Fatalf("expected reflection questions, got %+v", payload.ReflectionQuestions)
	}
	if len(payload.PeerFeedback) != 1 || payload.PeerFeedback[0].PeerName != "Ana" {
		t.Fatalf("expected peer feedback verbatim, got %+v", payload.PeerFeedback)
	}
	if payload.MaturitySnapshot == nil {
		t.Fatal("expected empty, non-nil maturity snapshot")
	}
	if len(payload.GrowthAreas) != MinGrowthAreas {
		t.Fatalf("expected %d growth areas, got %d", MinGrowthAreas, len(payload.GrowthAreas))
	}
}

func TestBeginSaveRejectsDuplicateSubmit(t *testing.T) {
	form := NewForm(nil, "tm1", date(2024, time.May, 1))
	if err := form.BeginSave(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := form.BeginSave(); !errors.Is(err, ErrSaveInFlight) {
		t.Fatalf("expected ErrSaveInFlight, got %v", err)
	}
	form.EndSave()
	if form.Saving() {
		t.Fatal("expected save to be finished")
	}
	if err := form.BeginSave(); err != nil {
		t.Fatalf("expected save to be allowed again, got %v", err)
	}
}
