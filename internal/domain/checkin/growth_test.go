package checkin

import (
	"errors"
	"fmt"
	"testing"
)

func intPtr(v int) *int {
	return &v
}

func TestBuildGrowthAreasPadsToMinimum(t *testing.T) {
	historyFor := func(skills int) []GrowthHistoryRow {
		var rows []GrowthHistoryRow
		for i := 0; i < skills; i++ {
			rows = append(rows, GrowthHistoryRow{SkillID: fmt.Sprintf("s%d", i), SkillName: fmt.Sprintf("Skill %d", i), Quarter: "Q1", Rating: intPtr(4)})
		}
		return rows
	}

	tests := []struct {
		name   string
		skills int
		want   int
	}{
		{name: "no history", skills: 0, want: 3},
		{name: "one skill", skills: 1, want: 3},
		{name: "three skills", skills: 3, want: 3},
		{name: "five skills", skills: 5, want: 5},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			entries := BuildGrowthAreas(historyFor(tc.skills))
			if len(entries) != tc.want {
				t.Fatalf("expected %d entries, got %d", tc.want, len(entries))
			}
			for i := tc.skills; i < len(entries); i++ {
				if entries[i] != BlankGrowthArea() {
					t.Fatalf("expected blank padding at %d, got %+v", i, entries[i])
				}
			}
		})
	}
}

func TestBuildGrowthAreasRegroupsBySkill(t *testing.T) {
	history := []GrowthHistoryRow{
		{SkillID: "s2", SkillName: "Testing (Senior)", Quarter: "Q1", Rating: intPtr(2)},
		{SkillID: "s1", SkillName: "Design (Level 1)", Quarter: "Q1", Rating: intPtr(5), LeaderComments: ""},
		{SkillID: "s2", SkillName: "Testing (Senior)", Quarter: "Q2", Rating: nil, LeaderComments: "first"},
		{SkillID: "s2", SkillName: "Testing (Senior)", Quarter: "Q3", Rating: intPtr(4), LeaderComments: "second"},
		{SkillID: "s1", SkillName: "Design (Level 1)", Quarter: "q4", Rating: intPtr(1), LeaderComments: "  "},
		{SkillID: "s1", SkillName: "Design (Level 1)", Quarter: "Q9", Rating: intPtr(2), LeaderComments: "late"},
	}

	entries := BuildGrowthAreas(history)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	testing2 := entries[0]
	want := GrowthAreaEntry{SkillID: "s2", SkillName: "Testing (Senior)", Q1: 2, Q2: 3, Q3: 4, Q4: 3, LeaderComments: "first"}
	if testing2 != want {
		t.Fatalf("expected %+v, got %+v", want, testing2)
	}

	design := entries[1]
	want = GrowthAreaEntry{SkillID: "s1", SkillName: "Design (Level 1)", Q1: 5, Q2: 3, Q3: 3, Q4: 1, LeaderComments: "late"}
	if design != want {
		t.Fatalf("expected %+v, got %+v", want, design)
	}
}

func TestSelectSkillComposesDisplayName(t *testing.T) {
	list := BuildGrowthAreas(nil)
	updated, err := SelectSkill(list, 1, Skill{ID: "sl-9", Name: "Observability", LevelName: "Senior"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated[1].SkillID != "sl-9" || updated[1].SkillName != "Observability (Senior)" {
		t.Fatalf("unexpected entry: %+v", updated[1])
	}
	if list[1].SkillID != "" {
		t.Fatal("expected input untouched")
	}
	if _, err := SelectSkill(list, 3, Skill{}); !errors.Is(err, ErrPositionOutOfRange) {
		t.Fatalf("expected ErrPositionOutOfRange, got %v", err)
	}
}

func TestSetGrowthRating(t *testing.T) {
	list := BuildGrowthAreas(nil)
	updated, err := SetGrowthRating(list, 0, "Q3", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated[0].Q3 != 5 || updated[0].Q1 != DefaultGrowthRating {
		t.Fatalf("unexpected entry: %+v", updated[0])
	}

	for _, rating := range []int{0, 6} {
		if _, err := SetGrowthRating(list, 0, "Q1", rating); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
	if _, err := SetGrowthRating(list, 0, "Q5", 2); !errors.Is(err, ErrUnknownQuarter) {
		t.Fatalf("expected ErrUnknownQuarter, got %v", err)
	}
}

func TestGrowthCommentAndListEdits(t *testing.T) {
	list := BuildGrowthAreas(nil)
	updated, err := SetGrowthComment(list, 2, "keep going")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated[2].LeaderComments != "keep going" {
		t.Fatalf("expected comment, got %+v", updated[2])
	}

	grown := AddGrowthArea(updated)
	if len(grown) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(grown))
	}
	shrunk, err := RemoveGrowthArea(grown, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shrunk) != 3 || shrunk[1].LeaderComments != "keep going" {
		t.Fatalf("unexpected list after removal: %+v", shrunk)
	}
	shrunk, err = RemoveGrowthArea(shrunk, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shrunk) != MinGrowthAreas {
		t.Fatalf("expected list re-padded to %d, got %d", MinGrowthAreas, len(shrunk))
	}
}

func TestRatingLabel(t *testing.T) {
	if RatingLabel(1) != "Needs guidance" {
		t.Fatalf("unexpected label for 1: %q", RatingLabel(1))
	}
	if RatingLabel(5) != "Greatly exceeding expectations" {
		t.Fatalf("unexpected label for 5: %q", RatingLabel(5))
	}
	if RatingLabel(7) != "" {
		t.Fatalf("expected empty label for out-of-range rating, got %q", RatingLabel(7))
	}
}
