package checkin

import (
	"errors"
	"testing"
)

func TestNewReflectionDataSeedsAllQuestions(t *testing.T) {
	data := NewReflectionData()
	for _, q := range ReflectionQuestions {
		answer, ok := data[q.Key]
		if !ok {
			t.Fatalf("missing question %s", q.Key)
		}
		if answer.SubjectResponse != "" || answer.ReviewerResponse != "" {
			t.Fatalf("expected empty answers for %s, got %+v", q.Key, answer)
		}
	}
	if len(ReflectionQuestions) != 7 {
		t.Fatalf("expected 7 questions, got %d", len(ReflectionQuestions))
	}
}

func TestSetReflectionAnswerReturnsUpdatedCopy(t *testing.T) {
	original := NewReflectionData()
	updated, err := SetReflectionAnswer(original, QuestionSupportNeeded, RoleReviewer, "<p>More pairing</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated[QuestionSupportNeeded].ReviewerResponse != "<p>More pairing</p>" {
		t.Fatalf("expected reviewer response, got %+v", updated[QuestionSupportNeeded])
	}
	if original[QuestionSupportNeeded].ReviewerResponse != "" {
		t.Fatal("expected original data to be untouched")
	}

	updated, err = SetReflectionAnswer(updated, QuestionSupportNeeded, RoleSubject, "time")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	answer := updated[QuestionSupportNeeded]
	if answer.SubjectResponse != "time" || answer.ReviewerResponse != "<p>More pairing</p>" {
		t.Fatalf("expected both responses kept, got %+v", answer)
	}
}

func TestSetReflectionAnswerRejectsUnknownInput(t *testing.T) {
	data := NewReflectionData()
	if _, err := SetReflectionAnswer(data, "favourite_colour", RoleSubject, "blue"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
	if _, err := SetReflectionAnswer(data, QuestionGrowthFocus, "peer", "x"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestNormalizeReflectionRestoresMissingKeys(t *testing.T) {
	data := ReflectionData{
		QuestionNextYearGoals: {SubjectResponse: "lead a project"},
		"legacy_key":          {SubjectResponse: "dropped"},
	}
	out := NormalizeReflection(data)
	if len(out) != len(ReflectionQuestions) {
		t.Fatalf("expected %d keys, got %d", len(ReflectionQuestions), len(out))
	}
	if out[QuestionNextYearGoals].SubjectResponse != "lead a project" {
		t.Fatalf("expected stored answer kept, got %+v", out[QuestionNextYearGoals])
	}
	if _, ok := out["legacy_key"]; ok {
		t.Fatal("expected unknown key to be dropped")
	}
}
