package checkin

import (
	"log/slog"
	"strings"
)

func RatingLabel(rating int) string {
	return ratingLabels[rating]
}

func BlankGrowthArea() GrowthAreaEntry {
	return GrowthAreaEntry{
		Q1: DefaultGrowthRating,
		Q2: DefaultGrowthRating,
		Q3: DefaultGrowthRating,
		Q4: DefaultGrowthRating,
	}
}

// BuildGrowthAreas regroups stored quarterly rows into one entry per skill,
// in the order skills first appear, padded with blanks to MinGrowthAreas.
func BuildGrowthAreas(history []GrowthHistoryRow) []GrowthAreaEntry {
	entries := make([]GrowthAreaEntry, 0, MinGrowthAreas)
	index := map[string]int{}
	for _, row := range history {
		pos, ok := index[row.SkillID]
		if !ok {
			entry := BlankGrowthArea()
			entry.SkillID = row.SkillID
			entry.SkillName = row.SkillName
			entries = append(entries, entry)
			pos = len(entries) - 1
			index[row.SkillID] = pos
		}
		entry := &entries[pos]

		rating := DefaultGrowthRating
		if row.Rating != nil {
			rating = *row.Rating
		}
		// rows with an unrecognised quarter still contribute their comment
		if err := setQuarter(entry, strings.ToUpper(strings.TrimSpace(row.Quarter)), rating); err != nil {
			slog.Debug("growth history row skipped", "skillId", row.SkillID, "quarter", row.Quarter, "err", err)
		}

		if entry.LeaderComments == "" && strings.TrimSpace(row.LeaderComments) != "" {
			entry.LeaderComments = row.LeaderComments
		}
	}
	return padGrowthAreas(entries)
}

func padGrowthAreas(entries []GrowthAreaEntry) []GrowthAreaEntry {
	for len(entries) < MinGrowthAreas {
		entries = append(entries, BlankGrowthArea())
	}
	return entries
}

func setQuarter(entry *GrowthAreaEntry, quarter string, rating int) error {
	switch quarter {
	case "Q1":
		entry.Q1 = rating
	case "Q2":
		entry.Q2 = rating
	case "Q3":
		entry.Q3 = rating
	case "Q4":
		entry.Q4 = rating
	default:
		return ErrUnknownQuarter
	}
	return nil
}

func copyGrowthAreas(list []GrowthAreaEntry, index int) ([]GrowthAreaEntry, error) {
	if index < 0 || index >= len(list) {
		return nil, ErrPositionOutOfRange
	}
	out := make([]GrowthAreaEntry, len(list))
	copy(out, list)
	return out, nil
}

func SelectSkill(list []GrowthAreaEntry, index int, skill Skill) ([]GrowthAreaEntry, error) {
	out, err := copyGrowthAreas(list, index)
	if err != nil {
		return list, err
	}
	out[index].SkillID = skill.ID
	out[index].SkillName = skill.DisplayName()
	return out, nil
}

func SetGrowthRating(list []GrowthAreaEntry, index int, quarter string, rating int) ([]GrowthAreaEntry, error) {
	if rating < MinGrowthRating || rating > MaxGrowthRating {
		return list, ErrInvalidRating
	}
	out, err := copyGrowthAreas(list, index)
	if err != nil {
		return list, err
	}
	if err := setQuarter(&out[index], strings.ToUpper(quarter), rating); err != nil {
		return list, err
	}
	return out, nil
}

func SetGrowthComment(list []GrowthAreaEntry, index int, text string) ([]GrowthAreaEntry, error) {
	out, err := copyGrowthAreas(list, index)
	if err != nil {
		return list, err
	}
	out[index].LeaderComments = text
	return out, nil
}

func AddGrowthArea(list []GrowthAreaEntry) []GrowthAreaEntry {
	out := make([]GrowthAreaEntry, len(list), len(list)+1)
	copy(out, list)
	return append(out, BlankGrowthArea())
}

// RemoveGrowthArea drops the entry at index and re-pads to MinGrowthAreas.
func RemoveGrowthArea(list []GrowthAreaEntry, index int) ([]GrowthAreaEntry, error) {
	if index < 0 || index >= len(list) {
		return list, ErrPositionOutOfRange
	}
	out := make([]GrowthAreaEntry, 0, len(list))
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return padGrowthAreas(out), nil
}

// ValidateGrowthAreas checks every quarter rating lies on the 1-5 scale.
func ValidateGrowthAreas(list []GrowthAreaEntry) error {
	for _, entry := range list {
		for _, rating := range []int{entry.Q1, entry.Q2, entry.Q3, entry.Q4} {
			if rating < MinGrowthRating || rating > MaxGrowthRating {
				return ErrInvalidRating
			}
		}
	}
	return nil
}
