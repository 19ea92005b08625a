package checkin

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// LevelRank returns the ordinal of a level name, 0 when the name is not ranked.
func LevelRank(name string) int {
	return LevelRanks[name]
}

// UnrankedLevels lists the level names that fall back to rank 0.
func UnrankedLevels(levels []Level) []string {
	var out []string
	for _, level := range levels {
		if _, ok := LevelRanks[level.Name]; !ok {
			out = append(out, level.Name)
		}
	}
	return out
}

type categoryAccumulator struct {
	mapping CategoryMapping
	sum     int
	count   int
}

// BuildMaturitySnapshot groups a subject's leader ratings by category and
// labels each category with the level nearest its mean rank.
func BuildMaturitySnapshot(ratings []MaturityRating, mappings []CategoryMapping, levels []Level) []MaturitySnapshotEntry {
	levelRanks := make(map[string]int, len(levels))
	for _, level := range levels {
		levelRanks[level.ID] = LevelRank(level.Name)
	}

	bySkill := map[string][]CategoryMapping{}
	for _, m := range mappings {
		bySkill[m.SkillID] = append(bySkill[m.SkillID], m)
	}

	groups := map[string]*categoryAccumulator{}
	for _, rating := range ratings {
		rank := levelRanks[rating.LevelID]
		for _, m := range bySkill[rating.SkillID] {
			acc, ok := groups[m.CategoryID]
			if !ok {
				acc = &categoryAccumulator{mapping: m}
				groups[m.CategoryID] = acc
			}
			acc.sum += rank
			acc.count++
		}
	}

	ordered := make([]*categoryAccumulator, 0, len(groups))
	for _, acc := range groups {
		ordered = append(ordered, acc)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i].mapping, ordered[j].mapping
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.CategoryID < b.CategoryID
	})

	ranked := rankedLevels(levels)
	out := make([]MaturitySnapshotEntry, 0, len(ordered))
	for _, acc := range ordered {
		mean := float64(acc.sum) / float64(acc.count)
		out = append(out, MaturitySnapshotEntry{
			CategoryID:          acc.mapping.CategoryID,
			CategoryName:        acc.mapping.CategoryName,
			CategoryDescription: acc.mapping.CategoryDescription,
			AverageRating:       roundTenth(mean),
			MaxRating:           MaxMaturityRating,
			LevelName:           nearestLevelName(ranked, mean),
		})
	}
	return out
}

type rankedLevel struct {
	name string
	rank int
}

func rankedLevels(levels []Level) []rankedLevel {
	out := make([]rankedLevel, 0, len(levels))
	for _, level := range levels {
		out = append(out, rankedLevel{name: level.Name, rank: LevelRank(level.Name)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].rank < out[j].rank })
	return out
}

// nearestLevelName picks the level whose rank equals the mean rounded half
// up, otherwise the level closest to the unrounded mean. Earlier levels win
// ties.
func nearestLevelName(levels []rankedLevel, mean float64) string {
	target := int(math.Floor(mean + 0.5))
	for _, level := range levels {
		if level.rank == target {
			return level.name
		}
	}
	best := ""
	bestDistance := math.Inf(1)
	for _, level := range levels {
		distance := math.Abs(float64(level.rank) - mean)
		if distance < bestDistance {
			best = level.name
			bestDistance = distance
		}
	}
	return best
}

func roundTenth(value float64) float64 {
	return decimal.NewFromFloat(value).Round(1).InexactFloat64()
}

// MergeMaturitySnapshot keeps the caller's entries, and any comments typed
// into them, unless the set of categories changed.
func MergeMaturitySnapshot(current, fresh []MaturitySnapshotEntry) []MaturitySnapshotEntry {
	if len(current) == 0 || !sameCategorySet(current, fresh) {
		return fresh
	}
	return current
}

func sameCategorySet(a, b []MaturitySnapshotEntry) bool {
	if len(a) != len(b) {
		return false
	}
	left := categoryIDs(a)
	right := categoryIDs(b)
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

func categoryIDs(entries []MaturitySnapshotEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.CategoryID)
	}
	sort.Strings(ids)
	return ids
}

func SetMaturityComment(list []MaturitySnapshotEntry, categoryID, text string) ([]MaturitySnapshotEntry, error) {
	for i := range list {
		if list[i].CategoryID != categoryID {
			continue
		}
		out := make([]MaturitySnapshotEntry, len(list))
		copy(out, list)
		out[i].LeaderComments = text
		return out, nil
	}
	return list, ErrCategoryNotFound
}
