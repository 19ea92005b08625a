package checkin

import (
	"fmt"
	"time"
)

type ReviewType string

func (t ReviewType) Valid() bool {
	return t == TypeQuarterly || t == TypeAnnual
}

// CheckIn is one persisted performance_reviews row. Quarterly rows carry no
// annual documents; annual rows carry no quarter.
type CheckIn struct {
	ID                  string                  `json:"id"`
	TeamMemberID        string                  `json:"teamMemberId"`
	ManagerID           string                  `json:"managerId"`
	Type                ReviewType              `json:"type"`
	ReviewDate          time.Time               `json:"reviewDate"`
	Quarter             *string                 `json:"quarter"`
	Year                *int                    `json:"year"`
	ReflectionQuestions ReflectionData          `json:"reflectionQuestions"`
	PeerFeedback        []PeerFeedbackEntry     `json:"peerFeedback"`
	MaturitySnapshot    []MaturitySnapshotEntry `json:"maturitySnapshot"`
	GrowthAreas         []GrowthAreaEntry       `json:"growthAreas"`
	CreatedAt           time.Time               `json:"createdAt"`
	UpdatedAt           time.Time               `json:"updatedAt"`
}

type ReflectionQuestion struct {
	Key    string `json:"key"`
	Prompt string `json:"prompt"`
}

type ReflectionAnswer struct {
	SubjectResponse  string `json:"subjectResponse"`
	ReviewerResponse string `json:"reviewerResponse"`
}

type ReflectionData map[string]ReflectionAnswer

type PeerFeedbackEntry struct {
	PeerName    string `json:"peerName"`
	CrushingIt  string `json:"crushingIt"`
	GrowthAreas string `json:"growthAreas"`
	Other       string `json:"other"`
}

type MaturitySnapshotEntry struct {
	CategoryID          string  `json:"categoryId"`
	CategoryName        string  `json:"categoryName"`
	CategoryDescription string  `json:"categoryDescription"`
	AverageRating       float64 `json:"averageRating"`
	MaxRating           int     `json:"maxRating"`
	LevelName           string  `json:"levelName"`
	LeaderComments      string  `json:"leaderComments"`
}

type GrowthAreaEntry struct {
	SkillID        string `json:"skillId"`
	SkillName      string `json:"skillName"`
	Q1             int    `json:"q1"`
	Q2             int    `json:"q2"`
	Q3             int    `json:"q3"`
	Q4             int    `json:"q4"`
	LeaderComments string `json:"leaderComments"`
}

// AnnualData groups the four sub-forms that only annual check-ins carry.
type AnnualData struct {
	ReflectionQuestions ReflectionData          `json:"reflectionQuestions"`
	PeerFeedback        []PeerFeedbackEntry     `json:"peerFeedback"`
	MaturitySnapshot    []MaturitySnapshotEntry `json:"maturitySnapshot"`
	GrowthAreas         []GrowthAreaEntry       `json:"growthAreas"`
}

type TeamMember struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Status   string `json:"status"`
}

type Skill struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LevelName    string `json:"levelName"`
	CategoryName string `json:"categoryName"`
}

func (s Skill) DisplayName() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.LevelName)
}

type Level struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MaturityRating is a leader's level assessment of one skill.
type MaturityRating struct {
	SkillID string
	LevelID string
}

type CategoryMapping struct {
	SkillID             string
	CategoryID          string
	CategoryName        string
	CategoryDescription string
	DisplayOrder        int
}

// GrowthHistoryRow is one stored quarterly growth-area rating.
type GrowthHistoryRow struct {
	SkillID        string
	SkillName      string
	Quarter        string
	Rating         *int
	LeaderComments string
}

type ListFilter struct {
	TeamMemberID string
	ManagerID    string
	Type         ReviewType
}
