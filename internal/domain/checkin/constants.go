package checkin

const (
	TypeQuarterly ReviewType = "quarterly"
	TypeAnnual    ReviewType = "annual"

	TeamMemberStatusActive = "active"

	MinGrowthAreas      = 3
	DefaultGrowthRating = 3
	MinGrowthRating     = 1
	MaxGrowthRating     = 5
	MaxMaturityRating   = 5

	RoleSubject  = "subject"
	RoleReviewer = "reviewer"
)

const (
	PeerFieldName        = "peerName"
	PeerFieldCrushingIt  = "crushingIt"
	PeerFieldGrowthAreas = "growthAreas"
	PeerFieldOther       = "other"
)

const (
	QuestionProudestAccomplishment = "proudest_accomplishment"
	QuestionBiggestChallenge       = "biggest_challenge"
	QuestionGrowthFocus            = "growth_focus"
	QuestionSupportNeeded          = "support_needed"
	QuestionTeamContribution       = "team_contribution"
	QuestionFeedbackReceived       = "feedback_received"
	QuestionNextYearGoals          = "next_year_goals"
)

// ReflectionQuestions lists the annual prompts in display order.
var ReflectionQuestions = []ReflectionQuestion{
	{Key: QuestionProudestAccomplishment, Prompt: "What accomplishment from this year are you most proud of?"},
	{Key: QuestionBiggestChallenge, Prompt: "What was your biggest challenge and how did you approach it?"},
	{Key: QuestionGrowthFocus, Prompt: "Where have you grown the most, and where do you want to grow next?"},
	{Key: QuestionSupportNeeded, Prompt: "What support do you need from your leader or the team?"},
	{Key: QuestionTeamContribution, Prompt: "How have you contributed to the success of the team?"},
	{Key: QuestionFeedbackReceived, Prompt: "What feedback have you received and how have you acted on it?"},
	{Key: QuestionNextYearGoals, Prompt: "What are your goals for the coming year?"},
}

// LevelRanks orders maturity level names. Names missing here rank 0.
var LevelRanks = map[string]int{
	"Associate": 1,
	"Level 1":   2,
	"Level 2":   3,
	"Senior":    4,
	"Lead":      5,
}

var ratingLabels = map[int]string{
	1: "Needs guidance",
	2: "Developing",
	3: "Meeting expectations",
	4: "Exceeding expectations",
	5: "Greatly exceeding expectations",
}

var quarterKeys = []string{"Q1", "Q2", "Q3", "Q4"}
