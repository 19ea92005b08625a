package checkin

import "context"

type StoreAPI interface {
	ListActiveTeamMembers(ctx context.Context) ([]TeamMember, error)
	ListSkills(ctx context.Context) ([]Skill, error)
	ListLevels(ctx context.Context) ([]Level, error)
	ListMaturityRatings(ctx context.Context, teamMemberID string) ([]MaturityRating, error)
	ListCategoryMappings(ctx context.Context, skillIDs []string) ([]CategoryMapping, error)
	ListGrowthHistory(ctx context.Context, teamMemberID string) ([]GrowthHistoryRow, error)
	GetCheckIn(ctx context.Context, id string) (CheckIn, error)
	ListCheckIns(ctx context.Context, filter ListFilter) ([]CheckIn, error)
	InsertCheckIn(ctx context.Context, record CheckIn) (CheckIn, error)
	UpdateCheckIn(ctx context.Context, record CheckIn) (CheckIn, error)
}
