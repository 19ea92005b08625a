package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const checkInColumns = `
    id, team_member_id, manager_id, type, review_date, quarter, year,
    reflection_questions, peer_feedback, maturity_snapshot, growth_areas,
    created_at, updated_at
`

func (s *Store) ListActiveTeamMembers(ctx context.Context) ([]TeamMember, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, full_name, status
    FROM team_members
    WHERE status = $1
    ORDER BY full_name
  `, TeamMemberStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []TeamMember
	for rows.Next() {
		var member TeamMember
		if err := rows.Scan(&member.ID, &member.FullName, &member.Status); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (s *Store) ListSkills(ctx context.Context) ([]Skill, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sl.id, ms.name, l.name,
           COALESCE((
             SELECT mc.name
             FROM category_skills cs
             JOIN maturity_categories mc ON mc.id = cs.category_id
             WHERE cs.skill_id = ms.id
             ORDER BY mc.display_order
             LIMIT 1
           ), '')
    FROM skill_levels sl
    JOIN maturity_skills ms ON ms.id = sl.skill_id
    JOIN levels l ON l.id = sl.level_id
    ORDER BY ms.name, l.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []Skill
	for rows.Next() {
		var skill Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.LevelName, &skill.CategoryName); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

func (s *Store) ListLevels(ctx context.Context) ([]Level, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM levels ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []Level
	for rows.Next() {
		var level Level
		if err := rows.Scan(&level.ID, &level.Name); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

func (s *Store) ListMaturityRatings(ctx context.Context, teamMemberID string) ([]MaturityRating, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT skill_id, leader_rating
    FROM maturity_assessments
    WHERE team_member_id = $1 AND leader_rating IS NOT NULL
  `, teamMemberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []MaturityRating
	for rows.Next() {
		var rating MaturityRating
		if err := rows.Scan(&rating.SkillID, &rating.LevelID); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (s *Store) ListCategoryMappings(ctx context.Context, skillIDs []string) ([]CategoryMapping, error) {
	if len(skillIDs) == 0 {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT cs.skill_id, mc.id, mc.name, COALESCE(mc.description, ''), mc.display_order
    FROM category_skills cs
    JOIN maturity_categories mc ON mc.id = cs.category_id
    WHERE cs.skill_id = ANY($1)
  `, skillIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []CategoryMapping
	for rows.Next() {
		var m CategoryMapping
		if err := rows.Scan(&m.SkillID, &m.CategoryID, &m.CategoryName, &m.CategoryDescription, &m.DisplayOrder); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

func (s *Store) ListGrowthHistory(ctx context.Context, teamMemberID string) ([]GrowthHistoryRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT ga.skill_id,
           COALESCE(ms.name || ' (' || l.name || ')', ''),
           ga.quarter, ga.rating, COALESCE(ga.leader_comments, '')
    FROM growth_areas ga
    LEFT JOIN skill_levels sl ON sl.id = ga.skill_id
    LEFT JOIN maturity_skills ms ON ms.id = sl.skill_id
    LEFT JOIN levels l ON l.id = sl.level_id
    WHERE ga.team_member_id = $1 AND ga.is_active AND ga.quarter ~* '^Q[1-4]$'
    ORDER BY ga.created_at, ga.quarter
  `, teamMemberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []GrowthHistoryRow
	for rows.Next() {
		var row GrowthHistoryRow
		if err := rows.Scan(&row.SkillID, &row.SkillName, &row.Quarter, &row.Rating, &row.LeaderComments); err != nil {
			return nil, err
		}
		history = append(history, row)
	}
	return history, rows.Err()
}

func (s *Store) GetCheckIn(ctx context.Context, id string) (CheckIn, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+checkInColumns+" FROM performance_reviews WHERE id = $1", id)
	record, err := scanCheckIn(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return CheckIn{}, ErrNotFound
	}
	return record, err
}

func (s *Store) ListCheckIns(ctx context.Context, filter ListFilter) ([]CheckIn, error) {
	query := "SELECT " + checkInColumns + " FROM performance_reviews WHERE 1=1"
	var args []any
	if filter.TeamMemberID != "" {
		args = append(args, filter.TeamMemberID)
		query += fmt.Sprintf(" AND team_member_id = $%d", len(args))
	}
	if filter.ManagerID != "" {
		args = append(args, filter.ManagerID)
		query += fmt.Sprintf(" AND manager_id = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	query += " ORDER BY review_date DESC, created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CheckIn
	for rows.Next() {
		record, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *Store) InsertCheckIn(ctx context.Context, record CheckIn) (CheckIn, error) {
	docs, err := marshalAnnual(record)
	if err != nil {
		return CheckIn{}, err
	}
	row := s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews (team_member_id, manager_id, type, review_date, quarter, year,
      reflection_questions, peer_feedback, maturity_snapshot, growth_areas)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING `+checkInColumns,
		record.TeamMemberID, record.ManagerID, string(record.Type), record.ReviewDate, record.Quarter, record.Year,
		docs[0], docs[1], docs[2], docs[3])
	return scanCheckIn(row)
}

func (s *Store) UpdateCheckIn(ctx context.Context, record CheckIn) (CheckIn, error) {
	docs, err := marshalAnnual(record)
	if err != nil {
		return CheckIn{}, err
	}
	row := s.DB.QueryRow(ctx, `
    UPDATE performance_reviews
    SET team_member_id = $1, manager_id = $2, type = $3, review_date = $4, quarter = $5, year = $6,
        reflection_questions = $7, peer_feedback = $8, maturity_snapshot = $9, growth_areas = $10,
        updated_at = now()
    WHERE id = $11
    RETURNING `+checkInColumns,
		record.TeamMemberID, record.ManagerID, string(record.Type), record.ReviewDate, record.Quarter, record.Year,
		docs[0], docs[1], docs[2], docs[3], record.ID)
	updated, err := scanCheckIn(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return CheckIn{}, ErrNotFound
	}
	return updated, err
}

func scanCheckIn(row pgx.Row) (CheckIn, error) {
	var record CheckIn
	var reviewType string
	var reflectionJSON, peerJSON, maturityJSON, growthJSON []byte
	if err := row.Scan(&record.ID, &record.TeamMemberID, &record.ManagerID, &reviewType, &record.ReviewDate,
		&record.Quarter, &record.Year, &reflectionJSON, &peerJSON, &maturityJSON, &growthJSON,
		&record.CreatedAt, &record.UpdatedAt); err != nil {
		return CheckIn{}, err
	}
	record.Type = ReviewType(reviewType)
	if err := unmarshalDoc(reflectionJSON, &record.ReflectionQuestions); err != nil {
		return CheckIn{}, fmt.Errorf("decode reflection_questions: %w", err)
	}
	if err := unmarshalDoc(peerJSON, &record.PeerFeedback); err != nil {
		return CheckIn{}, fmt.Errorf("decode peer_feedback: %w", err)
	}
	if err := unmarshalDoc(maturityJSON, &record.MaturitySnapshot); err != nil {
		return CheckIn{}, fmt.Errorf("decode maturity_snapshot: %w", err)
	}
	if err := unmarshalDoc(growthJSON, &record.GrowthAreas); err != nil {
		return CheckIn{}, fmt.Errorf("decode growth_areas: %w", err)
	}
	return record, nil
}

func unmarshalDoc(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// marshalAnnual encodes the four annual documents; absent documents stay NULL.
func marshalAnnual(record CheckIn) ([4][]byte, error) {
	var docs [4][]byte
	values := []any{record.ReflectionQuestions, record.PeerFeedback, record.MaturitySnapshot, record.GrowthAreas}
	present := []bool{record.ReflectionQuestions != nil, record.PeerFeedback != nil, record.MaturitySnapshot != nil, record.GrowthAreas != nil}
	for i, value := range values {
		if !present[i] {
			continue
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return docs, err
		}
		docs[i] = payload
	}
	return docs, nil
}
