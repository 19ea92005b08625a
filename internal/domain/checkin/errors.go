package checkin

import "errors"

var (
	ErrNotFound           = errors.New("check-in not found")
	ErrSubjectRequired    = errors.New("team member is required")
	ErrSubjectLocked      = errors.New("team member cannot be changed")
	ErrInvalidType        = errors.New("review type must be quarterly or annual")
	ErrReviewDateRequired = errors.New("review date is required")
	ErrManagerRequired    = errors.New("manager is required")
	ErrSaveInFlight       = errors.New("check-in save already in progress")
	ErrUnknownQuestion    = errors.New("unknown reflection question")
	ErrUnknownRole        = errors.New("unknown respondent role")
	ErrUnknownField       = errors.New("unknown field")
	ErrUnknownQuarter     = errors.New("unknown quarter")
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrCategoryNotFound   = errors.New("maturity category not found")
)
