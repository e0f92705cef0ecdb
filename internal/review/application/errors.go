package application

import "errors"

var (
	ErrNotFound        = errors.New("review not found")
	ErrDuplicateReview = errors.New("you have already reviewed this resource")
	ErrNotApproved     = errors.New("review is not approved")
	ErrInvalidStatus   = errors.New("invalid moderation status")
	ErrReplyIncomplete = errors.New("reply author name, email and content are required")
	ErrReplyLength     = errors.New("reply content must be between 10 and 1000 characters")
)
