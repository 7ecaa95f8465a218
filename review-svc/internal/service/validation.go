package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ZYL1107/next-platform-starter/review-svc/internal/apperrors"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/domain"
)

const (
	MinCommentLength  = 5
	MaxCommentLength  = 500
	MaxUserNameLength = 20

	msgMissingFields  = "gameId, userName, rating and comment are all required"
	msgRatingRange    = "rating must be between 1 and 5"
	msgCommentLength  = "comment must be between 5 and 500 characters"
	msgUserNameLength = "userName must be at most 20 characters"
)

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	ratingRule   = fmt.Sprintf("min=%d,max=%d", domain.MinRating, domain.MaxRating)
	commentRule  = fmt.Sprintf("min=%d,max=%d", MinCommentLength, MaxCommentLength)
	userNameRule = fmt.Sprintf("max=%d", MaxUserNameLength)
)

// validateSubmission runs the checks in order and reports only the first
// failure. Lengths are counted in code points.
func validateSubmission(input SubmitReviewInput) error {
	userName := strings.TrimSpace(input.UserName)

	for _, field := range []any{input.GameID, userName, input.Rating, input.Comment} {
		if validate.Var(field, "required") != nil {
			return apperrors.Validation(msgMissingFields)
		}
	}
	if validate.Var(input.Rating, ratingRule) != nil {
		return apperrors.Validation(msgRatingRange)
	}
	if validate.Var(input.Comment, commentRule) != nil {
		return apperrors.Validation(msgCommentLength)
	}
	if validate.Var(userName, userNameRule) != nil {
		return apperrors.Validation(msgUserNameLength)
	}
	return nil
}
