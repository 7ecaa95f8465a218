package domain

import "strings"

// Key namespaces. Components are joined with a literal ':'; game ids and
// minted ids are not checked for ':' (see DESIGN.md).
const (
	reviewsNamespace = "reviews"
	ratingsNamespace = "ratings"
	keySeparator     = ":"
)

func ReviewKey(gameID, reviewID string) string {
	return ReviewPrefix(gameID) + reviewID
}

func RatingKey(gameID, userID string) string {
	return RatingPrefix(gameID) + userID
}

// ReviewPrefix enumerates every review of a game.
func ReviewPrefix(gameID string) string {
	return strings.Join([]string{reviewsNamespace, gameID, ""}, keySeparator)
}

// RatingPrefix enumerates every rating of a game.
func RatingPrefix(gameID string) string {
	return strings.Join([]string{ratingsNamespace, gameID, ""}, keySeparator)
}
