package domain

import "time"

// Review is one free-text comment plus rating from a single submission.
type Review struct {
	ID        string    `json:"id"`
	GameID    string    `json:"gameId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
}

// Rating is one vote attributed to one minted user id for one game.
type Rating struct {
	GameID    string    `json:"gameId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

type GameStats struct {
	AverageRating      float64     `json:"averageRating"`
	TotalRatings       int         `json:"totalRatings"`
	TotalReviews       int         `json:"totalReviews"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

const (
	MinRating = 1
	MaxRating = 5
)

// EmptyStats is the zero statistics record with every bucket present.
func EmptyStats() GameStats {
	return GameStats{RatingDistribution: EmptyDistribution()}
}

func EmptyDistribution() map[int]int {
	distribution := make(map[int]int, MaxRating)
	for r := MinRating; r <= MaxRating; r++ {
		distribution[r] = 0
	}
	return distribution
}

const EventReviewSubmitted = "review_submitted"

// ReviewEvent is published after a submission has been stored.
type ReviewEvent struct {
	Type      string    `json:"type"`
	GameID    string    `json:"gameId"`
	ReviewID  string    `json:"reviewId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}
