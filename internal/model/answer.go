package model

import "time"

// SentinelFeedback is attached when an answer could not be scored
const SentinelFeedback = "unable to generate feedback"

// EvaluationResult is the model's verdict on one spoken answer
type EvaluationResult struct {
	Rating   int    `json:"rating" bson:"rating"` // 0-10
	Feedback string `json:"feedback" bson:"feedback"`
}

// SentinelEvaluation is the degraded result used when evaluation fails
func SentinelEvaluation() EvaluationResult {
	return EvaluationResult{Rating: 0, Feedback: SentinelFeedback}
}

// IsSentinel reports whether r is the degraded placeholder result
func (r EvaluationResult) IsSentinel() bool {
	return r == SentinelEvaluation()
}

// StoredAnswer is the persisted record of a reviewed answer.
// At most one exists per (OwnerID, Question).
type StoredAnswer struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	InterviewID   string    `json:"interviewId" bson:"interviewId"`
	Question      string    `json:"question" bson:"question"`
	CorrectAnswer string    `json:"correctAnswer" bson:"correctAnswer"`
	UserAnswer    string    `json:"userAnswer" bson:"userAnswer"`
	Rating        int       `json:"rating" bson:"rating"`
	Feedback      string    `json:"feedback" bson:"feedback"`
	OwnerID       string    `json:"ownerId" bson:"ownerId"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// SaveOutcome tells the caller whether a save wrote a new record
type SaveOutcome string

const (
	SaveCreated       SaveOutcome = "created"
	SaveAlreadyExists SaveOutcome = "already_exists"
)
