package model

import "time"

// InterviewProfile is the job description an interview is generated from
type InterviewProfile struct {
	Position    string  `json:"position" bson:"position"`
	Description string  `json:"description" bson:"description"`
	Experience  float64 `json:"experience" bson:"experience"` // years, >= 0
	TechStack   string  `json:"techStack" bson:"techStack"`
}

// QuestionAnswer is one generated question with its reference answer
type QuestionAnswer struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}

// Interview is a generated mock interview owned by one user.
// Questions are replaced wholesale on regeneration, never merged.
type Interview struct {
	ID               string `json:"id" bson:"_id,omitempty"`
	InterviewProfile `bson:",inline"`
	Questions        []QuestionAnswer `json:"questions" bson:"questions"`
	OwnerID          string           `json:"ownerId" bson:"ownerId"`
	CreatedAt        time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// QuestionAt returns the question at index i
func (iv *Interview) QuestionAt(i int) (QuestionAnswer, bool) {
	if i < 0 || i >= len(iv.Questions) {
		return QuestionAnswer{}, false
	}
	return iv.Questions[i], true
}
