package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Phase is the lifecycle stage of an AnswerSession
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRecording  Phase = "recording"
	PhaseEvaluating Phase = "evaluating"
	PhaseReviewed   Phase = "reviewed"
	PhaseSaved      Phase = "saved"
)

// MinTranscriptLength is the shortest answer (in characters) accepted for evaluation
const MinTranscriptLength = 30

var (
	ErrInvalidTransition  = errors.New("invalid session transition")
	ErrTranscriptTooShort = errors.New("transcript too short")
)

// AnswerSession is one attempt at answering one question, from recording
// start to save or discard.
type AnswerSession struct {
	ID            string            `json:"id"`
	OwnerID       string            `json:"ownerId"`
	InterviewID   string            `json:"interviewId"`
	QuestionIndex int               `json:"questionIndex"`
	Question      QuestionAnswer    `json:"question"`
	Phase         Phase             `json:"phase"`
	Fragments     []string          `json:"fragments,omitempty"`
	Transcript    string            `json:"transcript"`
	Evaluation    *EvaluationResult `json:"evaluation,omitempty"`
	WebcamEnabled bool              `json:"webcamEnabled"`
	Revision      int64             `json:"revision"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// NewAnswerSession opens a session in the Idle phase
func NewAnswerSession(id, ownerID, interviewID string, index int, q QuestionAnswer, now time.Time) *AnswerSession {
	return &AnswerSession{
		ID:            id,
		OwnerID:       ownerID,
		InterviewID:   interviewID,
		QuestionIndex: index,
		Question:      q,
		Phase:         PhaseIdle,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *AnswerSession) require(action string, allowed ...Phase) error {
	for _, p := range allowed {
		if s.Phase == p {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, s.Phase)
}

func (s *AnswerSession) clearTranscript() {
	s.Fragments = nil
	s.Transcript = ""
}

// Start begins recording with an empty transcript
func (s *AnswerSession) Start() error {
	if err := s.require("start", PhaseIdle); err != nil {
		return err
	}
	s.clearTranscript()
	s.Phase = PhaseRecording
	return nil
}

// AppendFragment adds a finalized transcript fragment. Fragments are joined
// with single spaces in the order they arrive.
func (s *AnswerSession) AppendFragment(fragment string) error {
	if err := s.require("append transcript", PhaseRecording); err != nil {
		return err
	}
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil
	}
	s.Fragments = append(s.Fragments, fragment)
	s.Transcript = strings.Join(s.Fragments, " ")
	return nil
}

// TranscriptLength counts characters, not bytes
func (s *AnswerSession) TranscriptLength() int {
	return utf8.RuneCountInString(s.Transcript)
}

// Stop freezes the transcript and moves to Evaluating. A transcript shorter
// than MinTranscriptLength leaves the session recording.
func (s *AnswerSession) Stop() error {
	if err := s.require("stop", PhaseRecording); err != nil {
		return err
	}
	if s.TranscriptLength() < MinTranscriptLength {
		return fmt.Errorf("%w: %d of %d characters", ErrTranscriptTooShort, s.TranscriptLength(), MinTranscriptLength)
	}
	s.Phase = PhaseEvaluating
	return nil
}

// Discard drops the transcript and returns to Idle
func (s *AnswerSession) Discard() error {
	if err := s.require("discard", PhaseRecording); err != nil {
		return err
	}
	s.clearTranscript()
	s.Phase = PhaseIdle
	return nil
}

// RecordAgain discards any recording in progress and starts a fresh one
func (s *AnswerSession) RecordAgain() error {
	if s.Phase == PhaseRecording {
		if err := s.Discard(); err != nil {
			return err
		}
	}
	return s.Start()
}

// CompleteEvaluation attaches the result and moves to Reviewed
func (s *AnswerSession) CompleteEvaluation(result EvaluationResult) error {
	if err := s.require("complete evaluation", PhaseEvaluating); err != nil {
		return err
	}
	s.Evaluation = &result
	s.Phase = PhaseReviewed
	return nil
}

// CanSave reports whether the session holds a reviewed answer
func (s *AnswerSession) CanSave() error {
	if err := s.require("save", PhaseReviewed); err != nil {
		return err
	}
	if s.Evaluation == nil {
		return fmt.Errorf("%w: no evaluation attached", ErrInvalidTransition)
	}
	return nil
}

// MarkSaved moves a reviewed session to Saved
func (s *AnswerSession) MarkSaved() error {
	if err := s.CanSave(); err != nil {
		return err
	}
	s.Phase = PhaseSaved
	return nil
}

// ToggleWebcam flips the webcam flag; it has no effect on the phase
func (s *AnswerSession) ToggleWebcam() bool {
	s.WebcamEnabled = !s.WebcamEnabled
	return s.WebcamEnabled
}

// Describe renders the phase for display
func (s *AnswerSession) Describe() string {
	switch s.Phase {
	case PhaseRecording:
		if s.WebcamEnabled {
			return "recording (webcam on)"
		}
		return "recording (webcam off)"
	case PhaseReviewed:
		if s.Evaluation != nil {
			return fmt.Sprintf("reviewed (%d/10)", s.Evaluation.Rating)
		}
	}
	return string(s.Phase)
}

// ToStoredAnswer builds the record persisted for a reviewed session
func (s *AnswerSession) ToStoredAnswer() *StoredAnswer {
	a := &StoredAnswer{
		InterviewID:   s.InterviewID,
		Question:      s.Question.Question,
		CorrectAnswer: s.Question.Answer,
		UserAnswer:    s.Transcript,
		OwnerID:       s.OwnerID,
	}
	if s.Evaluation != nil {
		a.Rating = s.Evaluation.Rating
		a.Feedback = s.Evaluation.Feedback
	}
	return a
}
