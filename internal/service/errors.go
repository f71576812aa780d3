package service

import (
	"errors"
	"fmt"

	"mockprep/internal/extract"
	"mockprep/internal/model"
)

var (
	ErrSessionNotFound   = errors.New("answer session not found")
	ErrStaleSession      = errors.New("answer session is no longer current")
	ErrInterviewNotFound = errors.New("interview not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrForbidden         = errors.New("not allowed")
	ErrInvalidTransition = model.ErrInvalidTransition
)

// GenerationErrorKind classifies a failed call to the generation endpoint
type GenerationErrorKind string

const (
	GenNotConfigured GenerationErrorKind = "not_configured"
	GenTransport     GenerationErrorKind = "transport"
	GenRateLimited   GenerationErrorKind = "rate_limited"
	GenProvider      GenerationErrorKind = "provider"
	GenBlocked       GenerationErrorKind = "blocked"
	GenEmpty         GenerationErrorKind = "empty"
)

// GenerationError is the only error a Generator returns
type GenerationError struct {
	Kind       GenerationErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	msg := "generation failed (" + string(e.Kind) + ")"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the call may succeed
func (e *GenerationError) Retryable() bool {
	return e.Kind == GenTransport || e.Kind == GenRateLimited
}

func (e *GenerationError) UserMessage() string {
	switch e.Kind {
	case GenNotConfigured:
		return "AI generation is not configured on this server."
	case GenRateLimited:
		return "The AI service is busy right now. Please wait a moment and try again."
	case GenBlocked:
		return "The AI service declined this request. Try rephrasing your input."
	case GenEmpty:
		return "The AI service returned an empty response. Please try again."
	default:
		return "Could not reach the AI service. Please try again."
	}
}

// WorkflowErrorKind classifies a failed interview generation
type WorkflowErrorKind string

const (
	WorkflowGenerationFailed WorkflowErrorKind = "generation_failed"
	WorkflowInvalidAIOutput  WorkflowErrorKind = "invalid_ai_output"
)

// WorkflowError wraps the generation or extraction failure that aborted
// interview generation
type WorkflowError struct {
	Kind WorkflowErrorKind
	Err  error
}

func (e *WorkflowError) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func (e *WorkflowError) UserMessage() string {
	if e.Kind == WorkflowInvalidAIOutput {
		return "The AI returned interview questions in an unexpected format. Please try again."
	}
	var genErr *GenerationError
	if errors.As(e.Err, &genErr) {
		return genErr.UserMessage()
	}
	return "Could not generate interview questions. Please try again."
}

// ValidationError rejects caller input without changing any state
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) UserMessage() string {
	return e.Message
}

// PersistenceError is a storage failure; the operation can be retried
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) UserMessage() string {
	return "Storage is temporarily unavailable. Please try again."
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// UserMessage returns a human-readable message for any service error
func UserMessage(err error) string {
	var (
		userErr interface{ UserMessage() string }
		extErr  *extract.Error
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &userErr):
		return userErr.UserMessage()
	case errors.As(err, &extErr):
		return "The AI response could not be understood."
	case errors.Is(err, ErrSessionNotFound):
		return "This answer session has ended. Open the question again."
	case errors.Is(err, ErrStaleSession):
		return "This answer session changed while the request was running."
	case errors.Is(err, ErrInterviewNotFound):
		return "Interview not found."
	case errors.Is(err, ErrQuestionNotFound):
		return "Question not found in this interview."
	case errors.Is(err, ErrForbidden):
		return "You do not have access to this resource."
	case errors.Is(err, ErrInvalidTransition):
		return "That action is not available right now."
	case errors.Is(err, ErrInvalidToken):
		return "Your session token is invalid or expired."
	default:
		return "Something went wrong."
	}
}
