package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"mockprep/internal/config"
	"mockprep/internal/extract"
	"mockprep/internal/model"
	"mockprep/internal/prompt"
	"mockprep/internal/repository"
)

// InterviewService generates interviews from job profiles and stores them
type InterviewService struct {
	interviewRepo repository.InterviewRepo
	answerRepo    repository.AnswerRepo
	generator     Generator
	questionCount int
	attempts      int
	backoff       func(attempt int) time.Duration
	logger        *slog.Logger
}

// NewInterviewService creates a new interview service
func NewInterviewService(
	interviewRepo repository.InterviewRepo,
	answerRepo repository.AnswerRepo,
	generator Generator,
	cfg *config.AIConfig,
	logger *slog.Logger,
) *InterviewService {
	attempts := cfg.GenerationAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &InterviewService{
		interviewRepo: interviewRepo,
		answerRepo:    answerRepo,
		generator:     generator,
		questionCount: cfg.QuestionCount,
		attempts:      attempts,
		backoff:       exponentialBackoff,
		logger:        logger.With("component", "interview"),
	}
}

// exponentialBackoff waits 1s, 2s, 4s... before retry n (n >= 1)
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
}

// GenerateQuestions runs prompt -> generate -> extract for profile. Only
// transport failures and rate limits are retried; malformed output is not.
func (s *InterviewService) GenerateQuestions(ctx context.Context, profile model.InterviewProfile) ([]model.QuestionAnswer, error) {
	p := prompt.BuildGenerationPrompt(profile, s.questionCount)

	var (
		raw string
		err error
	)
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			wait := s.backoff(attempt)
			s.logger.Info("retrying generation", "attempt", attempt+1, "of", s.attempts, "wait", wait)
			select {
			case <-ctx.Done():
				return nil, &WorkflowError{Kind: WorkflowGenerationFailed, Err: &GenerationError{Kind: GenTransport, Err: ctx.Err()}}
			case <-time.After(wait):
			}
		}

		raw, err = s.generator.Generate(ctx, p)
		if err == nil {
			break
		}
		var genErr *GenerationError
		if !errors.As(err, &genErr) || !genErr.Retryable() {
			break
		}
	}
	if err != nil {
		s.logger.Warn("generation failed", "error", err)
		return nil, &WorkflowError{Kind: WorkflowGenerationFailed, Err: err}
	}

	questions, err := extract.Questions(raw)
	if err != nil {
		var extErr *extract.Error
		if errors.As(err, &extErr) {
			s.logger.Warn("invalid AI output", "kind", extErr.Kind.String(), "detail", extErr.Detail, "span", extErr.Span)
		}
		return nil, &WorkflowError{Kind: WorkflowInvalidAIOutput, Err: err}
	}

	if len(questions) != s.questionCount {
		s.logger.Info("question count differs from requested", "requested", s.questionCount, "got", len(questions))
	}
	return questions, nil
}

// Create generates questions for profile and stores a new interview.
// Nothing is written when generation fails.
func (s *InterviewService) Create(ctx context.Context, ownerID string, profile model.InterviewProfile) (*model.Interview, error) {
	if err := ValidateProfile(&profile); err != nil {
		return nil, err
	}

	questions, err := s.GenerateQuestions(ctx, profile)
	if err != nil {
		return nil, err
	}

	interview := &model.Interview{
		InterviewProfile: profile,
		Questions:        questions,
		OwnerID:          ownerID,
	}
	if err := s.interviewRepo.Create(ctx, interview); err != nil {
		return nil, persistErr("create interview", err)
	}

	s.logger.Info("interview created", "interview_id", interview.ID, "owner_id", ownerID, "questions", len(questions))
	return interview, nil
}

// Regenerate replaces the profile and the whole question set of an existing
// interview. The stored interview is untouched when generation fails.
func (s *InterviewService) Regenerate(ctx context.Context, ownerID, id string, profile model.InterviewProfile) (*model.Interview, error) {
	if err := ValidateProfile(&profile); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return nil, err
	}

	questions, err := s.GenerateQuestions(ctx, profile)
	if err != nil {
		return nil, err
	}

	interview, err := s.interviewRepo.ReplaceGenerated(ctx, id, profile, questions)
	if err != nil {
		return nil, persistErr("update interview", err)
	}
	if interview == nil {
		return nil, ErrInterviewNotFound
	}

	s.logger.Info("interview regenerated", "interview_id", id, "questions", len(questions))
	return interview, nil
}

// Get returns an interview owned by ownerID
func (s *InterviewService) Get(ctx context.Context, ownerID, id string) (*model.Interview, error) {
	interview, err := s.interviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, persistErr("get interview", err)
	}
	if interview == nil {
		return nil, ErrInterviewNotFound
	}
	if interview.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return interview, nil
}

// List returns the owner's interviews, newest first
func (s *InterviewService) List(ctx context.Context, ownerID string) ([]*model.Interview, error) {
	interviews, err := s.interviewRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, persistErr("list interviews", err)
	}
	return interviews, nil
}

// ListAnswers returns the stored answers of one interview
func (s *InterviewService) ListAnswers(ctx context.Context, ownerID, interviewID string) ([]*model.StoredAnswer, error) {
	if _, err := s.Get(ctx, ownerID, interviewID); err != nil {
		return nil, err
	}
	answers, err := s.answerRepo.ListByInterview(ctx, ownerID, interviewID)
	if err != nil {
		return nil, persistErr("list answers", err)
	}
	return answers, nil
}
