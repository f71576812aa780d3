package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mockprep/internal/cache"
	"mockprep/internal/config"
	"mockprep/internal/extract"
	"mockprep/internal/model"
	"mockprep/internal/prompt"
	"mockprep/internal/repository"
)

// mutations retried when a concurrent write bumped the revision, and
// evaluation result writes retried after a storage failure
const maxMutationAttempts = 3

// SaveResult is returned by Save
type SaveResult struct {
	Outcome model.SaveOutcome    `json:"outcome"`
	Answer  *model.StoredAnswer  `json:"answer,omitempty"`
	Session *model.AnswerSession `json:"session"`
}

// AnswerService drives AnswerSessions from recording to a stored answer
type AnswerService struct {
	sessions      cache.SessionCache
	interviewRepo repository.InterviewRepo
	answerRepo    repository.AnswerRepo
	evaluator     Generator
	evalTimeout   time.Duration
	broadcaster   Broadcaster
	logger        *slog.Logger
	newID         func() string
	now           func() time.Time
}

// NewAnswerService creates a new answer service
func NewAnswerService(
	sessions cache.SessionCache,
	interviewRepo repository.InterviewRepo,
	answerRepo repository.AnswerRepo,
	evaluator Generator,
	cfg *config.AIConfig,
	logger *slog.Logger,
) *AnswerService {
	return &AnswerService{
		sessions:      sessions,
		interviewRepo: interviewRepo,
		answerRepo:    answerRepo,
		evaluator:     evaluator,
		evalTimeout:   cfg.Timeout(),
		broadcaster:   noopBroadcaster{},
		logger:        logger.With("component", "answer"),
		newID:         func() string { return uuid.New().String() },
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AnswerService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Open starts a session for the question at index. The owner's previous
// session, if any, is closed.
func (s *AnswerService) Open(ctx context.Context, ownerID, interviewID string, index int) (*model.AnswerSession, error) {
	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return nil, persistErr("get interview", err)
	}
	if interview == nil {
		return nil, ErrInterviewNotFound
	}
	if interview.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	q, ok := interview.QuestionAt(index)
	if !ok {
		return nil, ErrQuestionNotFound
	}

	session := model.NewAnswerSession(s.newID(), ownerID, interviewID, index, q, s.now())
	replaced, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, persistErr("create session", err)
	}
	if replaced != "" {
		s.broadcaster.NotifyOwner(ownerID, EventSessionClosed, map[string]string{"sessionId": replaced})
	}

	s.logger.Debug("session opened", "session_id", session.ID, "interview_id", interviewID, "question_index", index)
	return session, nil
}

// Get returns a live session owned by ownerID
func (s *AnswerService) Get(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, persistErr("get session", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return session, nil
}

// mutate applies fn to the current session and stores it. fn is re-applied
// to a fresh copy if another write landed in between.
func (s *AnswerService) mutate(ctx context.Context, ownerID, sessionID string, fn func(*model.AnswerSession) error) (*model.AnswerSession, error) {
	for attempt := 1; ; attempt++ {
		session, err := s.Get(ctx, ownerID, sessionID)
		if err != nil {
			return nil, err
		}
		if err := fn(session); err != nil {
			return nil, err
		}

		err = s.store(ctx, session)
		if err == nil {
			s.broadcaster.NotifyOwner(ownerID, EventSessionUpdated, session)
			return session, nil
		}
		if !errors.Is(err, ErrStaleSession) || attempt == maxMutationAttempts {
			return nil, err
		}
	}
}

func (s *AnswerService) store(ctx context.Context, session *model.AnswerSession) error {
	session.UpdatedAt = s.now()
	err := s.sessions.Update(ctx, session, session.Revision)
	if errors.Is(err, cache.ErrStaleRevision) {
		return ErrStaleSession
	}
	if err != nil {
		return persistErr("update session", err)
	}
	return nil
}

// Start begins recording with an empty transcript
func (s *AnswerService) Start(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error) {
	return s.mutate(ctx, ownerID, sessionID, (*model.AnswerSession).Start)
}

// AppendTranscript adds one finalized speech-to-text fragment
func (s *AnswerService) AppendTranscript(ctx context.Context, ownerID, sessionID, fragment string) (*model.AnswerSession, error) {
	return s.mutate(ctx, ownerID, sessionID, func(session *model.AnswerSession) error {
		return session.AppendFragment(fragment)
	})
}

// Discard drops the transcript and returns to Idle
func (s *AnswerService) Discard(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error) {
	return s.mutate(ctx, ownerID, sessionID, (*model.AnswerSession).Discard)
}

// RecordAgain clears the transcript and restarts recording
func (s *AnswerService) RecordAgain(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error) {
	return s.mutate(ctx, ownerID, sessionID, (*model.AnswerSession).RecordAgain)
}

// ToggleWebcam flips the webcam flag
func (s *AnswerService) ToggleWebcam(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error) {
	return s.mutate(ctx, ownerID, sessionID, func(session *model.AnswerSession) error {
		session.ToggleWebcam()
		return nil
	})
}

// Stop freezes the transcript and evaluates it. Evaluation failures
// degrade to the sentinel result. If the session was closed or changed
// while the evaluation ran, the result is discarded and ErrStaleSession
// is returned. A session left in evaluating by a failed result write is
// evaluated again, so a PersistenceError from Stop can be retried.
func (s *AnswerService) Stop(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error) {
	session, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Phase != model.PhaseEvaluating {
		if err := session.Stop(); err != nil {
			if errors.Is(err, model.ErrTranscriptTooShort) {
				return nil, &ValidationError{
					Field:   "transcript",
					Message: fmt.Sprintf("Your answer is too short (%d characters). Please speak at least %d characters.", session.TranscriptLength(), model.MinTranscriptLength),
					Err:     err,
				}
			}
			return nil, err
		}
		if err := s.store(ctx, session); err != nil {
			return nil, err
		}
		s.broadcaster.NotifyOwner(ownerID, EventSessionUpdated, session)
	} else {
		s.logger.Info("resuming evaluation", "session_id", sessionID)
	}

	// evaluation and its write outlive the request
	detached := context.WithoutCancel(ctx)
	result := s.evaluate(detached, session)

	if err := session.CompleteEvaluation(result); err != nil {
		return nil, err
	}
	if err := s.storeResult(detached, session); err != nil {
		if errors.Is(err, ErrStaleSession) {
			s.logger.Info("evaluation discarded, session no longer current", "session_id", sessionID)
		}
		return nil, err
	}

	s.broadcaster.NotifyOwner(ownerID, EventEvaluationResult, map[string]interface{}{
		"sessionId":  session.ID,
		"evaluation": result,
	})
	s.broadcaster.NotifyOwner(ownerID, EventSessionUpdated, session)
	return session, nil
}

// storeResult writes the evaluated session, retrying storage failures.
// A stale revision is never retried.
func (s *AnswerService) storeResult(ctx context.Context, session *model.AnswerSession) error {
	var err error
	for attempt := 1; attempt <= maxMutationAttempts; attempt++ {
		err = s.store(ctx, session)
		if err == nil || errors.Is(err, ErrStaleSession) {
			return err
		}
		s.logger.Warn("failed to store evaluation", "session_id", session.ID, "attempt", attempt, "error", err)
	}
	return err
}

// evaluate never fails: any generation or extraction error yields the sentinel
func (s *AnswerService) evaluate(ctx context.Context, session *model.AnswerSession) model.EvaluationResult {
	evalCtx, cancel := context.WithTimeout(ctx, s.evalTimeout)
	defer cancel()

	p := prompt.BuildEvaluationPrompt(session.Question.Question, session.Question.Answer, session.Transcript)
	raw, err := s.evaluator.Generate(evalCtx, p)
	if err != nil {
		s.logger.Warn("evaluation generation failed", "session_id", session.ID, "error", err)
		return model.SentinelEvaluation()
	}

	result, err := extract.Evaluation(raw)
	if err != nil {
		var extErr *extract.Error
		if errors.As(err, &extErr) {
			s.logger.Warn("evaluation output rejected", "session_id", session.ID, "kind", extErr.Kind.String(), "detail", extErr.Detail, "span", extErr.Span)
		}
		return model.SentinelEvaluation()
	}
	return result
}

// Save persists a reviewed answer once per (owner, question) and ends the
// session. An existing answer yields SaveAlreadyExists, not an error.
// On PersistenceError the session stays reviewed so the caller can retry.
func (s *AnswerService) Save(ctx context.Context, ownerID, sessionID string) (*SaveResult, error) {
	session, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.CanSave(); err != nil {
		return nil, err
	}

	result := &SaveResult{Outcome: model.SaveAlreadyExists, Session: session}

	existing, err := s.answerRepo.FindExisting(ctx, ownerID, session.Question.Question)
	if err != nil {
		return nil, persistErr("find answer", err)
	}
	if existing != nil {
		result.Answer = existing
	} else {
		record := session.ToStoredAnswer()
		record.CreatedAt = s.now()
		created, err := s.answerRepo.Insert(ctx, record)
		if err != nil {
			return nil, persistErr("insert answer", err)
		}
		if created {
			result.Outcome = model.SaveCreated
			result.Answer = record
		}
	}

	if err := session.MarkSaved(); err != nil {
		return nil, err
	}
	if err := s.sessions.Delete(ctx, ownerID, session.ID); err != nil {
		s.logger.Warn("failed to delete saved session", "session_id", session.ID, "error", err)
	}

	s.logger.Info("answer saved", "session_id", session.ID, "outcome", result.Outcome)
	s.broadcaster.NotifyOwner(ownerID, EventAnswerSaved, result)
	return result, nil
}

// Close ends a session without saving. Any evaluation still running for it
// is discarded when it completes.
func (s *AnswerService) Close(ctx context.Context, ownerID, sessionID string) error {
	if _, err := s.Get(ctx, ownerID, sessionID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, ownerID, sessionID); err != nil {
		return persistErr("delete session", err)
	}
	s.broadcaster.NotifyOwner(ownerID, EventSessionClosed, map[string]string{"sessionId": sessionID})
	return nil
}
