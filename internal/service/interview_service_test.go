package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockprep/internal/config"
	"mockprep/internal/extract"
	"mockprep/internal/logging"
	"mockprep/internal/model"
)

var backendProfile = model.InterviewProfile{
	Position:    "Backend Engineer",
	Description: "Design and run payment services",
	Experience:  3,
	TechStack:   "Go, PostgreSQL",
}

const fencedTwoQuestions = "```json\n[{\"question\":\"Q1\",\"answer\":\"A1\"}, {\"question\":\"Q2\",\"answer\":\"A2\"}]\n```"

func newInterviewService(gen Generator, attempts int) (*InterviewService, *fakeInterviewRepo, *fakeAnswerRepo) {
	cfg := config.DefaultAIConfig()
	cfg.GenerationAttempts = attempts
	interviews := newFakeInterviewRepo()
	answers := &fakeAnswerRepo{}
	svc := NewInterviewService(interviews, answers, gen, &cfg, logging.Discard())
	svc.backoff = func(int) time.Duration { return 0 }
	return svc, interviews, answers
}

func TestGenerateQuestionsFromFencedOutput(t *testing.T) {
	gen := generatorReturning(fencedTwoQuestions)
	svc, _, _ := newInterviewService(gen, 1)

	questions, err := svc.GenerateQuestions(context.Background(), backendProfile)
	require.NoError(t, err)
	assert.Equal(t, []model.QuestionAnswer{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
	}, questions)

	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "Backend Engineer")
	assert.Contains(t, gen.prompts[0], "Go, PostgreSQL")
	assert.Contains(t, gen.prompts[0], "exactly 5")
}

func TestCreateStoresInterview(t *testing.T) {
	svc, repo, _ := newInterviewService(generatorReturning(fencedTwoQuestions), 1)

	profile := backendProfile
	profile.Position = "  Backend Engineer  "
	iv, err := svc.Create(context.Background(), "owner-1", profile)
	require.NoError(t, err)

	assert.NotEmpty(t, iv.ID)
	assert.Equal(t, "owner-1", iv.OwnerID)
	assert.Equal(t, "Backend Engineer", iv.Position)
	assert.Len(t, iv.Questions, 2)
	assert.Equal(t, 1, repo.writes)
}

func TestCreateWritesNothingOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		gen      *fakeGenerator
		wantKind WorkflowErrorKind
		wantErr  error
	}{
		{
			name:     "generation failed",
			gen:      generatorFailing(&GenerationError{Kind: GenProvider, StatusCode: 500}),
			wantKind: WorkflowGenerationFailed,
		},
		{
			name:     "prose instead of array",
			gen:      generatorReturning("Sorry, I can't help with that."),
			wantKind: WorkflowInvalidAIOutput,
			wantErr:  extract.ErrNoStructureFound,
		},
		{
			name:     "truncated array",
			gen:      generatorReturning(`[{"question":"Q1","answer":"A1"},{"question":"Q2"]`),
			wantKind: WorkflowInvalidAIOutput,
			wantErr:  extract.ErrMalformedSyntax,
		},
		{
			name:     "missing answer field",
			gen:      generatorReturning(`[{"question":"Q1"}]`),
			wantKind: WorkflowInvalidAIOutput,
			wantErr:  extract.ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newInterviewService(tt.gen, 1)

			iv, err := svc.Create(context.Background(), "owner-1", backendProfile)
			assert.Nil(t, iv)

			var wfErr *WorkflowError
			require.True(t, errors.As(err, &wfErr))
			assert.Equal(t, tt.wantKind, wfErr.Kind)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.NotEmpty(t, UserMessage(err))
			assert.Equal(t, 0, repo.writes)
			assert.Equal(t, 1, tt.gen.calls(), "malformed output is never retried")
		})
	}
}

func TestGenerationRetriesOnlyTransientFailures(t *testing.T) {
	t.Run("transport then success", func(t *testing.T) {
		gen := &fakeGenerator{responses: []genResponse{
			{err: &GenerationError{Kind: GenTransport}},
			{err: &GenerationError{Kind: GenRateLimited, StatusCode: 429}},
			{text: fencedTwoQuestions},
		}}
		svc, _, _ := newInterviewService(gen, 3)

		questions, err := svc.GenerateQuestions(context.Background(), backendProfile)
		require.NoError(t, err)
		assert.Len(t, questions, 2)
		assert.Equal(t, 3, gen.calls())
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		gen := generatorFailing(&GenerationError{Kind: GenTransport})
		svc, _, _ := newInterviewService(gen, 2)

		_, err := svc.GenerateQuestions(context.Background(), backendProfile)
		assert.Error(t, err)
		assert.Equal(t, 2, gen.calls())
	})

	t.Run("blocked is not retried", func(t *testing.T) {
		gen := generatorFailing(&GenerationError{Kind: GenBlocked})
		svc, _, _ := newInterviewService(gen, 3)

		_, err := svc.GenerateQuestions(context.Background(), backendProfile)
		assert.Error(t, err)
		assert.Equal(t, 1, gen.calls())
	})

	t.Run("cancelled while backing off", func(t *testing.T) {
		gen := generatorFailing(&GenerationError{Kind: GenTransport})
		svc, _, _ := newInterviewService(gen, 3)
		svc.backoff = func(int) time.Duration { return time.Hour }

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.GenerateQuestions(ctx, backendProfile)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, gen.calls())
	})
}

func TestCountIsAdvisory(t *testing.T) {
	svc, _, _ := newInterviewService(generatorReturning(`[{"question":"Only","answer":"One"}]`), 1)

	questions, err := svc.GenerateQuestions(context.Background(), backendProfile)
	require.NoError(t, err)
	assert.Len(t, questions, 1)

	svc, _, _ = newInterviewService(generatorReturning(`[]`), 1)
	questions, err = svc.GenerateQuestions(context.Background(), backendProfile)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *model.InterviewProfile)
		wantField string
	}{
		{"valid", func(p *model.InterviewProfile) {}, ""},
		{"zero experience", func(p *model.InterviewProfile) { p.Experience = 0 }, ""},
		{"position 100 chars", func(p *model.InterviewProfile) { p.Position = strings.Repeat("é", 100) }, ""},
		{"empty position", func(p *model.InterviewProfile) { p.Position = "   " }, "position"},
		{"long position", func(p *model.InterviewProfile) { p.Position = strings.Repeat("x", 101) }, "position"},
		{"short description", func(p *model.InterviewProfile) { p.Description = "too short" }, "description"},
		{"negative experience", func(p *model.InterviewProfile) { p.Experience = -1 }, "experience"},
		{"NaN experience", func(p *model.InterviewProfile) { p.Experience = math.NaN() }, "experience"},
		{"empty tech stack", func(p *model.InterviewProfile) { p.TechStack = "" }, "techStack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := backendProfile
			tt.mutate(&p)

			err := ValidateProfile(&p)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestCreateRejectsInvalidProfileWithoutCallingModel(t *testing.T) {
	gen := generatorReturning(fencedTwoQuestions)
	svc, _, _ := newInterviewService(gen, 1)

	profile := backendProfile
	profile.Description = "short"
	_, err := svc.Create(context.Background(), "owner-1", profile)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, 0, gen.calls())
}

func TestRegenerateReplacesQuestionsWholesale(t *testing.T) {
	gen := &fakeGenerator{responses: []genResponse{
		{text: fencedTwoQuestions},
		{text: `[{"question":"New","answer":"Fresh"}]`},
	}}
	svc, repo, _ := newInterviewService(gen, 1)
	ctx := context.Background()

	iv, err := svc.Create(ctx, "owner-1", backendProfile)
	require.NoError(t, err)

	edited := backendProfile
	edited.TechStack = "Rust"
	updated, err := svc.Regenerate(ctx, "owner-1", iv.ID, edited)
	require.NoError(t, err)

	assert.Equal(t, "Rust", updated.TechStack)
	assert.Equal(t, []model.QuestionAnswer{{Question: "New", Answer: "Fresh"}}, updated.Questions)
	assert.Contains(t, gen.prompts[1], "Rust")
	assert.Equal(t, 2, repo.writes)
}

func TestRegenerateFailureLeavesInterviewUntouched(t *testing.T) {
	gen := &fakeGenerator{responses: []genResponse{
		{text: fencedTwoQuestions},
		{text: "no json here"},
	}}
	svc, repo, _ := newInterviewService(gen, 1)
	ctx := context.Background()

	iv, err := svc.Create(ctx, "owner-1", backendProfile)
	require.NoError(t, err)

	edited := backendProfile
	edited.TechStack = "Rust"
	_, err = svc.Regenerate(ctx, "owner-1", iv.ID, edited)
	require.Error(t, err)

	stored, err := svc.Get(ctx, "owner-1", iv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go, PostgreSQL", stored.TechStack)
	assert.Len(t, stored.Questions, 2)
	assert.Equal(t, 1, repo.writes)
}

func TestInterviewAccessIsOwnerScoped(t *testing.T) {
	gen := generatorReturning(fencedTwoQuestions)
	svc, _, _ := newInterviewService(gen, 1)
	ctx := context.Background()

	iv, err := svc.Create(ctx, "owner-1", backendProfile)
	require.NoError(t, err)

	_, err = svc.Get(ctx, "owner-2", iv.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Regenerate(ctx, "owner-2", iv.ID, backendProfile)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 1, gen.calls())

	_, err = svc.Get(ctx, "owner-1", "missing")
	assert.ErrorIs(t, err, ErrInterviewNotFound)

	_, err = svc.ListAnswers(ctx, "owner-2", iv.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	mine, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.List(ctx, "owner-2")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCreatePersistenceFailure(t *testing.T) {
	svc, repo, _ := newInterviewService(generatorReturning(fencedTwoQuestions), 1)
	repo.err = errors.New("mongo down")

	_, err := svc.Create(context.Background(), "owner-1", backendProfile)
	var pErr *PersistenceError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "create interview", pErr.Op)
}
