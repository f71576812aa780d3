package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"mockprep/internal/cache"
	"mockprep/internal/model"
)

type genResponse struct {
	text string
	err  error
}

// fakeGenerator replays responses in order, repeating the last one
type fakeGenerator struct {
	mu        sync.Mutex
	responses []genResponse
	prompts   []string
	during    func()
}

func generatorReturning(text string) *fakeGenerator {
	return &fakeGenerator{responses: []genResponse{{text: text}}}
}

func generatorFailing(err error) *fakeGenerator {
	return &fakeGenerator{responses: []genResponse{{err: err}}}
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	if i >= len(g.responses) {
		i = len(g.responses) - 1
	}
	r := g.responses[i]
	during := g.during
	g.mu.Unlock()

	if during != nil {
		during()
	}
	return r.text, r.err
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakeInterviewRepo struct {
	mu         sync.Mutex
	interviews map[string]*model.Interview
	nextID     int
	writes     int
	err        error
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{interviews: map[string]*model.Interview{}}
}

func (r *fakeInterviewRepo) put(iv *model.Interview) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *iv
	r.interviews[iv.ID] = &cp
}

func (r *fakeInterviewRepo) Create(ctx context.Context, iv *model.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	r.writes++
	iv.ID = fmt.Sprintf("iv-%d", r.nextID)
	cp := *iv
	r.interviews[iv.ID] = &cp
	return nil
}

func (r *fakeInterviewRepo) GetByID(ctx context.Context, id string) (*model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	iv, ok := r.interviews[id]
	if !ok {
		return nil, nil
	}
	cp := *iv
	return &cp, nil
}

func (r *fakeInterviewRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Interview{}
	for _, iv := range r.interviews {
		if iv.OwnerID == ownerID {
			cp := *iv
			out = append(out, &cp)
		}
	}
	return out, r.err
}

func (r *fakeInterviewRepo) ReplaceGenerated(ctx context.Context, id string, profile model.InterviewProfile, questions []model.QuestionAnswer) (*model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	iv, ok := r.interviews[id]
	if !ok {
		return nil, nil
	}
	r.writes++
	iv.InterviewProfile = profile
	iv.Questions = questions
	cp := *iv
	return &cp, nil
}

type fakeAnswerRepo struct {
	mu          sync.Mutex
	answers     []*model.StoredAnswer
	findErr     error
	insertErr   error
	inserts     int
	conditional bool

	// concurrentWrite is stored just before the next Insert runs
	concurrentWrite *model.StoredAnswer
}

func (r *fakeAnswerRepo) FindExisting(ctx context.Context, ownerID, question string) (*model.StoredAnswer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.lookup(ownerID, question), nil
}

func (r *fakeAnswerRepo) lookup(ownerID, question string) *model.StoredAnswer {
	for _, a := range r.answers {
		if a.OwnerID == ownerID && a.Question == question {
			return a
		}
	}
	return nil
}

func (r *fakeAnswerRepo) Insert(ctx context.Context, answer *model.StoredAnswer) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return false, r.insertErr
	}
	if r.concurrentWrite != nil {
		r.answers = append(r.answers, r.concurrentWrite)
		r.concurrentWrite = nil
	}
	if r.conditional && r.lookup(answer.OwnerID, answer.Question) != nil {
		return false, nil
	}
	r.inserts++
	answer.ID = fmt.Sprintf("ans-%d", r.inserts)
	r.answers = append(r.answers, answer)
	return true, nil
}

func (r *fakeAnswerRepo) ListByInterview(ctx context.Context, ownerID, interviewID string) ([]*model.StoredAnswer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.StoredAnswer{}
	for _, a := range r.answers {
		if a.OwnerID == ownerID && a.InterviewID == interviewID {
			out = append(out, a)
		}
	}
	return out, nil
}

// fakeSessionCache stores JSON like the Redis cache and enforces revisions
type fakeSessionCache struct {
	mu       sync.Mutex
	sessions map[string][]byte
	active   map[string]string
	err      error

	// failUpdate, when set, can reject a write before it is applied
	failUpdate func(s *model.AnswerSession) error
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: map[string][]byte{}, active: map[string]string{}}
}

func (c *fakeSessionCache) Create(ctx context.Context, s *model.AnswerSession) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	data, _ := json.Marshal(s)
	previous := c.active[s.OwnerID]
	if previous != "" {
		delete(c.sessions, previous)
	}
	c.sessions[s.ID] = data
	c.active[s.OwnerID] = s.ID
	return previous, nil
}

func (c *fakeSessionCache) Get(ctx context.Context, id string) (*model.AnswerSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	data, ok := c.sessions[id]
	if !ok {
		return nil, nil
	}
	var s model.AnswerSession
	_ = json.Unmarshal(data, &s)
	return &s, nil
}

func (c *fakeSessionCache) Update(ctx context.Context, s *model.AnswerSession, expectedRevision int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.failUpdate != nil {
		if err := c.failUpdate(s); err != nil {
			return err
		}
	}
	data, ok := c.sessions[s.ID]
	if !ok {
		return cache.ErrStaleRevision
	}
	var current model.AnswerSession
	_ = json.Unmarshal(data, &current)
	if current.Revision != expectedRevision {
		return cache.ErrStaleRevision
	}
	next := *s
	next.Revision = expectedRevision + 1
	c.sessions[s.ID], _ = json.Marshal(&next)
	s.Revision = next.Revision
	return nil
}

func (c *fakeSessionCache) Delete(ctx context.Context, ownerID, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	if c.active[ownerID] == id {
		delete(c.active, ownerID)
	}
	return nil
}

// bumpRevision simulates another writer
func (c *fakeSessionCache) bumpRevision(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var s model.AnswerSession
	_ = json.Unmarshal(c.sessions[id], &s)
	s.Revision++
	c.sessions[id], _ = json.Marshal(&s)
}

type sentEvent struct {
	ownerID string
	msgType string
	payload interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (b *recordingBroadcaster) NotifyOwner(ownerID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{ownerID, msgType, payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.msgType)
	}
	return out
}
