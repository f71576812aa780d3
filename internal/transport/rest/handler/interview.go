package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"mockprep/internal/model"
	"mockprep/internal/transport/rest/middleware"
)

// Interviews is the interview API used by InterviewHandler
type Interviews interface {
	Create(ctx context.Context, ownerID string, profile model.InterviewProfile) (*model.Interview, error)
	Regenerate(ctx context.Context, ownerID, id string, profile model.InterviewProfile) (*model.Interview, error)
	Get(ctx context.Context, ownerID, id string) (*model.Interview, error)
	List(ctx context.Context, ownerID string) ([]*model.Interview, error)
	ListAnswers(ctx context.Context, ownerID, interviewID string) ([]*model.StoredAnswer, error)
}

// InterviewHandler handles interview endpoints
type InterviewHandler struct {
	interviews Interviews
	logger     *slog.Logger
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviews Interviews, logger *slog.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviews: interviews,
		logger:     logger.With("component", "rest"),
	}
}

// ProfileRequest is the job profile an interview is generated from
type ProfileRequest struct {
	Position    string  `json:"position"`
	Description string  `json:"description"`
	Experience  float64 `json:"experience"`
	TechStack   string  `json:"techStack"`
}

func (p ProfileRequest) profile() model.InterviewProfile {
	return model.InterviewProfile{
		Position:    p.Position,
		Description: p.Description,
		Experience:  p.Experience,
		TechStack:   p.TechStack,
	}
}

// Create handles POST /v1/interviews
// @Summary Generate a mock interview
// @Description Generates question/answer pairs for a job profile and stores them
// @Tags interviews
// @Accept json
// @Produce json
// @Param profile body ProfileRequest true "Job profile"
// @Success 201 {object} model.Interview
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /interviews [post]
func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r.Context())

	var req ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	interview, err := h.interviews.Create(r.Context(), ownerID, req.profile())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, interview)
}

// List handles GET /v1/interviews
// @Summary List my interviews
// @Tags interviews
// @Produce json
// @Success 200 {array} model.Interview
// @Router /interviews [get]
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	interviews, err := h.interviews.List(r.Context(), middleware.GetOwnerID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"interviews": interviews})
}

// Get handles GET /v1/interviews/{id}
// @Summary Get an interview
// @Tags interviews
// @Produce json
// @Param id path string true "Interview ID"
// @Success 200 {object} model.Interview
// @Failure 404 {object} errorResponse
// @Router /interviews/{id} [get]
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	interview, err := h.interviews.Get(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

// Regenerate handles PUT /v1/interviews/{id}
// @Summary Regenerate an interview from an edited profile
// @Description Replaces every question; the interview is unchanged if generation fails
// @Tags interviews
// @Accept json
// @Produce json
// @Param id path string true "Interview ID"
// @Param profile body ProfileRequest true "Job profile"
// @Success 200 {object} model.Interview
// @Failure 502 {object} errorResponse
// @Router /interviews/{id} [put]
func (h *InterviewHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	interview, err := h.interviews.Regenerate(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["id"], req.profile())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

// Answers handles GET /v1/interviews/{id}/answers
// @Summary List saved answers with ratings and feedback
// @Tags interviews
// @Produce json
// @Param id path string true "Interview ID"
// @Success 200 {array} model.StoredAnswer
// @Router /interviews/{id}/answers [get]
func (h *InterviewHandler) Answers(w http.ResponseWriter, r *http.Request) {
	answers, err := h.interviews.ListAnswers(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"answers": answers})
}
