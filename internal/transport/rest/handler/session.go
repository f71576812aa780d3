package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"mockprep/internal/model"
	"mockprep/internal/service"
	"mockprep/internal/transport/rest/middleware"
)

// Sessions is the answer session API used by SessionHandler
type Sessions interface {
	Open(ctx context.Context, ownerID, interviewID string, index int) (*model.AnswerSession, error)
	Get(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error)
	Start(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error)
	AppendTranscript(ctx context.Context, ownerID, sessionID, fragment string) (*model.AnswerSession, error)
	Stop(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error)
	RecordAgain(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error)
	Discard(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error)
	ToggleWebcam(ctx context.Context, ownerID, sessionID string) (*model.AnswerSession, error)
	Save(ctx context.Context, ownerID, sessionID string) (*service.SaveResult, error)
	Close(ctx context.Context, ownerID, sessionID string) error
}

// SessionHandler handles answer session endpoints
type SessionHandler struct {
	sessions Sessions
	logger   *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions Sessions, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With("component", "rest"),
	}
}

// OpenSessionRequest selects the question to answer
type OpenSessionRequest struct {
	QuestionIndex *int `json:"questionIndex"`
}

// TranscriptRequest carries one finalized speech fragment
type TranscriptRequest struct {
	Text string `json:"text"`
}

// SessionResponse wraps a session with its display status
type SessionResponse struct {
	Session *model.AnswerSession `json:"session"`
	Status  string               `json:"status"`
}

func (h *SessionHandler) respond(w http.ResponseWriter, status int, session *model.AnswerSession, err error) {
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, status, SessionResponse{Session: session, Status: session.Describe()})
}

// Open handles POST /v1/interviews/{id}/sessions
// @Summary Open an answer session for one question
// @Description Replaces the caller's previous session, if any
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Interview ID"
// @Param request body OpenSessionRequest true "Question index"
// @Success 201 {object} SessionResponse
// @Failure 404 {object} errorResponse
// @Router /interviews/{id}/sessions [post]
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.QuestionIndex == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "questionIndex is required", Field: "questionIndex"})
		return
	}

	session, err := h.sessions.Open(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["id"], *req.QuestionIndex)
	h.respond(w, http.StatusCreated, session, err)
}

// Get handles GET /v1/sessions/{sid}
// @Summary Get an answer session
// @Tags sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} errorResponse
// @Router /sessions/{sid} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["sid"])
	h.respond(w, http.StatusOK, session, err)
}

// Start handles POST /v1/sessions/{sid}/start
// @Summary Start recording
// @Tags sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 409 {object} errorResponse
// @Router /sessions/{sid}/start [post]
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Start(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["sid"])
	h.respond(w, http.StatusOK, session, err)
}

// Transcript handles POST /v1/sessions/{sid}/transcript
// @Summary Append a finalized transcript fragment
// @Tags sessions
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param request body TranscriptRequest true "Fragment"
// @Success 200 {object} SessionResponse
// @Failure 409 {object} errorResponse
// @Router /sessions/{sid}/transcript [post]
func (h *SessionHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	var req TranscriptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessions.AppendTranscript(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["sid"], req.Text)
	h.respond(w, http.StatusOK, session, err)
}

// Stop handles POST /v1/sessions/{sid}/stop
// @Summary Stop recording and evaluate the answer
// @Description Answers shorter than 30 characters are rejected and recording continues
// @Tags sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /sessions/{sid}/stop [post]
func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Stop(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["sid"])
	h.respond(w, http.StatusOK, session, err)
}

// RecordAgain handles POST /v1/sessions/{sid}/record-again
// @Summary Clear the transcript and start recording again
// @Tags sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Router /sessions/{sid}/record-again [post]
func (h *SessionHandler) RecordAgain(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.RecordAgain(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["sid"])
	h.respond(w, http.StatusOK, session, err)
}

// Discard handles POST /v1/sessions/{sid}/discard
// @Summary Discard the recording in progress
// @Tags sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Router /sessions/{sid}/discard [post]
func (h *SessionHandler) Discard(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Discard(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["sid"])
	h.respond(w, http.StatusOK, session, err)
}

// Webcam handles POST /v1/sessions/{sid}/webcam
// @Summary Toggle the webcam flag
// @Tags sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Router /sessions/{sid}/webcam [post]
func (h *SessionHandler) Webcam(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.ToggleWebcam(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["sid"])
	h.respond(w, http.StatusOK, session, err)
}

// Save handles POST /v1/sessions/{sid}/save
// @Summary Save the reviewed answer
// @Description Saving the same question twice returns the existing answer with outcome already_exists
// @Tags sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 201 {object} service.SaveResult
// @Success 200 {object} service.SaveResult
// @Failure 409 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /sessions/{sid}/save [post]
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessions.Save(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["sid"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == model.SaveCreated {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// Close handles DELETE /v1/sessions/{sid}
// @Summary Close a session without saving
// @Tags sessions
// @Param sid path string true "Session ID"
// @Success 204
// @Failure 404 {object} errorResponse
// @Router /sessions/{sid} [delete]
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(r.Context(), middleware.GetOwnerID(r.Context()), mux.Vars(r)["sid"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
