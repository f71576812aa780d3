package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"mockprep/internal/service"
	"mockprep/internal/transport/rest/handler"
	"mockprep/internal/transport/rest/middleware"
	"mockprep/internal/transport/ws"
)

const (
	allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowedHeaders = "Content-Type, Authorization"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	InterviewService handler.Interviews
	AnswerService    handler.Sessions
	WSHub            *ws.Hub
	CORSOrigins      []string
	Logger           *slog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Initialize handlers
	interviewHandler := handler.NewInterviewHandler(c.InterviewService, logger)
	sessionHandler := handler.NewSessionHandler(c.AnswerService, logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.AnswerService, logger)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSOrigins))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	v1 := r.PathPrefix("/v1").Subrouter()

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws", wsHandler.Connect).Methods("GET")

	owner := v1.NewRoute().Subrouter()
	owner.Use(authMW.RequireOwner)

	owner.HandleFunc("/interviews", interviewHandler.Create).Methods("POST", "OPTIONS")
	owner.HandleFunc("/interviews", interviewHandler.List).Methods("GET", "OPTIONS")
	owner.HandleFunc("/interviews/{id}", interviewHandler.Get).Methods("GET", "OPTIONS")
	owner.HandleFunc("/interviews/{id}", interviewHandler.Regenerate).Methods("PUT", "OPTIONS")
	owner.HandleFunc("/interviews/{id}/answers", interviewHandler.Answers).Methods("GET", "OPTIONS")
	owner.HandleFunc("/interviews/{id}/sessions", sessionHandler.Open).Methods("POST", "OPTIONS")

	owner.HandleFunc("/sessions/{sid}", sessionHandler.Get).Methods("GET", "OPTIONS")
	owner.HandleFunc("/sessions/{sid}", sessionHandler.Close).Methods("DELETE", "OPTIONS")
	owner.HandleFunc("/sessions/{sid}/start", sessionHandler.Start).Methods("POST", "OPTIONS")
	owner.HandleFunc("/sessions/{sid}/transcript", sessionHandler.Transcript).Methods("POST", "OPTIONS")
	owner.HandleFunc("/sessions/{sid}/stop", sessionHandler.Stop).Methods("POST", "OPTIONS")
	owner.HandleFunc("/sessions/{sid}/record-again", sessionHandler.RecordAgain).Methods("POST", "OPTIONS")
	owner.HandleFunc("/sessions/{sid}/discard", sessionHandler.Discard).Methods("POST", "OPTIONS")
	owner.HandleFunc("/sessions/{sid}/webcam", sessionHandler.Webcam).Methods("POST", "OPTIONS")
	owner.HandleFunc("/sessions/{sid}/save", sessionHandler.Save).Methods("POST", "OPTIONS")

	return r
}

// corsMiddleware echoes the request origin when it is allowed; "*" allows any
func corsMiddleware(origins []string) mux.MiddlewareFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
