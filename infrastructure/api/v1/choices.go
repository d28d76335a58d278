// Package v1 provides the v1 API routes.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/middleware"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/v1/dto"
)

// ChoicesRouter handles choice submission and phase status endpoints.
type ChoicesRouter struct {
	users   *service.Users
	choices *service.Choices
	logger  *slog.Logger
}

// NewChoicesRouter creates a new ChoicesRouter.
func NewChoicesRouter(users *service.Users, choices *service.Choices, logger *slog.Logger) *ChoicesRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChoicesRouter{users: users, choices: choices, logger: logger}
}

// Routes returns the chi router for choice endpoints.
func (r *ChoicesRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", r.SubmitBatch)
	router.Get("/status", r.Status)
	return router
}

// SubmitBatch handles POST /api/v1/choices.
func (r *ChoicesRouter) SubmitBatch(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.ChoiceBatchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: decode body: %v", service.ErrValidation, err), r.logger)
		return
	}

	phase, err := preference.ParsePhase(body.Phase)
	if err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", service.ErrValidation, err), r.logger)
		return
	}

	user, err := r.users.GetOrCreate(ctx, middleware.ExternalID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	batch := make([]service.ChoiceSubmission, len(body.Choices))
	for i, item := range body.Choices {
		batch[i] = service.ChoiceSubmission{
			ShownA: item.ShownA,
			ShownB: item.ShownB,
			Chosen: item.Chosen,
		}
	}

	progress, err := r.choices.RecordBatch(ctx, user.ID(), phase, batch)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.PhaseStatusResponse{Data: progressToDTO(progress)})
}

// Status handles GET /api/v1/choices/status.
func (r *ChoicesRouter) Status(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	user, err := r.users.GetOrCreate(ctx, middleware.ExternalID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	progress, err := r.choices.Progress(ctx, user.ID())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.PhaseStatusResponse{Data: progressToDTO(progress)})
}

func progressToDTO(progress preference.Progress) dto.PhaseStatusData {
	phases := make([]dto.PhaseCounter, 0, preference.PhaseCount)
	for n := 1; n <= preference.PhaseCount; n++ {
		phase, _ := preference.PhaseFromNumber(n)
		phases = append(phases, dto.PhaseCounter{
			Phase:     string(phase),
			Recorded:  progress.Count(n),
			Completed: progress.Completed(n),
		})
	}
	return dto.PhaseStatusData{
		CurrentPhase: string(progress.Current()),
		Quota:        progress.Quota(),
		Completed:    progress.Done(),
		Phases:       phases,
	}
}
