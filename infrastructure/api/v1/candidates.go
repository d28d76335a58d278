package v1

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/middleware"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/v1/dto"
)

// CandidatesRouter handles candidate batch endpoints.
type CandidatesRouter struct {
	users      *service.Users
	candidates *service.Candidates
	logger     *slog.Logger
}

// NewCandidatesRouter creates a new CandidatesRouter.
func NewCandidatesRouter(users *service.Users, candidates *service.Candidates, logger *slog.Logger) *CandidatesRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CandidatesRouter{users: users, candidates: candidates, logger: logger}
}

// Routes returns the chi router for candidate endpoints.
func (r *CandidatesRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.Batch)
	return router
}

// Batch handles GET /api/v1/candidates?phase=PHASE_1.
func (r *CandidatesRouter) Batch(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	phase, err := preference.ParsePhase(req.URL.Query().Get("phase"))
	if err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", service.ErrValidation, err), r.logger)
		return
	}

	user, err := r.users.GetOrCreate(ctx, middleware.ExternalID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	pairs, err := r.candidates.Batch(ctx, user.ID(), phase)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	data := make([]dto.CandidatePairData, 0, len(pairs))
	for _, pair := range pairs {
		data = append(data, dto.CandidatePairData{
			ImageA: dto.CandidateImage{ID: pair.ImageA.ID(), URL: pair.ImageA.URL()},
			ImageB: dto.CandidateImage{ID: pair.ImageB.ID(), URL: pair.ImageB.URL()},
		})
	}

	middleware.WriteJSON(w, http.StatusOK, dto.CandidateBatchResponse{
		Phase: string(phase),
		Data:  data,
	})
}
