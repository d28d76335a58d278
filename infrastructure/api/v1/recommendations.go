package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/middleware"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/v1/dto"
)

// RecommendationsRouter handles ranking endpoints.
type RecommendationsRouter struct {
	users     *service.Users
	recommend *service.Recommend
	logger    *slog.Logger
}

// NewRecommendationsRouter creates a new RecommendationsRouter.
func NewRecommendationsRouter(users *service.Users, recommend *service.Recommend, logger *slog.Logger) *RecommendationsRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationsRouter{users: users, recommend: recommend, logger: logger}
}

// Routes returns the chi router for recommendation endpoints.
func (r *RecommendationsRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.Rank)
	router.Get("/latest", r.Latest)
	return router
}

// Rank handles GET /api/v1/recommendations?top_k=50. It scores the pool
// against the user's current preference vector and persists the run.
func (r *RecommendationsRouter) Rank(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	topK := 0
	if raw := req.URL.Query().Get("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{
				"error": "top_k must be a non-negative integer",
			})
			return
		}
		topK = parsed
	}

	user, err := r.users.GetOrCreate(ctx, middleware.ExternalID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	ranked, err := r.recommend.Rank(ctx, user.ID(), topK)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RecommendationListResponse{Data: recommendationsToDTO(ranked)})
}

// Latest handles GET /api/v1/recommendations/latest, returning the most
// recently persisted run without re-ranking.
func (r *RecommendationsRouter) Latest(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	user, err := r.users.GetOrCreate(ctx, middleware.ExternalID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	recs, err := r.recommend.Latest(ctx, user.ID())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RecommendationListResponse{Data: recommendationsToDTO(recs)})
}

func recommendationsToDTO(recs []preference.Recommendation) []dto.RecommendationData {
	data := make([]dto.RecommendationData, 0, len(recs))
	for _, rec := range recs {
		data = append(data, dto.RecommendationData{
			ImageID:   rec.ImageID(),
			Score:     rec.Score(),
			Rank:      rec.Rank(),
			CreatedAt: rec.CreatedAt(),
		})
	}
	return data
}
