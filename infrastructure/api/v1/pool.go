package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/middleware"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/v1/dto"
)

// PoolRouter handles pool ingestion endpoints.
type PoolRouter struct {
	pool   *service.Pool
	logger *slog.Logger
}

// NewPoolRouter creates a new PoolRouter.
func NewPoolRouter(pool *service.Pool, logger *slog.Logger) *PoolRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PoolRouter{pool: pool, logger: logger}
}

// Routes returns the chi router for pool endpoints.
func (r *PoolRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/import", r.Import)
	router.Post("/retry", r.Retry)
	return router
}

// Import handles POST /api/v1/pool/import.
func (r *PoolRouter) Import(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.PoolImportRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: decode body: %v", service.ErrValidation, err), r.logger)
		return
	}
	if len(body.Images) == 0 {
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "images is required",
		})
		return
	}

	sources := make([]service.ImportSource, len(body.Images))
	for i, item := range body.Images {
		sources[i] = service.ImportSource{URL: item.URL, Phase: item.Phase}
	}

	report, err := r.pool.Import(ctx, sources)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, reportToDTO(report))
}

// Retry handles POST /api/v1/pool/retry, re-running embedding extraction
// over images that failed transiently.
func (r *PoolRouter) Retry(w http.ResponseWriter, req *http.Request) {
	report, err := r.pool.Retry(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, reportToDTO(report))
}

func reportToDTO(report service.ImportReport) dto.PoolImportResponse {
	return dto.PoolImportResponse{
		Imported:   report.Imported,
		Duplicates: report.Duplicates,
		Embedded:   report.Embedded,
		NoFace:     report.NoFace,
		Failed:     report.Failed,
	}
}
