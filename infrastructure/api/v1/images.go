package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/middleware"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/v1/dto"
)

// ImagesRouter handles a user's own uploaded images.
type ImagesRouter struct {
	users  *service.Users
	images *service.UserImages
	logger *slog.Logger
}

// NewImagesRouter creates a new ImagesRouter.
func NewImagesRouter(users *service.Users, images *service.UserImages, logger *slog.Logger) *ImagesRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImagesRouter{users: users, images: images, logger: logger}
}

// Routes returns the chi router for user image endpoints.
func (r *ImagesRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", r.Upload)
	router.Get("/", r.List)
	router.Post("/{imageID}/primary", r.SetPrimary)
	return router
}

// Upload handles POST /api/v1/images. An upload whose image carries no
// usable face is still recorded and returned with face_found=false.
func (r *ImagesRouter) Upload(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.UploadImageRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: decode body: %v", service.ErrValidation, err), r.logger)
		return
	}

	user, err := r.users.GetOrCreate(ctx, middleware.ExternalID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	img, err := r.images.Upload(ctx, user.ID(), body.URL, body.Primary)
	if err != nil && !errors.Is(err, service.ErrNotDetected) {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, dto.UserImageResponse{Data: userImageToDTO(img)})
}

// List handles GET /api/v1/images.
func (r *ImagesRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	user, err := r.users.GetOrCreate(ctx, middleware.ExternalID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	images, err := r.images.List(ctx, user.ID())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	data := make([]dto.UserImageData, 0, len(images))
	for _, img := range images {
		data = append(data, userImageToDTO(img))
	}
	middleware.WriteJSON(w, http.StatusOK, dto.UserImageListResponse{Data: data})
}

// SetPrimary handles POST /api/v1/images/{imageID}/primary.
func (r *ImagesRouter) SetPrimary(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	user, err := r.users.GetOrCreate(ctx, middleware.ExternalID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	imageID := chi.URLParam(req, "imageID")
	if err := r.images.SetPrimary(ctx, user.ID(), imageID); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func userImageToDTO(img image.UserImage) dto.UserImageData {
	return dto.UserImageData{
		ID:        img.ID(),
		URL:       img.URL(),
		Primary:   img.Primary(),
		FaceFound: img.HasEmbedding(),
		CreatedAt: img.CreatedAt(),
	}
}
