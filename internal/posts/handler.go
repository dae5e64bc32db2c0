package posts

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"carona-service/pkg/jwt"
	"carona-service/pkg/storage"
)

const maxImageBytes = 10 << 20

// Handler exposes feed HTTP endpoints.
type Handler struct {
	svc     *Service
	storage *storage.S3
}

// NewHandler wires a handler to the post service. Storage may be nil when
// no bucket is configured; image uploads then return 503.
func NewHandler(svc *Service, st *storage.S3) *Handler {
	return &Handler{svc: svc, storage: st}
}

// Routes returns a chi.Router with all feed routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Feed)
	r.Get("/{id}/comments", h.Comments)

	r.Group(func(r chi.Router) {
		r.Use(jwt.RequireAuth)
		r.Post("/", h.Create)
		r.Post("/image", h.UploadImage)
		r.Post("/{id}/like", h.ToggleLike)
		r.Post("/{id}/comments", h.AddComment)
	})

	return r
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	callerID := ""
	if claims := jwt.GetClaims(r.Context()); claims != nil {
		callerID = claims.UserID
	}

	feed, err := h.svc.Feed(r.Context(), callerID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if feed == nil {
		feed = []Post{}
	}
	writeJSON(w, http.StatusOK, feed)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	p, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UploadImage stores a feed image and returns its URL; the client then
// creates the post with image_url set.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage not configured"})
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing image file"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file must be an image"})
		return
	}

	key := "posts/" + uuid.New().String() + filepath.Ext(header.Filename)
	url, err := h.storage.Upload(r.Context(), key, contentType, file)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	res, err := h.svc.ToggleLike(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Comments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if list == nil {
		list = []Comment{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	c, err := h.svc.AddComment(r.Context(), chi.URLParam(r, "id"), claims.UserID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
