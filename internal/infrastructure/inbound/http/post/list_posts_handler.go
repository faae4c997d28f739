package post_http

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	model "pinstack-blog-service/internal/domain/models"
	ports "pinstack-blog-service/internal/domain/ports/output"
)

// UploadsPrefix is the URL prefix under which stored assets are served.
const UploadsPrefix = "/uploads/"

//go:embed templates/home.html
var templatesFS embed.FS

var homeTemplate = template.Must(template.ParseFS(templatesFS, "templates/home.html"))

type PostLister interface {
	ListPosts(ctx context.Context) ([]*model.Post, error)
}

type PostResponse struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Username    string    `json:"username"`
	ImageURL    string    `json:"image_url,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

type ListPostsResponse struct {
	Posts []PostResponse `json:"posts"`
	Total int            `json:"total"`
}

type ListPostsHandler struct {
	postService PostLister
	log         ports.Logger
}

func NewListPostsHandler(postService PostLister, log ports.Logger) *ListPostsHandler {
	return &ListPostsHandler{postService: postService, log: log}
}

// ListPosts serves the listing as JSON.
func (h *ListPostsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPosts(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	resp := ListPostsResponse{Posts: toPostResponses(posts), Total: len(posts)}
	h.log.Debug("Listed posts successfully", slog.Int("posts_count", resp.Total))
	respondJSON(w, http.StatusOK, resp)
}

// Home renders the listing page.
func (h *ListPostsHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPosts(r.Context())
	if err != nil {
		h.log.Error("Failed to render home page", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(w, toPostResponses(posts)); err != nil {
		h.log.Error("Failed to execute home template", slog.String("error", err.Error()))
	}
}

func toPostResponses(posts []*model.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		resp := PostResponse{
			ID:       p.ID.String(),
			Text:     p.Text,
			Username: p.Username,
		}
		if p.ImagePath != nil {
			resp.ImageURL = UploadsPrefix + *p.ImagePath
		}
		if p.UserAvatarPath != nil {
			resp.AvatarURL = UploadsPrefix + *p.UserAvatarPath
		}
		if p.PublishedAt.Valid {
			resp.PublishedAt = p.PublishedAt.Time
		}
		out = append(out, resp)
	}
	return out
}
