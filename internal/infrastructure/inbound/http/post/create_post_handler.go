package post_http

import (
	"context"
	"net/http"

	model "pinstack-blog-service/internal/domain/models"
	ports "pinstack-blog-service/internal/domain/ports/output"
)

// HomePath is where a successful submission redirects.
const HomePath = "/home"

type PostCreator interface {
	CreatePost(ctx context.Context, submission *model.Submission) (*model.Post, error)
}

type CreatePostHandler struct {
	postService PostCreator
	extractor   *FieldExtractor
	log         ports.Logger
}

func NewCreatePostHandler(postService PostCreator, extractor *FieldExtractor, log ports.Logger) *CreatePostHandler {
	return &CreatePostHandler{
		postService: postService,
		extractor:   extractor,
		log:         log,
	}
}

func (h *CreatePostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.extractor.BodyLimit())

	submission, err := h.extractor.Extract(r.Context(), r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if _, err := h.postService.CreatePost(r.Context(), submission); err != nil {
		respondError(w, h.log, err)
		return
	}

	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}
