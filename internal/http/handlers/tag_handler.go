package handlers

import (
	"net/http"

	"github.com/deskhub/offices-api/internal/domain"
	"github.com/deskhub/offices-api/internal/http/response"
	"github.com/deskhub/offices-api/internal/repo/postgres"
	"github.com/deskhub/offices-api/pkg/logger"
)

type TagHandler struct {
	tags postgres.TagRepository
}

func NewTagHandler(tags postgres.TagRepository) *TagHandler {
	return &TagHandler{tags: tags}
}

// List handles GET /tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list tags", "error", err)
		response.InternalError(w, "failed to list tags")
		return
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": tags})
}
