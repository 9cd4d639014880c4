package handlers

import (
	"net/http"

	"github.com/crucial707/userposts/internal/models"
	"github.com/crucial707/userposts/internal/repo"
)

type PostHandler struct {
	Repo *repo.PostRepo
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID  int    `json:"user_id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	post := models.NewPost(input.UserID, input.Title, input.Content)
	if err := h.Repo.Create(r.Context(), &post); err != nil {
		storeError(w, r, "post", err)
		return
	}

	JSON(w, post, http.StatusCreated)
}

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Repo.FindAll(r.Context())
	if err != nil {
		storeError(w, r, "post", err)
		return
	}

	JSON(w, posts, http.StatusOK)
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, found, err := h.Repo.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, r, "post", err)
		return
	}
	if !found {
		JSONError(w, "post not found", http.StatusNotFound)
		return
	}

	JSON(w, post, http.StatusOK)
}

// UpdatePost changes title and content. The owner of a post is fixed.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var input struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	post := models.Post{ID: id, Title: input.Title, Content: input.Content}
	if err := h.Repo.Update(r.Context(), post); err != nil {
		storeError(w, r, "post", err)
		return
	}

	JSON(w, map[string]any{"id": id, "title": post.Title, "content": post.Content}, http.StatusOK)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		storeError(w, r, "post", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
