package handlers

import (
	"net/http"

	"github.com/crucial707/userposts/internal/models"
	"github.com/crucial707/userposts/internal/repo"
	"github.com/go-chi/chi/v5"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Repo     *repo.UserRepo
	PostRepo *repo.PostRepo
}

type userInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ==========================
// Create User
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input userInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user := models.NewUser(input.Username, input.Email, input.Password)
	if err := h.Repo.Create(r.Context(), &user); err != nil {
		storeError(w, r, "user", err)
		return
	}

	JSON(w, user, http.StatusCreated)
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repo.FindAll(r.Context())
	if err != nil {
		storeError(w, r, "user", err)
		return
	}

	JSON(w, users, http.StatusOK)
}

// ==========================
// Get User
// ==========================
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, found, err := h.Repo.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, r, "user", err)
		return
	}
	if !found {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}

	JSON(w, user, http.StatusOK)
}

// ==========================
// Get User By Username
// ==========================
func (h *UserHandler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, found, err := h.Repo.FindByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		storeError(w, r, "user", err)
		return
	}
	if !found {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}

	JSON(w, user, http.StatusOK)
}

// ==========================
// Username Exists
// ==========================
func (h *UserHandler) UsernameExists(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	exists, err := h.Repo.UsernameExists(r.Context(), username)
	if err != nil {
		storeError(w, r, "user", err)
		return
	}

	JSON(w, map[string]any{"username": username, "exists": exists}, http.StatusOK)
}

// ==========================
// Update User
// ==========================

// UpdateUser replaces username, email and password; all three are required.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var input userInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user := models.User{ID: id, Username: input.Username, Email: input.Email, Password: input.Password}
	if err := h.Repo.Update(r.Context(), user); err != nil {
		storeError(w, r, "user", err)
		return
	}

	JSON(w, user, http.StatusOK)
}

// ==========================
// Delete User
// ==========================

// DeleteUser removes the user together with all of its posts.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		storeError(w, r, "user", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Posts Of A User
// ==========================
func (h *UserHandler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	posts, err := h.PostRepo.FindByUserID(r.Context(), id)
	if err != nil {
		storeError(w, r, "post", err)
		return
	}

	JSON(w, posts, http.StatusOK)
}

func (h *UserHandler) CountUserPosts(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	n, err := h.PostRepo.CountByUserID(r.Context(), id)
	if err != nil {
		storeError(w, r, "post", err)
		return
	}

	JSON(w, map[string]int{"user_id": id, "count": n}, http.StatusOK)
}

func (h *UserHandler) DeleteUserPosts(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	n, err := h.PostRepo.DeleteByUserID(r.Context(), id)
	if err != nil {
		storeError(w, r, "post", err)
		return
	}

	JSON(w, map[string]int64{"deleted": n}, http.StatusOK)
}
