package http

import (
	"net/http"

	"grana/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	kind := core.TxKind(r.URL.Query().Get("kind"))
	if kind != "" {
		if err := kind.Validate(); err != nil {
			respondError(w, r, err)
			return
		}
	}

	categories, err := s.storage.ListCategories(r.Context(), s.userID(r), kind)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]categoryJSON, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryJSON(c))
	}
	respondJSON(w, http.StatusOK, out)
}

type createCategoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
	Kind string `json:"kind"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	category := &core.Category{
		UserID: s.userID(r),
		Name:   req.Name,
		Icon:   req.Icon,
		Kind:   core.TxKind(req.Kind),
	}
	if err := category.Validate(); err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.storage.CreateCategory(r.Context(), category); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCategoryJSON(*category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.storage.DeleteCategory(r.Context(), s.userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
