package http

import (
	"net/http"

	"grana/internal/auth"
	"grana/internal/core"
)

func (s *Server) userID(r *http.Request) int64 {
	id, _ := auth.UserID(r.Context())
	return id
}

type registerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	MonthlyIncome string `json:"monthly_income,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var incomeCents int64
	if req.MonthlyIncome != "" {
		var err error
		incomeCents, err = core.ParseDecimalToCents(req.MonthlyIncome)
		if err != nil {
			respondError(w, r, err)
			return
		}
	}

	user, token, err := s.authSvc.Register(r.Context(), req.Name, req.Email, req.Password, incomeCents)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"user":  toUserJSON(user),
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, token, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":  toUserJSON(user),
		"token": token,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.authSvc.Profile(r.Context(), s.userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserJSON(user))
}

type updateProfileRequest struct {
	Name          string `json:"name"`
	MonthlyIncome string `json:"monthly_income,omitempty"`
	Password      string `json:"password,omitempty"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var incomeCents int64
	if req.MonthlyIncome != "" {
		var err error
		incomeCents, err = core.ParseDecimalToCents(req.MonthlyIncome)
		if err != nil {
			respondError(w, r, err)
			return
		}
	}

	user, err := s.authSvc.UpdateProfile(r.Context(), s.userID(r), req.Name, incomeCents, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserJSON(user))
}
