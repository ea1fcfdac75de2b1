package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dkravets/recipebook/internal/recipebook/services/authservice"
)

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var req authservice.RegisterRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	u, err := s.authService.Register(r.Context(), req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusCreated)

	enc := json.NewEncoder(w)
	if err := enc.Encode(u); err != nil {
		s.lg.Errorf("encode error: %s", err.Error())
	}
}

func (s *Server) createToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	token, err := s.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(tokenResponse{Token: token}); err != nil {
		s.lg.Errorf("encode error: %s", err.Error())
	}
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	enc := json.NewEncoder(w)
	if err := enc.Encode(userFrom(r)); err != nil {
		s.lg.Errorf("encode error: %s", err.Error())
	}
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var req authservice.UpdateProfileRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	u, err := s.authService.UpdateProfile(r.Context(), userFrom(r).ID, req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(u); err != nil {
		s.lg.Errorf("encode error: %s", err.Error())
	}
}
