package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkravets/recipebook/internal/recipebook/services/authservice"
	"github.com/dkravets/recipebook/internal/recipebook/services/catalogservice"
	"github.com/dkravets/recipebook/internal/recipebook/services/recipeservice"
	"github.com/dkravets/recipebook/internal/recipebook/services/validate"
)

var errTokenRequired = errors.New("authentication token required")

type Error struct {
	Err string `json:"error"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		se.Err = err.Error()

		b, err := json.Marshal(se)
		if err != nil {
			return []byte(`{
				"error": "marshal error"
			  }`)
		}

		return b
	}

	return b
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.WriteHeader(code)

	e := Error{err.Error()}

	w.Write(e.ToJSON()) //nolint:errcheck
}

// respondError maps service errors onto the response taxonomy:
// validation errors are a field-keyed 400 payload, not-found hides
// whether the row exists for someone else, and unauthenticated
// failures never reach a store.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	if ve, ok := validate.AsErrors(err); ok {
		w.WriteHeader(http.StatusBadRequest)

		enc := json.NewEncoder(w)
		if errE := enc.Encode(validationErrorResponse{Errors: ve}); errE != nil {
			s.lg.Errorf("encode error: %s", errE.Error())
		}

		return
	}

	switch {
	case errors.Is(err, authservice.ErrUnauthenticated):
		handleError(w, err, http.StatusUnauthorized)
	case errors.Is(err, recipeservice.ErrNotFound), errors.Is(err, catalogservice.ErrNotFound):
		handleError(w, err, http.StatusNotFound)
	case errors.Is(err, authservice.ErrAlreadyExists), errors.Is(err, catalogservice.ErrAlreadyExists):
		handleError(w, err, http.StatusConflict)
	default:
		handleError(w, err, http.StatusInternalServerError)
	}
}
