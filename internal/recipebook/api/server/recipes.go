package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dkravets/recipebook/internal/recipebook/services/recipeservice"
	"github.com/dkravets/recipebook/internal/recipebook/services/validate"
	"github.com/go-chi/chi/v5"
)

const maxMultipartMemory = 10 << 20

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	var req recipeservice.ListRecipesRequest

	ve := validate.Errors{}

	var err error
	if req.TagIDs, err = parseIDList(r.URL.Query().Get("tags")); err != nil {
		ve.Add("tags", "must be a comma-separated list of ids")
	}

	if req.IngredientIDs, err = parseIDList(r.URL.Query().Get("ingredients")); err != nil {
		ve.Add("ingredients", "must be a comma-separated list of ids")
	}

	if err := ve.Err(); err != nil {
		s.respondError(w, err)

		return
	}

	recipes, err := s.recipeService.List(r.Context(), userFrom(r).ID, req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(toList(recipes)); err != nil {
		s.lg.Errorf("encode error: %s", err.Error())
	}
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeservice.CreateRecipeRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	recipe, err := s.recipeService.Create(r.Context(), userFrom(r).ID, req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusCreated)

	enc := json.NewEncoder(w)
	if err := enc.Encode(recipe); err != nil {
		s.lg.Errorf("encode error: %s", err.Error())
	}
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, recipeservice.ErrNotFound)

		return
	}

	recipe, err := s.recipeService.Get(r.Context(), userFrom(r).ID, id)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(recipe); err != nil {
		s.lg.Errorf("encode error: %s", err.Error())
	}
}

// putRecipe is the full update: required scalars must all be present
// and valid, while relations behave the same as in a partial update.
func (s *Server) putRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, recipeservice.ErrNotFound)

		return
	}

	var req recipeservice.CreateRecipeRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	upd := recipeservice.UpdateRecipeRequest{ //nolint:exhaustruct
		Title:       &req.Title,
		Description: &req.Description,
		TimeMinutes: &req.TimeMinutes,
		Price:       &req.Price,
		Link:        &req.Link,
	}

	if req.Tags != nil {
		upd.Tags = &req.Tags
	}

	if req.Ingredients != nil {
		upd.Ingredients = &req.Ingredients
	}

	s.updateRecipe(w, r, id, upd)
}

func (s *Server) patchRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, recipeservice.ErrNotFound)

		return
	}

	var req recipeservice.UpdateRecipeRequest

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	s.updateRecipe(w, r, id, req)
}

func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request,
	id int64, req recipeservice.UpdateRecipeRequest,
) {
	recipe, err := s.recipeService.Update(r.Context(), userFrom(r).ID, id, req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(recipe); err != nil {
		s.lg.Errorf("encode error: %s", err.Error())
	}
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, recipeservice.ErrNotFound)

		return
	}

	if err := s.recipeService.Delete(r.Context(), userFrom(r).ID, id); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadRecipeImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, recipeservice.ErrNotFound)

		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		handleError(w, fmt.Errorf("parse multipart form error: %w", err), http.StatusBadRequest)

		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		ve := validate.Errors{}
		ve.Add("image", "file field is required")
		s.respondError(w, ve)

		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(w, fmt.Errorf("read file error: %w", err), http.StatusBadRequest)

		return
	}

	recipe, err := s.recipeService.AttachImage(r.Context(), userFrom(r).ID, id, data)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(recipe); err != nil {
		s.lg.Errorf("encode error: %s", err.Error())
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id error: %w", err)
	}

	return id, nil
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))

	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse id list error: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
