package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/internal/recipebook/services/catalogservice"
	"github.com/go-chi/chi/v5"
)

// catalogRoutes registers the identical tag and ingredient endpoints
// against whichever service instance backs the subtree.
func (s *Server) catalogRoutes(r chi.Router, svc CatalogService) {
	r.Get("/", s.listCatalog(svc))
	r.Post("/", s.createCatalog(svc))
	r.Get("/{id}", s.getCatalog(svc))
	r.Put("/{id}", s.updateCatalog(svc))
	r.Patch("/{id}", s.updateCatalog(svc))
	r.Delete("/{id}", s.deleteCatalog(svc))
}

func (s *Server) listCatalog(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := catalogservice.ListRequest{
			AssignedOnly: boolParam(r.URL.Query().Get("assigned_only")),
		}

		items, err := svc.List(r.Context(), userFrom(r).ID, req)
		if err != nil {
			s.respondError(w, err)

			return
		}

		enc := json.NewEncoder(w)
		if err := enc.Encode(items); err != nil {
			s.lg.Errorf("encode error: %s", err.Error())
		}
	}
}

func (s *Server) createCatalog(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req catalogservice.ItemRequest

		dec := json.NewDecoder(r.Body)

		if err := dec.Decode(&req); err != nil {
			handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

			return
		}

		item, err := svc.Create(r.Context(), userFrom(r).ID, req)
		if err != nil {
			s.respondError(w, err)

			return
		}

		w.WriteHeader(http.StatusCreated)

		enc := json.NewEncoder(w)
		if err := enc.Encode(item); err != nil {
			s.lg.Errorf("encode error: %s", err.Error())
		}
	}
}

func (s *Server) getCatalog(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.respondError(w, catalogservice.ErrNotFound)

			return
		}

		item, err := svc.Get(r.Context(), userFrom(r).ID, id)
		if err != nil {
			s.respondError(w, err)

			return
		}

		enc := json.NewEncoder(w)
		if err := enc.Encode(item); err != nil {
			s.lg.Errorf("encode error: %s", err.Error())
		}
	}
}

func (s *Server) updateCatalog(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.respondError(w, catalogservice.ErrNotFound)

			return
		}

		var req struct {
			Name *string `json:"name"`
		}

		dec := json.NewDecoder(r.Body)

		if err := dec.Decode(&req); err != nil {
			handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

			return
		}

		var item models.CatalogItem

		switch {
		case req.Name == nil && r.Method == http.MethodPatch:
			// absent name on a partial update leaves the row untouched
			item, err = svc.Get(r.Context(), userFrom(r).ID, id)
		default:
			var name string
			if req.Name != nil {
				name = *req.Name
			}

			item, err = svc.Update(r.Context(), userFrom(r).ID, id, catalogservice.ItemRequest{Name: name})
		}

		if err != nil {
			s.respondError(w, err)

			return
		}

		enc := json.NewEncoder(w)
		if err := enc.Encode(item); err != nil {
			s.lg.Errorf("encode error: %s", err.Error())
		}
	}
}

func (s *Server) deleteCatalog(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.respondError(w, catalogservice.ErrNotFound)

			return
		}

		if err := svc.Delete(r.Context(), userFrom(r).ID, id); err != nil {
			s.respondError(w, err)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// boolParam reads the 0/1 style flags the list endpoints accept.
func boolParam(v string) bool {
	return v == "1" || v == "true"
}
