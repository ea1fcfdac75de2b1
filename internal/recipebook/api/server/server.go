package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dkravets/recipebook/internal/pkg/config"
	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/internal/recipebook/services/authservice"
	"github.com/dkravets/recipebook/internal/recipebook/services/catalogservice"
	"github.com/dkravets/recipebook/internal/recipebook/services/recipeservice"
	"github.com/dkravets/recipebook/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	serv              *http.Server
	authService       AuthService
	recipeService     RecipeService
	tagService        CatalogService
	ingredientService CatalogService
	lg                logger.Logger
}

type AuthService interface {
	Register(context.Context, authservice.RegisterRequest) (models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (models.User, error)
	UpdateProfile(context.Context, int64, authservice.UpdateProfileRequest) (models.User, error)
}

type CatalogService interface {
	Create(context.Context, int64, catalogservice.ItemRequest) (models.CatalogItem, error)
	List(context.Context, int64, catalogservice.ListRequest) ([]models.CatalogItem, error)
	Get(ctx context.Context, userID, id int64) (models.CatalogItem, error)
	Update(ctx context.Context, userID, id int64, req catalogservice.ItemRequest) (models.CatalogItem, error)
	Delete(ctx context.Context, userID, id int64) error
}

type RecipeService interface {
	Create(context.Context, int64, recipeservice.CreateRecipeRequest) (models.Recipe, error)
	List(context.Context, int64, recipeservice.ListRecipesRequest) ([]models.Recipe, error)
	Get(ctx context.Context, userID, id int64) (models.Recipe, error)
	Update(ctx context.Context, userID, id int64, req recipeservice.UpdateRecipeRequest) (models.Recipe, error)
	Delete(ctx context.Context, userID, id int64) error
	AttachImage(ctx context.Context, userID, id int64, data []byte) (models.Recipe, error)
}

func New(cfg config.Server, authService AuthService, recipeService RecipeService,
	tagService, ingredientService CatalogService, lg logger.Logger,
) *Server {
	s := Server{ //nolint:exhaustruct
		authService:       authService,
		recipeService:     recipeService,
		tagService:        tagService,
		ingredientService: ingredientService,
		lg:                lg,
	}

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware(s.lg))

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/create", s.registerUser)
		r.Post("/user/token", s.createToken)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/user/me", s.getMe)
			r.Patch("/user/me", s.updateMe)
			r.Put("/user/me", s.updateMe)

			r.Route("/recipe/recipes", func(r chi.Router) {
				r.Get("/", s.listRecipes)
				r.Post("/", s.createRecipe)
				r.Get("/{id}", s.getRecipe)
				r.Put("/{id}", s.putRecipe)
				r.Patch("/{id}", s.patchRecipe)
				r.Delete("/{id}", s.deleteRecipe)
				r.Post("/{id}/upload-image", s.uploadRecipeImage)
			})

			r.Route("/recipe/tags", func(r chi.Router) {
				s.catalogRoutes(r, s.tagService)
			})

			r.Route("/recipe/ingredients", func(r chi.Router) {
				s.catalogRoutes(r, s.ingredientService)
			})
		})
	})

	return r
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}
