package catalogservice_test

import (
	"context"
	"testing"

	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/internal/recipebook/repository/catalogrepo"
	"github.com/dkravets/recipebook/internal/recipebook/services/catalogservice"
	"github.com/dkravets/recipebook/internal/recipebook/services/validate"
	"github.com/stretchr/testify/require"
)

type fakeCatalogRepo struct {
	nextID   int64
	items    map[int64]models.CatalogItem
	assigned map[int64]bool
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		items:    make(map[int64]models.CatalogItem),
		assigned: make(map[int64]bool),
	}
}

func (f *fakeCatalogRepo) GetOrCreate(_ context.Context, userID int64, name string) (models.CatalogItem, error) {
	for _, item := range f.items {
		if item.UserID == userID && item.Name == name {
			return item, nil
		}
	}

	f.nextID++
	item := models.CatalogItem{ID: f.nextID, UserID: userID, Name: name}
	f.items[item.ID] = item

	return item, nil
}

func (f *fakeCatalogRepo) List(_ context.Context, userID int64, assignedOnly bool) ([]models.CatalogItem, error) {
	out := make([]models.CatalogItem, 0)

	for _, item := range f.items {
		if item.UserID != userID {
			continue
		}

		if assignedOnly && !f.assigned[item.ID] {
			continue
		}

		out = append(out, item)
	}

	return out, nil
}

func (f *fakeCatalogRepo) Get(_ context.Context, userID, id int64) (models.CatalogItem, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return models.CatalogItem{}, catalogrepo.ErrNotFound
	}

	return item, nil
}

func (f *fakeCatalogRepo) Rename(_ context.Context, userID, id int64, name string) (models.CatalogItem, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return models.CatalogItem{}, catalogrepo.ErrNotFound
	}

	for _, other := range f.items {
		if other.ID != id && other.UserID == userID && other.Name == name {
			return models.CatalogItem{}, catalogrepo.ErrAlreadyExists
		}
	}

	item.Name = name
	f.items[id] = item

	return item, nil
}

func (f *fakeCatalogRepo) Delete(_ context.Context, userID, id int64) error {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return catalogrepo.ErrNotFound
	}

	delete(f.items, id)

	return nil
}

func (f *fakeCatalogRepo) Shutdown(_ context.Context) error { return nil }

func TestCreateReusesExistingName(t *testing.T) {
	cs := catalogservice.New(newFakeCatalogRepo())

	first, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)

	second, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestCreateSameNameDifferentUsers(t *testing.T) {
	cs := catalogservice.New(newFakeCatalogRepo())

	first, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)

	second, err := cs.Create(context.Background(), 2, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestCreateEmptyName(t *testing.T) {
	cs := catalogservice.New(newFakeCatalogRepo())

	_, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: ""})

	ve, ok := validate.AsErrors(err)
	require.True(t, ok)
	require.Contains(t, ve, "name")
}

func TestListScopedToOwner(t *testing.T) {
	repo := newFakeCatalogRepo()
	cs := catalogservice.New(repo)

	_, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)
	_, err = cs.Create(context.Background(), 2, catalogservice.ItemRequest{Name: "Dessert"})
	require.NoError(t, err)

	items, err := cs.List(context.Background(), 1, catalogservice.ListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Vegan", items[0].Name)
}

func TestListAssignedOnly(t *testing.T) {
	repo := newFakeCatalogRepo()
	cs := catalogservice.New(repo)

	assigned, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)
	_, err = cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Unused"})
	require.NoError(t, err)

	repo.assigned[assigned.ID] = true

	items, err := cs.List(context.Background(), 1, catalogservice.ListRequest{AssignedOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Vegan", items[0].Name)
}

func TestUpdateRenames(t *testing.T) {
	cs := catalogservice.New(newFakeCatalogRepo())

	item, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)

	renamed, err := cs.Update(context.Background(), 1, item.ID, catalogservice.ItemRequest{Name: "Plant-based"})
	require.NoError(t, err)
	require.Equal(t, item.ID, renamed.ID)
	require.Equal(t, "Plant-based", renamed.Name)
}

func TestUpdateToTakenName(t *testing.T) {
	cs := catalogservice.New(newFakeCatalogRepo())

	_, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)

	item, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Dessert"})
	require.NoError(t, err)

	_, err = cs.Update(context.Background(), 1, item.ID, catalogservice.ItemRequest{Name: "Vegan"})
	require.ErrorIs(t, err, catalogservice.ErrAlreadyExists)
}

func TestUpdateToTakenNameOfOtherUser(t *testing.T) {
	cs := catalogservice.New(newFakeCatalogRepo())

	_, err := cs.Create(context.Background(), 2, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)

	item, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Dessert"})
	require.NoError(t, err)

	renamed, err := cs.Update(context.Background(), 1, item.ID, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)
	require.Equal(t, "Vegan", renamed.Name)
}

func TestUpdateOtherUsersItem(t *testing.T) {
	cs := catalogservice.New(newFakeCatalogRepo())

	item, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)

	_, err = cs.Update(context.Background(), 2, item.ID, catalogservice.ItemRequest{Name: "Stolen"})
	require.ErrorIs(t, err, catalogservice.ErrNotFound)
}

func TestDeleteOtherUsersItem(t *testing.T) {
	cs := catalogservice.New(newFakeCatalogRepo())

	item, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)

	err = cs.Delete(context.Background(), 2, item.ID)
	require.ErrorIs(t, err, catalogservice.ErrNotFound)

	got, err := cs.Get(context.Background(), 1, item.ID)
	require.NoError(t, err)
	require.Equal(t, "Vegan", got.Name)
}

func TestDeleteRemovesItem(t *testing.T) {
	cs := catalogservice.New(newFakeCatalogRepo())

	item, err := cs.Create(context.Background(), 1, catalogservice.ItemRequest{Name: "Vegan"})
	require.NoError(t, err)

	require.NoError(t, cs.Delete(context.Background(), 1, item.ID))

	_, err = cs.Get(context.Background(), 1, item.ID)
	require.ErrorIs(t, err, catalogservice.ErrNotFound)
}
