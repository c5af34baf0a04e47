package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func createTestPet(t *testing.T, s *SQLiteStore, name, species, breed string, age int) *Pet {
	t.Helper()
	pet := &Pet{
		Name:    name,
		Species: species,
		Breed:   breed,
		Age:     age,
	}
	require.NoError(t, s.CreatePet(context.Background(), pet))
	return pet
}

func TestStore_CreatePet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	pet := &Pet{
		Name:        "Buddy",
		Species:     "Dog",
		Breed:       "Golden Retriever",
		Age:         3,
		Description: "Friendly and energetic",
	}

	err := store.CreatePet(ctx, pet)
	require.NoError(t, err)
	assert.NotZero(t, pet.ID)
	assert.False(t, pet.CreatedAt.IsZero())

	retrieved, err := store.GetPet(ctx, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buddy", retrieved.Name)
	assert.Equal(t, "Dog", retrieved.Species)
	assert.False(t, retrieved.IsAdopted, "new pets start unadopted")
}

func TestStore_CreatePet_Invalid(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.CreatePet(ctx, &Pet{Species: "Dog"})
	assert.ErrorIs(t, err, ErrInvalidField, "missing name should fail")

	err = store.CreatePet(ctx, &Pet{Name: "Buddy"})
	assert.ErrorIs(t, err, ErrInvalidField, "missing species should fail")

	err = store.CreatePet(ctx, &Pet{Name: "Buddy", Species: "Dog", Age: -1})
	assert.ErrorIs(t, err, ErrInvalidField, "negative age should fail")
}

func TestStore_GetPet_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetPet(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_FindPetByName(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestPet(t, store, "Tweety", "Bird", "Canary", 1)
	createTestPet(t, store, "Buddy", "Dog", "Labrador", 3)

	// Case-insensitive substring match
	pet, err := store.FindPetByName(ctx, "tweet")
	require.NoError(t, err)
	assert.Equal(t, "Tweety", pet.Name)

	pet, err = store.FindPetByName(ctx, "BUDDY")
	require.NoError(t, err)
	assert.Equal(t, "Buddy", pet.Name)

	_, err = store.FindPetByName(ctx, "Rex")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdatePet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	pet := createTestPet(t, store, "Buddy", "Dog", "Labrador", 3)

	newName := "Max"
	newAge := 4
	updated, err := store.UpdatePet(ctx, pet.ID, PetUpdate{Name: &newName, Age: &newAge})
	require.NoError(t, err)
	assert.Equal(t, "Max", updated.Name)
	assert.Equal(t, 4, updated.Age)
	assert.Equal(t, "Labrador", updated.Breed, "unset fields stay unchanged")
}

func TestStore_UpdatePet_Invalid(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	pet := createTestPet(t, store, "Buddy", "Dog", "", 3)

	empty := ""
	_, err := store.UpdatePet(ctx, pet.ID, PetUpdate{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidField)

	bad := -2
	_, err = store.UpdatePet(ctx, pet.ID, PetUpdate{Age: &bad})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestStore_UpdatePet_NotFound(t *testing.T) {
	store := setupTestStore(t)

	name := "Max"
	_, err := store.UpdatePet(context.Background(), 999, PetUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeletePet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	pet := createTestPet(t, store, "Buddy", "Dog", "", 3)

	require.NoError(t, store.DeletePet(ctx, pet.ID))

	_, err := store.GetPet(ctx, pet.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.DeletePet(ctx, pet.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_AdoptPet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	pet := createTestPet(t, store, "Luna", "Cat", "Siamese", 2)

	adopted, err := store.AdoptPet(ctx, pet.ID)
	require.NoError(t, err)
	assert.True(t, adopted.IsAdopted)

	// Second adopt fails: is_adopted only transitions false->true
	_, err = store.AdoptPet(ctx, pet.ID)
	assert.ErrorIs(t, err, ErrAlreadyAdopted)

	_, err = store.AdoptPet(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SearchPets(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestPet(t, store, "Buddy", "Dog", "Golden Retriever", 3)
	createTestPet(t, store, "Max", "Dog", "Labrador", 7)
	luna := createTestPet(t, store, "Luna", "Cat", "Siamese", 2)
	_, err := store.AdoptPet(ctx, luna.ID)
	require.NoError(t, err)

	pets, err := store.SearchPets(ctx, SearchFilter{Species: "dog"})
	require.NoError(t, err)
	assert.Len(t, pets, 2)

	pets, err = store.SearchPets(ctx, SearchFilter{Breed: "retriever"})
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "Buddy", pets[0].Name)

	pets, err = store.SearchPets(ctx, SearchFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Len(t, pets, 2, "adopted pets are excluded")

	minAge, maxAge := 3, 10
	pets, err = store.SearchPets(ctx, SearchFilter{MinAge: &minAge, MaxAge: &maxAge})
	require.NoError(t, err)
	assert.Len(t, pets, 2)

	pets, err = store.SearchPets(ctx, SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, pets, 3, "empty filter matches everything")
}

func TestStore_AvailablePets(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestPet(t, store, "Buddy", "Dog", "", 3)
	luna := createTestPet(t, store, "Luna", "Cat", "", 2)
	_, err := store.AdoptPet(ctx, luna.ID)
	require.NoError(t, err)

	pets, err := store.AvailablePets(ctx)
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "Buddy", pets[0].Name)
}

func TestStore_Summary(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestPet(t, store, "Buddy", "Dog", "", 3)
	createTestPet(t, store, "Max", "Dog", "", 4)
	luna := createTestPet(t, store, "Luna", "Cat", "", 2)
	_, err := store.AdoptPet(ctx, luna.ID)
	require.NoError(t, err)

	summary, err := store.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalPets)
	assert.Equal(t, 1, summary.AdoptedPets)
	assert.Equal(t, 2, summary.AvailablePets)
	assert.Equal(t, SpeciesCount{Total: 2, Adopted: 0, Available: 2}, summary.SpeciesStats["Dog"])
	assert.Equal(t, SpeciesCount{Total: 1, Adopted: 1, Available: 0}, summary.SpeciesStats["Cat"])
}

func TestStore_AdoptionStats(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Empty store: zero counts, zero rate
	stats, err := store.AdoptionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPets)
	assert.Equal(t, 0.0, stats.AdoptionRate)

	createTestPet(t, store, "Buddy", "Dog", "", 3)
	createTestPet(t, store, "Max", "Dog", "", 4)
	luna := createTestPet(t, store, "Luna", "Cat", "", 2)
	_, err = store.AdoptPet(ctx, luna.ID)
	require.NoError(t, err)

	stats, err = store.AdoptionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPets)
	assert.Equal(t, 1, stats.AdoptedPets)
	assert.Equal(t, 2, stats.AvailablePets)
	assert.Equal(t, 33.33, stats.AdoptionRate)
}

func TestStore_SpeciesList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestPet(t, store, "Buddy", "Dog", "", 3)
	createTestPet(t, store, "Max", "Dog", "", 4)
	createTestPet(t, store, "Luna", "Cat", "", 2)

	species, err := store.SpeciesList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cat", "Dog"}, species)
}

func TestStore_CreatePets_Batch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	pets := []*Pet{
		{Name: "Buddy", Species: "Dog", Age: 3},
		{Name: "Luna", Species: "Cat", Age: 2},
	}

	require.NoError(t, store.CreatePets(ctx, pets))
	assert.NotZero(t, pets[0].ID)
	assert.NotZero(t, pets[1].ID)

	all, err := store.ListPets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_CreatePets_BatchRollback(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	pets := []*Pet{
		{Name: "Buddy", Species: "Dog", Age: 3},
		{Name: "", Species: "Cat", Age: 2}, // invalid
	}

	err := store.CreatePets(ctx, pets)
	assert.ErrorIs(t, err, ErrInvalidField)

	all, err := store.ListPets(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "no pets created when the batch fails")
}

func TestSeed(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	added, err := Seed(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 5, added)

	// Second run is a no-op
	added, err = Seed(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	pet, err := store.FindPetByName(ctx, "Tweety")
	require.NoError(t, err)
	assert.Equal(t, "Bird", pet.Species)
}
