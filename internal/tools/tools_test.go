// ABOUTME: Tests for the pet tool handlers against a real SQLite store.
// ABOUTME: Covers happy paths, not-found errors, and catalog assembly.

package tools

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/pet-gateway/internal/store"
)

func setupRegistry(t *testing.T) (*handlers, store.Store) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "tools_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return &handlers{store: s}, s
}

func seedOne(t *testing.T, s store.Store, name, species string, age int) *store.Pet {
	t.Helper()
	pet := &store.Pet{Name: name, Species: species, Breed: "Mixed", Age: age}
	require.NoError(t, s.CreatePet(context.Background(), pet))
	return pet
}

func TestNewRegistry(t *testing.T) {
	h, _ := setupRegistry(t)
	reg, err := NewRegistry(h.store, slog.Default())
	require.NoError(t, err)

	assert.Len(t, reg.Tools(), 12)
	assert.Len(t, reg.Resources(), 4)
	assert.Len(t, reg.Prompts(), 3)

	// Every tool carries schemas and a handler.
	for _, tool := range reg.Tools() {
		assert.NotNil(t, tool.InputSchema, tool.Name)
		assert.NotNil(t, tool.OutputSchema, tool.Name)
		assert.NotNil(t, tool.Handler, tool.Name)
	}
}

func TestListAllPets(t *testing.T) {
	h, s := setupRegistry(t)
	seedOne(t, s, "Rex", "Dog", 3)
	seedOne(t, s, "Mittens", "Cat", 2)

	result, err := h.ListAllPets(context.Background(), map[string]any{})
	require.NoError(t, err)

	m := result.(map[string]any)
	assert.Equal(t, 2, m["total_count"])
	assert.Len(t, m["pets"], 2)
}

func TestGetPetByID(t *testing.T) {
	h, s := setupRegistry(t)
	pet := seedOne(t, s, "Rex", "Dog", 3)

	result, err := h.GetPetByID(context.Background(), map[string]any{"pet_id": float64(pet.ID)})
	require.NoError(t, err)
	assert.Equal(t, "Rex", result.(petView).Name)

	_, err = h.GetPetByID(context.Background(), map[string]any{"pet_id": float64(9999)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetPetByName(t *testing.T) {
	h, s := setupRegistry(t)
	seedOne(t, s, "Tweety", "Bird", 1)

	result, err := h.GetPetByName(context.Background(), map[string]any{"pet_name": "tweet"})
	require.NoError(t, err)
	assert.Equal(t, "Tweety", result.(petView).Name)

	_, err = h.GetPetByName(context.Background(), map[string]any{"pet_name": "nosuch"})
	require.Error(t, err)
}

func TestCreatePetHandler(t *testing.T) {
	h, _ := setupRegistry(t)

	result, err := h.CreatePet(context.Background(), map[string]any{
		"name":    "Luna",
		"species": "Cat",
		"age":     float64(2),
	})
	require.NoError(t, err)

	view := result.(petView)
	assert.NotZero(t, view.ID)
	assert.Equal(t, "Luna", view.Name)
	assert.Equal(t, 2, view.Age)
	assert.False(t, view.IsAdopted)
}

func TestUpdatePetInfoHandler(t *testing.T) {
	h, s := setupRegistry(t)
	pet := seedOne(t, s, "Rex", "Dog", 3)

	result, err := h.UpdatePetInfo(context.Background(), map[string]any{
		"pet_id": float64(pet.ID),
		"name":   "Rexy",
		"age":    float64(4),
	})
	require.NoError(t, err)

	view := result.(petView)
	assert.Equal(t, "Rexy", view.Name)
	assert.Equal(t, 4, view.Age)
	assert.Equal(t, "Dog", view.Species)
}

func TestDeletePetHandler(t *testing.T) {
	h, s := setupRegistry(t)
	pet := seedOne(t, s, "Rex", "Dog", 3)

	result, err := h.DeletePet(context.Background(), map[string]any{"pet_id": float64(pet.ID)})
	require.NoError(t, err)
	assert.Equal(t, pet.ID, result.(map[string]any)["deleted_pet_id"])

	_, err = h.DeletePet(context.Background(), map[string]any{"pet_id": float64(pet.ID)})
	require.Error(t, err)
}

func TestDeletePetByName(t *testing.T) {
	h, s := setupRegistry(t)
	seedOne(t, s, "Whiskers", "Cat", 2)

	result, err := h.DeletePet(context.Background(), map[string]any{"pet_name": "whisk"})
	require.NoError(t, err)
	assert.Contains(t, result.(map[string]any)["message"], "successfully deleted")
}

func TestAdoptPetByNameHandler(t *testing.T) {
	h, s := setupRegistry(t)
	seedOne(t, s, "Buddy", "Dog", 3)

	result, err := h.AdoptPetByName(context.Background(), map[string]any{"name": "buddy"})
	require.NoError(t, err)

	m := result.(map[string]any)
	assert.Equal(t, "Buddy has been successfully adopted!", m["message"])
	assert.True(t, m["pet"].(petView).IsAdopted)

	// Second adoption attempt is a domain error.
	_, err = h.AdoptPetByName(context.Background(), map[string]any{"name": "buddy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already adopted")
}

func TestSearchPetsHandler(t *testing.T) {
	h, s := setupRegistry(t)
	seedOne(t, s, "Rex", "Dog", 3)
	seedOne(t, s, "Puppy", "Dog", 1)
	seedOne(t, s, "Mittens", "Cat", 2)

	result, err := h.SearchPets(context.Background(), map[string]any{
		"species": "Dog",
		"min_age": float64(2),
	})
	require.NoError(t, err)

	views := result.([]petView)
	require.Len(t, views, 1)
	assert.Equal(t, "Rex", views[0].Name)
}

func TestGetAvailablePetsHandler(t *testing.T) {
	h, s := setupRegistry(t)
	seedOne(t, s, "Rex", "Dog", 3)
	adopted := seedOne(t, s, "Buddy", "Dog", 2)
	_, err := s.AdoptPet(context.Background(), adopted.ID)
	require.NoError(t, err)

	result, err := h.GetAvailablePets(context.Background(), map[string]any{})
	require.NoError(t, err)

	views := result.([]petView)
	require.Len(t, views, 1)
	assert.Equal(t, "Rex", views[0].Name)
}

func TestGetPetsSummaryHandler(t *testing.T) {
	h, s := setupRegistry(t)
	seedOne(t, s, "Rex", "Dog", 3)
	adopted := seedOne(t, s, "Mittens", "Cat", 2)
	_, err := s.AdoptPet(context.Background(), adopted.ID)
	require.NoError(t, err)

	result, err := h.GetPetsSummary(context.Background(), map[string]any{})
	require.NoError(t, err)

	m := result.(map[string]any)
	totals := m["overall_totals"].(map[string]any)
	assert.Equal(t, 2, totals["total_pets"])
	assert.Equal(t, 1, totals["adopted_pets"])
	assert.Equal(t, 1, totals["available_pets"])

	bySpecies := m["summary_by_species"].(map[string]store.SpeciesCount)
	assert.Equal(t, 1, bySpecies["Dog"].Available)
	assert.Equal(t, 1, bySpecies["Cat"].Adopted)
}

func TestGetValidSpeciesHandler(t *testing.T) {
	h, s := setupRegistry(t)
	seedOne(t, s, "Ziggy", "Iguana", 4)

	result, err := h.GetValidSpecies(context.Background(), map[string]any{})
	require.NoError(t, err)

	m := result.(map[string]any)
	assert.Contains(t, m["species"], "Iguana")
	assert.Contains(t, m["species"], "Dog")
	assert.Equal(t, []string{"Iguana"}, m["existing_in_database"])
	assert.Equal(t, CommonSpecies, m["common_options"])
}

func TestGetAdoptionStatsHandler(t *testing.T) {
	h, s := setupRegistry(t)
	seedOne(t, s, "Rex", "Dog", 3)
	seedOne(t, s, "Mittens", "Cat", 2)
	adopted := seedOne(t, s, "Buddy", "Dog", 1)
	_, err := s.AdoptPet(context.Background(), adopted.ID)
	require.NoError(t, err)

	result, err := h.GetAdoptionStats(context.Background(), map[string]any{})
	require.NoError(t, err)

	stats := result.(*store.AdoptionStats)
	assert.Equal(t, 3, stats.TotalPets)
	assert.Equal(t, 1, stats.AdoptedPets)
	assert.InDelta(t, 33.33, stats.AdoptionRate, 0.001)
}

func TestPromptRendering(t *testing.T) {
	prompts := petPrompts()
	require.Len(t, prompts, 3)

	byName := make(map[string]int)
	for i, p := range prompts {
		byName[p.Name] = i
	}

	advisor := prompts[byName["pet_care_advisor"]]
	msgs := advisor.Render(map[string]string{"species": "Cat", "age": "3"})
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
	assert.Contains(t, msgs[1].Content.Text, "a Cat that is 3 years old")

	assistant := prompts[byName["adoption_assistant"]]
	msgs = assistant.Render(map[string]string{})
	assert.Contains(t, msgs[0].Content.Text, "any pet")
	assert.Contains(t, msgs[0].Content.Text, "beginner")
}

func TestResourceContent(t *testing.T) {
	resources := petResources()
	require.Len(t, resources, 4)

	for _, res := range resources {
		assert.NotEmpty(t, res.Content(), res.URI)
		assert.NotEmpty(t, res.MimeType, res.URI)
	}
}
