// ABOUTME: Pet tool descriptors and handlers bridging the catalog to the store.
// ABOUTME: Handlers receive schema-validated argument maps and return JSON-shaped results.

package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/2389/pet-gateway/internal/catalog"
	"github.com/2389/pet-gateway/internal/store"
)

type handlers struct {
	store store.Store
}

// petView is the JSON shape of a pet in tool results.
type petView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         int    `json:"age"`
	Description string `json:"description"`
	IsAdopted   bool   `json:"is_adopted"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func viewOf(pet *store.Pet) petView {
	return petView{
		ID:          pet.ID,
		Name:        pet.Name,
		Species:     pet.Species,
		Breed:       pet.Breed,
		Age:         pet.Age,
		Description: pet.Description,
		IsAdopted:   pet.IsAdopted,
		CreatedAt:   pet.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   pet.UpdatedAt.Format(time.RFC3339),
	}
}

func viewsOf(pets []*store.Pet) []petView {
	views := make([]petView, len(pets))
	for i, pet := range pets {
		views[i] = viewOf(pet)
	}
	return views
}

// Argument helpers. Schema validation runs before handlers, so these
// only normalize types (JSON numbers arrive as float64).

func strArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}

func intArg(args map[string]any, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func boolArg(args map[string]any, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}

// petSchema is the output schema for a single pet object.
func petSchema() *catalog.Schema {
	return &catalog.Schema{
		Type: "object",
		Properties: map[string]*catalog.Schema{
			"id":          {Type: "integer"},
			"name":        {Type: "string"},
			"species":     {Type: "string"},
			"breed":       {Type: "string"},
			"age":         {Type: "integer"},
			"description": {Type: "string"},
			"is_adopted":  {Type: "boolean"},
			"created_at":  {Type: "string", Format: "date-time"},
			"updated_at":  {Type: "string", Format: "date-time"},
		},
		Required: []string{"id", "name", "species", "is_adopted"},
	}
}

func petListSchema() *catalog.Schema {
	return &catalog.Schema{Type: "array", Items: petSchema()}
}

func emptyInput() *catalog.Schema {
	return &catalog.Schema{
		Type:                 "object",
		Properties:           map[string]*catalog.Schema{},
		AdditionalProperties: catalog.Bool(false),
	}
}

func annotations(priority float64, category string, sensitive bool) map[string]any {
	a := map[string]any{
		"audience": []string{"user", "assistant"},
		"priority": priority,
		"category": category,
	}
	if sensitive {
		a["requiresConfirmation"] = true
		a["sensitiveOperation"] = true
	}
	return a
}

// petTools returns the full static tool catalog wired to the handlers.
func petTools(h *handlers) []*catalog.Tool {
	return []*catalog.Tool{
		{
			Name:        "list_all_pets",
			Title:       "List All Pets",
			Description: "Get a complete list of all pets in the system",
			InputSchema: emptyInput(),
			OutputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"pets":        petListSchema(),
					"total_count": {Type: "integer"},
				},
				Required: []string{"pets", "total_count"},
			},
			Annotations: annotations(0.7, "search", false),
			Handler:     h.ListAllPets,
		},
		{
			Name:        "get_pet_by_id",
			Title:       "Get Pet by ID",
			Description: "Get a specific pet by its ID",
			InputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"pet_id": {Type: "integer", Description: "Pet ID to retrieve", Minimum: catalog.Float(1)},
				},
				Required:             []string{"pet_id"},
				AdditionalProperties: catalog.Bool(false),
			},
			OutputSchema: petSchema(),
			Annotations:  annotations(0.8, "search", false),
			Handler:      h.GetPetByID,
		},
		{
			Name:        "get_pet_by_name",
			Title:       "Get Pet by Name",
			Description: "Find a pet by searching for its name (case-insensitive substring match)",
			InputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"pet_name": {Type: "string", Description: "Pet name to search for", MinLength: catalog.Int(1)},
				},
				Required:             []string{"pet_name"},
				AdditionalProperties: catalog.Bool(false),
			},
			OutputSchema: petSchema(),
			Annotations:  annotations(0.8, "search", false),
			Handler:      h.GetPetByName,
		},
		{
			Name:        "create_pet",
			Title:       "Create Pet",
			Description: "Add a new pet to the adoption system",
			InputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"name":        {Type: "string", Description: "Pet name", MinLength: catalog.Int(1), MaxLength: catalog.Int(100)},
					"species":     {Type: "string", Description: "Pet species", Enum: CommonSpecies},
					"breed":       {Type: "string", Description: "Pet breed (optional)", MaxLength: catalog.Int(100)},
					"age":         {Type: "integer", Description: "Pet age (optional)", Minimum: catalog.Float(0), Maximum: catalog.Float(30)},
					"description": {Type: "string", Description: "Pet description (optional)", MaxLength: catalog.Int(500)},
				},
				Required:             []string{"name", "species"},
				AdditionalProperties: catalog.Bool(false),
			},
			OutputSchema: petSchema(),
			Annotations:  annotations(0.7, "modification", true),
			Handler:      h.CreatePet,
		},
		{
			Name:        "update_pet_info",
			Title:       "Update Pet Information",
			Description: "Update pet details like name, species, breed, age, or description",
			InputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"pet_id":      {Type: "integer", Description: "Pet ID to update", Minimum: catalog.Float(1)},
					"name":        {Type: "string", Description: "New pet name", MinLength: catalog.Int(1), MaxLength: catalog.Int(100)},
					"species":     {Type: "string", Description: "New pet species", Enum: CommonSpecies},
					"breed":       {Type: "string", Description: "New pet breed", MaxLength: catalog.Int(100)},
					"age":         {Type: "integer", Description: "New pet age", Minimum: catalog.Float(0), Maximum: catalog.Float(30)},
					"description": {Type: "string", Description: "New pet description", MaxLength: catalog.Int(500)},
				},
				Required:             []string{"pet_id"},
				AdditionalProperties: catalog.Bool(false),
			},
			OutputSchema: petSchema(),
			Annotations:  annotations(0.7, "modification", true),
			Handler:      h.UpdatePetInfo,
		},
		{
			Name:        "delete_pet",
			Title:       "Delete Pet",
			Description: "Remove a pet from the system by ID or name",
			InputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"pet_id":   {Type: "integer", Description: "Pet ID to delete", Minimum: catalog.Float(1)},
					"pet_name": {Type: "string", Description: "Pet name to delete (alternative to pet_id)", MinLength: catalog.Int(1)},
				},
				AdditionalProperties: catalog.Bool(false),
				AnyOf: []*catalog.Schema{
					{Required: []string{"pet_id"}},
					{Required: []string{"pet_name"}},
				},
			},
			OutputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"message":        {Type: "string"},
					"deleted_pet_id": {Type: "integer"},
				},
				Required: []string{"message", "deleted_pet_id"},
			},
			Annotations: func() map[string]any {
				a := annotations(0.6, "modification", true)
				a["destructiveOperation"] = true
				return a
			}(),
			Handler: h.DeletePet,
		},
		{
			Name:        "adopt_pet_by_name",
			Title:       "Adopt Pet by Name",
			Description: "Mark a pet as adopted by searching for its name",
			InputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"name": {Type: "string", Description: "Pet name to search for", MinLength: catalog.Int(1)},
				},
				Required:             []string{"name"},
				AdditionalProperties: catalog.Bool(false),
			},
			OutputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"message": {Type: "string"},
					"pet":     petSchema(),
				},
				Required: []string{"message", "pet"},
			},
			Annotations: annotations(0.8, "modification", true),
			Handler:     h.AdoptPetByName,
		},
		{
			Name:        "search_pets",
			Title:       "Search Pets",
			Description: "Search pets with optional filters for species, breed, availability, and age",
			InputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"species":        {Type: "string", Description: "Filter by species", Examples: []string{"Dog", "Cat", "Bird"}},
					"breed":          {Type: "string", Description: "Filter by breed"},
					"available_only": {Type: "boolean", Description: "Only available pets", Default: false},
					"min_age":        {Type: "integer", Description: "Minimum age", Minimum: catalog.Float(0)},
					"max_age":        {Type: "integer", Description: "Maximum age", Minimum: catalog.Float(0)},
				},
				AdditionalProperties: catalog.Bool(false),
			},
			OutputSchema: petListSchema(),
			Annotations:  annotations(0.8, "search", false),
			Handler:      h.SearchPets,
		},
		{
			Name:         "get_available_pets",
			Title:        "Get Available Pets",
			Description:  "Get all pets that are currently available for adoption",
			InputSchema:  emptyInput(),
			OutputSchema: petListSchema(),
			Annotations:  annotations(0.9, "search", false),
			Handler:      h.GetAvailablePets,
		},
		{
			Name:        "get_pets_summary",
			Title:       "Get Pets Summary",
			Description: "Get comprehensive pet statistics by species and adoption status",
			InputSchema: emptyInput(),
			OutputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"summary_by_species": {
						Type:        "object",
						Description: "Statistics grouped by pet species",
					},
					"overall_totals": {
						Type:        "object",
						Description: "Overall adoption statistics",
						Properties: map[string]*catalog.Schema{
							"total_pets":     {Type: "integer"},
							"adopted_pets":   {Type: "integer"},
							"available_pets": {Type: "integer"},
						},
					},
				},
				Required: []string{"summary_by_species", "overall_totals"},
			},
			Annotations: annotations(0.9, "analytics", false),
			Handler:     h.GetPetsSummary,
		},
		{
			Name:        "get_valid_species",
			Title:       "Get Valid Pet Species",
			Description: "Get list of valid pet species including existing and common options",
			InputSchema: emptyInput(),
			OutputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"species":              {Type: "array", Items: &catalog.Schema{Type: "string"}, Description: "All valid pet species"},
					"existing_in_database": {Type: "array", Items: &catalog.Schema{Type: "string"}, Description: "Species currently in database"},
					"common_options":       {Type: "array", Items: &catalog.Schema{Type: "string"}, Description: "Common pet species options"},
				},
				Required: []string{"species", "existing_in_database", "common_options"},
			},
			Annotations: annotations(0.6, "reference", false),
			Handler:     h.GetValidSpecies,
		},
		{
			Name:        "get_adoption_stats",
			Title:       "Get Adoption Statistics",
			Description: "Get overall adoption statistics including rates and counts",
			InputSchema: emptyInput(),
			OutputSchema: &catalog.Schema{
				Type: "object",
				Properties: map[string]*catalog.Schema{
					"total_pets":     {Type: "integer"},
					"adopted_pets":   {Type: "integer"},
					"available_pets": {Type: "integer"},
					"adoption_rate":  {Type: "number"},
				},
				Required: []string{"total_pets", "adopted_pets", "available_pets", "adoption_rate"},
			},
			Annotations: annotations(0.8, "analytics", false),
			Handler:     h.GetAdoptionStats,
		},
	}
}

func (h *handlers) ListAllPets(ctx context.Context, _ map[string]any) (any, error) {
	pets, err := h.store.ListPets(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"pets":        viewsOf(pets),
		"total_count": len(pets),
	}, nil
}

func (h *handlers) GetPetByID(ctx context.Context, args map[string]any) (any, error) {
	id, _ := intArg(args, "pet_id")
	pet, err := h.store.GetPet(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("pet with ID %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return viewOf(pet), nil
}

func (h *handlers) GetPetByName(ctx context.Context, args map[string]any) (any, error) {
	name, _ := strArg(args, "pet_name")
	pet, err := h.store.FindPetByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no pet found with name containing %q", name)
	}
	if err != nil {
		return nil, err
	}
	return viewOf(pet), nil
}

func (h *handlers) CreatePet(ctx context.Context, args map[string]any) (any, error) {
	pet := &store.Pet{}
	pet.Name, _ = strArg(args, "name")
	pet.Species, _ = strArg(args, "species")
	pet.Breed, _ = strArg(args, "breed")
	pet.Description, _ = strArg(args, "description")
	if age, ok := intArg(args, "age"); ok {
		pet.Age = int(age)
	}

	if err := h.store.CreatePet(ctx, pet); err != nil {
		return nil, err
	}
	return viewOf(pet), nil
}

func (h *handlers) UpdatePetInfo(ctx context.Context, args map[string]any) (any, error) {
	id, _ := intArg(args, "pet_id")

	var upd store.PetUpdate
	if name, ok := strArg(args, "name"); ok {
		upd.Name = &name
	}
	if species, ok := strArg(args, "species"); ok {
		upd.Species = &species
	}
	if breed, ok := strArg(args, "breed"); ok {
		upd.Breed = &breed
	}
	if desc, ok := strArg(args, "description"); ok {
		upd.Description = &desc
	}
	if age, ok := intArg(args, "age"); ok {
		a := int(age)
		upd.Age = &a
	}

	pet, err := h.store.UpdatePet(ctx, id, upd)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("pet with ID %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return viewOf(pet), nil
}

func (h *handlers) DeletePet(ctx context.Context, args map[string]any) (any, error) {
	id, haveID := intArg(args, "pet_id")
	if !haveID {
		name, _ := strArg(args, "pet_name")
		pet, err := h.store.FindPetByName(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("pet with name %q not found", name)
		}
		if err != nil {
			return nil, err
		}
		id = pet.ID
	}

	if err := h.store.DeletePet(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("pet with ID %d not found", id)
		}
		return nil, err
	}

	return map[string]any{
		"message":        fmt.Sprintf("Pet with ID %d has been successfully deleted", id),
		"deleted_pet_id": id,
	}, nil
}

func (h *handlers) AdoptPetByName(ctx context.Context, args map[string]any) (any, error) {
	name, _ := strArg(args, "name")
	pet, err := h.store.FindPetByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no pet found with name containing %q", name)
	}
	if err != nil {
		return nil, err
	}

	adopted, err := h.store.AdoptPet(ctx, pet.ID)
	if errors.Is(err, store.ErrAlreadyAdopted) {
		return nil, fmt.Errorf("%s is already adopted", pet.Name)
	}
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"message": fmt.Sprintf("%s has been successfully adopted!", adopted.Name),
		"pet":     viewOf(adopted),
	}, nil
}

func (h *handlers) SearchPets(ctx context.Context, args map[string]any) (any, error) {
	var filter store.SearchFilter
	filter.Species, _ = strArg(args, "species")
	filter.Breed, _ = strArg(args, "breed")
	filter.AvailableOnly, _ = boolArg(args, "available_only")
	if minAge, ok := intArg(args, "min_age"); ok {
		v := int(minAge)
		filter.MinAge = &v
	}
	if maxAge, ok := intArg(args, "max_age"); ok {
		v := int(maxAge)
		filter.MaxAge = &v
	}

	pets, err := h.store.SearchPets(ctx, filter)
	if err != nil {
		return nil, err
	}
	return viewsOf(pets), nil
}

func (h *handlers) GetAvailablePets(ctx context.Context, _ map[string]any) (any, error) {
	pets, err := h.store.AvailablePets(ctx)
	if err != nil {
		return nil, err
	}
	return viewsOf(pets), nil
}

func (h *handlers) GetPetsSummary(ctx context.Context, _ map[string]any) (any, error) {
	summary, err := h.store.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"summary_by_species": summary.SpeciesStats,
		"overall_totals": map[string]any{
			"total_pets":     summary.TotalPets,
			"adopted_pets":   summary.AdoptedPets,
			"available_pets": summary.AvailablePets,
		},
	}, nil
}

func (h *handlers) GetValidSpecies(ctx context.Context, _ map[string]any) (any, error) {
	existing, err := h.store.SpeciesList(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var all []string
	for _, sp := range append(append([]string{}, existing...), CommonSpecies...) {
		if _, ok := seen[sp]; ok {
			continue
		}
		seen[sp] = struct{}{}
		all = append(all, sp)
	}
	sort.Strings(all)

	if existing == nil {
		existing = []string{}
	}
	return map[string]any{
		"species":              all,
		"existing_in_database": existing,
		"common_options":       CommonSpecies,
	}, nil
}

func (h *handlers) GetAdoptionStats(ctx context.Context, _ map[string]any) (any, error) {
	stats, err := h.store.AdoptionStats(ctx)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
