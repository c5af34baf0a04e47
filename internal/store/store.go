// ABOUTME: Store interface and data types for pet-gateway persistence
// ABOUTME: Defines the Pet record, search/update value types, and the Store interface

package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested pet does not exist
var ErrNotFound = errors.New("pet not found")

// ErrAlreadyAdopted is returned when trying to adopt a pet that is already adopted
var ErrAlreadyAdopted = errors.New("pet is already adopted")

// ErrInvalidField is returned when a create or update carries an invalid field value
var ErrInvalidField = errors.New("invalid field")

// Pet represents an animal available for adoption.
// ID is assigned on creation and stable for the record's lifetime.
// IsAdopted only transitions false to true; there is no un-adopt.
type Pet struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Age         int       `json:"age"`
	Description string    `json:"description"`
	IsAdopted   bool      `json:"is_adopted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PetUpdate carries a partial update. Nil fields are left unchanged.
type PetUpdate struct {
	Name        *string
	Species     *string
	Breed       *string
	Age         *int
	Description *string
}

// SearchFilter holds the optional filters for SearchPets.
// Zero values mean "no filter" for that field.
type SearchFilter struct {
	Species       string
	Breed         string
	AvailableOnly bool
	MinAge        *int
	MaxAge        *int
}

// SpeciesCount holds per-species adoption counts.
type SpeciesCount struct {
	Total     int `json:"total"`
	Adopted   int `json:"adopted"`
	Available int `json:"available"`
}

// Summary aggregates counts by species plus overall totals.
type Summary struct {
	SpeciesStats  map[string]SpeciesCount
	TotalPets     int
	AdoptedPets   int
	AvailablePets int
}

// AdoptionStats holds overall adoption counts and rate.
type AdoptionStats struct {
	TotalPets     int     `json:"total_pets"`
	AdoptedPets   int     `json:"adopted_pets"`
	AvailablePets int     `json:"available_pets"`
	AdoptionRate  float64 `json:"adoption_rate"`
}

// Store defines the interface for pet persistence.
// All operations are atomic from the caller's perspective.
type Store interface {
	// ListPets returns all pets, newest first.
	ListPets(ctx context.Context) ([]*Pet, error)

	// GetPet retrieves a pet by ID. Returns ErrNotFound if it doesn't exist.
	GetPet(ctx context.Context, id int64) (*Pet, error)

	// FindPetByName returns the first pet whose name contains the given
	// substring (case-insensitive), or ErrNotFound.
	FindPetByName(ctx context.Context, name string) (*Pet, error)

	// CreatePet inserts a new pet and fills in ID, CreatedAt, and UpdatedAt.
	CreatePet(ctx context.Context, pet *Pet) error

	// CreatePets inserts multiple pets in a single transaction.
	// Either all are created or none.
	CreatePets(ctx context.Context, pets []*Pet) error

	// UpdatePet applies a partial update and returns the updated pet.
	UpdatePet(ctx context.Context, id int64, upd PetUpdate) (*Pet, error)

	// DeletePet removes a pet by ID. Returns ErrNotFound if it doesn't exist.
	DeletePet(ctx context.Context, id int64) error

	// AdoptPet marks a pet as adopted and returns it.
	// Returns ErrAlreadyAdopted if it already is.
	AdoptPet(ctx context.Context, id int64) (*Pet, error)

	// SearchPets returns pets matching the filter, newest first.
	SearchPets(ctx context.Context, filter SearchFilter) ([]*Pet, error)

	// AvailablePets returns all pets not yet adopted, newest first.
	AvailablePets(ctx context.Context) ([]*Pet, error)

	// Summary returns counts grouped by species plus overall totals.
	Summary(ctx context.Context) (*Summary, error)

	// AdoptionStats returns overall adoption counts and the adoption rate.
	AdoptionStats(ctx context.Context) (*AdoptionStats, error)

	// SpeciesList returns the distinct species present in the store, sorted.
	SpeciesList(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store
	Close() error
}

// validatePet checks the fields shared by create and update paths.
func validatePet(name, species string, age int) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidField)
	}
	if species == "" {
		return fmt.Errorf("%w: species is required", ErrInvalidField)
	}
	if age < 0 {
		return fmt.Errorf("%w: age must be a non-negative integer", ErrInvalidField)
	}
	return nil
}
