// ABOUTME: Seed data for pet-gateway development and demo setups
// ABOUTME: Inserts a small fixed set of sample pets, skipping names that already exist

package store

import (
	"context"
	"fmt"
	"log/slog"
)

// SamplePets returns the fixed demo records used by the seed command.
func SamplePets() []*Pet {
	return []*Pet{
		{
			Name:        "Buddy",
			Species:     "Dog",
			Breed:       "Golden Retriever",
			Age:         3,
			Description: "Friendly and energetic dog who loves to play fetch. Great with kids and other pets.",
		},
		{
			Name:        "Whiskers",
			Species:     "Cat",
			Breed:       "Persian",
			Age:         2,
			Description: "Calm and gentle cat who enjoys lounging in sunny spots. Perfect for a quiet home.",
		},
		{
			Name:        "Tweety",
			Species:     "Bird",
			Breed:       "Canary",
			Age:         1,
			Description: "Beautiful singing bird with bright yellow feathers. Brings joy with its melodious songs.",
		},
		{
			Name:        "Max",
			Species:     "Dog",
			Breed:       "Labrador",
			Age:         4,
			Description: "Loyal and intelligent dog. Great for families and loves outdoor activities.",
		},
		{
			Name:        "Luna",
			Species:     "Cat",
			Breed:       "Siamese",
			Age:         2,
			Description: "Elegant and social cat with striking blue eyes. Very affectionate and vocal.",
		},
	}
}

// Seed inserts the sample pets into the store.
// Pets whose exact name already exists are skipped, so Seed is idempotent.
// Returns the number of pets added.
func Seed(ctx context.Context, s Store) (int, error) {
	existing, err := s.ListPets(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing pets: %w", err)
	}

	names := make(map[string]struct{}, len(existing))
	for _, pet := range existing {
		names[pet.Name] = struct{}{}
	}

	added := 0
	for _, pet := range SamplePets() {
		if _, ok := names[pet.Name]; ok {
			continue
		}
		if err := s.CreatePet(ctx, pet); err != nil {
			return added, fmt.Errorf("seeding pet %q: %w", pet.Name, err)
		}
		added++
	}

	if added > 0 {
		slog.Default().Info("seeded sample pets", "added", added)
	}
	return added, nil
}
