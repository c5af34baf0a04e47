// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides pet persistence with automatic schema creation and WAL mode

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS pets (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			species     TEXT NOT NULL,
			breed       TEXT NOT NULL DEFAULT '',
			age         INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			is_adopted  INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL,

			CHECK (age >= 0),
			CHECK (is_adopted IN (0, 1))
		);

		CREATE INDEX IF NOT EXISTS idx_pets_name ON pets(name);
		CREATE INDEX IF NOT EXISTS idx_pets_species ON pets(species);
		CREATE INDEX IF NOT EXISTS idx_pets_adopted ON pets(is_adopted);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

const petColumns = "id, name, species, breed, age, description, is_adopted, created_at, updated_at"

// scanPet scans a single pet row from the given scanner.
func scanPet(row interface{ Scan(...any) error }) (*Pet, error) {
	var pet Pet
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&pet.ID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&pet.Age,
		&pet.Description,
		&pet.IsAdopted,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	pet.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	pet.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &pet, nil
}

// queryPets runs a query expected to return pet rows and scans them all.
func (s *SQLiteStore) queryPets(ctx context.Context, query string, args ...any) ([]*Pet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pets: %w", err)
	}
	defer rows.Close()

	var pets []*Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pet: %w", err)
		}
		pets = append(pets, pet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pets: %w", err)
	}

	return pets, nil
}

// ListPets returns all pets, newest first.
func (s *SQLiteStore) ListPets(ctx context.Context) ([]*Pet, error) {
	query := fmt.Sprintf(`SELECT %s FROM pets ORDER BY created_at DESC, id DESC`, petColumns)
	return s.queryPets(ctx, query)
}

// GetPet retrieves a pet by ID.
// Returns ErrNotFound if the pet doesn't exist.
func (s *SQLiteStore) GetPet(ctx context.Context, id int64) (*Pet, error) {
	query := fmt.Sprintf(`SELECT %s FROM pets WHERE id = ?`, petColumns)

	pet, err := scanPet(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying pet: %w", err)
	}

	return pet, nil
}

// FindPetByName returns the first pet whose name contains the given substring,
// matched case-insensitively, newest first. Returns ErrNotFound if no pet matches.
func (s *SQLiteStore) FindPetByName(ctx context.Context, name string) (*Pet, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pets
		WHERE instr(lower(name), lower(?)) > 0
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, petColumns)

	pet, err := scanPet(s.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying pet by name: %w", err)
	}

	return pet, nil
}

// CreatePet inserts a new pet and fills in ID, CreatedAt, and UpdatedAt.
func (s *SQLiteStore) CreatePet(ctx context.Context, pet *Pet) error {
	if err := validatePet(pet.Name, pet.Species, pet.Age); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	pet.CreatedAt = now
	pet.UpdatedAt = now

	query := `
		INSERT INTO pets (name, species, breed, age, description, is_adopted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.Age,
		pet.Description,
		pet.IsAdopted,
		pet.CreatedAt.Format(time.RFC3339),
		pet.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting pet: %w", err)
	}

	pet.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted pet id: %w", err)
	}

	s.logger.Debug("created pet", "id", pet.ID, "name", pet.Name, "species", pet.Species)
	return nil
}

// CreatePets inserts multiple pets in a single transaction.
// Either all pets are created or none.
func (s *SQLiteStore) CreatePets(ctx context.Context, pets []*Pet) error {
	for _, pet := range pets {
		if err := validatePet(pet.Name, pet.Species, pet.Age); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Truncate(time.Second)
	query := `
		INSERT INTO pets (name, species, breed, age, description, is_adopted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, pet := range pets {
		pet.CreatedAt = now
		pet.UpdatedAt = now
		res, err := tx.ExecContext(ctx, query,
			pet.Name,
			pet.Species,
			pet.Breed,
			pet.Age,
			pet.Description,
			pet.IsAdopted,
			pet.CreatedAt.Format(time.RFC3339),
			pet.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting pet %q: %w", pet.Name, err)
		}
		if pet.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("reading inserted pet id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}

	s.logger.Debug("created pets batch", "count", len(pets))
	return nil
}

// UpdatePet applies a partial update and returns the updated pet.
// Returns ErrNotFound if the pet doesn't exist.
func (s *SQLiteStore) UpdatePet(ctx context.Context, id int64, upd PetUpdate) (*Pet, error) {
	if upd.Name != nil && *upd.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidField)
	}
	if upd.Species != nil && *upd.Species == "" {
		return nil, fmt.Errorf("%w: species cannot be empty", ErrInvalidField)
	}
	if upd.Age != nil && *upd.Age < 0 {
		return nil, fmt.Errorf("%w: age must be a non-negative integer", ErrInvalidField)
	}

	var sets []string
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Species != nil {
		sets = append(sets, "species = ?")
		args = append(args, *upd.Species)
	}
	if upd.Breed != nil {
		sets = append(sets, "breed = ?")
		args = append(args, *upd.Breed)
	}
	if upd.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *upd.Age)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}

	if len(sets) == 0 {
		// Nothing to change, return the current record
		return s.GetPet(ctx, id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Truncate(time.Second).Format(time.RFC3339))
	args = append(args, id)

	query := fmt.Sprintf("UPDATE pets SET %s WHERE id = ?", strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating pet: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	s.logger.Debug("updated pet", "id", id)
	return s.GetPet(ctx, id)
}

// DeletePet removes a pet by ID.
// Returns ErrNotFound if the pet doesn't exist.
func (s *SQLiteStore) DeletePet(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting pet: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted pet", "id", id)
	return nil
}

// AdoptPet marks a pet as adopted and returns it.
// Returns ErrNotFound if the pet doesn't exist and ErrAlreadyAdopted
// if it has already been adopted.
func (s *SQLiteStore) AdoptPet(ctx context.Context, id int64) (*Pet, error) {
	// Guard the false->true transition: the UPDATE only matches
	// a not-yet-adopted row, so concurrent adopts can't both succeed.
	res, err := s.db.ExecContext(ctx,
		`UPDATE pets SET is_adopted = 1, updated_at = ? WHERE id = ? AND is_adopted = 0`,
		time.Now().UTC().Truncate(time.Second).Format(time.RFC3339), id,
	)
	if err != nil {
		return nil, fmt.Errorf("adopting pet: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		// Distinguish missing from already adopted
		pet, err := s.GetPet(ctx, id)
		if err != nil {
			return nil, err
		}
		if pet.IsAdopted {
			return nil, ErrAlreadyAdopted
		}
		return nil, ErrNotFound
	}

	s.logger.Info("pet adopted", "id", id)
	return s.GetPet(ctx, id)
}

// SearchPets returns pets matching the filter, newest first.
// Species and breed match as case-insensitive substrings.
func (s *SQLiteStore) SearchPets(ctx context.Context, filter SearchFilter) ([]*Pet, error) {
	var conds []string
	var args []any

	if filter.Species != "" {
		conds = append(conds, "instr(lower(species), lower(?)) > 0")
		args = append(args, filter.Species)
	}
	if filter.Breed != "" {
		conds = append(conds, "instr(lower(breed), lower(?)) > 0")
		args = append(args, filter.Breed)
	}
	if filter.AvailableOnly {
		conds = append(conds, "is_adopted = 0")
	}
	if filter.MinAge != nil {
		conds = append(conds, "age >= ?")
		args = append(args, *filter.MinAge)
	}
	if filter.MaxAge != nil {
		conds = append(conds, "age <= ?")
		args = append(args, *filter.MaxAge)
	}

	query := fmt.Sprintf(`SELECT %s FROM pets`, petColumns)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	return s.queryPets(ctx, query, args...)
}

// AvailablePets returns all pets not yet adopted, newest first.
func (s *SQLiteStore) AvailablePets(ctx context.Context) ([]*Pet, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pets
		WHERE is_adopted = 0
		ORDER BY created_at DESC, id DESC
	`, petColumns)
	return s.queryPets(ctx, query)
}

// Summary returns counts grouped by species plus overall totals.
func (s *SQLiteStore) Summary(ctx context.Context) (*Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT species,
			COUNT(*) AS total,
			SUM(CASE WHEN is_adopted = 1 THEN 1 ELSE 0 END) AS adopted,
			SUM(CASE WHEN is_adopted = 0 THEN 1 ELSE 0 END) AS available
		FROM pets
		GROUP BY species
		ORDER BY species
	`)
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}
	defer rows.Close()

	summary := &Summary{SpeciesStats: make(map[string]SpeciesCount)}
	for rows.Next() {
		var species string
		var count SpeciesCount
		if err := rows.Scan(&species, &count.Total, &count.Adopted, &count.Available); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		summary.SpeciesStats[species] = count
		summary.TotalPets += count.Total
		summary.AdoptedPets += count.Adopted
		summary.AvailablePets += count.Available
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary rows: %w", err)
	}

	return summary, nil
}

// AdoptionStats returns overall adoption counts and the adoption rate
// as a percentage rounded to two decimal places.
func (s *SQLiteStore) AdoptionStats(ctx context.Context) (*AdoptionStats, error) {
	var stats AdoptionStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN is_adopted = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_adopted = 0 THEN 1 ELSE 0 END), 0)
		FROM pets
	`).Scan(&stats.TotalPets, &stats.AdoptedPets, &stats.AvailablePets)
	if err != nil {
		return nil, fmt.Errorf("querying adoption stats: %w", err)
	}

	if stats.TotalPets > 0 {
		rate := float64(stats.AdoptedPets) / float64(stats.TotalPets) * 100
		stats.AdoptionRate = math.Round(rate*100) / 100
	}

	return &stats, nil
}

// SpeciesList returns the distinct species present in the store, sorted.
func (s *SQLiteStore) SpeciesList(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT species FROM pets ORDER BY species`)
	if err != nil {
		return nil, fmt.Errorf("querying species: %w", err)
	}
	defer rows.Close()

	var species []string
	for rows.Next() {
		var sp string
		if err := rows.Scan(&sp); err != nil {
			return nil, fmt.Errorf("scanning species: %w", err)
		}
		species = append(species, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating species: %w", err)
	}

	return species, nil
}
