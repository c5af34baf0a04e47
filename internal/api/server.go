// ABOUTME: REST API over the pet store: CRUD, search, adoption, and stats endpoints.
// ABOUTME: Conventional JSON bodies and status codes; routes use method-pattern matching.

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/2389/pet-gateway/internal/store"
)

// maxBodySize caps request bodies at 1MB.
const maxBodySize = 1 << 20

// Server exposes the pet store over REST.
type Server struct {
	store    store.Store
	logger   *slog.Logger
	markdown goldmark.Markdown
	docs     map[string]string
}

// NewServer creates a REST server backed by the given store.
// The docs map holds markdown documents served rendered at /docs/{name}.
func NewServer(s store.Store, logger *slog.Logger, docs map[string]string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    s,
		logger:   logger,
		markdown: goldmark.New(),
		docs:     docs,
	}
}

// RegisterRoutes registers all REST endpoints on the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/pets", s.handleListPets)
	mux.HandleFunc("POST /api/pets", s.handleCreatePet)
	mux.HandleFunc("POST /api/pets/batch", s.handleCreatePetsBatch)
	mux.HandleFunc("GET /api/pets/search", s.handleSearchPets)
	mux.HandleFunc("GET /api/pets/available", s.handleAvailablePets)
	mux.HandleFunc("GET /api/pets/summary", s.handleSummary)
	mux.HandleFunc("GET /api/pets/species", s.handleSpecies)
	mux.HandleFunc("GET /api/pets/stats", s.handleAdoptionStats)
	mux.HandleFunc("PUT /api/pets/adopt-by-name", s.handleAdoptByName)
	mux.HandleFunc("GET /api/pets/{id}", s.handleGetPet)
	mux.HandleFunc("PUT /api/pets/{id}", s.handleUpdatePet)
	mux.HandleFunc("DELETE /api/pets/{id}", s.handleDeletePet)
	mux.HandleFunc("PUT /api/pets/{id}/adopt", s.handleAdoptPet)

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /docs/{name}", s.handleDoc)
}

// petPayload is the request body for create and update.
type petPayload struct {
	Name        *string `json:"name"`
	Species     *string `json:"species"`
	Breed       *string `json:"breed"`
	Age         *int    `json:"age"`
	Description *string `json:"description"`
}

func (s *Server) handleListPets(w http.ResponseWriter, r *http.Request) {
	pets, err := s.store.ListPets(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "failed to list pets")
		return
	}
	s.sendJSON(w, http.StatusOK, pets)
}

func (s *Server) handleGetPet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.petID(w, r)
	if !ok {
		return
	}
	pet, err := s.store.GetPet(r.Context(), id)
	if err != nil {
		s.storeError(w, err, id)
		return
	}
	s.sendJSON(w, http.StatusOK, pet)
}

func (s *Server) handleCreatePet(w http.ResponseWriter, r *http.Request) {
	var payload petPayload
	if !s.decode(w, r, &payload) {
		return
	}

	pet := &store.Pet{}
	applyPayload(pet, payload)

	if err := s.store.CreatePet(r.Context(), pet); err != nil {
		if errors.Is(err, store.ErrInvalidField) {
			s.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.sendError(w, http.StatusInternalServerError, "failed to create pet")
		return
	}
	s.sendJSON(w, http.StatusCreated, pet)
}

// handleCreatePetsBatch creates multiple pets in one transaction.
// Either all succeed or none are created.
func (s *Server) handleCreatePetsBatch(w http.ResponseWriter, r *http.Request) {
	var payloads []petPayload
	if !s.decode(w, r, &payloads) {
		return
	}
	if len(payloads) == 0 {
		s.sendError(w, http.StatusBadRequest, "at least one pet is required")
		return
	}

	pets := make([]*store.Pet, len(payloads))
	var problems []string
	for i, payload := range payloads {
		pets[i] = &store.Pet{}
		applyPayload(pets[i], payload)
		if pets[i].Name == "" {
			problems = append(problems, fmt.Sprintf("pet %d: name is required", i))
		}
		if pets[i].Species == "" {
			problems = append(problems, fmt.Sprintf("pet %d: species is required", i))
		}
	}
	if len(problems) > 0 {
		s.sendJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "batch validation failed",
			"errors": problems,
		})
		return
	}

	if err := s.store.CreatePets(r.Context(), pets); err != nil {
		if errors.Is(err, store.ErrInvalidField) {
			s.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.sendError(w, http.StatusInternalServerError, "failed to create pets")
		return
	}
	s.sendJSON(w, http.StatusCreated, map[string]any{
		"pets":    pets,
		"created": len(pets),
	})
}

func (s *Server) handleUpdatePet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.petID(w, r)
	if !ok {
		return
	}
	var payload petPayload
	if !s.decode(w, r, &payload) {
		return
	}

	upd := store.PetUpdate{
		Name:        payload.Name,
		Species:     payload.Species,
		Breed:       payload.Breed,
		Age:         payload.Age,
		Description: payload.Description,
	}

	pet, err := s.store.UpdatePet(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, store.ErrInvalidField) {
			s.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.storeError(w, err, id)
		return
	}
	s.sendJSON(w, http.StatusOK, pet)
}

func (s *Server) handleDeletePet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.petID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeletePet(r.Context(), id); err != nil {
		s.storeError(w, err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdoptPet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.petID(w, r)
	if !ok {
		return
	}
	pet, err := s.store.AdoptPet(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyAdopted) {
			s.sendError(w, http.StatusBadRequest, "pet is already adopted")
			return
		}
		s.storeError(w, err, id)
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%s has been successfully adopted!", pet.Name),
		"pet":     pet,
	})
}

func (s *Server) handleAdoptByName(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if body.Name == "" {
		s.sendError(w, http.StatusBadRequest, "name is required")
		return
	}

	pet, err := s.store.FindPetByName(r.Context(), body.Name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendError(w, http.StatusNotFound, fmt.Sprintf("no pet found with name containing %q", body.Name))
			return
		}
		s.sendError(w, http.StatusInternalServerError, "failed to find pet")
		return
	}

	adopted, err := s.store.AdoptPet(r.Context(), pet.ID)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyAdopted) {
			s.sendError(w, http.StatusBadRequest, fmt.Sprintf("%s is already adopted", pet.Name))
			return
		}
		s.storeError(w, err, pet.ID)
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%s has been successfully adopted!", adopted.Name),
		"pet":     adopted,
	})
}

func (s *Server) handleSearchPets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.SearchFilter{
		Species:       q.Get("species"),
		Breed:         q.Get("breed"),
		AvailableOnly: q.Get("available_only") == "true",
	}
	for param, dst := range map[string]**int{"min_age": &filter.MinAge, "max_age": &filter.MaxAge} {
		if raw := q.Get(param); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				s.sendError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a non-negative integer", param))
				return
			}
			*dst = &n
		}
	}

	pets, err := s.store.SearchPets(r.Context(), filter)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "failed to search pets")
		return
	}
	s.sendJSON(w, http.StatusOK, pets)
}

func (s *Server) handleAvailablePets(w http.ResponseWriter, r *http.Request) {
	pets, err := s.store.AvailablePets(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "failed to list available pets")
		return
	}
	s.sendJSON(w, http.StatusOK, pets)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summary(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]any{
		"summary_by_species": summary.SpeciesStats,
		"overall_totals": map[string]any{
			"total_pets":     summary.TotalPets,
			"adopted_pets":   summary.AdoptedPets,
			"available_pets": summary.AvailablePets,
		},
	})
}

func (s *Server) handleSpecies(w http.ResponseWriter, r *http.Request) {
	species, err := s.store.SpeciesList(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "failed to list species")
		return
	}
	if species == nil {
		species = []string{}
	}
	s.sendJSON(w, http.StatusOK, map[string]any{"species": species})
}

func (s *Server) handleAdoptionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.AdoptionStats(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	s.sendJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	// A cheap store round trip doubles as a liveness probe for the database.
	if _, err := s.store.AdoptionStats(r.Context()); err != nil {
		s.sendJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleDoc renders one of the bundled markdown documents as HTML.
func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	source, ok := s.docs[name]
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(source), &buf); err != nil {
		s.logger.Error("failed to render document", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// petID parses the {id} path segment, writing a 400 on failure.
func (s *Server) petID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		s.sendError(w, http.StatusBadRequest, "pet id must be a positive integer")
		return 0, false
	}
	return id, true
}

// decode reads a JSON body into dst, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "invalid JSON body"
		if strings.Contains(err.Error(), "unknown field") {
			msg = err.Error()
		}
		s.sendError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

func applyPayload(pet *store.Pet, payload petPayload) {
	if payload.Name != nil {
		pet.Name = *payload.Name
	}
	if payload.Species != nil {
		pet.Species = *payload.Species
	}
	if payload.Breed != nil {
		pet.Breed = *payload.Breed
	}
	if payload.Age != nil {
		pet.Age = *payload.Age
	}
	if payload.Description != nil {
		pet.Description = *payload.Description
	}
}

// storeError maps store sentinel errors onto HTTP status codes.
func (s *Server) storeError(w http.ResponseWriter, err error, id int64) {
	if errors.Is(err, store.ErrNotFound) {
		s.sendError(w, http.StatusNotFound, fmt.Sprintf("pet with ID %d not found", id))
		return
	}
	s.logger.Error("store operation failed", "pet_id", id, "error", err)
	s.sendError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, map[string]any{"error": message})
}
