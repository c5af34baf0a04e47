// Package api exposes the pet store over a conventional REST surface.
//
// Endpoints live under /api/pets (list, get, create, update, delete,
// search, available, batch create, adopt, summary, species, stats).
// Responses are JSON with standard status codes: 200 for reads and
// updates, 201 for creation, 204 for deletion, 400 for invalid input,
// and 404 for missing pets.
//
// The package also serves /healthz for liveness probes and /docs/{name}
// for the bundled markdown documents rendered to HTML.
package api
