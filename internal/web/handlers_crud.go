package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/taller/internal/core"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody bounds CRUD request bodies.
const maxJSONBody = 1 << 20

// decodeJSON reads a JSON body into v. Errors wrap core.ErrInvalidInput.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	return nil
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", core.ErrInvalidInput, chi.URLParam(r, "id"))
	}
	return int32(id), nil
}

// respondServiceError keeps the entity message ("Asignación 4 no
// encontrada") in the error field for not found responses.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		s.respondErrorAs(w, r, err, http.StatusNotFound, nf.Error())
		return
	}
	s.respondError(w, r, err)
}

func (s *Server) handleListVehicleRecords(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.service.ListVehicles(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var in core.Vehicle
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	v, err := s.service.CreateVehicle(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleListMechanics(w http.ResponseWriter, r *http.Request) {
	mechanics, err := s.service.ListMechanics(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mechanics)
}

func (s *Server) handleCreateMechanic(w http.ResponseWriter, r *http.Request) {
	var in core.MechanicInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	m, err := s.service.CreateMechanic(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleListAssignments lists assignments with display states and the
// vehicle and mechanic names resolved.
func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := s.service.ListAssignments(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var in core.AssignmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	a, err := s.service.CreateAssignment(r.Context(), in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleUpdateAssignment applies a partial update. Only estado and
// descripcion can change.
func (s *Server) handleUpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var patch core.AssignmentPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.respondError(w, r, err)
		return
	}

	a, err := s.service.UpdateAssignment(r.Context(), id, patch)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mensaje":     "Asignación actualizada",
		"id":          a.ID,
		"estado":      a.Estado,
		"descripcion": a.Descripcion,
	})
}

func (s *Server) handleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.service.DeleteAssignment(r.Context(), id); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mensaje": "Asignación eliminada",
		"id":      id,
	})
}
