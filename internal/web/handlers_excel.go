package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JonMunkholm/taller/internal/core"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// multipartMemory is how much of a multipart body is kept in memory
// before spilling to temporary files.
const multipartMemory = 8 << 20

// upload is a file read from a multipart request.
type upload struct {
	name string
	data []byte
}

// readUpload reads the "file" part, bounded by the configured size.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return upload{}, fmt.Errorf("%w: %v", errFileTooLarge, err)
		}
		return upload{}, fmt.Errorf("%w: %v", errNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return upload{}, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return upload{}, err
	}
	return upload{name: header.Filename, data: data}, nil
}

// sessionID accepts both spellings used by existing clients.
func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.FormValue("session_id")); id != "" {
		return id
	}
	return strings.TrimSpace(r.FormValue("sessionId"))
}

// jobID returns the client supplied job_id when it is a UUID, or a new one.
func jobID(r *http.Request) string {
	if id, err := uuid.Parse(r.FormValue("job_id")); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// handleValidate checks an upload's headers against the expected columns.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	report, err := s.service.ValidateFile(up.data)
	if err != nil {
		s.respondErrorAs(w, r, err, http.StatusBadRequest, "Error al leer archivo: "+core.MapError(err).Message)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handlePreview returns the first rows of an upload as read.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	preview, err := s.service.PreviewFile(up.data)
	if err != nil {
		s.respondErrorAs(w, r, err, http.StatusBadRequest, "Error al generar preview: "+core.MapError(err).Message)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// handleImport runs a progress-mode import. Progress events go to the
// channel registered under the request's session id, which is required.
// The job id is returned in X-Job-ID; a client that wants to poll while
// the request is open can choose it up front with a job_id form field.
// An upload that cannot be read still ends the session's stream with an
// error event when the session id can be recovered from the request.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		if id := sessionID(r); id != "" {
			s.service.NotifyRejected(id, err)
		}
		s.respondError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	if sessionID(r) == "" {
		s.respondErrorAs(w, r, errNoSession, http.StatusBadRequest, "Error en carga: "+core.MapError(errNoSession).Message)
		return
	}

	req := core.ImportRequest{
		JobID:     jobID(r),
		SessionID: sessionID(r),
		FileName:  up.name,
		Data:      up.data,
	}
	w.Header().Set("X-Job-ID", req.JobID)

	res, err := s.service.ImportWithProgress(WithRequestMetadata(r.Context(), r), req)
	if err != nil {
		s.respondErrorAs(w, r, err, statusFor(err), "Error en carga: "+core.MapError(err).Message)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleImportDirect runs a direct-mode import: one commit, no events.
func (s *Server) handleImportDirect(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := core.ImportRequest{
		JobID:     jobID(r),
		SessionID: sessionID(r),
		FileName:  up.name,
		Data:      up.data,
	}
	w.Header().Set("X-Job-ID", req.JobID)

	res, err := s.service.ImportDirect(WithRequestMetadata(r.Context(), r), req)
	if err != nil {
		var missing *core.MissingColumnsError
		if errors.As(err, &missing) {
			s.respondErrorAs(w, r, err, http.StatusBadRequest, missing.Error())
			return
		}
		s.respondErrorAs(w, r, err, statusFor(err), "Error al procesar el Excel: "+core.MapError(err).Message)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleJob returns the stored record of an import job.
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.Job(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleColumns returns the column specification imports are checked
// against, so clients can build a template.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"columnas": s.service.Columns()})
}

// handleListVehicles lists every stored vehicle with a total.
func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.service.ListVehicles(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":     len(vehicles),
		"vehiculos": vehicles,
	})
}

// handleClearVehicles deletes every vehicle.
func (s *Server) handleClearVehicles(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.ClearVehicles(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mensaje":    "Tabla de vehículos vaciada correctamente",
		"eliminados": n,
	})
}
