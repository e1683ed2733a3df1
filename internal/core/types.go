package core

import "time"

// FieldType is the expected type of a spreadsheet column.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldInteger FieldType = "integer"
)

// ColumnSpec describes one expected column of an import file.
type ColumnSpec struct {
	Name     string    `yaml:"name" json:"name"`
	Required bool      `yaml:"required" json:"required"`
	Type     FieldType `yaml:"type" json:"type"`
}

// RawRow maps a normalized column name to the cell text as read from the
// file. A missing key means the cell was absent or empty.
type RawRow map[string]string

// Vehicle is a coerced import row, ready for storage.
type Vehicle struct {
	Marca           string  `json:"marca"`
	Modelo          string  `json:"modelo"`
	Anio            *int    `json:"anio"`
	Kilometraje     *int    `json:"kilometraje"`
	TipoCombustible *string `json:"tipo_combustible"`
	Caballos        *int    `json:"caballos"`
	Torque          *int    `json:"torque"`
	Segmento        *string `json:"segmento"`
}

// ColumnCheck is the validation outcome for a single column.
type ColumnCheck struct {
	Columna   string `json:"columna"`
	Requerida bool   `json:"requerida"`
	Valida    bool   `json:"valida"`
	Mensaje   string `json:"mensaje"`
}

// ValidationReport is returned by the validate endpoint.
type ValidationReport struct {
	Valido        bool          `json:"valido"`
	Validaciones  []ColumnCheck `json:"validaciones"`
	TotalColumnas int           `json:"total_columnas"`
	TotalFilas    int           `json:"total_filas"`
}

// PreviewResult holds the first rows of a file exactly as read.
type PreviewResult struct {
	Columnas       []string             `json:"columnas"`
	Filas          []map[string]*string `json:"filas"`
	TotalRegistros int                  `json:"total_registros"`
}

// ImportResult summarizes a finished import job.
// Exitosos + Fallidos always equals Total.
type ImportResult struct {
	Total    int      `json:"total"`
	Exitosos int      `json:"exitosos"`
	Fallidos int      `json:"fallidos"`
	Errores  []string `json:"errores"`
	Mensaje  string   `json:"mensaje,omitempty"`
}

// EventType is the kind of a progress event.
type EventType string

const (
	EventProgress  EventType = "progreso"
	EventCompleted EventType = "completado"
	EventError     EventType = "error"
)

// ProgressEvent is pushed to the client while an import runs.
type ProgressEvent struct {
	Tipo     EventType `json:"tipo"`
	Progreso int       `json:"progreso"`
	Mensaje  string    `json:"mensaje"`
	Total    *int      `json:"total,omitempty"`
	Exitosos *int      `json:"exitosos,omitempty"`
	Fallidos *int      `json:"fallidos,omitempty"`
}

// ImportMode distinguishes the two ingestion entry points.
type ImportMode string

const (
	ModeProgress ImportMode = "progress"
	ModeDirect   ImportMode = "direct"
)

// ImportRequest carries one uploaded file into the importer.
type ImportRequest struct {
	JobID     string
	SessionID string
	FileName  string
	Data      []byte
}

// JobRecord is the stored, serializable view of an import job.
type JobRecord struct {
	ID         string     `json:"id"`
	SessionID  string     `json:"session_id,omitempty"`
	Mode       ImportMode `json:"modo"`
	FileName   string     `json:"archivo,omitempty"`
	State      string     `json:"estado"`
	Total      int        `json:"total"`
	Exitosos   int        `json:"exitosos"`
	Fallidos   int        `json:"fallidos"`
	Errores    []string   `json:"errores"`
	Error      string     `json:"error,omitempty"`
	IPAddress  string     `json:"ip,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	StartedAt  time.Time  `json:"iniciado"`
	FinishedAt time.Time  `json:"finalizado,omitzero"`
}

// Terminal reports whether the job has finished, successfully or not.
func (r JobRecord) Terminal() bool {
	return r.State == JobCompleted || r.State == JobFailed
}

// Mechanic is a workshop mechanic.
type Mechanic struct {
	ID       int32  `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

// StoredVehicle is a vehicle row read back from storage.
type StoredVehicle struct {
	ID int32 `json:"id"`
	Vehicle
}

// Assignment links a mechanic to a vehicle with a work state.
type Assignment struct {
	ID              int32      `json:"id"`
	IDMecanico      int32      `json:"id_mecanico"`
	IDVehiculo      int32      `json:"id_vehiculo"`
	Vehiculo        string     `json:"vehiculo"`
	Mecanico        string     `json:"mecanico"`
	Descripcion     string     `json:"descripcion"`
	FechaAsignacion *time.Time `json:"fecha_asignacion"`
	Estado          string     `json:"estado"`
}
