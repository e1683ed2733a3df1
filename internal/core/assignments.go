package core

// Assignment states are stored in snake case and shown capitalized.
const (
	StatePending    = "pendiente"
	StateInProgress = "en_proceso"
	StateDone       = "completado"
)

var storedStates = map[string]string{
	"Pendiente":  StatePending,
	"En Proceso": StateInProgress,
	"Completado": StateDone,

	StatePending:    StatePending,
	StateInProgress: StateInProgress,
	StateDone:       StateDone,
}

var displayStates = map[string]string{
	StatePending:    "Pendiente",
	StateInProgress: "En Proceso",
	StateDone:       "Completado",
}

// StateToStorage maps a display or stored state to its stored form.
// Unknown values become pendiente.
func StateToStorage(s string) string {
	if v, ok := storedStates[s]; ok {
		return v
	}
	return StatePending
}

// StateToDisplay maps a stored state to its display form.
// Unknown values become Pendiente.
func StateToDisplay(s string) string {
	if v, ok := displayStates[s]; ok {
		return v
	}
	return displayStates[StatePending]
}

// AssignmentInput is the body of a create request.
type AssignmentInput struct {
	IDMecanico  int32  `json:"id_mecanico"`
	IDVehiculo  int32  `json:"id_vehiculo"`
	Descripcion string `json:"descripcion"`
	Estado      string `json:"estado"`
}

// AssignmentPatch is the body of an update request. Nil fields are left
// unchanged.
type AssignmentPatch struct {
	Estado      *string `json:"estado"`
	Descripcion *string `json:"descripcion"`
}

// MechanicInput is the body of a mechanic create request.
type MechanicInput struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}
