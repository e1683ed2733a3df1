package core

// error_messages.go maps technical errors to messages shown to workshop
// staff. Each message carries a code so support can find the cause in the
// logs.
//
// Codes are grouped by category:
//
//	FILE001-FILE099  upload handling and parsing
//	VAL001-VAL099    column and value validation
//	IMP001-IMP099    import jobs and sessions
//	DB001-DB099      storage
//	ERR000           fallback when nothing matches
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "El archivo supera el tamaño máximo permitido",
			Action:  "Divida el archivo en partes más pequeñas",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "El archivo supera el tamaño máximo permitido",
			Action:  "Divida el archivo en partes más pequeñas",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unreadable file",
		msg: UserMessage{
			Message: "No se pudo leer el archivo",
			Action:  "Guarde el archivo como .xlsx o .csv e intente de nuevo",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "El archivo está vacío",
			Action:  "Incluya una fila de encabezados y al menos una fila de datos",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No se seleccionó ningún archivo",
			Action:  "Seleccione un archivo para cargar",
			Code:    "FILE004",
		},
	},

	// Validation errors
	{
		pattern: "columnas faltantes",
		msg: UserMessage{
			Message: "Faltan columnas requeridas",
			Action:  "Revise que el archivo tenga todas las columnas de la plantilla",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid input syntax",
		msg: UserMessage{
			Message: "Un valor no tiene el formato esperado",
			Action:  "Revise los valores numéricos del archivo",
			Code:    "VAL002",
		},
	},
	{
		pattern: "out of range",
		msg: UserMessage{
			Message: "Un valor numérico está fuera de rango",
			Action:  "Revise los valores numéricos del archivo",
			Code:    "VAL003",
		},
	},

	// Import job errors
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "El sistema está procesando otras cargas",
			Action:  "Espere un momento e intente de nuevo",
			Code:    "IMP001",
		},
	},
	{
		pattern: "job not found",
		msg: UserMessage{
			Message: "No se encontró la carga",
			Action:  "La carga pudo haber expirado, inicie una nueva",
			Code:    "IMP002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "La operación fue cancelada",
			Action:  "Intente de nuevo",
			Code:    "IMP003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "La operación excedió el tiempo límite",
			Action:  "Intente con un archivo más pequeño",
			Code:    "IMP004",
		},
	},
	{
		pattern: "session id required",
		msg: UserMessage{
			Message: "Falta el identificador de sesión",
			Action:  "Abra la conexión de progreso y envíe su session_id con el archivo",
			Code:    "IMP005",
		},
	},

	// Storage errors
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "El registro ya existe",
			Action:  "Revise si hay filas duplicadas",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "El registro referenciado no existe",
			Action:  "Verifique el mecánico y el vehículo",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "No se pudo conectar a la base de datos",
			Action:  "Intente de nuevo en unos momentos",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Se interrumpió la conexión con la base de datos",
			Action:  "Intente de nuevo",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "La base de datos tardó demasiado en responder",
			Action:  "Intente de nuevo más tarde",
			Code:    "DB005",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "La base de datos estaba ocupada",
			Action:  "Intente de nuevo",
			Code:    "DB006",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "Ocurrió un error inesperado",
	Action:  "Intente de nuevo o contacte a soporte",
	Code:    "ERR000",
}

// MapError returns the first message whose pattern occurs in err, or the
// ERR000 fallback. A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError formats err as "Message (Código: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Código: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
