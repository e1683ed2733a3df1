package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "unreadable file", err: fmt.Errorf("%w: binary content", ErrUnreadableFile), wantCode: "FILE002"},
		{name: "empty file", err: ErrEmptyFile, wantCode: "FILE003"},
		{name: "body limit", err: errors.New("http: request body too large"), wantCode: "FILE001"},
		{name: "missing columns", err: &MissingColumnsError{Columns: []string{"torque"}}, wantCode: "VAL001"},
		{name: "limiter busy", err: ErrTooManyImports, wantCode: "IMP001"},
		{name: "deadline before generic timeout", err: context.DeadlineExceeded, wantCode: "IMP004"},
		{name: "duplicate key", err: errors.New("ERROR: duplicate key value violates unique constraint"), wantCode: "DB001"},
		{name: "foreign key", err: errors.New("insert violates foreign key constraint"), wantCode: "DB002"},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:5432: connection refused"), wantCode: "DB003"},
		{name: "case insensitive", err: errors.New("DEADLOCK detected"), wantCode: "DB006"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err); got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(errors.New("duplicate key value violates"))
	want := "El registro ya existe (Código: DB001). Revise si hay filas duplicadas"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestUserErrors(t *testing.T) {
	if IsUserFacing(nil) || NewUserError(nil) != nil {
		t.Fatal("nil error should map to nothing")
	}
	if IsUserFacing(errors.New("pool exhausted at 0x3f")) {
		t.Error("unknown errors should not be user facing")
	}

	cause := fmt.Errorf("insert vehiculo: %w", errors.New("duplicate key value"))
	if !IsUserFacing(cause) {
		t.Fatal("duplicate key should be user facing")
	}
	ue := NewUserError(cause)
	if ue.Error() != "El registro ya existe" {
		t.Errorf("Error() = %q", ue.Error())
	}
	if !errors.Is(ue, cause) {
		t.Error("UserError should unwrap to its cause")
	}
}

func TestMapError_WrappedSentinels(t *testing.T) {
	err := fmt.Errorf("job abc: %w", fmt.Errorf("parse: %w", ErrEmptyFile))
	msg := MapError(err)
	if msg.Code != "FILE003" || msg.Message == "" {
		t.Errorf("MapError() = %+v, want FILE003 with a message", msg)
	}
}
