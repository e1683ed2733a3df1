package core

// convert.go turns spreadsheet cell text into typed values and maps
// typed values to and from their pgtype column representations.
//
// Spreadsheet numbers often arrive as decimals ("2020.0") or with Excel
// formula wrappers (="2020"); both are accepted as integers. All ToPg*
// functions return Valid=false for nil or blank input so the database
// stores NULL.

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

var (
	errNotNumeric = errors.New("not numeric")
	errOutOfRange = errors.New("out of range")
)

// CleanCell trims whitespace and unwraps the Excel text-formula form
// ="value" that some exporters emit.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}

// ParseInteger converts cell text to an int. Decimal numerals are
// truncated toward zero, matching how numeric spreadsheet cells holding
// whole numbers are stored ("2020" may be read back as "2020.0").
// Values must fit a Postgres INTEGER column.
func ParseInteger(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errNotNumeric
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, errOutOfRange
		}
		return int(n), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumeric
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, errOutOfRange
	}
	return int(f), nil
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgTextPtr converts an optional string to pgtype.Text.
func ToPgTextPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return ToPgText(*s)
}

// ToPgInt4Ptr converts an optional int to pgtype.Int4.
func ToPgInt4Ptr(i *int) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(*i), Valid: true}
}

// FromPgText returns nil for NULL text.
func FromPgText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// FromPgInt4 returns nil for NULL integers.
func FromPgInt4(i pgtype.Int4) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int32)
	return &v
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }
