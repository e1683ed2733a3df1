package core

// sheet.go reads an uploaded file into header and row form.
//
// Two formats are accepted, detected from the leading bytes:
//   - .xlsx workbooks (zip container), read with excelize; the first sheet is used
//   - delimited text (CSV with ',', ';' or tab), decoded to UTF-8 by
//     DecodeText and read with encoding/csv
//
// Cells are kept as text exactly as stored. Numeric cells come back as
// their raw value ("2020", "15000.5") rather than the display format.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnreadableFile is returned when the upload is not a workbook or
	// delimited text file.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrEmptyFile is returned when the upload has no header row.
	ErrEmptyFile = errors.New("empty file")
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// Sheet is a parsed upload: normalized headers plus one RawRow per data row.
type Sheet struct {
	Headers []string
	Rows    []RawRow
}

// TotalRows returns the number of data rows, excluding the header.
func (s *Sheet) TotalRows() int { return len(s.Rows) }

// ParseSheet detects the file format and reads it into a Sheet.
// Leading and trailing blank rows are dropped; blank rows between data
// rows are kept so row numbers match what the user sees.
func ParseSheet(data []byte) (*Sheet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	var (
		records [][]string
		err     error
	)
	switch {
	case bytes.HasPrefix(data, zipMagic):
		records, err = readWorkbook(data)
	case bytes.HasPrefix(data, oleMagic):
		return nil, fmt.Errorf("%w: legacy .xls workbooks are not supported, save as .xlsx", ErrUnreadableFile)
	default:
		records, err = readDelimited(data)
	}
	if err != nil {
		return nil, err
	}

	return buildSheet(records)
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrUnreadableFile, sheets[0], err)
	}
	return rows, nil
}

func readDelimited(raw []byte) ([][]string, error) {
	data, err := DecodeText(raw)
	if err != nil {
		return nil, err
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content", ErrUnreadableFile)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return records, nil
}

// detectDelimiter picks the most frequent of ',', ';' and tab on the
// first line. Spreadsheet exports in Spanish locales use ';'.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func buildSheet(records [][]string) (*Sheet, error) {
	for len(records) > 0 && blankRecord(records[0]) {
		records = records[1:]
	}
	for len(records) > 0 && blankRecord(records[len(records)-1]) {
		records = records[:len(records)-1]
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := NormalizeHeaders(records[0])
	rows := make([]RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(RawRow, len(headers))
		for j, cell := range rec {
			if j >= len(headers) || cell == "" {
				continue
			}
			row[headers[j]] = cell
		}
		rows = append(rows, row)
	}

	return &Sheet{Headers: headers, Rows: rows}, nil
}
