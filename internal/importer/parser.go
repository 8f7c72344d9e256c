package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"crm-service/internal/models"
)

var (
	// ErrUnsupportedFileType is returned when the file extension is not .csv, .xlsx or .xls
	ErrUnsupportedFileType = errors.New("unsupported file type, expected .csv, .xlsx or .xls")
	// ErrEmptyFile is returned when the file contains no data rows
	ErrEmptyFile = errors.New("the file contains no data rows")
	// ErrMissingColumn is returned when a required column cannot be resolved in the header row
	ErrMissingColumn = errors.New("required column is missing from the file")
)

// ParseError wraps a decoder failure (corrupt file, wrong encoding)
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse file: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Logical field names addressed by the validator and committer
const (
	FieldMPANMPR       = "mpan_mpr"
	FieldBusinessName  = "business_name"
	FieldContactPerson = "contact_person"
	FieldTelNumber     = "tel_number"
	FieldEmail         = "email"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
)

// fieldAliases maps each logical field to the header spellings accepted for
// it, in priority order. Headers are matched case- and whitespace-insensitively.
var fieldAliases = map[string][]string{
	FieldMPANMPR:       {"mpan_mpr", "mpan mpr", "mpan/mpr", "mpan", "mpr", "mpan number"},
	FieldBusinessName:  {"business_name", "business name", "company name", "company", "business"},
	FieldContactPerson: {"contact_person", "contact person", "contact"},
	FieldTelNumber:     {"tel_number", "tel number", "phone", "telephone", "tel", "phone number"},
	FieldEmail:         {"email", "e-mail", "email address"},
	FieldStartDate:     {"start_date", "start date", "contract start", "start"},
	FieldEndDate:       {"end_date", "end date", "contract end", "end", "expiry date"},
}

// normalizeHeader lowercases and trims a header for alias matching. The
// template marks required columns with a trailing " *", which is stripped.
func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	return strings.TrimSuffix(h, " *")
}

// ParsedFile is the decoded upload: ordered data rows plus a header lookup
// built once per file so field resolution is not repeated per row.
type ParsedFile struct {
	Rows    []models.ImportRow
	headers []string
	lookup  map[string]string // normalized header -> original header
}

// Resolve returns the file's original header for a logical field, trying the
// field's aliases in order. ok is false when no alias matches any header.
func (f *ParsedFile) Resolve(field string) (string, bool) {
	for _, alias := range fieldAliases[field] {
		if original, ok := f.lookup[alias]; ok {
			return original, true
		}
	}
	return "", false
}

// Value returns the trimmed cell value of a logical field for one row, or ""
// when the column is absent or the cell is blank.
func (f *ParsedFile) Value(row models.ImportRow, field string) string {
	header, ok := f.Resolve(field)
	if !ok {
		return ""
	}
	return cellValue(row.Data, header)
}

func cellValue(data map[string]*string, header string) string {
	v, ok := data[header]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// ResolveRowValue resolves a logical field against a single row's own
// headers. Used by the committer, which receives rows back from the caller
// without the surrounding ParsedFile.
func ResolveRowValue(data map[string]*string, field string) string {
	lookup := make(map[string]string, len(data))
	for header := range data {
		lookup[normalizeHeader(header)] = header
	}
	for _, alias := range fieldAliases[field] {
		if original, ok := lookup[alias]; ok {
			return cellValue(data, original)
		}
	}
	return ""
}

// Parse decodes an uploaded file into ordered rows keyed by the original
// column headers. The decoder is chosen by file extension. Parse never
// touches storage.
func Parse(filename string, r io.Reader) (*ParsedFile, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(r)
	case ".xlsx", ".xls":
		return parseXLSX(r)
	default:
		return nil, ErrUnsupportedFileType
	}
}

func parseCSV(r io.Reader) (*ParsedFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to read CSV header: %w", err)}
	}

	pf := newParsedFile(headers)

	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: fmt.Errorf("error reading line %d: %w", rowNum+2, err)}
		}
		rowNum++
		pf.Rows = append(pf.Rows, buildRow(rowNum, pf.headers, record))
	}

	return pf, nil
}

func parseXLSX(r io.Reader) (*ParsedFile, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to open Excel file: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("no sheets found in Excel file")}
	}

	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to read sheet: %w", err)}
	}

	if len(excelRows) == 0 {
		return newParsedFile(nil), nil
	}

	pf := newParsedFile(excelRows[0])
	for i, excelRow := range excelRows[1:] {
		pf.Rows = append(pf.Rows, buildRow(i+1, pf.headers, excelRow))
	}

	return pf, nil
}

func newParsedFile(headers []string) *ParsedFile {
	pf := &ParsedFile{
		headers: make([]string, 0, len(headers)),
		lookup:  make(map[string]string, len(headers)),
	}
	for _, h := range headers {
		h = strings.TrimSpace(h)
		pf.headers = append(pf.headers, h)
		pf.lookup[normalizeHeader(h)] = h
	}
	return pf
}

// buildRow maps one record onto the file's headers. Cells beyond the header
// count are dropped; blank and missing cells become nil.
func buildRow(rowNum int, headers []string, record []string) models.ImportRow {
	data := make(map[string]*string, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i >= len(record) || strings.TrimSpace(record[i]) == "" {
			data[header] = nil
			continue
		}
		value := strings.TrimSpace(record[i])
		data[header] = &value
	}
	return models.ImportRow{RowNumber: rowNum, Data: data}
}
