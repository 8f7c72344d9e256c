package importer

import (
	"strings"
	"time"

	"crm-service/internal/models"
)

// Validation messages surfaced per row, in rule order
const (
	MsgMPANRequired      = "MPAN_MPR is mandatory"
	MsgMPANDuplicate     = "MPAN_MPR must be unique within the uploaded file"
	MsgBusinessOrContact = "Business_Name OR Contact_Person must exist"
	MsgTelRequired       = "Tel_Number must exist"
	MsgStartDateRequired = "Start_Date must exist"
	MsgStartDateInvalid  = "Start_Date is not a valid date"
	MsgEndDateRequired   = "End_Date must exist"
	MsgEndDateInvalid    = "End_Date is not a valid date"
)

// dateFormats are the accepted date layouts, tried in order
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02-01-2006",
	"2 January 2006",
	"Jan 2, 2006",
}

// ParseDate parses a cell value against the accepted date layouts
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validator checks parsed rows against the lead import rules. It is built
// once per file so file-scoped state (duplicate MPAN counts) is computed a
// single time.
type Validator struct {
	file       *ParsedFile
	mpanCounts map[string]int
}

// NewValidator builds a validator for a parsed file. It fails with
// ErrMissingColumn when no header resolves to the MPAN_MPR field, since
// without it no row can be validated.
func NewValidator(file *ParsedFile) (*Validator, error) {
	if _, ok := file.Resolve(FieldMPANMPR); !ok {
		return nil, ErrMissingColumn
	}

	counts := make(map[string]int)
	for _, row := range file.Rows {
		if mpan := file.Value(row, FieldMPANMPR); mpan != "" {
			counts[strings.ToLower(mpan)]++
		}
	}

	return &Validator{file: file, mpanCounts: counts}, nil
}

// ValidateRow applies every rule to a row and returns all failures. Rules
// accumulate: a failing rule never stops the later ones from running, so the
// caller sees the complete error list for the row.
func (v *Validator) ValidateRow(row models.ImportRow) []string {
	errs := []string{}

	mpan := v.file.Value(row, FieldMPANMPR)
	if mpan == "" {
		errs = append(errs, MsgMPANRequired)
	} else if v.mpanCounts[strings.ToLower(mpan)] > 1 {
		errs = append(errs, MsgMPANDuplicate)
	}

	if v.file.Value(row, FieldBusinessName) == "" && v.file.Value(row, FieldContactPerson) == "" {
		errs = append(errs, MsgBusinessOrContact)
	}

	if v.file.Value(row, FieldTelNumber) == "" {
		errs = append(errs, MsgTelRequired)
	}

	errs = appendDateErrors(errs, v.file.Value(row, FieldStartDate), MsgStartDateRequired, MsgStartDateInvalid)
	errs = appendDateErrors(errs, v.file.Value(row, FieldEndDate), MsgEndDateRequired, MsgEndDateInvalid)

	return errs
}

func appendDateErrors(errs []string, value, missingMsg, invalidMsg string) []string {
	if value == "" {
		return append(errs, missingMsg)
	}
	if _, ok := ParseDate(value); !ok {
		return append(errs, invalidMsg)
	}
	return errs
}
