package models

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportRow is one record of an uploaded file, annotated by validation.
// Data preserves the file's original column headers; blank cells are nil.
// The confirm endpoint accepts rows in exactly this shape, as returned by
// the preview endpoint.
type ImportRow struct {
	RowNumber int                `json:"row_number"`
	Data      map[string]*string `json:"data"`
	IsValid   bool               `json:"is_valid"`
	Errors    []string           `json:"errors"`
}

// ImportPreview is the dry-run result of validating an uploaded file.
// No rows are persisted during preview.
type ImportPreview struct {
	Success     bool        `json:"success"`
	TotalRows   int         `json:"total_rows"`
	ValidRows   int         `json:"valid_rows"`
	InvalidRows int         `json:"invalid_rows"`
	Rows        []ImportRow `json:"rows"`
}

// ImportOutcome is the aggregate result of a confirm call. Errors are
// row-scoped messages; a failed row never aborts the batch.
type ImportOutcome struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, phone, date
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// LeadImportColumns returns the column definitions for lead import
func LeadImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "MPAN_MPR", Description: "Meter point reference (unique per tenant)", Required: true, Type: "string", Example: "1234567890123"},
		{Name: "Business_Name", Description: "Company name (this or Contact_Person is required)", Required: false, Type: "string", Example: "ABC Limited"},
		{Name: "Contact_Person", Description: "Primary contact (this or Business_Name is required)", Required: false, Type: "string", Example: "John Smith"},
		{Name: "Tel_Number", Description: "Contact telephone number", Required: true, Type: "phone", Example: "07700900000"},
		{Name: "Email", Description: "Contact email address", Required: false, Type: "string", Example: "john@abc.com"},
		{Name: "Start_Date", Description: "Contract start date", Required: true, Type: "date", Example: "2024-01-01"},
		{Name: "End_Date", Description: "Contract end date", Required: true, Type: "date", Example: "2024-12-31"},
	}
}

// LeadImportTemplate returns the template definition for lead import
func LeadImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "lead",
		Version: "1.0",
		Columns: LeadImportColumns(),
	}
}
