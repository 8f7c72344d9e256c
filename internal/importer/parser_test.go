package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	csvData := "MPAN_MPR,Business_Name,Contact_Person,Tel_Number,Email,Start_Date,End_Date\n" +
		"1234567890123,ABC Limited,John Smith,07700900000,john@abc.com,2024-01-01,2024-12-31\n" +
		"9876543210987,XYZ Corp,,07700900001,,2024-02-01,2025-01-31\n"

	file, err := Parse("leads.csv", strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Len(t, file.Rows, 2)

	assert.Equal(t, 1, file.Rows[0].RowNumber)
	assert.Equal(t, 2, file.Rows[1].RowNumber)

	assert.Equal(t, "1234567890123", file.Value(file.Rows[0], FieldMPANMPR))
	assert.Equal(t, "ABC Limited", file.Value(file.Rows[0], FieldBusinessName))

	// blank cells come through as nil
	assert.Nil(t, file.Rows[1].Data["Contact_Person"])
	assert.Equal(t, "", file.Value(file.Rows[1], FieldContactPerson))
}

func TestParseCSVHeaderAliases(t *testing.T) {
	tests := []struct {
		name   string
		header string
		field  string
	}{
		{"exact", "MPAN_MPR", FieldMPANMPR},
		{"spaced", "MPAN MPR", FieldMPANMPR},
		{"slashed", "mpan/mpr", FieldMPANMPR},
		{"short", "MPAN", FieldMPANMPR},
		{"mpr only", "mpr", FieldMPANMPR},
		{"company name", "Company Name", FieldBusinessName},
		{"phone", "Phone", FieldTelNumber},
		{"contract start", "Contract Start", FieldStartDate},
		{"expiry date", "Expiry Date", FieldEndDate},
		{"required marker", "MPAN_MPR *", FieldMPANMPR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csvData := tt.header + "\nvalue1\n"
			file, err := Parse("leads.csv", strings.NewReader(csvData))
			assert.NoError(t, err)

			_, ok := file.Resolve(tt.field)
			assert.True(t, ok, "header %q should resolve to %s", tt.header, tt.field)
			assert.Equal(t, "value1", file.Value(file.Rows[0], tt.field))
		})
	}
}

func TestParseCSVShortRecord(t *testing.T) {
	csvData := "MPAN_MPR,Business_Name,Tel_Number\n1234567890123,ABC Limited\n"

	file, err := Parse("leads.csv", strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Len(t, file.Rows, 1)
	assert.Nil(t, file.Rows[0].Data["Tel_Number"])
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	assert.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"MPAN_MPR", "Business_Name", "Tel_Number", "Start_Date", "End_Date"}))
	assert.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"1234567890123", "ABC Limited", "07700900000", "2024-01-01", "2024-12-31"}))

	var buf bytes.Buffer
	assert.NoError(t, f.Write(&buf))

	file, err := Parse("leads.xlsx", bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	assert.Len(t, file.Rows, 1)
	assert.Equal(t, 1, file.Rows[0].RowNumber)
	assert.Equal(t, "1234567890123", file.Value(file.Rows[0], FieldMPANMPR))
	assert.Equal(t, "ABC Limited", file.Value(file.Rows[0], FieldBusinessName))
}

func TestParseUnsupportedFileType(t *testing.T) {
	_, err := Parse("leads.pdf", strings.NewReader("whatever"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = Parse("leads", strings.NewReader("whatever"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestParseCorruptXLSX(t *testing.T) {
	_, err := Parse("leads.xlsx", strings.NewReader("this is not a spreadsheet"))

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestParseCSVNoDataRows(t *testing.T) {
	file, err := Parse("leads.csv", strings.NewReader("MPAN_MPR,Business_Name\n"))
	assert.NoError(t, err)
	assert.Empty(t, file.Rows)
}
