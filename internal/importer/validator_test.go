package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseCSVForTest(t *testing.T, csvData string) *ParsedFile {
	t.Helper()
	file, err := Parse("leads.csv", strings.NewReader(csvData))
	assert.NoError(t, err)
	return file
}

func TestValidateRowAllValid(t *testing.T) {
	file := parseCSVForTest(t,
		"MPAN_MPR,Business_Name,Contact_Person,Tel_Number,Start_Date,End_Date\n"+
			"1234567890123,ABC Limited,John Smith,07700900000,2024-01-01,2024-12-31\n")

	v, err := NewValidator(file)
	assert.NoError(t, err)

	errs := v.ValidateRow(file.Rows[0])
	assert.Empty(t, errs)
}

func TestValidateRowAccumulatesAllErrors(t *testing.T) {
	file := parseCSVForTest(t,
		"MPAN_MPR,Business_Name,Contact_Person,Tel_Number,Start_Date,End_Date\n"+
			",,,,,\n")

	v, err := NewValidator(file)
	assert.NoError(t, err)

	errs := v.ValidateRow(file.Rows[0])
	assert.Equal(t, []string{
		MsgMPANRequired,
		MsgBusinessOrContact,
		MsgTelRequired,
		MsgStartDateRequired,
		MsgEndDateRequired,
	}, errs)
}

func TestValidateRowDuplicateMPANWithinFile(t *testing.T) {
	file := parseCSVForTest(t,
		"MPAN_MPR,Business_Name,Tel_Number,Start_Date,End_Date\n"+
			"1234567890123,ABC Limited,07700900000,2024-01-01,2024-12-31\n"+
			"1234567890123,Other Corp,07700900001,2024-02-01,2024-12-31\n"+
			"9876543210987,Third Ltd,07700900002,2024-03-01,2024-12-31\n")

	v, err := NewValidator(file)
	assert.NoError(t, err)

	// both occurrences are flagged, not just the second
	assert.Contains(t, v.ValidateRow(file.Rows[0]), MsgMPANDuplicate)
	assert.Contains(t, v.ValidateRow(file.Rows[1]), MsgMPANDuplicate)
	assert.Empty(t, v.ValidateRow(file.Rows[2]))
}

func TestValidateRowBusinessNameOrContactPerson(t *testing.T) {
	file := parseCSVForTest(t,
		"MPAN_MPR,Business_Name,Contact_Person,Tel_Number,Start_Date,End_Date\n"+
			"1111111111111,ABC Limited,,07700900000,2024-01-01,2024-12-31\n"+
			"2222222222222,,John Smith,07700900000,2024-01-01,2024-12-31\n"+
			"3333333333333,,,07700900000,2024-01-01,2024-12-31\n")

	v, err := NewValidator(file)
	assert.NoError(t, err)

	assert.Empty(t, v.ValidateRow(file.Rows[0]))
	assert.Empty(t, v.ValidateRow(file.Rows[1]))
	assert.Equal(t, []string{MsgBusinessOrContact}, v.ValidateRow(file.Rows[2]))
}

func TestValidateRowInvalidDates(t *testing.T) {
	file := parseCSVForTest(t,
		"MPAN_MPR,Business_Name,Tel_Number,Start_Date,End_Date\n"+
			"1234567890123,ABC Limited,07700900000,not-a-date,soon\n")

	v, err := NewValidator(file)
	assert.NoError(t, err)

	errs := v.ValidateRow(file.Rows[0])
	assert.Equal(t, []string{MsgStartDateInvalid, MsgEndDateInvalid}, errs)
}

func TestValidateRowWhitespaceOnlyIsEmpty(t *testing.T) {
	file := parseCSVForTest(t,
		"MPAN_MPR,Business_Name,Tel_Number,Start_Date,End_Date\n"+
			"   ,ABC Limited,07700900000,2024-01-01,2024-12-31\n")

	v, err := NewValidator(file)
	assert.NoError(t, err)

	assert.Contains(t, v.ValidateRow(file.Rows[0]), MsgMPANRequired)
}

func TestNewValidatorMissingMPANColumn(t *testing.T) {
	file := parseCSVForTest(t,
		"Business_Name,Tel_Number\nABC Limited,07700900000\n")

	_, err := NewValidator(file)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseDateFormats(t *testing.T) {
	valid := []string{
		"2024-01-15",
		"15/01/2024",
		"15-01-2024",
		"2024-01-15 10:30:00",
		"2024-01-15T10:30:00",
	}
	for _, v := range valid {
		_, ok := ParseDate(v)
		assert.True(t, ok, "expected %q to parse", v)
	}

	invalid := []string{"", "not-a-date", "2024-13-45", "tomorrow"}
	for _, v := range invalid {
		_, ok := ParseDate(v)
		assert.False(t, ok, "expected %q to fail", v)
	}
}
