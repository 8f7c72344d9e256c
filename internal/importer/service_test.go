package importer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"crm-service/internal/models"
)

type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) ExistsByMPAN(tenantID, mpanMPR string) (bool, error) {
	args := m.Called(tenantID, mpanMPR)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadStore) Create(tenantID string, lead *models.Lead) error {
	args := m.Called(tenantID, lead)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func importRow(num int, data map[string]*string, valid bool) models.ImportRow {
	return models.ImportRow{RowNumber: num, Data: data, IsValid: valid, Errors: []string{}}
}

func validRowData(mpan string) map[string]*string {
	return map[string]*string{
		"MPAN_MPR":      strPtr(mpan),
		"Business_Name": strPtr("ABC Limited"),
		"Tel_Number":    strPtr("07700900000"),
		"Start_Date":    strPtr("2024-01-01"),
		"End_Date":      strPtr("2024-12-31"),
	}
}

func TestPreviewValidFile(t *testing.T) {
	svc := NewService(new(MockLeadStore))

	csvData := "MPAN_MPR,Business_Name,Tel_Number,Start_Date,End_Date\n" +
		"1234567890123,ABC Limited,07700900000,2024-01-01,2024-12-31\n"

	preview, err := svc.Preview("leads.csv", strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.True(t, preview.Success)
	assert.Equal(t, 1, preview.TotalRows)
	assert.Equal(t, 1, preview.ValidRows)
	assert.Equal(t, 0, preview.InvalidRows)
	assert.Len(t, preview.Rows, 1)
	assert.True(t, preview.Rows[0].IsValid)
	assert.Empty(t, preview.Rows[0].Errors)
	assert.NotNil(t, preview.Rows[0].Errors)
}

func TestPreviewMixedFile(t *testing.T) {
	svc := NewService(new(MockLeadStore))

	csvData := "MPAN_MPR,Business_Name,Tel_Number,Start_Date,End_Date\n" +
		"1234567890123,ABC Limited,07700900000,2024-01-01,2024-12-31\n" +
		",No Mpan Ltd,07700900001,2024-01-01,2024-12-31\n" +
		"9876543210987,,,bad-date,2024-12-31\n"

	preview, err := svc.Preview("leads.csv", strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Equal(t, 3, preview.TotalRows)
	assert.Equal(t, 1, preview.ValidRows)
	assert.Equal(t, 2, preview.InvalidRows)

	assert.Equal(t, []string{MsgMPANRequired}, preview.Rows[1].Errors)
	assert.Equal(t, []string{MsgBusinessOrContact, MsgTelRequired, MsgStartDateInvalid}, preview.Rows[2].Errors)
}

func TestPreviewEmptyFile(t *testing.T) {
	svc := NewService(new(MockLeadStore))

	_, err := svc.Preview("leads.csv", strings.NewReader("MPAN_MPR,Business_Name\n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestPreviewMissingMPANColumn(t *testing.T) {
	svc := NewService(new(MockLeadStore))

	csvData := "Business_Name,Tel_Number\nABC Limited,07700900000\n"
	_, err := svc.Preview("leads.csv", strings.NewReader(csvData))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestPreviewNeverTouchesStore(t *testing.T) {
	store := new(MockLeadStore)
	svc := NewService(store)

	csvData := "MPAN_MPR,Business_Name,Tel_Number,Start_Date,End_Date\n" +
		"1234567890123,ABC Limited,07700900000,2024-01-01,2024-12-31\n"

	_, err := svc.Preview("leads.csv", strings.NewReader(csvData))
	assert.NoError(t, err)
	store.AssertNotCalled(t, "ExistsByMPAN", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommitInsertsValidRows(t *testing.T) {
	store := new(MockLeadStore)
	store.On("ExistsByMPAN", "tenant1", "1234567890123").Return(false, nil)
	store.On("Create", "tenant1", mock.AnythingOfType("*models.Lead")).Return(nil)

	svc := NewService(store)
	outcome := svc.Commit("tenant1", []models.ImportRow{
		importRow(1, validRowData("1234567890123"), true),
	}, nil)

	assert.Equal(t, 1, outcome.Inserted)
	assert.Equal(t, 0, outcome.Skipped)
	assert.Empty(t, outcome.Errors)

	created := store.Calls[1].Arguments.Get(1).(*models.Lead)
	assert.NotNil(t, created.MPANMPR)
	assert.Equal(t, "1234567890123", *created.MPANMPR)
	assert.Equal(t, "tenant1", created.TenantID)
	assert.Equal(t, "ABC Limited", created.BusinessName)
	assert.Equal(t, "Opportunity - ABC Limited", created.Title)
	assert.Equal(t, models.DefaultStageID, created.StageID)
	assert.Equal(t, models.LeadStatusOpen, created.Status)
	assert.NotNil(t, created.StartDate)
	assert.NotNil(t, created.EndDate)
}

func TestCommitSkipsExistingMPAN(t *testing.T) {
	store := new(MockLeadStore)
	store.On("ExistsByMPAN", "tenant1", "1234567890123").Return(true, nil)

	svc := NewService(store)
	outcome := svc.Commit("tenant1", []models.ImportRow{
		importRow(1, validRowData("1234567890123"), true),
	}, nil)

	assert.Equal(t, 0, outcome.Inserted)
	assert.Equal(t, 1, outcome.Skipped)
	assert.Empty(t, outcome.Errors)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommitIgnoresInvalidRows(t *testing.T) {
	store := new(MockLeadStore)
	svc := NewService(store)

	outcome := svc.Commit("tenant1", []models.ImportRow{
		importRow(1, map[string]*string{"Business_Name": strPtr("No MPAN Ltd")}, false),
	}, nil)

	assert.Equal(t, 0, outcome.Inserted)
	assert.Equal(t, 0, outcome.Skipped)
	assert.Empty(t, outcome.Errors)
	store.AssertNotCalled(t, "ExistsByMPAN", mock.Anything, mock.Anything)
}

func TestCommitSkipsDuplicateWithinBatch(t *testing.T) {
	store := new(MockLeadStore)
	store.On("ExistsByMPAN", "tenant1", "1234567890123").Return(false, nil).Once()
	store.On("Create", "tenant1", mock.AnythingOfType("*models.Lead")).Return(nil).Once()

	svc := NewService(store)
	outcome := svc.Commit("tenant1", []models.ImportRow{
		importRow(1, validRowData("1234567890123"), true),
		importRow(2, validRowData("1234567890123"), true),
	}, nil)

	assert.Equal(t, 1, outcome.Inserted)
	assert.Equal(t, 1, outcome.Skipped)
	assert.Empty(t, outcome.Errors)
	store.AssertExpectations(t)
}

func TestCommitInsertFailureDoesNotAbortBatch(t *testing.T) {
	store := new(MockLeadStore)
	store.On("ExistsByMPAN", "tenant1", mock.Anything).Return(false, nil)
	store.On("Create", "tenant1", mock.MatchedBy(func(l *models.Lead) bool {
		return l.MPANMPR != nil && *l.MPANMPR == "1111111111111"
	})).Return(fmt.Errorf("connection reset"))
	store.On("Create", "tenant1", mock.MatchedBy(func(l *models.Lead) bool {
		return l.MPANMPR != nil && *l.MPANMPR == "2222222222222"
	})).Return(nil)

	svc := NewService(store)
	outcome := svc.Commit("tenant1", []models.ImportRow{
		importRow(1, validRowData("1111111111111"), true),
		importRow(2, validRowData("2222222222222"), true),
	}, nil)

	assert.Equal(t, 1, outcome.Inserted)
	assert.Equal(t, 0, outcome.Skipped)
	assert.Len(t, outcome.Errors, 1)
	assert.Contains(t, outcome.Errors[0], "row 1")
}

func TestCommitMixedBatch(t *testing.T) {
	store := new(MockLeadStore)
	store.On("ExistsByMPAN", "tenant1", "1111111111111").Return(false, nil)
	store.On("ExistsByMPAN", "tenant1", "2222222222222").Return(true, nil)
	store.On("Create", "tenant1", mock.AnythingOfType("*models.Lead")).Return(nil)

	svc := NewService(store)
	outcome := svc.Commit("tenant1", []models.ImportRow{
		importRow(1, validRowData("1111111111111"), true),
		importRow(2, validRowData("2222222222222"), true),
		importRow(3, map[string]*string{"MPAN_MPR": nil}, false),
	}, nil)

	assert.Equal(t, 1, outcome.Inserted)
	assert.Equal(t, 1, outcome.Skipped)
	assert.Empty(t, outcome.Errors)
}
