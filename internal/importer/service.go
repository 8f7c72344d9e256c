package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"crm-service/internal/models"
)

// LeadStore is the storage surface the import pipeline needs. The full lead
// repository satisfies it.
type LeadStore interface {
	ExistsByMPAN(tenantID, mpanMPR string) (bool, error)
	Create(tenantID string, lead *models.Lead) error
}

// Service runs the two-phase lead import: Preview validates an uploaded file
// without writing anything, Commit persists previously validated rows.
type Service struct {
	store LeadStore
}

// NewService creates an import service backed by the given lead store
func NewService(store LeadStore) *Service {
	return &Service{store: store}
}

// Preview parses and validates an uploaded file. It is a pure dry run: no
// rows are persisted and the store is never consulted. Returns
// ErrUnsupportedFileType, ErrEmptyFile, ErrMissingColumn or a *ParseError
// for file-level failures.
func (s *Service) Preview(filename string, r io.Reader) (*models.ImportPreview, error) {
	file, err := Parse(filename, r)
	if err != nil {
		return nil, err
	}

	if len(file.Rows) == 0 {
		return nil, ErrEmptyFile
	}

	validator, err := NewValidator(file)
	if err != nil {
		return nil, err
	}

	preview := &models.ImportPreview{
		Success:   true,
		TotalRows: len(file.Rows),
		Rows:      make([]models.ImportRow, 0, len(file.Rows)),
	}

	for _, row := range file.Rows {
		row.Errors = validator.ValidateRow(row)
		row.IsValid = len(row.Errors) == 0
		if row.IsValid {
			preview.ValidRows++
		} else {
			preview.InvalidRows++
		}
		preview.Rows = append(preview.Rows, row)
	}

	return preview, nil
}

// Commit inserts the valid rows of a previously previewed batch. Rows marked
// invalid are ignored. A row whose MPAN already exists for the tenant, in
// storage or earlier in the same batch, is counted as skipped. A row that
// fails to insert is reported in Errors; no failure aborts the batch.
func (s *Service) Commit(tenantID string, rows []models.ImportRow, createdBy *uuid.UUID) *models.ImportOutcome {
	outcome := &models.ImportOutcome{Errors: []string{}}
	seen := make(map[string]bool)

	for _, row := range rows {
		if !row.IsValid {
			continue
		}

		lead, err := leadFromRow(row, createdBy)
		if err != nil {
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("row %d: %v", row.RowNumber, err))
			continue
		}

		mpan := *lead.MPANMPR
		key := strings.ToLower(mpan)
		if seen[key] {
			outcome.Skipped++
			continue
		}

		exists, err := s.store.ExistsByMPAN(tenantID, mpan)
		if err != nil {
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("row %d: failed to check for existing lead: %v", row.RowNumber, err))
			continue
		}
		if exists {
			seen[key] = true
			outcome.Skipped++
			logrus.WithFields(logrus.Fields{
				"tenant_id": tenantID,
				"mpan_mpr":  mpan,
				"row":       row.RowNumber,
			}).Debug("Skipping duplicate lead during import")
			continue
		}

		lead.TenantID = tenantID
		if err := s.store.Create(tenantID, lead); err != nil {
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("row %d: failed to insert lead: %v", row.RowNumber, err))
			continue
		}

		seen[key] = true
		outcome.Inserted++
	}

	return outcome
}

// leadFromRow maps a validated row onto a new lead. Validation already ran
// during preview, but rows arrive back over the wire, so the hard
// requirements are re-checked.
func leadFromRow(row models.ImportRow, createdBy *uuid.UUID) (*models.Lead, error) {
	mpan := ResolveRowValue(row.Data, FieldMPANMPR)
	if mpan == "" {
		return nil, fmt.Errorf("MPAN_MPR is missing")
	}

	businessName := ResolveRowValue(row.Data, FieldBusinessName)
	contactPerson := ResolveRowValue(row.Data, FieldContactPerson)
	if businessName == "" && contactPerson == "" {
		return nil, fmt.Errorf("Business_Name or Contact_Person is missing")
	}

	title := businessName
	if title == "" {
		title = contactPerson
	}

	lead := &models.Lead{
		MPANMPR:      &mpan,
		Title:        "Opportunity - " + title,
		BusinessName: businessName,
		StageID:      models.DefaultStageID,
		Status:       models.LeadStatusOpen,
		CreatedBy:    createdBy,
	}

	if contactPerson != "" {
		lead.ContactPerson = &contactPerson
	}
	if tel := ResolveRowValue(row.Data, FieldTelNumber); tel != "" {
		lead.TelNumber = &tel
	}
	if email := ResolveRowValue(row.Data, FieldEmail); email != "" {
		lead.Email = &email
	}
	if v := ResolveRowValue(row.Data, FieldStartDate); v != "" {
		if t, ok := ParseDate(v); ok {
			lead.StartDate = &t
		} else {
			return nil, fmt.Errorf("Start_Date %q is not a valid date", v)
		}
	}
	if v := ResolveRowValue(row.Data, FieldEndDate); v != "" {
		if t, ok := ParseDate(v); ok {
			lead.EndDate = &t
		} else {
			return nil, fmt.Errorf("End_Date %q is not a valid date", v)
		}
	}

	return lead, nil
}
