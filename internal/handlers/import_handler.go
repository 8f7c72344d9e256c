package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"crm-service/internal/events"
	"crm-service/internal/importer"
	"crm-service/internal/middleware"
	"crm-service/internal/models"
)

type ImportHandler struct {
	svc       *importer.Service
	publisher *events.Publisher
}

func NewImportHandler(svc *importer.Service, publisher *events.Publisher) *ImportHandler {
	return &ImportHandler{
		svc:       svc,
		publisher: publisher,
	}
}

// PreviewImport validates an uploaded leads file without persisting anything
// POST /api/crm/leads/import/preview
func (h *ImportHandler) PreviewImport(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeNoFile, "No file provided. Attach the upload as form field 'file'."))
		return
	}
	defer file.Close()

	preview, err := h.svc.Preview(header.Filename, file)
	if err != nil {
		h.respondFileError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// ConfirmImport persists the valid rows of a previously previewed batch.
// The body is the rows array from the preview response, unwrapped.
// POST /api/crm/leads/import/confirm
func (h *ImportHandler) ConfirmImport(c *gin.Context) {
	var rows []models.ImportRow
	if err := c.ShouldBindJSON(&rows); err != nil || len(rows) == 0 {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeBadRequest, "Expected a JSON array"))
		return
	}

	tenantID := middleware.GetTenantID(c)
	createdBy := middleware.GetUserIDPtr(c)

	outcome := h.svc.Commit(tenantID, rows, createdBy)

	logrus.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"inserted":  outcome.Inserted,
		"skipped":   outcome.Skipped,
		"failed":    len(outcome.Errors),
	}).Info("Lead import committed")

	h.publisher.PublishLeadImported(tenantID, outcome.Inserted, outcome.Skipped, len(outcome.Errors))

	c.JSON(http.StatusOK, outcome)
}

func (h *ImportHandler) respondFileError(c *gin.Context, err error) {
	var parseErr *importer.ParseError

	switch {
	case errors.Is(err, importer.ErrUnsupportedFileType):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeUnsupportedFileType, err.Error()))
	case errors.Is(err, importer.ErrEmptyFile):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeEmptyFile, err.Error()))
	case errors.Is(err, importer.ErrMissingColumn):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeMissingColumn, "MPAN_MPR column is missing from the file"))
	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(
			middleware.ErrCodeParseError, err.Error()))
	default:
		logrus.WithError(err).Error("Import preview failed")
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(
			middleware.ErrCodeInternalServer, "Failed to process file"))
	}
}

// GetImportTemplate returns the import template definition or file
// GET /api/crm/leads/import/template
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	template := models.LeadImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template)
	case "xlsx":
		h.generateXLSXTemplate(c, template)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

// generateCSVTemplate generates and downloads a CSV template (headers only)
func (h *ImportHandler) generateCSVTemplate(c *gin.Context, template models.ImportTemplate) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=lead_import_template.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	writer.Write(headers)
}

// generateXLSXTemplate generates and downloads an Excel template
func (h *ImportHandler) generateXLSXTemplate(c *gin.Context, template models.ImportTemplate) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leads"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Lead Import Instructions")
	f.SetCellValue("Instructions", "A3", "MPAN_MPR must be unique: duplicates of existing leads are skipped on import.")
	f.SetCellValue("Instructions", "A4", "Either Business_Name or Contact_Person must be filled for every row.")
	f.SetCellValue("Instructions", "A5", "Dates accept YYYY-MM-DD or DD/MM/YYYY.")

	f.SetCellValue("Instructions", "A7", "Column Definitions:")
	f.SetCellValue("Instructions", "A8", "Column")
	f.SetCellValue("Instructions", "B8", "Description")
	f.SetCellValue("Instructions", "C8", "Required")
	f.SetCellValue("Instructions", "D8", "Example")

	for i, col := range template.Columns {
		row := 9 + i
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), col.Required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Example)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=lead_import_template.xlsx")

	if err := f.Write(c.Writer); err != nil {
		logrus.WithError(err).Error("Failed to write template file")
	}
}
