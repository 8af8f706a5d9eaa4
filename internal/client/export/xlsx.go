// Package export writes a document's extracted fields to spreadsheet files.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/docproc/internal/client/models"
)

const (
	FieldsSheet  = "Extracted Data"
	SummarySheet = "Document"
)

// WriteXLSX saves doc to path with two sheets: a summary of the document and
// one row per extracted field in backend order.
func WriteXLSX(path string, doc models.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", FieldsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(FieldsSheet, "A1", &[]any{"Key", "Value", "Validated"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, fld := range doc.ExtractedData {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{fld.Key, fld.Value, yesNo(fld.IsValidated)}
		if err := f.SetSheetRow(FieldsSheet, cell, &row); err != nil {
			return fmt.Errorf("write field %d: %w", fld.ID, err)
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]any{
		{"ID", strconv.FormatInt(doc.ID, 10)},
		{"Name", doc.Name()},
		{"Type", doc.DisplayType()},
		{"Status", string(doc.Status)},
		{"Uploaded", formatTime(doc.UploadedAt)},
		{"Fields", strconv.Itoa(len(doc.ExtractedData))},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
