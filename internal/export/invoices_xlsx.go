// Package export renders invoices as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

// InvoiceSheet is the name of the worksheet written by WriteInvoicesXLSX.
const InvoiceSheet = "Invoices"

const dateLayout = "2006-01-02"

var invoiceHeader = []any{
	"Invoice Number", "Date", "Due Date", "Status", "Work Code", "Client", "Company",
	"Client Email", "Service Type", "Hours Worked", "Rate Per Hour", "Amount", "Payment Terms", "Materials",
}

// WriteInvoicesXLSX writes one row per invoice below a bold header row.
func WriteInvoicesXLSX(invoices []domain.Invoice, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InvoiceSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(InvoiceSheet, "A1", &invoiceHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(invoiceHeader))
	if err := f.SetCellStyle(InvoiceSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(InvoiceSheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	for i, inv := range invoices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		hours, _ := inv.Details.HoursWorked.Float64()
		rate, _ := inv.Details.RatePerHour.Float64()
		amount, _ := inv.Amount.Float64()
		row := []any{
			inv.InvoiceNumber,
			inv.Date.Format(dateLayout),
			inv.DueDate.Format(dateLayout),
			string(inv.Status),
			inv.WorkCode,
			inv.ClientSnapshot.Name,
			inv.ClientSnapshot.Company,
			inv.ClientSnapshot.Email,
			inv.ServiceType,
			hours,
			rate,
			amount,
			string(inv.PaymentTerms),
			inv.Materials,
		}
		if err := f.SetSheetRow(InvoiceSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write invoice %s: %w", inv.InvoiceNumber, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
