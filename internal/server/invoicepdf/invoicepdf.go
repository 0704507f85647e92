// Package invoicepdf renders invoices to PDF. The layout is deterministic:
// rendering the same invoice twice yields byte-identical output, so archived
// copies can be compared against fresh renders.
package invoicepdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/noverif/noverif/internal/metrics"
	"github.com/noverif/noverif/internal/server/models"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0

	colDescription = 95.0
	colQuantity    = 25.0
	colPrice       = 30.0
	colAmount      = 30.0
)

const dateLayout = "Jan 2, 2006"

// MaskAccountNumber hides all but the last four characters of an account
// number. Numbers of four characters or fewer are returned unmasked.
func MaskAccountNumber(accountNumber string) string {
	visible := 4
	if len(accountNumber) < visible {
		visible = len(accountNumber)
	}
	masked := len(accountNumber) - visible
	return strings.Repeat("•", masked) + accountNumber[masked:]
}

// Render produces the invoice PDF. bank, when non-nil, adds an ACH
// remittance block with the account number masked; it is the receiving
// account from the owner's completed virtual-bank application.
func Render(inv *models.Invoice, bank *models.BankDetails) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; tr maps UTF-8 input (client names, the •
	// mask) into it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	// Pin the document metadata and object ordering so output depends
	// only on the invoice (font objects are otherwise emitted in map
	// iteration order).
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(inv.IssueDate)
	pdf.SetModificationDate(inv.IssueDate)
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	writeHeader(pdf, inv)
	writeBillTo(pdf, tr, inv)
	writeItems(pdf, tr, inv)
	writeTotals(pdf, inv)

	if inv.Notes != "" {
		pdf.Ln(lineHeight)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, lineHeight, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, lineHeight-1, tr(inv.Notes), "", "L", false)
	}

	if bank != nil {
		writeRemittance(pdf, tr, bank)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output error: %w", err)
	}

	metrics.RecordInvoiceRendered()
	return buf.Bytes(), nil
}

func writeHeader(pdf *fpdf.Fpdf, inv *models.Invoice) {
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, lineHeight, "Invoice #: "+inv.InvoiceNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, "Issue date: "+inv.IssueDate.Format(dateLayout), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, "Due date: "+inv.DueDate.Format(dateLayout), "", 1, "L", false, 0, "")
	pdf.Ln(lineHeight)
}

func writeBillTo(pdf *fpdf.Fpdf, tr func(string) string, inv *models.Invoice) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, lineHeight, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, lineHeight, tr(inv.ClientName), "", 1, "L", false, 0, "")
	if inv.ClientEmail != "" {
		pdf.CellFormat(0, lineHeight, tr(inv.ClientEmail), "", 1, "L", false, 0, "")
	}
	if inv.ClientAddress != "" {
		pdf.MultiCell(0, lineHeight-1, tr(inv.ClientAddress), "", "L", false)
	}
	pdf.Ln(lineHeight)
}

func writeItems(pdf *fpdf.Fpdf, tr func(string) string, inv *models.Invoice) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(colDescription, lineHeight+1, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colQuantity, lineHeight+1, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colPrice, lineHeight+1, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colAmount, lineHeight+1, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(colDescription, lineHeight+1, tr(item.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQuantity, lineHeight+1, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colPrice, lineHeight+1, "$"+item.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colAmount, lineHeight+1, "$"+item.Amount().StringFixed(2), "1", 1, "R", false, 0, "")
	}
}

func writeTotals(pdf *fpdf.Fpdf, inv *models.Invoice) {
	labelWidth := colDescription + colQuantity
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(labelWidth, lineHeight, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(colPrice, lineHeight, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, lineHeight, "$"+inv.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.CellFormat(labelWidth, lineHeight, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(colPrice, lineHeight, "Tax", "", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, lineHeight, "$"+inv.Tax.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelWidth, lineHeight+2, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(colPrice, lineHeight+2, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, lineHeight+2, "$"+inv.Total.StringFixed(2), "1", 1, "R", false, 0, "")
}

func writeRemittance(pdf *fpdf.Fpdf, tr func(string) string, bank *models.BankDetails) {
	pdf.Ln(lineHeight)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, lineHeight, "Pay by ACH transfer", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, lineHeight, tr("Bank: "+bank.BankName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr("Account owner: "+bank.AccountOwner), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr("Account ("+string(bank.AccountType)+"): "+MaskAccountNumber(bank.AccountNumber)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, "Routing: "+bank.RoutingNumber, "", 1, "L", false, 0, "")
	if bank.SwiftCode != "" {
		pdf.CellFormat(0, lineHeight, "SWIFT: "+bank.SwiftCode, "", 1, "L", false, 0, "")
	}
}
