// Package receipt renders rent receipts as PDF documents. Rendering is a
// pure projection of a (rent, tenant, unit) triple onto a fixed A4 layout;
// no state is read or written beyond the arguments.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/propertyvision/api/internal/repository"
)

const companyName = "Property Vision Pvt Ltd."

// Filename returns the attachment filename for a receipt download:
// Receipt-<month>-<tenantName>.pdf.
func Filename(rr *repository.Rent, t *repository.Tenant) string {
	return fmt.Sprintf("Receipt-%s-%s.pdf", rr.Month, t.FullName)
}

// Render produces the PDF bytes for a paid rent row. The unit may be nil
// when the referenced unit was deleted after payment; its fields render as
// N/A. Callers must enforce the Paid precondition before rendering.
func Render(rr *repository.Rent, t *repository.Tenant, u *repository.Unit) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 20, 18)
	pdf.AddPage()

	// Header
	pdf.SetTextColor(68, 68, 68)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(100, 10, "RENT RECEIPT")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, companyName, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, "Generated on: "+time.Now().Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	pdf.Ln(4)
	drawRule(pdf)
	pdf.Ln(6)

	// Receipt metadata and tenant details, two columns.
	paidOn := time.Now()
	if rr.PaidOn != nil {
		paidOn = *rr.PaidOn
	}
	leftY := pdf.GetY()
	pdf.SetFont("Helvetica", "", 10)
	labelValue(pdf, "Receipt Number:", receiptNumber(rr.ID))
	labelValue(pdf, "Payment Date:", paidOn.Format("02 Jan 2006"))
	labelValue(pdf, "Payment Status:", rr.PaymentStatus)

	pdf.SetY(leftY)
	pdf.SetX(120)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Tenant Details:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	rightLine(pdf, t.FullName)
	unitNumber := "N/A"
	if u != nil {
		unitNumber = u.UnitNumber
	}
	rightLine(pdf, "Unit: "+unitNumber)
	rightLine(pdf, "Phone: "+orNA(t.MobileNumber))
	pdf.Ln(10)

	// Line-item table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(80, 7, "Description", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, "Month", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Amount", "", 1, "R", false, 0, "")
	drawRule(pdf)

	pdf.SetFont("Helvetica", "", 10)
	tableRow(pdf, "House Rent", rr.Month, rr.RentAmount)
	if rr.MaintenanceAmount > 0 {
		tableRow(pdf, "Maintenance", rr.Month, rr.MaintenanceAmount)
	}
	drawRule(pdf)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 8, "Total Paid:", "", 0, "R", false, 0, "")
	pdf.CellFormat(0, 8, formatCurrency(rr.TotalAmount), "", 1, "R", false, 0, "")

	// Footer
	pdf.SetY(-40)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Thank you for your timely payment.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func receiptNumber(id uint64) string {
	return strings.ToUpper(fmt.Sprintf("%06x", id))
}

func labelValue(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(35, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, value, "", 1, "L", false, 0, "")
}

func rightLine(pdf *gofpdf.Fpdf, s string) {
	pdf.SetX(120)
	pdf.CellFormat(0, 6, s, "", 1, "L", false, 0, "")
}

func tableRow(pdf *gofpdf.Fpdf, desc, month string, amount float64) {
	pdf.CellFormat(80, 7, desc, "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, month, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, formatCurrency(amount), "", 1, "R", false, 0, "")
}

func drawRule(pdf *gofpdf.Fpdf) {
	pdf.SetDrawColor(170, 170, 170)
	x, y := pdf.GetXY()
	pdf.Line(18, y, 192, y)
	pdf.SetXY(x, y+2)
}

func formatCurrency(amount float64) string {
	return fmt.Sprintf("INR %.2f", amount)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
