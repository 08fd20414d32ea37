package receipt

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/rogerioboitto/casa-backend/internal/domain/charging"
)

// PDFGenerator implements charging.ReceiptGenerator with gofpdf. The output
// is attached to the provider charge so tenants get the itemized breakdown
// alongside the boleto. The core fonts only cover latin-1, so text is
// transliterated before rendering.
type PDFGenerator struct{}

var _ charging.ReceiptGenerator = (*PDFGenerator)(nil)

// NewPDFGenerator creates a receipt renderer
func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Generate renders the monthly charge receipt as a PDF
func (g *PDFGenerator) Generate(data charging.ReceiptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Demonstrativo de Cobrança - %s", data.Month.DisplayPT())))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Inquilino: %s", data.TenantName)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Imóvel: %s", data.PropertyAddress)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Vencimento: %s", data.DueDate.Format("02/01/2006"))))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 7, tr("Item"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, tr("Valor (R$)"), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 11)
	g.line(pdf, tr, "Aluguel", data.Breakdown.Rent.StringFixed(2))
	if data.Breakdown.Energy.Sign() > 0 {
		g.line(pdf, tr, "Energia", data.Breakdown.Energy.StringFixed(2))
	}
	if data.Breakdown.Water.Sign() > 0 {
		g.line(pdf, tr, "Água", data.Breakdown.Water.StringFixed(2))
	}

	pdf.SetFont("Arial", "B", 11)
	g.line(pdf, tr, "Total", data.Breakdown.Total().StringFixed(2))

	if data.Discount.Sign() > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		limit := data.DueDate.AddDate(0, 0, -1).Format("02/01/2006")
		pdf.Cell(0, 6, tr(fmt.Sprintf("Desconto de R$ %s para pagamento até %s.", data.Discount.StringFixed(2), limit)))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *PDFGenerator) line(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.CellFormat(120, 7, tr(label), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, value, "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
}
