package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator produces order receipts; an interface so handlers can be tested
// with a stub.
type Generator interface {
	GenerateReceipt(data ReceiptData) (string, error)
}

type ReceiptGenerator struct {
	RootDir string
}

type ReceiptData struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	ProductName   string
	Quantity      int
	TotalCents    int64
	CreatedAt     time.Time
}

func NewReceiptGenerator(rootDir string) *ReceiptGenerator {
	return &ReceiptGenerator{RootDir: filepath.Clean(rootDir)}
}

// GenerateReceipt writes the PDF under RootDir/receipts and returns the
// absolute path.
func (g *ReceiptGenerator) GenerateReceipt(data ReceiptData) (string, error) {
	dir := filepath.Join(g.RootDir, "receipts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	target := filepath.Join(dir, fmt.Sprintf("receipt_%s.pdf", data.OrderNumber))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Receipt %s", data.OrderNumber), false)
	pdf.SetAuthor("WaveMedia", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "WaveMedia Order Receipt")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	line("Order:", data.OrderNumber)
	line("Date:", data.CreatedAt.Format("2006-01-02 15:04"))
	line("Customer:", data.CustomerName)
	line("Email:", data.CustomerEmail)
	pdf.Ln(4)
	line("Item:", data.ProductName)
	line("Quantity:", fmt.Sprintf("%d", data.Quantity))
	line("Total:", fmt.Sprintf("%.2f USD", float64(data.TotalCents)/100))

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Thank you for supporting WaveMedia.")

	if err := pdf.OutputFileAndClose(target); err != nil {
		return "", fmt.Errorf("write receipt pdf: %w", err)
	}
	return target, nil
}
