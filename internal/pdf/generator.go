package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/contract-planner/internal/costs"
	"github.com/nurpe/contract-planner/internal/model"
	"github.com/nurpe/contract-planner/internal/money"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a one page contract summary: parties, balance, totals and
// the subtotal of every city.
func (g *Generator) Generate(doc *model.Document, generatedAt time.Time) ([]byte, error) {
	balance := costs.ComputeBalance(doc)
	breakdown := costs.Aggregate(doc)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("Resumo do Contrato"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Contrato %s, gerado em %s",
		safeValue(doc.PhysicalContract), generatedAt.Format("02.01.2006"))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addPartyBlock(pdf, g.fontName, tr, "Contratado", doc.ContractorName, doc.ContractorTaxID, doc.ContractorCity)
	pdf.Ln(2)
	addPartyBlock(pdf, g.fontName, tr, "Cliente", doc.ClientName, doc.ClientTaxID, doc.ClientCity)
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Saldo"), "", 1, "L", false, 0, "")
	widths := []float64{110, 70}
	balanceRows := [][2]string{
		{"Valor do Contrato", money.FormatCurrency(balance.ContractValue)},
		{"Valor Aditivo", money.FormatCurrency(balance.AddendumValue)},
		{"Valor Total do Contrato", money.FormatCurrency(balance.Total)},
		{"Valor Utilizado", money.FormatCurrency(balance.AmountUsed)},
		{"Saldo Disponível", money.FormatCurrency(balance.Available)},
	}
	for _, row := range balanceRows {
		drawTableRow(pdf, g.fontName, tr, row[:], widths, false)
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Totais dos Serviços"), "", 1, "L", false, 0, "")
	totalsRows := [][2]string{
		{"Total OPEX", money.FormatCurrency(breakdown.Totals.OPEX)},
		{"Total CAPEX", money.FormatCurrency(breakdown.Totals.CAPEX)},
		{"Total Geral (OPEX + CAPEX)", money.FormatCurrency(breakdown.Totals.Sum())},
	}
	for _, row := range totalsRows {
		drawTableRow(pdf, g.fontName, tr, row[:], widths, false)
	}
	pdf.Ln(4)

	if len(breakdown.Cities) > 0 {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, tr("Por Cidade"), "", 1, "L", false, 0, "")
		cityWidths := []float64{60, 30, 45, 45}
		drawTableRow(pdf, g.fontName, tr, []string{"Cidade", "Regional", "OPEX", "CAPEX"}, cityWidths, true)
		for _, city := range breakdown.Cities {
			drawTableRow(pdf, g.fontName, tr, []string{
				city.City,
				string(city.Regional),
				money.FormatCurrency(city.Totals.OPEX),
				money.FormatCurrency(city.Totals.CAPEX),
			}, cityWidths, false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addPartyBlock(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, title, name, taxID, city string) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		safeValue(name),
		fmt.Sprintf("CNPJ: %s", safeValue(taxID)),
		fmt.Sprintf("Município: %s", safeValue(city)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 && !header {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
