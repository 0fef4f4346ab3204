package report

import (
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/nurpe/contract-planner/internal/costs"
	"github.com/nurpe/contract-planner/internal/model"
)

type calculationRow struct {
	City       string  `csv:"Cidade"`
	Regional   string  `csv:"Regional"`
	Service    string  `csv:"Serviço"`
	Quantity   float64 `csv:"Quantidade"`
	OpexPrice  float64 `csv:"Preço OPEX"`
	OpexValue  float64 `csv:"Valor OPEX"`
	CapexPrice float64 `csv:"Preço CAPEX"`
	CapexValue float64 `csv:"Valor CAPEX"`
}

// CalculationCSV writes the detailed calculation lines as CSV, with the same
// columns and filtering as the workbook tab.
func CalculationCSV(doc *model.Document) ([]byte, error) {
	lines := costs.Aggregate(doc).Billable()
	rows := make([]calculationRow, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, calculationRow{
			City:       line.City,
			Regional:   string(line.Regional),
			Service:    line.Service,
			Quantity:   line.Quantity,
			OpexPrice:  line.OpexPrice,
			OpexValue:  line.OpexValue,
			CapexPrice: line.CapexPrice,
			CapexValue: line.CapexValue,
		})
	}

	content, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("marshal calculation csv: %w", err)
	}
	return content, nil
}
