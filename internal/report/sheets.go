package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nurpe/contract-planner/internal/costs"
	"github.com/nurpe/contract-planner/internal/model"
)

const maxSheetNameLen = 31

const (
	SheetSummary     = "Resumo Executivo"
	SheetCalculation = "Cálculos Detalhados"
	SheetDetails     = "Detalhes Contrato"
	SheetCities      = "Cidades"
	SheetQuantities  = "Quantidades"
)

// Sheet is one tab of the workbook as rows of cells.
type Sheet struct {
	Name string
	Rows [][]any
}

var calculationHeader = []any{
	"Cidade", "Regional", "Serviço", "Quantidade",
	"Preço OPEX", "Valor OPEX", "Preço CAPEX", "Valor CAPEX",
}

// BuildSheets projects the document into the workbook tabs. It only reads doc.
func BuildSheets(doc *model.Document) []Sheet {
	breakdown := costs.Aggregate(doc)

	sheets := []Sheet{
		summarySheet(costs.ComputeBalance(doc), breakdown.Totals),
		calculationSheet(breakdown),
		detailsSheet(doc),
		citiesSheet(doc),
		quantitiesSheet(doc),
	}
	for _, key := range model.ConfigKeys {
		sheets = append(sheets, configSheet(doc, key))
	}

	used := make(map[string]struct{}, len(sheets))
	for i := range sheets {
		sheets[i].Name = uniqueSheetName(SanitizeSheetName(sheets[i].Name), used)
		used[strings.ToLower(sheets[i].Name)] = struct{}{}
	}
	return sheets
}

func summarySheet(balance costs.Balance, totals costs.Totals) Sheet {
	return Sheet{
		Name: SheetSummary,
		Rows: [][]any{
			{"Valor do Contrato", balance.ContractValue},
			{"Valor Aditivo", balance.AddendumValue},
			{"Valor Total do Contrato", balance.Total},
			{"Valor Utilizado", balance.AmountUsed},
			{"Saldo Disponível", balance.Available},
			{"Total OPEX", totals.OPEX},
			{"Total CAPEX", totals.CAPEX},
			{"Total Geral (OPEX + CAPEX)", totals.Sum()},
		},
	}
}

func calculationSheet(breakdown costs.Breakdown) Sheet {
	rows := [][]any{calculationHeader}
	for _, line := range breakdown.Billable() {
		rows = append(rows, []any{
			line.City, string(line.Regional), line.Service, line.Quantity,
			line.OpexPrice, line.OpexValue, line.CapexPrice, line.CapexValue,
		})
	}
	return Sheet{Name: SheetCalculation, Rows: rows}
}

func detailsSheet(doc *model.Document) Sheet {
	fields := doc.DetailFields()
	rows := make([][]any, 0, len(fields))
	for _, field := range fields {
		rows = append(rows, []any{field.Key, field.Value})
	}
	return Sheet{Name: SheetDetails, Rows: rows}
}

func citiesSheet(doc *model.Document) Sheet {
	rows := [][]any{{"Nome", "Regional", "Centro"}}
	for _, city := range doc.Cities {
		rows = append(rows, []any{city.Name, string(city.Regional), city.Center})
	}
	return Sheet{Name: SheetCities, Rows: rows}
}

func quantitiesSheet(doc *model.Document) Sheet {
	header := make([]any, 0, len(doc.Services)+1)
	header = append(header, "Cidade")
	for _, service := range doc.Services {
		header = append(header, service)
	}

	rows := [][]any{header}
	for _, city := range doc.Cities {
		quantities := doc.Quantities[city.Name]
		row := make([]any, 0, len(doc.Services)+1)
		row = append(row, city.Name)
		for i := range doc.Services {
			row = append(row, quantities.Value(i))
		}
		rows = append(rows, row)
	}
	return Sheet{Name: SheetQuantities, Rows: rows}
}

func configSheet(doc *model.Document, key model.ConfigKey) Sheet {
	values := *key.Values(doc)
	rows := [][]any{{"Cidade", key.Label}}
	for _, city := range doc.Cities {
		rows = append(rows, []any{city.Name, values[city.Name]})
	}
	return Sheet{Name: key.Label, Rows: rows}
}

// SanitizeSheetName drops the characters spreadsheets reject in tab names
// and cuts the result to 31 characters.
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, name)
	return truncateRunes(name, maxSheetNameLen)
}

func uniqueSheetName(base string, used map[string]struct{}) string {
	if base == "" {
		base = "Planilha"
	}
	candidate := base
	for counter := 2; ; counter++ {
		if _, exists := used[strings.ToLower(candidate)]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		candidate = truncateRunes(base, maxSheetNameLen-len(suffix)) + suffix
	}
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}
