package service

import (
	"strconv"

	"github.com/nurpe/contract-planner/internal/model"
)

const shortTitleLen = 15

type Column struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Short string `json:"short"`
}

// Table is a read-only view the UI renders as-is.
type Table struct {
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Message string     `json:"message,omitempty"`
}

func (s *ContractService) CityTable() Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := Table{
		Columns: []Column{
			{Key: "nome", Title: "Nome", Short: "Nome"},
			{Key: "regional", Title: "Regional", Short: "Regional"},
			{Key: "centro", Title: "Centro", Short: "Centro"},
		},
		Rows: make([][]string, 0, len(s.doc.Cities)),
	}
	for _, city := range s.doc.Cities {
		table.Rows = append(table.Rows, []string{city.Name, string(city.Regional), city.Center})
	}
	return table
}

// QuantityTable has one column per service, in catalog order.
func (s *ContractService) QuantityTable() Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := Table{
		Columns: []Column{{Key: "cidade", Title: "Cidade", Short: "Cidade"}},
		Rows:    make([][]string, 0, len(s.doc.Cities)),
	}
	if len(s.doc.Cities) == 0 {
		table.Message = "Cadastre cidades para definir quantidades."
		return table
	}
	for i, service := range s.doc.Services {
		table.Columns = append(table.Columns, Column{Key: strconv.Itoa(i), Title: service, Short: shorten(service)})
	}
	for _, city := range s.doc.Cities {
		quantities := s.doc.Quantities[city.Name]
		row := make([]string, 0, len(s.doc.Services)+1)
		row = append(row, city.Name)
		for i := range s.doc.Services {
			value := ""
			if i < len(quantities) {
				value = quantities[i]
			}
			row = append(row, value)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func (s *ContractService) ConfigurationTable() Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := Table{
		Columns: []Column{{Key: "cidade", Title: "Cidade", Short: "Cidade"}},
		Rows:    make([][]string, 0, len(s.doc.Cities)),
	}
	if len(s.doc.Cities) == 0 {
		table.Message = "Cadastre cidades para definir as configurações."
		return table
	}
	for _, key := range model.ConfigKeys {
		table.Columns = append(table.Columns, Column{Key: key.ID, Title: key.Label, Short: key.Label})
	}
	for _, city := range s.doc.Cities {
		row := []string{city.Name}
		for _, key := range model.ConfigKeys {
			row = append(row, (*key.Values(s.doc))[city.Name])
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func shorten(title string) string {
	runes := []rune(title)
	if len(runes) <= shortTitleLen {
		return title
	}
	return string(runes[:shortTitleLen]) + "..."
}
