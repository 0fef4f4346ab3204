package costs

import (
	"github.com/nurpe/contract-planner/internal/model"
	"github.com/nurpe/contract-planner/internal/money"
)

type Balance struct {
	ContractValue float64 `json:"contract_value"`
	AddendumValue float64 `json:"addendum_value"`
	Total         float64 `json:"total"`
	AmountUsed    float64 `json:"amount_used"`
	Available     float64 `json:"available"`
}

// ComputeBalance reads the three currency fields of the document.
func ComputeBalance(doc *model.Document) Balance {
	b := Balance{
		ContractValue: money.ParseCurrency(doc.ContractValue),
		AddendumValue: money.ParseCurrency(doc.AddendumValue),
		AmountUsed:    money.ParseCurrency(doc.AmountUsed),
	}
	b.Total = b.ContractValue + b.AddendumValue
	b.Available = b.Total - b.AmountUsed
	return b
}
