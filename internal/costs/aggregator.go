package costs

import "github.com/nurpe/contract-planner/internal/model"

type Totals struct {
	OPEX  float64 `json:"opex"`
	CAPEX float64 `json:"capex"`
}

func (t Totals) Sum() float64 {
	return t.OPEX + t.CAPEX
}

// LineItem is one (city, service) pair priced for the city's regional.
type LineItem struct {
	City       string
	Regional   model.Regional
	Service    string
	Quantity   float64
	OpexPrice  float64
	OpexValue  float64
	CapexPrice float64
	CapexValue float64
}

type CitySubtotal struct {
	City     string
	Regional model.Regional
	Totals   Totals
}

// Breakdown is everything one aggregation pass produces.
type Breakdown struct {
	Totals Totals
	Cities []CitySubtotal
	Lines  []LineItem
}

// Aggregate prices every city's quantities against its regional price lists.
// Sums are raw floats; nothing is rounded or cached.
func Aggregate(doc *model.Document) Breakdown {
	result := Breakdown{
		Cities: make([]CitySubtotal, 0, len(doc.Cities)),
	}
	for _, city := range doc.Cities {
		opexList, capexList := doc.Prices(city.Regional)
		opexPrices := opexList.Values()
		capexPrices := capexList.Values()
		quantities := doc.Quantities[city.Name]

		subtotal := CitySubtotal{City: city.Name, Regional: city.Regional}
		for i, service := range doc.Services {
			q := quantities.Value(i)
			opexPrice := priceAt(opexPrices, i)
			capexPrice := priceAt(capexPrices, i)
			line := LineItem{
				City:       city.Name,
				Regional:   city.Regional,
				Service:    service,
				Quantity:   q,
				OpexPrice:  opexPrice,
				OpexValue:  q * opexPrice,
				CapexPrice: capexPrice,
				CapexValue: q * capexPrice,
			}
			subtotal.Totals.OPEX += line.OpexValue
			subtotal.Totals.CAPEX += line.CapexValue
			result.Totals.OPEX += line.OpexValue
			result.Totals.CAPEX += line.CapexValue
			result.Lines = append(result.Lines, line)
		}
		result.Cities = append(result.Cities, subtotal)
	}
	return result
}

// AggregateTotals is Aggregate without the per-line detail.
func AggregateTotals(doc *model.Document) Totals {
	return Aggregate(doc).Totals
}

// Billable keeps the lines with a positive quantity.
func (b Breakdown) Billable() []LineItem {
	lines := make([]LineItem, 0, len(b.Lines))
	for _, line := range b.Lines {
		if line.Quantity > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

func priceAt(prices []float64, index int) float64 {
	if index >= len(prices) {
		return 0
	}
	return prices[index]
}
