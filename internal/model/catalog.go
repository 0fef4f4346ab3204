package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bounds for a single quantity and a single unit price. Their product and
// any realistic sum of products stay finite.
const (
	MaxQuantity = 1e9
	MaxPrice    = 1e12
)

// ServiceCatalog is the ordered list of service names. Quantities and prices
// are aligned with it by position. On the wire it is a single comma-delimited
// string.
type ServiceCatalog []string

func ParseServiceCatalog(raw string) ServiceCatalog {
	if raw == "" {
		return ServiceCatalog{}
	}
	return ServiceCatalog(strings.Split(raw, ","))
}

func (c ServiceCatalog) String() string {
	return strings.Join(c, ",")
}

func (c ServiceCatalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ServiceCatalog) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*c = ParseServiceCatalog(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("servicos: %w", err)
	}
	*c = ServiceCatalog(list)
	return nil
}

// PriceList holds unit prices aligned with the catalog. The text form is
// kept so the document round-trips exactly what the user entered.
type PriceList string

// Values parses each comma-separated entry. Unparsable, non-finite or
// out-of-range entries read as zero.
func (p PriceList) Values() []float64 {
	if p == "" {
		return nil
	}
	parts := strings.Split(string(p), ",")
	values := make([]float64, len(parts))
	for i, part := range parts {
		values[i], _ = ParseBounded(part, MaxPrice)
	}
	return values
}

// ParseBounded parses a plain decimal number and reports whether it is
// finite and within [-limit, limit]. Anything else yields 0 and false.
func ParseBounded(raw string, limit float64) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) > limit {
		return 0, false
	}
	return value, true
}

// QuantityRow is one city's quantities as typed, one entry per service index.
type QuantityRow []string

// Value parses the quantity at index; missing, blank, non-numeric or out of
// range is zero.
func (r QuantityRow) Value(index int) float64 {
	if index < 0 || index >= len(r) {
		return 0
	}
	value, _ := ParseBounded(r[index], MaxQuantity)
	return value
}

func (r *QuantityRow) UnmarshalJSON(data []byte) error {
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("quantidades: %w", err)
	}
	row := make(QuantityRow, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case nil:
			row[i] = ""
		case string:
			row[i] = v
		case float64:
			row[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return fmt.Errorf("quantidades: unsupported value %v", v)
		}
	}
	*r = row
	return nil
}

// Reindex maps a row from an old catalog onto a new one by service name.
// A name listed more than once matches by occurrence: the second "Sondagem"
// of the new catalog takes the value of the second one in the old.
func (r QuantityRow) Reindex(from, to ServiceCatalog) QuantityRow {
	positions := make(map[string][]int, len(from))
	for i, service := range from {
		positions[service] = append(positions[service], i)
	}
	next := make(QuantityRow, len(to))
	for i, service := range to {
		queue := positions[service]
		if len(queue) == 0 {
			continue
		}
		old := queue[0]
		positions[service] = queue[1:]
		if old < len(r) {
			next[i] = r[old]
		}
	}
	return next
}
