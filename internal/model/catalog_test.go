package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCatalogJSON(t *testing.T) {
	catalog := ParseServiceCatalog("Sondagem,Recomposição Pavimento")
	require.Len(t, catalog, 2)
	assert.Equal(t, "Recomposição Pavimento", catalog[1])

	data, err := json.Marshal(catalog)
	require.NoError(t, err)
	assert.JSONEq(t, `"Sondagem,Recomposição Pavimento"`, string(data))

	var fromList ServiceCatalog
	require.NoError(t, json.Unmarshal([]byte(`["A","B"]`), &fromList))
	assert.Equal(t, ServiceCatalog{"A", "B"}, fromList)

	var fromString ServiceCatalog
	require.NoError(t, json.Unmarshal([]byte(`"A,B,C"`), &fromString))
	assert.Equal(t, ServiceCatalog{"A", "B", "C"}, fromString)
}

func TestPriceListValues(t *testing.T) {
	prices := PriceList("10, 5,abc,2.5")
	assert.Equal(t, []float64{10, 5, 0, 2.5}, prices.Values())
	assert.Nil(t, PriceList("").Values())
}

func TestPriceListValuesIgnoresNonFinite(t *testing.T) {
	assert.Equal(t, []float64{0, 5, 0, 0, 0}, PriceList("NaN,5,Inf,-Inf,1e308").Values())
	assert.Equal(t, []float64{MaxPrice, -3}, PriceList("1e12,-3").Values())
}

func TestParseBounded(t *testing.T) {
	value, ok := ParseBounded(" 12.5 ", MaxQuantity)
	assert.True(t, ok)
	assert.Equal(t, 12.5, value)

	for _, raw := range []string{"", "abc", "NaN", "+Inf", "1e308", "1e10"} {
		value, ok := ParseBounded(raw, MaxQuantity)
		assert.False(t, ok, raw)
		assert.Zero(t, value, raw)
	}
}

func TestQuantityRow(t *testing.T) {
	var row QuantityRow
	require.NoError(t, json.Unmarshal([]byte(`["2", null, 3, ""]`), &row))
	assert.Equal(t, QuantityRow{"2", "", "3", ""}, row)

	assert.Equal(t, 2.0, row.Value(0))
	assert.Equal(t, 0.0, row.Value(1))
	assert.Equal(t, 3.0, row.Value(2))
	assert.Equal(t, 0.0, row.Value(9))
	assert.Equal(t, 0.0, QuantityRow{"x"}.Value(0))
	assert.Equal(t, 0.0, QuantityRow{"NaN"}.Value(0))
	assert.Equal(t, 0.0, QuantityRow{"1e308"}.Value(0))
}

func TestQuantityRowReindex(t *testing.T) {
	from := ServiceCatalog{"A", "B", "C"}
	to := ServiceCatalog{"C", "A", "D"}
	row := QuantityRow{"1", "2", "3"}
	assert.Equal(t, QuantityRow{"3", "1", ""}, row.Reindex(from, to))
	assert.Equal(t, QuantityRow{"", "1", ""}, QuantityRow{"1"}.Reindex(from, to))
}

func TestQuantityRowReindexDuplicateNames(t *testing.T) {
	from := ServiceCatalog{"Sondagem", "Sondagem"}
	to := ServiceCatalog{"Sondagem", "Sondagem", "Nova"}
	assert.Equal(t, QuantityRow{"1", "2", ""}, QuantityRow{"1", "2"}.Reindex(from, to))

	dropped := ServiceCatalog{"Nova", "Sondagem"}
	assert.Equal(t, QuantityRow{"", "1"}, QuantityRow{"1", "2"}.Reindex(from, dropped))
}
