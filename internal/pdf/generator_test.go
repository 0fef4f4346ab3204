package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contract-planner/internal/model"
)

func TestGenerateSummary(t *testing.T) {
	doc := model.NewDocument()
	doc.ContractorName = "Construtora São João"
	doc.ContractValue = "1.000,00"
	doc.Cities = []model.City{{Name: "Ribeirão Preto", Regional: model.RegionalInterior, Center: "C1"}}
	doc.Quantities["Ribeirão Preto"] = model.QuantityRow{"3"}

	content, err := NewGenerator().Generate(doc, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

func TestGenerateWithoutCities(t *testing.T) {
	content, err := NewGenerator().Generate(model.NewDocument(), time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}
