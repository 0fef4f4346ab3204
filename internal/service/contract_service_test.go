package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contract-planner/internal/costs"
	"github.com/nurpe/contract-planner/internal/excel"
	"github.com/nurpe/contract-planner/internal/model"
	"github.com/nurpe/contract-planner/internal/pdf"
	"github.com/nurpe/contract-planner/internal/report"
)

func setPricing(t *testing.T, svc *ContractService) {
	t.Helper()
	require.NoError(t, svc.UpdatePricing(context.Background(), PricingInput{
		Services:      "Sondagem,Recomposição",
		OpexMetro:     "10,5",
		CapexMetro:    "1,1",
		OpexInterior:  "20,10",
		CapexInterior: "2,2",
	}))
}

func TestNewContractServiceLoadsDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	doc := svc.Document()
	assert.Len(t, doc.Services, 11)
	assert.Empty(t, doc.Cities)
}

func TestUpdateContractAndBalance(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	require.NoError(t, svc.UpdateContract(ctx, map[string]string{
		"nomeContratado": "ACME",
		"valorContrato":  "1.000,00",
		"valorAditivo":   "250,50",
		"vlrUtilizado":   "R$ 100,00",
	}))
	assert.Equal(t, "ACME", st.saved.ContractorName)
	assert.Equal(t, costs.Balance{
		ContractValue: 1000,
		AddendumValue: 250.5,
		Total:         1250.5,
		AmountUsed:    100,
		Available:     1150.5,
	}, svc.Balance())

	err := svc.UpdateContract(ctx, map[string]string{"nomeContratado": "X", "cities": "[]"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "ACME", svc.Document().ContractorName)
}

func TestAggregateCosts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	setPricing(t, svc)
	assert.Equal(t, costs.Totals{}, svc.AggregateCosts())

	mustAdd(t, svc, "Springfield", "Metropolitana", "C")
	require.NoError(t, svc.SetQuantity(ctx, "Springfield", 0, "2"))
	assert.Equal(t, 20.0, svc.AggregateCosts().OPEX)

	require.NoError(t, svc.SetQuantity(ctx, "springfield", 1, "1"))
	assert.Equal(t, costs.Totals{OPEX: 25, CAPEX: 3}, svc.AggregateCosts())
	assert.Len(t, svc.Breakdown().Billable(), 2)
}

func TestSetQuantityValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	setPricing(t, svc)
	mustAdd(t, svc, "A", "Interior", "C")

	assert.ErrorIs(t, svc.SetQuantity(ctx, "A", 0, "-1"), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetQuantity(ctx, "A", 0, "abc"), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetQuantity(ctx, "A", 0, "NaN"), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetQuantity(ctx, "A", 2, "1"), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetQuantity(ctx, "Nowhere", 0, "1"), ErrNotFound)

	require.NoError(t, svc.SetQuantity(ctx, "A", 1, "7"))
	assert.Equal(t, model.QuantityRow{"", "7"}, svc.Document().Quantities["A"])
	require.NoError(t, svc.SetQuantity(ctx, "A", 1, ""))
	assert.Equal(t, model.QuantityRow{"", ""}, svc.Document().Quantities["A"])
}

func TestSetConfigValueValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustAdd(t, svc, "A", "Interior", "C")

	assert.ErrorIs(t, svc.SetConfigValue(ctx, "unknown", "A", "v"), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetConfigValue(ctx, "pep", "B", "v"), ErrNotFound)
	require.NoError(t, svc.SetConfigValue(ctx, "centroSap", "a", "1001"))
	assert.Equal(t, "1001", svc.Document().SAPCenter["A"])
}

func TestUpdatePricingReindexesQuantities(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.UpdatePricing(ctx, PricingInput{Services: "A,B,C"}))
	mustAdd(t, svc, "X", "Interior", "C")
	require.NoError(t, svc.SetQuantity(ctx, "X", 0, "1"))
	require.NoError(t, svc.SetQuantity(ctx, "X", 2, "3"))

	require.NoError(t, svc.UpdatePricing(ctx, PricingInput{Services: "C,A,D", OpexInterior: "1,1,1"}))

	doc := svc.Document()
	assert.Equal(t, model.ServiceCatalog{"C", "A", "D"}, doc.Services)
	assert.Equal(t, model.QuantityRow{"3", "1", ""}, doc.Quantities["X"])
	assert.Equal(t, model.PriceList("1,1,1"), doc.OpexInterior)
	assert.Equal(t, 4.0, svc.AggregateCosts().OPEX)
}

func TestUpdatePricingRejectsEmptyCatalog(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.UpdatePricing(context.Background(), PricingInput{Services: ""}), ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdatePricing(context.Background(), PricingInput{Services: "A,,B"}), ErrInvalidInput)
	assert.Len(t, svc.Document().Services, 11)
}

func TestTables(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	empty := svc.QuantityTable()
	assert.NotEmpty(t, empty.Message)
	assert.Empty(t, empty.Rows)
	assert.NotEmpty(t, svc.ConfigurationTable().Message)

	require.NoError(t, svc.UpdatePricing(ctx, PricingInput{Services: "Fiscalização sem irregularidade,Sondagem"}))
	mustAdd(t, svc, "A", "Interior", "C")
	require.NoError(t, svc.SetQuantity(ctx, "A", 1, "2"))
	require.NoError(t, svc.SetConfigValue(ctx, "pep", "A", "P-1"))

	quantities := svc.QuantityTable()
	require.Len(t, quantities.Columns, 3)
	assert.Equal(t, "Fiscalização se...", quantities.Columns[1].Short)
	assert.Equal(t, "Fiscalização sem irregularidade", quantities.Columns[1].Title)
	assert.Equal(t, "Sondagem", quantities.Columns[2].Short)
	assert.Equal(t, [][]string{{"A", "", "2"}}, quantities.Rows)

	config := svc.ConfigurationTable()
	assert.Len(t, config.Columns, 1+len(model.ConfigKeys))
	assert.Equal(t, [][]string{{"A", "", "", "P-1", "", "", ""}}, config.Rows)

	assert.Equal(t, [][]string{{"A", "Interior", "C"}}, svc.CityTable().Rows)
}

func TestExportJSON(t *testing.T) {
	svc, _ := newTestService(t)
	mustAdd(t, svc, "A", "Interior", "C")

	result, err := svc.ExportJSON()
	require.NoError(t, err)
	assert.Equal(t, "contratoData.json", result.FileName)
	assert.Contains(t, string(result.Content), "\n  \"cities\": [")

	var decoded model.Document
	require.NoError(t, json.Unmarshal(result.Content, &decoded))
	assert.Equal(t, "A", decoded.Cities[0].Name)
}

func TestExportXLSX(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	setPricing(t, svc)
	mustAdd(t, svc, "Springfield", "Metropolitana", "C")
	require.NoError(t, svc.SetQuantity(ctx, "Springfield", 0, "2"))

	result, err := svc.ExportXLSX()
	require.NoError(t, err)
	assert.Equal(t, "Relatorio_Contrato_2024-03-05.xlsx", result.FileName)
	assert.Equal(t, ContentTypeXLSX, result.ContentType)

	file, err := excelize.OpenReader(bytes.NewReader(result.Content))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	opex, err := file.GetCellValue(report.SheetSummary, "B6")
	require.NoError(t, err)
	assert.Equal(t, "20", opex)
}

func TestExportOtherFormats(t *testing.T) {
	svc, _ := newTestService(t)

	pdfResult, err := svc.Export("pdf")
	require.NoError(t, err)
	assert.Equal(t, "Resumo_Contrato_2024-03-05.pdf", pdfResult.FileName)

	csvResult, err := svc.Export("csv")
	require.NoError(t, err)
	assert.Equal(t, "Calculos_Detalhados_2024-03-05.csv", csvResult.FileName)

	_, err = svc.Export("docx")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type failingExcel struct{}

func (failingExcel) Generate([]report.Sheet) ([]byte, error) {
	return nil, assert.AnError
}

func TestExportFailureIsReported(t *testing.T) {
	svc, _ := newTestService(t)
	svc.excel = failingExcel{}

	_, err := svc.ExportXLSX()
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestReload(t *testing.T) {
	svc, st := newTestService(t)
	mustAdd(t, svc, "A", "Interior", "C")
	_, err := svc.BeginEdit(0)
	require.NoError(t, err)

	st.saved.Cities = nil
	require.NoError(t, svc.Reload(context.Background()))
	assert.Empty(t, svc.Document().Cities)
	assert.Equal(t, -1, svc.EditingIndex())
}

func TestNonFiniteInputIsRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	setPricing(t, svc)
	mustAdd(t, svc, "A", "Metropolitana", "C")

	for _, prices := range []string{"NaN,5", "Inf", "1,-Inf", "1e308"} {
		err := svc.UpdatePricing(ctx, PricingInput{Services: "Sondagem,Recomposição", OpexMetro: prices})
		assert.ErrorIs(t, err, ErrInvalidInput, prices)
	}
	assert.Equal(t, model.PriceList("10,5"), svc.Document().OpexMetro)

	for _, quantity := range []string{"1e308", "Inf", "1e10"} {
		assert.ErrorIs(t, svc.SetQuantity(ctx, "A", 0, quantity), ErrInvalidInput, quantity)
	}
	require.NoError(t, svc.SetQuantity(ctx, "A", 0, "1e9"))
	assert.Equal(t, 1e10, svc.AggregateCosts().OPEX)
}

func TestStoredNonFiniteValuesPriceAsZero(t *testing.T) {
	doc := model.NewDocument()
	doc.Services = model.ServiceCatalog{"Sondagem", "Recomposição"}
	doc.OpexMetro = "NaN,5"
	doc.CapexMetro = "Inf,1e308"
	doc.Cities = []model.City{{Name: "A", Regional: model.RegionalMetropolitana, Center: "C"}}
	doc.Quantities["A"] = model.QuantityRow{"1e308", "2"}

	svc, err := NewContractService(context.Background(), &memoryStore{saved: doc}, excel.NewGenerator(), pdf.NewGenerator(), zerolog.Nop(),
		WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	assert.Equal(t, costs.Totals{OPEX: 10, CAPEX: 0}, svc.AggregateCosts())

	_, err = svc.ExportPDF()
	require.NoError(t, err)
	_, err = svc.ExportXLSX()
	require.NoError(t, err)
}

func TestUpdatePricingKeepsDuplicateServiceQuantities(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.UpdatePricing(ctx, PricingInput{Services: "Sondagem,Sondagem"}))
	mustAdd(t, svc, "A", "Interior", "C")
	require.NoError(t, svc.SetQuantity(ctx, "A", 0, "1"))
	require.NoError(t, svc.SetQuantity(ctx, "A", 1, "2"))

	require.NoError(t, svc.UpdatePricing(ctx, PricingInput{Services: "Sondagem,Sondagem,Nova"}))
	assert.Equal(t, model.QuantityRow{"1", "2", ""}, svc.Document().Quantities["A"])
}

func TestIsExportFormat(t *testing.T) {
	for _, format := range ExportFormats {
		assert.True(t, IsExportFormat(format), format)
	}
	assert.False(t, IsExportFormat("docx"))
	assert.False(t, IsExportFormat(""))
}
