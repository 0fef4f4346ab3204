package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nurpe/contract-planner/internal/model"
	"github.com/nurpe/contract-planner/internal/report"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
	ContentTypeCSV  = "text/csv"
)

// ExportFormats lists the formats Export accepts.
var ExportFormats = []string{"json", "xlsx", "pdf", "csv"}

func IsExportFormat(format string) bool {
	for _, known := range ExportFormats {
		if format == known {
			return true
		}
	}
	return false
}

type ExcelGenerator interface {
	Generate(sheets []report.Sheet) ([]byte, error)
}

type PDFGenerator interface {
	Generate(doc *model.Document, generatedAt time.Time) ([]byte, error)
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// BuildExportSheets projects the current document into workbook tabs.
func (s *ContractService) BuildExportSheets() []report.Sheet {
	return report.BuildSheets(s.Document())
}

func (s *ContractService) ExportJSON() (*ExportResult, error) {
	content, err := json.MarshalIndent(s.Document(), "", "  ")
	if err != nil {
		return nil, s.exportFailed("json", err)
	}
	return &ExportResult{FileName: "contratoData.json", ContentType: ContentTypeJSON, Content: content}, nil
}

func (s *ContractService) ExportXLSX() (*ExportResult, error) {
	content, err := s.excel.Generate(s.BuildExportSheets())
	if err != nil {
		return nil, s.exportFailed("xlsx", err)
	}
	return &ExportResult{
		FileName:    fmt.Sprintf("Relatorio_Contrato_%s.xlsx", s.isoDate()),
		ContentType: ContentTypeXLSX,
		Content:     content,
	}, nil
}

func (s *ContractService) ExportPDF() (*ExportResult, error) {
	content, err := s.pdf.Generate(s.Document(), s.now())
	if err != nil {
		return nil, s.exportFailed("pdf", err)
	}
	return &ExportResult{
		FileName:    fmt.Sprintf("Resumo_Contrato_%s.pdf", s.isoDate()),
		ContentType: ContentTypePDF,
		Content:     content,
	}, nil
}

func (s *ContractService) ExportCSV() (*ExportResult, error) {
	content, err := report.CalculationCSV(s.Document())
	if err != nil {
		return nil, s.exportFailed("csv", err)
	}
	return &ExportResult{
		FileName:    fmt.Sprintf("Calculos_Detalhados_%s.csv", s.isoDate()),
		ContentType: ContentTypeCSV,
		Content:     content,
	}, nil
}

// Export dispatches on the format name used by the CLI and the API.
func (s *ContractService) Export(format string) (*ExportResult, error) {
	switch format {
	case "json":
		return s.ExportJSON()
	case "xlsx":
		return s.ExportXLSX()
	case "pdf":
		return s.ExportPDF()
	case "csv":
		return s.ExportCSV()
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", ErrInvalidInput, format)
	}
}

func (s *ContractService) exportFailed(format string, err error) error {
	s.log.Error().Err(err).Str("format", format).Msg("export failed")
	return fmt.Errorf("%w: %s: %v", ErrExportFailed, format, err)
}

func (s *ContractService) isoDate() string {
	return s.now().UTC().Format("2006-01-02")
}
