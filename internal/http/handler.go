package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/contract-planner/internal/http/middleware"
	"github.com/nurpe/contract-planner/internal/money"
	"github.com/nurpe/contract-planner/internal/service"
)

type Handler struct {
	contracts *service.ContractService
	metrics   *middleware.Metrics
	log       zerolog.Logger
}

func NewHandler(contracts *service.ContractService, metrics *middleware.Metrics, log zerolog.Logger) *Handler {
	return &Handler{contracts: contracts, metrics: metrics, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", h.health)
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := router.Group("/")
	if authMiddleware != nil {
		api.Use(authMiddleware)
	}
	api.GET("/document", h.getDocument)
	api.POST("/document/reload", h.reloadDocument)
	api.PUT("/contract", h.updateContract)
	api.GET("/balance", h.getBalance)
	api.PUT("/pricing", h.updatePricing)

	api.GET("/cities", h.listCities)
	api.POST("/cities", h.addCity)
	api.POST("/cities/import", h.importCities)
	api.POST("/cities/submit", h.submitCity)
	api.DELETE("/cities/edit", h.cancelEdit)
	api.PUT("/cities/:index", h.editCity)
	api.DELETE("/cities/:index", h.deleteCity)
	api.POST("/cities/:index/edit", h.beginEdit)

	api.GET("/quantities", h.listQuantities)
	api.PUT("/quantities/:city/:index", h.setQuantity)
	api.GET("/configuration", h.listConfiguration)
	api.PUT("/configuration/:key/:city", h.setConfigValue)

	api.GET("/costs", h.getCosts)
	api.POST("/currency/format", h.formatCurrency)
	api.GET("/export/:format", h.export)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getDocument(c *gin.Context) {
	c.JSON(http.StatusOK, h.contracts.Document())
}

// reloadDocument picks up changes written to the store by another process,
// such as the import-cities command.
func (h *Handler) reloadDocument(c *gin.Context) {
	if err := h.contracts.Reload(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.contracts.Document())
}

func (h *Handler) updateContract(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.contracts.UpdateContract(c.Request.Context(), fields); err != nil {
		h.handleError(c, err)
		return
	}
	h.respondBalance(c, "Dados do contrato salvos com sucesso!")
}

func (h *Handler) getBalance(c *gin.Context) {
	h.respondBalance(c, "")
}

func (h *Handler) respondBalance(c *gin.Context, message string) {
	balance := h.contracts.Balance()
	body := gin.H{
		"balance":             balance,
		"total_formatted":     money.FormatCurrency(balance.Total),
		"available_formatted": money.FormatCurrency(balance.Available),
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusOK, body)
}

type pricingRequest struct {
	Services      string `json:"servicos" binding:"required"`
	OpexMetro     string `json:"opexMetro"`
	CapexMetro    string `json:"capexMetro"`
	OpexInterior  string `json:"opexInterior"`
	CapexInterior string `json:"capexInterior"`
}

func (h *Handler) updatePricing(c *gin.Context) {
	var req pricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.contracts.UpdatePricing(c.Request.Context(), service.PricingInput{
		Services:      req.Services,
		OpexMetro:     req.OpexMetro,
		CapexMetro:    req.CapexMetro,
		OpexInterior:  req.OpexInterior,
		CapexInterior: req.CapexInterior,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Preços salvos com sucesso!"})
}

type cityRequest struct {
	Name     string `json:"nome"`
	Regional string `json:"regional"`
	Center   string `json:"centro"`
}

func (r cityRequest) input() service.CityInput {
	return service.CityInput{Name: r.Name, Regional: r.Regional, Center: r.Center}
}

func (h *Handler) listCities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"table":   h.contracts.CityTable(),
		"editing": h.contracts.EditingIndex(),
	})
}

func (h *Handler) addCity(c *gin.Context) {
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	city, err := h.contracts.AddCity(c.Request.Context(), req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"city": city, "message": "Cidade salva com sucesso!"})
}

func (h *Handler) submitCity(c *gin.Context) {
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	city, err := h.contracts.SubmitCity(c.Request.Context(), req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "message": "Cidade salva com sucesso!"})
}

func (h *Handler) editCity(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	city, err := h.contracts.EditCity(c.Request.Context(), index, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "message": "Cidade salva com sucesso!"})
}

func (h *Handler) beginEdit(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}
	city, err := h.contracts.BeginEdit(index)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "editing": index})
}

func (h *Handler) cancelEdit(c *gin.Context) {
	h.contracts.CancelEdit()
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteCity(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	city, err := h.contracts.DeleteCity(c.Request.Context(), index, confirmed)
	if err != nil {
		if errors.Is(err, service.ErrConfirmationRequired) {
			c.JSON(http.StatusPreconditionRequired, gin.H{
				"error":   err.Error(),
				"message": "Tem certeza que deseja remover a cidade " + city.Name + "?",
			})
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "message": "Cidade removida com sucesso!"})
}

type importRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) importCities(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	count, err := h.contracts.ImportCities(c.Request.Context(), req.Text)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"imported": count,
		"message":  strconv.Itoa(count) + " cidades importadas com sucesso!",
	})
}

func (h *Handler) listQuantities(c *gin.Context) {
	c.JSON(http.StatusOK, h.contracts.QuantityTable())
}

type valueRequest struct {
	Value string `json:"value"`
}

func (h *Handler) setQuantity(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.contracts.SetQuantity(c.Request.Context(), c.Param("city"), index, req.Value); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listConfiguration(c *gin.Context) {
	c.JSON(http.StatusOK, h.contracts.ConfigurationTable())
}

func (h *Handler) setConfigValue(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.contracts.SetConfigValue(c.Request.Context(), c.Param("key"), c.Param("city"), req.Value); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getCosts(c *gin.Context) {
	totals := h.contracts.AggregateCosts()
	c.JSON(http.StatusOK, gin.H{
		"opex":            totals.OPEX,
		"capex":           totals.CAPEX,
		"total":           totals.Sum(),
		"opex_formatted":  money.FormatCurrency(totals.OPEX),
		"capex_formatted": money.FormatCurrency(totals.CAPEX),
		"total_formatted": money.FormatCurrency(totals.Sum()),
	})
}

func (h *Handler) formatCurrency(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	formatted := money.FormatInput(req.Value)
	c.JSON(http.StatusOK, gin.H{"value": formatted, "amount": money.ParseCurrency(formatted)})
}

func (h *Handler) export(c *gin.Context) {
	format := c.Param("format")
	result, err := h.contracts.Export(format)
	h.metrics.ObserveExport(exportLabel(format), err)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func exportLabel(format string) string {
	if service.IsExportFormat(format) {
		return format
	}
	return "unknown"
}

func (h *Handler) indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return 0, false
	}
	return index, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateCity):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConfirmationRequired):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNothingImported):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrExportFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
