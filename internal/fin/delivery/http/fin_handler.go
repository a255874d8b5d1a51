package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"golang-fin-scryper/internal/fin/dto"
	"golang-fin-scryper/internal/fin/service"
	"golang-fin-scryper/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FinHandler handles HTTP requests for financial statements and ratios.
type FinHandler struct {
	finService service.FinService
	logger     *logger.Logger
}

// NewFinHandler creates a new FinHandler.
func NewFinHandler(finService service.FinService, logger *logger.Logger) *FinHandler {
	return &FinHandler{finService: finService, logger: logger}
}

// RegisterRoutes registers the financial routes to the Echo group.
func (h *FinHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/financial", h.GetFinancial)
	g.POST("/financial", h.PostFinancial)
	g.POST("/financial/refresh", h.RefreshFinancial)
	g.GET("/ratios/:company_name", h.GetRatios)
	g.GET("/metrics/:company_name", h.GetMetrics)
	g.GET("/companies", h.ListCompanies)
}

// GetFinancial godoc
// @Summary Get financial statements
// @Description Returns stored statements of a company, fetching them from DART when none are stored
// @Tags financial
// @Produce  json
// @Param   company_name  query   string true  "Exact company name"
// @Param   year          query   int    false "Business year. Defaults to the previous year with fallback"
// @Success 200 {object} dto.AcquisitionResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.AcquisitionResult
// @Failure 502 {object} dto.AcquisitionResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /financial [get]
func (h *FinHandler) GetFinancial(c echo.Context) error {
	return h.acquire(c, c.QueryParam("company_name"))
}

// PostFinancial godoc
// @Summary Get financial statements by company name
// @Description Same as GET /financial with the company name in the body
// @Tags financial
// @Accept  json
// @Produce  json
// @Param   request  body    dto.FinancialRequest true  "Company"
// @Param   year     query   int                  false "Business year"
// @Success 200 {object} dto.AcquisitionResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.AcquisitionResult
// @Failure 502 {object} dto.AcquisitionResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /financial [post]
func (h *FinHandler) PostFinancial(c echo.Context) error {
	var req dto.FinancialRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	return h.acquire(c, req.CompanyName)
}

func (h *FinHandler) acquire(c echo.Context, companyName string) error {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "company_name is required"})
	}
	year, err := parseYear(c.QueryParam("year"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid year"})
	}

	result, err := h.finService.GetOrFetch(c.Request().Context(), companyName, year)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(resultStatus(result), result)
}

// RefreshFinancial godoc
// @Summary Refresh financial statements
// @Description Deletes the stored statements of a company-year and fetches them again
// @Tags financial
// @Accept  json
// @Produce  json
// @Param   request  body    dto.RefreshRequest true "Company and year"
// @Success 200 {object} dto.AcquisitionResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.AcquisitionResult
// @Failure 502 {object} dto.AcquisitionResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /financial/refresh [post]
func (h *FinHandler) RefreshFinancial(c echo.Context) error {
	var req dto.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.CompanyName == "" || req.Year <= 0 {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "company_name and year are required"})
	}

	result, err := h.finService.Refresh(c.Request().Context(), req.CompanyName, req.Year)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(resultStatus(result), result)
}

// GetRatios godoc
// @Summary Get financial ratios
// @Description Returns the stored ratios of one year, or of the latest stored year
// @Tags ratios
// @Produce  json
// @Param   company_name  path    string true  "Exact company name"
// @Param   year          query   int    false "Business year"
// @Success 200 {object} dto.RatiosResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /ratios/{company_name} [get]
func (h *FinHandler) GetRatios(c echo.Context) error {
	year, err := parseYear(c.QueryParam("year"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid year"})
	}

	resp, err := h.finService.GetRatios(c.Request().Context(), c.Param("company_name"), year)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetMetrics godoc
// @Summary Get financial metrics
// @Description Returns yearly profitability, growth and leverage series for charts
// @Tags metrics
// @Produce  json
// @Param   company_name  path    string true "Exact company name"
// @Success 200 {object} dto.FinancialMetricsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /metrics/{company_name} [get]
func (h *FinHandler) GetMetrics(c echo.Context) error {
	resp, err := h.finService.GetMetrics(c.Request().Context(), c.Param("company_name"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListCompanies godoc
// @Summary List stored companies
// @Description Lists the companies with stored statements and their business years
// @Tags financial
// @Produce  json
// @Success 200 {array} dto.CompanySummary
// @Failure 500 {object} dto.ErrorResponse
// @Router /companies [get]
func (h *FinHandler) ListCompanies(c echo.Context) error {
	companies, err := h.finService.ListCompanies(c.Request().Context())
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "Failed to list companies", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list companies"})
	}
	if companies == nil {
		companies = []dto.CompanySummary{}
	}
	return c.JSON(http.StatusOK, companies)
}

func (h *FinHandler) writeError(c echo.Context, err error) error {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request().Context(), "Request failed", logger.ErrorField(err), logger.StringField("path", c.Path()))
	}
	return c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrCompanyNotFound):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func resultStatus(result *dto.AcquisitionResult) int {
	if result.IsSuccess() {
		return http.StatusOK
	}
	if result.Err == nil {
		return http.StatusNotFound
	}
	if status := errorStatus(result.Err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusBadGateway
}

func parseYear(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return nil, errors.New("invalid year")
	}
	return &year, nil
}
