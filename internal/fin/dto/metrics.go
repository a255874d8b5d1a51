package dto

// FinancialMetrics groups profitability and efficiency figures per year.
type FinancialMetrics struct {
	OperatingMargin []float64 `json:"operatingMargin"`
	NetMargin       []float64 `json:"netMargin"`
	ROE             []float64 `json:"roe"`
	ROA             []float64 `json:"roa"`
	Years           []string  `json:"years"`
}

// GrowthData groups growth figures per year.
type GrowthData struct {
	RevenueGrowth   []float64 `json:"revenueGrowth"`
	NetIncomeGrowth []float64 `json:"netIncomeGrowth"`
	Years           []string  `json:"years"`
}

// DebtLiquidityData groups leverage and liquidity figures per year.
type DebtLiquidityData struct {
	DebtRatio    []float64 `json:"debtRatio"`
	CurrentRatio []float64 `json:"currentRatio"`
	Years        []string  `json:"years"`
}

// FinancialMetricsResponse is the presentation view of a company's statements.
type FinancialMetricsResponse struct {
	CompanyName       string            `json:"companyName"`
	FinancialMetrics  FinancialMetrics  `json:"financialMetrics"`
	GrowthData        GrowthData        `json:"growthData"`
	DebtLiquidityData DebtLiquidityData `json:"debtLiquidityData"`
}
