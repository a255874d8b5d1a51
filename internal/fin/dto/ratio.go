package dto

// RatioResponse is one business year of stored ratios, rounded to two decimals.
// Ratios that could not be computed are omitted.
type RatioResponse struct {
	BsnsYear              string   `json:"bsns_year"`
	DebtRatio             *float64 `json:"debt_ratio,omitempty"`
	CurrentRatio          *float64 `json:"current_ratio,omitempty"`
	InterestCoverageRatio *float64 `json:"interest_coverage_ratio,omitempty"`
	OperatingProfitRatio  *float64 `json:"operating_profit_ratio,omitempty"`
	NetProfitRatio        *float64 `json:"net_profit_ratio,omitempty"`
	ROE                   *float64 `json:"roe,omitempty"`
	ROA                   *float64 `json:"roa,omitempty"`
	DebtDependency        *float64 `json:"debt_dependency,omitempty"`
	CashFlowDebtRatio     *float64 `json:"cash_flow_debt_ratio,omitempty"`
	SalesGrowth           *float64 `json:"sales_growth,omitempty"`
	OperatingProfitGrowth *float64 `json:"operating_profit_growth,omitempty"`
	EPSGrowth             *float64 `json:"eps_growth,omitempty"`
	NetIncomeGrowth       *float64 `json:"net_income_growth,omitempty"`
}

// RatiosResponse wraps the ratio rows of a company.
type RatiosResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    []RatioResponse `json:"data"`
}
