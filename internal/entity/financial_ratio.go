package entity

import "time"

// FinancialRatio holds the derived ratios for one company and business year.
// A nil field means the ratio could not be computed from the stored statements.
type FinancialRatio struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	CorpCode              string    `gorm:"type:varchar(8);not null;uniqueIndex:uq_fin_ratios_corp_year" json:"corp_code"`
	CorpName              string    `gorm:"not null" json:"corp_name"`
	BsnsYear              string    `gorm:"type:varchar(4);not null;uniqueIndex:uq_fin_ratios_corp_year" json:"bsns_year"`
	DebtRatio             *float64  `json:"debt_ratio,omitempty"`
	CurrentRatio          *float64  `json:"current_ratio,omitempty"`
	InterestCoverageRatio *float64  `json:"interest_coverage_ratio,omitempty"`
	OperatingProfitRatio  *float64  `json:"operating_profit_ratio,omitempty"`
	NetProfitRatio        *float64  `json:"net_profit_ratio,omitempty"`
	ROE                   *float64  `gorm:"column:roe" json:"roe,omitempty"`
	ROA                   *float64  `gorm:"column:roa" json:"roa,omitempty"`
	DebtDependency        *float64  `json:"debt_dependency,omitempty"`
	CashFlowDebtRatio     *float64  `json:"cash_flow_debt_ratio,omitempty"`
	SalesGrowth           *float64  `json:"sales_growth,omitempty"`
	OperatingProfitGrowth *float64  `json:"operating_profit_growth,omitempty"`
	EPSGrowth             *float64  `gorm:"column:eps_growth" json:"eps_growth,omitempty"`
	NetIncomeGrowth       *float64  `json:"net_income_growth,omitempty"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the FinancialRatio model.
func (FinancialRatio) TableName() string {
	return "fin_ratios"
}
