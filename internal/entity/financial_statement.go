package entity

import "time"

// Statement sections as reported by DART (sj_div).
const (
	SectionBalanceSheet    = "BS"
	SectionIncomeStatement = "IS"
	SectionCashFlow        = "CF"
)

// FinancialStatement is one normalized account line of a disclosed report.
// A line is unique per (corp_code, bsns_year, sj_div, account_nm, ord).
type FinancialStatement struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CorpCode        string    `gorm:"type:varchar(8);not null;index:idx_fin_statements_corp_year;uniqueIndex:uq_fin_statements_line" json:"corp_code"`
	CorpName        string    `gorm:"not null;index" json:"corp_name"`
	StockCode       string    `gorm:"type:varchar(6)" json:"stock_code"`
	RceptNo         string    `gorm:"type:varchar(14)" json:"rcept_no"`
	ReprtCode       string    `gorm:"type:varchar(5)" json:"reprt_code"`
	BsnsYear        string    `gorm:"type:varchar(4);not null;index:idx_fin_statements_corp_year;uniqueIndex:uq_fin_statements_line" json:"bsns_year"`
	SjDiv           string    `gorm:"type:varchar(3);not null;uniqueIndex:uq_fin_statements_line" json:"sj_div"`
	SjNm            string    `json:"sj_nm"`
	AccountNm       string    `gorm:"not null;uniqueIndex:uq_fin_statements_line" json:"account_nm"`
	ThstrmNm        string    `json:"thstrm_nm"`
	ThstrmAmount    float64   `json:"thstrm_amount"`
	FrmtrmNm        string    `json:"frmtrm_nm"`
	FrmtrmAmount    float64   `json:"frmtrm_amount"`
	BfefrmtrmNm     string    `json:"bfefrmtrm_nm"`
	BfefrmtrmAmount float64   `json:"bfefrmtrm_amount"`
	Ord             int       `gorm:"not null;uniqueIndex:uq_fin_statements_line" json:"ord"`
	Currency        string    `gorm:"type:varchar(3)" json:"currency"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the FinancialStatement model.
func (FinancialStatement) TableName() string {
	return "fin_statements"
}
