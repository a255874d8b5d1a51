package dto

import "github.com/lib/pq"

// CompanySummary lists a stored company together with the business years on file.
type CompanySummary struct {
	CorpCode  string         `json:"corp_code"`
	CorpName  string         `json:"corp_name"`
	StockCode string         `json:"stock_code"`
	Years     pq.StringArray `gorm:"type:text[]" json:"years" swaggertype:"array,string"`
	RowCount  int64          `json:"rows"`
}
