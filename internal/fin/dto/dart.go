package dto

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// DART status codes.
const (
	DartStatusOK     = "000"
	DartStatusNoData = "013"
)

// DartResponse is the common envelope of the DART JSON endpoints.
type DartResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	List    []RawStatementLine `json:"list"`
}

// DisplayOrder is the ord column. DART sends it as a quoted number.
type DisplayOrder int

// UnmarshalJSON accepts both "12" and 12.
func (o *DisplayOrder) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*o = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid ord %q: %w", s, err)
	}
	*o = DisplayOrder(v)
	return nil
}

// MarshalJSON writes the order as a plain number.
func (o DisplayOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(o))
}

// RawStatementLine is one account line as returned by fnlttSinglAcnt / fnlttCashFlow.
// Amounts are kept as text until they are normalized at persistence time.
type RawStatementLine struct {
	RceptNo         string       `json:"rcept_no"`
	ReprtCode       string       `json:"reprt_code"`
	BsnsYear        string       `json:"bsns_year"`
	CorpCode        string       `json:"corp_code"`
	StockCode       string       `json:"stock_code"`
	FsDiv           string       `json:"fs_div"`
	SjDiv           string       `json:"sj_div"`
	SjNm            string       `json:"sj_nm"`
	AccountNm       string       `json:"account_nm"`
	ThstrmNm        string       `json:"thstrm_nm"`
	ThstrmAmount    string       `json:"thstrm_amount"`
	FrmtrmNm        string       `json:"frmtrm_nm"`
	FrmtrmAmount    string       `json:"frmtrm_amount"`
	BfefrmtrmNm     string       `json:"bfefrmtrm_nm"`
	BfefrmtrmAmount string       `json:"bfefrmtrm_amount"`
	Ord             DisplayOrder `json:"ord"`
	Currency        string       `json:"currency"`
}

// CorpCodeResult is the root of CORPCODE.xml inside the corpCode.xml archive.
type CorpCodeResult struct {
	XMLName xml.Name       `xml:"result"`
	List    []CorpCodeItem `xml:"list"`
}

// CorpCodeItem is one company in the DART directory.
type CorpCodeItem struct {
	CorpCode   string `xml:"corp_code"`
	CorpName   string `xml:"corp_name"`
	StockCode  string `xml:"stock_code"`
	ModifyDate string `xml:"modify_date"`
}

// CompanyInfo identifies a company in DART.
type CompanyInfo struct {
	CorpCode   string `json:"corp_code"`
	CorpName   string `json:"corp_name"`
	StockCode  string `json:"stock_code"`
	ModifyDate string `json:"modify_date"`
}
