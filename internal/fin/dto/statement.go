package dto

// Acquisition result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatementRow is a stored statement line as returned to callers.
type StatementRow struct {
	BsnsYear        string  `json:"bsns_year"`
	SjDiv           string  `json:"sj_div"`
	SjNm            string  `json:"sj_nm"`
	AccountNm       string  `json:"account_nm"`
	ThstrmAmount    float64 `json:"thstrm_amount"`
	FrmtrmAmount    float64 `json:"frmtrm_amount"`
	BfefrmtrmAmount float64 `json:"bfefrmtrm_amount"`
}

// AcquisitionResult is the outcome of a cache-or-fetch call. Callers must inspect Status.
type AcquisitionResult struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    []StatementRow `json:"data,omitempty"`
	// Err is the failure cause of an error result.
	Err error `json:"-"`
}

// IsSuccess reports whether the acquisition succeeded.
func (r *AcquisitionResult) IsSuccess() bool {
	return r != nil && r.Status == StatusSuccess
}

// FinancialRequest is the body of POST /financial.
type FinancialRequest struct {
	CompanyName string `json:"company_name"`
}

// RefreshRequest is the body of POST /financial/refresh.
type RefreshRequest struct {
	CompanyName string `json:"company_name"`
	Year        int    `json:"year"`
}
