package repository

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang-fin-scryper/internal/entity"
	"golang-fin-scryper/internal/fin/config"
	"golang-fin-scryper/internal/fin/dto"
	"golang-fin-scryper/pkg/logger"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrCompanyNotFound is returned when no company matches the requested name exactly.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrNoData is returned when DART has no statements for the requested year.
	ErrNoData = errors.New("no statement data found")
	// ErrUpstream is returned when DART is unreachable or answers with an unexpected status.
	ErrUpstream = errors.New("dart api request failed")
)

const (
	corpCodeArchiveFile = "CORPCODE.xml"
	corpDirectoryKey    = "corp_directory"
	cashFlowName        = "현금흐름표"
)

// DartRepository reads company and statement data from the DART open API.
type DartRepository interface {
	FindCompany(ctx context.Context, companyName string) (*dto.CompanyInfo, error)
	FetchStatements(ctx context.Context, corpCode string, year int) ([]dto.RawStatementLine, error)
	FetchCashFlow(ctx context.Context, corpCode string, year int) ([]dto.RawStatementLine, error)
}

type dartRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	directoryCache *cache.Cache
}

// NewDartRepository creates a DART client limited to cfg.Dart.MaxRequestPerMinute calls.
func NewDartRepository(cfg *config.Config, log *logger.Logger) DartRepository {
	perRequest := time.Minute / time.Duration(cfg.Dart.MaxRequestPerMinute)
	return &dartRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.Dart.Timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(perRequest), 1),
		directoryCache: cache.New(cfg.Cache.CorpDirectoryTTL, cfg.Cache.CorpDirectoryTTL*2),
	}
}

// FindCompany scans the DART company directory for an exact name match.
func (r *dartRepository) FindCompany(ctx context.Context, companyName string) (*dto.CompanyInfo, error) {
	directory, err := r.companyDirectory(ctx)
	if err != nil {
		return nil, err
	}

	item, ok := directory[companyName]
	if !ok {
		r.log.WarnContext(ctx, "Company not found in DART directory", logger.StringField("company_name", companyName))
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, companyName)
	}

	r.log.InfoContext(ctx, "Company found in DART directory",
		logger.StringField("company_name", companyName),
		logger.StringField("corp_code", item.CorpCode))

	return &dto.CompanyInfo{
		CorpCode:   item.CorpCode,
		CorpName:   item.CorpName,
		StockCode:  item.StockCode,
		ModifyDate: item.ModifyDate,
	}, nil
}

// companyDirectory returns the directory keyed by company name, downloading it when the cached copy expired.
func (r *dartRepository) companyDirectory(ctx context.Context) (map[string]dto.CorpCodeItem, error) {
	if cached, found := r.directoryCache.Get(corpDirectoryKey); found {
		return cached.(map[string]dto.CorpCodeItem), nil
	}

	body, err := r.sendRequest(ctx, "/corpCode.xml", url.Values{})
	if err != nil {
		return nil, err
	}

	directory, err := parseCorpCodeArchive(body)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse DART company directory", logger.ErrorField(err))
		return nil, err
	}

	r.directoryCache.SetDefault(corpDirectoryKey, directory)
	r.log.InfoContext(ctx, "DART company directory loaded", logger.IntField("companies", len(directory)))
	return directory, nil
}

func parseCorpCodeArchive(body []byte) (map[string]dto.CorpCodeItem, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to open corp code archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != corpCodeArchiveFile {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", corpCodeArchiveFile, err)
		}
		defer rc.Close()

		var result dto.CorpCodeResult
		if err := xml.NewDecoder(rc).Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", corpCodeArchiveFile, err)
		}

		directory := make(map[string]dto.CorpCodeItem, len(result.List))
		for _, item := range result.List {
			// first listing wins for duplicated names
			if _, exists := directory[item.CorpName]; !exists {
				directory[item.CorpName] = item
			}
		}
		return directory, nil
	}

	return nil, fmt.Errorf("%s not found in corp code archive", corpCodeArchiveFile)
}

// FetchStatements returns the balance sheet and income statement lines of the annual report.
func (r *dartRepository) FetchStatements(ctx context.Context, corpCode string, year int) ([]dto.RawStatementLine, error) {
	lines, err := r.fetchStatementList(ctx, "/fnlttSinglAcnt.json", corpCode, year)
	if err != nil {
		return nil, err
	}

	statements := make([]dto.RawStatementLine, 0, len(lines))
	for _, line := range lines {
		if line.SjDiv != entity.SectionBalanceSheet && line.SjDiv != entity.SectionIncomeStatement {
			continue
		}
		statements = append(statements, withPeriodNames(line, year))
	}
	return statements, nil
}

// FetchCashFlow returns the cash flow lines of the annual report tagged as CF.
func (r *dartRepository) FetchCashFlow(ctx context.Context, corpCode string, year int) ([]dto.RawStatementLine, error) {
	lines, err := r.fetchStatementList(ctx, "/fnlttCashFlow.json", corpCode, year)
	if err != nil {
		return nil, err
	}

	statements := make([]dto.RawStatementLine, 0, len(lines))
	for _, line := range lines {
		line.SjDiv = entity.SectionCashFlow
		line.SjNm = cashFlowName
		statements = append(statements, withPeriodNames(line, year))
	}
	return statements, nil
}

func (r *dartRepository) fetchStatementList(ctx context.Context, path, corpCode string, year int) ([]dto.RawStatementLine, error) {
	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", strconv.Itoa(year))
	params.Set("reprt_code", r.cfg.Dart.ReportCode)
	params.Set("fs_div", r.cfg.Dart.FsDiv)

	body, err := r.sendRequest(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var response dto.DartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		r.log.ErrorContext(ctx, "Failed to decode DART response", logger.ErrorField(err), logger.StringField("path", path))
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUpstream, path, err)
	}

	switch response.Status {
	case dto.DartStatusOK:
		return response.List, nil
	case dto.DartStatusNoData:
		r.log.InfoContext(ctx, "DART has no data for year",
			logger.StringField("path", path),
			logger.StringField("corp_code", corpCode),
			logger.IntField("year", year))
		return nil, fmt.Errorf("%w: %s %d", ErrNoData, corpCode, year)
	default:
		r.log.ErrorContext(ctx, "DART returned non-success status",
			logger.StringField("path", path),
			logger.StringField("status", response.Status),
			logger.StringField("message", response.Message),
			logger.IntField("year", year))
		return nil, fmt.Errorf("%w: status %s: %s", ErrUpstream, response.Status, response.Message)
	}
}

func withPeriodNames(line dto.RawStatementLine, year int) dto.RawStatementLine {
	y := year
	if parsed, err := strconv.Atoi(line.BsnsYear); err == nil {
		y = parsed
	} else {
		line.BsnsYear = strconv.Itoa(year)
	}
	line.ThstrmNm = fmt.Sprintf("%d년", y)
	line.FrmtrmNm = fmt.Sprintf("%d년", y-1)
	line.BfefrmtrmNm = fmt.Sprintf("%d년", y-2)
	return line
}

func (r *dartRepository) sendRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fields := []zap.Field{
		zap.String("path", path),
		zap.Int("max_request_per_minute", r.cfg.Dart.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, err
	}

	params.Set("crtfc_key", r.cfg.Dart.APIKey)
	endpoint := r.cfg.Dart.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/zip, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to DART API", fields...)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from DART API", fields...)
		return nil, fmt.Errorf("%w: http status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from DART API", fields...)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return body, nil
}
