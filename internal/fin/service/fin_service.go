package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang-fin-scryper/internal/entity"
	"golang-fin-scryper/internal/fin/config"
	"golang-fin-scryper/internal/fin/dto"
	"golang-fin-scryper/internal/fin/repository"
	"golang-fin-scryper/pkg/logger"
	"golang-fin-scryper/pkg/utils"

	"go.uber.org/zap"
)

// Errors surfaced to callers of FinService.
var (
	ErrCompanyNotFound = repository.ErrCompanyNotFound
	ErrNoData          = repository.ErrNoData
	ErrUpstream        = repository.ErrUpstream
)

const (
	messageFetched  = "financial statements retrieved successfully"
	messageNoData   = "no statement data found"
	messageUpstream = "failed to fetch statements from DART"
	messageRatiosOK = "financial ratios retrieved successfully"
)

// FinService defines the financial statement use cases.
type FinService interface {
	GetCompanyInfo(ctx context.Context, companyName string) (*dto.CompanyInfo, error)
	GetOrFetch(ctx context.Context, companyName string, year *int) (*dto.AcquisitionResult, error)
	GetRatios(ctx context.Context, companyName string, year *int) (*dto.RatiosResponse, error)
	GetMetrics(ctx context.Context, companyName string) (*dto.FinancialMetricsResponse, error)
	Refresh(ctx context.Context, companyName string, year int) (*dto.AcquisitionResult, error)
	ListCompanies(ctx context.Context) ([]dto.CompanySummary, error)
}

type finService struct {
	cfg          *config.Config
	finRepo      repository.FinancialRepository
	dartRepo     repository.DartRepository
	companyCache repository.CompanyCacheRepository
	cache        StatementCache
	normalizer   *AmountNormalizer
	ratioEngine  *RatioEngine
	log          *logger.Logger
	now          func() time.Time
}

// NewFinService creates a new FinService. companyCache may be nil.
func NewFinService(
	cfg *config.Config,
	finRepo repository.FinancialRepository,
	dartRepo repository.DartRepository,
	companyCache repository.CompanyCacheRepository,
	log *logger.Logger,
) FinService {
	return &finService{
		cfg:          cfg,
		finRepo:      finRepo,
		dartRepo:     dartRepo,
		companyCache: companyCache,
		cache:        NewNeverExpireCache(finRepo),
		normalizer:   NewAmountNormalizer(log),
		ratioEngine:  NewRatioEngine(log),
		log:          log,
		now:          utils.TimeNowKST,
	}
}

// GetCompanyInfo resolves a company from stored rows, the Redis cache and finally the DART directory.
func (s *finService) GetCompanyInfo(ctx context.Context, companyName string) (*dto.CompanyInfo, error) {
	info, err := s.finRepo.FindCompanyByName(ctx, companyName)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find stored company", logger.ErrorField(err), logger.StringField("company_name", companyName))
		return nil, fmt.Errorf("failed to find stored company: %w", err)
	}
	if info != nil {
		return info, nil
	}

	if s.companyCache != nil {
		cached, err := s.companyCache.Get(ctx, companyName)
		if err != nil {
			s.log.WarnContext(ctx, "Failed to read company cache", logger.ErrorField(err), logger.StringField("company_name", companyName))
		} else if cached != nil {
			return cached, nil
		}
	}

	info, err = s.dartRepo.FindCompany(ctx, companyName)
	if err != nil {
		return nil, err
	}

	if s.companyCache != nil {
		if err := s.companyCache.Set(ctx, info); err != nil {
			s.log.WarnContext(ctx, "Failed to cache company", logger.ErrorField(err), logger.StringField("company_name", companyName))
		}
	}
	return info, nil
}

// GetOrFetch answers from stored statements when any exist for the scope, otherwise
// fetches them from DART, persists them and derives the ratio set of the fetched year.
func (s *finService) GetOrFetch(ctx context.Context, companyName string, year *int) (*dto.AcquisitionResult, error) {
	company, err := s.GetCompanyInfo(ctx, companyName)
	if err != nil {
		return nil, err
	}

	rows, hit, err := s.cache.Lookup(ctx, company.CorpName, year)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to look up stored statements", logger.ErrorField(err), logger.StringField("company_name", companyName))
		return nil, fmt.Errorf("failed to look up stored statements: %w", err)
	}
	if hit {
		s.log.InfoContext(ctx, "Statements served from store",
			logger.StringField("company_name", company.CorpName),
			logger.IntField("rows", len(rows)))
		for _, y := range distinctYears(rows) {
			s.ensureRatios(ctx, company, y)
		}
		return successResult(rows), nil
	}

	return s.fetchAndStore(ctx, company, year, false)
}

// fetchAndStore writes nothing unless DART returned lines. With replaceRatios the
// stored ratio set of the fetched year is dropped after the statements are replaced.
func (s *finService) fetchAndStore(ctx context.Context, company *dto.CompanyInfo, year *int, replaceRatios bool) (*dto.AcquisitionResult, error) {
	target := s.now().Year() - 1
	attempts := 1
	if year != nil {
		target = *year
	} else {
		attempts += s.cfg.Dart.MaxYearFallback
	}

	var (
		lines       []dto.RawStatementLine
		fetchedYear int
		lastErr     error
	)
	for i := 0; i < attempts; i++ {
		y := target - i
		fetched, err := s.fetchYear(ctx, company.CorpCode, y)
		if err == nil && len(fetched) == 0 {
			err = fmt.Errorf("%w: %s %d", ErrNoData, company.CorpCode, y)
		}
		if err != nil {
			lastErr = err
			s.log.WarnContext(ctx, "No statements retrieved for year",
				logger.StringField("corp_code", company.CorpCode),
				logger.IntField("year", y),
				logger.ErrorField(err))
			continue
		}
		lines = fetched
		fetchedYear = y
		break
	}

	if len(lines) == 0 {
		message := messageNoData
		if !errors.Is(lastErr, ErrNoData) {
			message = messageUpstream
		}
		return &dto.AcquisitionResult{Status: dto.StatusError, Message: message, Err: lastErr}, nil
	}

	bsnsYear := strconv.Itoa(fetchedYear)
	records := s.toRecords(company, bsnsYear, DeduplicateStatements(lines))
	if err := s.finRepo.ReplaceStatements(ctx, company.CorpCode, bsnsYear, records); err != nil {
		s.log.ErrorContext(ctx, "Failed to save statements", logger.ErrorField(err), logger.StringField("corp_code", company.CorpCode))
		return nil, fmt.Errorf("failed to save statements: %w", err)
	}
	s.log.InfoContext(ctx, "Statements saved",
		logger.StringField("corp_code", company.CorpCode),
		logger.StringField("bsns_year", bsnsYear),
		logger.IntField("rows", len(records)))

	if replaceRatios {
		if err := s.finRepo.DeleteRatioSet(ctx, company.CorpCode, bsnsYear); err != nil {
			s.log.ErrorContext(ctx, "Failed to delete ratio set", logger.ErrorField(err), logger.StringField("corp_code", company.CorpCode))
			return nil, fmt.Errorf("failed to delete ratio set: %w", err)
		}
	}
	s.ensureRatios(ctx, company, bsnsYear)

	rows, err := s.finRepo.ListStatements(ctx, company.CorpName, year)
	if err != nil {
		return nil, fmt.Errorf("failed to read saved statements: %w", err)
	}
	return successResult(rows), nil
}

// fetchYear runs the BS/IS and CF requests of one year concurrently. A failed CF
// request only drops the cash flow lines.
func (s *finService) fetchYear(ctx context.Context, corpCode string, year int) ([]dto.RawStatementLine, error) {
	var (
		wg       sync.WaitGroup
		bsis, cf []dto.RawStatementLine
		bsisErr  error
		cfErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		bsis, bsisErr = s.dartRepo.FetchStatements(ctx, corpCode, year)
	}()
	go func() {
		defer wg.Done()
		cf, cfErr = s.dartRepo.FetchCashFlow(ctx, corpCode, year)
	}()
	wg.Wait()

	if bsisErr != nil {
		return nil, bsisErr
	}
	if cfErr != nil {
		s.log.WarnContext(ctx, "Cash flow statement not retrieved",
			logger.StringField("corp_code", corpCode),
			logger.IntField("year", year),
			logger.ErrorField(cfErr))
	}
	if len(bsis) == 0 {
		return nil, nil
	}
	return append(bsis, cf...), nil
}

func (s *finService) toRecords(company *dto.CompanyInfo, bsnsYear string, lines []dto.RawStatementLine) []entity.FinancialStatement {
	records := make([]entity.FinancialStatement, 0, len(lines))
	for _, l := range lines {
		records = append(records, entity.FinancialStatement{
			CorpCode:        company.CorpCode,
			CorpName:        company.CorpName,
			StockCode:       company.StockCode,
			RceptNo:         l.RceptNo,
			ReprtCode:       l.ReprtCode,
			BsnsYear:        bsnsYear,
			SjDiv:           l.SjDiv,
			SjNm:            l.SjNm,
			AccountNm:       l.AccountNm,
			ThstrmNm:        l.ThstrmNm,
			ThstrmAmount:    s.normalizer.Normalize(l.ThstrmAmount),
			FrmtrmNm:        l.FrmtrmNm,
			FrmtrmAmount:    s.normalizer.Normalize(l.FrmtrmAmount),
			BfefrmtrmNm:     l.BfefrmtrmNm,
			BfefrmtrmAmount: s.normalizer.Normalize(l.BfefrmtrmAmount),
			Ord:             int(l.Ord),
			Currency:        l.Currency,
		})
	}
	return records
}

// ensureRatios computes and stores the ratio set of a company-year unless one exists.
// Failures are logged; the next call for the scope retries.
func (s *finService) ensureRatios(ctx context.Context, company *dto.CompanyInfo, bsnsYear string) {
	fields := []zap.Field{
		logger.StringField("corp_code", company.CorpCode),
		logger.StringField("bsns_year", bsnsYear),
	}

	exists, err := s.finRepo.RatioExists(ctx, company.CorpCode, bsnsYear)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to check ratio set", append(fields, logger.ErrorField(err))...)
		return
	}
	if exists {
		return
	}

	records, err := s.finRepo.ListStatementsByCorpYear(ctx, company.CorpCode, bsnsYear)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load statements for ratios", append(fields, logger.ErrorField(err))...)
		return
	}
	if len(records) == 0 {
		return
	}

	ratios := s.ratioEngine.Compute(records)
	if err := s.finRepo.UpsertRatioSet(ctx, ratios.ToEntity(company.CorpCode, company.CorpName, bsnsYear)); err != nil {
		s.log.ErrorContext(ctx, "Failed to save ratio set", append(fields, logger.ErrorField(err))...)
		return
	}
	s.log.InfoContext(ctx, "Ratio set saved", append(fields, logger.IntField("ratios", len(ratios)))...)
}

// GetRatios returns the stored ratios of one year, or of the latest stored year when year is nil.
// Statements are fetched first when nothing is stored for the scope.
func (s *finService) GetRatios(ctx context.Context, companyName string, year *int) (*dto.RatiosResponse, error) {
	company, err := s.GetCompanyInfo(ctx, companyName)
	if err != nil {
		return nil, err
	}

	bsnsYear, err := s.resolveRatioYear(ctx, company, year)
	if err != nil {
		return nil, err
	}
	resp := &dto.RatiosResponse{Status: dto.StatusSuccess, Message: messageRatiosOK, Data: []dto.RatioResponse{}}
	if bsnsYear == "" {
		return resp, nil
	}

	s.ensureRatios(ctx, company, bsnsYear)

	y, err := strconv.Atoi(bsnsYear)
	if err != nil {
		return nil, fmt.Errorf("invalid stored business year %q: %w", bsnsYear, err)
	}
	ratios, err := s.finRepo.FindRatios(ctx, company.CorpCode, &y)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find ratios", logger.ErrorField(err), logger.StringField("corp_code", company.CorpCode))
		return nil, fmt.Errorf("failed to find ratios: %w", err)
	}
	for _, r := range ratios {
		resp.Data = append(resp.Data, toRatioResponse(r))
	}
	return resp, nil
}

// resolveRatioYear returns "" when no statements could be stored for the scope.
func (s *finService) resolveRatioYear(ctx context.Context, company *dto.CompanyInfo, year *int) (string, error) {
	if year != nil {
		bsnsYear := strconv.Itoa(*year)
		stored, err := s.finRepo.ListStatementsByCorpYear(ctx, company.CorpCode, bsnsYear)
		if err != nil {
			return "", fmt.Errorf("failed to list statements: %w", err)
		}
		if len(stored) > 0 {
			return bsnsYear, nil
		}
		result, err := s.fetchAndStore(ctx, company, year, false)
		if err != nil {
			return "", err
		}
		if !result.IsSuccess() {
			s.log.WarnContext(ctx, "Statements unavailable for ratios", logger.StringField("corp_code", company.CorpCode), logger.IntField("year", *year))
			return "", nil
		}
		return bsnsYear, nil
	}

	latest, err := s.finRepo.LatestYear(ctx, company.CorpCode)
	if err != nil {
		return "", fmt.Errorf("failed to find latest year: %w", err)
	}
	if latest != "" {
		return latest, nil
	}

	result, err := s.fetchAndStore(ctx, company, nil, false)
	if err != nil {
		return "", err
	}
	if !result.IsSuccess() {
		s.log.WarnContext(ctx, "Statements unavailable for ratios", logger.StringField("corp_code", company.CorpCode))
		return "", nil
	}
	return s.finRepo.LatestYear(ctx, company.CorpCode)
}

// GetMetrics builds the presentation metrics of every stored year, fetching first when nothing is stored.
func (s *finService) GetMetrics(ctx context.Context, companyName string) (*dto.FinancialMetricsResponse, error) {
	result, err := s.GetOrFetch(ctx, companyName, nil)
	if err != nil {
		return nil, err
	}
	if !result.IsSuccess() {
		return nil, fmt.Errorf("%s: %w", result.Message, result.Err)
	}

	rows, err := s.finRepo.ListStatements(ctx, companyName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	return AggregateMetrics(companyName, rows), nil
}

// Refresh fetches one company-year from DART again and replaces the stored statements.
// Stored rows are kept when the fetch fails.
func (s *finService) Refresh(ctx context.Context, companyName string, year int) (*dto.AcquisitionResult, error) {
	company, err := s.GetCompanyInfo(ctx, companyName)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Refreshing statements",
		logger.StringField("corp_code", company.CorpCode),
		logger.IntField("year", year))

	return s.fetchAndStore(ctx, company, &year, s.cfg.Cache.RecomputeRatios)
}

// ListCompanies lists the companies with stored statements.
func (s *finService) ListCompanies(ctx context.Context) ([]dto.CompanySummary, error) {
	companies, err := s.finRepo.ListCompanies(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list companies", logger.ErrorField(err))
		return nil, err
	}
	return companies, nil
}

func successResult(rows []entity.FinancialStatement) *dto.AcquisitionResult {
	data := make([]dto.StatementRow, 0, len(rows))
	for _, r := range rows {
		data = append(data, dto.StatementRow{
			BsnsYear:        r.BsnsYear,
			SjDiv:           r.SjDiv,
			SjNm:            r.SjNm,
			AccountNm:       r.AccountNm,
			ThstrmAmount:    r.ThstrmAmount,
			FrmtrmAmount:    r.FrmtrmAmount,
			BfefrmtrmAmount: r.BfefrmtrmAmount,
		})
	}
	return &dto.AcquisitionResult{Status: dto.StatusSuccess, Message: messageFetched, Data: data}
}

func distinctYears(rows []entity.FinancialStatement) []string {
	seen := make(map[string]struct{})
	var years []string
	for _, r := range rows {
		if _, ok := seen[r.BsnsYear]; ok {
			continue
		}
		seen[r.BsnsYear] = struct{}{}
		years = append(years, r.BsnsYear)
	}
	sort.Strings(years)
	return years
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return utils.ToPointer(round2(*v))
}

func toRatioResponse(r entity.FinancialRatio) dto.RatioResponse {
	return dto.RatioResponse{
		BsnsYear:              r.BsnsYear,
		DebtRatio:             roundPtr(r.DebtRatio),
		CurrentRatio:          roundPtr(r.CurrentRatio),
		InterestCoverageRatio: roundPtr(r.InterestCoverageRatio),
		OperatingProfitRatio:  roundPtr(r.OperatingProfitRatio),
		NetProfitRatio:        roundPtr(r.NetProfitRatio),
		ROE:                   roundPtr(r.ROE),
		ROA:                   roundPtr(r.ROA),
		DebtDependency:        roundPtr(r.DebtDependency),
		CashFlowDebtRatio:     roundPtr(r.CashFlowDebtRatio),
		SalesGrowth:           roundPtr(r.SalesGrowth),
		OperatingProfitGrowth: roundPtr(r.OperatingProfitGrowth),
		EPSGrowth:             roundPtr(r.EPSGrowth),
		NetIncomeGrowth:       roundPtr(r.NetIncomeGrowth),
	}
}
