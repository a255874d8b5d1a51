package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang-fin-scryper/internal/entity"
	"golang-fin-scryper/internal/fin/config"
	"golang-fin-scryper/internal/fin/dto"
	"golang-fin-scryper/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompany  = "삼성전자"
	testCorpCode = "00126380"
)

func rawLine(year int, section, account, current, previous string, ord int) dto.RawStatementLine {
	sjNm := map[string]string{
		entity.SectionBalanceSheet:    "재무상태표",
		entity.SectionIncomeStatement: "손익계산서",
		entity.SectionCashFlow:        "현금흐름표",
	}[section]
	return dto.RawStatementLine{
		RceptNo:      fmt.Sprintf("%d0311000001", year+1),
		ReprtCode:    "11011",
		BsnsYear:     fmt.Sprint(year),
		CorpCode:     testCorpCode,
		SjDiv:        section,
		SjNm:         sjNm,
		AccountNm:    account,
		ThstrmAmount: current,
		FrmtrmAmount: previous,
		Ord:          dto.DisplayOrder(ord),
		Currency:     "KRW",
	}
}

func seedYear(d *stubDartRepository, year int) {
	bs, is := entity.SectionBalanceSheet, entity.SectionIncomeStatement
	d.statements[year] = []dto.RawStatementLine{
		rawLine(year, bs, "자산총계", "1,000", "900", 1),
		rawLine(year, bs, "부채총계", "400", "350", 2),
		rawLine(year, bs, "자본총계", "600", "550", 3),
		rawLine(year, bs, "유동자산", "300", "280", 4),
		rawLine(year, bs, "유동부채", "150", "140", 5),
		rawLine(year, is, "매출액", "2,000", "1,600", 6),
		rawLine(year, is, "영업이익", "200", "250", 7),
		rawLine(year, is, "당기순이익", "120", "100", 8),
		// duplicate listing with a higher ord is dropped
		rawLine(year, is, "당기순이익", "999", "999", 30),
	}
	d.cashFlows[year] = []dto.RawStatementLine{
		rawLine(year, entity.SectionCashFlow, "영업활동현금흐름", "100", "-", 1),
	}
}

type serviceFixture struct {
	svc      *finService
	finRepo  *stubFinancialRepository
	dartRepo *stubDartRepository
	cache    *stubCompanyCache
	cfg      *config.Config
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	cfg := &config.Config{Dart: config.Dart{MaxYearFallback: 2}}
	finRepo := newStubFinancialRepository()
	dartRepo := newStubDartRepository()
	dartRepo.companies[testCompany] = &dto.CompanyInfo{CorpCode: testCorpCode, CorpName: testCompany, StockCode: "005930"}
	cache := newStubCompanyCache()

	svc := NewFinService(cfg, finRepo, dartRepo, cache, logger.NewNop()).(*finService)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }

	return &serviceFixture{svc: svc, finRepo: finRepo, dartRepo: dartRepo, cache: cache, cfg: cfg}
}

func intPtr(v int) *int { return &v }

func TestGetOrFetch_FetchesPersistsAndComputesRatios(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2023)

	result, err := f.svc.GetOrFetch(context.Background(), testCompany, nil)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	assert.Len(t, result.Data, 9)
	assert.Equal(t, []int{2023}, f.dartRepo.statementCalls)
	for _, row := range result.Data {
		assert.Equal(t, "2023", row.BsnsYear)
		if row.AccountNm == "당기순이익" {
			assert.Equal(t, 120.0, row.ThstrmAmount)
		}
		if row.AccountNm == "영업활동현금흐름" {
			assert.Equal(t, 0.0, row.FrmtrmAmount)
		}
	}

	ratio, ok := f.finRepo.ratios[ratioKey(testCorpCode, "2023")]
	require.True(t, ok)
	require.NotNil(t, ratio.ROE)
	assert.InDelta(t, 20.0, *ratio.ROE, delta)
	require.NotNil(t, ratio.CashFlowDebtRatio)
	assert.InDelta(t, 25.0, *ratio.CashFlowDebtRatio, delta)
}

func TestGetOrFetch_StoredRowsServedWithoutDartCalls(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2023)

	first, err := f.svc.GetOrFetch(context.Background(), testCompany, nil)
	require.NoError(t, err)
	require.True(t, first.IsSuccess())
	callsAfterFirst := f.dartRepo.dartCalls()
	findsAfterFirst := f.dartRepo.findCalls

	second, err := f.svc.GetOrFetch(context.Background(), testCompany, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, callsAfterFirst, f.dartRepo.dartCalls())
	assert.Equal(t, findsAfterFirst, f.dartRepo.findCalls)
	assert.Equal(t, 1, f.finRepo.upsertCalls)
}

func TestGetOrFetch_FallsBackToEarlierYears(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2021)

	result, err := f.svc.GetOrFetch(context.Background(), testCompany, nil)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	assert.Equal(t, []int{2023, 2022, 2021}, f.dartRepo.statementCalls)
	assert.Equal(t, "2021", result.Data[0].BsnsYear)
}

func TestGetOrFetch_FallbackIsBounded(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2020)

	result, err := f.svc.GetOrFetch(context.Background(), testCompany, nil)
	require.NoError(t, err)

	assert.Equal(t, dto.StatusError, result.Status)
	assert.Equal(t, messageNoData, result.Message)
	assert.True(t, errors.Is(result.Err, ErrNoData))
	assert.Equal(t, []int{2023, 2022, 2021}, f.dartRepo.statementCalls)
	assert.Empty(t, f.finRepo.statements)
	assert.Empty(t, f.finRepo.ratios)
}

func TestGetOrFetch_ExplicitYearIsNotRetried(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2019)

	result, err := f.svc.GetOrFetch(context.Background(), testCompany, intPtr(2020))
	require.NoError(t, err)

	assert.False(t, result.IsSuccess())
	assert.Equal(t, []int{2020}, f.dartRepo.statementCalls)
}

func TestGetOrFetch_ExplicitYear(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2019)
	seedYear(f.dartRepo, 2020)

	_, err := f.svc.GetOrFetch(context.Background(), testCompany, intPtr(2020))
	require.NoError(t, err)
	result, err := f.svc.GetOrFetch(context.Background(), testCompany, intPtr(2019))
	require.NoError(t, err)

	require.True(t, result.IsSuccess())
	for _, row := range result.Data {
		assert.Equal(t, "2019", row.BsnsYear)
	}
	assert.Equal(t, []int{2020, 2019}, f.dartRepo.statementCalls)
}

func TestGetOrFetch_CompanyNotFound(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.svc.GetOrFetch(context.Background(), "없는회사", nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
	assert.Zero(t, f.dartRepo.dartCalls())
}

func TestGetOrFetch_UpstreamFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.dartRepo.statementErr = fmt.Errorf("%w: %v", ErrUpstream, errStubUpstream)

	result, err := f.svc.GetOrFetch(context.Background(), testCompany, intPtr(2023))
	require.NoError(t, err)

	assert.Equal(t, dto.StatusError, result.Status)
	assert.Equal(t, messageUpstream, result.Message)
	assert.ErrorIs(t, result.Err, ErrUpstream)
}

func TestGetOrFetch_CashFlowFailureKeepsStatements(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2023)
	f.dartRepo.cashFlowErr = fmt.Errorf("%w: %v", ErrUpstream, errStubUpstream)

	result, err := f.svc.GetOrFetch(context.Background(), testCompany, nil)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	assert.Len(t, result.Data, 8)
	for _, row := range result.Data {
		assert.NotEqual(t, entity.SectionCashFlow, row.SjDiv)
	}
}

func TestGetOrFetch_RatioFailureIsRetried(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2023)
	f.finRepo.upsertErr = errors.New("deadlock detected")

	result, err := f.svc.GetOrFetch(context.Background(), testCompany, nil)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Empty(t, f.finRepo.ratios)

	f.finRepo.upsertErr = nil
	_, err = f.svc.GetOrFetch(context.Background(), testCompany, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, f.finRepo.upsertCalls)
	assert.Contains(t, f.finRepo.ratios, ratioKey(testCorpCode, "2023"))

	_, err = f.svc.GetOrFetch(context.Background(), testCompany, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, f.finRepo.upsertCalls)
}

func TestGetCompanyInfo_ResolutionOrder(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	info, err := f.svc.GetCompanyInfo(ctx, testCompany)
	require.NoError(t, err)
	assert.Equal(t, testCorpCode, info.CorpCode)
	assert.Equal(t, 1, f.dartRepo.findCalls)
	assert.Contains(t, f.cache.entries, testCompany)

	_, err = f.svc.GetCompanyInfo(ctx, testCompany)
	require.NoError(t, err)
	assert.Equal(t, 1, f.dartRepo.findCalls)

	seedYear(f.dartRepo, 2023)
	_, err = f.svc.GetOrFetch(ctx, testCompany, nil)
	require.NoError(t, err)
	f.cache.getErr = errors.New("redis down")

	info, err = f.svc.GetCompanyInfo(ctx, testCompany)
	require.NoError(t, err)
	assert.Equal(t, "005930", info.StockCode)
	assert.Empty(t, info.ModifyDate, "stored rows carry no directory modify date")
	assert.Equal(t, 1, f.dartRepo.findCalls)
}

func TestGetCompanyInfo_CacheErrorFallsBackToDart(t *testing.T) {
	f := newServiceFixture(t)
	f.cache.getErr = errors.New("redis down")

	info, err := f.svc.GetCompanyInfo(context.Background(), testCompany)

	require.NoError(t, err)
	assert.Equal(t, testCorpCode, info.CorpCode)
	assert.Equal(t, 1, f.dartRepo.findCalls)
}

func TestGetRatios_LatestYearRounded(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2022)
	seedYear(f.dartRepo, 2023)
	ctx := context.Background()

	_, err := f.svc.GetOrFetch(ctx, testCompany, intPtr(2022))
	require.NoError(t, err)

	resp, err := f.svc.GetRatios(ctx, testCompany, nil)
	require.NoError(t, err)

	assert.Equal(t, dto.StatusSuccess, resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2022", resp.Data[0].BsnsYear)
	require.NotNil(t, resp.Data[0].DebtRatio)
	assert.Equal(t, 66.67, *resp.Data[0].DebtRatio)
	assert.Nil(t, resp.Data[0].InterestCoverageRatio)
}

func TestGetRatios_FetchesUnknownYear(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2023)

	resp, err := f.svc.GetRatios(context.Background(), testCompany, intPtr(2023))
	require.NoError(t, err)

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2023", resp.Data[0].BsnsYear)
	assert.Equal(t, []int{2023}, f.dartRepo.statementCalls)
}

func TestGetRatios_NoDataReturnsEmpty(t *testing.T) {
	f := newServiceFixture(t)

	resp, err := f.svc.GetRatios(context.Background(), testCompany, intPtr(2023))
	require.NoError(t, err)

	assert.Equal(t, dto.StatusSuccess, resp.Status)
	assert.Empty(t, resp.Data)
}

func TestGetMetrics(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2023)

	resp, err := f.svc.GetMetrics(context.Background(), testCompany)
	require.NoError(t, err)

	assert.Equal(t, []string{"2023"}, resp.FinancialMetrics.Years)
	assert.Equal(t, []float64{20}, resp.FinancialMetrics.ROE)
	assert.Equal(t, []float64{20}, resp.GrowthData.NetIncomeGrowth)
}

func TestGetMetrics_NoData(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.GetMetrics(context.Background(), testCompany)

	assert.ErrorIs(t, err, ErrNoData)
}

func TestRefresh_RefetchesYear(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2023)
	ctx := context.Background()

	_, err := f.svc.GetOrFetch(ctx, testCompany, intPtr(2023))
	require.NoError(t, err)

	f.dartRepo.statements[2023][0].ThstrmAmount = "2,000"
	result, err := f.svc.Refresh(ctx, testCompany, 2023)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	assert.Equal(t, []int{2023, 2023}, f.dartRepo.statementCalls)
	for _, row := range result.Data {
		if row.AccountNm == "자산총계" {
			assert.Equal(t, 2000.0, row.ThstrmAmount)
		}
	}
	// ratios are kept unless recomputation is enabled
	assert.Equal(t, 1, f.finRepo.upsertCalls)
}

func TestRefresh_RecomputeRatios(t *testing.T) {
	f := newServiceFixture(t)
	f.cfg.Cache.RecomputeRatios = true
	seedYear(f.dartRepo, 2023)
	ctx := context.Background()

	_, err := f.svc.GetOrFetch(ctx, testCompany, intPtr(2023))
	require.NoError(t, err)

	f.dartRepo.statements[2023][0].ThstrmAmount = "2,000"
	_, err = f.svc.Refresh(ctx, testCompany, 2023)
	require.NoError(t, err)

	assert.Equal(t, 2, f.finRepo.upsertCalls)
	ratio := f.finRepo.ratios[ratioKey(testCorpCode, "2023")]
	require.NotNil(t, ratio.ROA)
	assert.InDelta(t, 6.0, *ratio.ROA, delta)
}

func TestRefresh_UpstreamFailureKeepsStoredData(t *testing.T) {
	f := newServiceFixture(t)
	f.cfg.Cache.RecomputeRatios = true
	seedYear(f.dartRepo, 2023)
	ctx := context.Background()

	first, err := f.svc.GetOrFetch(ctx, testCompany, intPtr(2023))
	require.NoError(t, err)
	require.True(t, first.IsSuccess())

	f.dartRepo.statementErr = fmt.Errorf("%w: %v", ErrUpstream, errStubUpstream)
	result, err := f.svc.Refresh(ctx, testCompany, 2023)
	require.NoError(t, err)

	assert.Equal(t, dto.StatusError, result.Status)
	assert.ErrorIs(t, result.Err, ErrUpstream)

	stored, err := f.finRepo.ListStatements(ctx, testCompany, intPtr(2023))
	require.NoError(t, err)
	assert.Len(t, stored, len(first.Data))
	assert.Contains(t, f.finRepo.ratios, ratioKey(testCorpCode, "2023"))
	assert.Equal(t, 1, f.finRepo.upsertCalls)
}

func TestRefresh_NoDataKeepsStoredData(t *testing.T) {
	f := newServiceFixture(t)
	seedYear(f.dartRepo, 2023)
	ctx := context.Background()

	_, err := f.svc.GetOrFetch(ctx, testCompany, intPtr(2023))
	require.NoError(t, err)

	delete(f.dartRepo.statements, 2023)
	result, err := f.svc.Refresh(ctx, testCompany, 2023)
	require.NoError(t, err)

	assert.Equal(t, messageNoData, result.Message)
	stored, err := f.finRepo.ListStatements(ctx, testCompany, intPtr(2023))
	require.NoError(t, err)
	assert.Len(t, stored, 9)
}
