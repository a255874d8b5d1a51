package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang-fin-scryper/internal/entity"
	"golang-fin-scryper/internal/fin/dto"
	"golang-fin-scryper/internal/fin/repository"
)

type stubFinancialRepository struct {
	mu          sync.Mutex
	statements  []entity.FinancialStatement
	ratios      map[string]*entity.FinancialRatio
	upsertCalls int
	upsertErr   error
	nextID      uint
}

func newStubFinancialRepository() *stubFinancialRepository {
	return &stubFinancialRepository{ratios: map[string]*entity.FinancialRatio{}}
}

func ratioKey(corpCode, bsnsYear string) string {
	return corpCode + "/" + bsnsYear
}

func (r *stubFinancialRepository) FindCompanyByName(ctx context.Context, companyName string) (*dto.CompanyInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.statements {
		if s.CorpName == companyName {
			return &dto.CompanyInfo{CorpCode: s.CorpCode, CorpName: s.CorpName, StockCode: s.StockCode}, nil
		}
	}
	return nil, nil
}

func (r *stubFinancialRepository) ListStatements(ctx context.Context, companyName string, year *int) ([]entity.FinancialStatement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.FinancialStatement
	for _, s := range r.statements {
		if s.CorpName != companyName {
			continue
		}
		if year != nil && s.BsnsYear != strconv.Itoa(*year) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *stubFinancialRepository) ListStatementsByCorpYear(ctx context.Context, corpCode, bsnsYear string) ([]entity.FinancialStatement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.FinancialStatement
	for _, s := range r.statements {
		if s.CorpCode == corpCode && s.BsnsYear == bsnsYear {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubFinancialRepository) ReplaceStatements(ctx context.Context, corpCode, bsnsYear string, statements []entity.FinancialStatement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.statements[:0]
	for _, s := range r.statements {
		if s.CorpCode == corpCode && s.BsnsYear == bsnsYear {
			continue
		}
		kept = append(kept, s)
	}
	r.statements = kept
	for _, s := range statements {
		r.nextID++
		s.ID = r.nextID
		r.statements = append(r.statements, s)
	}
	return nil
}

func (r *stubFinancialRepository) DeleteStatements(ctx context.Context, corpCode, rceptNo string, year *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.statements[:0]
	for _, s := range r.statements {
		if s.CorpCode == corpCode && s.RceptNo == rceptNo && (year == nil || s.BsnsYear == strconv.Itoa(*year)) {
			continue
		}
		kept = append(kept, s)
	}
	r.statements = kept
	return nil
}

func (r *stubFinancialRepository) LatestYear(ctx context.Context, corpCode string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := ""
	for _, s := range r.statements {
		if s.CorpCode == corpCode && s.BsnsYear > latest {
			latest = s.BsnsYear
		}
	}
	return latest, nil
}

func (r *stubFinancialRepository) ListCompanies(ctx context.Context) ([]dto.CompanySummary, error) {
	return nil, nil
}

func (r *stubFinancialRepository) RatioExists(ctx context.Context, corpCode, bsnsYear string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ratios[ratioKey(corpCode, bsnsYear)]
	return ok, nil
}

func (r *stubFinancialRepository) UpsertRatioSet(ctx context.Context, ratio *entity.FinancialRatio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertCalls++
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.ratios[ratioKey(ratio.CorpCode, ratio.BsnsYear)] = ratio
	return nil
}

func (r *stubFinancialRepository) DeleteRatioSet(ctx context.Context, corpCode, bsnsYear string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ratios, ratioKey(corpCode, bsnsYear))
	return nil
}

func (r *stubFinancialRepository) FindRatios(ctx context.Context, corpCode string, year *int) ([]entity.FinancialRatio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.FinancialRatio
	for _, ratio := range r.ratios {
		if ratio.CorpCode != corpCode {
			continue
		}
		if year != nil && ratio.BsnsYear != strconv.Itoa(*year) {
			continue
		}
		out = append(out, *ratio)
	}
	return out, nil
}

type stubDartRepository struct {
	mu             sync.Mutex
	companies      map[string]*dto.CompanyInfo
	statements     map[int][]dto.RawStatementLine
	cashFlows      map[int][]dto.RawStatementLine
	statementErr   error
	cashFlowErr    error
	findCalls      int
	statementCalls []int
	cashFlowCalls  int
}

func newStubDartRepository() *stubDartRepository {
	return &stubDartRepository{
		companies:  map[string]*dto.CompanyInfo{},
		statements: map[int][]dto.RawStatementLine{},
		cashFlows:  map[int][]dto.RawStatementLine{},
	}
}

func (d *stubDartRepository) FindCompany(ctx context.Context, companyName string) (*dto.CompanyInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.findCalls++
	info, ok := d.companies[companyName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrCompanyNotFound, companyName)
	}
	copied := *info
	return &copied, nil
}

func (d *stubDartRepository) FetchStatements(ctx context.Context, corpCode string, year int) ([]dto.RawStatementLine, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statementCalls = append(d.statementCalls, year)
	if d.statementErr != nil {
		return nil, d.statementErr
	}
	lines, ok := d.statements[year]
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", repository.ErrNoData, corpCode, year)
	}
	return lines, nil
}

func (d *stubDartRepository) FetchCashFlow(ctx context.Context, corpCode string, year int) ([]dto.RawStatementLine, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cashFlowCalls++
	if d.cashFlowErr != nil {
		return nil, d.cashFlowErr
	}
	lines, ok := d.cashFlows[year]
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", repository.ErrNoData, corpCode, year)
	}
	return lines, nil
}

func (d *stubDartRepository) dartCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.statementCalls) + d.cashFlowCalls
}

type stubCompanyCache struct {
	mu      sync.Mutex
	entries map[string]*dto.CompanyInfo
	getErr  error
}

func newStubCompanyCache() *stubCompanyCache {
	return &stubCompanyCache{entries: map[string]*dto.CompanyInfo{}}
}

func (c *stubCompanyCache) Get(ctx context.Context, companyName string) (*dto.CompanyInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[companyName], nil
}

func (c *stubCompanyCache) Set(ctx context.Context, info *dto.CompanyInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[info.CorpName] = info
	return nil
}

var errStubUpstream = errors.New("stub upstream failure")
