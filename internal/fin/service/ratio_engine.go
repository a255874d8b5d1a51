package service

import (
	"math"
	"strings"

	"golang-fin-scryper/internal/entity"
	"golang-fin-scryper/pkg/logger"
)

// Canonical DART account names used by the ratio computations.
const (
	AccountTotalAssets        = "자산총계"
	AccountTotalLiabilities   = "부채총계"
	AccountTotalEquity        = "자본총계"
	AccountCurrentAssets      = "유동자산"
	AccountCurrentLiabilities = "유동부채"
	AccountRevenue            = "매출액"
	AccountOperatingIncome    = "영업이익"
	AccountNetIncome          = "당기순이익"
	AccountInterestExpense    = "이자비용"
	AccountOperatingCashFlow  = "영업활동현금흐름"
	AccountBasicEPS           = "기본주당이익"
)

// Ratio names of a RatioSet.
const (
	RatioDebt                  = "debt_ratio"
	RatioCurrent               = "current_ratio"
	RatioInterestCoverage      = "interest_coverage_ratio"
	RatioOperatingProfit       = "operating_profit_ratio"
	RatioNetProfit             = "net_profit_ratio"
	RatioROE                   = "roe"
	RatioROA                   = "roa"
	RatioDebtDependency        = "debt_dependency"
	RatioCashFlowDebt          = "cash_flow_debt_ratio"
	RatioSalesGrowth           = "sales_growth"
	RatioOperatingProfitGrowth = "operating_profit_growth"
	RatioEPSGrowth             = "eps_growth"
	RatioNetIncomeGrowth       = "net_income_growth"
)

type aliasGroup struct {
	canonical string
	aliases   []string
}

var accountAliases = buildAccountAliases([]aliasGroup{
	{AccountRevenue, []string{"수익(매출액)", "영업수익", "매출"}},
	{AccountOperatingIncome, []string{"영업이익(손실)"}},
	{AccountNetIncome, []string{"당기순이익(손실)", "당기순손익"}},
	{AccountOperatingCashFlow, []string{"영업활동으로인한현금흐름", "영업활동현금흐름(유출)"}},
	{AccountBasicEPS, []string{"기본주당순이익", "기본주당이익(손실)", "기본주당순이익(손실)"}},
	{AccountInterestExpense, []string{"이자비용(금융원가)"}},
	{AccountTotalAssets, []string{"자산총계(비유동+유동)"}},
})

func buildAccountAliases(groups []aliasGroup) map[string]string {
	m := make(map[string]string)
	for _, g := range groups {
		for _, alias := range g.aliases {
			m[alias] = g.canonical
		}
	}
	return m
}

var borrowingAccounts = []string{"단기차입금", "장기차입금", "유동성장기부채", "사채", "차입금"}

// CanonicalAccount maps a DART account name to the name used in ratio lookups.
func CanonicalAccount(name string) string {
	stripped := strings.Join(strings.Fields(name), "")
	if alias, ok := accountAliases[stripped]; ok {
		return alias
	}
	return stripped
}

func canonicalSection(sjDiv string) string {
	if sjDiv == "CIS" {
		return entity.SectionIncomeStatement
	}
	return sjDiv
}

// AccountAmounts holds the three reported periods of one account.
type AccountAmounts struct {
	Current       float64
	Previous      float64
	PriorPrevious float64
}

// StatementIndex groups amounts by statement section and canonical account name.
type StatementIndex map[string]map[string]AccountAmounts

// IndexStatements builds a StatementIndex. When an account appears twice in a
// section the first record wins, so callers should pass records ordered by ord.
func IndexStatements(records []entity.FinancialStatement) StatementIndex {
	idx := StatementIndex{}
	for _, r := range records {
		section := canonicalSection(r.SjDiv)
		accounts, ok := idx[section]
		if !ok {
			accounts = map[string]AccountAmounts{}
			idx[section] = accounts
		}
		name := CanonicalAccount(r.AccountNm)
		if _, exists := accounts[name]; exists {
			continue
		}
		accounts[name] = AccountAmounts{
			Current:       r.ThstrmAmount,
			Previous:      r.FrmtrmAmount,
			PriorPrevious: r.BfefrmtrmAmount,
		}
	}
	return idx
}

// Get returns the amounts of an account in a section.
func (s StatementIndex) Get(section, account string) (AccountAmounts, bool) {
	accounts, ok := s[section]
	if !ok {
		return AccountAmounts{}, false
	}
	a, ok := accounts[account]
	return a, ok
}

func (s StatementIndex) current(section, account string) (float64, bool) {
	a, ok := s.Get(section, account)
	return a.Current, ok
}

// percentOf returns numerator/denominator*100, or false when the denominator is zero.
func percentOf(numerator, denominator float64) (float64, bool) {
	if denominator == 0 {
		return 0, false
	}
	return numerator / denominator * 100, true
}

// growthRate is the change against previous in percent of |previous|; 0 when previous is 0.
func growthRate(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}

// RatioSet maps ratio names to values. Ratios whose inputs are missing are absent.
type RatioSet map[string]float64

// RatioEngine derives the ratio set of one company-year.
type RatioEngine struct {
	log *logger.Logger
}

// NewRatioEngine creates a new RatioEngine.
func NewRatioEngine(log *logger.Logger) *RatioEngine {
	return &RatioEngine{log: log}
}

// Compute derives every ratio the records allow. An empty input yields an empty set.
func (e *RatioEngine) Compute(records []entity.FinancialStatement) RatioSet {
	ratios := RatioSet{}
	if len(records) == 0 {
		return ratios
	}

	idx := IndexStatements(records)
	bs := entity.SectionBalanceSheet
	is := entity.SectionIncomeStatement

	setPercent := func(name, numSection, numAccount, denSection, denAccount string) {
		num, ok := idx.current(numSection, numAccount)
		if !ok {
			return
		}
		den, ok := idx.current(denSection, denAccount)
		if !ok {
			return
		}
		if v, ok := percentOf(num, den); ok {
			ratios[name] = v
		}
	}

	setPercent(RatioDebt, bs, AccountTotalLiabilities, bs, AccountTotalEquity)
	setPercent(RatioCurrent, bs, AccountCurrentAssets, bs, AccountCurrentLiabilities)
	setPercent(RatioOperatingProfit, is, AccountOperatingIncome, is, AccountRevenue)
	setPercent(RatioNetProfit, is, AccountNetIncome, is, AccountRevenue)
	setPercent(RatioROA, is, AccountNetIncome, bs, AccountTotalAssets)
	setPercent(RatioROE, is, AccountNetIncome, bs, AccountTotalEquity)
	setPercent(RatioCashFlowDebt, entity.SectionCashFlow, AccountOperatingCashFlow, bs, AccountTotalLiabilities)

	if opIncome, ok := idx.current(is, AccountOperatingIncome); ok {
		if interest, ok := idx.current(is, AccountInterestExpense); ok && interest != 0 {
			ratios[RatioInterestCoverage] = opIncome / math.Abs(interest)
		}
	}

	if totalAssets, ok := idx.current(bs, AccountTotalAssets); ok {
		var borrowings float64
		found := false
		for _, account := range borrowingAccounts {
			if v, ok := idx.current(bs, account); ok {
				borrowings += v
				found = true
			}
		}
		if found {
			if v, ok := percentOf(borrowings, totalAssets); ok {
				ratios[RatioDebtDependency] = v
			}
		}
	}

	setGrowth := func(name, account string) {
		if a, ok := idx.Get(is, account); ok {
			ratios[name] = growthRate(a.Current, a.Previous)
		}
	}
	setGrowth(RatioSalesGrowth, AccountRevenue)
	setGrowth(RatioOperatingProfitGrowth, AccountOperatingIncome)
	setGrowth(RatioEPSGrowth, AccountBasicEPS)
	setGrowth(RatioNetIncomeGrowth, AccountNetIncome)

	e.log.Debug("Financial ratios computed", logger.IntField("ratios", len(ratios)), logger.IntField("records", len(records)))
	return ratios
}

// ToEntity converts a RatioSet into its stored form.
func (s RatioSet) ToEntity(corpCode, corpName, bsnsYear string) *entity.FinancialRatio {
	get := func(name string) *float64 {
		v, ok := s[name]
		if !ok {
			return nil
		}
		return &v
	}
	return &entity.FinancialRatio{
		CorpCode:              corpCode,
		CorpName:              corpName,
		BsnsYear:              bsnsYear,
		DebtRatio:             get(RatioDebt),
		CurrentRatio:          get(RatioCurrent),
		InterestCoverageRatio: get(RatioInterestCoverage),
		OperatingProfitRatio:  get(RatioOperatingProfit),
		NetProfitRatio:        get(RatioNetProfit),
		ROE:                   get(RatioROE),
		ROA:                   get(RatioROA),
		DebtDependency:        get(RatioDebtDependency),
		CashFlowDebtRatio:     get(RatioCashFlowDebt),
		SalesGrowth:           get(RatioSalesGrowth),
		OperatingProfitGrowth: get(RatioOperatingProfitGrowth),
		EPSGrowth:             get(RatioEPSGrowth),
		NetIncomeGrowth:       get(RatioNetIncomeGrowth),
	}
}
