package service

import (
	"sort"

	"golang-fin-scryper/internal/entity"
	"golang-fin-scryper/internal/fin/dto"

	"github.com/shopspring/decimal"
)

var metricsAccounts = []struct {
	section string
	account string
}{
	{entity.SectionIncomeStatement, AccountRevenue},
	{entity.SectionIncomeStatement, AccountOperatingIncome},
	{entity.SectionIncomeStatement, AccountNetIncome},
	{entity.SectionBalanceSheet, AccountTotalAssets},
	{entity.SectionBalanceSheet, AccountTotalEquity},
	{entity.SectionBalanceSheet, AccountTotalLiabilities},
	{entity.SectionBalanceSheet, AccountCurrentAssets},
	{entity.SectionBalanceSheet, AccountCurrentLiabilities},
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// AggregateMetrics builds the yearly presentation metrics of a company from its stored rows.
// A year is skipped unless every required account is present with non-zero denominators.
func AggregateMetrics(companyName string, rows []entity.FinancialStatement) *dto.FinancialMetricsResponse {
	resp := &dto.FinancialMetricsResponse{
		CompanyName: companyName,
		FinancialMetrics: dto.FinancialMetrics{
			OperatingMargin: []float64{},
			NetMargin:       []float64{},
			ROE:             []float64{},
			ROA:             []float64{},
			Years:           []string{},
		},
		GrowthData: dto.GrowthData{
			RevenueGrowth:   []float64{},
			NetIncomeGrowth: []float64{},
			Years:           []string{},
		},
		DebtLiquidityData: dto.DebtLiquidityData{
			DebtRatio:    []float64{},
			CurrentRatio: []float64{},
			Years:        []string{},
		},
	}

	byYear := make(map[string][]entity.FinancialStatement)
	for _, r := range rows {
		byYear[r.BsnsYear] = append(byYear[r.BsnsYear], r)
	}
	years := make([]string, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Strings(years)

	for _, year := range years {
		idx := IndexStatements(byYear[year])
		amounts := make(map[string]AccountAmounts, len(metricsAccounts))
		complete := true
		for _, m := range metricsAccounts {
			a, ok := idx.Get(m.section, m.account)
			if !ok {
				complete = false
				break
			}
			amounts[m.account] = a
		}
		if !complete {
			continue
		}

		revenue := amounts[AccountRevenue]
		netIncome := amounts[AccountNetIncome]

		operatingMargin, ok1 := percentOf(amounts[AccountOperatingIncome].Current, revenue.Current)
		netMargin, ok2 := percentOf(netIncome.Current, revenue.Current)
		roe, ok3 := percentOf(netIncome.Current, amounts[AccountTotalEquity].Current)
		roa, ok4 := percentOf(netIncome.Current, amounts[AccountTotalAssets].Current)
		debtRatio, ok5 := percentOf(amounts[AccountTotalLiabilities].Current, amounts[AccountTotalEquity].Current)
		currentRatio, ok6 := percentOf(amounts[AccountCurrentAssets].Current, amounts[AccountCurrentLiabilities].Current)
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			continue
		}

		fm := &resp.FinancialMetrics
		fm.OperatingMargin = append(fm.OperatingMargin, round2(operatingMargin))
		fm.NetMargin = append(fm.NetMargin, round2(netMargin))
		fm.ROE = append(fm.ROE, round2(roe))
		fm.ROA = append(fm.ROA, round2(roa))
		fm.Years = append(fm.Years, year)

		gd := &resp.GrowthData
		gd.RevenueGrowth = append(gd.RevenueGrowth, round2(growthRate(revenue.Current, revenue.Previous)))
		gd.NetIncomeGrowth = append(gd.NetIncomeGrowth, round2(growthRate(netIncome.Current, netIncome.Previous)))
		gd.Years = append(gd.Years, year)

		dl := &resp.DebtLiquidityData
		dl.DebtRatio = append(dl.DebtRatio, round2(debtRatio))
		dl.CurrentRatio = append(dl.CurrentRatio, round2(currentRatio))
		dl.Years = append(dl.Years, year)
	}

	return resp
}
