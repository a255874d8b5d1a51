package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"golang-fin-scryper/internal/entity"
	"golang-fin-scryper/internal/fin/dto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FinancialRepository defines the persistence operations for statements and ratios.
type FinancialRepository interface {
	FindCompanyByName(ctx context.Context, companyName string) (*dto.CompanyInfo, error)
	ListStatements(ctx context.Context, companyName string, year *int) ([]entity.FinancialStatement, error)
	ListStatementsByCorpYear(ctx context.Context, corpCode, bsnsYear string) ([]entity.FinancialStatement, error)
	ReplaceStatements(ctx context.Context, corpCode, bsnsYear string, statements []entity.FinancialStatement) error
	DeleteStatements(ctx context.Context, corpCode, rceptNo string, year *int) error
	LatestYear(ctx context.Context, corpCode string) (string, error)
	ListCompanies(ctx context.Context) ([]dto.CompanySummary, error)

	RatioExists(ctx context.Context, corpCode, bsnsYear string) (bool, error)
	UpsertRatioSet(ctx context.Context, ratio *entity.FinancialRatio) error
	DeleteRatioSet(ctx context.Context, corpCode, bsnsYear string) error
	FindRatios(ctx context.Context, corpCode string, year *int) ([]entity.FinancialRatio, error)
}

// NewFinancialRepository creates a new GORM-based financial repository.
func NewFinancialRepository(db *gorm.DB) FinancialRepository {
	return &financialRepository{db: db}
}

type financialRepository struct {
	db *gorm.DB
}

const statementOrder = "bsns_year desc, sj_div, ord"

// FindCompanyByName returns the identity stored with any statement row of the company, or nil.
func (r *financialRepository) FindCompanyByName(ctx context.Context, companyName string) (*dto.CompanyInfo, error) {
	var row entity.FinancialStatement
	err := r.db.WithContext(ctx).
		Select("corp_code", "corp_name", "stock_code").
		Where("corp_name = ?", companyName).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dto.CompanyInfo{
		CorpCode:  row.CorpCode,
		CorpName:  row.CorpName,
		StockCode: row.StockCode,
	}, nil
}

// ListStatements returns the stored statement lines of a company, optionally for one year.
func (r *financialRepository) ListStatements(ctx context.Context, companyName string, year *int) ([]entity.FinancialStatement, error) {
	var statements []entity.FinancialStatement
	q := r.db.WithContext(ctx).Where("corp_name = ?", companyName)
	if year != nil {
		q = q.Where("bsns_year = ?", strconv.Itoa(*year))
	}
	if err := q.Order(statementOrder).Find(&statements).Error; err != nil {
		return nil, err
	}
	return statements, nil
}

// ListStatementsByCorpYear returns the statement lines of one company-year.
func (r *financialRepository) ListStatementsByCorpYear(ctx context.Context, corpCode, bsnsYear string) ([]entity.FinancialStatement, error) {
	var statements []entity.FinancialStatement
	err := r.db.WithContext(ctx).
		Where("corp_code = ? AND bsns_year = ?", corpCode, bsnsYear).
		Order("sj_div, ord").
		Find(&statements).Error
	if err != nil {
		return nil, err
	}
	return statements, nil
}

// ReplaceStatements appends the given lines for a company-year, dropping any lines
// already stored for it in the same transaction. A concurrent writer that inserted
// the same lines first is overwritten line by line.
func (r *financialRepository) ReplaceStatements(ctx context.Context, corpCode, bsnsYear string, statements []entity.FinancialStatement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("corp_code = ? AND bsns_year = ?", corpCode, bsnsYear).
			Delete(&entity.FinancialStatement{}).Error; err != nil {
			return err
		}
		if len(statements) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "corp_code"},
				{Name: "bsns_year"},
				{Name: "sj_div"},
				{Name: "account_nm"},
				{Name: "ord"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"corp_name",
				"stock_code",
				"rcept_no",
				"reprt_code",
				"sj_nm",
				"thstrm_nm",
				"thstrm_amount",
				"frmtrm_nm",
				"frmtrm_amount",
				"bfefrmtrm_nm",
				"bfefrmtrm_amount",
				"currency",
			}),
		}).CreateInBatches(statements, 200).Error
	})
}

// DeleteStatements removes the lines of one submission, optionally restricted to a year.
func (r *financialRepository) DeleteStatements(ctx context.Context, corpCode, rceptNo string, year *int) error {
	q := r.db.WithContext(ctx).Where("corp_code = ? AND rcept_no = ?", corpCode, rceptNo)
	if year != nil {
		q = q.Where("bsns_year = ?", strconv.Itoa(*year))
	}
	return q.Delete(&entity.FinancialStatement{}).Error
}

// LatestYear returns the most recent business year stored for a company, or "" when none.
func (r *financialRepository) LatestYear(ctx context.Context, corpCode string) (string, error) {
	var year sql.NullString
	err := r.db.WithContext(ctx).
		Model(&entity.FinancialStatement{}).
		Where("corp_code = ?", corpCode).
		Select("MAX(bsns_year)").
		Row().
		Scan(&year)
	if err != nil {
		return "", err
	}
	return year.String, nil
}

// ListCompanies summarizes the stored statements per company.
func (r *financialRepository) ListCompanies(ctx context.Context) ([]dto.CompanySummary, error) {
	var summaries []dto.CompanySummary
	err := r.db.WithContext(ctx).Raw(`
	SELECT
		corp_code,
		MAX(corp_name) AS corp_name,
		MAX(stock_code) AS stock_code,
		array_agg(DISTINCT bsns_year ORDER BY bsns_year DESC) AS years,
		COUNT(*) AS row_count
	FROM fin_statements
	GROUP BY corp_code
	ORDER BY corp_name
`).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// RatioExists reports whether a ratio set is stored for the company-year.
func (r *financialRepository) RatioExists(ctx context.Context, corpCode, bsnsYear string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.FinancialRatio{}).
		Where("corp_code = ? AND bsns_year = ?", corpCode, bsnsYear).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertRatioSet replaces the ratio set of a company-year atomically.
// The conflict clause keeps concurrent writers for the same key idempotent.
func (r *financialRepository) UpsertRatioSet(ctx context.Context, ratio *entity.FinancialRatio) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("corp_code = ? AND bsns_year = ?", ratio.CorpCode, ratio.BsnsYear).
			Delete(&entity.FinancialRatio{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "corp_code"}, {Name: "bsns_year"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"corp_name",
				"debt_ratio",
				"current_ratio",
				"interest_coverage_ratio",
				"operating_profit_ratio",
				"net_profit_ratio",
				"roe",
				"roa",
				"debt_dependency",
				"cash_flow_debt_ratio",
				"sales_growth",
				"operating_profit_growth",
				"eps_growth",
				"net_income_growth",
				"updated_at",
			}),
		}).Create(ratio).Error
	})
}

// DeleteRatioSet removes the ratio set of a company-year.
func (r *financialRepository) DeleteRatioSet(ctx context.Context, corpCode, bsnsYear string) error {
	return r.db.WithContext(ctx).
		Where("corp_code = ? AND bsns_year = ?", corpCode, bsnsYear).
		Delete(&entity.FinancialRatio{}).Error
}

// FindRatios returns the stored ratio sets of a company, newest year first.
func (r *financialRepository) FindRatios(ctx context.Context, corpCode string, year *int) ([]entity.FinancialRatio, error) {
	var ratios []entity.FinancialRatio
	q := r.db.WithContext(ctx).Where("corp_code = ?", corpCode)
	if year != nil {
		q = q.Where("bsns_year = ?", strconv.Itoa(*year))
	}
	if err := q.Order("bsns_year desc").Find(&ratios).Error; err != nil {
		return nil, err
	}
	return ratios, nil
}
