package service

import (
	"context"

	"golang-fin-scryper/internal/entity"
	"golang-fin-scryper/internal/fin/repository"
)

// StatementCache decides whether stored statements can answer a request without calling DART.
type StatementCache interface {
	Lookup(ctx context.Context, companyName string, year *int) ([]entity.FinancialStatement, bool, error)
}

// neverExpireCache treats any stored row for the requested scope as a hit. Stored
// statements are never refetched except through a forced refresh.
type neverExpireCache struct {
	finRepo repository.FinancialRepository
}

// NewNeverExpireCache creates a StatementCache backed by the statement store.
func NewNeverExpireCache(finRepo repository.FinancialRepository) StatementCache {
	return &neverExpireCache{finRepo: finRepo}
}

// Lookup returns the stored rows of the scope and whether there were any.
func (c *neverExpireCache) Lookup(ctx context.Context, companyName string, year *int) ([]entity.FinancialStatement, bool, error) {
	rows, err := c.finRepo.ListStatements(ctx, companyName, year)
	if err != nil {
		return nil, false, err
	}
	return rows, len(rows) > 0, nil
}
