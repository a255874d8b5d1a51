package service

import (
	"strings"

	"golang-fin-scryper/pkg/logger"

	"github.com/shopspring/decimal"
)

// AmountNormalizer turns DART amount text into numbers.
type AmountNormalizer struct {
	log *logger.Logger
}

// NewAmountNormalizer creates a new AmountNormalizer.
func NewAmountNormalizer(log *logger.Logger) *AmountNormalizer {
	return &AmountNormalizer{log: log}
}

// Normalize parses text such as "1,234,567" or "-12,000". Empty text, the "-"
// placeholder and anything unparsable become 0; unparsable text is logged.
func (n *AmountNormalizer) Normalize(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" || s == "-" {
		return 0
	}

	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		n.log.Warn("Failed to convert amount", logger.StringField("amount", text), logger.ErrorField(err))
		return 0
	}
	return d.InexactFloat64()
}
