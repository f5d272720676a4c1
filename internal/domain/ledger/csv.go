package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Date layouts accepted by bank CSV exports, tried in order.
var csvDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02 Jan 2006",
}

// ParseCSVRow converts one CSV record (date, amount, merchant, description,
// category) into a confirmed Transaction. The trailing columns are optional.
func ParseCSVRow(record []string) (Transaction, error) {
	if len(record) < 3 {
		return Transaction{}, fmt.Errorf("expected at least 3 columns, got %d", len(record))
	}

	date, err := parseDate(strings.TrimSpace(record[0]))
	if err != nil {
		return Transaction{}, fmt.Errorf("parse date %q: %w", record[0], err)
	}

	amount, err := ParseAmount(strings.TrimSpace(record[1]))
	if err != nil {
		return Transaction{}, fmt.Errorf("parse amount %q: %w", record[1], err)
	}

	tx := Transaction{
		ID:                uuid.NewString(),
		Date:              date,
		Amount:            amount,
		Merchant:          strings.TrimSpace(record[2]),
		TransactionStatus: StatusConfirmed,
	}
	if len(record) > 3 {
		tx.Description = strings.TrimSpace(record[3])
	}
	if len(record) > 4 {
		tx.Category = strings.TrimSpace(record[4])
	}

	return tx, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Midnight(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// ParseAmount converts strings like "$1,234.56" or "-45.99" to a float64.
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)

	// Some exports wrap outflows in parentheses.
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}
