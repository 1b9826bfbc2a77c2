package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// ReportRow is one line of an account statement.
type ReportRow struct {
	Date           Date            `json:"date"`
	ClientName     string          `json:"client_name"`
	AccountNumber  string          `json:"account_number"`
	AccountType    string          `json:"account_type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Active         bool            `json:"active"`
	MovementValue  decimal.Decimal `json:"movement_value"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// NewReportRow builds the statement line for m.
//
// The opening balance comes from the movement itself, so every row satisfies
// OpeningBalance + MovementValue == ClosingBalance on its own.
func NewReportRow(account Account, clientName string, m Movement) ReportRow {
	return ReportRow{
		Date:           m.Date,
		ClientName:     clientName,
		AccountNumber:  strconv.FormatInt(account.Number, 10),
		AccountType:    string(account.Type),
		OpeningBalance: m.ResultingBalance.Sub(m.Value),
		Active:         account.Active,
		MovementValue:  m.Value,
		ClosingBalance: m.ResultingBalance,
	}
}
