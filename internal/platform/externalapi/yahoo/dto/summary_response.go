package dto

import "encoding/json"

// Value is Yahoo's formatted number wrapper: {"raw": 1.5, "fmt": "1.50"}.
// An empty object means the value is unavailable.
type Value struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

// QuoteSummaryResponse is the body of /v10/finance/quoteSummary/{symbol}.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummary `json:"result"`
		Error  *APIError      `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummary holds the modules requested with ?modules=.
type QuoteSummary struct {
	UpgradeDowngradeHistory *struct {
		History []struct {
			EpochGradeDate int64  `json:"epochGradeDate"`
			Firm           string `json:"firm"`
			ToGrade        string `json:"toGrade"`
			FromGrade      string `json:"fromGrade"`
			Action         string `json:"action"`
		} `json:"history"`
	} `json:"upgradeDowngradeHistory"`

	IncomeStatementHistory *struct {
		Statements []Statement `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`

	BalanceSheetHistory *struct {
		Statements []Statement `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`

	CashflowStatementHistory *struct {
		Statements []Statement `json:"cashflowStatements"`
	} `json:"cashflowStatementHistory"`
}

// Statement is one period of a financial statement. Line items are keyed by
// Yahoo's field names; non-Value members such as maxAge are ignored on lookup.
type Statement map[string]json.RawMessage

func (s Statement) value(key string) Value {
	var v Value
	if raw, ok := s[key]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

// EndDate returns the formatted period end date.
func (s Statement) EndDate() string {
	return s.value("endDate").Fmt
}

// Raw returns the raw value of a line item, nil when absent.
func (s Statement) Raw(key string) *float64 {
	return s.value(key).Raw
}
