package entity

// Profile is company descriptive data and headline financial ratios.
type Profile struct {
	Industry          string   `json:"industry,omitempty"`
	Sector            string   `json:"sector,omitempty"`
	Website           string   `json:"website,omitempty"`
	Description       string   `json:"description,omitempty"`
	ProfitMargin      *float64 `json:"profitMargin,omitempty"`
	OperatingMargin   *float64 `json:"operatingMargin,omitempty"`
	ReturnOnEquity    *float64 `json:"returnOnEquity,omitempty"`
	RevenueGrowth     *float64 `json:"revenueGrowth,omitempty"`
	TargetMeanPrice   *float64 `json:"targetMeanPrice,omitempty"`
	RecommendationKey string   `json:"recommendationKey,omitempty"`
	NumberOfAnalysts  *float64 `json:"numberOfAnalysts,omitempty"`
}

// RecommendationTrend counts analyst ratings for one period ("0m", "-1m", ...).
type RecommendationTrend struct {
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// UpgradeDowngrade is one rating change by a research firm.
type UpgradeDowngrade struct {
	Date      string `json:"date"`
	Firm      string `json:"firm"`
	ToGrade   string `json:"toGrade"`
	FromGrade string `json:"fromGrade,omitempty"`
	Action    string `json:"action"`
}

// AnalystData is the analysts tab of a stock.
type AnalystData struct {
	Recommendations         []RecommendationTrend `json:"recommendations"`
	UpgradeDowngradeHistory []UpgradeDowngrade    `json:"upgradeDowngradeHistory"`
}

// InstitutionalHolder is one institution's position.
type InstitutionalHolder struct {
	Organization string  `json:"organization"`
	PctHeld      float64 `json:"pctHeld"`
	Position     float64 `json:"position"`
	Value        float64 `json:"value"`
	ReportDate   string  `json:"reportDate,omitempty"`
}

// InsiderHolder is one insider's latest disclosed position.
type InsiderHolder struct {
	Name                   string   `json:"name"`
	Relation               string   `json:"relation"`
	TransactionDescription string   `json:"transactionDescription,omitempty"`
	LatestTransDate        string   `json:"latestTransDate,omitempty"`
	PositionDirect         *float64 `json:"positionDirect,omitempty"`
}

// OwnershipData is the ownership tab of a stock.
type OwnershipData struct {
	InstitutionalHolders []InstitutionalHolder `json:"institutionalHolders"`
	InsiderHolders       []InsiderHolder       `json:"insiderHolders"`
}

// IncomeStatement is one annual income statement.
type IncomeStatement struct {
	EndDate                      string   `json:"endDate"`
	TotalRevenue                 *float64 `json:"totalRevenue,omitempty"`
	GrossProfit                  *float64 `json:"grossProfit,omitempty"`
	OperatingIncome              *float64 `json:"operatingIncome,omitempty"`
	NetIncome                    *float64 `json:"netIncome,omitempty"`
	Ebit                         *float64 `json:"ebit,omitempty"`
	CostOfRevenue                *float64 `json:"costOfRevenue,omitempty"`
	ResearchDevelopment          *float64 `json:"researchDevelopment,omitempty"`
	SellingGeneralAdministrative *float64 `json:"sellingGeneralAdministrative,omitempty"`
}

// BalanceSheet is one annual balance sheet.
type BalanceSheet struct {
	EndDate                 string   `json:"endDate"`
	TotalAssets             *float64 `json:"totalAssets,omitempty"`
	TotalLiab               *float64 `json:"totalLiab,omitempty"`
	TotalStockholderEquity  *float64 `json:"totalStockholderEquity,omitempty"`
	Cash                    *float64 `json:"cash,omitempty"`
	ShortTermInvestments    *float64 `json:"shortTermInvestments,omitempty"`
	TotalCurrentAssets      *float64 `json:"totalCurrentAssets,omitempty"`
	TotalCurrentLiabilities *float64 `json:"totalCurrentLiabilities,omitempty"`
	LongTermDebt            *float64 `json:"longTermDebt,omitempty"`
	RetainedEarnings        *float64 `json:"retainedEarnings,omitempty"`
}

// CashFlowStatement is one annual cash flow statement.
type CashFlowStatement struct {
	EndDate                               string   `json:"endDate"`
	TotalCashFromOperatingActivities      *float64 `json:"totalCashFromOperatingActivities,omitempty"`
	TotalCashflowsFromInvestingActivities *float64 `json:"totalCashflowsFromInvestingActivities,omitempty"`
	TotalCashFromFinancingActivities      *float64 `json:"totalCashFromFinancingActivities,omitempty"`
	CapitalExpenditures                   *float64 `json:"capitalExpenditures,omitempty"`
	DividendsPaid                         *float64 `json:"dividendsPaid,omitempty"`
	NetIncome                             *float64 `json:"netIncome,omitempty"`
	Depreciation                          *float64 `json:"depreciation,omitempty"`
	ChangeInCash                          *float64 `json:"changeInCash,omitempty"`
}

// FinancialStatements is the financials tab of a stock.
type FinancialStatements struct {
	IncomeStatementHistory []IncomeStatement   `json:"incomeStatementHistory"`
	BalanceSheetHistory    []BalanceSheet      `json:"balanceSheetHistory"`
	CashFlowHistory        []CashFlowStatement `json:"cashFlowHistory"`
}

// OptionContract is one call or put.
type OptionContract struct {
	ContractSymbol    string   `json:"contractSymbol"`
	Strike            float64  `json:"strike"`
	LastPrice         *float64 `json:"lastPrice,omitempty"`
	Bid               *float64 `json:"bid,omitempty"`
	Ask               *float64 `json:"ask,omitempty"`
	Change            *float64 `json:"change,omitempty"`
	PercentChange     *float64 `json:"percentChange,omitempty"`
	Volume            *float64 `json:"volume,omitempty"`
	OpenInterest      *float64 `json:"openInterest,omitempty"`
	ImpliedVolatility *float64 `json:"impliedVolatility,omitempty"`
	InTheMoney        bool     `json:"inTheMoney"`
	Expiration        string   `json:"expiration"`
}

// OptionsChain is the chain for one expiration plus every available expiration.
type OptionsChain struct {
	ExpirationDates []string         `json:"expirationDates"`
	Calls           []OptionContract `json:"calls"`
	Puts            []OptionContract `json:"puts"`
	UnderlyingPrice float64          `json:"underlyingPrice"`
}
