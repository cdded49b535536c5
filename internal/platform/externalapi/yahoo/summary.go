package yahoo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/wnjoon/go-yfinance/pkg/models"

	"marketcolor/internal/domain"
	"marketcolor/internal/domain/entity"
	"marketcolor/internal/platform/externalapi/yahoo/dto"
)

func (c *Client) quoteSummary(ctx context.Context, op, symbol string, modules ...string) (dto.QuoteSummary, error) {
	q := url.Values{}
	q.Set("modules", strings.Join(modules, ","))

	var body dto.QuoteSummaryResponse
	if err := c.getJSON(ctx, op, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), q, &body); err != nil {
		return dto.QuoteSummary{}, err
	}
	if e := body.QuoteSummary.Error; e != nil {
		return dto.QuoteSummary{}, apiError(op, e)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return dto.QuoteSummary{}, fmt.Errorf("yahoo %s %s: %w", op, symbol, domain.ErrNotFound)
	}
	return body.QuoteSummary.Result[0], nil
}

// GetProfile は企業概要と主要な財務比率を取得します。
// 概要に目標株価がない場合のみアナリスト目標株価を取りに行き、取得できなければ省略します。
func (c *Client) GetProfile(ctx context.Context, symbol string) (entity.Profile, error) {
	info, err := callLibrary(ctx, c, "profile", symbol, func() (*models.Info, error) {
		return c.lib.Info(symbol)
	})
	if err != nil {
		return entity.Profile{}, err
	}
	if info == nil {
		return entity.Profile{}, fmt.Errorf("yahoo profile %s: %w", symbol, domain.ErrNotFound)
	}

	p := entity.Profile{
		Industry:          info.Industry,
		Sector:            info.Sector,
		Website:           info.Website,
		Description:       info.LongBusinessSummary,
		ProfitMargin:      nonZero(info.ProfitMargins),
		OperatingMargin:   nonZero(info.OperatingMargins),
		ReturnOnEquity:    nonZero(info.ReturnOnEquity),
		RevenueGrowth:     nonZero(info.RevenueGrowth),
		TargetMeanPrice:   positive(info.TargetMeanPrice),
		RecommendationKey: info.RecommendationKey,
		NumberOfAnalysts:  positive(float64(info.NumberOfAnalystOpinions)),
	}
	if p.TargetMeanPrice != nil {
		return p, nil
	}

	pt, err := callLibrary(ctx, c, "price_targets", symbol, func() (*models.PriceTarget, error) {
		return c.lib.PriceTargets(symbol)
	})
	if err != nil {
		slog.Warn("price targets unavailable", "symbol", symbol, "error", err)
		return p, nil
	}
	if pt != nil {
		target := pt.Mean
		if target <= 0 {
			target = pt.Median
		}
		p.TargetMeanPrice = positive(target)
		p.RecommendationKey = firstNonEmpty(p.RecommendationKey, pt.RecommendationKey)
		if p.NumberOfAnalysts == nil {
			p.NumberOfAnalysts = positive(float64(pt.NumberOfAnalysts))
		}
	}
	return p, nil
}

// GetAnalystData はレーティング推移と格付け変更履歴を取得します。どちらも空の場合は domain.ErrNotFound を返します。
// 格付け変更履歴はライブラリにないため upgradeDowngradeHistory モジュールを直接取得します。
func (c *Client) GetAnalystData(ctx context.Context, symbol string) (entity.AnalystData, error) {
	trend, err := callLibrary(ctx, c, "analysts", symbol, func() (*models.RecommendationTrend, error) {
		return c.lib.Recommendations(symbol)
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return entity.AnalystData{}, err
	}

	out := entity.AnalystData{
		Recommendations:         []entity.RecommendationTrend{},
		UpgradeDowngradeHistory: []entity.UpgradeDowngrade{},
	}
	if trend != nil {
		for i, r := range trend.Trend {
			out.Recommendations = append(out.Recommendations, entity.RecommendationTrend{
				// 推移は直近の月から並ぶ
				Period:     firstNonEmpty(r.Period, fmt.Sprintf("%dm", -i)),
				StrongBuy:  r.StrongBuy,
				Buy:        r.Buy,
				Hold:       r.Hold,
				Sell:       r.Sell,
				StrongSell: r.StrongSell,
			})
		}
	}

	s, err := c.quoteSummary(ctx, "analysts", symbol, "upgradeDowngradeHistory")
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return entity.AnalystData{}, err
	}
	if h := s.UpgradeDowngradeHistory; err == nil && h != nil {
		for _, u := range h.History {
			out.UpgradeDowngradeHistory = append(out.UpgradeDowngradeHistory, entity.UpgradeDowngrade{
				Date:      formatDate(u.EpochGradeDate),
				Firm:      u.Firm,
				ToGrade:   u.ToGrade,
				FromGrade: u.FromGrade,
				Action:    u.Action,
			})
		}
	}
	if len(out.Recommendations) == 0 && len(out.UpgradeDowngradeHistory) == 0 {
		return entity.AnalystData{}, fmt.Errorf("yahoo analysts %s: %w", symbol, domain.ErrNotFound)
	}
	return out, nil
}

type holders struct {
	institutions []models.Holder
	insiders     []models.InsiderHolder
}

// GetOwnership は機関投資家と内部関係者の保有状況を取得します。どちらも空の場合は domain.ErrNotFound を返します。
func (c *Client) GetOwnership(ctx context.Context, symbol string) (entity.OwnershipData, error) {
	h, err := callLibrary(ctx, c, "ownership", symbol, func() (holders, error) {
		inst, ins, err := c.lib.Holders(symbol)
		return holders{institutions: inst, insiders: ins}, err
	})
	if err != nil {
		return entity.OwnershipData{}, err
	}

	out := entity.OwnershipData{
		InstitutionalHolders: make([]entity.InstitutionalHolder, 0, len(h.institutions)),
		InsiderHolders:       make([]entity.InsiderHolder, 0, len(h.insiders)),
	}
	for _, r := range h.institutions {
		if r.Holder == "" {
			anomaly("holder_missing_name")
			continue
		}
		var reported string
		if !r.DateReported.IsZero() {
			reported = formatDate(r.DateReported.Unix())
		}
		out.InstitutionalHolders = append(out.InstitutionalHolders, entity.InstitutionalHolder{
			Organization: r.Holder,
			PctHeld:      r.PctHeld,
			Position:     float64(r.Shares),
			Value:        r.Value,
			ReportDate:   reported,
		})
	}
	for _, r := range h.insiders {
		if r.Name == "" {
			anomaly("holder_missing_name")
			continue
		}
		var latest string
		if r.LatestTransDate != nil {
			latest = formatDate(r.LatestTransDate.Unix())
		}
		out.InsiderHolders = append(out.InsiderHolders, entity.InsiderHolder{
			Name:                   r.Name,
			Relation:               r.Position,
			TransactionDescription: r.MostRecentTransaction,
			LatestTransDate:        latest,
			PositionDirect:         positive(float64(r.SharesOwnedDirectly)),
		})
	}
	if len(out.InstitutionalHolders) == 0 && len(out.InsiderHolders) == 0 {
		return entity.OwnershipData{}, fmt.Errorf("yahoo ownership %s: %w", symbol, domain.ErrNotFound)
	}
	return out, nil
}

// GetFinancials は年次の損益計算書・貸借対照表・キャッシュフロー計算書を取得します。
// ライブラリの財務諸表は時系列APIの項目名で返るため、quoteSummary の履歴モジュールを直接取得します。
func (c *Client) GetFinancials(ctx context.Context, symbol string) (entity.FinancialStatements, error) {
	s, err := c.quoteSummary(ctx, "financials", symbol,
		"incomeStatementHistory", "balanceSheetHistory", "cashflowStatementHistory")
	if err != nil {
		return entity.FinancialStatements{}, err
	}

	out := entity.FinancialStatements{
		IncomeStatementHistory: []entity.IncomeStatement{},
		BalanceSheetHistory:    []entity.BalanceSheet{},
		CashFlowHistory:        []entity.CashFlowStatement{},
	}
	if h := s.IncomeStatementHistory; h != nil {
		for _, st := range h.Statements {
			out.IncomeStatementHistory = append(out.IncomeStatementHistory, entity.IncomeStatement{
				EndDate:                      st.EndDate(),
				TotalRevenue:                 st.Raw("totalRevenue"),
				GrossProfit:                  st.Raw("grossProfit"),
				OperatingIncome:              st.Raw("operatingIncome"),
				NetIncome:                    st.Raw("netIncome"),
				Ebit:                         st.Raw("ebit"),
				CostOfRevenue:                st.Raw("costOfRevenue"),
				ResearchDevelopment:          st.Raw("researchDevelopment"),
				SellingGeneralAdministrative: st.Raw("sellingGeneralAdministrative"),
			})
		}
	}
	if h := s.BalanceSheetHistory; h != nil {
		for _, st := range h.Statements {
			out.BalanceSheetHistory = append(out.BalanceSheetHistory, entity.BalanceSheet{
				EndDate:                 st.EndDate(),
				TotalAssets:             st.Raw("totalAssets"),
				TotalLiab:               st.Raw("totalLiab"),
				TotalStockholderEquity:  st.Raw("totalStockholderEquity"),
				Cash:                    st.Raw("cash"),
				ShortTermInvestments:    st.Raw("shortTermInvestments"),
				TotalCurrentAssets:      st.Raw("totalCurrentAssets"),
				TotalCurrentLiabilities: st.Raw("totalCurrentLiabilities"),
				LongTermDebt:            st.Raw("longTermDebt"),
				RetainedEarnings:        st.Raw("retainedEarnings"),
			})
		}
	}
	if h := s.CashflowStatementHistory; h != nil {
		for _, st := range h.Statements {
			out.CashFlowHistory = append(out.CashFlowHistory, entity.CashFlowStatement{
				EndDate:                               st.EndDate(),
				TotalCashFromOperatingActivities:      st.Raw("totalCashFromOperatingActivities"),
				TotalCashflowsFromInvestingActivities: st.Raw("totalCashflowsFromInvestingActivities"),
				TotalCashFromFinancingActivities:      st.Raw("totalCashFromFinancingActivities"),
				CapitalExpenditures:                   st.Raw("capitalExpenditures"),
				DividendsPaid:                         st.Raw("dividendsPaid"),
				NetIncome:                             st.Raw("netIncome"),
				Depreciation:                          st.Raw("depreciation"),
				ChangeInCash:                          st.Raw("changeInCash"),
			})
		}
	}
	if len(out.IncomeStatementHistory) == 0 && len(out.BalanceSheetHistory) == 0 && len(out.CashFlowHistory) == 0 {
		return entity.FinancialStatements{}, fmt.Errorf("yahoo financials %s: %w", symbol, domain.ErrNotFound)
	}
	return out, nil
}
