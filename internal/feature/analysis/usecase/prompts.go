package usecase

import (
	"fmt"
	"strings"

	"marketcolor/internal/domain/entity"
)

// stockContext はプロンプトに埋め込む銘柄情報です。プロフィールとニュースは取得できなかった場合ゼロ値です。
type stockContext struct {
	quote   entity.Quote
	profile entity.Profile
	news    []entity.NewsItem
}

func (c stockContext) summary() string {
	var b strings.Builder
	q := c.quote
	fmt.Fprintf(&b, "Stock: %s (%s)\n", q.Name, q.Symbol)
	fmt.Fprintf(&b, "Price: $%.2f (%+.2f%%)\n", q.Price, q.ChangePercent)
	if q.MarketCap != nil {
		fmt.Fprintf(&b, "Market Cap: $%.2fB\n", *q.MarketCap/1e9)
	}
	if q.PERatio != nil {
		fmt.Fprintf(&b, "P/E Ratio: %.2f\n", *q.PERatio)
	}
	if q.FiftyTwoWeekLow != nil && q.FiftyTwoWeekHigh != nil {
		fmt.Fprintf(&b, "52-Week Range: $%.2f - $%.2f\n", *q.FiftyTwoWeekLow, *q.FiftyTwoWeekHigh)
	}
	p := c.profile
	if p.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s\n", p.Sector)
	}
	if p.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", p.Industry)
	}
	if p.ProfitMargin != nil {
		fmt.Fprintf(&b, "Profit Margin: %.2f%%\n", *p.ProfitMargin*100)
	}
	if p.RevenueGrowth != nil {
		fmt.Fprintf(&b, "Revenue Growth: %.2f%%\n", *p.RevenueGrowth*100)
	}
	if p.RecommendationKey != "" {
		fmt.Fprintf(&b, "Analyst Consensus: %s\n", p.RecommendationKey)
	}
	if p.TargetMeanPrice != nil {
		fmt.Fprintf(&b, "Mean Target Price: $%.2f\n", *p.TargetMeanPrice)
	}
	return b.String()
}

func (c stockContext) headlines() string {
	if len(c.news) == 0 {
		return "No recent news available."
	}
	var b strings.Builder
	for _, n := range c.news {
		fmt.Fprintf(&b, "- %s (%s)\n", n.Title, n.Publisher)
	}
	return b.String()
}

func questionPrompt(symbol, question string) string {
	if question == "" {
		question = "Provide a general analysis."
	}
	return fmt.Sprintf(`You are a financial analyst. Analyze the stock %s.

Question: %s

Use current market information. Be concise and specific. Cite your sources.`, symbol, question)
}

func industryPrompt(c stockContext) string {
	return fmt.Sprintf(`You are an equity research analyst. Assess the industry and competitive position of the company below.
Cover market share, competitive moat, key competitors and industry trends.

%s`, c.summary())
}

func financialPrompt(c stockContext) string {
	return fmt.Sprintf(`You are an equity research analyst. Assess the financial health of the company below.
Cover valuation, profitability, growth and balance sheet strength.

%s`, c.summary())
}

func newsPrompt(c stockContext) string {
	return fmt.Sprintf(`You are an equity research analyst. Assess recent news flow and market sentiment for the company below.

%s
Recent headlines:
%s`, c.summary(), c.headlines())
}

func synthesisPrompt(c stockContext, industry, financial, news string) string {
	return fmt.Sprintf(`You are a senior portfolio manager. Using the research below, write an investment thesis for %s.

## Industry & Competitive Position
%s

## Financial Analysis
%s

## News & Sentiment
%s

%s`, c.quote.Symbol, industry, financial, news, thesisSections)
}

func thesisPrompt(c stockContext) string {
	return fmt.Sprintf(`You are a senior portfolio manager. Write an investment thesis for the company below.

%s
Recent headlines:
%s
%s`, c.summary(), c.headlines(), thesisSections)
}

const thesisSections = `Structure the thesis with these sections:
## Executive Summary
## Industry & Competitive Position
## Financial Analysis
## News & Sentiment
## Key Strengths
## Key Risks
## Recommendation`
