package yahoo

import (
	"context"
	"time"

	"github.com/wnjoon/go-yfinance/pkg/models"

	"marketcolor/internal/domain/entity"
)

// Search はフリーテキストでシンボルとニュースを検索します。
func (c *Client) Search(ctx context.Context, query string, quotesCount, newsCount int) (entity.SearchResult, error) {
	params := models.SearchParams{Query: query, MaxResults: quotesCount, NewsCount: newsCount}
	res, err := callLibrary(ctx, c, "search", query, func() (*models.SearchResult, error) {
		return c.lib.Search(params)
	})
	if err != nil {
		return entity.SearchResult{}, err
	}
	if res == nil {
		res = &models.SearchResult{}
	}

	out := entity.SearchResult{
		Quotes: make([]entity.SearchQuote, 0, len(res.Quotes)),
		News:   make([]entity.NewsItem, 0, len(res.News)),
	}
	for _, r := range res.Quotes {
		if r.Symbol == "" {
			anomaly("search_missing_symbol")
			continue
		}
		out.Quotes = append(out.Quotes, entity.SearchQuote{
			Symbol:         r.Symbol,
			ShortName:      r.ShortName,
			LongName:       r.LongName,
			QuoteType:      r.QuoteType,
			IsYahooFinance: r.IsYahooFinance,
		})
	}
	for _, n := range res.News {
		if n.Title == "" || n.Link == "" {
			anomaly("news_incomplete")
			continue
		}
		item := entity.NewsItem{
			Title:     n.Title,
			Link:      n.Link,
			Publisher: firstNonEmpty(n.Publisher, "Unknown"),
		}
		if n.PublishTime > 0 {
			item.PublishedAt = time.Unix(n.PublishTime, 0).UTC()
		} else {
			item.PublishedAt = time.Now().UTC()
		}
		if n.Thumbnail != nil && len(n.Thumbnail.Resolutions) > 0 {
			item.Thumbnail = n.Thumbnail.Resolutions[0].URL
		}
		out.News = append(out.News, item)
	}
	return out, nil
}
