package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketcolor/internal/feature/calendar/domain/entity"
)

// DateLayout は日付クエリとベンダーAPIで使用する形式です。
const DateLayout = "2006-01-02"

var (
	// ErrNotConfigured は決算カレンダーのAPIキーが設定されていないことを表します。
	ErrNotConfigured = errors.New("earnings calendar is not configured")
	// ErrInvalidRange は to が from より前であることを表します。
	ErrInvalidRange = errors.New("invalid date range")
)

// EarningsRepository は決算発表予定を取得するリポジトリのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
// 実装はIDを付与せず、Hourもベンダーの値のまま返します。
type EarningsRepository interface {
	GetEarnings(ctx context.Context, from, to string) ([]entity.EarningsEvent, error)
}

// EarningsUsecase は決算カレンダーのビジネスロジックを提供します。
type EarningsUsecase struct {
	repo EarningsRepository
}

// NewEarningsUsecase はEarningsUsecaseの新しいインスタンスを生成します。
// repoがnilの場合（APIキー未設定）、呼び出しは常に ErrNotConfigured を返します。
func NewEarningsUsecase(repo EarningsRepository) *EarningsUsecase {
	return &EarningsUsecase{repo: repo}
}

// GetEarningsCalendar は [from, to] の決算発表予定を取得し、IDと発表時間帯を正規化して返します。
func (u *EarningsUsecase) GetEarningsCalendar(ctx context.Context, from, to time.Time) ([]entity.EarningsEvent, error) {
	if u.repo == nil {
		return nil, ErrNotConfigured
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to %s is before from %s", ErrInvalidRange, to.Format(DateLayout), from.Format(DateLayout))
	}

	events, err := u.repo.GetEarnings(ctx, from.Format(DateLayout), to.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("get earnings: %w", err)
	}

	out := make([]entity.EarningsEvent, 0, len(events))
	for i, ev := range events {
		ev.Hour = NormalizeHour(ev.Hour)
		ev.ID = fmt.Sprintf("earnings-%s-%s-%d", ev.Symbol, ev.Date, i)
		out = append(out, ev)
	}
	return out, nil
}

// NormalizeHour はベンダーの発表時間帯をbmo/amc/dmhのいずれかに丸めます。未知の値はdmhとします。
func NormalizeHour(hour string) string {
	switch strings.ToLower(strings.TrimSpace(hour)) {
	case entity.HourBeforeOpen:
		return entity.HourBeforeOpen
	case entity.HourAfterClose:
		return entity.HourAfterClose
	default:
		return entity.HourDuringMarket
	}
}
