package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketcolor/internal/feature/calendar/domain/entity"
	"marketcolor/internal/feature/calendar/usecase"
)

// mockEarningsRepository はEarningsRepositoryインターフェースのモック実装です。
type mockEarningsRepository struct {
	GetEarningsFunc  func(ctx context.Context, from, to string) ([]entity.EarningsEvent, error)
	GetEarningsCalls int
	lastFrom, lastTo string
}

func (m *mockEarningsRepository) GetEarnings(ctx context.Context, from, to string) ([]entity.EarningsEvent, error) {
	m.GetEarningsCalls++
	m.lastFrom, m.lastTo = from, to
	if m.GetEarningsFunc != nil {
		return m.GetEarningsFunc(ctx, from, to)
	}
	return nil, errors.New("GetEarningsFunc is not implemented")
}

func date(s string) time.Time {
	t, err := time.Parse(usecase.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// TestEarningsUsecase_GetEarningsCalendar はID付与・時間帯正規化・エラー伝播を検証します。
func TestEarningsUsecase_GetEarningsCalendar(t *testing.T) {
	t.Parallel()

	eps := 1.25
	vendorErr := errors.New("finnhub http 500")

	tests := []struct {
		name      string
		from, to  string
		events    []entity.EarningsEvent
		repoErr   error
		want      []entity.EarningsEvent
		wantErr   error
		wantCalls int
	}{
		{
			name: "assigns ids by position and normalizes hour",
			from: "2026-01-12", to: "2026-01-16",
			events: []entity.EarningsEvent{
				{Symbol: "JPM", Date: "2026-01-13", Hour: "BMO", Quarter: 4, Year: 2025, EpsEstimate: &eps},
				{Symbol: "NFLX", Date: "2026-01-15", Hour: "amc", Quarter: 4, Year: 2025},
				{Symbol: "JPM", Date: "2026-01-13", Hour: "", Quarter: 4, Year: 2025},
			},
			want: []entity.EarningsEvent{
				{ID: "earnings-JPM-2026-01-13-0", Symbol: "JPM", Date: "2026-01-13", Hour: "bmo", Quarter: 4, Year: 2025, EpsEstimate: &eps},
				{ID: "earnings-NFLX-2026-01-15-1", Symbol: "NFLX", Date: "2026-01-15", Hour: "amc", Quarter: 4, Year: 2025},
				{ID: "earnings-JPM-2026-01-13-2", Symbol: "JPM", Date: "2026-01-13", Hour: "dmh", Quarter: 4, Year: 2025},
			},
			wantCalls: 1,
		},
		{
			name: "empty calendar",
			from: "2026-01-01", to: "2026-01-01",
			events:    nil,
			want:      []entity.EarningsEvent{},
			wantCalls: 1,
		},
		{
			name: "to before from",
			from: "2026-02-01", to: "2026-01-01",
			wantErr:   usecase.ErrInvalidRange,
			wantCalls: 0,
		},
		{
			name: "vendor error",
			from: "2026-01-01", to: "2026-01-31",
			repoErr:   vendorErr,
			wantErr:   vendorErr,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockEarningsRepository{
				GetEarningsFunc: func(ctx context.Context, from, to string) ([]entity.EarningsEvent, error) {
					return tt.events, tt.repoErr
				},
			}
			uc := usecase.NewEarningsUsecase(repo)

			got, err := uc.GetEarningsCalendar(context.Background(), date(tt.from), date(tt.to))

			assert.Equal(t, tt.wantCalls, repo.GetEarningsCalls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.from, repo.lastFrom)
			assert.Equal(t, tt.to, repo.lastTo)
		})
	}
}

func TestEarningsUsecase_NotConfigured(t *testing.T) {
	t.Parallel()

	uc := usecase.NewEarningsUsecase(nil)
	_, err := uc.GetEarningsCalendar(context.Background(), date("2026-01-01"), date("2026-01-02"))
	assert.ErrorIs(t, err, usecase.ErrNotConfigured)
}

func TestNormalizeHour(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"bmo": "bmo", "BMO": "bmo", " amc ": "amc", "dmh": "dmh", "": "dmh", "unknown": "dmh",
	} {
		assert.Equal(t, want, usecase.NormalizeHour(in), "input %q", in)
	}
}
