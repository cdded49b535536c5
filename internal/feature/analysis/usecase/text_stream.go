package usecase

import (
	"context"
	"iter"
	"time"
)

const (
	// DefaultStreamBuffer はプロデューサーとHTTPライターの間に置くチャネルの容量です。
	DefaultStreamBuffer = 16
	// DefaultStreamTimeout は1回のストリーミング生成全体の上限時間です。
	DefaultStreamTimeout = 3 * time.Minute
)

// TextStream は有限かつ再開不能なテキスト差分の列です。
// Deltas がクローズされた後に Err を呼ぶと、途中で失敗した場合のエラーを返します。
type TextStream struct {
	deltas chan string
	err    error
}

// Deltas は差分を受け取るチャネルを返します。生成が終わるとクローズされます。
func (s *TextStream) Deltas() <-chan string {
	return s.deltas
}

// Err はストリームが失敗・キャンセル・タイムアウトした場合のエラーを返します。Deltas のクローズ後にのみ有効です。
func (s *TextStream) Err() error {
	return s.err
}

// NewTextStream はopenで開いた差分列を別goroutineで読み出し、容量bufferのチャネルへ流します。
// 受信側が追いつかない場合はプロデューサーが待機し、ctxのキャンセルかtimeoutの経過で反復を打ち切ります。
// openにはtimeoutを適用したcontextが渡されるため、上流のモデル呼び出しも同時に中断されます。
func NewTextStream(ctx context.Context, open func(ctx context.Context) iter.Seq2[string, error], buffer int, timeout time.Duration) *TextStream {
	if buffer <= 0 {
		buffer = DefaultStreamBuffer
	}
	s := &TextStream{deltas: make(chan string, buffer)}

	go func() {
		defer close(s.deltas)
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		for delta, err := range open(ctx) {
			if err != nil {
				s.err = err
				return
			}
			if delta == "" {
				continue
			}
			select {
			case s.deltas <- delta:
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			}
		}
		if err := ctx.Err(); err != nil {
			s.err = err
		}
	}()
	return s
}
