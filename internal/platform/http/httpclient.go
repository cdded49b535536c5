package http

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// BrowserUserAgent は非公開APIやWikipediaがボット判定しないためのUser-Agentです。
const BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Option はNewHTTPClientで生成するクライアントの追加設定です。
type Option func(*clientOptions)

type clientOptions struct {
	userAgent string
	cookies   bool
}

// WithUserAgent は全リクエストにUser-Agentヘッダーを付与します（リクエスト側で設定済みの場合は上書きしません）。
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) { o.userAgent = ua }
}

// WithCookieJar はクッキーを保持するクライアントを生成します。
// Yahoo Financeのcrumb認証のようにセッションクッキーが必要なベンダーで使用します。
func WithCookieJar() Option {
	return func(o *clientOptions) { o.cookies = true }
}

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout / KeepAlive: TCP接続タイムアウトと接続維持期間
//   - MaxIdleConns / MaxIdleConnsPerHost: ヒートマップのバッチ並列取得で同一ホストへ同時接続するため多めに確保
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
//   - ストリーミング用途（LLM）ではtimeoutに0を渡し、contextで打ち切ること
func NewHTTPClient(timeout time.Duration, opts ...Option) *http.Client {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	if o.userAgent != "" {
		rt = &userAgentTransport{base: rt, userAgent: o.userAgent}
	}

	client := &http.Client{Timeout: timeout, Transport: rt}
	if o.cookies {
		// cookiejar.New はオプションがnilの場合エラーを返さない
		jar, _ := cookiejar.New(nil)
		client.Jar = jar
	}
	return client
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	// RoundTripperはリクエストを変更してはならないためクローンする
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}
