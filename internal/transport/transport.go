package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Transport はMCPサーバーの通信方式を抽象化するインターフェース
// stdio（マネージドSDK）とraw HTTPの異なる通信方式に対応可能
type Transport interface {
	// Connect はクライアントとの接続を確立し、セッションを開始する
	Connect(ctx context.Context) error
	// Close は接続を閉じる
	Close() error
	// Type は通信方式の種類を返す
	Type() string
}

// StdioTransport はstdin/stdoutを使用したMCP通信を実装
// プロトコル処理は公式go-sdkに委譲する
type StdioTransport struct {
	server *mcp.Server
}

// NewStdioTransport は新しいStdioTransportを作成
func NewStdioTransport(server *mcp.Server) *StdioTransport {
	return &StdioTransport{server: server}
}

// Connect はstdin/stdoutを使用して接続を確立
func (t *StdioTransport) Connect(ctx context.Context) error {
	transport := mcp.NewStdioTransport()
	return t.server.Run(ctx, transport)
}

// Close は接続を閉じる（stdioの場合は特に処理なし）
func (t *StdioTransport) Close() error {
	return nil
}

// Type は通信方式の種類を返す
func (t *StdioTransport) Type() string {
	return "stdio"
}

// HTTPTransport は自前のJSON-RPCディスパッチャをHTTPで公開する
type HTTPTransport struct {
	addr    string
	handler http.Handler
	server  *http.Server
}

// NewHTTPTransport は新しいHTTPTransportを作成
func NewHTTPTransport(addr string, handler http.Handler) *HTTPTransport {
	return &HTTPTransport{
		addr:    addr,
		handler: handler,
	}
}

// Connect はHTTPサーバーを起動し、ctxのキャンセルまでブロックする
func (t *HTTPTransport) Connect(ctx context.Context) error {
	t.server = &http.Server{
		Addr:    t.addr,
		Handler: t.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- t.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return t.Close()
	}
}

// Close はHTTPサーバーを停止する
func (t *HTTPTransport) Close() error {
	if t.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return t.server.Shutdown(shutdownCtx)
}

// Type は通信方式の種類を返す
func (t *HTTPTransport) Type() string {
	return "http"
}
