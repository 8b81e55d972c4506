package server

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wakacore/info-agent-mcp/internal/config"
	"github.com/wakacore/info-agent-mcp/internal/info"
	core "github.com/wakacore/info-agent-mcp/internal/mcp"
	"github.com/wakacore/info-agent-mcp/internal/transport"
)

// InfoAgentServer は情報ツール用のMCPサーバー
type InfoAgentServer struct {
	registry  *core.Registry
	invoker   *core.Invoker
	sdkServer *mcp.Server
	transport transport.Transport
}

// Config はサーバーの設定
type Config struct {
	ServerName    string
	ServerVersion string
	Description   string
	TransportType string
	HTTPAddr      string // raw HTTPモードで使用
}

// NewInfoAgentServer は新しいサーバーインスタンスを作成
func NewInfoAgentServer(cfg Config, appCfg *config.Config) (*InfoAgentServer, error) {
	s := &InfoAgentServer{
		registry: core.NewRegistry(),
		invoker:  core.NewInvoker(),
	}

	// MCPサーバーを作成（マネージドモード用）
	impl := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}
	s.sdkServer = mcp.NewServer(impl, nil)

	// 情報プロバイダクライアントを初期化
	client := info.NewClient(appCfg)

	// ツールを登録
	if err := s.registerTools(client); err != nil {
		return nil, err
	}
	if err := s.registerSDKTools(); err != nil {
		return nil, err
	}

	// 適切なトランスポートを選択
	switch cfg.TransportType {
	case "http":
		dispatcher := core.NewDispatcher(s.registry, core.Meta{
			Name:        cfg.ServerName,
			Description: cfg.Description,
			Version:     cfg.ServerVersion,
		})
		handler := core.NewHandler(dispatcher)
		s.transport = transport.NewHTTPTransport(cfg.HTTPAddr, handler.Routes())
	case "stdio":
		s.transport = transport.NewStdioTransport(s.sdkServer)
	default:
		s.transport = transport.NewStdioTransport(s.sdkServer) // デフォルトはstdio
	}

	return s, nil
}

// registerTools は利用可能なツールをレジストリに登録
func (s *InfoAgentServer) registerTools(client *info.Client) error {
	for _, tool := range info.All(client) {
		def := &core.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.Schema(),
			Handler:     tool.Execute,
		}
		if err := s.registry.Register(def); err != nil {
			return fmt.Errorf("failed to register tool: %w", err)
		}
	}
	return nil
}

// registerSDKTools はレジストリの各ツールをgo-sdkサーバーにブリッジする
func (s *InfoAgentServer) registerSDKTools() error {
	weather, err := s.registry.Lookup("get_weather_forecast")
	if err != nil {
		return err
	}
	mcp.AddTool(s.sdkServer, &mcp.Tool{
		Name:        weather.Name,
		Description: weather.Description,
	}, s.createWeatherHandler(weather))

	news, err := s.registry.Lookup("get_news")
	if err != nil {
		return err
	}
	mcp.AddTool(s.sdkServer, &mcp.Tool{
		Name:        news.Name,
		Description: news.Description,
	}, s.createNewsHandler(news))

	search, err := s.registry.Lookup("search_web")
	if err != nil {
		return err
	}
	mcp.AddTool(s.sdkServer, &mcp.Tool{
		Name:        search.Name,
		Description: search.Description,
	}, s.createSearchHandler(search))

	currency, err := s.registry.Lookup("convert_currency")
	if err != nil {
		return err
	}
	mcp.AddTool(s.sdkServer, &mcp.Tool{
		Name:        currency.Name,
		Description: currency.Description,
	}, s.createCurrencyHandler(currency))

	calculate, err := s.registry.Lookup("calculate")
	if err != nil {
		return err
	}
	mcp.AddTool(s.sdkServer, &mcp.Tool{
		Name:        calculate.Name,
		Description: calculate.Description,
	}, s.createCalculateHandler(calculate))

	prayer, err := s.registry.Lookup("get_prayer_times")
	if err != nil {
		return err
	}
	mcp.AddTool(s.sdkServer, &mcp.Tool{
		Name:        prayer.Name,
		Description: prayer.Description,
	}, s.createPrayerHandler(prayer))

	return nil
}

// Start はサーバーを開始
func (s *InfoAgentServer) Start(ctx context.Context) error {
	log.Info("starting info-agent MCP server", "transport", s.transport.Type(), "tools", s.registry.Len())
	return s.transport.Connect(ctx)
}

// Stop はサーバーを停止
func (s *InfoAgentServer) Stop() error {
	return s.transport.Close()
}

// Registry はツールレジストリを返す
func (s *InfoAgentServer) Registry() *core.Registry {
	return s.registry
}

// callTool はSDKハンドラから共通のInvoker経路を通す
func (s *InfoAgentServer) callTool(ctx context.Context, def *core.ToolDefinition, args map[string]interface{}) (*mcp.CallToolResultFor[any], error) {
	result, err := s.invoker.Invoke(ctx, def, args)
	if err != nil {
		return &mcp.CallToolResultFor[any]{
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			IsError: true,
		}, nil
	}

	var content []mcp.Content
	for _, c := range result.Content {
		content = append(content, &mcp.TextContent{Text: c.Text})
	}

	return &mcp.CallToolResultFor[any]{Content: content}, nil
}

// createWeatherHandler は天気予報ツール用のハンドラーを作成
func (s *InfoAgentServer) createWeatherHandler(def *core.ToolDefinition) mcp.ToolHandlerFor[info.WeatherArgs, any] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[info.WeatherArgs]) (*mcp.CallToolResultFor[any], error) {
		args := map[string]interface{}{
			"city": params.Arguments.City,
		}
		if params.Arguments.Country != "" {
			args["country"] = params.Arguments.Country
		}
		if params.Arguments.Days != 0 {
			args["days"] = params.Arguments.Days
		}

		return s.callTool(ctx, def, args)
	}
}

// createNewsHandler はニュースツール用のハンドラーを作成
func (s *InfoAgentServer) createNewsHandler(def *core.ToolDefinition) mcp.ToolHandlerFor[info.NewsArgs, any] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[info.NewsArgs]) (*mcp.CallToolResultFor[any], error) {
		args := map[string]interface{}{
			"query": params.Arguments.Query,
		}
		if params.Arguments.Language != "" {
			args["language"] = params.Arguments.Language
		}
		if params.Arguments.MaxResults != 0 {
			args["max_results"] = params.Arguments.MaxResults
		}

		return s.callTool(ctx, def, args)
	}
}

// createSearchHandler はWeb検索ツール用のハンドラーを作成
func (s *InfoAgentServer) createSearchHandler(def *core.ToolDefinition) mcp.ToolHandlerFor[info.SearchArgs, any] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[info.SearchArgs]) (*mcp.CallToolResultFor[any], error) {
		args := map[string]interface{}{
			"query": params.Arguments.Query,
		}
		if params.Arguments.Count != 0 {
			args["count"] = params.Arguments.Count
		}
		if params.Arguments.IncludeContent {
			args["include_content"] = true
		}

		return s.callTool(ctx, def, args)
	}
}

// createCurrencyHandler は通貨換算ツール用のハンドラーを作成
func (s *InfoAgentServer) createCurrencyHandler(def *core.ToolDefinition) mcp.ToolHandlerFor[info.CurrencyArgs, any] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[info.CurrencyArgs]) (*mcp.CallToolResultFor[any], error) {
		args := map[string]interface{}{
			"amount":        params.Arguments.Amount,
			"from_currency": params.Arguments.FromCurrency,
			"to_currency":   params.Arguments.ToCurrency,
		}

		return s.callTool(ctx, def, args)
	}
}

// createCalculateHandler は計算ツール用のハンドラーを作成
func (s *InfoAgentServer) createCalculateHandler(def *core.ToolDefinition) mcp.ToolHandlerFor[info.CalculateArgs, any] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[info.CalculateArgs]) (*mcp.CallToolResultFor[any], error) {
		args := map[string]interface{}{
			"expression": params.Arguments.Expression,
		}

		return s.callTool(ctx, def, args)
	}
}

// createPrayerHandler は礼拝時間ツール用のハンドラーを作成
func (s *InfoAgentServer) createPrayerHandler(def *core.ToolDefinition) mcp.ToolHandlerFor[info.PrayerArgs, any] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[info.PrayerArgs]) (*mcp.CallToolResultFor[any], error) {
		args := map[string]interface{}{}
		if params.Arguments.City != "" {
			args["city"] = params.Arguments.City
		}
		if params.Arguments.Date != "" {
			args["date"] = params.Arguments.Date
		}

		return s.callTool(ctx, def, args)
	}
}
