package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/wakacore/info-agent-mcp/internal/config"
	"github.com/wakacore/info-agent-mcp/internal/server"
)

func main() {
	appCfg := config.Load()

	var (
		transportType = flag.String("transport", "stdio", "Transport type: stdio or http")
		httpAddr      = flag.String("addr", appCfg.HTTPAddr, "HTTP address for http transport")
		serverName    = flag.String("name", "info-agent", "Server name")
		serverVersion = flag.String("version", "2.0.0", "Server version")
	)
	flag.Parse()

	if level, err := log.ParseLevel(appCfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if missing := appCfg.MissingKeys(); len(missing) > 0 {
		log.Warn("provider credentials missing, affected tools will fail", "keys", missing)
	}

	// サーバー設定
	cfg := server.Config{
		ServerName:    *serverName,
		ServerVersion: *serverVersion,
		Description:   "Agent d'information - Météo, actualités, recherche web, devises, calculatrice",
		TransportType: *transportType,
		HTTPAddr:      *httpAddr,
	}

	// サーバーを作成
	infoServer, err := server.NewInfoAgentServer(cfg, appCfg)
	if err != nil {
		log.Fatal("failed to create MCP server", "err", err)
	}

	// コンテキストとシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("received shutdown signal")
		cancel()
	}()

	// サーバー開始
	if *transportType == "http" {
		log.Info("http transport selected", "addr", *httpAddr)
	}

	if err := infoServer.Start(ctx); err != nil {
		log.Error("server stopped", "err", err)
	}

	// クリーンアップ
	if err := infoServer.Stop(); err != nil {
		log.Error("error during server shutdown", "err", err)
	}

	log.Info("server shutdown complete")
}
