package common

import (
	"strings"

	"github.com/futig/genai-toolkit/internal/config"
	pkgRetry "github.com/futig/genai-toolkit/internal/pkg/retry"
	pkgHTTP "github.com/futig/genai-toolkit/pkg/http"
	"go.uber.org/zap"
)

// NewServiceConnector builds the JSON connector for one hosted model service.
func NewServiceConnector(
	service string,
	cfg config.HTTPClientConfig,
	retryCfg pkgRetry.RetryConfig,
	logger *zap.Logger,
) *pkgHTTP.Connector {
	logger = logger.Named(service)
	baseURL := strings.TrimRight(cfg.Url, "/")

	logger.Debug("creating service connector",
		zap.String("base_url", baseURL),
		zap.Uint("retry_attempts", retryCfg.Attempts),
		zap.Duration("request_timeout", cfg.RequestTimeout),
	)

	return pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{
			Logger:  logger,
			BaseURL: baseURL,
			Retry:   retryCfg.ToRetryOptions(),
		},
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
	)
}
