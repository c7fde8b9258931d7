// Package app is the composition root shared by the pagegate binaries: it
// wires the ingest service from configuration, connecting the key-value
// store, fetcher, robots resolver, sanitizer, quality gate, and SPA bypass.
package app

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"pagegate/internal/config"
	"pagegate/internal/domain/entity"
	"pagegate/internal/infra/extractor"
	"pagegate/internal/infra/fetcher"
	"pagegate/internal/infra/kv"
	"pagegate/internal/infra/quality"
	"pagegate/internal/infra/ratelimit"
	"pagegate/internal/infra/resultcache"
	"pagegate/internal/infra/robots"
	"pagegate/internal/infra/sanitizer"
	"pagegate/internal/infra/spa"
	"pagegate/internal/resilience/circuitbreaker"
	"pagegate/internal/usecase/ingest"
)

// Pipeline bundles the wired service with the resources that need closing.
type Pipeline struct {
	Service ingest.Service
	Sink    *resultcache.Sink

	store interface{ Close() error }
}

// Close flushes pending cache writes and releases the store connection.
func (p *Pipeline) Close() {
	if p.Sink != nil {
		p.Sink.Flush()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}

// Build wires a complete ingest pipeline from configuration. When Redis is
// unreachable it falls back to an in-process store: rate limits and the
// robots cache then only span this process, which is the documented
// degraded mode rather than a startup failure.
func Build(ctx context.Context, cfg *config.PipelineConfig, content *config.ContentConfig, logger *slog.Logger) *Pipeline {
	store, closer := connectStore(ctx, cfg, logger)

	fetchConfig := fetcher.DefaultConfig()
	fetchConfig.UserAgent = "Mozilla/5.0 (compatible; " + cfg.RobotsUserAgent + "/1.0; +https://pagegate.dev/bot)"

	limiter := ratelimit.NewLimiter(store, ratelimit.Config{
		ClientLimit:  cfg.RateLimit.ClientLimit,
		ClientWindow: cfg.RateLimit.ClientWindow,
		DomainLimit:  cfg.RateLimit.DomainLimit,
		DomainWindow: cfg.RateLimit.DomainWindow,
	}, logger)

	resolver := robots.NewResolver(store, cfg.RobotsUserAgent, logger)

	sanitizerCfg := sanitizer.Config{}
	qualityCfg := quality.Config{}
	spaCfg := spa.Config{UserAgent: fetchConfig.UserAgent}
	if content != nil {
		sanitizerCfg.IframeWhitelist = content.GetIframeWhitelist()
		sanitizerCfg.MaxImages = content.GetMaxImages()
		qualityCfg.PaywallKeywords = quality.ExtendedPaywallKeywords(content.GetExtraPaywallKeywords())
		qualityCfg.LoginKeywords = quality.ExtendedLoginKeywords(content.GetExtraLoginKeywords())
		spaCfg.Denylist = content.GetSPADenylist()
		spaCfg.OEmbedEndpoints = content.GetOEmbedEndpoints()
	}

	sink := resultcache.NewSink(store, logger)

	service := ingest.NewService(
		urlValidator{denyPrivateIPs: fetchConfig.DenyPrivateIPs, resolveHosts: fetchConfig.ResolveHosts},
		limiter,
		resolver,
		fetcherFactory(fetchConfig, logger),
		articleExtractor{inner: extractor.NewReadabilityExtractor(logger)},
		sanitizer.New(sanitizerCfg),
		quality.New(qualityCfg),
		spa.New(spaCfg, logger),
		sink,
		logger,
	)

	return &Pipeline{Service: service, Sink: sink, store: closer}
}

// connectStore dials Redis, falling back to the in-process store on failure.
func connectStore(ctx context.Context, cfg *config.PipelineConfig, logger *slog.Logger) (kv.Store, interface{ Close() error }) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Redis.Address,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Redis.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		logger.Warn("redis unreachable, using in-process store",
			slog.String("address", cfg.Redis.Address),
			slog.Any("error", err))
		return kv.NewMemoryStore(), nil
	}

	logger.Info("connected to redis", slog.String("address", cfg.Redis.Address))
	store := kv.NewRedisStore(client)
	return store, store
}

// urlValidator adapts the fetcher's URL safety checks to the ingest port.
type urlValidator struct {
	denyPrivateIPs bool
	resolveHosts   bool
}

func (v urlValidator) Validate(rawURL string) (*url.URL, *entity.FetchError) {
	return fetcher.ValidateURL(rawURL, v.denyPrivateIPs, v.resolveHosts)
}

// articleExtractor adapts the readability extractor to the ingest port.
type articleExtractor struct {
	inner *extractor.ReadabilityExtractor
}

func (e articleExtractor) Extract(html, pageURL string) *ingest.ExtractedArticle {
	article := e.inner.Extract(html, pageURL)
	if article == nil {
		return nil
	}
	return &ingest.ExtractedArticle{
		Title:       article.Title,
		ContentHTML: article.ContentHTML,
		TextContent: article.TextContent,
		Excerpt:     article.Excerpt,
	}
}

// fetcherFactory derives a per-request fetcher from the base configuration
// and the recognized request options. One page-fetch circuit is shared by
// every fetcher the factory builds, so trip state spans requests.
func fetcherFactory(base fetcher.Config, logger *slog.Logger) ingest.FetcherFactory {
	breaker := circuitbreaker.New(circuitbreaker.PageFetchConfig())
	return func(opts ingest.Options) ingest.PageFetcher {
		cfg := base
		if opts.TimeoutMs > 0 {
			cfg.Timeout = time.Duration(opts.TimeoutMs) * time.Millisecond
		}
		if opts.MaxBytes > 0 {
			cfg.MaxHTMLBytes = opts.MaxBytes
		}
		if opts.FollowRedirects != nil {
			cfg.FollowRedirects = *opts.FollowRedirects
		}
		if opts.UserAgent != "" {
			cfg.UserAgent = opts.UserAgent
		}
		return fetcher.NewFetcher(cfg, logger).WithBreaker(breaker)
	}
}
