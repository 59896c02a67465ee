package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/demo"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/adapters/wit"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/platform/facebook"
	"github.com/aretw0/arbor/pkg/platform/telegram"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

// Components is a running demo bot with the resources it owns.
type Components struct {
	Bot      *arbor.Bot
	Registry *prometheus.Registry
	DAO      *session.Manager

	closers []func() error
}

// Close releases the bot first and then its storage.
func (c *Components) Close(ctx context.Context) error {
	errs := []error{c.Bot.Close(ctx)}
	for _, closer := range c.closers {
		errs = append(errs, closer())
	}
	return errors.Join(errs...)
}

// PlatformOptions returns one bot option per platform enabled in cfg.
func PlatformOptions(cfg *config.Config) ([]arbor.Option, error) {
	var opts []arbor.Option
	if cfg.Facebook.PageToken != "" {
		var fbOpts []facebook.Option
		if cfg.Facebook.GraphURL != "" {
			fbOpts = append(fbOpts, facebook.WithGraphURL(cfg.Facebook.GraphURL))
		}
		opts = append(opts, arbor.WithFacebook(facebook.NewClient(cfg.Facebook.PageToken, fbOpts...)))
	}
	if cfg.Telegram.Token != "" {
		client, err := telegram.NewBotClient(cfg.Telegram.Token, cfg.Telegram.APIServer)
		if err != nil {
			return nil, err
		}
		opts = append(opts, arbor.WithTelegram(client))
	}
	return opts, nil
}

// NewNLU returns the Wit client configured in cfg, or nil.
func NewNLU(cfg *config.Config) ports.NLUClient {
	if cfg.Wit.Token == "" {
		return nil
	}
	var opts []wit.Option
	if cfg.Wit.BaseURL != "" {
		opts = append(opts, wit.WithBaseURL(cfg.Wit.BaseURL))
	}
	if cfg.Wit.Version != "" {
		opts = append(opts, wit.WithVersion(cfg.Wit.Version))
	}
	return wit.New(cfg.Wit.Token, opts...)
}

// NewContextDAO builds the context manager: Redis when an address is set,
// memory otherwise, with the store middlewares from cfg.Store.
func NewContextDAO(cfg *config.Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	var (
		store   ports.ContextStore
		opts    = []session.Option{session.WithLogger(logger)}
		closeFn = func() error { return nil }
	)

	if cfg.Redis.Addr != "" {
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		store, closeFn = rs, rs.Close
		if cfg.Redis.Lock {
			opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), cfg.Redis.Prefix)))
		}
		logger.Info("Using redis context store", "addr", cfg.Redis.Addr, "lock", cfg.Redis.Lock)
	} else if cfg.Store.Dir != "" {
		store = file.New(cfg.Store.Dir)
		logger.Info("Using file context store", "dir", cfg.Store.Dir)
	} else {
		store = memory.NewStore()
	}

	mws, err := storeMiddlewares(cfg.Store)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return session.NewManager(middleware.Wrap(store, mws...), opts...), closeFn, nil
}

func storeMiddlewares(cfg config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mw, err := middleware.NewRedaction(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if cfg.EncryptionKey != "" {
		active, err := config.DecodeKey(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		enc := middleware.EncryptionConfig{ActiveKey: active}
		for _, k := range cfg.FallbackKeys {
			key, err := config.DecodeKey(k)
			if err != nil {
				return nil, err
			}
			enc.FallbackKeys = append(enc.FallbackKeys, key)
		}
		mw, err := middleware.NewEncryption(enc)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}

// BuildBot assembles the demo bot from cfg. platforms selects the clients;
// serve passes PlatformOptions(cfg) and chat a console client.
func BuildBot(ctx context.Context, cfg *config.Config, logger *slog.Logger, platforms ...arbor.Option) (*Components, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	tree, err := demo.Tree(demo.Options{
		NLU:          NewNLU(cfg),
		Logger:       logger,
		MaxInputSize: cfg.Messenger.MaxInputSize,
		TrackError: func(ctx context.Context, report leaf.ErrorReport) {
			logger.Error("Leaf failed", "leaf", report.ErroredLeaf, "target_id", report.TargetID, "platform", report.TargetPlatform, "err", report.Err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build demo tree: %w", err)
	}

	dao, closeStore, err := NewContextDAO(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build context store: %w", err)
	}

	opts := []arbor.Option{
		arbor.WithLogger(logger),
		arbor.WithContextDAO(dao),
		arbor.WithMetrics(metrics),
		arbor.WithSelectorHooks(debugHooks(logger)),
		arbor.WithTimeout(cfg.Messenger.Timeout),
	}
	if cfg.Messenger.Typing {
		opts = append(opts, arbor.WithTypingIndicator())
	}
	if cfg.Messenger.SendRate > 0 {
		opts = append(opts, arbor.WithSendLimiter(rate.NewLimiter(rate.Limit(cfg.Messenger.SendRate), cfg.Messenger.SendBurst)))
	}
	opts = append(opts, platforms...)

	bot, err := arbor.New(ctx, tree, opts...)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	return &Components{
		Bot:      bot,
		Registry: reg,
		DAO:      dao,
		closers:  []func() error{closeStore},
	}, nil
}
