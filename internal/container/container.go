package container

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"medisupply/mobile/internal/cart"
	"medisupply/mobile/internal/catalog"
	"medisupply/mobile/internal/config"
	"medisupply/mobile/internal/domain"
	"medisupply/mobile/internal/env"
	"medisupply/mobile/internal/orders"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config      *config.Config
	Resolver    *env.Resolver
	Catalog     catalog.Fetcher
	Feed        *catalog.FeedClient
	Coordinator *catalog.Coordinator
	Cart        *cart.Store
	Orders      orders.Client

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	resolver := env.NewResolver(cfg.Environment, cfg.Environments)
	container.Resolver = resolver
	log.Infof("🌍 Environment resolved to %s", resolver.Environment())

	catalogURL, err := resolver.ServiceURL("catalog")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog service: %w", err)
	}
	ordersURL, err := resolver.ServiceURL("orders")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve orders service: %w", err)
	}

	var cache catalog.PageCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")
		container.redis = rdb
		cache = catalog.NewRedisCache(rdb)
	} else {
		cache = catalog.NewMemoryCache()
	}

	fetcher := catalog.NewHTTPClient(cfg.Catalog, catalogURL, cache)
	container.Catalog = fetcher

	var feed catalog.Feed
	if cfg.Feed.Enabled {
		feedURL := env.WebSocketURL(catalogURL) + "/items/ws"
		feedClient := catalog.NewFeedClient(feedURL, cfg.Feed, nil)
		container.Feed = feedClient
		feed = feedClient
	}

	initial := domain.Filter{Page: 1, Size: cfg.Catalog.PageSize}
	container.Coordinator = catalog.NewCoordinator(fetcher, feed, initial)

	container.Cart = cart.NewStore(cfg.Cart)
	container.Orders = orders.NewClient(cfg.Orders, ordersURL)

	return container, nil
}

// Run starts the coordinator and blocks until the context is cancelled
func (c *Container) Run(ctx context.Context) error {
	c.Coordinator.OnUpdate(func(view View) {
		logView(view)
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.Coordinator.Start()
		<-ctx.Done()
		return ctx.Err()
	})

	g.Go(func() error {
		<-ctx.Done()
		c.Coordinator.Close()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// View re-exported for the update callback signature.
type View = catalog.View

func logView(view View) {
	if view.Err != nil {
		log.Warnf("Catalog view error (%s): %v", view.Source, view.Err)
		return
	}
	if view.Loading {
		return
	}
	log.Infof("📦 Catalog view: %d items via %s (connected=%t)", len(view.Items), view.Source, view.Connected)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.Coordinator.Close()
	if c.redis != nil {
		c.redis.Close()
	}

	log.Info("Container shut down successfully")
	return nil
}
