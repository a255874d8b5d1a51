package consumer

import (
	"context"
	"sync"
	"time"

	"golang-fin-scryper/internal/fin/config"
	"golang-fin-scryper/internal/fin/service"
	"golang-fin-scryper/pkg/common"
	"golang-fin-scryper/pkg/logger"
	"golang-fin-scryper/pkg/utils"
)

// RedisConsumer runs the stream handlers of the financial statement service.
type RedisConsumer struct {
	cfg             *config.Config
	prefetchService service.PrefetchService
	logger          *logger.Logger
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(cfg *config.Config, prefetchService service.PrefetchService, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		cfg:             cfg,
		prefetchService: prefetchService,
		logger:          log,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the consumer's task processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.prefetchService.ProcessTask, common.RedisStreamStatementPrefetch, c.cfg.Prefetch.TaskTimeout)
}

// RegisterStreamHandler calls fn in a loop, each call bounded by timeout, until ctx is done or Stop is called.
func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation", logger.Field("stream", streamName))
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping", logger.Field("stream", streamName))
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
