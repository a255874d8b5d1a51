package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang-fin-scryper/internal/fin/config"
	"golang-fin-scryper/internal/fin/dto"
	"golang-fin-scryper/pkg/common"
	"golang-fin-scryper/pkg/logger"
	redisPkg "golang-fin-scryper/pkg/redis"
	"golang-fin-scryper/pkg/telegram"
	"golang-fin-scryper/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// PrefetchService warms the statement store for the configured companies.
type PrefetchService interface {
	Start(ctx context.Context) error
	Stop()
	PublishAll(ctx context.Context)
	ProcessTask(ctx context.Context)
}

type prefetchService struct {
	cfg         *config.Config
	redisClient *redisPkg.Client
	finService  FinService
	notifier    telegram.Notifier
	log         *logger.Logger
	cron        *cron.Cron
}

// NewPrefetchService creates a new PrefetchService. notifier may be nil.
func NewPrefetchService(cfg *config.Config, redisClient *redisPkg.Client, finService FinService, notifier telegram.Notifier, log *logger.Logger) PrefetchService {
	return &prefetchService{
		cfg:         cfg,
		redisClient: redisClient,
		finService:  finService,
		notifier:    notifier,
		log:         log,
		cron:        cron.New(cron.WithLocation(utils.TimeNowKST().Location())),
	}
}

// Start schedules PublishAll on the configured cron expression.
func (s *prefetchService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Prefetch.CronExpression, func() {
		s.PublishAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid prefetch cron expression %q: %w", s.cfg.Prefetch.CronExpression, err)
	}
	s.cron.Start()
	s.log.Info("Prefetch scheduler started",
		logger.StringField("cron", s.cfg.Prefetch.CronExpression),
		logger.IntField("companies", len(s.cfg.Prefetch.Companies)))
	return nil
}

// Stop waits for a running PublishAll to finish.
func (s *prefetchService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Prefetch scheduler stopped")
}

// PublishAll enqueues one prefetch task per configured company.
func (s *prefetchService) PublishAll(ctx context.Context) {
	for _, name := range s.cfg.Prefetch.Companies {
		payload, err := json.Marshal(dto.StreamDataPrefetch{
			TaskID:      uuid.NewString(),
			CompanyName: name,
		})
		if err != nil {
			s.log.Error("Failed to marshal prefetch task", logger.ErrorField(err), logger.StringField("company_name", name))
			continue
		}

		if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
			Stream: common.RedisStreamStatementPrefetch,
			Values: map[string]interface{}{"payload": payload},
			MaxLen: s.cfg.Redis.StreamMaxLen,
		}).Err(); err != nil {
			s.log.Error("Failed to enqueue prefetch task", logger.ErrorField(err), logger.StringField("company_name", name))
			continue
		}
	}
	s.log.Info("Prefetch tasks published", logger.IntField("companies", len(s.cfg.Prefetch.Companies)))
}

// ProcessTask reads one prefetch task from the stream and acquires its statements.
func (s *prefetchService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamStatementPrefetch, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return
		}
		s.log.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}
	message := streams[0].Messages[0]

	payload, ok := message.Values["payload"].(string)
	if !ok {
		s.log.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		s.ackAndDelete(ctx, message.ID)
		return
	}

	result := s.handlePayload(ctx, payload)
	s.ackAndDelete(ctx, message.ID)
	s.notify(result)
}

// handlePayload runs one task. A task is never retried: an unknown company or
// missing data stays that way until the next scheduled run.
func (s *prefetchService) handlePayload(ctx context.Context, payload string) dto.PrefetchResult {
	var task dto.StreamDataPrefetch
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		s.log.Error("Failed to unmarshal prefetch task", logger.ErrorField(err))
		return dto.PrefetchResult{Status: dto.StatusError, Message: "invalid task payload"}
	}

	s.log.DebugContext(ctx, "Processing prefetch task",
		logger.StringField("task_id", task.TaskID),
		logger.StringField("company_name", task.CompanyName))

	result, err := s.finService.GetOrFetch(ctx, task.CompanyName, task.Year)
	if err != nil {
		s.log.ErrorContext(ctx, "Prefetch task failed",
			logger.ErrorField(err),
			logger.StringField("task_id", task.TaskID),
			logger.StringField("company_name", task.CompanyName))
		return dto.PrefetchResult{CompanyName: task.CompanyName, Status: dto.StatusError, Message: err.Error()}
	}

	s.log.InfoContext(ctx, "Prefetch task processed",
		logger.StringField("task_id", task.TaskID),
		logger.StringField("company_name", task.CompanyName),
		logger.StringField("status", result.Status))
	return dto.PrefetchResult{CompanyName: task.CompanyName, Status: result.Status, Message: result.Message}
}

func (s *prefetchService) ackAndDelete(ctx context.Context, messageID string) {
	if err := s.redisClient.XAck(ctx, common.RedisStreamStatementPrefetch, common.RedisStreamGroup, messageID).Err(); err != nil {
		s.log.Error("Failed to acknowledge prefetch task", logger.ErrorField(err), logger.Field("message_id", messageID))
		return
	}
	if err := s.redisClient.XDel(ctx, common.RedisStreamStatementPrefetch, messageID).Err(); err != nil {
		s.log.Error("Failed to delete prefetch task", logger.ErrorField(err), logger.Field("message_id", messageID))
	}
}

func (s *prefetchService) notify(result dto.PrefetchResult) {
	if s.notifier == nil || !s.cfg.Prefetch.NotifyOnComplete {
		return
	}
	if err := s.notifier.SendMessage(telegram.FormatPrefetchResult(result)); err != nil {
		s.log.Warn("Failed to send prefetch notification", logger.ErrorField(err), logger.StringField("company_name", result.CompanyName))
	}
}
