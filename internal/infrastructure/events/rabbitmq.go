package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/coursebook/pkg/metrics"
	"github.com/xiebiao/coursebook/pkg/mq"
)

// publishTimeout 单次发布的超时，避免broker阻塞请求
const publishTimeout = 2 * time.Second

// MQPublisher 发布到RabbitMQ Topic Exchange
type MQPublisher struct {
	publisher *mq.Publisher
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// NewPublisher mq.enabled=false时返回NoopPublisher
// 返回的cleanup用于关闭连接
func NewPublisher(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return NoopPublisher{}, func() {}, nil
	}

	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic)
	if err != nil {
		return nil, nil, err
	}
	log.Info("事件发布已启用", "exchange", cfg.MQ.Exchange)

	cleanup := func() {
		if err := p.Close(); err != nil {
			log.Warn("关闭事件发布连接失败", "error", err)
		}
	}
	return &MQPublisher{publisher: p, log: log, metrics: m}, cleanup, nil
}

// Publish 同步发布，失败只记日志
// 使用WithoutCancel：请求结束（ctx取消）不应中断已经开始的发布
func (p *MQPublisher) Publish(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := p.publisher.Publish(ctx, e.Type, e)
	if p.metrics != nil {
		p.metrics.Published(e.Type, err)
	}
	if err != nil {
		p.log.Warn("发布事件失败", "type", e.Type, "error", err)
	}
}

// CacheInvalidator 订阅评价/教材事件，清空热门榜单缓存
// 多实例部署且使用进程内缓存时，依靠它让其他实例的缓存失效
type CacheInvalidator struct {
	cache   redis.ListingCache
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewCacheInvalidator 创建缓存失效处理器
func NewCacheInvalidator(cache redis.ListingCache, log *logger.Logger, m *metrics.Metrics) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, log: log, metrics: m}
}

// Handle mq.Handler；无法解析的消息直接确认丢弃，避免反复重投
func (h *CacheInvalidator) Handle(ctx context.Context, routingKey string, body []byte) error {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		h.log.Warn("丢弃无法解析的事件", "routing_key", routingKey, "error", err)
		return nil
	}

	var err error
	if e.AffectsRatings() {
		err = h.cache.Invalidate(ctx)
	}
	if h.metrics != nil {
		h.metrics.Consumed(routingKey, err)
	}
	return err
}

// RunCacheInvalidator 阻塞消费直到ctx取消；mq未启用时立即返回
// 每个实例一个临时队列，保证每个实例都能收到
func RunCacheInvalidator(ctx context.Context, cfg *config.Config, h *CacheInvalidator) error {
	if !cfg.MQ.Enabled {
		return nil
	}
	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, "", []string{"review.*", "textbook.*"})
	if err != nil {
		return err
	}
	defer consumer.Close()

	h.log.Info("缓存失效订阅已启动", "exchange", cfg.MQ.Exchange)
	return consumer.Consume(ctx, h.Handle)
}
