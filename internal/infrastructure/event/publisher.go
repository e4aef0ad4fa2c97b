package event

import (
	"log"
	"time"

	appborrow "github.com/xiebiao/library/internal/application/borrow"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
)

// Publisher 借阅事件发布器
// 设计说明:
// 1. 基于RabbitMQ投递,实现应用层的EventPublisher接口
// 2. 外挂熔断器:RabbitMQ持续不可用时快速失败,
//    不让每次借书/还书都等待连接超时
// 3. 发布失败由调用方决定如何处理(借阅流程只记日志)
type Publisher struct {
	mq      *mq.Publisher
	breaker *circuitbreaker.CircuitBreaker
}

// NewPublisher 创建事件发布器
func NewPublisher(url, exchange string) (*Publisher, error) {
	p, err := mq.NewPublisher(url, exchange, "topic")
	if err != nil {
		return nil, err
	}

	cb := circuitbreaker.NewCircuitBreaker("event-publisher", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器[%s]状态变化: %s -> %s", name, from, to)
		if metrics.CircuitBreakerState != nil {
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{
				"name": name,
			}, float64(to))
		}
	})

	return &Publisher{mq: p, breaker: cb}, nil
}

// Publish 发布借阅事件
func (p *Publisher) Publish(routingKey string, event appborrow.Event) error {
	return p.breaker.Execute(func() error {
		return p.mq.Publish(routingKey, event)
	})
}

// Close 关闭底层MQ连接
func (p *Publisher) Close() error {
	return p.mq.Close()
}

// NopPublisher 空实现(MQ未启用时注入)
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(routingKey string, event appborrow.Event) error {
	return nil
}
