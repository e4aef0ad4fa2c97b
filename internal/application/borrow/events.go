package borrow

import (
	"time"
)

// 借阅域事件路由键
const (
	EventBorrowCreated  = "borrow.created"
	EventBorrowReturned = "borrow.returned"
)

// Event 借阅域事件
// 发给通知服务(借阅回执、逾期提醒)消费,JSON序列化后发布到RabbitMQ
type Event struct {
	BorrowID  uint      `json:"borrow_id"`
	BorrowNo  string    `json:"borrow_no"`
	BookID    uint      `json:"book_id"`
	UserID    uint      `json:"user_id"`
	Action    string    `json:"action"` // created | returned
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 事件发布接口
// 设计说明:
// 1. 接口定义在应用层,infrastructure/event提供RabbitMQ实现
// 2. 事件在事务提交之后发布,发布失败不回滚借阅(最终一致)
// 3. MQ未启用时注入NopPublisher,只记录日志
type EventPublisher interface {
	Publish(routingKey string, event Event) error
}
