package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Printhub/config"
	"Printhub/pkg/log"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const (
	EventOrderConfirmed = "order_confirmed"
	EventOrderShipped   = "order_shipped"
	EventOrderDelivered = "order_delivered"
	EventOrderCancelled = "order_cancelled"
	EventQuoteUpdated   = "quote_updated"
)

// NotifyEvent 通知事件，经 MQ 投递或进程内直投
type NotifyEvent struct {
	Type     string `json:"type"`
	Email    string `json:"email"`
	OrderSn  string `json:"order_sn,omitempty"`
	QuoteRef string `json:"quote_ref,omitempty"`
	Extra    string `json:"extra,omitempty"`
}

// Mailer 邮件发送是外部协作方，这里只留接口
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer 默认实现：只记日志，不真正外发
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	log.L.Info("mail out",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

func NewMailer() Mailer {
	return LogMailer{}
}

var _ INotifyService = (*NotifyService)(nil)

type INotifyService interface {
	// Dispatch 只管投递，绝不把失败传给触发它的请求
	Dispatch(ev NotifyEvent)
}

type NotifyService struct {
	Config   *config.Config
	Producer rocketmq.Producer
	Mailer   Mailer

	wg conc.WaitGroup
}

func NewNotifyService(cfg *config.Config, producer rocketmq.Producer, mailer Mailer) *NotifyService {
	return &NotifyService{
		Config:   cfg,
		Producer: producer,
		Mailer:   mailer,
	}
}

func (n *NotifyService) Dispatch(ev NotifyEvent) {
	if ev.Email == "" {
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.L.Error("marshal notify event", zap.Error(err))
		return
	}

	// MQ 可用就丢进队列，否则进程内异步直投；两条路径都自带错误边界
	if n.Producer != nil {
		n.wg.Go(func() {
			msg := &primitive.Message{
				Topic: n.Config.RocketMQ.Topic,
				Body:  body,
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := n.Producer.SendSync(ctx, msg); err != nil {
				log.L.Error("send notify message failed",
					zap.String("type", ev.Type), zap.Error(err))
			}
		})
		return
	}

	n.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		n.deliver(ctx, ev)
	})
}

// StartConsumer 订阅通知 topic；MQ 关闭时是个空操作
func (n *NotifyService) StartConsumer(c rocketmq.PushConsumer) error {
	if c == nil {
		return nil
	}
	err := c.Subscribe(n.Config.RocketMQ.Topic, consumer.MessageSelector{},
		func(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
			for _, msg := range msgs {
				var ev NotifyEvent
				if err := json.Unmarshal(msg.Body, &ev); err != nil {
					log.L.Error("bad notify payload", zap.Error(err))
					continue
				}
				n.deliver(ctx, ev)
			}
			return consumer.ConsumeSuccess, nil
		})
	if err != nil {
		return err
	}
	return c.Start()
}

func (n *NotifyService) deliver(ctx context.Context, ev NotifyEvent) {
	subject, body := renderMail(ev)
	if err := n.Mailer.Send(ctx, ev.Email, subject, body); err != nil {
		log.L.Error("send mail failed",
			zap.String("type", ev.Type),
			zap.String("to", ev.Email),
			zap.Error(err))
	}
}

func renderMail(ev NotifyEvent) (subject, body string) {
	switch ev.Type {
	case EventOrderConfirmed:
		return fmt.Sprintf("订单 %s 已确认", ev.OrderSn),
			fmt.Sprintf("您的订单 %s 已确认，我们会尽快安排打印和发货。", ev.OrderSn)
	case EventOrderShipped:
		return fmt.Sprintf("订单 %s 已发货", ev.OrderSn),
			fmt.Sprintf("您的订单 %s 已发货。", ev.OrderSn)
	case EventOrderDelivered:
		return fmt.Sprintf("订单 %s 已送达", ev.OrderSn),
			fmt.Sprintf("您的订单 %s 已送达，欢迎评价。", ev.OrderSn)
	case EventOrderCancelled:
		return fmt.Sprintf("订单 %s 已取消", ev.OrderSn),
			fmt.Sprintf("您的订单 %s 已取消。%s", ev.OrderSn, ev.Extra)
	case EventQuoteUpdated:
		return fmt.Sprintf("报价单 %s 有新进展", ev.QuoteRef),
			fmt.Sprintf("您的报价单 %s 状态更新：%s", ev.QuoteRef, ev.Extra)
	}
	return "Printhub 通知", ev.Extra
}
