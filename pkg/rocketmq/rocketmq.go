package rocketmq

import (
	"Printhub/config"
	"Printhub/pkg/log"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

// InitProducer MQ 关闭时返回 nil，上层走进程内兜底
func InitProducer(cfg *config.RocketMQConfig) rocketmq.Producer {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(2),
	)
	if err != nil {
		log.L.Error("new rocketmq producer failed", zap.Error(err))
		return nil
	}
	if err = p.Start(); err != nil {
		log.L.Error("start rocketmq producer failed", zap.Error(err))
		return nil
	}
	log.L.Info("init producer success")
	return p
}

func InitConsumer(cfg *config.RocketMQConfig) rocketmq.PushConsumer {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	c, err := rocketmq.NewPushConsumer(
		consumer.WithNameServer(cfg.NameServer),
		consumer.WithGroupName(cfg.Consumer.Group),
	)
	if err != nil {
		log.L.Error("new rocketmq consumer failed", zap.Error(err))
		return nil
	}
	return c
}
