//go:build wireinject
// +build wireinject

package main

import (
	"Printhub/config"
	"Printhub/dao"
	"Printhub/handler"
	"Printhub/pkg/client"
	"Printhub/pkg/database"
	"Printhub/pkg/rocketmq"
	"Printhub/pkg/server"
	"Printhub/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *server.AppProvider {
	wire.Build(
		database.NewDB,
		client.NewRedisClient,
		config.ProvideKhaltiConfig,
		config.ProvideWechatPayConfig,
		config.ProvideRocketMQConfig,
		rocketmq.InitProducer,
		server.NewGinEngine,

		dao.ProviderSet,
		service.ProviderSet,

		handler.NewAuth,
		handler.NewProduct,
		handler.NewCart,
		handler.NewOrder,
		handler.NewPay,
		handler.NewQuote,
		handler.NewAddress,
		handler.NewReview,

		wire.Struct(new(server.Handlers), "*"),
		wire.Struct(new(server.AppProvider), "*"),
	)
	return nil
}
