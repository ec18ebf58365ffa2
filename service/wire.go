package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUserService,
	wire.Bind(new(IUserService), new(*UserService)),

	NewAddressService,
	wire.Bind(new(IAddressService), new(*AddressService)),

	NewProductService,
	wire.Bind(new(IProductService), new(*ProductService)),

	NewCartService,
	wire.Bind(new(ICartService), new(*CartService)),

	NewReviewService,
	wire.Bind(new(IReviewService), new(*ReviewService)),

	NewOrderService,
	wire.Bind(new(IOrderService), new(*OrderService)),

	NewQuoteService,
	wire.Bind(new(IQuoteService), new(*QuoteService)),

	NewStorageService,
	wire.Bind(new(IStorageService), new(*StorageService)),

	NewNotifyService,
	wire.Bind(new(INotifyService), new(*NotifyService)),
	NewMailer,

	NewKhaltiService,
	NewWechatPayService,
	NewGatewayRegistry,
)
