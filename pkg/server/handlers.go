package server

import "Printhub/handler"

type Handlers struct {
	Auth    *handler.Auth
	Product *handler.Product
	Cart    *handler.Cart
	Order   *handler.Order
	Pay     *handler.Pay
	Quote   *handler.Quote
	Address *handler.Address
	Review  *handler.Review
}
