package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUsers,
	NewAddress,
	NewProduct,
	NewProductImage,
	NewReview,
	NewProductLike,
	NewCart,
	NewOrder,
	NewQuote,
	NewSavedModel,
)
