package config

// OrderConfig 下单相关的业务参数
type OrderConfig struct {
	// 税率（百分比），如 18 表示 18%
	TaxRatePercent int64 `yaml:"tax_rate_percent"`
	// 固定运费
	ShippingFlatFee string `yaml:"shipping_flat_fee"`
	// 货到付款附加费
	CodSurcharge string `yaml:"cod_surcharge"`
	// 小计达到该值后禁止货到付款
	CodCeiling string `yaml:"cod_ceiling"`
	// 这些品类必须预付（如大型设备）
	PrepayCategories []string `yaml:"prepay_categories"`
	// 这些品类免运费
	FreeShippingCategories []string `yaml:"free_shipping_categories"`
	// 取消订单时是否回补库存
	RestockOnCancel bool `yaml:"restock_on_cancel"`
}

func ProvideOrderConfig(cfg *Config) *OrderConfig {
	return cfg.Order
}
