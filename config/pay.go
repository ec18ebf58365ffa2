package config

// KhaltiConfig 跳转式支付网关（Khalti 风格）
type KhaltiConfig struct {
	BaseURL      string `yaml:"base_url"`       // 网关 API 地址
	ClientID     string `yaml:"client_id"`      // 商户 client id
	ClientSecret string `yaml:"client_secret"`  // 商户 client secret
	ReturnURL    string `yaml:"return_url"`     // 支付完成后的跳转地址
	WebsiteURL   string `yaml:"website_url"`    // 商户站点
	TimeoutSecs  int    `yaml:"timeout_secs"`   // HTTP 超时（秒）
}

func ProvideKhaltiConfig(cfg *Config) *KhaltiConfig {
	return cfg.Khalti
}

type WechatPayConfig struct {
	AppID                      string `yaml:"app_id"`                        // 应用ID
	MchID                      string `yaml:"mch_id"`                        // 商户号
	MchCertificateSerialNumber string `yaml:"mch_certificate_serial_number"` // 商户证书序列号
	MchAPIv3Key                string `yaml:"mch_apiv3_key"`                 // APIv3密钥
	MchPrivateKeyPath          string `yaml:"mch_private_key_path"`          // 商户私钥文件路径
	NotifyURL                  string `yaml:"notify_url"`                    // 支付回调URL
	Enabled                    bool   `yaml:"enabled"`                       // 未配置证书时可关闭
}

func ProvideWechatPayConfig(cfg *Config) *WechatPayConfig {
	return cfg.WechatPay
}
