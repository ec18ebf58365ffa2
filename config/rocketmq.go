package config

type RocketMQConfig struct {
	Enabled    bool     `yaml:"enabled"`
	NameServer []string `yaml:"name_server"`
	Topic      string   `yaml:"topic"`
	Producer   struct {
		Group string `yaml:"group"`
	} `yaml:"producer"`
	Consumer struct {
		Group string `yaml:"group"`
	} `yaml:"consumer"`
}

func ProvideRocketMQConfig(cfg *Config) *RocketMQConfig {
	return cfg.RocketMQ
}
