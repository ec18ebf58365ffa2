package config

type OssConfig struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	AccessKeySecret string `json:"access_key_secret" yaml:"access_key_secret"`
	Bucket          string `json:"bucket" yaml:"bucket"`
}

func ProvideOssConfig(cfg *Config) *OssConfig {
	return cfg.Oss
}
