package config

type App struct {
	Env   string `json:"env" yaml:"env"`
	Debug bool   `json:"debug" yaml:"debug"`
	// 对外的 CDN/静态资源前缀
	AssetHost string `json:"asset_host" yaml:"asset_host"`
	// hashids 盐，报价单编号混淆用
	HashSalt string `json:"hash_salt" yaml:"hash_salt"`
}

type Jwt struct {
	Secret string `json:"secret" yaml:"secret"`
	// token 有效期（小时）
	ExpireHours int `json:"expire_hours" yaml:"expire_hours"`
}
