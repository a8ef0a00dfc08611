package services

import (
	"time"

	"github.com/spf13/viper"
)

// Config 服务运行配置
type Config struct {
	ListenAddr       string        // HTTP监听地址
	GameTTL          time.Duration // 游戏主记录存活时间
	JoinCodeTTL      time.Duration // 邀请码存活时间
	CreatorIndexTTL  time.Duration // 创建者索引存活时间
	GeneratorURL     string        // 内容生成服务地址，为空时直接使用预置内容
	GeneratorTimeout time.Duration // 内容生成请求超时
}

// LoadConfig 从环境变量和配置文件加载配置，未设置的项使用默认值
func LoadConfig() Config {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("game_ttl", "24h")
	v.SetDefault("join_code_ttl", "2h")
	v.SetDefault("creator_index_ttl", "24h")
	v.SetDefault("generator_url", "")
	v.SetDefault("generator_timeout", "10s")

	v.SetEnvPrefix("partygames")
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	// 配置文件可选，读取失败时仅使用默认值和环境变量
	_ = v.ReadInConfig()

	return Config{
		ListenAddr:       v.GetString("listen_addr"),
		GameTTL:          v.GetDuration("game_ttl"),
		JoinCodeTTL:      v.GetDuration("join_code_ttl"),
		CreatorIndexTTL:  v.GetDuration("creator_index_ttl"),
		GeneratorURL:     v.GetString("generator_url"),
		GeneratorTimeout: v.GetDuration("generator_timeout"),
	}
}
