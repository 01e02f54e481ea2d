package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultClassifierEnabled = false
	DefaultClassifierURL     = "http://localhost:3001/api/ai/analyze"
	DefaultClassifierTimeout = 60 // 秒
	DefaultClassifierBatch   = 20 // 单次请求最多携带的图片数
)

type (
	// ClassifierConfig 外部视觉查重分类器（远端模型代理）配置.
	// 核心只消费它返回的聚类结果，主记录仍由本地决选规则重算.
	ClassifierConfig struct {
		Enabled   bool   `mapstructure:"enabled"`
		URL       string `mapstructure:"url"        rule:"url"`
		Timeout   int    `mapstructure:"timeout"    rule:"min=1,max=600"`
		BatchSize int    `mapstructure:"batch_size" rule:"min=1,max=100"`
		// Consent 透传用户同意头（x-user-consent），远端可能据此拒绝处理
		Consent bool `mapstructure:"consent"`
	}
)

// GetTimeout 返回请求超时作为 time.Duration.
func (c *ClassifierConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// setDefaults 设置分类器配置的默认值.
func (c *ClassifierConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("classifier.enabled", DefaultClassifierEnabled)
	v.SetDefault("classifier.url", DefaultClassifierURL)
	v.SetDefault("classifier.timeout", DefaultClassifierTimeout)
	v.SetDefault("classifier.batch_size", DefaultClassifierBatch)
	v.SetDefault("classifier.consent", false)
}
