package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/rerank"
)

// DefaultCount 是单次推荐的默认条数。
const DefaultCount = 10

// Config 是引擎的行为参数，全部有可用的默认值。
type Config struct {
	// PoolSize 各打分源的候选池大小，默认 200
	PoolSize int `yaml:"pool_size"`

	// MinRatingCount 热门源的最低评分数门槛，默认 10
	MinRatingCount int `yaml:"min_rating_count"`

	// PositiveThreshold 内容源的正向评分阈值，默认 4.0
	PositiveThreshold float64 `yaml:"positive_threshold"`

	// SourceTimeoutSeconds 单个打分源的超时秒数，默认 2
	SourceTimeoutSeconds int `yaml:"source_timeout_seconds"`

	// Lambda MMR 相关性权重，默认 0.7
	Lambda float64 `yaml:"lambda"`

	// Overfetch 进入过滤/重排前的超采倍数，默认 2。
	// 重排和过滤都会丢弃候选，混排阶段多取一些保证最终仍能凑满 count。
	Overfetch int `yaml:"overfetch"`

	// Explanations 是否为每条结果生成推荐理由，默认开
	Explanations *bool `yaml:"explanations"`

	// Rules 候选过滤规则（CEL 表达式），命中即移除
	Rules []string `yaml:"rules"`

	// Blacklist 静态屏蔽的电影 ID
	Blacklist []int64 `yaml:"blacklist"`

	// TTL 分层 → 结果缓存秒数，缺省见 defaultTTL
	TTL map[core.Tier]int `yaml:"ttl"`
}

// defaultTTL 分层缓存时长：冷启动结果与用户无关可以长缓存；
// 活跃用户的画像变化快，缓存越短越不容易喂旧结果。
var defaultTTL = map[core.Tier]int{
	core.TierColdStart: 3600,
	core.TierNew:       1800,
	core.TierCasual:    900,
	core.TierActive:    600,
	core.TierPowerUser: 1800,
}

// LoadConfig 从 YAML 文件加载引擎配置。
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// withDefaults 填充零值字段。
func (c Config) withDefaults() Config {
	if c.PoolSize <= 0 {
		c.PoolSize = 200
	}
	if c.MinRatingCount <= 0 {
		c.MinRatingCount = 10
	}
	if c.PositiveThreshold <= 0 {
		c.PositiveThreshold = 4.0
	}
	if c.SourceTimeoutSeconds <= 0 {
		c.SourceTimeoutSeconds = 2
	}
	if c.Lambda <= 0 {
		c.Lambda = rerank.DefaultLambda
	}
	if c.Overfetch <= 0 {
		c.Overfetch = 2
	}
	if c.Explanations == nil {
		on := true
		c.Explanations = &on
	}
	if c.TTL == nil {
		c.TTL = defaultTTL
	}
	return c
}

func (c Config) sourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutSeconds) * time.Second
}

func (c Config) ttlFor(tier core.Tier) int {
	if ttl, ok := c.TTL[tier]; ok {
		return ttl
	}
	return defaultTTL[tier]
}
