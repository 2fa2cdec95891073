package feature

import "context"

// Provider 定义用户特征提供者接口。
//
// 设计原则（DDD）：
//   - 领域层：Provider 接口保持稳定
//   - 基础设施层：FeastProvider、StaticProvider 等实现可替换
type Provider interface {
	// UserFeatures 获取用户的在线特征向量
	UserFeatures(ctx context.Context, userID int64) (map[string]float64, error)
}

// StaticProvider 是基于内存映射的特征提供者，用于测试和离线场景。
type StaticProvider struct {
	// Features 用户 ID 到特征向量的映射
	Features map[int64]map[string]float64
}

// UserFeatures 实现 Provider 接口
func (p *StaticProvider) UserFeatures(ctx context.Context, userID int64) (map[string]float64, error) {
	features, ok := p.Features[userID]
	if !ok {
		return map[string]float64{}, nil
	}
	out := make(map[string]float64, len(features))
	for name, value := range features {
		out[name] = value
	}
	return out, nil
}

// 确保 StaticProvider 实现了 Provider 接口
var _ Provider = (*StaticProvider)(nil)
