package feature

import (
	"context"
	"fmt"
	"strconv"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

// FeastProvider 是基于官方 Feast Go SDK 的特征提供者实现。
//
// 使用官方 SDK (github.com/feast-dev/feast/sdk/go) 提供的 gRPC 客户端
// 从 Feast Feature Server 在线获取用户特征。
//
// 工程特征：
//   - 实时性：优秀（gRPC 低延迟、连接复用）
//   - 可扩展性：强（特征集合可配置，不改代码）
type FeastProvider struct {
	// client 官方 SDK 的 gRPC 客户端
	client *feastsdk.GrpcClient

	// Project 项目名称
	Project string

	// EntityKey 实体键名称，例如 "user_id"
	EntityKey string

	// Features 要获取的特征名称列表，例如 "user_stats:avg_rating"
	Features []string

	// Timeout 单次请求超时时间
	Timeout time.Duration

	// token 静态认证 Token
	token string
}

// FeastOption FeastProvider 配置选项
type FeastOption func(*FeastProvider)

// WithFeastTimeout 设置请求超时时间
func WithFeastTimeout(timeout time.Duration) FeastOption {
	return func(p *FeastProvider) {
		p.Timeout = timeout
	}
}

// WithFeastToken 使用静态 Token 认证（需在创建前设置）
func WithFeastToken(token string) FeastOption {
	return func(p *FeastProvider) {
		p.token = token
	}
}

// NewFeastProvider 创建一个基于官方 SDK 的 Feast 特征提供者。
//
// 参数：
//   - host: Feast Feature Server 主机地址，例如 "localhost"
//   - port: gRPC 端口，默认 6565
//   - project: 项目名称
//   - entityKey: 实体键名称，例如 "user_id"
//   - features: 特征名称列表
func NewFeastProvider(host string, port int, project, entityKey string, features []string, opts ...FeastOption) (*FeastProvider, error) {
	if port == 0 {
		port = 6565 // 默认 gRPC 端口
	}

	p := &FeastProvider{
		Project:   project,
		EntityKey: entityKey,
		Features:  features,
		Timeout:   5 * time.Second,
	}

	for _, opt := range opts {
		opt(p)
	}

	var client *feastsdk.GrpcClient
	var err error

	if p.token != "" {
		credential := feastsdk.NewStaticCredential(p.token)
		security := feastsdk.SecurityConfig{
			EnableTLS:  false,
			Credential: credential,
		}
		client, err = feastsdk.NewSecureGrpcClient(host, port, security)
	} else {
		client, err = feastsdk.NewGrpcClient(host, port)
	}
	if err != nil {
		return nil, fmt.Errorf("create feast grpc client: %w", err)
	}

	p.client = client
	return p, nil
}

// UserFeatures 实现 Provider 接口。
//
// 单实体行请求，特征值统一转换为 float64。
// 无法转换为数值的特征会被丢弃。
func (p *FeastProvider) UserFeatures(ctx context.Context, userID int64) (map[string]float64, error) {
	if len(p.Features) == 0 {
		return map[string]float64{}, nil
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: p.Features,
		Entities: []feastsdk.Row{
			{p.EntityKey: feastsdk.Int64Val(userID)},
		},
		Project: p.Project,
	}

	resp, err := p.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return map[string]float64{}, nil
	}

	// SDK 的 Rows() 返回 []Row，Row 是 map[string]*types.Value
	row := rows[0]
	out := make(map[string]float64, len(p.Features))
	for _, name := range p.Features {
		val, exists := row[name]
		if !exists {
			continue
		}
		if f, ok := toFloat64(val); ok {
			out[name] = f
		}
	}

	return out, nil
}

// Close 关闭底层 gRPC 连接
func (p *FeastProvider) Close() error {
	p.client = nil
	return nil
}

// toFloat64 将 SDK 返回的特征值转换为 float64
func toFloat64(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case *feasttypes.Value:
		switch inner := v.GetVal().(type) {
		case *feasttypes.Value_DoubleVal:
			return inner.DoubleVal, true
		case *feasttypes.Value_FloatVal:
			return float64(inner.FloatVal), true
		case *feasttypes.Value_Int64Val:
			return float64(inner.Int64Val), true
		case *feasttypes.Value_Int32Val:
			return float64(inner.Int32Val), true
		case *feasttypes.Value_BoolVal:
			if inner.BoolVal {
				return 1, true
			}
			return 0, true
		case *feasttypes.Value_StringVal:
			f, err := strconv.ParseFloat(inner.StringVal, 64)
			return f, err == nil
		default:
			return 0, false
		}
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case int:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		// protobuf 的 Value 类型先转字符串再解析
		f, err := strconv.ParseFloat(fmt.Sprintf("%v", val), 64)
		return f, err == nil
	}
}

// 确保 FeastProvider 实现了 Provider 接口
var _ Provider = (*FeastProvider)(nil)
