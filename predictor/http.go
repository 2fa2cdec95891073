package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/feature"
)

// HTTPPredictor 是基于 REST API 的模型服务客户端，实现 core.Predictor 接口。
//
// 适配 TF Serving 风格的推理服务：
//   - POST {endpoint}/v1/models/{model}:predict
//   - 请求体携带 user_id、movie_ids，可选携带用户特征
//   - 响应体为 {"scores": {"<movieID>": <score>}}
//
// 工程特征：
//   - 实时性：好（HTTP/JSON，单次批量预测）
//   - 可扩展性：强（支持多模型、版本控制）
//   - 功能：完整（支持认证、特征注入）
type HTTPPredictor struct {
	// Endpoint 服务端点，例如 "http://localhost:8501"
	Endpoint string

	// ModelName 模型名称
	ModelName string

	// ModelVersion 模型版本（可选，为空则使用最新版本）
	ModelVersion string

	// Timeout 超时时间
	Timeout time.Duration

	// Token 静态认证 Token（可选）
	Token string

	// Features 特征提供者（可选，注入用户特征辅助预测）
	Features feature.Provider

	httpClient *http.Client
}

// Option HTTPPredictor 配置选项
type Option func(*HTTPPredictor)

// WithVersion 设置模型版本
func WithVersion(version string) Option {
	return func(p *HTTPPredictor) {
		p.ModelVersion = version
	}
}

// WithTimeout 设置超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(p *HTTPPredictor) {
		p.Timeout = timeout
	}
}

// WithToken 设置静态认证 Token
func WithToken(token string) Option {
	return func(p *HTTPPredictor) {
		p.Token = token
	}
}

// WithFeatures 设置特征提供者，预测请求会携带在线用户特征
func WithFeatures(provider feature.Provider) Option {
	return func(p *HTTPPredictor) {
		p.Features = provider
	}
}

// New 创建一个新的 HTTP 模型服务客户端。
func New(endpoint, modelName string, opts ...Option) *HTTPPredictor {
	p := &HTTPPredictor{
		Endpoint:  endpoint,
		ModelName: modelName,
		Timeout:   30 * time.Second,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.httpClient = &http.Client{
		Timeout: p.Timeout,
	}

	return p
}

// predictRequest 推理请求体
type predictRequest struct {
	UserID   int64              `json:"user_id"`
	MovieIDs []int64            `json:"movie_ids"`
	Features map[string]float64 `json:"features,omitempty"`
}

// predictResponse 推理响应体
type predictResponse struct {
	Scores map[string]float64 `json:"scores"`
}

// Predict 实现 core.Predictor 接口。
//
// 一次请求批量预测所有候选影片的评分，结果按影片 ID 映射返回。
// 服务不可用（网络错误、非 200 状态、响应格式错误）统一包装为
// core.ErrPredictorUnavailable，由调用方决定降级策略。
func (p *HTTPPredictor) Predict(ctx context.Context, userID int64, movieIDs []int64) (map[int64]float64, error) {
	if len(movieIDs) == 0 {
		return map[int64]float64{}, nil
	}

	body := predictRequest{
		UserID:   userID,
		MovieIDs: movieIDs,
	}

	// 特征注入失败不阻断预测，仅丢弃特征
	if p.Features != nil {
		if features, err := p.Features.UserFeatures(ctx, userID); err == nil && len(features) > 0 {
			body.Features = features
		}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:predict", p.Endpoint, p.ModelName)
	if p.ModelVersion != "" {
		url = fmt.Sprintf("%s/v1/models/%s/versions/%s:predict", p.Endpoint, p.ModelName, p.ModelVersion)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.Token)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrPredictorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status=%d, body=%s", core.ErrPredictorUnavailable, resp.StatusCode, string(bodyBytes))
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", core.ErrPredictorUnavailable, err)
	}

	scores := make(map[int64]float64, len(result.Scores))
	for key, score := range result.Scores {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		scores[id] = score
	}

	return scores, nil
}

// 确保 HTTPPredictor 实现了 core.Predictor 接口
var _ core.Predictor = (*HTTPPredictor)(nil)
