package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cinerank/cinerank/core"
)

func TestExplain(t *testing.T) {
	f := newFixture(t)

	// 用户 4 偏好 Action; 电影 6 的类型是 {"Action", "Sci-Fi"}（catalog 里 6%6=0）
	got, err := f.engine.Explain(context.Background(), 4, 6)
	if err != nil {
		t.Fatalf("Explain 报错: %v", err)
	}
	if got.Tier != string(core.TierPowerUser) {
		t.Errorf("分层 = %s, 期望 power_user", got.Tier)
	}
	if got.Strategy != "collaborative_diversity" {
		t.Errorf("策略 = %s, 期望 collaborative_diversity", got.Strategy)
	}
	if len(got.CommonGenres) != 1 || got.CommonGenres[0] != "Action" {
		t.Errorf("共同类型 = %v, 期望 [Action]", got.CommonGenres)
	}
	if got.GenreMatch != 0.5 {
		t.Errorf("类型相似度 = %v, 期望 0.5", got.GenreMatch)
	}
	if got.PrimaryReason == "" {
		t.Errorf("主理由不应为空")
	}
}

func TestExplainMovieNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Explain(context.Background(), 4, 9999)
	if !errors.Is(err, core.ErrMovieNotFound) {
		t.Fatalf("未知电影应返回 ErrMovieNotFound, 实际 %v", err)
	}
}

func TestExplainUserNotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.Explain(context.Background(), 404, 6); !core.IsUserNotFound(err) {
		t.Fatalf("未知用户应返回 UserNotFound, 实际 %v", err)
	}
}

func TestExplanationWording(t *testing.T) {
	m := core.NewMovie(1, "Blade Runner", []string{"Sci-Fi", "Thriller"})
	m.RatingCount = 1200
	m.AvgRating = 4.3

	tests := []struct {
		name      string
		favorites []string
		source    string
		wantSub   string
	}{
		{"类型匹配", []string{"Sci-Fi"}, core.SourceContent, "Sci-Fi"},
		{"协同信号", nil, core.SourceCollaborative, "similar taste"},
		{"热门口碑", nil, core.SourcePopularity, "1200"},
		{"组合来源优先类型", []string{"Thriller"}, core.SourceCollaborative + "+" + core.SourceContent, "Thriller"},
	}
	for _, tt := range tests {
		got := explanation(m, tt.favorites, tt.source)
		if got == "" {
			t.Fatalf("%s: 理由不应为空", tt.name)
		}
		if tt.wantSub != "" && !strings.Contains(got, tt.wantSub) {
			t.Errorf("%s: 理由 %q 应包含 %q", tt.name, got, tt.wantSub)
		}
	}
}
