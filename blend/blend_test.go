package blend

import (
	"math"
	"testing"

	"github.com/cinerank/cinerank/core"
)

func candidates(source string, pairs ...float64) []*core.ScoredCandidate {
	out := make([]*core.ScoredCandidate, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		c := core.NewScoredCandidate(int64(pairs[i]), pairs[i+1], source)
		c.Rank = len(out) + 1
		out = append(out, c)
	}
	return out
}

func TestBlendWeightedUnion(t *testing.T) {
	perSource := map[string][]*core.ScoredCandidate{
		core.SourceContent:       candidates(core.SourceContent, 1, 0.9, 2, 0.5),
		core.SourceCollaborative: candidates(core.SourceCollaborative, 2, 0.8, 3, 0.6),
	}
	weights := map[string]float64{
		core.SourceContent:       0.4,
		core.SourceCollaborative: 0.6,
	}

	got := Blend(perSource, weights, 10)
	if len(got) != 3 {
		t.Fatalf("加权并集应含 3 个候选, 实际 %d", len(got))
	}

	// 电影 2 双源覆盖: 0.4*0.5 + 0.6*0.8 = 0.68
	byID := make(map[int64]*core.ScoredCandidate)
	for _, c := range got {
		byID[c.MovieID] = c
	}
	if math.Abs(byID[2].Score-0.68) > 1e-9 {
		t.Errorf("双源候选分数 = %v, 期望 0.68", byID[2].Score)
	}
	// 电影 1 单源覆盖, 未覆盖源按 0 计: 0.4*0.9 = 0.36
	if math.Abs(byID[1].Score-0.36) > 1e-9 {
		t.Errorf("单源候选分数 = %v, 期望 0.36", byID[1].Score)
	}

	// 排序: 2(0.68) > 3(0.36) == 1(0.36) → 同分比最好名次
	if got[0].MovieID != 2 {
		t.Errorf("榜首应为电影 2, 实际 %d", got[0].MovieID)
	}
	for i, c := range got {
		if c.Rank != i+1 {
			t.Errorf("名次应重排为 1..N, 位置 %d 的 Rank = %d", i, c.Rank)
		}
	}
}

func TestBlendTieBreakByBestRank(t *testing.T) {
	// 电影 1 和 3 混排同分 0.36; 1 在 content 里排第 1, 3 在 collaborative 里排第 2
	perSource := map[string][]*core.ScoredCandidate{
		core.SourceContent:       candidates(core.SourceContent, 1, 0.9),
		core.SourceCollaborative: candidates(core.SourceCollaborative, 5, 0.9, 3, 0.6),
	}
	weights := map[string]float64{
		core.SourceContent:       0.4,
		core.SourceCollaborative: 0.6,
	}

	got := Blend(perSource, weights, 10)
	// 5: 0.54, 1: 0.36(rank1), 3: 0.36(rank2)
	wantOrder := []int64{5, 1, 3}
	for i, want := range wantOrder {
		if got[i].MovieID != want {
			t.Fatalf("位置 %d 应为电影 %d, 实际 %d", i, want, got[i].MovieID)
		}
	}
}

func TestBlendTieBreakByID(t *testing.T) {
	// 完全同分同名次 → 电影 ID 升序
	perSource := map[string][]*core.ScoredCandidate{
		core.SourceContent:    candidates(core.SourceContent, 7, 0.5),
		core.SourcePopularity: candidates(core.SourcePopularity, 2, 0.5),
	}
	weights := map[string]float64{
		core.SourceContent:    0.5,
		core.SourcePopularity: 0.5,
	}
	got := Blend(perSource, weights, 10)
	if got[0].MovieID != 2 || got[1].MovieID != 7 {
		t.Fatalf("同分同名次应按 ID 升序, 实际 %d, %d", got[0].MovieID, got[1].MovieID)
	}
}

func TestBlendLimit(t *testing.T) {
	perSource := map[string][]*core.ScoredCandidate{
		core.SourcePopularity: candidates(core.SourcePopularity, 1, 0.9, 2, 0.8, 3, 0.7),
	}
	got := Blend(perSource, map[string]float64{core.SourcePopularity: 1.0}, 2)
	if len(got) != 2 {
		t.Fatalf("limit=2 应截断到 2, 实际 %d", len(got))
	}
}

func TestBlendDeterministic(t *testing.T) {
	perSource := map[string][]*core.ScoredCandidate{
		core.SourceContent:       candidates(core.SourceContent, 1, 0.5, 2, 0.5, 3, 0.5),
		core.SourceCollaborative: candidates(core.SourceCollaborative, 3, 0.5, 2, 0.5, 1, 0.5),
	}
	weights := map[string]float64{
		core.SourceContent:       0.5,
		core.SourceCollaborative: 0.5,
	}

	first := Blend(perSource, weights, 10)
	for i := 0; i < 20; i++ {
		again := Blend(perSource, weights, 10)
		for j := range first {
			if first[j].MovieID != again[j].MovieID {
				t.Fatalf("第 %d 次混排顺序不稳定", i)
			}
		}
	}
}

func TestBlendMergesSources(t *testing.T) {
	perSource := map[string][]*core.ScoredCandidate{
		core.SourceContent:       candidates(core.SourceContent, 1, 0.9),
		core.SourceCollaborative: candidates(core.SourceCollaborative, 1, 0.8),
	}
	weights := map[string]float64{
		core.SourceContent:       0.5,
		core.SourceCollaborative: 0.5,
	}
	got := Blend(perSource, weights, 10)
	if got[0].Source != core.SourceCollaborative+"+"+core.SourceContent {
		t.Errorf("多源候选的来源标签应合并, 实际 %q", got[0].Source)
	}
}

func TestBlendEmpty(t *testing.T) {
	if got := Blend(nil, map[string]float64{core.SourcePopularity: 1.0}, 5); len(got) != 0 {
		t.Fatalf("空输入应返回空结果, 实际 %d", len(got))
	}
}
