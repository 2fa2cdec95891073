package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cinerank/cinerank/core"
	"github.com/cinerank/cinerank/pipeline"
	"github.com/cinerank/cinerank/store"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写配置文件失败: %v", err)
	}
	return path
}

func seedMovies(t *testing.T, movies *store.KVMovieStore) {
	t.Helper()
	ctx := context.Background()
	data := []struct {
		id     int64
		genres []string
		count  int
	}{
		{1, []string{"Action"}, 1000},
		{2, []string{"Drama"}, 20},
		{13, []string{"Horror"}, 800},
	}
	for _, d := range data {
		m := core.NewMovie(d.id, "", d.genres)
		m.RatingCount = d.count
		m.AvgRating = 4.0
		if err := movies.SaveMovie(ctx, m); err != nil {
			t.Fatalf("SaveMovie 报错: %v", err)
		}
	}
}

func TestBuildPipelineFromYAML(t *testing.T) {
	path := writeYAML(t, `
pipeline:
  name: post-blend
  nodes:
    - type: filter
      config:
        rules:
          - 'movie.rating_count < 50'
        blacklist: [13]
    - type: rerank.topn
      config:
        n: 5
`)
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML 报错: %v", err)
	}

	kv := store.NewMemoryStore()
	defer kv.Close()
	movies := store.NewKVMovieStore(kv, "")
	seedMovies(t, movies)

	p, err := cfg.BuildPipeline(DefaultFactory(movies, kv))
	if err != nil {
		t.Fatalf("BuildPipeline 报错: %v", err)
	}
	if len(p.Nodes) != 2 {
		t.Fatalf("Node 数 = %d, 期望 2", len(p.Nodes))
	}

	in := []*core.ScoredCandidate{
		core.NewScoredCandidate(1, 0.9, core.SourcePopularity),
		core.NewScoredCandidate(2, 0.8, core.SourcePopularity),  // rating_count < 50
		core.NewScoredCandidate(13, 0.7, core.SourcePopularity), // 黑名单
	}
	out, err := p.Run(context.Background(), &core.RecommendContext{Limit: 10}, in)
	if err != nil {
		t.Fatalf("Run 报错: %v", err)
	}
	if len(out) != 1 || out[0].MovieID != 1 {
		t.Fatalf("过滤后应只剩电影 1, 实际 %d 个", len(out))
	}
}

func TestBuildPipelineUnknownNode(t *testing.T) {
	path := writeYAML(t, `
pipeline:
  nodes:
    - type: teleport
`)
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML 报错: %v", err)
	}
	if _, err := cfg.BuildPipeline(DefaultFactory(nil, nil)); err == nil {
		t.Fatalf("未知 Node 类型应报错")
	}
}

func TestBuildPipelineBadRule(t *testing.T) {
	path := writeYAML(t, `
pipeline:
  nodes:
    - type: filter
      config:
        rules:
          - 'movie.rating_count <'
`)
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML 报错: %v", err)
	}
	if _, err := cfg.BuildPipeline(DefaultFactory(nil, nil)); err == nil {
		t.Fatalf("语法错误的规则应在构建时报错")
	}
}

func TestMMRNodeFromConfig(t *testing.T) {
	path := writeYAML(t, `
pipeline:
  nodes:
    - type: rerank.mmr
      config:
        lambda: 0.5
        limit: 3
`)
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML 报错: %v", err)
	}

	kv := store.NewMemoryStore()
	defer kv.Close()
	movies := store.NewKVMovieStore(kv, "")
	seedMovies(t, movies)

	p, err := cfg.BuildPipeline(DefaultFactory(movies, nil))
	if err != nil {
		t.Fatalf("BuildPipeline 报错: %v", err)
	}

	in := []*core.ScoredCandidate{
		core.NewScoredCandidate(1, 0.9, core.SourceCollaborative),
		core.NewScoredCandidate(2, 0.8, core.SourceCollaborative),
		core.NewScoredCandidate(13, 0.7, core.SourceCollaborative),
	}
	out, err := p.Run(context.Background(), &core.RecommendContext{Limit: 10}, in)
	if err != nil {
		t.Fatalf("Run 报错: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("limit=3 覆盖全部候选, 实际 %d", len(out))
	}
	if out[0].MovieID != 1 {
		t.Errorf("种子应为相关性最高的候选")
	}
}
