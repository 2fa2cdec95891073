package engine

import (
	"context"
	"testing"
	"time"

	"github.com/cinerank/cinerank/core"
)

func TestPopular(t *testing.T) {
	f := newFixture(t)

	got, err := f.engine.Popular(context.Background(), 5)
	if err != nil {
		t.Fatalf("Popular 报错: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("条数 = %d, 期望 5", len(got))
	}
	for i, c := range got {
		if c.Score <= 0 || c.Score > 1.0 {
			t.Errorf("分数 %v 超出 (0,1]", c.Score)
		}
		if c.Rank != i+1 {
			t.Errorf("名次应为 1..N, 位置 %d 的 Rank = %d", i, c.Rank)
		}
	}
}

func TestTrending(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	// 电影 2 最近 7 天有 3 条评分, 电影 8 有 1 条, 电影 9 的评分在窗口外
	f.ratings.ratings = map[int64][]core.Rating{
		10: {
			{MovieID: 2, Score: 4.0, Timestamp: now.AddDate(0, 0, -1)},
			{MovieID: 8, Score: 3.5, Timestamp: now.AddDate(0, 0, -2)},
		},
		11: {
			{MovieID: 2, Score: 5.0, Timestamp: now.AddDate(0, 0, -3)},
			{MovieID: 9, Score: 4.0, Timestamp: now.AddDate(0, 0, -30)},
		},
		12: {
			{MovieID: 2, Score: 4.5, Timestamp: now.AddDate(0, 0, -1)},
		},
	}

	got, err := f.engine.Trending(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("Trending 报错: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("窗口内应有 2 部电影, 实际 %d", len(got))
	}
	if got[0].MovieID != 2 || got[0].Score != 1.0 {
		t.Errorf("榜首应为电影 2 且分数为 1.0, 实际 movie=%d score=%v", got[0].MovieID, got[0].Score)
	}
	if got[1].MovieID != 8 {
		t.Errorf("第二位应为电影 8, 实际 %d", got[1].MovieID)
	}
}

func TestTrendingEmpty(t *testing.T) {
	f := newFixture(t)
	f.ratings.ratings = nil

	got, err := f.engine.Trending(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("Trending 报错: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("无事件应返回空榜单, 实际 %d", len(got))
	}
}
