package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cinerank/cinerank/core"
)

// KVMovieStore 是基于 core.KeyValueStore 的电影目录适配器，实现 core.MovieStore。
//
// 存储布局：
//   - 电影快照：Hash {prefix}:movies，field 为电影 ID，value 为 JSON
//   - 热门池索引：SortedSet {prefix}:by_rating_count，score 为评分数
type KVMovieStore struct {
	kv core.KeyValueStore

	// Prefix 是存储 key 的前缀，默认 "catalog"
	Prefix string
}

func NewKVMovieStore(kv core.KeyValueStore, prefix string) *KVMovieStore {
	if prefix == "" {
		prefix = "catalog"
	}
	return &KVMovieStore{kv: kv, Prefix: prefix}
}

func (s *KVMovieStore) moviesKey() string { return s.Prefix + ":movies" }
func (s *KVMovieStore) rankKey() string   { return s.Prefix + ":by_rating_count" }

// SaveMovie 写入电影快照并更新热门池索引。
func (s *KVMovieStore) SaveMovie(ctx context.Context, m *core.Movie) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	field := strconv.FormatInt(m.ID, 10)
	if err := s.kv.HSet(ctx, s.moviesKey(), field, data); err != nil {
		return err
	}
	return s.kv.ZAdd(ctx, s.rankKey(), float64(m.RatingCount), field)
}

// FindCandidates 按评分数降序返回满足条件的候选。
func (s *KVMovieStore) FindCandidates(
	ctx context.Context,
	filter core.CandidateFilter,
) ([]*core.Movie, error) {
	members, err := s.kv.ZRange(ctx, s.rankKey(), 0, -1)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	all, err := s.kv.HGetAll(ctx, s.moviesKey())
	if err != nil {
		return nil, err
	}

	out := make([]*core.Movie, 0, len(members))
	for _, member := range members {
		data, ok := all[member]
		if !ok {
			continue
		}
		var m core.Movie
		if json.Unmarshal(data, &m) != nil {
			continue
		}
		if m.RatingCount < filter.MinRatingCount {
			// 索引按评分数降序，后面的只会更小
			break
		}
		if len(filter.Genres) > 0 && !matchesAnyGenre(&m, filter.Genres) {
			continue
		}
		out = append(out, &m)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// FindByIDs 批量读取电影快照，不存在的 ID 不出现在结果里。
func (s *KVMovieStore) FindByIDs(
	ctx context.Context,
	ids []int64,
) (map[int64]*core.Movie, error) {
	if len(ids) == 0 {
		return map[int64]*core.Movie{}, nil
	}

	out := make(map[int64]*core.Movie, len(ids))
	for _, id := range ids {
		data, err := s.kv.HGet(ctx, s.moviesKey(), strconv.FormatInt(id, 10))
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, err
		}
		var m core.Movie
		if json.Unmarshal(data, &m) != nil {
			continue
		}
		out[id] = &m
	}
	return out, nil
}

func matchesAnyGenre(m *core.Movie, genres []string) bool {
	for _, g := range genres {
		if m.HasGenre(g) {
			return true
		}
	}
	return false
}

var _ core.MovieStore = (*KVMovieStore)(nil)
