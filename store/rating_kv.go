package store

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/cinerank/cinerank/core"
)

// KVRatingStore 是基于 core.KeyValueStore 的评分历史适配器，实现 core.RatingStore。
//
// 存储布局：
//   - 按用户：Hash {prefix}:user:{userID}，field 为电影 ID，value 为 JSON 评分
//   - 全局事件流：SortedSet {prefix}:events，score 为评分时间戳（trending 用）
type KVRatingStore struct {
	kv core.KeyValueStore

	// Prefix 存储 key 前缀，默认 "ratings"
	Prefix string
}

// ratingEvent 是事件流里的一条记录。
type ratingEvent struct {
	UserID    int64     `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Score     float64   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

func NewKVRatingStore(kv core.KeyValueStore, prefix string) *KVRatingStore {
	if prefix == "" {
		prefix = "ratings"
	}
	return &KVRatingStore{kv: kv, Prefix: prefix}
}

func (s *KVRatingStore) userKey(userID int64) string {
	return s.Prefix + ":user:" + strconv.FormatInt(userID, 10)
}

func (s *KVRatingStore) eventsKey() string { return s.Prefix + ":events" }

// AddRating 记录一条评分（评分写入方调用）。
func (s *KVRatingStore) AddRating(ctx context.Context, userID int64, r core.Rating) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	field := strconv.FormatInt(r.MovieID, 10)
	if err := s.kv.HSet(ctx, s.userKey(userID), field, data); err != nil {
		return err
	}

	ev, err := json.Marshal(ratingEvent{
		UserID:    userID,
		MovieID:   r.MovieID,
		Score:     r.Score,
		Timestamp: r.Timestamp,
	})
	if err != nil {
		return err
	}
	return s.kv.ZAdd(ctx, s.eventsKey(), float64(r.Timestamp.Unix()), string(ev))
}

func (s *KVRatingStore) FindByUser(ctx context.Context, userID int64) ([]core.Rating, error) {
	fields, err := s.kv.HGetAll(ctx, s.userKey(userID))
	if err != nil {
		return nil, err
	}

	out := make([]core.Rating, 0, len(fields))
	for _, data := range fields {
		var r core.Rating
		if json.Unmarshal(data, &r) != nil {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out, nil
}

// FindRecent 返回最近 days 天内的评分事件，时间戳降序，最多 limit 条。
func (s *KVRatingStore) FindRecent(ctx context.Context, days int, limit int) ([]core.Rating, error) {
	members, err := s.kv.ZRange(ctx, s.eventsKey(), 0, -1)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	out := make([]core.Rating, 0, limit)
	for _, member := range members {
		var ev ratingEvent
		if json.Unmarshal([]byte(member), &ev) != nil {
			continue
		}
		if ev.Timestamp.Before(cutoff) {
			// 事件流按时间降序，后面的只会更旧
			break
		}
		out = append(out, core.Rating{
			MovieID:   ev.MovieID,
			Score:     ev.Score,
			Timestamp: ev.Timestamp,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

var _ core.RatingStore = (*KVRatingStore)(nil)
