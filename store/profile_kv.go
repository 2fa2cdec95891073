package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cinerank/cinerank/core"
)

// KVProfileStore 是基于 core.Store 的用户画像适配器，实现 core.ProfileStore。
// 画像以 JSON 存在 {prefix}:profile:{userID} 下。
type KVProfileStore struct {
	kv core.Store

	// Prefix 存储 key 前缀，默认 "users"
	Prefix string
}

func NewKVProfileStore(kv core.Store, prefix string) *KVProfileStore {
	if prefix == "" {
		prefix = "users"
	}
	return &KVProfileStore{kv: kv, Prefix: prefix}
}

func (s *KVProfileStore) key(userID int64) string {
	return s.Prefix + ":profile:" + strconv.FormatInt(userID, 10)
}

// SaveProfile 写入画像快照（评分写入方调用）。
func (s *KVProfileStore) SaveProfile(ctx context.Context, p *core.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key(p.UserID), data)
}

func (s *KVProfileStore) FindByID(ctx context.Context, userID int64) (*core.UserProfile, error) {
	data, err := s.kv.Get(ctx, s.key(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}

	var p core.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ core.ProfileStore = (*KVProfileStore)(nil)
