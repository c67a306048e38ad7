// 包 favorites 维护用户收藏的任务 id 集合，并持久化到一个固定键的槽位。
// Store 在应用入口构造一次，以指针传递给需要的组件。
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"launch-catalog/internal/logx"
)

// Slot 为持久化槽位：键对应一段 JSON。
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store 为收藏集合。List 保持加入顺序，集合本身无重复。
type Store struct {
	mu    sync.Mutex
	slot  Slot
	key   string
	order []string
	set   map[string]struct{}
}

// Open 从槽位读取已保存的收藏；数据缺失或损坏时退化为空集合（记录日志，不报错）。
func Open(ctx context.Context, slot Slot, key string) *Store {
	s := &Store{slot: slot, key: key, set: make(map[string]struct{})}
	raw, ok, err := slot.Get(ctx, key)
	if err != nil {
		logx.Warnf("读取收藏失败：key=%s 错误=%v", key, err)
		return s
	}
	if !ok || len(raw) == 0 {
		return s
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		logx.Warnf("收藏数据损坏，已忽略：key=%s 错误=%v", key, err)
		return s
	}
	for _, id := range ids {
		s.add(id)
	}
	logx.Debugf("已加载收藏 %d 项", len(s.order))
	return s
}

// Toggle 切换 id 的收藏状态并立即持久化，返回切换后的状态。
// 持久化失败时内存状态仍然生效，错误会被记录并返回。
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := true
	if _, ok := s.set[id]; ok {
		s.remove(id)
		on = false
	} else {
		s.add(id)
	}
	return on, s.persist(ctx)
}

func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[id]
	return ok
}

// List 返回收藏 id 的副本。
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.order...)
}

// Clear 清空收藏并持久化。
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.set = make(map[string]struct{})
	return s.persist(ctx)
}

func (s *Store) add(id string) {
	if _, ok := s.set[id]; ok {
		return
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *Store) remove(id string) {
	delete(s.set, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// persist 将完整集合序列化写回槽位；调用方需持有锁。
func (s *Store) persist(ctx context.Context) error {
	ids := s.order
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.slot.Put(ctx, s.key, b); err != nil {
		logx.Errorf("保存收藏失败：key=%s 错误=%v", s.key, err)
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}
