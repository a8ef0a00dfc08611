package services

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrKeyNotFound     = errors.New("键不存在")
	ErrVersionConflict = errors.New("版本冲突，记录已被其他请求更新")
)

// Record 存储记录，携带写入版本号用于乐观并发控制
type Record struct {
	Value   []byte
	Version int64
}

// Store 键值存储适配接口，持久化后端通过该接口接入
type Store interface {
	// Get 读取记录，键不存在或已过期时第二个返回值为 false
	Get(key string) (Record, bool)
	// Set 无条件写入，返回写入后的记录（版本号已递增）
	Set(key string, value []byte, ttl time.Duration) Record
	// CompareAndSet 按期望版本号写入，版本不匹配时返回 ErrVersionConflict
	CompareAndSet(key string, value []byte, expectedVersion int64, ttl time.Duration) (Record, error)
	// Delete 删除记录，键不存在时静默成功
	Delete(key string)
}

type memoryEntry struct {
	value     []byte
	version   int64
	expiresAt time.Time // 零值表示不过期
}

// MemoryStore 内存键值存储，读取时惰性清理过期键
type MemoryStore struct {
	entries map[string]*memoryEntry
	mutex   sync.RWMutex
	now     func() time.Time
}

// NewMemoryStore 创建内存存储实例
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// Get 读取记录
func (ms *MemoryStore) Get(key string) (Record, bool) {
	ms.mutex.RLock()
	entry, exists := ms.entries[key]
	ms.mutex.RUnlock()

	if !exists {
		return Record{}, false
	}
	if ms.expired(entry) {
		// 过期键惰性删除
		ms.mutex.Lock()
		if cur, ok := ms.entries[key]; ok && ms.expired(cur) {
			delete(ms.entries, key)
		}
		ms.mutex.Unlock()
		return Record{}, false
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return Record{Value: value, Version: entry.version}, true
}

// Set 无条件写入
func (ms *MemoryStore) Set(key string, value []byte, ttl time.Duration) Record {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	return ms.write(key, value, ttl)
}

// CompareAndSet 按期望版本号写入
func (ms *MemoryStore) CompareAndSet(key string, value []byte, expectedVersion int64, ttl time.Duration) (Record, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	entry, exists := ms.entries[key]
	if !exists || ms.expired(entry) {
		return Record{}, ErrKeyNotFound
	}
	if entry.version != expectedVersion {
		return Record{}, ErrVersionConflict
	}

	return ms.write(key, value, ttl), nil
}

// Delete 删除记录
func (ms *MemoryStore) Delete(key string) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	delete(ms.entries, key)
}

// write 写入记录并递增版本号，调用方需持有写锁
func (ms *MemoryStore) write(key string, value []byte, ttl time.Duration) Record {
	var version int64 = 1
	if prev, exists := ms.entries[key]; exists && !ms.expired(prev) {
		version = prev.version + 1
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	entry := &memoryEntry{value: stored, version: version}
	if ttl > 0 {
		entry.expiresAt = ms.now().Add(ttl)
	}
	ms.entries[key] = entry

	return Record{Value: value, Version: version}
}

// expired 判断记录是否已过期
func (ms *MemoryStore) expired(entry *memoryEntry) bool {
	return !entry.expiresAt.IsZero() && ms.now().After(entry.expiresAt)
}
