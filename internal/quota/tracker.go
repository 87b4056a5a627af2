package quota

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Record 单计数账本：月份键 + 当月已消耗字符数
type Record struct {
	Month string `json:"month"`
	Usage int    `json:"usage"`
}

// Store 账本持久化接口，测试可替换为内存实现
type Store interface {
	Load() (Record, error)
	Save(Record) error
}

// monthKey 形如 "2024-01" 的日历月键
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Tracker 追踪配额后端的当月字符用量。
// 配额只是软性的成本控制信号，不是硬正确性边界：
// 并发调用之间存在读了再加的竞争窗口，这是设计上接受的。
// 进程内用互斥量串行化两个方法，跨进程不加锁。
type Tracker struct {
	mu    sync.Mutex
	store Store
	cap   int
	now   func() time.Time
}

func NewTracker(store Store, monthlyCap int) *Tracker {
	return &Tracker{store: store, cap: monthlyCap, now: time.Now}
}

// Cap 返回每月字符上限
func (t *Tracker) Cap() int { return t.cap }

// CurrentUsage 读取当月用量。
// 存储的月份键与当前月不一致时按 0 处理（跨月滚动），不报错。
// 读取失败同样按 0 处理：宁可多用配额也不中断合成。
func (t *Tracker) CurrentUsage() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentLocked()
}

func (t *Tracker) currentLocked() int {
	rec, err := t.store.Load()
	if err != nil {
		return 0
	}
	if rec.Month != monthKey(t.now()) {
		return 0
	}
	return rec.Usage
}

// Increment 累加用量并尽力持久化。
// 非原子的 read-modify-write：并发片段可能互相覆盖少记一部分，
// 见类型注释，持久化失败只记日志。
func (t *Tracker) Increment(chars int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := Record{
		Month: monthKey(t.now()),
		Usage: t.currentLocked() + chars,
	}
	if err := t.store.Save(rec); err != nil {
		logrus.Warnf("quota: failed to persist usage: %v", err)
	}
}

// ---------------------------------------------------------------------------

// FileStore 把账本存为一个小 JSON 文件
type FileStore struct {
	Path string
}

func (f *FileStore) Load() (Record, error) {
	var rec Record
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (f *FileStore) Save(rec Record) error {
	data, err := json.Marshal(&rec)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o644)
}

// MemoryStore 测试用的内存账本
type MemoryStore struct {
	mu  sync.Mutex
	rec Record
}

func (m *MemoryStore) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, nil
}

func (m *MemoryStore) Save(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	return nil
}
