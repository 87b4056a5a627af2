package quota

import (
	"path/filepath"
	"testing"
	"time"
)

func fixedNow(value string) func() time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestTrackerAccumulate(t *testing.T) {
	tr := NewTracker(&MemoryStore{}, 500000)
	tr.now = fixedNow("2024-01-15")

	if got := tr.CurrentUsage(); got != 0 {
		t.Fatalf("fresh tracker usage = %d, want 0", got)
	}
	tr.Increment(1200)
	tr.Increment(800)
	if got := tr.CurrentUsage(); got != 2000 {
		t.Fatalf("usage = %d, want 2000", got)
	}
	if tr.Cap() != 500000 {
		t.Fatalf("cap = %d, want 500000", tr.Cap())
	}
}

func TestTrackerMonthRollover(t *testing.T) {
	store := &MemoryStore{}
	tr := NewTracker(store, 500000)
	tr.now = fixedNow("2024-01-31")
	tr.Increment(400000)

	// 跨月后读到 0，旧账不累进
	tr.now = fixedNow("2024-02-01")
	if got := tr.CurrentUsage(); got != 0 {
		t.Fatalf("usage after rollover = %d, want 0", got)
	}

	// 新月份的首次累加从 0 起算
	tr.Increment(100)
	if got := tr.CurrentUsage(); got != 100 {
		t.Fatalf("usage in new month = %d, want 100", got)
	}
	rec, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rec.Month != "2024-02" || rec.Usage != 100 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tts_usage.json")
	store := &FileStore{Path: path}

	// 文件不存在时读取报错，Tracker 把它当 0 处理
	if _, err := store.Load(); err == nil {
		t.Fatalf("expected error for missing file")
	}

	want := Record{Month: "2024-03", Usage: 12345}
	if err := store.Save(want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != want {
		t.Fatalf("loaded record = %+v, want %+v", got, want)
	}
}

func TestTrackerLoadErrorTreatedAsZero(t *testing.T) {
	tr := NewTracker(&FileStore{Path: filepath.Join(t.TempDir(), "missing.json")}, 1000)
	if got := tr.CurrentUsage(); got != 0 {
		t.Fatalf("usage with broken store = %d, want 0", got)
	}
}
