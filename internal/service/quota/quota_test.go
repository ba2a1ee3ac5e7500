package quota

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type brokenStore struct{ saves int }

func (b *brokenStore) Load(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (b *brokenStore) Save(context.Context, string, string) error {
	b.saves++
	return errors.New("storage unavailable")
}

func (b *brokenStore) Close() error { return nil }

func TestIsExhausted(t *testing.T) {
	t.Parallel()

	tr := NewTracker(NewFileStore(filepath.Join(t.TempDir(), "q.json")), DefaultCap, nil)
	tests := []struct {
		count int
		want  bool
	}{
		{0, false},
		{9, false},
		{10, true},
		{11, true},
		{100, true},
	}
	for _, tt := range tests {
		if got := tr.IsExhausted(tt.count); got != tt.want {
			t.Errorf("IsExhausted(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestNewTracker_DefaultCap(t *testing.T) {
	t.Parallel()

	tr := NewTracker(&brokenStore{}, 0, nil)
	if tr.Cap() != DefaultCap {
		t.Errorf("Cap() = %d, want %d", tr.Cap(), DefaultCap)
	}
}

func testRecordN(t *testing.T, open func(path string) Store) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quota")

	st := open(path)
	tr := NewTracker(st, DefaultCap, nil)
	if got := tr.Load(ctx, "adeasy_quota_1_2_3_4"); got != 0 {
		t.Fatalf("first Load = %d, want 0", got)
	}
	const n = 7
	for i := 1; i <= n; i++ {
		if got := tr.RecordGeneration(ctx); got != i {
			t.Fatalf("RecordGeneration #%d = %d", i, got)
		}
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Новый процесс видит сохранённое значение
	st2 := open(path)
	defer st2.Close()
	v, ok, err := st2.Load(ctx, "adeasy_quota_1_2_3_4")
	if err != nil || !ok {
		t.Fatalf("Load raw = (%q, %v, %v)", v, ok, err)
	}
	if v != "7" {
		t.Errorf("persisted value = %q, want \"7\"", v)
	}
	tr2 := NewTracker(st2, DefaultCap, nil)
	if got := tr2.Load(ctx, "adeasy_quota_1_2_3_4"); got != n {
		t.Errorf("reloaded = %d, want %d", got, n)
	}
	if tr2.Remaining() != DefaultCap-n {
		t.Errorf("Remaining() = %d, want %d", tr2.Remaining(), DefaultCap-n)
	}
}

func TestRecordGeneration_FileStore(t *testing.T) {
	t.Parallel()
	testRecordN(t, func(path string) Store { return NewFileStore(path + ".json") })
}

func TestRecordGeneration_SQLiteStore(t *testing.T) {
	t.Parallel()
	testRecordN(t, func(path string) Store {
		s, err := NewSQLiteStore(path + ".db")
		if err != nil {
			t.Fatalf("NewSQLiteStore: %v", err)
		}
		return s
	})
}

func TestLoad_KeysAreIndependent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := NewFileStore(filepath.Join(t.TempDir(), "q.json"))
	tr := NewTracker(st, DefaultCap, nil)
	tr.Load(ctx, "a")
	tr.RecordGeneration(ctx)
	tr.RecordGeneration(ctx)

	if got := tr.Load(ctx, "b"); got != 0 {
		t.Errorf("Load(b) = %d, want 0", got)
	}
	tr.RecordGeneration(ctx)
	if got := tr.Load(ctx, "a"); got != 2 {
		t.Errorf("Load(a) = %d, want 2", got)
	}
	if tr.Key() != "a" {
		t.Errorf("Key() = %q", tr.Key())
	}
}

func TestLoad_UnparsableDefaultsToZero(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := NewFileStore(filepath.Join(t.TempDir(), "q.json"))
	if err := st.Save(ctx, "k", "NaN"); err != nil {
		t.Fatalf("save: %v", err)
	}
	tr := NewTracker(st, DefaultCap, nil)
	if got := tr.Load(ctx, "k"); got != 0 {
		t.Errorf("Load = %d, want 0", got)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "q.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	st := NewFileStore(path)
	tr := NewTracker(st, DefaultCap, nil)
	if got := tr.Load(ctx, "k"); got != 0 {
		t.Errorf("Load on corrupt file = %d, want 0", got)
	}
	tr.RecordGeneration(ctx)
	v, ok, err := st.Load(ctx, "k")
	if err != nil || !ok || v != "1" {
		t.Errorf("after rewrite Load = (%q, %v, %v), want (\"1\", true, nil)", v, ok, err)
	}
}

func TestRecordGeneration_StorageFailureIsSilent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	bs := &brokenStore{}
	tr := NewTracker(bs, DefaultCap, nil)
	if got := tr.Load(ctx, "k"); got != 0 {
		t.Errorf("Load = %d, want 0", got)
	}
	if got := tr.RecordGeneration(ctx); got != 1 {
		t.Errorf("RecordGeneration = %d, want 1", got)
	}
	if bs.saves != 1 {
		t.Errorf("saves = %d, want 1", bs.saves)
	}
	if tr.Used() != 1 {
		t.Errorf("Used() = %d, want 1", tr.Used())
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Open("redis", filepath.Join(dir, "x")); err == nil {
		t.Error("expected error for unknown store")
	}
	st, err := Open("file", filepath.Join(dir, "q.json"))
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if _, ok := st.(*FileStore); !ok {
		t.Errorf("Open(file) = %T", st)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want string
	}{
		{"", filepath.Join("data", "quota.json")},
		{"file", filepath.Join("data", "quota.json")},
		{"sqlite", filepath.Join("data", "quota.db")},
		{"SQLite3", filepath.Join("data", "quota.db")},
	}
	for _, tt := range tests {
		if got := DefaultPath(tt.kind); got != tt.want {
			t.Errorf("DefaultPath(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
	if got := NewFileStore("").Path; got != DefaultPath("file") {
		t.Errorf("NewFileStore(\"\").Path = %q", got)
	}
}

func TestFileStore_ReadErrorKeepsOtherKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "q.json")
	if err := os.WriteFile(path, []byte(`{"adeasy_quota_203.0.113.7":"3"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	st := NewFileStore(path)
	st.readFile = func(string) ([]byte, error) { return nil, os.ErrPermission }

	if err := st.Save(ctx, "adeasy_quota_local_studio", "1"); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("Save with unreadable file: err = %v, want ErrPermission", err)
	}

	st.readFile = os.ReadFile
	v, ok, err := st.Load(ctx, "adeasy_quota_203.0.113.7")
	if err != nil || !ok || v != "3" {
		t.Errorf("other key after failed Save = (%q, %v, %v), want (\"3\", true, nil)", v, ok, err)
	}
	if _, ok, _ := st.Load(ctx, "adeasy_quota_local_studio"); ok {
		t.Error("failed Save must not write its key")
	}
}
