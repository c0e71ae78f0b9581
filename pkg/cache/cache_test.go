package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	c := Disabled()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)
	now := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	value := []byte("docx bytes")
	if err := c.Set(ctx, "a", value, 0); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "docx bytes" {
		t.Fatalf("Get(a) = %q, %v, %v", data, hit, err)
	}
	data[0] = 'Y'
	if again, _, _ := c.Get(ctx, "a"); string(again) != "docx bytes" {
		t.Errorf("stored value changed through a returned slice: %q", again)
	}

	if err := c.Set(ctx, "b", []byte("report"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "c", []byte("newest"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("oldest entry should be evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	now = now.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "c"); !hit {
		t.Error("entry without ttl should survive")
	}

	if err := c.Delete(ctx, "c"); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("Len after delete = %d", c.Len())
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatal("empty cache should miss")
	}
	if err := c.Set(ctx, "k", []byte("docx bytes"), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "docx bytes" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	n, size, err := c.Stats()
	if err != nil || n != 1 || size == 0 {
		t.Errorf("Stats = %d, %d, %v", n, size, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := c.path("k")
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if n, _, _ := c.Stats(); n != 0 {
		t.Errorf("Stats after Clear = %d entries", n)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("Clear removed the directory: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := k.RunKey("src", "stripe", RunKeyOpts{ThemeHash: "t1"})
	for name, other := range map[string]string{
		"brand":  k.RunKey("src", "apple", RunKeyOpts{ThemeHash: "t1"}),
		"source": k.RunKey("src2", "stripe", RunKeyOpts{ThemeHash: "t1"}),
		"theme":  k.RunKey("src", "stripe", RunKeyOpts{ThemeHash: "t2"}),
		"policy": k.RunKey("src", "stripe", RunKeyOpts{ThemeHash: "t1", Policy: "strict"}),
	} {
		if other == base {
			t.Errorf("changing %s should change the key", name)
		}
	}
	if base != k.RunKey("src", "stripe", RunKeyOpts{ThemeHash: "t1"}) {
		t.Error("RunKey should be deterministic")
	}
	if got := k.ReportKey("src"); got[:7] != "report:" {
		t.Errorf("ReportKey = %q", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tenant:1:")
	want := "tenant:1:" + NewDefaultKeyer().RunKey("s", "ibm", RunKeyOpts{})
	if got := scoped.RunKey("s", "ibm", RunKeyOpts{}); got != want {
		t.Errorf("RunKey = %q, want %q", got, want)
	}
	if got := scoped.ReportKey("s"); got[:9] != "tenant:1:" {
		t.Errorf("ReportKey = %q", got)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	calls := 0
	err := RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		return errBoom
	})
	if err != errBoom || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return Retryable(errBoom)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry then succeed: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		return Retryable(errBoom)
	})
	if !errors.Is(err, errBoom) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, 3, time.Hour, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) || err.Error() != ErrUnavailable.Error() {
		t.Errorf("Retryable wrapping broken: %v", err)
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("unwrapped error should not be retryable")
	}
}

func TestRedisOptions(t *testing.T) {
	c := newRedisCache(nil, WithPrefix("polisher:"), WithRetry(5, time.Second))
	if c.key("run:x") != "polisher:run:x" {
		t.Errorf("key = %q", c.key("run:x"))
	}
	if c.attempts != 5 || c.delay != time.Second {
		t.Errorf("retry = %d, %v", c.attempts, c.delay)
	}
}
