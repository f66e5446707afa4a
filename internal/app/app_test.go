package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/five82/storeadmin/internal/config"
)

// syncBuffer is a bytes.Buffer safe for a logger goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewClientUsesMockBackend(t *testing.T) {
	client, err := newClient(config.Config{MockRoutes: "full"})
	if err != nil {
		t.Fatalf("newClient returned error: %v", err)
	}
	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(products) == 0 {
		t.Fatal("mock backend returned no products")
	}
}

func TestNewClientRejectsUnknownRouteMode(t *testing.T) {
	if _, err := newClient(config.Config{MockRoutes: "partial"}); err == nil {
		t.Fatal("newClient accepted an unknown route mode")
	}
}

func TestOpenActivityLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("earlier\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger, f, err := openActivityLog(path)
	if err != nil {
		t.Fatalf("openActivityLog returned error: %v", err)
	}
	logger.Printf("request=r1 op=products.list outcome=success")
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[0] != "earlier" || !strings.HasSuffix(lines[1], "op=products.list outcome=success") {
		t.Fatalf("log lines = %q", lines)
	}
}

func TestOpenActivityLogCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "activity.log")
	_, f, err := openActivityLog(path)
	if err != nil {
		t.Fatalf("openActivityLog returned error: %v", err)
	}
	_ = f.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}
