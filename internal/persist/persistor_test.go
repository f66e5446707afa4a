package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/five82/storeadmin/internal/catalog"
	"github.com/five82/storeadmin/internal/state"
)

type memStorage struct {
	data    map[string][]byte
	saves   int
	loadErr error
}

func (m *memStorage) Load(_ context.Context, key string) ([]byte, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStorage) Save(_ context.Context, key string, payload []byte) error {
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = append([]byte(nil), payload...)
	m.saves++
	return nil
}

func (m *memStorage) Close() error { return nil }

func TestPersistorRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := &memStorage{}

	original := &state.Store{}
	original.ChangeTheme()
	original.SetProductFilter(state.ProductFilterPatch{Query: catalog.Ptr("Lamp")})

	p := NewPersistor(original, mem, nil)
	wrote, err := p.Flush(ctx)
	if err != nil || !wrote {
		t.Fatalf("Flush = %v, %v; want write", wrote, err)
	}
	if wrote, _ := p.Flush(ctx); wrote {
		t.Fatal("Flush without changes wrote again")
	}

	var raw map[string]any
	if err := json.Unmarshal(mem.data[RootKey], &raw); err != nil {
		t.Fatalf("stored payload is not JSON: %v", err)
	}
	if raw["theme"] != "dark" {
		t.Fatalf("stored theme = %v, want dark", raw["theme"])
	}

	restored := &state.Store{}
	rp := NewPersistor(restored, mem, nil)
	ok, err := rp.Rehydrate(ctx)
	if err != nil || !ok {
		t.Fatalf("Rehydrate = %v, %v; want restored", ok, err)
	}
	snap := restored.Snapshot()
	if snap.Theme != state.ThemeDark || snap.Products.Filter.Query != "lamp" {
		t.Fatalf("restored snapshot = theme %q filter %+v", snap.Theme, snap.Products.Filter)
	}
	if wrote, _ := rp.Flush(ctx); wrote {
		t.Fatal("Flush right after Rehydrate wrote")
	}

	restored.ChangeTheme()
	if wrote, err := rp.Flush(ctx); err != nil || !wrote {
		t.Fatalf("Flush after change = %v, %v; want write", wrote, err)
	}
	if mem.saves != 2 {
		t.Fatalf("saves = %d, want 2", mem.saves)
	}
}

func TestPersistorIgnoresCorruptSnapshot(t *testing.T) {
	var buf bytes.Buffer
	mem := &memStorage{data: map[string][]byte{RootKey: []byte("{not json")}}
	store := state.NewStore(state.ThemeDark)

	ok, err := NewPersistor(store, mem, log.New(&buf, "", 0)).Rehydrate(context.Background())
	if err != nil || ok {
		t.Fatalf("Rehydrate = %v, %v; want false, nil", ok, err)
	}
	if store.Theme() != state.ThemeDark {
		t.Fatalf("Theme = %q, want untouched dark", store.Theme())
	}
	if !strings.Contains(buf.String(), "corrupt snapshot") {
		t.Fatalf("log = %q, want corrupt snapshot notice", buf.String())
	}
}

func TestPersistorMissingSnapshotAndLoadError(t *testing.T) {
	ok, err := NewPersistor(&state.Store{}, &memStorage{}, nil).Rehydrate(context.Background())
	if err != nil || ok {
		t.Fatalf("Rehydrate on empty storage = %v, %v", ok, err)
	}

	boom := errors.New("disk gone")
	_, err = NewPersistor(&state.Store{}, &memStorage{loadErr: boom}, nil).Rehydrate(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Rehydrate err = %v, want wrapped %v", err, boom)
	}
}
