package config_controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/store"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memStore struct {
	mu   sync.Mutex
	docs map[string]json.RawMessage
	err  error
}

func (m *memStore) GetConfigByKey(_ context.Context, key string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.docs[key], nil
}

func (m *memStore) UpsertConfig(_ context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.docs[key] = value
	return nil
}

type tagRecorder struct {
	mu   sync.Mutex
	tags []string
}

func (r *tagRecorder) Invalidate(_ context.Context, tags ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, tags...)
	return nil
}

func newRouter(s *memStore, bus *tagRecorder) *gin.Engine {
	InitSiteConfigService(services.NewSiteConfigService(s, bus))

	r := gin.New()
	r.GET("/config/home", GetHomeConfig)
	r.PUT("/config/home", UpdateHomeConfig)
	r.GET("/config/dollar", GetDollarConfig)
	r.PUT("/config/dollar", UpdateDollarConfig)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateDollarConfig(t *testing.T) {
	s := &memStore{docs: map[string]json.RawMessage{}}
	bus := &tagRecorder{}
	r := newRouter(s, bus)

	w := do(r, http.MethodPut, "/config/dollar", `{"manual_rate":1450}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data models.DollarConfig `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.ManualRate != 1450 || resp.Data.Source != models.DefaultDollarConfig().Source {
		t.Fatalf("dollar = %+v", resp.Data)
	}
	if _, ok := s.docs[models.ConfigKeyDollar]; !ok {
		t.Fatal("document not persisted")
	}
	if len(bus.tags) != 1 || bus.tags[0] != "site-config:"+models.ConfigKeyDollar {
		t.Fatalf("invalidated %v", bus.tags)
	}

	w = do(r, http.MethodGet, "/config/dollar", "")
	if w.Code != http.StatusOK || w.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("read back: status=%d cache-control=%q", w.Code, w.Header().Get("Cache-Control"))
	}
}

func TestUpdateConfigRejectsNonObject(t *testing.T) {
	s := &memStore{docs: map[string]json.RawMessage{}}
	bus := &tagRecorder{}
	r := newRouter(s, bus)

	for _, body := range []string{`[1,2]`, `"home"`, `not json`, ``} {
		if w := do(r, http.MethodPut, "/config/home", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
	if len(bus.tags) != 0 {
		t.Fatalf("rejected writes invalidated %v", bus.tags)
	}
}

func TestConfigStoreErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"table missing", &store.Error{Kind: store.KindSchemaMissing, Op: "get_config", Err: errors.New("42P01")}, http.StatusServiceUnavailable},
		{"unreachable", &store.Error{Kind: store.KindUnavailable, Op: "get_config", Err: errors.New("dial tcp")}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &tagRecorder{}
			r := newRouter(&memStore{docs: map[string]json.RawMessage{}, err: tt.err}, bus)

			if w := do(r, http.MethodGet, "/config/home", ""); w.Code != tt.want {
				t.Fatalf("get status = %d, want %d", w.Code, tt.want)
			}
			w := do(r, http.MethodPut, "/config/home", `{"announcement":"hola"}`)
			if w.Code != tt.want {
				t.Fatalf("put status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusServiceUnavailable && !strings.Contains(w.Body.String(), "remote config unavailable") {
				t.Fatalf("body = %s", w.Body.String())
			}
			if len(bus.tags) != 0 {
				t.Fatalf("failed write invalidated %v", bus.tags)
			}
		})
	}
}
