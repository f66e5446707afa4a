package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/five82/storeadmin/internal/catalog"
	"github.com/five82/storeadmin/internal/requestid"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_ProductEndpoints(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotBody, gotRequestID, gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get(requestid.Header)
		gotUserAgent = r.Header.Get("User-Agent")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/products":
			_ = json.NewEncoder(w).Encode([]catalog.Product{{ID: 1, Name: "Lamp"}})
		case r.Method == http.MethodGet && r.URL.Path == "/products/categories":
			_ = json.NewEncoder(w).Encode([]string{"home"})
		case r.Method == http.MethodPost && r.URL.Path == "/products":
			_ = json.NewEncoder(w).Encode(catalog.Product{ID: 9, Name: "New"})
		case r.Method == http.MethodPatch && r.URL.Path == "/products/1":
			_ = json.NewEncoder(w).Encode(catalog.Product{ID: 1, Name: "Renamed"})
		case r.Method == http.MethodDelete && r.URL.Path == "/products/1":
			_ = json.NewEncoder(w).Encode(catalog.Product{ID: 1})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	ctx = requestid.With(ctx, "req-1")

	list, err := c.ListProducts(ctx)
	if err != nil || len(list) != 1 || list[0].Name != "Lamp" {
		t.Fatalf("ListProducts = %v, %v; want one Lamp", list, err)
	}
	if gotRequestID != "req-1" {
		t.Fatalf("X-Request-ID = %q, want req-1", gotRequestID)
	}
	if !strings.HasPrefix(gotUserAgent, "storeadmin/") {
		t.Fatalf("User-Agent = %q", gotUserAgent)
	}

	cats, err := c.ListCategories(ctx)
	if err != nil || len(cats) != 1 || cats[0] != "home" {
		t.Fatalf("ListCategories = %v, %v", cats, err)
	}

	created, err := c.CreateProduct(ctx, catalog.ProductInput{Name: "New", Price: 2.5})
	if err != nil || created.ID != 9 {
		t.Fatalf("CreateProduct = %+v, %v", created, err)
	}
	if gotMethod != http.MethodPost || !strings.Contains(gotBody, `"price":2.5`) {
		t.Fatalf("create request = %s %s, want POST with payload", gotMethod, gotBody)
	}

	updated, err := c.UpdateProduct(ctx, 1, catalog.ProductPatch{Name: catalog.Ptr("Renamed")})
	if err != nil || updated.Name != "Renamed" {
		t.Fatalf("UpdateProduct = %+v, %v", updated, err)
	}
	if gotBody != `{"name":"Renamed"}` {
		t.Fatalf("patch body = %q, want only the set field", gotBody)
	}

	deleted, err := c.DeleteProduct(ctx, 1)
	if err != nil || deleted == nil || deleted.ID != 1 {
		t.Fatalf("DeleteProduct = %+v, %v", deleted, err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/products/1" {
		t.Fatalf("delete request = %s %s", gotMethod, gotPath)
	}
}

func TestClient_MapsStatusErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/5" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.GetProduct(context.Background(), 3)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode() != http.StatusNotFound {
		t.Fatalf("GetProduct err = %v, want 404 StatusError", err)
	}
	if se.Path != "/products/3" || se.Method != http.MethodGet {
		t.Fatalf("StatusError = %+v", se)
	}

	_, err = c.UpdateUser(context.Background(), 5, catalog.UserPatch{Name: catalog.Ptr("x")})
	if !errors.As(err, &se) || se.Status != http.StatusForbidden {
		t.Fatalf("UpdateUser err = %v, want 403", err)
	}
}

func TestClient_UsesCustomTransport(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Host != "storeadmin.mock" {
			t.Errorf("host = %q, want storeadmin.mock", r.Host)
		}
		_ = json.NewEncoder(w).Encode([]catalog.User{{ID: 1, Name: "Ada"}})
	})
	c, err := NewClient("", WithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec.Result(), nil
	})), WithTimeout(0))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.http.Timeout != 0 {
		t.Fatalf("Timeout = %v, want 0", c.http.Timeout)
	}

	users, err := c.ListUsers(context.Background())
	if err != nil || len(users) != 1 || users[0].Name != "Ada" {
		t.Fatalf("ListUsers = %v, %v", users, err)
	}
}

func TestClient_EmptyDeleteBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	c, _ := NewClient(server.URL)
	deleted, err := c.DeleteUser(context.Background(), 1)
	if err != nil || deleted != nil {
		t.Fatalf("DeleteUser = %v, %v; want nil, nil", deleted, err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
