package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSONDecodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Token") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"aurawell","count":3}`))
	}))
	defer server.Close()

	client := NewClient(
		WithTimeout(2*time.Second),
		WithHeaders(map[string]string{"X-Token": "secret"}),
	)

	var result struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := client.GetJSON(context.Background(), server.URL, &result); err != nil {
		t.Fatalf("GetJSON 失败: %v", err)
	}
	if result.Name != "aurawell" || result.Count != 3 {
		t.Fatalf("解析结果不正确: %+v", result)
	}
}

func TestGetJSONNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient()
	var out map[string]any
	if err := client.GetJSON(context.Background(), server.URL, &out); err == nil {
		t.Fatal("非 200 响应应返回错误")
	}
}

func TestDoRetriesOnServerError(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithRetries(3))
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("重试后应拿到 200，实际 %d", resp.StatusCode)
	}
	if hits.Load() != 3 {
		t.Fatalf("应重试到第三次成功，实际请求 %d 次", hits.Load())
	}
}
