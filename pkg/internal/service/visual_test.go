package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

func withClassifier(t *testing.T, url string) {
	t.Helper()

	cfg := configs.GetConfig()
	prev := cfg.Classifier

	cfg.Classifier.Enabled = true
	cfg.Classifier.URL = url
	cfg.Classifier.Timeout = 5
	cfg.Classifier.BatchSize = 10
	cfg.Classifier.Consent = true

	t.Cleanup(func() { cfg.Classifier = prev })
}

func TestVisualDuplicates_RederivesPrimaryLocally(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// 指纹各不相同，只有视觉上重复
	svc.lib.Upsert([]types.MediaFile{
		{ID: "v1", Name: "v1.jpg", Size: 10, Type: "image/jpeg", LastModified: 2000, Status: types.StatusHealthy, Hash: "vh1"},
		{ID: "v2", Name: "v2.jpg", Size: 99, Type: "image/jpeg", LastModified: 1000, Status: types.StatusHealthy, Hash: "vh2"},
	})
	svc.registry.Store(ctx, "v1", []byte("one"), "image/jpeg")
	svc.registry.Store(ctx, "v2", []byte("two"), "image/jpeg")

	var gotConsent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotConsent = r.Header.Get("x-user-consent")

		body, _ := io.ReadAll(r.Body)

		var req visualAnalyzeRequest
		if err := sonic.Unmarshal(body, &req); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		if len(req.Images) != 2 {
			t.Errorf("images = %d, want 2", len(req.Images))
		}

		// 远端坚持 v1 是主记录，核心应无视这一意见
		resp := visualAnalyzeResponse{Clusters: []types.VisualCluster{
			{ClusterID: "vc-1", PrimaryID: "v1", IDs: []string{"v1", "v2"}},
		}}
		data, _ := sonic.Marshal(resp)
		_, _ = w.Write(data)
	}))
	defer server.Close()

	withClassifier(t, server.URL)

	resp, err := svc.VisualDuplicates(ctx, &types.VisualDuplicatesRequest{})
	if err != nil {
		t.Fatalf("VisualDuplicates: %v", err)
	}

	if gotConsent != "true" {
		t.Errorf("consent header = %q, want true", gotConsent)
	}

	if len(resp.Clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(resp.Clusters))
	}

	// 本地决选：v2 的 mtime 更早
	if got := resp.Clusters[0].PrimaryID; got != "v2" {
		t.Errorf("primary = %q, want v2 (local tie-break)", got)
	}

	if resp.Clusters[0].WastedBytes != 10 {
		t.Errorf("wasted = %d, want 10", resp.Clusters[0].WastedBytes)
	}

	// 视觉聚类是派生视图，不改写记录状态
	if f, _ := svc.lib.Get("v1"); f.Status != types.StatusHealthy || f.DuplicateOf != "" {
		t.Errorf("v1 mutated: %s duplicateOf %q", f.Status, f.DuplicateOf)
	}
}

func TestVisualDuplicates_DisabledClassifier(t *testing.T) {
	svc := newTestService()

	cfg := configs.GetConfig()
	prev := cfg.Classifier
	cfg.Classifier.Enabled = false

	t.Cleanup(func() { cfg.Classifier = prev })

	if _, err := svc.VisualDuplicates(context.Background(), nil); err == nil {
		t.Fatal("expected error when classifier disabled")
	}
}

func TestVisualDuplicates_RemoteFailure(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.lib.Upsert([]types.MediaFile{
		{ID: "v1", Name: "v1.jpg", Size: 10, Type: "image/jpeg", LastModified: 1, Status: types.StatusHealthy, Hash: "vh1"},
	})
	svc.registry.Store(ctx, "v1", []byte("one"), "image/jpeg")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	withClassifier(t, server.URL)

	if _, err := svc.VisualDuplicates(ctx, nil); err == nil {
		t.Fatal("expected error from failing classifier")
	}
}

func TestVisualDuplicates_NoCandidates(t *testing.T) {
	svc := newTestService()

	withClassifier(t, "http://unused.invalid")

	resp, err := svc.VisualDuplicates(context.Background(), nil)
	if err != nil {
		t.Fatalf("VisualDuplicates: %v", err)
	}

	if len(resp.Clusters) != 0 {
		t.Errorf("clusters = %d, want 0", len(resp.Clusters))
	}
}
