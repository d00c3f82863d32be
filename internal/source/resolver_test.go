package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"axm-storefront/internal/model"
	"axm-storefront/internal/shopify"
	"axm-storefront/internal/snapshot"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func product(id string) model.Product {
	return model.Product{ID: model.ProductID(id), Name: "Product " + id, Category: "Tops", Price: 1000, Badges: []model.Badge{}}
}

func ids(products []model.Product) []model.ProductID {
	out := make([]model.ProductID, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func equalIDs(got []model.ProductID, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if string(got[i]) != want[i] {
			return false
		}
	}
	return true
}

func TestResolver_Order(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name     string
		resolver Resolver
		wantTier string
		wantIDs  []string
		wantFail int
	}{
		{
			name: "remote wins",
			resolver: Resolver{
				Remote:   Static("shopify", product("r1")),
				Primary:  Static("primary", product("p1")),
				Fallback: Static("embedded", product("m1")),
			},
			wantTier: TierRemote,
			wantIDs:  []string{"r1"},
		},
		{
			name: "remote empty falls to primary with supplement",
			resolver: Resolver{
				Remote:     Static("shopify"),
				Primary:    Static("primary", product("p1"), product("p2")),
				Supplement: Static("vault", product("p2"), product("v1")),
				Fallback:   Static("embedded", product("m1")),
			},
			wantTier: TierPrimary,
			wantIDs:  []string{"p1", "p2", "v1"},
			wantFail: 1,
		},
		{
			name: "supplement is never served alone",
			resolver: Resolver{
				Remote:     Failing("shopify", down),
				Primary:    Failing("primary", down),
				Supplement: Static("vault", product("v1")),
				Fallback:   Static("embedded", product("m1")),
			},
			wantTier: TierFallback,
			wantIDs:  []string{"m1"},
			wantFail: 2,
		},
		{
			name: "nil tiers are skipped",
			resolver: Resolver{
				Fallback: Static("embedded", product("m1")),
			},
			wantTier: TierFallback,
			wantIDs:  []string{"m1"},
		},
		{
			name: "everything down",
			resolver: Resolver{
				Remote:   Failing("shopify", down),
				Fallback: Failing("embedded", down),
			},
			wantTier: TierNone,
			wantIDs:  []string{},
			wantFail: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.resolver.Logger = testLogger()
			res := tt.resolver.ResolveDetailed(context.Background())
			if res.Tier != tt.wantTier {
				t.Errorf("Tier = %q, want %q", res.Tier, tt.wantTier)
			}
			if got := ids(res.Products); !equalIDs(got, tt.wantIDs...) {
				t.Errorf("products = %v, want %v", got, tt.wantIDs)
			}
			if len(res.Failures) != tt.wantFail {
				t.Errorf("len(Failures) = %d, want %d (%v)", len(res.Failures), tt.wantFail, res.Failures)
			}
			if res.Products == nil {
				t.Error("Products is nil, want empty slice")
			}
		})
	}
}

func TestResolver_NotConfiguredRemote(t *testing.T) {
	calls := 0
	r := Resolver{
		Remote: &Mock{ProductsFunc: func(context.Context) ([]model.Product, error) {
			calls++
			return nil, model.ErrNotConfigured
		}},
		Primary: Static("primary", product("p1")),
		Logger:  testLogger(),
	}
	got := r.Resolve(context.Background())
	if !equalIDs(ids(got), "p1") {
		t.Errorf("products = %v, want [p1]", ids(got))
	}
	if calls != 1 {
		t.Errorf("remote calls = %d, want 1", calls)
	}
}

// A remote API answering with a GraphQL errors array, a reachable primary
// snapshot and an unreachable supplement resolve to exactly the primary.
func TestResolver_FallbackScenario(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": null, "errors": [{"message": "Throttled"}]}`))
	}))
	defer remote.Close()

	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products.json":
			w.Write([]byte(`[{"id": 101, "name": "Primary Tee", "price": 500}, {"id": 102, "name": "Primary Cap", "price": 250}]`))
		default:
			http.Error(w, "gone", http.StatusServiceUnavailable)
		}
	}))
	defer files.Close()

	norm := model.DefaultNormalizeConfig()
	client := shopify.NewClient(shopify.Config{Token: "t", Endpoint: remote.URL, HTTPClient: remote.Client()})
	r := Resolver{
		Remote:     shopify.NewSource(client, norm),
		Primary:    snapshot.New(snapshot.Config{Name: "primary", Location: files.URL + "/products.json", HTTPClient: files.Client()}),
		Supplement: snapshot.New(snapshot.Config{Name: "vault", Location: files.URL + "/vault.json", HTTPClient: files.Client()}),
		Fallback:   snapshot.NewEmbedded(norm),
		Logger:     testLogger(),
	}

	res := r.ResolveDetailed(context.Background())
	if res.Tier != TierPrimary {
		t.Errorf("Tier = %q, want %q", res.Tier, TierPrimary)
	}
	if got := ids(res.Products); !equalIDs(got, "101", "102") {
		t.Errorf("products = %v, want [101 102]", got)
	}
	for _, p := range res.Products {
		if p.HasBadge(model.BadgeRebelDrop) {
			t.Errorf("product %s carries mock badge", p.ID)
		}
	}
	if len(res.Failures) != 2 {
		t.Errorf("len(Failures) = %d, want 2 (remote, supplement)", len(res.Failures))
	}
}

func TestResolver_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := Resolver{Primary: Static("primary", product("p1")), Logger: testLogger()}
	res := r.ResolveDetailed(ctx)
	if res.Tier != TierNone || len(res.Products) != 0 {
		t.Errorf("canceled resolve = %q %v, want none", res.Tier, ids(res.Products))
	}
}

func TestUnion(t *testing.T) {
	base := []model.Product{product("a"), product("b")}
	extra := []model.Product{product("b"), product("c"), product("c")}
	extra[0].Name = "Replacement"

	got := Union(base, extra)
	if !equalIDs(ids(got), "a", "b", "c") {
		t.Fatalf("Union = %v", ids(got))
	}
	if got[1].Name != "Product b" {
		t.Errorf("base did not win on clash: %q", got[1].Name)
	}
}
