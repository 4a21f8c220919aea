package recall

import (
	"context"
	"math"
	"testing"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/store"
)

func TestPopular_Score(t *testing.T) {
	r := testPopular(testCatalog())
	m := &core.Movie{Rating: 8.0, Popularity: 6.0}
	if got, want := r.Score(m), 0.7*8.0+0.3*6.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("Score = %v, want %v", got, want)
	}
	if got := r.Score(nil); got != 0 {
		t.Fatalf("Score(nil) = %v, want 0", got)
	}
}

func TestPopular_RecallN(t *testing.T) {
	r := testPopular(testCatalog())
	items, err := r.RecallN(context.Background(), 3)
	if err != nil {
		t.Fatalf("RecallN error: %v", err)
	}
	if !sameIDs(ids(items), 1, 3, 2) {
		t.Fatalf("order = %v, want [1 3 2]", ids(items))
	}
	for _, it := range items {
		if lbl, ok := it.GetLabel(LabelRecallSource); !ok || lbl.Value != "popular" {
			t.Fatalf("item %d missing recall_source=popular label", it.ID)
		}
	}
}

func TestPopular_RecallN_DefaultTopN(t *testing.T) {
	r := testPopular(testCatalog())
	items, err := r.RecallN(context.Background(), 0)
	if err != nil {
		t.Fatalf("RecallN error: %v", err)
	}
	// 默认 TopN 是 10，目录只有 5 部
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
}

func TestPopular_EmptyCatalog(t *testing.T) {
	r := testPopular(store.NewMemoryCatalog())
	if _, err := r.RecallN(context.Background(), 3); !core.IsEmptyCatalog(err) {
		t.Fatalf("err = %v, want empty catalog", err)
	}

	r = &Popular{}
	if _, err := r.RecallN(context.Background(), 3); !core.IsEmptyCatalog(err) {
		t.Fatalf("nil catalog err = %v, want empty catalog", err)
	}
}

func TestPopular_FromStore(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()

	// 离线榜单故意与现算顺序相反
	kv.ZAdd(ctx, "hot", 100, "5")
	kv.ZAdd(ctx, "hot", 90, "4")
	kv.ZAdd(ctx, "hot", 80, "1")

	r := testPopular(testCatalog())
	r.Store = kv
	r.Key = "hot"

	items, err := r.RecallN(ctx, 3)
	if err != nil {
		t.Fatalf("RecallN error: %v", err)
	}
	if !sameIDs(ids(items), 5, 4, 1) {
		t.Fatalf("order = %v, want store order [5 4 1]", ids(items))
	}
}

func TestPopular_FromStore_InsufficientFallsBackToScan(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()

	// 榜单只有 1 条 + 1 个不在目录里的 ID，不足 topN 时回落全量现算
	kv.ZAdd(ctx, "hot", 100, "5")
	kv.ZAdd(ctx, "hot", 90, "999")

	r := testPopular(testCatalog())
	r.Store = kv
	r.Key = "hot"

	items, err := r.RecallN(ctx, 3)
	if err != nil {
		t.Fatalf("RecallN error: %v", err)
	}
	if !sameIDs(ids(items), 1, 3, 2) {
		t.Fatalf("order = %v, want scan order [1 3 2]", ids(items))
	}
}

func TestPopular_FallbackItemsCarryLabel(t *testing.T) {
	r := testPopular(testCatalog())
	items, err := r.fallbackItems(context.Background(), 2, "test reason")
	if err != nil {
		t.Fatalf("fallbackItems error: %v", err)
	}
	src, ok := FallbackSource(items)
	if !ok || src != core.SourcePopular {
		t.Fatalf("FallbackSource = (%v, %v), want (popular, true)", src, ok)
	}
}
