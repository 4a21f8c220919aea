package rerank

import (
	"context"
	"testing"

	"github.com/reelkit/reelkit/core"
)

func dramaHeavyItems() []*core.Item {
	items := make([]*core.Item, 0, 12)
	// 9 部 Drama 霸榜 + 3 部其他类型
	for i := int64(1); i <= 9; i++ {
		items = append(items, item(&core.Movie{ID: i, Genres: "Drama", Rating: 9.0 - float64(i)*0.1}))
	}
	items = append(items,
		item(&core.Movie{ID: 10, Genres: "Comedy", Rating: 7.0}),
		item(&core.Movie{ID: 11, Genres: "Comedy", Rating: 6.9}),
		item(&core.Movie{ID: 12, Genres: "Horror", Rating: 6.5}),
	)
	return items
}

func TestGenreDiversity_CapsDominantGenre(t *testing.T) {
	n := &GenreDiversity{Threshold: 10, Limit: 9, MinPerGenre: 2}
	out, err := n.Process(context.Background(), nil, dramaHeavyItems())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}

	// 3 个组，每组上限 max(2, 9/3) = 3：Drama 9 → 3，Comedy 2，Horror 1
	counts := make(map[string]int)
	for _, it := range out {
		counts[it.Movie.PrimaryGenre()]++
	}
	if counts["Drama"] != 3 {
		t.Fatalf("Drama count = %d, want 3", counts["Drama"])
	}
	if counts["Comedy"] != 2 || counts["Horror"] != 1 {
		t.Fatalf("counts = %v, want Comedy 2 Horror 1", counts)
	}

	// 组内保留评分最高的：Drama 留 1/2/3
	for _, it := range out {
		if it.Movie.PrimaryGenre() == "Drama" && it.ID > 3 {
			t.Fatalf("kept low-rated drama %d over higher-rated ones", it.ID)
		}
	}

	// 最终整体按评分降序
	for i := 1; i < len(out); i++ {
		if out[i-1].Movie.Rating < out[i].Movie.Rating {
			t.Fatalf("output not rating-descending at %d", i)
		}
	}
}

func TestGenreDiversity_SkipsSmallSets(t *testing.T) {
	items := dramaHeavyItems()[:8]
	n := &GenreDiversity{Threshold: 10, Limit: 5}
	out, err := n.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(out) != 8 {
		t.Fatalf("got %d items, want untouched 8", len(out))
	}
	for i, it := range out {
		if it.ID != items[i].ID {
			t.Fatal("small result set should pass through unchanged")
		}
	}
}

func TestGenreDiversity_MinPerGenreFloor(t *testing.T) {
	// Limit/组数 < MinPerGenre 时以 MinPerGenre 为准
	n := &GenreDiversity{Threshold: 10, Limit: 3, MinPerGenre: 2}
	out, err := n.Process(context.Background(), nil, dramaHeavyItems())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d items, want limit 3", len(out))
	}
}

func TestGenreDiversity_MissingGenreGroupsAsOther(t *testing.T) {
	items := dramaHeavyItems()
	items = append(items, item(&core.Movie{ID: 13, Rating: 8.0}))
	n := &GenreDiversity{Threshold: 10, Limit: 12}
	out, err := n.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	found := false
	for _, it := range out {
		if it.ID == 13 {
			found = true
			if lbl, ok := it.GetLabel("diversity_group"); !ok || lbl.Value != "Other" {
				t.Fatalf("ungenred movie group = %v, want Other", lbl)
			}
		}
	}
	if !found {
		t.Fatal("ungenred movie dropped")
	}
}

func TestTopNNode(t *testing.T) {
	n := &TopNNode{N: 2}
	out, err := n.Process(context.Background(), nil, dramaHeavyItems())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d items, want 2", len(out))
	}
}
