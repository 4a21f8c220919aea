package rank

import (
	"context"
	"testing"

	"github.com/reelkit/reelkit/core"
)

func relevanceItems() []*core.Item {
	movies := []*core.Movie{
		{ID: 1, Title: "Heat", Genres: "Crime", Plot: "A heist crew versus a detective", Keywords: "heist"},
		{ID: 2, Title: "Inside Job", Genres: "Documentary", Plot: "The financial heat of 2008", Keywords: "finance"},
		{ID: 3, Title: "Cool Runnings", Genres: "Comedy", Cast: "John Candy", Plot: "A bobsled team beats the heat", Keywords: "olympics, heat"},
	}
	items := make([]*core.Item, 0, len(movies))
	for _, m := range movies {
		items = append(items, core.NewItem(m))
	}
	return items
}

func TestRelevanceNode_TitleOutweighsOtherFields(t *testing.T) {
	n := &RelevanceNode{Query: "heat"}
	out, err := n.Process(context.Background(), nil, relevanceItems())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}

	// 标题命中 15 分 > keywords 6 + plot 2 = 8 > plot 2
	want := []int64{1, 3, 2}
	for i, it := range out {
		if it.ID != want[i] {
			t.Fatalf("order[%d] = %d, want %v", i, it.ID, want)
		}
	}
	if out[0].Score != 15 {
		t.Fatalf("title score = %v, want 15", out[0].Score)
	}
	if out[1].Score != 6+2 {
		t.Fatalf("keywords score = %v, want 8", out[1].Score)
	}
	if out[2].Score != 2 {
		t.Fatalf("plot score = %v, want 2", out[2].Score)
	}
}

func TestRelevanceNode_QueryFromContext(t *testing.T) {
	n := &RelevanceNode{}
	rctx := &core.RecommendContext{Params: map[string]any{"query": "HEAT"}}
	out, err := n.Process(context.Background(), rctx, relevanceItems())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if out[0].ID != 1 {
		t.Fatalf("top = %d, want 1", out[0].ID)
	}
	if lbl, ok := out[0].GetLabel("rank_model"); !ok || lbl.Value != "relevance" {
		t.Fatal("missing rank_model=relevance label")
	}
}

func TestRelevanceNode_EmptyQueryPassesThrough(t *testing.T) {
	n := &RelevanceNode{}
	items := relevanceItems()
	out, err := n.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	for i, it := range out {
		if it.ID != items[i].ID || it.Score != 0 {
			t.Fatal("empty query should leave items untouched")
		}
	}
}

func TestRelevanceWeights_Normalize(t *testing.T) {
	w := RelevanceWeights{Title: 100}.normalize()
	if w.Title != 100 {
		t.Fatalf("explicit Title = %v, want 100", w.Title)
	}
	def := DefaultRelevanceWeights()
	if w.Genres != def.Genres || w.Plot != def.Plot {
		t.Fatal("zero fields should fall back to defaults")
	}
}

func TestRelevanceNode_CastAndDirectorWeights(t *testing.T) {
	n := &RelevanceNode{Query: "candy"}
	out, err := n.Process(context.Background(), nil, relevanceItems())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if out[0].ID != 3 || out[0].Score != 5 {
		t.Fatalf("cast hit = (%d, %v), want (3, 5)", out[0].ID, out[0].Score)
	}
}
