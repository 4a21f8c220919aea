package reelkit

import (
	"context"
	"testing"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/quiz"
	"github.com/reelkit/reelkit/recall"
	"github.com/reelkit/reelkit/store"
)

func testEngine() *Engine {
	catalog := store.NewMemoryCatalog(
		&core.Movie{ID: 1, Title: "The Godfather", Genres: "Crime, Drama", Rating: 9.2, Popularity: 9.0, Year: 1972, Director: "Francis Ford Coppola", Keywords: "mafia, family"},
		&core.Movie{ID: 2, Title: "Inception", Genres: "Action, Sci-Fi", Rating: 8.8, Popularity: 9.2, Year: 2010, Director: "Christopher Nolan", Keywords: "dream, heist"},
		&core.Movie{ID: 3, Title: "The Dark Knight", Genres: "Action, Crime", Rating: 9.0, Popularity: 9.4, Year: 2008, Director: "Christopher Nolan", Keywords: "superhero, joker"},
		&core.Movie{ID: 4, Title: "Interstellar", Genres: "Adventure, Sci-Fi", Rating: 8.7, Popularity: 9.1, Year: 2014, Director: "Christopher Nolan", Keywords: "space, wormhole"},
		&core.Movie{ID: 5, Title: "Heat", Genres: "Crime, Thriller", Rating: 8.3, Popularity: 7.5, Year: 1995, Director: "Michael Mann", Keywords: "heist, detective"},
	)
	interactions := store.NewMemoryInteractions()
	interactions.SetUser("alice", core.UserInteractions{
		RatedMovies: map[int64]float64{1: 9, 2: 9, 3: 8},
	})
	interactions.SetUser("bob", core.UserInteractions{
		RatedMovies: map[int64]float64{1: 9, 2: 8, 3: 8, 4: 9, 5: 9},
	})
	return New(catalog, interactions)
}

func TestEngine_Popular(t *testing.T) {
	e := testEngine()
	out := e.Popular(context.Background(), 3)
	if out.Degraded || out.Source != core.SourcePopular {
		t.Fatalf("outcome = (%v, %v)", out.Source, out.Degraded)
	}
	if len(out.Items) != 3 || out.Items[0].ID != 1 {
		t.Fatalf("top = %v", out.Items)
	}
}

func TestEngine_SimilarTo(t *testing.T) {
	e := testEngine()
	out := e.SimilarTo(context.Background(), "Inception", 3)
	if out.Degraded || out.Source != core.SourceContent {
		t.Fatalf("outcome = (%v, %v, %v)", out.Source, out.Degraded, out.Err)
	}
	for _, it := range out.Items {
		if it.ID == 2 {
			t.Fatal("seed leaked into similar results")
		}
	}

	// 未知标题：结果来自热门，明确标记为降级
	out = e.SimilarTo(context.Background(), "No Such Movie", 3)
	if !out.Degraded || out.Source != core.SourcePopular {
		t.Fatalf("fallback outcome = (%v, %v)", out.Source, out.Degraded)
	}
	if len(out.Items) != 3 {
		t.Fatalf("fallback items = %d, want 3", len(out.Items))
	}
}

func TestEngine_ByGenre(t *testing.T) {
	e := testEngine()
	out := e.ByGenre(context.Background(), "Crime", 10)
	if out.Degraded || out.Source != core.SourceGenre {
		t.Fatalf("outcome = (%v, %v)", out.Source, out.Degraded)
	}
	want := []int64{1, 3, 5}
	for i, it := range out.Items {
		if it.ID != want[i] {
			t.Fatalf("order = %v, want %v", out.Items, want)
		}
	}

	out = e.ByGenre(context.Background(), "", 3)
	if !out.Degraded || out.Source != core.SourcePopular {
		t.Fatal("empty genre should degrade to popular")
	}
}

func TestEngine_ForUser(t *testing.T) {
	e := testEngine()
	out := e.ForUser(context.Background(), "alice", 5)
	if out.Degraded || out.Source != core.SourceCollaborative {
		t.Fatalf("outcome = (%v, %v)", out.Source, out.Degraded)
	}
	// bob 贡献 alice 未看过的 4 和 5
	if len(out.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(out.Items))
	}

	out = e.ForUser(context.Background(), "stranger", 3)
	if !out.Degraded || out.Source != core.SourcePopular {
		t.Fatal("unknown user should degrade to popular")
	}
}

func TestEngine_Hybrid(t *testing.T) {
	e := testEngine()
	out := e.Hybrid(context.Background(), recall.HybridQuery{
		Genre:  "Sci-Fi",
		UserID: "alice",
	}, 4)
	if out.Degraded || out.Source != core.SourceHybrid {
		t.Fatalf("outcome = (%v, %v)", out.Source, out.Degraded)
	}
	if len(out.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(out.Items))
	}
	seen := make(map[int64]bool)
	for _, it := range out.Items {
		if seen[it.ID] {
			t.Fatalf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
	}

	out = e.Hybrid(context.Background(), recall.HybridQuery{}, 3)
	if !out.Degraded || out.Source != core.SourcePopular {
		t.Fatal("empty query should degrade to popular")
	}
}

func TestEngine_Quiz(t *testing.T) {
	e := testEngine()
	// Crime 只命中 3 部（< QuizMinResults=5）：触发兜底但仍有结果
	out := e.Quiz(context.Background(), quiz.Request{Genres: "Crime", Limit: 5})
	if out.Source != core.SourceQuiz || !out.Degraded {
		t.Fatalf("outcome = (%v, %v), want degraded quiz", out.Source, out.Degraded)
	}
	if len(out.Items) == 0 {
		t.Fatal("quiz must return results")
	}
	if len(out.Items) > 5 {
		t.Fatalf("got %d items, want <= 5", len(out.Items))
	}
}

func TestEngine_Search(t *testing.T) {
	e := testEngine()
	out := e.Search(context.Background(), "nolan", 5)
	if out.Degraded || out.Source != core.SourceSearch {
		t.Fatalf("outcome = (%v, %v)", out.Source, out.Degraded)
	}
	// Nolan 三部：导演字段命中，同分保持目录序
	want := []int64{2, 3, 4}
	if len(out.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(out.Items), len(want))
	}
	for i, it := range out.Items {
		if it.ID != want[i] {
			t.Fatalf("order[%d] = %d, want %v", i, it.ID, want)
		}
	}

	// 标题命中压过其他字段
	out = e.Search(context.Background(), "heat", 5)
	if len(out.Items) == 0 || out.Items[0].ID != 5 {
		t.Fatalf("search heat top = %v, want Heat", out.Items)
	}

	// 空 query：空结果，不降级
	out = e.Search(context.Background(), "", 5)
	if out.Degraded || len(out.Items) != 0 {
		t.Fatal("empty query should return empty non-degraded outcome")
	}
}

func TestEngine_Deterministic(t *testing.T) {
	// 同一份数据两次建引擎，所有策略输出一致
	a, b := testEngine(), testEngine()
	ctx := context.Background()

	pairs := [][2]core.Outcome{
		{a.Popular(ctx, 5), b.Popular(ctx, 5)},
		{a.SimilarTo(ctx, "Heat", 4), b.SimilarTo(ctx, "Heat", 4)},
		{a.ForUser(ctx, "alice", 5), b.ForUser(ctx, "alice", 5)},
		{a.Hybrid(ctx, recall.HybridQuery{Genre: "Crime", MovieTitle: "Inception", UserID: "alice"}, 5),
			b.Hybrid(ctx, recall.HybridQuery{Genre: "Crime", MovieTitle: "Inception", UserID: "alice"}, 5)},
	}
	for i, p := range pairs {
		if len(p[0].Items) != len(p[1].Items) {
			t.Fatalf("pair %d: lengths differ (%d vs %d)", i, len(p[0].Items), len(p[1].Items))
		}
		for j := range p[0].Items {
			if p[0].Items[j].ID != p[1].Items[j].ID {
				t.Fatalf("pair %d: position %d differs (%d vs %d)",
					i, j, p[0].Items[j].ID, p[1].Items[j].ID)
			}
		}
	}
}

func TestEngine_WithTunables(t *testing.T) {
	catalog := store.NewMemoryCatalog(
		&core.Movie{ID: 1, Title: "A", Rating: 5, Popularity: 10},
		&core.Movie{ID: 2, Title: "B", Rating: 10, Popularity: 5},
	)
	// 反转权重：流行度为主
	e := New(catalog, store.NewMemoryInteractions(), WithTunables(core.Tunables{
		PopularityRatingWeight: 0.3,
		PopularityWeight:       0.7,
	}))
	out := e.Popular(context.Background(), 2)
	if out.Items[0].ID != 1 {
		t.Fatalf("top = %d, want popularity-heavy movie 1", out.Items[0].ID)
	}
}
