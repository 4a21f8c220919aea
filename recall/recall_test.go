package recall

import (
	"context"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/store"
)

// 共享测试目录。热门分 = 0.7*rating + 0.3*popularity：
//
//	The Godfather   9.14
//	The Dark Knight 9.12
//	Inception       8.92
//	Interstellar    8.82
//	Heat            8.06
func testCatalog() *store.MemoryCatalog {
	return store.NewMemoryCatalog(
		&core.Movie{ID: 1, Title: "The Godfather", Genres: "Crime, Drama", Rating: 9.2, Popularity: 9.0, Year: 1972, Director: "Francis Ford Coppola", Keywords: "mafia, family"},
		&core.Movie{ID: 2, Title: "Inception", Genres: "Action, Sci-Fi", Rating: 8.8, Popularity: 9.2, Year: 2010, Director: "Christopher Nolan", Keywords: "dream, heist"},
		&core.Movie{ID: 3, Title: "The Dark Knight", Genres: "Action, Crime", Rating: 9.0, Popularity: 9.4, Year: 2008, Director: "Christopher Nolan", Keywords: "superhero, joker"},
		&core.Movie{ID: 4, Title: "Interstellar", Genres: "Adventure, Sci-Fi", Rating: 8.7, Popularity: 9.1, Year: 2014, Director: "Christopher Nolan", Keywords: "space, wormhole"},
		&core.Movie{ID: 5, Title: "Heat", Genres: "Crime, Thriller", Rating: 8.3, Popularity: 7.5, Year: 1995, Director: "Michael Mann", Keywords: "heist, detective"},
	)
}

func testPopular(catalog core.Catalog) *Popular {
	return &Popular{Catalog: catalog}
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func sameIDs(a []int64, b ...int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fixedIndex 是测试用的 core.SimilarityIndex 替身。
type fixedIndex struct {
	byTitle map[string][]*core.Item
}

func (f *fixedIndex) MostSimilar(_ context.Context, title string, topN int) ([]*core.Item, bool) {
	items, ok := f.byTitle[title]
	if !ok {
		return nil, false
	}
	if len(items) > topN {
		items = items[:topN]
	}
	return items, true
}

func (f *fixedIndex) Similarity(_, _ int64) float64 { return 0 }
