package core

import (
	"strings"
	"testing"
)

func TestPrimaryGenre(t *testing.T) {
	tests := []struct {
		name   string
		genres string
		want   string
	}{
		{name: "first of several", genres: "Action, Sci-Fi, Thriller", want: "Action"},
		{name: "single", genres: "Drama", want: "Drama"},
		{name: "empty", genres: "", want: "Other"},
		{name: "leading comma", genres: ", Drama", want: "Other"},
		{name: "spaces trimmed", genres: "  Crime , Drama", want: "Crime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Movie{Genres: tt.genres}
			if got := m.PrimaryGenre(); got != tt.want {
				t.Fatalf("PrimaryGenre(%q) = %q, want %q", tt.genres, got, tt.want)
			}
		})
	}

	var nilMovie *Movie
	if got := nilMovie.PrimaryGenre(); got != "Other" {
		t.Fatalf("nil PrimaryGenre = %q, want Other", got)
	}
}

func TestHasGenre(t *testing.T) {
	m := &Movie{Genres: "Action, Sci-Fi"}
	if !m.HasGenre("sci-fi") || !m.HasGenre("ACTION") {
		t.Fatal("HasGenre should be case insensitive")
	}
	if m.HasGenre("Comedy") {
		t.Fatal("HasGenre matched absent genre")
	}
	if m.HasGenre("") {
		t.Fatal("empty genre should not match")
	}
}

func TestSearchText(t *testing.T) {
	m := &Movie{
		Title:    "The Matrix",
		Genres:   "Sci-Fi",
		Director: "Wachowski",
		Cast:     "Keanu Reeves",
		Plot:     "Reality is a simulation",
		Keywords: "dystopia",
	}
	text := m.SearchText()
	for _, want := range []string{"matrix", "sci-fi", "wachowski", "keanu", "simulation", "dystopia"} {
		if !strings.Contains(text, want) {
			t.Fatalf("SearchText missing %q: %q", want, text)
		}
	}
	if text != strings.ToLower(text) {
		t.Fatal("SearchText must be lowercase")
	}
}

func TestRecommendContext_Params(t *testing.T) {
	rctx := &RecommendContext{Params: map[string]any{
		"query":  "heat",
		"limit":  float64(5), // JSON 解析数值得到 float64
		"genres": "Drama, Sci-Fi",
	}}

	if got := rctx.ParamString("query"); got != "heat" {
		t.Fatalf("ParamString = %q", got)
	}
	if got := rctx.ParamString("missing"); got != "" {
		t.Fatalf("missing ParamString = %q, want empty", got)
	}
	if n, ok := rctx.ParamInt("limit"); !ok || n != 5 {
		t.Fatalf("ParamInt = (%d, %v)", n, ok)
	}
	list := rctx.ParamList("genres")
	if len(list) != 2 || list[0] != "drama" || list[1] != "sci-fi" {
		t.Fatalf("ParamList = %v", list)
	}

	var nilCtx *RecommendContext
	if nilCtx.ParamString("x") != "" {
		t.Fatal("nil context ParamString should be empty")
	}
}

func TestTunables_Normalize(t *testing.T) {
	def := DefaultTunables()

	got := Tunables{}.Normalize()
	if got != def {
		t.Fatalf("zero value Normalize = %+v, want defaults", got)
	}

	custom := Tunables{TopNeighbors: 3, LikeThreshold: 3.5}.Normalize()
	if custom.TopNeighbors != 3 || custom.LikeThreshold != 3.5 {
		t.Fatal("explicit fields must survive Normalize")
	}
	if custom.DefaultTopN != def.DefaultTopN {
		t.Fatal("unset fields must fall back to defaults")
	}
}

func TestOutcome(t *testing.T) {
	items := []*Item{NewItem(&Movie{ID: 1}), nil, NewItem(nil)}

	ok := Ok(SourceGenre, items)
	if ok.Degraded || ok.Source != SourceGenre {
		t.Fatalf("Ok = %+v", ok)
	}
	movies := ok.Movies()
	if len(movies) != 1 || movies[0].ID != 1 {
		t.Fatalf("Movies = %v, want just the real movie", movies)
	}

	fb := Fallback(SourcePopular, items, ErrEmptyCatalog)
	if !fb.Degraded || fb.Source != SourcePopular || fb.Err == nil {
		t.Fatalf("Fallback = %+v", fb)
	}
}
