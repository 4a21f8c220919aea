package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reelkit/reelkit/core"
)

type stubNode struct {
	name string
	fn   func(items []*core.Item) ([]*core.Item, error)
}

func (n *stubNode) Name() string { return n.name }
func (n *stubNode) Kind() Kind   { return KindFilter }

func (n *stubNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func TestPipeline_RunsNodesInOrder(t *testing.T) {
	var trace []string
	mk := func(name string) Node {
		return &stubNode{name: name, fn: func(items []*core.Item) ([]*core.Item, error) {
			trace = append(trace, name)
			return items, nil
		}}
	}
	p := &Pipeline{Nodes: []Node{mk("a"), mk("b"), mk("c")}}
	if _, err := p.Run(context.Background(), nil, nil); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(trace) != 3 || trace[0] != "a" || trace[2] != "c" {
		t.Fatalf("trace = %v, want [a b c]", trace)
	}
}

func TestPipeline_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "fail", fn: func([]*core.Item) ([]*core.Item, error) { return nil, boom }},
		&stubNode{name: "after", fn: func(items []*core.Item) ([]*core.Item, error) {
			ran = true
			return items, nil
		}},
	}}
	if _, err := p.Run(context.Background(), nil, nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if ran {
		t.Fatal("nodes after a failure should not run")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	data := `
pipeline:
  name: quiz
  nodes:
    - type: filter
      config:
        genres: ["drama"]
    - type: rerank.topn
      config:
        n: 5
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML error: %v", err)
	}
	if cfg.Pipeline.Name != "quiz" || len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("cfg = %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.Nodes[1].Type != "rerank.topn" {
		t.Fatalf("node type = %q", cfg.Pipeline.Nodes[1].Type)
	}
}

func TestBuildPipeline(t *testing.T) {
	f := NewNodeFactory()
	f.Register("noop", func(cfg map[string]any) (Node, error) {
		return &stubNode{name: "noop", fn: func(items []*core.Item) ([]*core.Item, error) {
			return items, nil
		}}, nil
	})

	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "noop"}}
	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatalf("BuildPipeline error: %v", err)
	}
	if len(p.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(p.Nodes))
	}

	cfg.Pipeline.Nodes = []NodeConfig{{Type: "mystery"}}
	if _, err := cfg.BuildPipeline(f); err == nil {
		t.Fatal("unknown node type should error")
	}
}
