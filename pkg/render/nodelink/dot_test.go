package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/codecity/pkg/layout"
)

func sampleLayout() layout.Layout {
	return layout.Layout{Root: layout.Node{
		Name: "_root_", Kind: layout.KindGroup, Width: 9, Depth: 7, Height: 4,
		Children: []layout.Node{
			{
				Name: "com", Kind: layout.KindGroup, Width: 5, Depth: 5, X: 1, Y: 1, Height: 3,
				Children: []layout.Node{
					{Name: "Server", Kind: layout.KindLeaf, Width: 3, Depth: 3, X: 1, Y: 1, Height: 2},
				},
			},
			{Name: "Main", Kind: layout.KindLeaf, Width: 1, Depth: 1, X: 7, Y: 1, Height: 1},
		},
	}}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleLayout(), Options{})

	for _, want := range []string{
		`"_root_" [label="_root_", shape=folder`,
		`"_root_/com/Server" [label="Server"]`,
		`"_root_" -> "_root_/com";`,
		`"_root_/com" -> "_root_/com/Server";`,
		`"_root_" -> "_root_/Main";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    []string
		wantNot []string
	}{
		{
			name: "detailed",
			opts: Options{Detailed: true},
			want: []string{`label="Server\n3x3 h2"`},
		},
		{
			name:    "groups only",
			opts:    Options{GroupsOnly: true},
			want:    []string{`"_root_/com"`},
			wantNot: []string{"Server", "Main"},
		},
		{
			name:    "max depth",
			opts:    Options{MaxDepth: 1},
			want:    []string{`"_root_/com"`, `"_root_/Main"`},
			wantNot: []string{"Server"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(sampleLayout(), tt.opts)
			for _, s := range tt.want {
				if !strings.Contains(dot, s) {
					t.Errorf("ToDOT() missing %q\n%s", s, dot)
				}
			}
			for _, s := range tt.wantNot {
				if strings.Contains(dot, s) {
					t.Errorf("ToDOT() contains %q\n%s", s, dot)
				}
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz runtime is slow to start")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(sampleLayout(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Server") {
		t.Errorf("RenderSVG() output lacks expected content")
	}
}
