package city

import "testing"

func TestHeightEmptyGroup(t *testing.T) {
	if got := NewGroup("empty").Height(); got != 1 {
		t.Errorf("Height() = %d, want 1", got)
	}
}

func TestHeightNested(t *testing.T) {
	root := NewGroup(RootName)
	for _, name := range []string{"a", "b", "c", "d"} {
		if err := root.Insert([]string{"x", name}, Metrics{Width: 1, Depth: 1, Height: 3}); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"e", "f"} {
		if err := root.Insert([]string{"y", name}, Metrics{Width: 1, Depth: 1, Height: 4}); err != nil {
			t.Fatal(err)
		}
	}

	if got := root.Height(); got != 6 {
		t.Errorf("root Height() = %d, want 6", got)
	}
	x, _ := root.Child("x")
	if got := x.Height(); got != 4 {
		t.Errorf("x Height() = %d, want 4", got)
	}
}

func TestHeightEmptyChainAddsLevels(t *testing.T) {
	root := NewGroup(RootName)
	a := NewGroup("a")
	_ = a.AddGroup(NewGroup("b"))
	_ = root.AddGroup(a)

	if got := root.Height(); got != 3 {
		t.Errorf("Height() = %d, want 3", got)
	}
}

func TestHeightZeroLeaf(t *testing.T) {
	g := NewGroup("g")
	g.AddLeaf(NewLeaf("flat", Metrics{Width: 1, Depth: 1}))
	if got := g.Height(); got != 2 {
		t.Errorf("Height() = %d, want 2 for a group holding a leaf", got)
	}
}

func TestHeightOneOnlyWhenEmpty(t *testing.T) {
	root, err := Build([]Entity{{Name: "Top", Metrics: Metrics{}}}, "/")
	if err != nil {
		t.Fatal(err)
	}
	if got := root.Leaves[0].Height; got != 1 {
		t.Errorf("leaf Height = %d, want 1", got)
	}
	if got := root.Height(); got == 1 {
		t.Errorf("Height() = 1 for a group with %d leaves, want > 1", len(root.Leaves))
	}
}
