package city_test

import (
	"fmt"

	"github.com/matzehuels/codecity/pkg/city"
)

func Example() {
	root, err := city.Build([]city.Entity{
		{Name: "com/acme/Server", Metrics: city.Metrics{Width: 4, Depth: 3, Height: 12}},
		{Name: "com/acme/Client", Metrics: city.Metrics{Width: 2, Depth: 2, Height: 3}},
		{Name: "com/util/Strings", Metrics: city.Metrics{Width: 1, Depth: 1, Height: 1}},
	}, "/")
	if err != nil {
		panic(err)
	}
	if err := root.Pack(); err != nil {
		panic(err)
	}

	fmt.Printf("city %dx%d, height %d\n", root.Rect.Width, root.Rect.Depth, root.Height())
	// Output: city 14x12, height 15
}

func ExampleGroup_Insert() {
	g := city.NewGroup("pkg")
	for _, name := range []string{"A", "B", "C", "D"} {
		_ = g.Insert([]string{name}, city.Metrics{Width: 1, Depth: 1})
	}
	_ = g.Pack()

	for _, l := range g.Leaves {
		fmt.Println(l.Name, l.Rect)
	}
	fmt.Println("size", g.Rect.Width, g.Rect.Depth)
	// Output:
	// A 1x1@(1,1)
	// B 1x1@(3,1)
	// C 1x1@(1,3)
	// D 1x1@(3,3)
	// size 5 5
}
