// Package pkg holds the libraries behind codecity, a layout engine that
// turns a hierarchy of named entities into a packed city: namespaces become
// districts and classes become buildings.
//
// # Data Flow
//
//	entity list (.city, .json, .toml)
//	         ↓
//	    [io] (parse into an Input)
//	         ↓
//	    [city] (build the tree, pack every district, derive heights)
//	         ↓
//	    [layout] (serializable snapshot of the packed tree)
//	         ↓
//	    [render/plan], [render/nodelink], [render/voxel]
//
// [pipeline] strings these steps together behind a cache so the CLI and the
// HTTP API produce identical output for identical input.
//
// # Quick Start
//
//	root, _ := city.Build([]city.Entity{
//	    {Name: "com/acme/Server", Metrics: city.Metrics{Width: 4, Depth: 3, Height: 12}},
//	    {Name: "com/acme/Client", Metrics: city.Metrics{Width: 2, Depth: 2, Height: 3}},
//	}, "/")
//	_ = root.Pack()
//	svg := plan.RenderSVG(layout.FromGroup(root, "/"))
//
// # Supporting Packages
//
// [cache] stores packed layouts and rendered artifacts on disk or in Redis.
// [store] keeps submitted cities for the HTTP API in memory or MongoDB.
// [observability] carries pipeline hooks and their OpenTelemetry binding.
// [errors] defines the coded errors shared by every package.
//
// [io]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/io
// [city]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/city
// [layout]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/layout
// [render/plan]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/render/plan
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/render/nodelink
// [render/voxel]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/render/voxel
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/codecity/pkg/errors
package pkg
