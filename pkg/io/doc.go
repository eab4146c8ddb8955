// Package io reads and writes entity lists, the input of a code city.
//
// # Formats
//
// Three input formats are supported. All of them describe the same thing:
// a separator and a list of entities with a full hierarchical name and
// three sizes.
//
// JSON, read with [ReadJSON] and [ImportJSON]:
//
//	{
//	  "separator": "/",
//	  "entities": [
//	    {"name": "com/acme/Server", "width": 4, "depth": 3, "height": 12},
//	    {"name": "com/acme/Client", "methods": 3, "fields": 1, "code_size": 240}
//	  ]
//	}
//
// An entity either gives its sizes directly or gives raw class counts
// (methods, fields, code_size), which are converted with
// [city.MetricsFromCounts].
//
// TOML, read with [ReadTOML] and [ImportTOML]:
//
//	separator = "/"
//
//	[[entity]]
//	name = "com/acme/Server"
//	width = 4
//	depth = 3
//	height = 12
//
// The line-oriented city format, read with [ReadDSL] and [ImportDSL]:
//
//	# acme services
//	separator "/"
//	building "com/acme/Server" 4 x 3 x 12
//	building "com/acme/Client" 2 x 2     // height defaults to 0
//
// [Import] picks the reader from the file extension (.json, .toml, .city).
// A document that names no separator uses [city.DefaultSeparator] unless
// the caller passes [WithSeparator].
//
// # Normalization
//
// Every reader validates names and the separator with pkg/errors and
// coerces zero widths and depths to 1, so the result can always be handed
// to [city.Build]. Validation failures carry INVALID_* codes.
//
// # Export
//
// [WriteJSON], [WriteTOML] and [WriteDSL] write an [Input] back out.
// [Export] picks the writer from the file extension.
package io
