package io

import (
	"io"
	"math"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/codecity/pkg/city"
	"github.com/matzehuels/codecity/pkg/errors"
)

var (
	cityLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Int", Pattern: `\d+`},
		{Name: "Ident", Pattern: `[A-Za-z_]+`},
	})

	cityParser = participle.MustBuild[cityFile](
		participle.Lexer(cityLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
		participle.Unquote("String"),
	)
)

type cityFile struct {
	Separator *string     `parser:"( 'separator' @String )?"`
	Buildings []*building `parser:"@@*"`
}

type building struct {
	Pos    lexer.Position
	Name   string `parser:"'building' @String"`
	Width  int    `parser:"@Int"`
	Depth  int    `parser:"'x' @Int"`
	Height int    `parser:"( 'x' @Int )?"`
}

func (b *building) metrics() (city.Metrics, error) {
	for _, v := range [...]int{b.Width, b.Depth, b.Height} {
		if v > math.MaxUint16 {
			return city.Metrics{}, errors.Wrap(errors.ErrCodeInvalidDimensions, city.ErrInvalidDimensions,
				"%s: building %q: size %d exceeds %d", b.Pos, b.Name, v, math.MaxUint16)
		}
	}
	return city.Metrics{Width: uint16(b.Width), Depth: uint16(b.Depth), Height: uint16(b.Height)}, nil
}

// ReadDSL parses the line-oriented city format from r.
func ReadDSL(r io.Reader, opts ...Option) (*Input, error) {
	file, err := cityParser.Parse("", r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse city file")
	}

	in := &Input{
		Separator: newReadOptions(opts).separator,
		Entities:  make([]city.Entity, 0, len(file.Buildings)),
	}
	if file.Separator != nil {
		in.Separator = *file.Separator
		if in.Separator == "" {
			return nil, errors.New(errors.ErrCodeInvalidSeparator, "separator cannot be empty")
		}
	}
	for _, b := range file.Buildings {
		m, err := b.metrics()
		if err != nil {
			return nil, err
		}
		in.Entities = append(in.Entities, city.Entity{Name: b.Name, Metrics: m})
	}
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	return in, nil
}
