package cli

import (
	"slices"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"blank defaults to svg", "  ", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , dot ", []string{"svg", "dot"}},
		{"empty entries dropped", "json,,voxel,", []string{"json", "voxel"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"from entity list", "", "city/acme.city", "city/acme"},
		{"from json entity list", "", "acme.json", "acme"},
		{"from layout file", "", "acme.layout.json", "acme"},
		{"explicit base", "out/plan", "acme.city", "out/plan"},
		{"strips svg", "out/plan.svg", "acme.city", "out/plan"},
		{"strips voxel before json", "out/plan.voxel.json", "acme.city", "out/plan"},
		{"strips layout before json", "out/plan.layout.json", "acme.city", "out/plan"},
		{"keeps unknown extension", "out/plan.txt", "acme.city", "out/plan.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths("plan.png", "acme.city", []string{"png"})
	if got["png"] != "plan.png" {
		t.Errorf("single format path = %q, want plan.png", got["png"])
	}

	got = outputPaths("", "acme.json", []string{"json", "svg", "voxel", "dot"})
	want := map[string]string{
		"json":  "acme.layout.json",
		"svg":   "acme.svg",
		"voxel": "acme.voxel.json",
		"dot":   "acme.dot",
	}
	for format, path := range want {
		if got[format] != path {
			t.Errorf("path for %s = %q, want %q", format, got[format], path)
		}
	}
	if got["json"] == "acme.json" {
		t.Error("json artifact would overwrite the input")
	}
}

func TestIsLayoutFile(t *testing.T) {
	tests := map[string]bool{
		"acme.layout.json": true,
		"ACME.LAYOUT.JSON": true,
		"acme.json":        false,
		"acme.city":        false,
	}
	for path, want := range tests {
		if got := isLayoutFile(path); got != want {
			t.Errorf("isLayoutFile(%q) = %v, want %v", path, got, want)
		}
	}
}
