package chart

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an image encoding understood by gonum/plot.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
	PDF Format = "pdf"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case SVG, PNG, PDF:
		return f, nil
	case "":
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q (want svg, png or pdf)", s)
}

// FormatFromPath infers the format from an output file extension.
// A path without an extension is SVG. An unknown extension is an error.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}
