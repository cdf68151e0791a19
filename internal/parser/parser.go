package parser

import (
	"io"

	"pitchboard/internal/table"
)

// Parser turns raw bytes into a submission table. The int result counts rows
// dropped by soft-fail handling (malformed or wrong width).
type Parser interface {
	Parse(r io.Reader) (*table.Table, int, error)
}
