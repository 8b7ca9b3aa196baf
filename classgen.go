package classgen

import (
	"io"
	"os"

	"github.com/wippyai/jvm-classgen/errors"
)

// Artifact is anything that serializes to a class file.
type Artifact interface {
	io.WriterTo
	Encode() ([]byte, error)
	Size() int
}

// WriteFile encodes a and writes it to path. Nothing is written if
// encoding fails.
func WriteFile(path string, a Artifact) error {
	data, err := a.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		wrapped := errors.Wrap(errors.PhaseEncode, errors.KindIO, err, "write class file")
		wrapped.Path = []string{path}
		return wrapped
	}
	return nil
}
