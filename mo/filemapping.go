// Package mo reads and writes the compiled binary catalog format.
package mo

import (
	"io"
	"os"
	"runtime"
)

type fileMapping struct {
	data []byte

	isMapped bool
}

func (m *fileMapping) Close() error {
	runtime.SetFinalizer(m, nil)
	if !m.isMapped {
		return nil
	}
	return m.closeMapping()
}

func openMapping(f *os.File) (*fileMapping, error) {
	m := new(fileMapping)

	err := m.tryMap(f)
	if err == nil {
		runtime.SetFinalizer(m, (*fileMapping).Close)
		return m, nil
	}
	// On mapping failure, fall back to reading the file into
	// memory directly.
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	m.data, err = io.ReadAll(f)
	return m, err
}
