package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// LoadResponses reads every `<code>.html` file directly under dir into
// a status-code-keyed byte map, the static response store consulted by
// the error responder before it falls back to a plain-text body. A
// missing dir yields an empty, non-nil map.
func LoadResponses(dir string) (map[string][]byte, error) {
	store := make(map[string][]byte)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("loader: %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".html" {
			continue
		}
		code := name[:len(name)-len(ext)]
		if _, err := strconv.Atoi(code); err != nil {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", name, err)
		}
		store[code] = data
	}

	return store, nil
}
