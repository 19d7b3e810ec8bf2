package wheel

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var tablesFS embed.FS

const defaultTable = "tables/default.yaml"

var loadDefault = sync.OnceValues(func() ([]Option, error) {
	b, err := fs.ReadFile(tablesFS, defaultTable)
	if err != nil {
		return nil, err
	}
	return ParseOptions(b)
})

// DefaultOptions returns the embedded 14-weapon table.
func DefaultOptions() []Option {
	opts, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("wheel: embedded option table: %v", err))
	}
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}

// ParseOptions decodes and validates a YAML option table.
func ParseOptions(b []byte) ([]Option, error) {
	const op = "wheel.ParseOptions"

	var table optionTable
	if err := yaml.Unmarshal(b, &table); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := Validate(table.Options); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return table.Options, nil
}

// LoadOptions reads an option table from path. An empty path yields the
// embedded default table.
func LoadOptions(path string) ([]Option, error) {
	const op = "wheel.LoadOptions"

	if path == "" {
		return DefaultOptions(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ParseOptions(b)
}
