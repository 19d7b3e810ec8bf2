package wheel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if len(opts) != 14 {
		t.Fatalf("len %d, want 14", len(opts))
	}
	wantLabels := []string{"SnS", "GS", "LS", "DB", "HH", "GL", "SA", "IG", "CB", "LBG", "HBG", "LNC", "BOW", "HMR"}
	for i, want := range wantLabels {
		if opts[i].Label != want {
			t.Errorf("option %d label %q, want %q", i, opts[i].Label, want)
		}
		if opts[i].Message == "" {
			t.Errorf("option %d (%s) has no message", i, want)
		}
	}
	if opts[0].Color != "#e460ff" || opts[13].Color != "#ff7c10" {
		t.Errorf("colors %q..%q, want #e460ff..#ff7c10", opts[0].Color, opts[13].Color)
	}
	if err := Validate(opts); err != nil {
		t.Errorf("default table invalid: %v", err)
	}
}

func TestDefaultOptions_ReturnsCopy(t *testing.T) {
	a := DefaultOptions()
	a[0].Label = "mutated"
	if b := DefaultOptions(); b[0].Label != "SnS" {
		t.Error("DefaultOptions shares its backing array")
	}
}

func TestParseOptions_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{name: "Empty", yaml: "options: []\n"},
		{name: "Duplicate", yaml: "options:\n  - {label: A, color: \"#000000\"}\n  - {label: A, color: \"#ffffff\"}\n"},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseOptions([]byte(tc.yaml))
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error %v, want *ConfigError", err)
			}
		})
	}
}

func TestParseOptions_Malformed(t *testing.T) {
	if _, err := ParseOptions([]byte("options: [")); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestLoadOptions_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wheel.yaml")
	body := "options:\n  - label: Heads\n    color: \"#ffffff\"\n    message: up\n  - label: Tails\n    color: \"#000000\"\n    message: down\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if len(opts) != 2 || opts[1].Label != "Tails" || opts[1].Message != "down" {
		t.Errorf("options %+v", opts)
	}
}

func TestLoadOptions_EmptyPathUsesDefault(t *testing.T) {
	opts, err := LoadOptions("")
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if len(opts) != 14 {
		t.Errorf("len %d, want 14", len(opts))
	}
}

func TestLoadOptions_MissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v, want os.ErrNotExist", err)
	}
}
