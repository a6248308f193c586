package config_test

import (
	"testing"

	"github.com/nvc-project/nvc-core/config"
)

func TestParseStd(t *testing.T) {
	cases := []struct {
		in      string
		want    config.Std
		wantErr bool
	}{
		{"1993", config.Std1993, false},
		{"2002", config.Std2002, false},
		{"2008", config.Std2008, false},
		{"2019", config.Std2019, false},
		{"1976", 0, true},
	}
	for _, c := range cases {
		got, err := config.ParseStd(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseStd(%q): expected error, got nil", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStd(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseStd(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestBuilderDefaults(t *testing.T) {
	s := config.NewBuilder().Build()
	if s.Std != config.Std2008 {
		t.Errorf("default Std = %v, want 2008", s.Std)
	}
	if s.SearchPath != "." {
		t.Errorf("default SearchPath = %q, want %q", s.SearchPath, ".")
	}
	if s.NoColor {
		t.Errorf("default NoColor = true, want false")
	}
}

func TestBuilderChaining(t *testing.T) {
	s := config.NewBuilder().
		WithStd(config.Std2019).
		WithSearchPath("/libs").
		WithNoColor(true).
		WithTop("WORK", "COUNTER").
		Build()

	if s.Std != config.Std2019 {
		t.Errorf("Std = %v, want 2019", s.Std)
	}
	if s.SearchPath != "/libs" {
		t.Errorf("SearchPath = %q, want /libs", s.SearchPath)
	}
	if !s.NoColor {
		t.Errorf("NoColor = false, want true")
	}
	if s.TopLibrary != "WORK" || s.TopUnit != "COUNTER" {
		t.Errorf("top = %s.%s, want WORK.COUNTER", s.TopLibrary, s.TopUnit)
	}
}
