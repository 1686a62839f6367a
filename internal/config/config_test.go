package config

import (
	"testing"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/usb", "/media/usb"},
		{"single trailing slash", "/media/usb/", "/media/usb"},
		{"multiple trailing slashes", "/media/usb///", "/media/usb"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "rainbow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true // skip path requirement
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Workers(t *testing.T) {
	tests := []struct {
		workers int
		wantErr bool
	}{
		{0, true},
		{-1, true},
		{1, false},
		{8, false},
		{MaxWorkers, false},
		{MaxWorkers + 1, true},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.CheckOnly = true
		cfg.Workers = tt.workers
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(workers=%d) error = %v, wantErr %v", tt.workers, err, tt.wantErr)
		}
	}
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = false

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when paths are empty and CheckOnly is false")
	}

	cfg.SourceDir = "/media/usb"
	cfg.DestDir = "/srv/clean"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidate_CheckOnlySkipsPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should pass with empty paths when CheckOnly is true, got: %v", err)
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		dest    string
		wantErr bool
	}{
		{"separate directories", "/media/usb", "/srv/clean", false},
		{"destination equals source", "/media/usb", "/media/usb", true},
		{"destination inside source", "/media/usb", "/media/usb/clean", true},
		{"destination is parent of source", "/media/usb/sub", "/media/usb", false},
		{"similar prefix not nested", "/media/usb", "/media/usb2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ValidatePaths(tt.source, tt.dest)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v",
					tt.source, tt.dest, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Workers != 1 {
		t.Errorf("default Workers = %d, want 1", cfg.Workers)
	}
	if cfg.ColorMode != ColorAuto {
		t.Errorf("default ColorMode = %q, want %q", cfg.ColorMode, ColorAuto)
	}
	if cfg.Debug {
		t.Error("default Debug should be false")
	}
	if cfg.PolicyFile != "" {
		t.Error("default PolicyFile should be empty (built-in rules)")
	}
}
