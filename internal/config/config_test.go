package config

import (
	"os"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestLoadAppliesFlagsOverDefaults(t *testing.T) {
	cfg, err := Load([]string{"--mode=ntsc-m", "--gain=10", "--output-type=hackrf"}, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "ntsc-m" {
		t.Fatalf("Mode = %q, want ntsc-m", cfg.Mode)
	}
	if cfg.Gain != 10 {
		t.Fatalf("Gain = %v, want 10", cfg.Gain)
	}
	if cfg.OutputType != OutputHackRF {
		t.Fatalf("OutputType = %q, want hackrf", cfg.OutputType)
	}
}

func TestLoadRejectsUnknownOutputType(t *testing.T) {
	_, err := Load([]string{"--output-type=carrier-pigeon"}, "")
	if err == nil {
		t.Fatal("expected an error for an unknown output-type")
	}
}

func TestLoadYAMLThenFlagOverride(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/hacktv.yaml"
	yamlBody := "mode: secam-l\ngain: 5\noutput-type: file\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"--gain=20"}, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "secam-l" {
		t.Fatalf("Mode = %q, want secam-l (from yaml)", cfg.Mode)
	}
	if cfg.Gain != 20 {
		t.Fatalf("Gain = %v, want 20 (flag overriding yaml)", cfg.Gain)
	}
}

func TestLoadAcceptsConfigFlag(t *testing.T) {
	// The caller pre-scans --config before Load; the flag set must still
	// accept it rather than failing on an unknown flag.
	cfg, err := Load([]string{"--config=somewhere.yaml", "--mode=pal-b"}, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "pal-b" {
		t.Fatalf("Mode = %q, want pal-b", cfg.Mode)
	}
}

func TestLoadRejectsNegativeSampleRate(t *testing.T) {
	if _, err := Load([]string{"--sample-rate=-1"}, ""); err == nil {
		t.Fatal("expected an error for a negative sample-rate")
	}
}
