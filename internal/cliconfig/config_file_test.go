package cliconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Brokers:        []string{"kafka-1:9092", "kafka-2:9092"},
				Topics:         []string{"app-logs"},
				Host:           "intake.example.com",
				PollTimeout:    "5s",
				MaxBatchLength: 200,
				Once:           &trueVal,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Brokers:        []string{"kafka-1:9092", "kafka-2:9092"},
				Topics:         []string{"app-logs"},
				Host:           "intake.example.com",
				PollTimeout:    5 * time.Second,
				MaxBatchLength: 200,
				Once:           true,
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Host:   "file-host",
				APIKey: "file-key",
			},
			changed: map[string]bool{"host": true},
			initial: Config{
				Host:   "flag-host",
				APIKey: "flag-key",
			},
			expected: Config{
				Host:   "flag-host", // unchanged because flag was set
				APIKey: "file-key",
			},
			wantErr: false,
		},
		{
			name: "handles all field types correctly",
			fileConfig: FileConfig{
				Brokers:           []string{"localhost:9092"},
				Topics:            []string{"logs", "audit"},
				GroupID:           "shippers",
				ClientID:          "ship-1",
				Host:              "intake.example.com",
				Port:              8080,
				APIKey:            "secret",
				MaxBatchLength:    100,
				CompressionEnable: &trueVal,
				CompressionLevel:  9,
				PollTimeout:       "2s",
				HTTPTimeout:       "30s",
				StateDir:          "/state",
				StartAt:           "end",
				MetricsAddr:       ":9090",
				Once:              &falseVal,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Brokers:           []string{"localhost:9092"},
				Topics:            []string{"logs", "audit"},
				GroupID:           "shippers",
				ClientID:          "ship-1",
				Host:              "intake.example.com",
				Port:              8080,
				APIKey:            "secret",
				MaxBatchLength:    100,
				CompressionEnable: true,
				CompressionLevel:  9,
				PollTimeout:       2 * time.Second,
				HTTPTimeout:       30 * time.Second,
				StateDir:          "/state",
				StartAt:           "end",
				MetricsAddr:       ":9090",
				Once:              false,
			},
			wantErr: false,
		},
		{
			name: "returns error for invalid duration",
			fileConfig: FileConfig{
				PollTimeout: "not-a-duration",
			},
			changed: map[string]bool{},
			initial: Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && !reflect.DeepEqual(cfg, tt.expected) {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	// Create a temporary TOML file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
brokers = ["kafka-1:9092", "kafka-2:9092"]
topics = ["app-logs"]
host = "intake.example.com"
api_key = "secret"
poll_timeout = "5s"
max_batch_length = 200
compression_enable = true
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if !reflect.DeepEqual(fc.Brokers, []string{"kafka-1:9092", "kafka-2:9092"}) {
		t.Errorf("Brokers = %v, want [kafka-1:9092 kafka-2:9092]", fc.Brokers)
	}
	if !reflect.DeepEqual(fc.Topics, []string{"app-logs"}) {
		t.Errorf("Topics = %v, want [app-logs]", fc.Topics)
	}
	if fc.Host != "intake.example.com" {
		t.Errorf("Host = %v, want intake.example.com", fc.Host)
	}
	if fc.APIKey != "secret" {
		t.Errorf("APIKey = %v, want secret", fc.APIKey)
	}
	if fc.PollTimeout != "5s" {
		t.Errorf("PollTimeout = %v, want 5s", fc.PollTimeout)
	}
	if fc.MaxBatchLength != 200 {
		t.Errorf("MaxBatchLength = %v, want 200", fc.MaxBatchLength)
	}
	if fc.CompressionEnable == nil || *fc.CompressionEnable != true {
		t.Errorf("CompressionEnable = %v, want true", fc.CompressionEnable)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
host = "intake.example.com"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	// Should return a path containing .logship
	if path != "" && !strings.Contains(path, ".logship") {
		t.Errorf("DefaultConfigPath() = %v, should contain .logship", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
