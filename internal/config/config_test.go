package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("XDG_STATE_HOME", "")
	cfg := DefaultConfig()

	if cfg.Store.Path != "contacts.txt" {
		t.Errorf("default store path = %q, want %q", cfg.Store.Path, "contacts.txt")
	}
	if cfg.Phone.Region != "RU" {
		t.Errorf("default region = %q, want %q", cfg.Phone.Region, "RU")
	}
	if cfg.Display.PageSize != 5 {
		t.Errorf("default page size = %d, want 5", cfg.Display.PageSize)
	}
	if cfg.Display.Plain {
		t.Error("default plain = true, want false")
	}
	if want := filepath.Join("/home/tester", ".local", "state", "phonebook", "phonebook.log"); cfg.Log.File != want {
		t.Errorf("default log file = %q, want %q", cfg.Log.File, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	cfgPath := writeConfig(t, `
store:
  path: /data/contacts.txt
phone:
  region: DE
display:
  page_size: 10
  plain: true
  template_dir: /etc/phonebook
log:
  file: ""
  level: debug
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Config{
		Store:   Store{Path: "/data/contacts.txt"},
		Phone:   Phone{Region: "DE"},
		Display: Display{PageSize: 10, Plain: true, TemplateDir: "/etc/phonebook"},
		Log:     Log{File: "", Level: "debug"},
	}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/phonebook.yaml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfgPath := writeConfig(t, "{{invalid yaml")

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load(invalid YAML) should return error")
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	cfgPath := writeConfig(t, `
display:
  page_size: 3
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Display.PageSize != 3 {
		t.Errorf("page size = %d, want 3", cfg.Display.PageSize)
	}
	// Unset fields should retain defaults.
	if cfg.Store.Path != "contacts.txt" {
		t.Errorf("store path = %q, want default %q", cfg.Store.Path, "contacts.txt")
	}
	if cfg.Phone.Region != "RU" {
		t.Errorf("region = %q, want default %q", cfg.Phone.Region, "RU")
	}
}

func TestLoad_LayeredPriority(t *testing.T) {
	// Setup: user config sets region and page size, project config overrides page size.
	userCfg := writeConfig(t, `
phone:
  region: US
display:
  page_size: 2
`)
	projectCfg := writeConfig(t, `
display:
  page_size: 8
`)

	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	// Region from user config (project doesn't set it).
	if cfg.Phone.Region != "US" {
		t.Errorf("region = %q, want %q", cfg.Phone.Region, "US")
	}
	// Page size from project config (overrides user).
	if cfg.Display.PageSize != 8 {
		t.Errorf("page size = %d, want 8", cfg.Display.PageSize)
	}
	// Store path retains default when neither layer sets it.
	if cfg.Store.Path != "contacts.txt" {
		t.Errorf("store path = %q, want default %q", cfg.Store.Path, "contacts.txt")
	}
}

func TestLoadLayered_ExplicitFalseOverrides(t *testing.T) {
	userCfg := writeConfig(t, "display:\n  plain: true\n")
	projectCfg := writeConfig(t, "display:\n  plain: false\n")

	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	if cfg.Display.Plain {
		t.Error("plain = true, want false from the later layer")
	}
}

func TestLoadLayered_EmptyLogFileDisablesLogging(t *testing.T) {
	cfgPath := writeConfig(t, "log:\n  file: \"\"\n")

	cfg, err := LoadLayered(cfgPath)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	if cfg.Log.File != "" {
		t.Errorf("log file = %q, want empty", cfg.Log.File)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want default %q", cfg.Log.Level, "info")
	}
}

func TestLoadLayered_SkipsEmptyPath(t *testing.T) {
	cfg, err := LoadLayered("", "")
	if err != nil {
		t.Fatalf("LoadLayered(empty paths) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_UnknownFieldInLayer(t *testing.T) {
	cfgPath := writeConfig(t, "store:\n  pth: x.txt\n")

	_, err := LoadLayered(cfgPath)
	if err == nil {
		t.Fatal("LoadLayered() should return error for unknown field 'pth'")
	}
	if !strings.Contains(err.Error(), "config: parsing") {
		t.Errorf("error = %v, want parsing error", err)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name: "PHONEBOOK_FILE overrides store path",
			envs: map[string]string{"PHONEBOOK_FILE": "/tmp/people.txt"},
			check: func(t *testing.T, c Config) {
				if c.Store.Path != "/tmp/people.txt" {
					t.Errorf("store path = %q, want %q", c.Store.Path, "/tmp/people.txt")
				}
			},
		},
		{
			name: "PHONEBOOK_REGION overrides region",
			envs: map[string]string{"PHONEBOOK_REGION": "GB"},
			check: func(t *testing.T, c Config) {
				if c.Phone.Region != "GB" {
					t.Errorf("region = %q, want %q", c.Phone.Region, "GB")
				}
			},
		},
		{
			name: "PHONEBOOK_PAGE_SIZE overrides page size",
			envs: map[string]string{"PHONEBOOK_PAGE_SIZE": "12"},
			check: func(t *testing.T, c Config) {
				if c.Display.PageSize != 12 {
					t.Errorf("page size = %d, want 12", c.Display.PageSize)
				}
			},
		},
		{
			name: "empty PHONEBOOK_LOG_FILE disables logging",
			envs: map[string]string{"PHONEBOOK_LOG_FILE": ""},
			check: func(t *testing.T, c Config) {
				if c.Log.File != "" {
					t.Errorf("log file = %q, want empty", c.Log.File)
				}
			},
		},
		{
			name: "PHONEBOOK_LOG_LEVEL overrides level",
			envs: map[string]string{"PHONEBOOK_LOG_LEVEL": "warn"},
			check: func(t *testing.T, c Config) {
				if c.Log.Level != "warn" {
					t.Errorf("log level = %q, want %q", c.Log.Level, "warn")
				}
			},
		},
		{
			name:    "invalid PHONEBOOK_PAGE_SIZE returns error",
			envs:    map[string]string{"PHONEBOOK_PAGE_SIZE": "lots"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			err := cfg.ApplyEnv()

			if tt.wantErr {
				if err == nil {
					t.Fatal("ApplyEnv() should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestApplyEnv_BeatsFileLayers(t *testing.T) {
	cfgPath := writeConfig(t, "store:\n  path: from-file.txt\n")
	t.Setenv("PHONEBOOK_FILE", "from-env.txt")

	cfg, err := LoadLayered(cfgPath)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.Store.Path != "from-env.txt" {
		t.Errorf("store path = %q, want %q", cfg.Store.Path, "from-env.txt")
	}
}

func TestLoad_UnknownField(t *testing.T) {
	cfgPath := writeConfig(t, `
phone:
  regoin: RU
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load() should return error for unknown field 'regoin'")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "empty store path",
			modify:  func(c *Config) { c.Store.Path = "  " },
			wantErr: true,
		},
		{
			name:   "lowercase region",
			modify: func(c *Config) { c.Phone.Region = "de" },
		},
		{
			name:    "three-letter region",
			modify:  func(c *Config) { c.Phone.Region = "RUS" },
			wantErr: true,
		},
		{
			name:    "empty region",
			modify:  func(c *Config) { c.Phone.Region = "" },
			wantErr: true,
		},
		{
			name:    "zero page size",
			modify:  func(c *Config) { c.Display.PageSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative page size",
			modify:  func(c *Config) { c.Display.PageSize = -3 },
			wantErr: true,
		},
		{
			name:   "uppercase log level",
			modify: func(c *Config) { c.Log.Level = "DEBUG" },
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_CommentOnlyFile(t *testing.T) {
	cfgPath := writeConfig(t, "# just a comment\n")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(comment-only) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_AllMissing(t *testing.T) {
	cfg, err := LoadLayered("/no/user.yaml", "/no/project.yaml")
	if err != nil {
		t.Fatalf("LoadLayered(all missing) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfgPath := writeConfig(t, "")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(empty) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestDefaultLogPath(t *testing.T) {
	t.Run("state home wins", func(t *testing.T) {
		// Given: XDG_STATE_HOME is set
		t.Setenv("HOME", "/home/tester")
		t.Setenv("XDG_STATE_HOME", "/var/state")

		// Then: the log lives under it, not in the working directory
		if got, want := DefaultLogPath(), filepath.Join("/var/state", "phonebook", "phonebook.log"); got != want {
			t.Errorf("DefaultLogPath() = %q, want %q", got, want)
		}
	})

	t.Run("falls back to home", func(t *testing.T) {
		t.Setenv("HOME", "/home/tester")
		t.Setenv("XDG_STATE_HOME", "")

		got := DefaultLogPath()
		if !filepath.IsAbs(got) || !strings.HasPrefix(got, "/home/tester") {
			t.Errorf("DefaultLogPath() = %q, want a path under HOME", got)
		}
	})
}

func TestUserPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	if got := UserPath(); got != "/home/tester/.config/phonebook/config.yaml" {
		t.Errorf("UserPath() = %q", got)
	}
}
