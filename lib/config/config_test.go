package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm/lieutenant"
)

var known = []string{"lut-card", "lut-form-card", "lut-hello", "lut-plain"}

const sample = `server:
  addr: ":9090"
  key: "0123456789abcdef"
  path: "/components/"
  assets: "./public"
errors:
  message: "Could not load"
  expose_reason: true
fetch:
  base_url: "http://localhost:9090/assets/"
  timeout: 3s
loading:
  height: 80
logging:
  level: debug
  development: true
components:
  - element: lut-card
    styles: theme.css
    content: card.html
    data: card.json
    loading:
      height: 200
      width: 400
  - element: lut-hello
    text: "Hello"
    styles: theme.css
    content: hello.html
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lieutenant.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, sample)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LoadedFrom != path {
		t.Errorf("LoadedFrom = %q, want %q", cfg.LoadedFrom, path)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Path != "/components/" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.Title != "lieutenant" {
		t.Errorf("expected default title to survive, got %q", cfg.Server.Title)
	}
	if cfg.Errors.Message != "Could not load" || !cfg.Errors.ExposeReason {
		t.Errorf("Errors = %+v", cfg.Errors)
	}
	if cfg.Fetch.Timeout != 3*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 3s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.UserAgent != "lieutenant" {
		t.Errorf("expected default user agent, got %q", cfg.Fetch.UserAgent)
	}
	if cfg.Loading != (lieutenant.Dimensions{Height: 80, Width: 50}) {
		t.Errorf("Loading = %+v, want height from file and default width", cfg.Loading)
	}
	if len(cfg.Components) != 2 {
		t.Fatalf("len(Components) = %d, want 2", len(cfg.Components))
	}

	card := cfg.Components[0].Attributes()
	want := lieutenant.Attributes{
		Styles:  "theme.css",
		Content: "card.html",
		Data:    "card.json",
		Loading: lieutenant.Dimensions{Height: 200, Width: 400},
	}
	if card != want {
		t.Errorf("Attributes() = %+v, want %+v", card, want)
	}

	if err := cfg.Validate(known); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("server: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestKeyFromEnv(t *testing.T) {
	t.Setenv("LUT_TEST_KEY", "from-env")

	cfg, err := Parse([]byte("server:\n  key_env: LUT_TEST_KEY\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Server.Key != "from-env" {
		t.Errorf("Key = %q, want from-env", cfg.Server.Key)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing key", func(c *Config) { c.Server.Key = "" }, "server.key"},
		{"bad path", func(c *Config) { c.Server.Path = "components" }, "server.path"},
		{"relative base url", func(c *Config) { c.Fetch.BaseURL = "assets/" }, "fetch.base_url"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"zero loading", func(c *Config) { c.Loading = lieutenant.Dimensions{} }, "loading must be positive"},
		{"unknown element", func(c *Config) {
			c.Components = []ComponentConfig{{Element: "lut-crad", Styles: "a.css", Content: "a.html"}}
		}, `unknown element "lut-crad" (did you mean "lut-card"?)`},
		{"missing content", func(c *Config) {
			c.Components = []ComponentConfig{{Element: "lut-card", Styles: "a.css"}}
		}, "components[0] (lut-card)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Server.Key = "k"
			tt.mutate(cfg)

			err := cfg.Validate(known)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidateNonFiniteLoading(t *testing.T) {
	body := "server:\n  key: k\nloading:\n  height: .nan\n  width: .inf\n" +
		"components:\n  - element: lut-card\n    styles: a.css\n    content: a.html\n    loading:\n      height: .inf\n      width: 10\n"
	cfg, err := Parse([]byte(body))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	err = cfg.Validate(known)
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"loading must be positive", "components[0] (lut-card)"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %q, want it to mention %q", err.Error(), want)
		}
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Default()
	cfg.Server.Key = "k"
	if err := cfg.Validate(known); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warn"

	log, err := cfg.Logger()
	if err != nil {
		t.Fatalf("Logger() error: %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Error("debug should be disabled at warn level")
	}
}

func TestFetchClientAndOptions(t *testing.T) {
	cfg := Default()
	cfg.Fetch.BaseURL = "http://localhost:9090/assets/"

	client, err := cfg.FetchClient()
	if err != nil {
		t.Fatalf("FetchClient() error: %v", err)
	}
	got, err := client.Resolve("card.html")
	if err != nil || got != "http://localhost:9090/assets/card.html" {
		t.Errorf("Resolve() = %q, %v", got, err)
	}

	reg := lieutenant.NewRegistry([]byte("k"), cfg.Options(nil, client)...)
	if reg.Path() != "/_lut/" {
		t.Errorf("Path() = %q", reg.Path())
	}
}
