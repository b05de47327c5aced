package project

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolvePrecedence(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{Root: root, Project: ProjectConfig{CacheDir: "cache", Jobs: 3}}

	t.Setenv(EnvCacheDir, "")
	t.Setenv(EnvJobs, "")
	s, err := Resolve(m, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if s.CacheDir != filepath.Join(root, "cache") || s.Jobs != 3 {
		t.Fatalf("manifest values: %+v", s)
	}

	t.Setenv(EnvCacheDir, "/env/cache")
	t.Setenv(EnvJobs, "5")
	s, err = Resolve(m, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if s.CacheDir != "/env/cache" || s.Jobs != 5 {
		t.Fatalf("env values: %+v", s)
	}

	s, err = Resolve(m, Overrides{CacheDir: "/flag/cache", Jobs: 7})
	if err != nil {
		t.Fatal(err)
	}
	if s.CacheDir != "/flag/cache" || s.Jobs != 7 {
		t.Fatalf("flag values: %+v", s)
	}
}

func TestResolveDefaults(t *testing.T) {
	t.Setenv(EnvCacheDir, "")
	t.Setenv(EnvJobs, "")
	t.Setenv("XDG_CACHE_HOME", "/xdg")
	s, err := Resolve(nil, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if s.CacheDir != filepath.Join("/xdg", "nate") {
		t.Errorf("CacheDir = %q", s.CacheDir)
	}
	if s.Jobs != runtime.GOMAXPROCS(0) {
		t.Errorf("Jobs = %d", s.Jobs)
	}
}

func TestResolveBadJobs(t *testing.T) {
	t.Setenv(EnvJobs, "many")
	if _, err := Resolve(nil, Overrides{CacheDir: "x"}); err == nil {
		t.Fatal("expected error for non-numeric NATE_JOBS")
	}
}

func TestLoadEnv(t *testing.T) {
	root := t.TempDir()
	if err := LoadEnv(root); err != nil {
		t.Fatalf("missing .env must be ignored: %v", err)
	}
	body := "NATE_TEST_FROM_DOTENV=dotenv\nNATE_TEST_PRESET=dotenv\n"
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NATE_TEST_PRESET", "process")
	t.Setenv("NATE_TEST_FROM_DOTENV", "")
	os.Unsetenv("NATE_TEST_FROM_DOTENV")
	if err := LoadEnv(root); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("NATE_TEST_FROM_DOTENV"); got != "dotenv" {
		t.Errorf("NATE_TEST_FROM_DOTENV = %q", got)
	}
	if got := os.Getenv("NATE_TEST_PRESET"); got != "process" {
		t.Errorf("existing variable overwritten: %q", got)
	}
}
