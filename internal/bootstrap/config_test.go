package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetup(t *testing.T) {
	// a missing config file leaves the defaults in force
	cfg, err := Setup(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerPort != "8080" || cfg.EngineLevel != 3 {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	var path = filepath.Join(t.TempDir(), ".env")
	var content = "SERVER_PORT=9090\nENGINE_LEVEL=5\nSOLVER_URL=http://solver:7070\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Setup(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerPort != "9090" || cfg.EngineLevel != 5 || cfg.SolverURL != "http://solver:7070" {
		t.Errorf("config not read: %+v", cfg)
	}
	if cfg.SolverTimeoutMs != 3000 {
		t.Errorf("default timeout lost: %v", cfg.SolverTimeoutMs)
	}
}
