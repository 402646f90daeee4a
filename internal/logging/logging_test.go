package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestSetup(t *testing.T) {
	orig := log.StandardLogger().Out
	t.Cleanup(func() {
		log.SetOutput(orig)
		log.SetLevel(log.InfoLevel)
	})

	path := filepath.Join(t.TempDir(), "nested", "shipit.log")
	closer, err := Setup(path, true)
	if err != nil {
		t.Fatalf("Setup() error: %v", err)
	}

	log.WithField("package", "test").Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
	log.SetOutput(orig)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=hello") || !strings.Contains(string(data), "package=test") {
		t.Errorf("log file = %q", data)
	}
}

func TestSetup_InfoByDefault(t *testing.T) {
	orig := log.StandardLogger().Out
	t.Cleanup(func() { log.SetOutput(orig) })

	closer, err := Setup(filepath.Join(t.TempDir(), "shipit.log"), false)
	if err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	defer closer.Close()

	if log.GetLevel() != log.InfoLevel {
		t.Errorf("level = %s, want info", log.GetLevel())
	}
}
