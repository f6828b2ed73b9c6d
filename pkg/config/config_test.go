package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"tableflip.dev/waitlist/pkg/store"
	"tableflip.dev/waitlist/pkg/submission"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyProject, "synergy")

	c, err := FromViper(v)
	if err != nil {
		t.Fatalf("from viper: %v", err)
	}
	if c.Store != store.BackendDiskv {
		t.Fatalf("store = %q", c.Store)
	}
	if c.Collection != "waitlist" || c.UniqueField != "email" {
		t.Fatalf("unexpected collection/unique field %q/%q", c.Collection, c.UniqueField)
	}
	if c.CheckDuplicates {
		t.Fatalf("duplicate check should default off")
	}
	if c.NotificationDuration != 5*time.Second || c.NotificationTick != 100*time.Millisecond {
		t.Fatalf("notification timing = %s/%s", c.NotificationDuration, c.NotificationTick)
	}
	if strings.HasPrefix(c.Path, "~") {
		t.Fatalf("path not expanded: %q", c.Path)
	}
}

func TestFromViperFailsFastWithoutProject(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	_, err := FromViper(v)
	if !errors.Is(err, ErrMissingSetting) {
		t.Fatalf("expected ErrMissingSetting, got %v", err)
	}
	if !strings.Contains(err.Error(), "WAITLIST_PROJECT") {
		t.Fatalf("error should name the env var: %v", err)
	}
}

func TestFromViperSQLiteNeedsDSN(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyProject, "synergy")
	v.Set(KeyStore, "sqlite")
	if _, err := FromViper(v); !errors.Is(err, ErrMissingSetting) {
		t.Fatalf("expected missing dsn, got %v", err)
	}
	v.Set(KeyDSN, filepath.Join(t.TempDir(), "w.db"))
	if _, err := FromViper(v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFromViperRejectsUnknownBackend(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyProject, "synergy")
	v.Set(KeyStore, "firestore")
	if _, err := FromViper(v); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte("project: synergy\nstore: memory\ncheck_duplicates: true\nnotification:\n  duration: 3s\n")
	if err := os.WriteFile(filepath.Join(dir, ".waitlist.yaml"), data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvConfigPath, dir)

	c, err := Load(New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Project != "synergy" || c.Store != store.BackendMemory || !c.CheckDuplicates {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.NotificationDuration != 3*time.Second {
		t.Fatalf("duration = %s", c.NotificationDuration)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvConfigPath, t.TempDir())
	t.Setenv("WAITLIST_PROJECT", "from-env")
	t.Setenv("WAITLIST_NOTIFICATION_DURATION", "2s")
	c, err := Load(New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Project != "from-env" {
		t.Fatalf("project = %q", c.Project)
	}
	if c.NotificationDuration != 2*time.Second {
		t.Fatalf("duration = %s", c.NotificationDuration)
	}
}

func TestSubmissionOptions(t *testing.T) {
	c := &Config{
		Collection:           "beta",
		UniqueField:          "email",
		CheckDuplicates:      true,
		NotificationDuration: 2 * time.Second,
	}
	ctrl := submission.New(store.NewMemory(), c.SubmissionOptions(nil)...)
	if ctrl.Collection() != "beta" {
		t.Fatalf("collection = %q", ctrl.Collection())
	}
	if !ctrl.DuplicateCheck() {
		t.Fatalf("expected duplicate check enabled")
	}
}
