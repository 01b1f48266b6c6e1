package store

import "testing"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDefaultsSeeded(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetSetting("week_start")
	if err != nil {
		t.Fatal(err)
	}
	if v != "monday" {
		t.Fatalf("week_start = %q, want monday", v)
	}
}

func TestSetAndGetSetting(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetSetting("default_project", "PRJ-42"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting("default_project")
	if err != nil {
		t.Fatal(err)
	}
	if v != "PRJ-42" {
		t.Fatalf("default_project = %q, want PRJ-42", v)
	}

	// Upsert overwrites.
	if err := s.SetSetting("default_project", "PRJ-7"); err != nil {
		t.Fatal(err)
	}
	v, _ = s.GetSetting("default_project")
	if v != "PRJ-7" {
		t.Fatalf("default_project = %q, want PRJ-7", v)
	}
}

func TestGetMissingSetting(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetSetting("no_such_key"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 4 {
		t.Fatalf("got %d settings, want 4", len(settings))
	}
}
