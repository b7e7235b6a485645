package config

import "testing"

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("DB_USER", "coffee")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "exports")

	expected := "coffee:secret@tcp(127.0.0.1:3306)/exports?parseTime=true"
	if got := databaseDSN(); got != expected {
		t.Fatalf("expected %s, got %s", expected, got)
	}

	t.Setenv("DB_HOST", "/cloudsql/proj:region:inst")
	expected = "coffee:secret@unix(/cloudsql/proj:region:inst)/exports?parseTime=true"
	if got := databaseDSN(); got != expected {
		t.Fatalf("expected %s, got %s", expected, got)
	}
}
