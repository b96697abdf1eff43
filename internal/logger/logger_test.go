package logger

import "testing"

func TestNew(t *testing.T) {
	log := New()
	if log == nil {
		t.Fatal("expected a logger")
	}

	t.Setenv("ROTATOR_ENV", "prod")
	log = New()
	if log == nil {
		t.Fatal("expected a prod logger")
	}
}
