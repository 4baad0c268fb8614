package env

import "testing"

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("EFADMIN_TEST_A", "")
	t.Setenv("EFADMIN_TEST_B", "http://b")
	t.Setenv("EFADMIN_TEST_C", "http://c")

	if got := First("fallback", "EFADMIN_TEST_A", "EFADMIN_TEST_B", "EFADMIN_TEST_C"); got != "http://b" {
		t.Fatalf("expected http://b, got %q", got)
	}
	if got := First("fallback", "EFADMIN_TEST_MISSING"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestGetFallback(t *testing.T) {
	t.Setenv("EFADMIN_TEST_GET", "")
	if got := Get("EFADMIN_TEST_GET", "json"); got != "json" {
		t.Fatalf("expected json, got %q", got)
	}
}
