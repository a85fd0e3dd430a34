package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func withTestServer(t *testing.T, path, body string) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	origURL := baseURL
	baseURL = srv.URL
	t.Cleanup(func() { baseURL = origURL })
}

func TestShowBalances(t *testing.T) {
	withTestServer(t, "/api/v1/groups/g1/balances", `{
		"group_id": "g1",
		"balances": [
			{"member": "a@example.com", "owed_amount": "60", "owes_amount": "0"},
			{"member": "b@example.com", "owed_amount": "0", "owes_amount": "30"}
		]
	}`)

	out := captureOutput(t, func() {
		showBalances("g1")
	})

	if !strings.Contains(out, "a@example.com") || !strings.Contains(out, "60") {
		t.Fatalf("expected member balances in output, got %q", out)
	}
	if !strings.Contains(out, "b@example.com") || !strings.Contains(out, "30") {
		t.Fatalf("expected debtor in output, got %q", out)
	}
}

func TestShowOwed(t *testing.T) {
	withTestServer(t, "/api/v1/balances/owed", `{
		"total_amount": "55",
		"owe_details": [
			{"group_id": "g1", "owed_to": "a@example.com", "amount": "20"},
			{"group_id": "g2", "owed_to": "c@example.com", "amount": "35"}
		]
	}`)

	out := captureOutput(t, func() {
		showOwed("b@example.com")
	})

	if !strings.Contains(out, "Total owed: 55") {
		t.Fatalf("expected total in output, got %q", out)
	}
	if !strings.Contains(out, "g2") || !strings.Contains(out, "c@example.com") {
		t.Fatalf("expected owe detail in output, got %q", out)
	}
}

func TestCheckConservationPassed(t *testing.T) {
	withTestServer(t, "/api/v1/reconciliation", `{
		"consistent": true,
		"total_groups": 4,
		"conserved_groups": 4,
		"violations": []
	}`)

	out := captureOutput(t, func() {
		checkConservation()
	})

	if !strings.Contains(out, "Conservation check PASSED") {
		t.Fatalf("expected pass message, got %q", out)
	}
	if !strings.Contains(out, "Groups checked: 4") {
		t.Fatalf("expected group count, got %q", out)
	}
}

func TestShowSummary(t *testing.T) {
	withTestServer(t, "/api/v1/groups/g1/summary", `{
		"total_expenses": "130",
		"monthly_expenses": {"2024-03": "130"},
		"expenses_by_member": [
			{"member": "a@example.com", "total_paid": "130", "total_share": "65"}
		]
	}`)

	out := captureOutput(t, func() {
		showSummary("g1")
	})

	if !strings.Contains(out, "Total expenses: 130") {
		t.Fatalf("expected total in output, got %q", out)
	}
	if !strings.Contains(out, "2024-03") {
		t.Fatalf("expected month bucket in output, got %q", out)
	}
}
