package postgres

import (
	"testing"
)

func TestDeref(t *testing.T) {
	if got := deref(nil); got != "" {
		t.Errorf("deref(nil) = %q, want empty", got)
	}

	s := "Acme Corp"
	if got := deref(&s); got != "Acme Corp" {
		t.Errorf("deref(&s) = %q, want %q", got, s)
	}
}

func TestNullable(t *testing.T) {
	if got := nullable(""); got != nil {
		t.Errorf("nullable(\"\") = %v, want nil", got)
	}

	got := nullable("org-1")
	if got == nil || *got != "org-1" {
		t.Errorf("nullable(\"org-1\") = %v, want pointer to org-1", got)
	}
}

func TestValidID(t *testing.T) {
	if !validID("0198d2a6-7a3e-7cc0-b6a5-bd7c0a3a5a10") {
		t.Error("well-formed UUID rejected")
	}
	if validID("not-a-uuid") {
		t.Error("malformed id accepted")
	}
	if validID("") {
		t.Error("empty id accepted")
	}
}

func TestSetClause(t *testing.T) {
	name := "Initech"
	address := ""
	amount := 7500.0

	c := newSetClause()
	c.add("name", &name)
	c.addNullable("organization_id", &address)
	c.addFloat("amount", &amount)
	c.add("skipped", nil)

	wantSQL := "updated_at = now(), name = $3, organization_id = $4, amount = $5"
	if got := c.sql(); got != wantSQL {
		t.Errorf("sql() = %q, want %q", got, wantSQL)
	}

	args := c.args("id-1", "user-1")
	if len(args) != 5 {
		t.Fatalf("args() len = %d, want 5", len(args))
	}
	if args[0] != "id-1" || args[1] != "user-1" {
		t.Errorf("args()[0:2] = %v, want id and user first", args[:2])
	}
	if args[2] != "Initech" {
		t.Errorf("args()[2] = %v, want Initech", args[2])
	}
	if args[3] != (*string)(nil) {
		t.Errorf("args()[3] = %v, want nil for cleared column", args[3])
	}
	if args[4] != 7500.0 {
		t.Errorf("args()[4] = %v, want 7500", args[4])
	}
}

func TestSetClause_NoChanges(t *testing.T) {
	c := newSetClause()
	if got := c.sql(); got != "updated_at = now()" {
		t.Errorf("sql() = %q, want only the timestamp refresh", got)
	}
	if got := c.args("id-1", "user-1"); len(got) != 2 {
		t.Errorf("args() len = %d, want 2", len(got))
	}
}
