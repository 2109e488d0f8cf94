package main

import (
	"testing"
	"time"
)

func TestGeneratorFreshIncident(t *testing.T) {
	gen := newGenerator(1, 0)

	inc := gen.next()

	if inc.RecordType != "incident" || inc.RecordID == "" || inc.ModuleID == "" {
		t.Fatalf("incomplete incident: %+v", inc)
	}
	if len(inc.AssociatedUserNames) != 1 || inc.AssociatedUserNames[0] != inc.OwnedBy {
		t.Fatalf("owner must be the associated user, got %v", inc.AssociatedUserNames)
	}
	from, err := time.Parse(time.DateOnly, inc.Dates["incident_date"])
	if err != nil {
		t.Fatal(err)
	}
	to, err := time.Parse(time.DateOnly, inc.Dates["date_of_first_report"])
	if err != nil {
		t.Fatal(err)
	}
	if to.Before(from) {
		t.Fatalf("first report %s before incident %s", to, from)
	}
}

func TestGeneratorResendsKnownRecord(t *testing.T) {
	gen := newGenerator(1, 100)

	first := gen.next()
	again := gen.next()

	if again.RecordID != first.RecordID {
		t.Fatalf("expected resend of %s, got %s", first.RecordID, again.RecordID)
	}
	again.Fields["marker"] = "x"
	if _, ok := first.Fields["marker"]; ok {
		t.Fatal("resend must not share the fields map")
	}
}
