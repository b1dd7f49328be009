package extract_test

import (
	"reflect"
	"testing"

	"github.com/alexalemi/kissimmee.fyi/internal/extract"
)

func TestMeetingDate(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "standard phrase",
			text: "A public hearing will be held on Wednesday, November 19, 2025 at 6:00 p.m. in the chambers.",
			want: "Wednesday, November 19, 2025 at 6:00 p.m.",
			ok:   true,
		},
		{
			name: "case insensitive",
			text: "ON MONDAY, JUNE 2, 2025 AT 5:30 P.M.",
			want: "MONDAY, JUNE 2, 2025 at 5:30 P.M.",
			ok:   true,
		},
		{
			name: "no date phrase",
			text: "The board will meet at its usual time.",
			ok:   false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := extract.MeetingDate(c.text)
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if ok && got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestPropertyAddress(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "with approximately",
			text: "property located at approximately 2220 Fortune Road, in the City",
			want: "2220 Fortune Road",
			ok:   true,
		},
		{
			name: "without approximately",
			text: "property located at 101 Main Street. Legal description follows",
			want: "101 Main Street",
			ok:   true,
		},
		{
			name: "terminated by Parcel",
			text: "located at 500 Oak Avenue Parcel ID: 12-34",
			want: "500 Oak Avenue",
			ok:   true,
		},
		{
			name: "terminated by Legal",
			text: "located at 500 Oak Avenue Legal Description: Lot 4",
			want: "500 Oak Avenue",
			ok:   true,
		},
		{
			name: "no address",
			text: "An ordinance of general applicability.",
			ok:   false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := extract.PropertyAddress(c.text)
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if ok && got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestZoningChange(t *testing.T) {
	text := "rezone FROM: RC-1 (Multiple Family Medium Density Residential) TO: RC-2 (Multiple Family High Density Residential) The hearing"
	got, ok := extract.ZoningChange(text)
	if !ok {
		t.Fatal("expected a zoning change")
	}
	want := "RC-1 (Multiple Family Medium Density Residential) → RC-2 (Multiple Family High Density Residential)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestZoningChangePartialYieldsAbsent(t *testing.T) {
	// A lone FROM (or a lone TO) is never reported as a partial pair.
	if _, ok := extract.ZoningChange("FROM: RC-1 City Commission"); ok {
		t.Error("lone FROM should yield absent")
	}
	if _, ok := extract.ZoningChange("TO: RC-2 The hearing"); ok {
		t.Error("lone TO should yield absent")
	}
}

func TestReferenceNumber(t *testing.T) {
	got, ok := extract.ReferenceNumber("as case Reference # ZMA-25-0009 filed")
	if !ok || got != "ZMA-25-0009" {
		t.Errorf("got %q ok=%v, want ZMA-25-0009", got, ok)
	}

	if _, ok := extract.ReferenceNumber("no reference here"); ok {
		t.Error("expected absent reference number")
	}
}

func TestParcelIDPrimary(t *testing.T) {
	got, ok := extract.ParcelID("Parcel ID: 19-25-30-00U0-0050-0000 Legal Description: Lot 1")
	if !ok || got != "19-25-30-00U0-0050-0000" {
		t.Errorf("got %q ok=%v", got, ok)
	}

	got, ok = extract.ParcelID("Parcel IDs: 19-25-30-0001, 19-25-30-0002")
	if !ok || got != "19-25-30-0001, 19-25-30-0002" {
		t.Errorf("got %q ok=%v", got, ok)
	}
}

func TestParcelIDFallback(t *testing.T) {
	text := "Parcel 1: 19-25-30-0001 Together with Parcel 2: 19-25-30-0002"
	got, ok := extract.ParcelID(text)
	if !ok || got != "19-25-30-0001 and 19-25-30-0002" {
		t.Errorf("got %q ok=%v", got, ok)
	}

	if _, ok := extract.ParcelID("no parcels mentioned"); ok {
		t.Error("expected absent parcel ID")
	}
}

func TestSplitParcelIDs(t *testing.T) {
	got := extract.SplitParcelIDs("19-25-30-0001 and 19-25-30-0002, 19-25-30-0003")
	want := []string{"19-25-30-0001", "19-25-30-0002", "19-25-30-0003"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := extract.SplitParcelIDs(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestParcelSearchValue(t *testing.T) {
	if got := extract.ParcelSearchValue("19-25-30 00U0"); got != "19253000U0" {
		t.Errorf("got %q", got)
	}
}

func TestAmendmentType(t *testing.T) {
	cases := []struct {
		ref  string
		code string
		ok   bool
	}{
		{"ZMA-25-0009", "ZMA", true},
		{"lupa-24-0001", "LUPA", true},
		{"VAR-25-0100", "VAR", true},
		{"CUP-25-0002", "CUP", true},
		{"SPR-25-0017", "SPR", true},
		{"ORD-25-0001", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, ok := extract.AmendmentType(c.ref)
		if ok != c.ok {
			t.Errorf("AmendmentType(%q) ok = %v, want %v", c.ref, ok, c.ok)
			continue
		}
		if ok && got.Code != c.code {
			t.Errorf("AmendmentType(%q) = %s, want %s", c.ref, got.Code, c.code)
		}
	}
}

func TestAmendmentTypePriority(t *testing.T) {
	// Earlier codes in the checking order win when several match.
	got, ok := extract.AmendmentType("ZMA-PUD-25-0001")
	if !ok || got.Code != "ZMA" {
		t.Errorf("expected ZMA before PUD, got %v", got)
	}

	got, ok = extract.AmendmentType("PUD-VAR-25-0002")
	if !ok || got.Code != "PUD" {
		t.Errorf("expected PUD before VAR, got %v", got)
	}
}

func TestMeetingBody(t *testing.T) {
	cases := []struct {
		text string
		key  string
		name string
	}{
		{"NOTICE the Kissimmee Planning Advisory Board will conduct", "pab", "Planning Advisory Board"},
		{"final hearing before the City Commission on Tuesday", "commission", "City Commission"},
		{"submitted to the Development Review Committee", "drc", "Development Review Committee"},
		{"fine levied by the Code Enforcement Board", "code-enforcement", "Code Enforcement Board"},
		{"unrelated legal notice text", "other", "Other Notices"},
		{"", "other", "Other Notices"},
	}

	for _, c := range cases {
		key, name := extract.MeetingBody(c.text)
		if key != c.key || name != c.name {
			t.Errorf("MeetingBody(%q) = (%s, %s), want (%s, %s)", c.text, key, name, c.key, c.name)
		}
	}
}
