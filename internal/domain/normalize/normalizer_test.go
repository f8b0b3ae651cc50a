package normalize

import "testing"

func TestNormalize_Default(t *testing.T) {
	n := Default()
	tests := []struct {
		in, want string
	}{
		{"MN 1", "MN 1"},
		{"MN\u20091", "MN 1"},
		{"MN\u00a01", "MN 1"},
		{"  MN \u2009 1 ", "MN 1"},
		{"SN 12.3", "SN 12.3"},
		{"\t\n", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := n.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_CustomReplacement(t *testing.T) {
	n := New(Config{
		Replacements: []Replacement{{From: "\u2009", To: " "}},
		Form:         FormNone,
	})
	if got := n.Normalize("MN\u20091"); got != "MN 1" {
		t.Errorf("expected thin space substitution, got %q", got)
	}
}

func TestNormalize_FormNoneKeepsCompatibilityChars(t *testing.T) {
	n := New(Config{Form: FormNone, Trim: true})
	if got := n.Normalize(" \uff2d\uff2e1 "); got != "\uff2d\uff2e1" {
		t.Errorf("expected full-width chars kept, got %q", got)
	}

	k := New(Config{Form: FormNFKC})
	if got := k.Normalize("\uff2d\uff2e1"); got != "MN1" {
		t.Errorf("expected NFKC to fold full-width chars, got %q", got)
	}
}

func TestNormalize_TrimWithoutCollapse(t *testing.T) {
	n := New(Config{Form: FormNone, Trim: true})
	if got := n.Normalize("  a  b  "); got != "a  b" {
		t.Errorf("got %q", got)
	}
}

func TestNormalize_NilAndZero(t *testing.T) {
	var n *Normalizer
	if got := n.Normalize(" x "); got != " x " {
		t.Errorf("nil normalizer should be identity, got %q", got)
	}
	var z Normalizer
	if got := z.Normalize(" x "); got != " x " {
		t.Errorf("zero normalizer should be identity, got %q", got)
	}
}

func TestParseForm(t *testing.T) {
	tests := []struct {
		in      string
		want    Form
		wantErr bool
	}{
		{"", FormNFKC, false},
		{"nfkc", FormNFKC, false},
		{"NFC", FormNFC, false},
		{"none", FormNone, false},
		{"NFD", "", true},
	}
	for _, tc := range tests {
		got, err := ParseForm(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseForm(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseForm(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
