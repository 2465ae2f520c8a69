package schedule

import "testing"

func TestParseTokensNormalizes(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"  ", ""},
		{"ab", "AB"},
		{"AB, CD", "AB, CD"},
		{"cd ab", "AB, CD"},
		{"AB,,  cd,AB", "AB, CD"},
		{"zz, aa,mm", "AA, MM, ZZ"},
	}

	for _, tc := range cases {
		if got := JoinTokens(ParseTokens(tc.raw)); got != tc.want {
			t.Fatalf("ParseTokens(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestAddTokenIdempotent(t *testing.T) {
	value, modified := AddToken("", "js")
	if !modified || value != "JS" {
		t.Fatalf("first add = (%q, %v)", value, modified)
	}

	value, modified = AddToken(value, "JS")
	if modified {
		t.Fatalf("second add reported a change, value %q", value)
	}
	if value != "JS" {
		t.Fatalf("value after repeat add = %q", value)
	}
}

func TestAddTokenMergesAlphabetically(t *testing.T) {
	value, modified := AddToken("MK, AB", "JS")
	if !modified {
		t.Fatalf("expected modification")
	}
	if value != "AB, JS, MK" {
		t.Fatalf("value = %q, want %q", value, "AB, JS, MK")
	}
}

func TestRemoveTokenIdempotent(t *testing.T) {
	value, modified := RemoveToken("AB, JS, MK", "js")
	if !modified || value != "AB, MK" {
		t.Fatalf("remove = (%q, %v)", value, modified)
	}

	value, modified = RemoveToken(value, "JS")
	if modified {
		t.Fatalf("second remove reported a change, value %q", value)
	}
}

func TestHasTokenIsCaseInsensitive(t *testing.T) {
	if !HasToken("AB, JS", "js") {
		t.Fatalf("expected JS to be present")
	}
	if HasToken("AB, JS", "MK") {
		t.Fatalf("did not expect MK")
	}
	// Substring of a token must not count as membership.
	if HasToken("ABC", "AB") {
		t.Fatalf("AB is not a member of ABC")
	}
}

func TestTokenCount(t *testing.T) {
	if got := TokenCount("ab cd, ef,ab"); got != 3 {
		t.Fatalf("TokenCount = %d, want 3", got)
	}
	if got := TokenCount("   "); got != 0 {
		t.Fatalf("TokenCount of blank = %d", got)
	}
}
