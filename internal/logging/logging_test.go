package logging

import "testing"

func TestInitAcceptsEveryAllowedLevel(t *testing.T) {
	for _, lvl := range AllowedLevels() {
		if _, err := Init(lvl, "logfmt"); err != nil {
			t.Errorf("Init(%q, logfmt) = %v, want nil", lvl, err)
		}
	}
}

func TestInitAcceptsBothFormats(t *testing.T) {
	for _, format := range []string{"", "logfmt", "json"} {
		if _, err := Init("info", format); err != nil {
			t.Errorf("Init(info, %q) = %v, want nil", format, err)
		}
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if _, err := Init("chatty", "logfmt"); err == nil {
		t.Fatal("Init succeeded, want error for unknown level")
	}
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	if _, err := Init("info", "xml"); err == nil {
		t.Fatal("Init succeeded, want error for unknown format")
	}
}
