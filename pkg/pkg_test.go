package pkg

import (
	"os"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("expected Version %q, got %q", content, Version)
	}

	if strings.ContainsAny(Version, " \n") {
		t.Errorf("Version should be trimmed, got %q", Version)
	}
}

func TestIdentity(t *testing.T) {
	if Name != "bv" {
		t.Errorf("unexpected Name %q", Name)
	}

	if !strings.HasPrefix(Extension, ".") || Extension[1:] != Name {
		t.Errorf("unexpected Extension %q", Extension)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}
