package cli

import (
	"strings"
	"testing"
)

// The binary under cmd/ is named authctl; the command tree must report
// the same name in its usage and help text.
func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "authctl" {
		t.Fatalf("Use = %q, want %q", rootCmd.Use, "authctl")
	}
	if !strings.HasPrefix(rootCmd.Long, "authctl ") {
		t.Fatalf("Long help does not lead with the command name: %q", rootCmd.Long)
	}
}
