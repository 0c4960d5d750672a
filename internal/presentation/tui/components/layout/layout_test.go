package layout

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	got := Render(Props{
		Sidebar: "SIDEBAR",
		Main:    "MAIN",
		Footer:  "FOOTER",
	})

	if !strings.Contains(got, "SIDEBAR") {
		t.Error("Missing sidebar content")
	}
	if !strings.Contains(got, "MAIN") {
		t.Error("Missing main content")
	}
	if !strings.Contains(got, "FOOTER") {
		t.Error("Missing footer content")
	}
}

func TestRender_CollapsedSidebar(t *testing.T) {
	got := Render(Props{
		Sidebar: "",
		Main:    "MAIN",
		Footer:  "FOOTER",
	})

	if !strings.Contains(got, "MAIN") {
		t.Error("Missing main content")
	}
	// No sidebar means the main area starts at the left edge.
	firstLine := strings.SplitN(got, "\n", 2)[0]
	if !strings.HasPrefix(firstLine, "MAIN") {
		t.Errorf("Expected main content at left edge, got %q", firstLine)
	}
}
