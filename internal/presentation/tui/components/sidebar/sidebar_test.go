package sidebar

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	got := Render(Props{
		View:   "FEEDS",
		Width:  30,
		Height: 20,
		Title:  "Feedra",
	})

	if !strings.Contains(got, "Feedra") {
		t.Error("Missing title")
	}
	if !strings.Contains(got, "FEEDS") {
		t.Error("Missing feed list")
	}
}

func TestRender_Collapsed(t *testing.T) {
	got := Render(Props{
		View:      "FEEDS",
		Width:     30,
		Height:    20,
		Title:     "Feedra",
		Collapsed: true,
	})

	if got != "" {
		t.Errorf("Collapsed sidebar should render nothing, got %q", got)
	}
}
