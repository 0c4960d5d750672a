package modal

import (
	"strings"
	"testing"
)

func TestRender_Hidden(t *testing.T) {
	got := Render(Props{Visible: false, Title: "Add Feed", Width: 80, Height: 24})
	if got != "" {
		t.Errorf("Hidden modal should render nothing, got %q", got)
	}
}

func TestRender_TitleAndBody(t *testing.T) {
	got := Render(Props{
		Visible: true,
		Kind:    AddFeed,
		Title:   "Add Feed",
		Body:    "URL: https://example.com/rss",
		Width:   80,
		Height:  24,
	})

	if !strings.Contains(got, "Add Feed") {
		t.Error("Missing modal title")
	}
	if !strings.Contains(got, "example.com") {
		t.Error("Missing modal body")
	}
	if strings.Contains(got, "Error") {
		t.Error("Unexpected error section")
	}
}

func TestRender_Error(t *testing.T) {
	got := Render(Props{
		Visible: true,
		Kind:    AddFeed,
		Title:   "Add Feed",
		Body:    "URL:",
		Error:   "This feed source already exists",
		Width:   80,
		Height:  24,
	})

	if !strings.Contains(got, "This feed source already exists") {
		t.Errorf("Expected error text in modal, got %q", got)
	}
}
