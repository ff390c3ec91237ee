package client

import (
	"errors"
	"testing"

	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/domain"
)

func TestEditCopiesCurrentFields(t *testing.T) {
	r := mirrored(domain.Task{
		ID:          "1",
		Title:       "title",
		Description: "desc",
		Priority:    domain.PriorityHigh,
		Category:    domain.CategoryBug,
	})

	buf, ok := r.Edit("1")
	if !ok {
		t.Fatal("expected buffer for known task")
	}
	if buf.Title != "title" || buf.Description != "desc" ||
		buf.Priority != domain.PriorityHigh || buf.Category != domain.CategoryBug {
		t.Fatalf("buffer did not copy task fields: %#v", buf)
	}
}

func TestEditUnknownTask(t *testing.T) {
	r := mirrored()
	if _, ok := r.Edit("missing"); ok {
		t.Fatal("expected no buffer for unknown task")
	}
}

func TestDraftDoesNotTouchMirror(t *testing.T) {
	r := mirrored(domain.Task{ID: "1", Title: "title"})

	buf, _ := r.Edit("1")
	buf.Title = "draft title"

	if got := r.Tasks()[0].Title; got != "title" {
		t.Fatalf("draft leaked into mirror: %q", got)
	}
}

func TestCancelDiscardsBuffer(t *testing.T) {
	r := mirrored(domain.Task{ID: "1", Title: "title"})

	buf, _ := r.Edit("1")
	buf.Title = "draft"
	buf.Cancel()

	if err := buf.Save(); !errors.Is(err, ErrBufferDiscarded) {
		t.Fatalf("expected ErrBufferDiscarded after cancel, got %v", err)
	}
	if got := r.Tasks()[0].Title; got != "title" {
		t.Fatalf("cancel changed mirror: %q", got)
	}
}
