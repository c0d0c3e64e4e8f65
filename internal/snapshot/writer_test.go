package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"feedsnap/internal/models"
)

func testSnapshot(title string) *models.Snapshot {
	return &models.Snapshot{
		Source:    "https://example.com/feed",
		FeedTitle: "Example Blog",
		FeedURL:   "https://example.com",
		UpdatedAt: "2024-05-01T10:00:00Z",
		Posts: []models.Post{
			{
				Title:      title,
				Subtitle:   "A subtitle",
				URL:        "https://example.com/p/first",
				Date:       "2024-04-30T08:00:00Z",
				CoverImage: "https://x/img.png",
			},
		},
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets", "substack.json")

	snap := testSnapshot("First post")
	if err := Write(path, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	if !strings.HasSuffix(string(data), "\n") {
		t.Fatalf("expected trailing newline")
	}

	if !strings.Contains(string(data), "\n  \"source\"") {
		t.Fatalf("expected 2-space indentation, got:\n%s", data)
	}

	var got models.Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if !reflect.DeepEqual(&got, snap) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, snap)
	}
}

func TestWriteEmitsAllPostKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "substack.json")

	snap := testSnapshot("First post")
	snap.Posts[0].Subtitle = ""
	snap.Posts[0].Date = ""
	snap.Posts[0].CoverImage = ""

	if err := Write(path, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	for _, key := range []string{`"title"`, `"subtitle"`, `"url"`, `"date"`, `"cover_image"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected key %s in output even when empty:\n%s", key, data)
		}
	}
}

func TestWriteReplacesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "substack.json")

	if err := Write(path, testSnapshot("Old post")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := Write(path, testSnapshot("New post")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	if !strings.Contains(string(data), "New post") || strings.Contains(string(data), "Old post") {
		t.Fatalf("expected snapshot to be fully replaced, got:\n%s", data)
	}
}

func TestWriteStagesThroughSiblingTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "substack.json")

	tmp := TempPath(path)
	if tmp == path {
		t.Fatalf("temp path must differ from destination")
	}

	if filepath.Dir(tmp) != dir {
		t.Fatalf("temp path must be a sibling of the destination, got %q", tmp)
	}

	if err := Write(path, testSnapshot("First post")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err: %v", err)
	}
}
