package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Metric", "Value"}
	rows := [][]string{
		{"WPM", "18"},
		{"Accuracy", "100%"},
	}

	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Metric   Value" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "WPM         18" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Accuracy  100%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableShortRowsPad(t *testing.T) {
	lines := formatTable(nil, [][]string{{"a", "b"}, {"ccc"}}, nil)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "a   b" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "ccc  " {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil lines, got %v", lines)
	}
}
