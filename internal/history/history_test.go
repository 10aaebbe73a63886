package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestAppendWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	if err := l.Append("Tech Solutions Pvt Ltd", true, 100, false); err != nil {
		t.Fatal(err)
	}
	if err := l.Append("XYZ Bank Pvt Ltd", false, 40, true); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		entries = append(entries, e)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "Tech Solutions Pvt Ltd" || !entries[0].Available {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Score != 40 || !entries[1].Degraded {
		t.Errorf("second entry = %+v", entries[1])
	}
	if entries[0].CheckID == "" || entries[0].CheckID == entries[1].CheckID {
		t.Error("entries must carry distinct check ids")
	}
	if entries[0].CheckedAt.IsZero() {
		t.Error("entry missing timestamp")
	}
}

func TestOpenAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Append("first", true, 100, false); err != nil {
		t.Fatal(err)
	}
	l.Close()

	l, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Append("second", true, 100, false); err != nil {
		t.Fatal(err)
	}
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("expected 2 lines after reopen, got %d", lines)
	}
}
