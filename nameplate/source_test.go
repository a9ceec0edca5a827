package nameplate

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadNames(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"Alice\nBob\nCarol\n", []string{"Alice", "Bob", "Carol"}},
		{"  Alice  \n\tBob\n", []string{"Alice", "Bob"}},
		{"Alice\n\n\nBob\n", []string{"Alice", "Bob"}},
		{"Alice\r\nBob\r\n", []string{"Alice", "Bob"}},
		{"", nil},
		{"\n   \n\t\n", nil},
		{"Иванов Иван Иванович\nA", []string{"Иванов Иван Иванович", "A"}},
	}
	for _, tc := range cases {
		got, err := ReadNames(strings.NewReader(tc.input))
		if err != nil {
			t.Fatalf("ReadNames(%q): %v", tc.input, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ReadNames(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestScanNamesOrder(t *testing.T) {
	var got []string
	err := ScanNames(strings.NewReader("  Alice \n\nBob\nCarol\n"), func(name string) error {
		got = append(got, name)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanNames: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Alice", "Bob", "Carol"}) {
		t.Errorf("got %v", got)
	}
}

func TestScanNamesStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	var seen int
	err := ScanNames(strings.NewReader("A\nB\nC\n"), func(string) error {
		seen++
		if seen == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v, want the callback error", err)
	}
	if seen != 2 {
		t.Errorf("callback ran %d times, want 2", seen)
	}
}

func TestReadNamesTrailingBlankLinesIdempotent(t *testing.T) {
	base := "Alice\nBob"
	a, _ := ReadNames(strings.NewReader(base))
	b, _ := ReadNames(strings.NewReader(base + "\n\n   \n"))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("trailing blank lines changed result: %v vs %v", a, b)
	}
}

func TestReadNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	if err := os.WriteFile(path, []byte("Alice\nBob\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadNamesFile(path)
	if err != nil {
		t.Fatalf("ReadNamesFile: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Alice", "Bob"}) {
		t.Errorf("got %v", got)
	}
}

func TestReadNamesFileMissing(t *testing.T) {
	_, err := ReadNamesFile(filepath.Join(t.TempDir(), "missing.txt"))
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected *InputError, got %T: %v", err, err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("wrapped cause lost")
	}
}
