package nameplate

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// ScanNames streams one name per input line, trimmed of surrounding
// whitespace. Lines that are empty after trimming are skipped; fn is called
// once per name in input order and its error stops the scan.
func ScanNames(r io.Reader, fn func(name string) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		if err := fn(name); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ReadNames collects the streamed names into a slice.
func ReadNames(r io.Reader) ([]string, error) {
	var names []string
	if err := ScanNames(r, func(name string) error {
		names = append(names, name)
		return nil
	}); err != nil {
		return nil, err
	}
	return names, nil
}

// ReadNamesFile reads names from a file; failures are *InputError.
func ReadNamesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer f.Close()

	names, err := ReadNames(f)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	return names, nil
}
