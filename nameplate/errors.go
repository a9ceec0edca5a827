package nameplate

import "fmt"

// The four error kinds are all fatal to a run. They wrap the underlying
// cause so callers can errors.As on the kind and still reach the root.

// InputError means the names file could not be opened or read.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string { return fmt.Sprintf("names file %s: %v", e.Path, e.Err) }
func (e *InputError) Unwrap() error { return e.Err }

// AssetError means the logo image or font file is missing or undecodable.
type AssetError struct {
	Kind string // "font" or "logo"
	Path string
	Err  error
}

func (e *AssetError) Error() string { return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err) }
func (e *AssetError) Unwrap() error { return e.Err }

// RenderError means page composition failed. No output file exists.
type RenderError struct {
	Name string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("render page for %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("render document: %v", e.Err)
}
func (e *RenderError) Unwrap() error { return e.Err }

// OutputError means the finished document could not be written to its
// destination. Raised only after in-memory rendering succeeded.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *OutputError) Unwrap() error { return e.Err }
