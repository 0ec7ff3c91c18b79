package page_file

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecord is returned when a record ID does not resolve to a
	// live record on the page, or when record contents are unusable.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInsufficientSpace is returned when a page has no room left for a record.
	ErrInsufficientSpace = errors.New("insufficient space on page")
)

// InvalidPageError is returned when a page number does not refer to an
// allocated page of the file.
type InvalidPageError struct {
	Filename string
	PageNo   PageID
}

func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("invalid page %d in file %s", e.PageNo, e.Filename)
}
