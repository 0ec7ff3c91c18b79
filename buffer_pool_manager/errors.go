package buffer_pool_manager

import (
	"errors"
	"fmt"
)

// ErrBufferExceeded is returned when every frame in the buffer pool is pinned
// and no victim can be found.
var ErrBufferExceeded = errors.New("buffer pool exceeded: no unpinned frame available for eviction")

// PageNotPinnedError is returned by UnpinPage when the page's pin count is
// already zero.
type PageNotPinnedError struct {
	Filename string
	PageNo   PageID
	FrameID  FrameID
}

func (e *PageNotPinnedError) Error() string {
	return fmt.Sprintf("page %d of file %s in frame %d is not pinned", e.PageNo, e.Filename, e.FrameID)
}

// PagePinnedError is returned by FlushFile when a frame of the file still has
// a pin count greater than zero.
type PagePinnedError struct {
	Filename string
	PageNo   PageID
	FrameID  FrameID
}

func (e *PagePinnedError) Error() string {
	return fmt.Sprintf("page %d of file %s is pinned in frame %d", e.PageNo, e.Filename, e.FrameID)
}

// BadBufferError is returned by FlushFile when a frame owned by the file is
// not valid. Given the frame table invariants this should be unreachable.
type BadBufferError struct {
	FrameID FrameID
	Dirty   bool
	Valid   bool
	RefBit  bool
}

func (e *BadBufferError) Error() string {
	return fmt.Sprintf("bad buffer frame %d: dirty=%t valid=%t refBit=%t", e.FrameID, e.Dirty, e.Valid, e.RefBit)
}
