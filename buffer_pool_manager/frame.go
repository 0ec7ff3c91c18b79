package buffer_pool_manager

import (
	"github.com/Adarsh-Kmt/GriffinDB/page_file"
)

type FrameID int

type PageID = page_file.PageID

// File is the contract the buffer pool requires from a backing page store.
//
// File values are compared by handle identity: two handles open on the same
// path are distinct owners in the frame table and the page table.
type File interface {
	AllocatePage() (*page_file.Page, error)
	ReadPage(pageNo PageID) (*page_file.Page, error)
	WritePage(page *page_file.Page) error
	DeletePage(pageNo PageID) error
	Filename() string
}

// frameDescriptor carries the bookkeeping state of one buffer frame.
type frameDescriptor struct {
	frameId FrameID

	// whether the frame currently holds a page. file and pageNo are
	// meaningful only while valid is set.
	valid  bool
	file   File
	pageNo PageID

	pinCount int
	dirty    bool

	// second-chance bit for the clock sweep, set on every access.
	refBit bool
}

// set initializes the descriptor for a newly loaded page, pinned once.
func (desc *frameDescriptor) set(file File, pageNo PageID) {
	desc.valid = true
	desc.file = file
	desc.pageNo = pageNo
	desc.pinCount = 1
	desc.dirty = false
	desc.refBit = true
}

// clear returns the descriptor to the empty state.
func (desc *frameDescriptor) clear() {
	desc.valid = false
	desc.file = nil
	desc.pageNo = 0
	desc.pinCount = 0
	desc.dirty = false
	desc.refBit = false
}
