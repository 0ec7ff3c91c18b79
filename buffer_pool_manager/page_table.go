package buffer_pool_manager

import (
	"fmt"
)

// fnv-1a constants.
const (
	fnvOffset64 = uint64(14695981039346656037)
	fnvPrime64  = uint64(1099511628211)
)

// pageTable maps (file handle, page number) to the frame holding the page.
//
// It is a chained hash table sized to the first odd integer no smaller than
// 1.2x the number of frames. The table never resizes: residency is bounded
// by the frame count.
type pageTable struct {
	buckets []*pageTableEntry
	entries int
}

type pageTableEntry struct {
	file    File
	pageNo  PageID
	frameId FrameID

	next *pageTableEntry
}

func newPageTable(numFrames int) *pageTable {

	size := (numFrames*12 + 9) / 10
	if size%2 == 0 {
		size++
	}

	return &pageTable{
		buckets: make([]*pageTableEntry, size),
	}
}

// hash distributes entries by the file's name and the page number. Handles
// sharing a path land in the same bucket but remain distinct entries.
func (table *pageTable) hash(file File, pageNo PageID) int {

	h := fnvOffset64

	for _, b := range []byte(file.Filename()) {
		h ^= uint64(b)
		h *= fnvPrime64
	}

	for i := 0; i < 8; i++ {
		h ^= uint64(pageNo >> (8 * i) & 0xFF)
		h *= fnvPrime64
	}

	return int(h % uint64(len(table.buckets)))
}

// lookup returns the frame holding the page, or false if the page is not resident.
func (table *pageTable) lookup(file File, pageNo PageID) (FrameID, bool) {

	for entry := table.buckets[table.hash(file, pageNo)]; entry != nil; entry = entry.next {
		if entry.file == file && entry.pageNo == pageNo {
			return entry.frameId, true
		}
	}

	return 0, false
}

// insert registers a resident page. Inserting a key that is already present
// is a programming error.
func (table *pageTable) insert(file File, pageNo PageID, frameId FrameID) error {

	bucket := table.hash(file, pageNo)

	for entry := table.buckets[bucket]; entry != nil; entry = entry.next {
		if entry.file == file && entry.pageNo == pageNo {
			return fmt.Errorf("page table entry for page %d of file %s already exists in frame %d", pageNo, file.Filename(), entry.frameId)
		}
	}

	table.buckets[bucket] = &pageTableEntry{
		file:    file,
		pageNo:  pageNo,
		frameId: frameId,
		next:    table.buckets[bucket],
	}

	table.entries++

	return nil
}

// remove unregisters a resident page. Removing a key that is not present is a
// programming error.
func (table *pageTable) remove(file File, pageNo PageID) error {

	bucket := table.hash(file, pageNo)

	for entryPointer := &table.buckets[bucket]; *entryPointer != nil; entryPointer = &(*entryPointer).next {

		if entry := *entryPointer; entry.file == file && entry.pageNo == pageNo {
			*entryPointer = entry.next
			table.entries--
			return nil
		}
	}

	return fmt.Errorf("page table entry for page %d of file %s not found", pageNo, file.Filename())
}

// size returns the number of resident pages.
func (table *pageTable) size() int {
	return table.entries
}
