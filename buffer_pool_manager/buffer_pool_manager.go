package buffer_pool_manager

import (
	"fmt"
	"log/slog"

	"github.com/Adarsh-Kmt/GriffinDB/page_file"
)

// BufferPoolManager caches a fixed number of pages drawn from any number of
// page files. It guarantees at most one resident copy per (file, page) pair,
// never evicts a pinned page, and writes dirty pages back before their frames
// are reused or their files flushed.
//
// All operations execute serially on one goroutine; the only waits are
// synchronous disk I/O through the File handles.
type BufferPoolManager struct {
	numFrames int

	frames []frameDescriptor
	slots  []page_file.Page

	pageTable *pageTable
	replacer  *clockReplacer
}

// NewBufferPoolManager creates a pool of numFrames frames. All memory is
// allocated up front and reused for the lifetime of the pool.
func NewBufferPoolManager(numFrames int) *BufferPoolManager {

	frames := make([]frameDescriptor, numFrames)

	for i := range frames {
		frames[i].frameId = FrameID(i)
	}

	return &BufferPoolManager{
		numFrames: numFrames,
		frames:    frames,
		slots:     make([]page_file.Page, numFrames),
		pageTable: newPageTable(numFrames),
		replacer:  newClockReplacer(frames),
	}
}

// allocateFrame hands out a cleared frame, evicting the victim's current page
// if it holds one. Dirty victims are written back before the frame is cleared.
func (pool *BufferPoolManager) allocateFrame() (FrameID, error) {

	frameId, err := pool.replacer.victim()

	if err != nil {
		return 0, err
	}

	desc := &pool.frames[frameId]

	if desc.valid {

		if desc.dirty {
			if err := desc.file.WritePage(&pool.slots[frameId]); err != nil {
				return 0, err
			}
		}

		if err := pool.pageTable.remove(desc.file, desc.pageNo); err != nil {
			return 0, err
		}

		desc.clear()
	}

	return frameId, nil
}

// ReadPage returns the requested page, pinned. On a hit the resident copy is
// returned; on a miss the page is read from disk into a freshly allocated
// frame. The returned reference stays usable until the matching UnpinPage.
func (pool *BufferPoolManager) ReadPage(file File, pageNo PageID) (*page_file.Page, error) {

	if frameId, ok := pool.pageTable.lookup(file, pageNo); ok {

		desc := &pool.frames[frameId]
		desc.pinCount++
		desc.refBit = true

		return &pool.slots[frameId], nil
	}

	frameId, err := pool.allocateFrame()

	if err != nil {
		return nil, err
	}

	// the frame is still cleared if the read fails, so no rollback is needed.
	page, err := file.ReadPage(pageNo)

	if err != nil {
		return nil, err
	}

	pool.slots[frameId] = *page

	if err := pool.pageTable.insert(file, pageNo, frameId); err != nil {
		return nil, err
	}

	pool.frames[frameId].set(file, pageNo)

	return &pool.slots[frameId], nil
}

// AllocPage allocates a new empty page in the file and brings it into the
// pool, pinned.
func (pool *BufferPoolManager) AllocPage(file File) (PageID, *page_file.Page, error) {

	newPage, err := file.AllocatePage()

	if err != nil {
		return 0, nil, err
	}

	pageNo := newPage.PageNumber()

	frameId, err := pool.allocateFrame()

	if err != nil {
		return 0, nil, err
	}

	// re-reading keeps one load path: AllocatePage has made pageNo a valid,
	// empty page.
	page, err := file.ReadPage(pageNo)

	if err != nil {
		return 0, nil, err
	}

	pool.slots[frameId] = *page

	if err := pool.pageTable.insert(file, pageNo, frameId); err != nil {
		return 0, nil, err
	}

	pool.frames[frameId].set(file, pageNo)

	return pageNo, &pool.slots[frameId], nil
}

// UnpinPage releases one pin on the page. A page that is not resident is
// ignored. dirty marks the page as modified; the dirty bit is never cleared
// by unpinning.
func (pool *BufferPoolManager) UnpinPage(file File, pageNo PageID, dirty bool) error {

	frameId, ok := pool.pageTable.lookup(file, pageNo)

	if !ok {
		return nil
	}

	desc := &pool.frames[frameId]

	if desc.pinCount == 0 {
		return &PageNotPinnedError{Filename: file.Filename(), PageNo: pageNo, FrameID: frameId}
	}

	desc.pinCount--

	if dirty {
		desc.dirty = true
	}

	return nil
}

// FlushFile writes every dirty resident page of the file back to disk and
// releases all of the file's frames.
//
// The whole frame table is checked before anything is written: if any frame
// of the file is pinned or invalid, FlushFile fails without partial work.
func (pool *BufferPoolManager) FlushFile(file File) error {

	for i := range pool.frames {

		desc := &pool.frames[i]

		if desc.file != file {
			continue
		}

		if !desc.valid {
			return &BadBufferError{FrameID: desc.frameId, Dirty: desc.dirty, Valid: desc.valid, RefBit: desc.refBit}
		}

		if desc.pinCount > 0 {
			return &PagePinnedError{Filename: file.Filename(), PageNo: desc.pageNo, FrameID: desc.frameId}
		}
	}

	for i := range pool.frames {

		desc := &pool.frames[i]

		if desc.file != file {
			continue
		}

		if desc.dirty {
			if err := file.WritePage(&pool.slots[i]); err != nil {
				return err
			}
			desc.dirty = false
		}

		if err := pool.pageTable.remove(file, desc.pageNo); err != nil {
			return err
		}

		desc.clear()
	}

	return nil
}

// DisposePage removes the page from the pool if resident, then deletes it
// from the file. The page is being destroyed, so it is never written back.
func (pool *BufferPoolManager) DisposePage(file File, pageNo PageID) error {

	if frameId, ok := pool.pageTable.lookup(file, pageNo); ok {

		pool.frames[frameId].clear()

		if err := pool.pageTable.remove(file, pageNo); err != nil {
			return err
		}
	}

	return file.DeletePage(pageNo)
}

// Close writes every dirty resident page back to disk and empties the pool.
//
// Pages still pinned at close indicate a caller bug. They are written back
// anyway so no modification is lost; FlushFile cannot be used here because it
// refuses pinned frames.
func (pool *BufferPoolManager) Close() error {

	pinned := 0

	for i := range pool.frames {

		desc := &pool.frames[i]

		if !desc.valid {
			continue
		}

		if desc.pinCount > 0 {
			pinned++
		}

		if desc.dirty {
			if err := desc.file.WritePage(&pool.slots[i]); err != nil {
				return err
			}
			desc.dirty = false
		}

		if err := pool.pageTable.remove(desc.file, desc.pageNo); err != nil {
			return err
		}

		desc.clear()
	}

	if pinned > 0 {
		slog.Warn("buffer pool closed with pinned pages", "pinnedFrames", pinned)
	}

	return nil
}

// PrintSelf dumps the state of every frame, for debugging.
func (pool *BufferPoolManager) PrintSelf() {

	validFrames := 0

	for i := range pool.frames {

		desc := &pool.frames[i]

		if !desc.valid {
			fmt.Printf("frame %d: empty\n", desc.frameId)
			continue
		}

		validFrames++

		fmt.Printf("frame %d: file=%s pageNo=%d pinCount=%d dirty=%t refBit=%t\n",
			desc.frameId, desc.file.Filename(), desc.pageNo, desc.pinCount, desc.dirty, desc.refBit)
	}

	fmt.Printf("total valid frames: %d\n", validFrames)
}
