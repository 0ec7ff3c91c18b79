package page_file

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ncw/directio"
)

const (
	// page 0 of every file holds the allocation header, data pages start at 1.
	HEADER_PAGE_NO = 0

	// the header page stores maxAllocatedPageNo, the freelist length,
	// and one 8 byte entry per deallocated page number.
	maxFreelistEntries = (PAGE_SIZE - 16) / 8
)

// File is a disk-resident store of fixed-size numbered pages.
//
// Each open File is a distinct handle: the buffer pool keys its cache on the
// handle, not on the underlying path.
type File struct {
	file *os.File
	path string

	// non-nil when the file was opened in direct I/O mode. Direct I/O
	// transfers must come from page-aligned memory, so reads and writes go
	// through this scratch block.
	alignedBlock []byte

	maxAllocatedPageNo PageID
	deallocatedPageNos []PageID
}

// NewFile opens the page file at the given path through the OS page cache,
// creating it with a fresh header page if it does not exist.
func NewFile(path string) (*File, error) {

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)

	if err != nil {
		return nil, err
	}

	return initializeFile(f, path, nil)
}

// NewDirectIOFile opens the page file bypassing the kernel page cache.
//
// Direct I/O prevents file data from being cached twice, once in the kernel
// page cache and once in buffer pool memory, and gives the database control
// over when data reaches disk.
func NewDirectIOFile(path string) (*File, error) {

	f, err := openFileDirectIO(path, os.O_RDWR|os.O_CREATE, 0644)

	if err != nil {
		return nil, err
	}

	return initializeFile(f, path, directio.AlignedBlock(PAGE_SIZE))
}

func initializeFile(f *os.File, path string, alignedBlock []byte) (*File, error) {

	file := &File{
		file:               f,
		path:               path,
		alignedBlock:       alignedBlock,
		deallocatedPageNos: make([]PageID, 0),
	}

	stat, err := f.Stat()

	if err != nil {
		f.Close()
		return nil, err
	}

	if stat.Size() == 0 {

		slog.Info("creating new page file", "path", path)

		if err := file.writeHeaderPage(); err != nil {
			f.Close()
			return nil, err
		}

		return file, nil
	}

	headerPageData := make([]byte, PAGE_SIZE)

	if err := file.read(HEADER_PAGE_NO*PAGE_SIZE, headerPageData); err != nil {
		f.Close()
		return nil, err
	}

	file.deserializeHeaderPage(headerPageData)

	return file, nil
}

// write writes data to a particular offset in the file.
func (file *File) write(offset int64, data []byte) error {

	buffer := data

	if file.alignedBlock != nil {
		copy(file.alignedBlock, data)
		buffer = file.alignedBlock[:len(data)]
	}

	n, err := file.file.WriteAt(buffer, offset)

	if err != nil {
		return err
	}

	if n != len(data) {
		return fmt.Errorf("incomplete write")
	}
	return nil
}

// read reads len(data) bytes starting from a particular offset in the file.
func (file *File) read(offset int64, data []byte) error {

	buffer := data

	if file.alignedBlock != nil {
		buffer = file.alignedBlock[:len(data)]
	}

	n, err := file.file.ReadAt(buffer, offset)

	if err != nil {
		return err
	}

	if n != len(data) {
		return fmt.Errorf("incomplete read")
	}

	if file.alignedBlock != nil {
		copy(data, buffer)
	}
	return nil
}

// AllocatePage allocates a new empty page and returns it.
// It reuses a deallocated page number if available, otherwise it extends the file.
func (file *File) AllocatePage() (*Page, error) {

	var pageNo PageID

	reused := false

	if len(file.deallocatedPageNos) > 0 {
		pageNo = file.deallocatedPageNos[0]
		file.deallocatedPageNos = file.deallocatedPageNos[1:]
		reused = true
	} else {
		pageNo = file.maxAllocatedPageNo + 1
		file.maxAllocatedPageNo++
	}

	page := &Page{pageNo: pageNo}

	if err := file.write(int64(pageNo)*PAGE_SIZE, page.data[:]); err != nil {

		if reused {
			file.deallocatedPageNos = append([]PageID{pageNo}, file.deallocatedPageNos...)
		} else {
			file.maxAllocatedPageNo--
		}
		return nil, err
	}

	return page, nil
}

// ReadPage reads an existing page from disk.
func (file *File) ReadPage(pageNo PageID) (*Page, error) {

	if !file.allocated(pageNo) {
		return nil, &InvalidPageError{Filename: file.path, PageNo: pageNo}
	}

	page := &Page{pageNo: pageNo}

	if err := file.read(int64(pageNo)*PAGE_SIZE, page.data[:]); err != nil {
		return nil, err
	}

	return page, nil
}

// WritePage writes the page's contents back to disk.
func (file *File) WritePage(page *Page) error {

	if !file.allocated(page.pageNo) {
		return &InvalidPageError{Filename: file.path, PageNo: page.pageNo}
	}

	return file.write(int64(page.pageNo)*PAGE_SIZE, page.data[:])
}

// DeletePage removes a page from the file, making its number available for
// future allocation.
func (file *File) DeletePage(pageNo PageID) error {

	if !file.allocated(pageNo) {
		return &InvalidPageError{Filename: file.path, PageNo: pageNo}
	}

	if len(file.deallocatedPageNos) == maxFreelistEntries {
		return errors.New("freelist is full")
	}

	file.deallocatedPageNos = append(file.deallocatedPageNos, pageNo)

	return nil
}

// Filename returns the path the file was opened with.
func (file *File) Filename() string {
	return file.path
}

// Close persists the allocation header and closes the underlying file.
func (file *File) Close() error {

	slog.Info("closing page file", "path", file.path)

	if err := file.writeHeaderPage(); err != nil {
		return err
	}

	return file.file.Close()
}

func (file *File) allocated(pageNo PageID) bool {

	if pageNo == HEADER_PAGE_NO || pageNo > file.maxAllocatedPageNo {
		return false
	}

	for _, deallocated := range file.deallocatedPageNos {
		if deallocated == pageNo {
			return false
		}
	}

	return true
}

func (file *File) writeHeaderPage() error {
	return file.write(HEADER_PAGE_NO*PAGE_SIZE, file.serializeHeaderPage())
}

// serializeHeaderPage encodes maxAllocatedPageNo and the deallocated page
// number list so the allocation state survives restarts.
func (file *File) serializeHeaderPage() []byte {

	data := make([]byte, PAGE_SIZE)

	pointer := 0
	binary.LittleEndian.PutUint64(data[pointer:pointer+8], uint64(file.maxAllocatedPageNo))
	pointer += 8

	binary.LittleEndian.PutUint64(data[pointer:pointer+8], uint64(len(file.deallocatedPageNos)))
	pointer += 8

	for _, pageNo := range file.deallocatedPageNos {
		binary.LittleEndian.PutUint64(data[pointer:pointer+8], uint64(pageNo))
		pointer += 8
	}
	return data
}

func (file *File) deserializeHeaderPage(data []byte) {

	pointer := 0
	file.maxAllocatedPageNo = PageID(binary.LittleEndian.Uint64(data[pointer : pointer+8]))
	pointer += 8

	freelistSize := binary.LittleEndian.Uint64(data[pointer : pointer+8])
	pointer += 8

	deallocatedPageNos := make([]PageID, 0, freelistSize)

	for i := 0; i < int(freelistSize); i++ {
		deallocatedPageNos = append(deallocatedPageNos, PageID(binary.LittleEndian.Uint64(data[pointer:pointer+8])))
		pointer += 8
	}

	file.deallocatedPageNos = deallocatedPageNos
}
