package page_file

import (
	"encoding/binary"
	"fmt"
)

const (
	PAGE_SIZE = 4096

	// header field offsets
	numSlotsOffset       = 0
	freeSpaceBeginOffset = 2
	freeSpaceEndOffset   = 4

	headerSize = 6
	slotSize   = 4

	// record pointer value marking a deleted slot.
	deletedRecordPointer = uint16(0xFFFF)
)

type PageID uint64

// RecordID identifies a record stored on a page.
type RecordID struct {
	PageNo PageID
	Slot   uint16
}

// Page is a fixed-size unit of data transfer between a file and the buffer pool.
// Assigning a Page copies the full payload, so buffer frames and file layer
// never alias each other's bytes.
type Page struct {
	pageNo PageID
	data   [PAGE_SIZE]byte
}

// PageNumber returns the number of the page within its file.
func (page *Page) PageNumber() PageID {
	return page.pageNo
}

// Data returns the raw payload of the page.
func (page *Page) Data() []byte {
	return page.data[:]
}

func (page *Page) numSlots() uint16 {
	return binary.LittleEndian.Uint16(page.data[numSlotsOffset:])
}

func (page *Page) setNumSlots(numSlots uint16) {
	binary.LittleEndian.PutUint16(page.data[numSlotsOffset:], numSlots)
}

func (page *Page) freeSpaceBegin() uint16 {
	return binary.LittleEndian.Uint16(page.data[freeSpaceBeginOffset:])
}

func (page *Page) setFreeSpaceBegin(freeSpaceBegin uint16) {
	binary.LittleEndian.PutUint16(page.data[freeSpaceBeginOffset:], freeSpaceBegin)
}

func (page *Page) freeSpaceEnd() uint16 {
	return binary.LittleEndian.Uint16(page.data[freeSpaceEndOffset:])
}

func (page *Page) setFreeSpaceEnd(freeSpaceEnd uint16) {
	binary.LittleEndian.PutUint16(page.data[freeSpaceEndOffset:], freeSpaceEnd)
}

// a freshly allocated page is all zeroes, so the header is written lazily
// on the first insert.
func (page *Page) initializeHeader() {
	if page.freeSpaceEnd() == 0 {
		page.setNumSlots(0)
		page.setFreeSpaceBegin(headerSize)
		page.setFreeSpaceEnd(PAGE_SIZE)
	}
}

func (page *Page) slot(slotNo uint16) (recordPointer uint16, recordSize uint16) {

	offset := headerSize + int(slotNo)*slotSize

	recordPointer = binary.LittleEndian.Uint16(page.data[offset:])
	recordSize = binary.LittleEndian.Uint16(page.data[offset+2:])

	return recordPointer, recordSize
}

func (page *Page) setSlot(slotNo uint16, recordPointer uint16, recordSize uint16) {

	offset := headerSize + int(slotNo)*slotSize

	binary.LittleEndian.PutUint16(page.data[offset:], recordPointer)
	binary.LittleEndian.PutUint16(page.data[offset+2:], recordSize)
}

// InsertRecord stores a record on the page and returns its record ID.
// Deleted slots are reused before the slot directory is grown.
func (page *Page) InsertRecord(record []byte) (RecordID, error) {

	if len(record) == 0 || len(record) > PAGE_SIZE-headerSize-slotSize {
		return RecordID{}, ErrInvalidRecord
	}

	page.initializeHeader()

	// reuse a deleted slot if one exists.
	slotNo, reuse := uint16(0), false

	for i := uint16(0); i < page.numSlots(); i++ {
		if recordPointer, _ := page.slot(i); recordPointer == deletedRecordPointer {
			slotNo, reuse = i, true
			break
		}
	}

	required := len(record)
	if !reuse {
		required += slotSize
	}

	if int(page.freeSpaceEnd())-int(page.freeSpaceBegin()) < required {
		return RecordID{}, ErrInsufficientSpace
	}

	recordPointer := page.freeSpaceEnd() - uint16(len(record))
	copy(page.data[recordPointer:], record)
	page.setFreeSpaceEnd(recordPointer)

	if !reuse {
		slotNo = page.numSlots()
		page.setNumSlots(slotNo + 1)
		page.setFreeSpaceBegin(page.freeSpaceBegin() + slotSize)
	}

	page.setSlot(slotNo, recordPointer, uint16(len(record)))

	return RecordID{PageNo: page.pageNo, Slot: slotNo}, nil
}

// GetRecord returns a copy of the record identified by the record ID.
func (page *Page) GetRecord(recordId RecordID) ([]byte, error) {

	recordPointer, recordSize, err := page.validRecordSlot(recordId)

	if err != nil {
		return nil, err
	}

	record := make([]byte, recordSize)
	copy(record, page.data[recordPointer:recordPointer+recordSize])

	return record, nil
}

// UpdateRecord overwrites a record in place. The new contents must not be
// larger than the record being replaced.
func (page *Page) UpdateRecord(recordId RecordID, record []byte) error {

	recordPointer, recordSize, err := page.validRecordSlot(recordId)

	if err != nil {
		return err
	}

	if len(record) == 0 || len(record) > int(recordSize) {
		return ErrInvalidRecord
	}

	copy(page.data[recordPointer:], record)
	page.setSlot(recordId.Slot, recordPointer, uint16(len(record)))

	return nil
}

// DeleteRecord removes a record from the page. The slot becomes reusable,
// the record bytes are not compacted.
func (page *Page) DeleteRecord(recordId RecordID) error {

	if _, _, err := page.validRecordSlot(recordId); err != nil {
		return err
	}

	page.setSlot(recordId.Slot, deletedRecordPointer, 0)

	return nil
}

func (page *Page) validRecordSlot(recordId RecordID) (recordPointer uint16, recordSize uint16, err error) {

	if recordId.PageNo != page.pageNo {
		return 0, 0, fmt.Errorf("record %v does not belong to page %d: %w", recordId, page.pageNo, ErrInvalidRecord)
	}

	if recordId.Slot >= page.numSlots() {
		return 0, 0, ErrInvalidRecord
	}

	recordPointer, recordSize = page.slot(recordId.Slot)

	if recordPointer == deletedRecordPointer {
		return 0, 0, ErrInvalidRecord
	}

	return recordPointer, recordSize, nil
}
