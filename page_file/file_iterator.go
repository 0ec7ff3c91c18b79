package page_file

// FileIterator walks the allocated pages of a file in page number order,
// skipping deallocated pages.
type FileIterator struct {
	file       *File
	nextPageNo PageID
}

// Iterator returns an iterator positioned before the first allocated page.
func (file *File) Iterator() *FileIterator {
	return &FileIterator{file: file, nextPageNo: HEADER_PAGE_NO + 1}
}

// NextPage returns the next allocated page, or (nil, nil) once the file is
// exhausted.
func (iterator *FileIterator) NextPage() (*Page, error) {

	for iterator.nextPageNo <= iterator.file.maxAllocatedPageNo {

		pageNo := iterator.nextPageNo
		iterator.nextPageNo++

		if !iterator.file.allocated(pageNo) {
			continue
		}

		return iterator.file.ReadPage(pageNo)
	}

	return nil, nil
}
