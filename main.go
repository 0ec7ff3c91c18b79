package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Adarsh-Kmt/GriffinDB/buffer_pool_manager"
	"github.com/Adarsh-Kmt/GriffinDB/page_file"
)

// smoke test for the buffer pool: allocate pages through the pool, write a
// record on each, force them through a flush, and read everything back.
func main() {

	file, err := page_file.NewFile("griffin.db")

	if err != nil {
		slog.Error("failed to open page file", "error", err.Error())
		os.Exit(1)
	}
	defer file.Close()

	pool := buffer_pool_manager.NewBufferPoolManager(10)
	defer pool.Close()

	recordIds := make([]page_file.RecordID, 0, 25)

	for i := 0; i < 25; i++ {

		pageNo, page, err := pool.AllocPage(file)

		if err != nil {
			slog.Error("failed to allocate page", "error", err.Error())
			os.Exit(1)
		}

		recordId, err := page.InsertRecord([]byte(fmt.Sprintf("griffin.db Page %d", pageNo)))

		if err != nil {
			slog.Error("failed to insert record", "pageNo", pageNo, "error", err.Error())
			os.Exit(1)
		}

		recordIds = append(recordIds, recordId)

		if err := pool.UnpinPage(file, pageNo, true); err != nil {
			slog.Error("failed to unpin page", "pageNo", pageNo, "error", err.Error())
			os.Exit(1)
		}
	}

	if err := pool.FlushFile(file); err != nil {
		slog.Error("failed to flush file", "error", err.Error())
		os.Exit(1)
	}

	for _, recordId := range recordIds {

		page, err := pool.ReadPage(file, recordId.PageNo)

		if err != nil {
			slog.Error("failed to read page", "pageNo", recordId.PageNo, "error", err.Error())
			os.Exit(1)
		}

		record, err := page.GetRecord(recordId)

		if err != nil {
			slog.Error("failed to read record", "pageNo", recordId.PageNo, "error", err.Error())
			os.Exit(1)
		}

		fmt.Printf("page %d => %s\n", recordId.PageNo, record)

		if err := pool.UnpinPage(file, recordId.PageNo, false); err != nil {
			slog.Error("failed to unpin page", "pageNo", recordId.PageNo, "error", err.Error())
			os.Exit(1)
		}
	}

	pool.PrintSelf()
}
