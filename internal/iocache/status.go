package iocache

import (
	"fmt"
	"io"

	"github.com/huangsam/ebb/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) error {
	if _, err := fmt.Fprintf(w, "Store Backend: %s\nConnected: %t\n", status.Backend, status.Connected); err != nil {
		return err
	}
	if !status.Connected {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries); err != nil {
		return err
	}
	if status.TotalEntries > 0 {
		if _, err := fmt.Fprintf(w, "Last Entry: %s\nOldest Entry: %s\n",
			status.LastEntryTime.Format("2006-01-02 15:04:05"),
			status.OldestEntryTime.Format("2006-01-02 15:04:05")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
	return err
}
