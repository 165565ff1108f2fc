package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/whaleen/warehouse-sub000/domain"
)

// ParseFeedCSV reads one batch's rows from a CSV source. The first row is a
// header; columns are matched by name so feed exports can reorder them. A
// read failure is recorded on the returned batch rather than returned as an
// error, so one unreadable source never aborts a whole import.
func ParseFeedCSV(batch domain.FeedBatch, source io.Reader) domain.FeedBatch {
	reader := csv.NewReader(source)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		batch.ReadErr = fmt.Errorf("read header: %w", err)
		return batch
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		index, ok := columns[name]
		if !ok || index >= len(row) {
			return ""
		}
		return row[index]
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			batch.ReadErr = fmt.Errorf("read row: %w", err)
			return batch
		}

		batch.Rows = append(batch.Rows, domain.FeedRow{
			OrderRef: field(row, "order_ref"),
			Model:    field(row, "model"),
			Serial:   field(row, "serial"),
			Quantity: field(row, "quantity"),
			Status:   field(row, "status"),
			Price:    field(row, "price"),
		})
	}
	return batch
}
