package holiday

import (
	"fmt"
	"io"
)

// WriteText renders events one per line as "YYYY-MM-DD  Category    Title".
func WriteText(w io.Writer, events []Event) error {
	for _, ev := range events {
		if _, err := fmt.Fprintf(w, "%s  %-10s  %s\n", ev.DateString(), ev.Category, ev.Title); err != nil {
			return err
		}
	}
	return nil
}
