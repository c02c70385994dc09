package csv

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"clickstream-insights/internal/events/core/domain"
)

var preparedHeader = []string{
	"event_time", "event_type", "product_id", "category_id", "category_code",
	"brand", "price", "user_id", "user_session", "price_tier", "main_category",
}

// Writer emits events in the prepared layout NewReader understands.
type Writer struct {
	w     *csv.Writer
	wrote bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

func (w *Writer) Write(e domain.Event) error {
	if !w.wrote {
		if err := w.w.Write(preparedHeader); err != nil {
			return err
		}
		w.wrote = true
	}
	return w.w.Write([]string{
		e.EventTime.UTC().Format(time.RFC3339),
		e.EventType,
		e.ProductID,
		e.CategoryID,
		e.CategoryCode,
		e.Brand,
		strconv.FormatFloat(e.Price, 'f', -1, 64),
		e.UserID,
		e.SessionKey,
		e.PriceTier,
		e.Category,
	})
}

// Flush writes the header even when no event was written.
func (w *Writer) Flush() error {
	if !w.wrote {
		if err := w.w.Write(preparedHeader); err != nil {
			return err
		}
		w.wrote = true
	}
	w.w.Flush()
	return w.w.Error()
}
