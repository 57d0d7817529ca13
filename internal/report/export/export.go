// Package export turns flat report rows into spreadsheet and document
// downloads.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/benhvien-dev/baocao-backend/internal/report/models"
	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

var (
	// ErrHTMLPayload: nội dung lẽ ra là file nhị phân lại là trang HTML
	// (thường là trang báo lỗi của backend).
	ErrHTMLPayload = errors.New("payload is an HTML document, not a binary file")
	// ErrNoTemplate báo file mẫu không tồn tại hoặc rỗng.
	ErrNoTemplate = errors.New("template not found")
)

// ColumnKind selects per-column formatting.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumber
	KindDate
)

// Column maps an internal row key to a display header.
type Column struct {
	Key    string
	Header string
	Kind   ColumnKind
}

// Rows maps flat rows to header-keyed records in column order. The mapping
// is total: every declared column appears in every record, defaulting to ""
// when the source value is absent. Date columns are rendered for display.
func Rows(rows []models.FlatRow, cols []Column) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, r := range rows {
		rec := make(map[string]interface{}, len(cols))
		for _, c := range cols {
			v := r.Value(c.Key)
			if v == nil {
				rec[c.Header] = ""
				continue
			}
			if c.Kind == KindDate {
				if s, ok := v.(string); ok {
					v = utils.FormatDateDisplay(s)
				}
			}
			rec[c.Header] = v
		}
		out = append(out, rec)
	}
	return out
}

// Filename builds the download name:
// <Report>_<from>_<to>_export_<timestamp>.xlsx
func Filename(report string, from, to time.Time, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s_export_%s.xlsx",
		report,
		from.Format("02-01-2006"),
		to.Format("02-01-2006"),
		now.Format("20060102150405"))
}

// SniffHTML reports whether payload looks like an HTML document. Backends
// sometimes answer a binary download request with an HTML error page; this
// catches it before a corrupt file reaches the user.
func SniffHTML(payload []byte) bool {
	head := bytes.TrimPrefix(payload, []byte("\xef\xbb\xbf"))
	head = bytes.TrimLeft(head, " \t\r\n")
	if len(head) > 64 {
		head = head[:64]
	}
	head = bytes.ToLower(head)
	return bytes.HasPrefix(head, []byte("<!doctype")) || bytes.HasPrefix(head, []byte("<html"))
}
