package mockclickhouserows

import (
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Rows replays fixed result rows. Each row holds one value per Scan target:
// *string (nil for NULL) or uint64.
type Rows struct {
	Data    [][]any
	ScanErr error
	IterErr error
	Closed  bool

	pos int
}

var _ driver.Rows = &Rows{}

func (r *Rows) Next() bool {
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.ScanErr != nil {
		return r.ScanErr
	}
	row := r.Data[r.pos-1]
	if len(row) != len(dest) {
		return fmt.Errorf("scan: expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case **string:
			v, _ := row[i].(*string)
			*d = v
		case *string:
			*d, _ = row[i].(string)
		case *uint64:
			*d, _ = row[i].(uint64)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func (r *Rows) ScanStruct(dest any) error {
	return fmt.Errorf("scan struct: not supported")
}

func (r *Rows) ColumnTypes() []driver.ColumnType {
	return nil
}

func (r *Rows) Totals(dest ...any) error {
	return nil
}

func (r *Rows) Columns() []string {
	return nil
}

func (r *Rows) Close() error {
	r.Closed = true
	return nil
}

func (r *Rows) Err() error {
	return r.IterErr
}
