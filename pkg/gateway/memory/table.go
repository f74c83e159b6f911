package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/raids-lab/siteadmin/pkg/gateway"
)

// Op names a table operation for fault injection.
type Op string

const (
	OpSelect Op = "select"
	OpSingle Op = "single"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpCount  Op = "count"
)

const zeroTime = "0001-01-01T00:00:00Z"

type Table struct {
	mu     sync.Mutex
	name   string
	now    func() time.Time
	nextID int64
	rows   []map[string]any
	faults map[Op]error
}

func newTable(name string, now func() time.Time) *Table {
	return &Table{name: name, now: now, faults: make(map[Op]error)}
}

// Fail makes every later call of op return err. A nil err clears the fault.
func (t *Table) Fail(op Op, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err == nil {
		delete(t.faults, op)
		return
	}
	t.faults[op] = err
}

// Len reports the number of stored rows.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func (t *Table) begin(ctx context.Context, op Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	if err := t.faults[op]; err != nil {
		t.mu.Unlock()
		return err
	}
	return nil
}

func (t *Table) Select(ctx context.Context, dst any, orders ...gateway.Order) error {
	if err := t.begin(ctx, OpSelect); err != nil {
		return err
	}
	rows := make([]map[string]any, len(t.rows))
	copy(rows, t.rows)
	t.mu.Unlock()

	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			c := compare(rows[i][o.Column], rows[j][o.Column])
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	return decode(rows, dst)
}

func (t *Table) Single(ctx context.Context, dst any) error {
	if err := t.begin(ctx, OpSingle); err != nil {
		return err
	}
	if len(t.rows) == 0 {
		t.mu.Unlock()
		return gateway.ErrNoRows
	}
	row := t.rows[0]
	t.mu.Unlock()
	return decode(row, dst)
}

func (t *Table) Insert(ctx context.Context, row any) error {
	m, err := encode(row)
	if err != nil {
		return err
	}
	if err := t.begin(ctx, OpInsert); err != nil {
		return err
	}
	t.nextID++
	m["id"] = float64(t.nextID)
	stamp := t.now().UTC().Format(time.RFC3339Nano)
	for k, v := range m {
		if strings.HasSuffix(k, "_at") && isZeroTime(v) {
			m[k] = stamp
		}
	}
	t.rows = append(t.rows, m)
	t.mu.Unlock()
	// write the generated columns back into the caller's row
	return decode(m, row)
}

func (t *Table) Update(ctx context.Context, id int64, patch gateway.Patch) error {
	p, err := encode(patch)
	if err != nil {
		return err
	}
	if err := t.begin(ctx, OpUpdate); err != nil {
		return err
	}
	defer t.mu.Unlock()
	idx := t.indexOf(id)
	if idx < 0 {
		return nil
	}
	updated := make(map[string]any, len(t.rows[idx]))
	for k, v := range t.rows[idx] {
		updated[k] = v
	}
	for k, v := range p {
		if k == "id" {
			continue
		}
		updated[k] = v
	}
	if _, ok := updated["updated_at"]; ok {
		if _, explicit := p["updated_at"]; !explicit {
			updated["updated_at"] = t.now().UTC().Format(time.RFC3339Nano)
		}
	}
	t.rows[idx] = updated
	return nil
}

func (t *Table) Delete(ctx context.Context, id int64) error {
	if err := t.begin(ctx, OpDelete); err != nil {
		return err
	}
	defer t.mu.Unlock()
	if idx := t.indexOf(id); idx >= 0 {
		t.rows = append(t.rows[:idx], t.rows[idx+1:]...)
	}
	return nil
}

func (t *Table) Count(ctx context.Context) (int64, error) {
	if err := t.begin(ctx, OpCount); err != nil {
		return 0, err
	}
	defer t.mu.Unlock()
	return int64(len(t.rows)), nil
}

func (t *Table) indexOf(id int64) int {
	for i, row := range t.rows {
		if v, ok := row["id"].(float64); ok && int64(v) == id {
			return i
		}
	}
	return -1
}

func encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return m, nil
}

func decode(src, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}

func isZeroTime(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == "" || s == zeroTime
	}
	return false
}

// compare orders JSON scalars. Nulls sort after every value, matching
// postgres ascending order.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	case string:
		if bv, ok := b.(string); ok {
			ta, errA := time.Parse(time.RFC3339Nano, av)
			tb, errB := time.Parse(time.RFC3339Nano, bv)
			if errA == nil && errB == nil {
				return ta.Compare(tb)
			}
			return strings.Compare(av, bv)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
