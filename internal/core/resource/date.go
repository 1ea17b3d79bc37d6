package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout は暦日の外部表現です。
const DateLayout = "2006-01-02"

// Date は時刻成分を持たない暦日です。JSON では "YYYY-MM-DD" として表現します。
// ゼロ値は「未指定」を表し、0001-01-01 とは区別されます。
type Date struct {
	t     time.Time
	valid bool
}

// NewDate は t の暦日 (UTC) から Date を生成します。
func NewDate(t time.Time) Date {
	return Date{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), valid: true}
}

// ParseDate は "YYYY-MM-DD" 形式の文字列を解析します。
func ParseDate(raw string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return Date{t: t, valid: true}, nil
}

// Time は UTC の 0 時を返します。
func (d Date) Time() time.Time {
	return d.t
}

// IsZero は日付が未指定の場合に true を返します。
func (d Date) IsZero() bool {
	return !d.valid
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
