package resource

// Change は 1 カラム分の更新内容です。
type Change struct {
	Column string
	Value  any
}

// Changes は取得済みレコードと目的のレコードとの差分です。順序は Diff が決めます。
type Changes []Change

// Set は column の新しい値を追加した Changes を返します。
func (c Changes) Set(column string, value any) Changes {
	return append(c, Change{Column: column, Value: value})
}

func (c Changes) Empty() bool {
	return len(c) == 0
}

// Columns は変更対象のカラム名を順に返します。
func (c Changes) Columns() []string {
	cols := make([]string, 0, len(c))
	for _, ch := range c {
		cols = append(cols, ch.Column)
	}
	return cols
}

// Lookup は column の新しい値を返します。
func (c Changes) Lookup(column string) (any, bool) {
	for _, ch := range c {
		if ch.Column == column {
			return ch.Value, true
		}
	}
	return nil, false
}
