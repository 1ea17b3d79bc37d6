package postgres

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/chiragthakuri/time-tracker/internal/core/resource"
)

var errNoChanges = errors.New("postgres: no columns to update")

// buildUpdate は changes から version 条件付きの UPDATE 文を組み立てます。
// カラム名は writable に含まれるものだけを受け付けます。
func buildUpdate(table string, writable []string, id, version int64, changes resource.Changes) (string, []any, error) {
	if changes.Empty() {
		return "", nil, errNoChanges
	}

	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+2)
	for _, ch := range changes {
		if !slices.Contains(writable, ch.Column) {
			return "", nil, fmt.Errorf("postgres: column %q is not writable on %s", ch.Column, table)
		}
		args = append(args, ch.Value)
		sets = append(sets, ch.Column+" = $"+strconv.Itoa(len(args)))
	}
	sets = append(sets, "version = version + 1")

	args = append(args, id, version)
	query := "UPDATE " + table +
		" SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)-1) +
		" AND version = $" + strconv.Itoa(len(args))

	return query, args, nil
}
