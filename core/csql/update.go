// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package csql

import (
	"strconv"
	"strings"

	"github.com/ridemeet/ridemeet/core"
)

// Field is one column assignment for a partial update. Fields keep their
// insertion order, which is what aligns the $N placeholders with the
// parallel value slice.
type Field struct {
	Name  string
	Value interface{}
}

// ForPartialUpdate turns a sparse field list into a SET clause plus the
// parallel list of values. Names found in toColumn are translated to their
// column name, all others are used as-is. Column identifiers are quoted to
// tolerate reserved words.
//
// Example:
//
//	ForPartialUpdate([]Field{{"firstName", "Harry"}, {"bio", "rider"}},
//		map[string]string{"firstName": "first_name"})
//
// yields `"first_name"=$1, "bio"=$2` and ["Harry", "rider"].
//
// Returns a bad request error when no fields are given.
func ForPartialUpdate(fields []Field, toColumn map[string]string) (string, []interface{}, error) {
	if len(fields) == 0 {
		return "", nil, core.BadRequestError("no data")
	}

	cols := make([]string, 0, len(fields))
	values := make([]interface{}, 0, len(fields))
	for i, f := range fields {
		name := f.Name
		if col, ok := toColumn[name]; ok {
			name = col
		}
		cols = append(cols, `"`+name+`"=$`+strconv.Itoa(i+1))
		values = append(values, f.Value)
	}
	return strings.Join(cols, ", "), values, nil
}
