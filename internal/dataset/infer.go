package dataset

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the layouts accepted by date inference, in match
// order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
}

// inferColumnType applies the strictest-common-type rule: the first of
// int, float, bool, date under which every non-null raw value parses;
// a single non-conforming value demotes the whole column to string.
// An all-null column is typed string.
func inferColumnType(raw []string, null []bool) ColumnType {
	candidates := []struct {
		t  ColumnType
		ok func(string) bool
	}{
		{TypeInt, isInt},
		{TypeFloat, isFloat},
		{TypeBool, isBool},
		{TypeDate, isDate},
	}

	nonNull := 0
	for i := range raw {
		if !null[i] {
			nonNull++
		}
	}
	if nonNull == 0 {
		return TypeString
	}

	for _, c := range candidates {
		conforms := true
		for i, s := range raw {
			if null[i] {
				continue
			}
			if !c.ok(s) {
				conforms = false
				break
			}
		}
		if conforms {
			return c.t
		}
	}
	return TypeString
}

// parseValue converts one raw field into a typed cell. The column type
// is already proven for every non-null field, so parse errors cannot
// occur here.
func parseValue(s string, t ColumnType) Value {
	switch t {
	case TypeInt:
		i, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return Int(i)
	case TypeFloat:
		f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return Float(f)
	case TypeBool:
		return Bool(strings.EqualFold(strings.TrimSpace(s), "true"))
	case TypeDate:
		trimmed := strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return Date(t)
			}
		}
		return String(s)
	default:
		return String(s)
	}
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func isBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false":
		return true
	}
	return false
}

func isDate(s string) bool {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return true
		}
	}
	return false
}
