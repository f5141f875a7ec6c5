package render

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the storage class of a cell.
type Kind int

// Cell kinds.
const (
	Null Kind = iota
	Integer
	Real
	Text
	Blob
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case Text:
		return "text"
	case Blob:
		return "blob"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a typed database cell.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
	Bytes []byte
}

const timeLayout = "2006-01-02 15:04:05.999999999"

// ValueOf classifies a value scanned from database/sql into a Value.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{Kind: Null}
	case int64:
		return Value{Kind: Integer, Int: x}
	case int:
		return Value{Kind: Integer, Int: int64(x)}
	case int32:
		return Value{Kind: Integer, Int: int64(x)}
	case int16:
		return Value{Kind: Integer, Int: int64(x)}
	case int8:
		return Value{Kind: Integer, Int: int64(x)}
	case uint32:
		return Value{Kind: Integer, Int: int64(x)}
	case uint16:
		return Value{Kind: Integer, Int: int64(x)}
	case uint8:
		return Value{Kind: Integer, Int: int64(x)}
	case uint:
		return unsigned(uint64(x))
	case uint64:
		return unsigned(x)
	case bool:
		if x {
			return Value{Kind: Integer, Int: 1}
		}
		return Value{Kind: Integer, Int: 0}
	case float64:
		return Value{Kind: Real, Float: x}
	case float32:
		return Value{Kind: Real, Float: float64(x)}
	case string:
		return Value{Kind: Text, Str: x}
	case []byte:
		return Value{Kind: Blob, Bytes: x}
	case time.Time:
		layout := timeLayout
		if _, off := x.Zone(); off != 0 {
			layout += "-07:00"
		}
		return Value{Kind: Text, Str: x.Format(layout)}
	default:
		return Value{Kind: Text, Str: fmt.Sprint(x)}
	}
}

func unsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return Value{Kind: Text, Str: strconv.FormatUint(u, 10)}
	}
	return Value{Kind: Integer, Int: int64(u)}
}

// Format renders the value for display in mode.
//
// NULL becomes nullValue, except in the SQL literal modes where it is NULL.
// Blobs always render as a size placeholder.
func (v Value) Format(mode Mode, nullValue string) string {
	switch v.Kind {
	case Null:
		if mode.SQLLiteral() {
			return "NULL"
		}
		return nullValue
	case Integer:
		return strconv.FormatInt(v.Int, 10)
	case Real:
		return FormatReal(v.Float)
	case Text:
		switch mode {
		case Quote, Insert:
			return QuoteString(v.Str)
		case Tcl:
			return TclString(v.Str)
		}
		return v.Str
	case Blob:
		return fmt.Sprintf("<BLOB %d bytes>", len(v.Bytes))
	}
	return ""
}

// SQL renders the value as a literal that replays to the same value,
// including blobs as hex literals.
func (v Value) SQL() string {
	switch {
	case v.Kind == Blob:
		return "X'" + strings.ToUpper(hex.EncodeToString(v.Bytes)) + "'"
	case v.Kind == Real && math.IsInf(v.Float, 1):
		return "1e999"
	case v.Kind == Real && math.IsInf(v.Float, -1):
		return "-1e999"
	case v.Kind == Real && math.IsNaN(v.Float):
		return "NULL"
	}
	return v.Format(Quote, "")
}

// FormatTitle applies the per-mode column name wrapping.
func FormatTitle(name string, mode Mode) string {
	switch mode {
	case Quote:
		return QuoteString(name)
	case Tcl:
		return TclString(name)
	}
	return name
}

// FormatReal prints the shortest decimal that round-trips, keeping a
// fractional part so integral reals stay reals when re-parsed.
func FormatReal(f float64) string {
	if math.IsInf(f, 1) {
		return "Inf"
	}
	if math.IsInf(f, -1) {
		return "-Inf"
	}
	if math.IsNaN(f) {
		return "NaN"
	}

	var s string
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e15) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// QuoteString wraps s in single quotes, doubling embedded quotes.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var tclEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	`[`, `\[`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// TclString wraps s in double quotes using Tcl escaping.
func TclString(s string) string {
	return `"` + tclEscaper.Replace(s) + `"`
}
