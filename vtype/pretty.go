package vtype

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nvc-project/nvc-core/ident"
)

var titleCaser = cases.Title(language.English)

// Pretty renders t per spec §4.3: "name [p1, p2 … return r]" for
// subprograms, otherwise the final dotted component of the name, or the
// fully qualified name if that alone would be ambiguous against peer.
func Pretty(t Type, peer *Type) string {
	switch t.Kind() {
	case KindFunc, KindProc:
		return prettySubprogram(t)
	}

	name := t.Ident()
	if !name.Valid() {
		return anonymousName(t)
	}

	short := lastComponent(name.String())
	if peer != nil {
		peerName := peer.Ident()
		if peerName.Valid() && lastComponent(peerName.String()) == short && !name.Equal(peerName) {
			return name.String()
		}
	}
	return short
}

func prettySubprogram(t Type) string {
	var b strings.Builder
	if t.Ident().Valid() {
		b.WriteString(lastComponent(t.Ident().String()))
	}
	b.WriteString(" [")
	params := t.Params()
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		ptype := Type{S: t.S, H: p.Type}
		b.WriteString(Pretty(ptype, nil))
	}
	if t.Kind() == KindFunc {
		if len(params) > 0 {
			b.WriteString(" ")
		}
		b.WriteString("return ")
		b.WriteString(Pretty(t.ResultType(), nil))
	}
	b.WriteString("]")
	return b.String()
}

func anonymousName(t Type) string {
	switch t.Kind() {
	case KindConstrainedArray, KindUnconstrainedArray:
		return titleCaser.String(t.Kind().String()) + " of " + Pretty(t.ElemType(), nil)
	case KindSubtype:
		return "subtype of " + Pretty(t.Base(), nil)
	default:
		return titleCaser.String(t.Kind().String())
	}
}

func lastComponent(s string) string {
	if i := strings.LastIndex(s, ident.Sep); i >= 0 {
		return s[i+len(ident.Sep):]
	}
	return s
}

// DebugString renders t with its ordinal bounds for diagnostic hints,
// e.g. "INTEGER range -2147483648 to 2147483647".
func DebugString(t Type) string {
	name := Pretty(t, nil)
	cs := t.Constraint()
	if len(cs) == 0 {
		return name
	}
	var parts []string
	for _, r := range cs {
		if r.Descending {
			parts = append(parts, strconv.FormatInt(r.High, 10)+" downto "+strconv.FormatInt(r.Low, 10))
		} else {
			parts = append(parts, strconv.FormatInt(r.Low, 10)+" to "+strconv.FormatInt(r.High, 10))
		}
	}
	return name + " range " + strings.Join(parts, ", ")
}
