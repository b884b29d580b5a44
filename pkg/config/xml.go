package config

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// arrayElement names the wrapper of one item of a top-level array.
const arrayElement = "__element"

// attributeValue matches scalar values written as XML attributes. Anything
// else becomes a child element.
var attributeValue = regexp.MustCompile(`^[A-Za-z0-9#_(),. -]*$`)

// grouper describes how an array property is nested in XML: the items are
// wrapped in a group element and each item gets its own element name.
type grouper struct {
	prop, group, item string
}

var groupers = []grouper{
	{"series", "series_list", "series"},
	{"keys", "keys", "key"},
	{"data", "data", "point"},
	{"lineAxesMarkers", "line_axes_markers", "line_axes_marker"},
	{"rangeAxesMarkers", "range_axes_markers", "range_axes_marker"},
	{"textAxesMarkers", "text_axes_markers", "text_axes_marker"},
	{"grids", "grids", "grid"},
	{"minorGrids", "minor_grids", "grid"},
	{"xAxes", "x_axes", "axis"},
	{"yAxes", "y_axes", "axis"},
	{"scales", "scales", "scale"},
	{"explicit", "explicit", "tick"},
	{"values", "values", "value"},
	{"names", "names", "name"},
}

func grouperByProp(prop string) (grouper, bool) {
	i := slices.IndexFunc(groupers, func(g grouper) bool { return g.prop == prop })
	if i < 0 {
		return grouper{}, false
	}
	return groupers[i], true
}

func grouperByGroup(group string) (grouper, bool) {
	i := slices.IndexFunc(groupers, func(g grouper) bool { return g.group == group })
	if i < 0 {
		return grouper{}, false
	}
	return groupers[i], true
}

// toCamelCase turns xml_case names into camelCase.
func toCamelCase(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '_' && i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z' {
			b.WriteByte(s[i+1] - 'a' + 'A')
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// toXMLCase turns camelCase names into xml_case.
func toXMLCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

type xmlNode struct {
	name     string
	attrs    []xml.Attr
	children []*xmlNode
	text     strings.Builder
}

// XMLToJSON converts an XML chart document to the JSON form accepted by
// SetupByJSON. The root element name is dropped.
//
// Attributes and child elements become properties with camelCase names.
// Repeated children collect into an array, grouped arrays such as
// <series_list><series/></series_list> unwrap into their property, and
// __element children turn the element into an array. An element with only
// text becomes its trimmed text. Attribute values and text are coerced to
// numbers, booleans or nil where they parse as such; child elements win
// over attributes of the same name.
func XMLToJSON(r io.Reader) (any, error) {
	dec := xml.NewDecoder(r)
	var stack []*xmlNode
	var root *xmlNode
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name.Local, attrs: t.Attr}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.WriteString(strings.TrimSpace(string(t)))
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("parse xml: %w", io.ErrUnexpectedEOF)
	}
	return root.value(), nil
}

func (n *xmlNode) value() any {
	result := map[string]any{}
	var list []any
	isArray := false
	onlyText := true
	multi := map[string]bool{}

	for _, c := range n.children {
		if c.name == arrayElement {
			isArray = true
			onlyText = false
			m, _ := c.value().(map[string]any)
			idx, ok := m["index"].(float64)
			if !ok || idx < 0 {
				continue
			}
			i := int(idx)
			for len(list) <= i {
				list = append(list, nil)
			}
			list[i] = m["value"]
			continue
		}
		if isArray {
			continue
		}
		onlyText = false
		sub := c.value()
		if g, ok := grouperByGroup(c.name); ok {
			var items any
			if m, ok := sub.(map[string]any); ok {
				items = m[toCamelCase(g.item)]
			}
			switch x := items.(type) {
			case []any:
				result[g.prop] = x
			case nil:
				result[g.prop] = []any{}
			default:
				result[g.prop] = []any{x}
			}
			continue
		}
		name := toCamelCase(c.name)
		if existing, ok := result[name]; ok {
			if multi[name] {
				result[name] = append(existing.([]any), sub)
			} else {
				result[name] = []any{existing, sub}
				multi[name] = true
			}
			continue
		}
		result[name] = sub
	}
	if isArray {
		if list == nil {
			list = []any{}
		}
		return list
	}

	for _, a := range n.attrs {
		name := toCamelCase(a.Name.Local)
		if _, ok := result[name]; ok {
			continue
		}
		result[name] = coerce(a.Value)
		onlyText = false
	}
	if onlyText {
		return coerce(n.text.String())
	}
	return result
}

func coerce(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return s
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return s
}

// JSONToXML converts a JSON value to an XML document with the given root
// element name ("anychart" when empty). It is the inverse of XMLToJSON:
// scalars matching a conservative character set become attributes, known
// array properties are written grouped, and top-level arrays are written
// as __element children with index and value.
func JSONToXML(v any, root string) ([]byte, error) {
	if root == "" {
		root = "anychart"
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := encodeXML(enc, v, root); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeXML(enc *xml.Encoder, v any, name string) error {
	if v == nil {
		return nil
	}
	start := xml.StartElement{Name: xml.Name{Local: toXMLCase(name)}}
	var body func() error

	switch x := v.(type) {
	case []any:
		body = func() error {
			for i, item := range x {
				if item == nil {
					continue
				}
				entry := map[string]any{"index": float64(i), "value": item}
				if err := encodeXML(enc, entry, arrayElement); err != nil {
					return err
				}
			}
			return nil
		}
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		var children []string
		for _, k := range keys {
			child := x[k]
			if child == nil {
				continue
			}
			if s, ok := scalarString(child); ok && attributeValue.MatchString(s) {
				start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: toXMLCase(k)}, Value: s})
				continue
			}
			children = append(children, k)
		}
		body = func() error {
			for _, k := range children {
				if err := encodeChild(enc, k, x[k]); err != nil {
					return err
				}
			}
			return nil
		}
	default:
		s, ok := scalarString(x)
		if !ok {
			return fmt.Errorf("xml: unsupported value %T for %q", v, name)
		}
		body = func() error { return enc.EncodeToken(xml.CharData(s)) }
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func encodeChild(enc *xml.Encoder, key string, v any) error {
	list, ok := v.([]any)
	if !ok {
		return encodeXML(enc, v, key)
	}
	item := key
	if g, ok := grouperByProp(key); ok {
		group := xml.StartElement{Name: xml.Name{Local: g.group}}
		if err := enc.EncodeToken(group); err != nil {
			return err
		}
		for _, e := range list {
			if err := encodeXML(enc, e, g.item); err != nil {
				return err
			}
		}
		return enc.EncodeToken(group.End())
	}
	for _, e := range list {
		if err := encodeXML(enc, e, item); err != nil {
			return err
		}
	}
	return nil
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	}
	return "", false
}
