package services

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Node is a tolerant view over a decoded JSON tree. Every accessor returns
// an absent Node instead of failing when a key is missing or an
// intermediate value has the wrong type, so extraction rules read as a flat
// list of fallbacks.
type Node struct {
	v interface{}
}

// DecodeNode decodes body, keeping numbers in their textual form so large
// identifiers survive.
func DecodeNode(body []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return Node{}, err
	}
	return Node{v: v}, nil
}

// ParseNode is DecodeNode that maps unparseable input to an empty object.
func ParseNode(body []byte) Node {
	n, err := DecodeNode(body)
	if err != nil {
		return Node{v: map[string]interface{}{}}
	}
	return n
}

// NodeOf wraps an already decoded value.
func NodeOf(v interface{}) Node {
	return Node{v: v}
}

// Get follows a path of object keys.
func (n Node) Get(keys ...string) Node {
	cur := n.v
	for _, k := range keys {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return Node{}
		}
		cur = m[k]
	}
	return Node{v: cur}
}

// Index returns the i-th element of an array node.
func (n Node) Index(i int) Node {
	arr, ok := n.v.([]interface{})
	if !ok || i < 0 || i >= len(arr) {
		return Node{}
	}
	return Node{v: arr[i]}
}

// First is shorthand for Index(0).
func (n Node) First() Node {
	return n.Index(0)
}

func (n Node) Exists() bool {
	return n.v != nil
}

func (n Node) IsObject() bool {
	_, ok := n.v.(map[string]interface{})
	return ok
}

// String renders scalar values as text. Objects, arrays and null are absent.
func (n Node) String() (string, bool) {
	switch v := n.v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// Text returns the trimmed string value, or "" when absent.
func (n Node) Text() string {
	s, _ := n.String()
	return strings.TrimSpace(s)
}

// Truthy mirrors loose JSON truthiness: absent, null, false, "" and 0 are
// false.
func (n Node) Truthy() bool {
	switch v := n.v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return true
	}
}

// Bool is true only for a JSON true.
func (n Node) Bool() bool {
	b, ok := n.v.(bool)
	return ok && b
}

// FirstText returns the first non-empty trimmed text among nodes.
func FirstText(nodes ...Node) string {
	for _, n := range nodes {
		if t := n.Text(); t != "" {
			return t
		}
	}
	return ""
}
