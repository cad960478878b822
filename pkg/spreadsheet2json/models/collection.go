package models

import (
	"bytes"
	"encoding/json"
)

// Collection is an insertion-ordered set of named items. It marshals as a
// JSON array, or as a JSON object keyed by item name when keyed.
type Collection[T any] struct {
	keyed bool
	keys  []string
	items []T
	index map[string]int
}

// NewCollection returns an empty collection.
func NewCollection[T any](keyed bool) *Collection[T] {
	return &Collection[T]{keyed: keyed, index: make(map[string]int)}
}

// Add appends item under key. A repeated key replaces the earlier item in place.
func (c *Collection[T]) Add(key string, item T) {
	if i, ok := c.index[key]; ok {
		c.items[i] = item
		return
	}
	c.index[key] = len(c.items)
	c.keys = append(c.keys, key)
	c.items = append(c.items, item)
}

// Get returns the item stored under key.
func (c *Collection[T]) Get(key string) (T, bool) {
	i, ok := c.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Len returns the number of items.
func (c *Collection[T]) Len() int { return len(c.items) }

// Keys returns the item keys in insertion order.
func (c *Collection[T]) Keys() []string { return c.keys }

// Items returns the items in insertion order.
func (c *Collection[T]) Items() []T { return c.items }

// MarshalJSON implements json.Marshaler. Empty collections render as [] or {}.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	start, end := byte('['), byte(']')
	if c.keyed {
		start, end = '{', '}'
	}
	buf.WriteByte(start)
	for i, item := range c.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if c.keyed {
			key, err := marshalRaw(c.keys[i])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
		}
		b, err := marshalRaw(item)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(end)
	return buf.Bytes(), nil
}

// marshalRaw encodes v without HTML escaping; escaping is left to the
// encoder that writes the whole document.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
