package domain

import (
	"bytes"
	"encoding/json"
)

// Node is a catalog tree entry: either a *Folder or a *Product.
// Traversals switch on the concrete type; there are no other variants.
type Node interface {
	isNode()
}

// Product is a terminal catalog entry linking to an external document.
type Product struct {
	ExternalLink string
	Thumbnail    string
}

func (*Product) isNode() {}

func (p *Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		IsProduct    bool   `json:"isProduct"`
		ExternalLink string `json:"externalLink"`
		Thumbnail    string `json:"thumbnail"`
	}{
		IsProduct:    true,
		ExternalLink: p.ExternalLink,
		Thumbnail:    p.Thumbnail,
	})
}

// Folder groups child nodes. Thumbnail and ProductCount are derived during
// enrichment and are only authoritative once every pass has run.
type Folder struct {
	Thumbnail    string
	ExternalLink string
	TopOrder     *int
	ProductCount int
	Children     *Children
}

func NewFolder() *Folder {
	return &Folder{Children: NewChildren()}
}

func (*Folder) isNode() {}

func (f *Folder) MarshalJSON() ([]byte, error) {
	children := f.Children
	if children == nil {
		children = NewChildren()
	}
	return json.Marshal(struct {
		IsProduct    bool      `json:"isProduct"`
		Thumbnail    string    `json:"thumbnail"`
		ExternalLink string    `json:"externalLink,omitempty"`
		TopOrder     *int      `json:"topOrder,omitempty"`
		ProductCount int       `json:"productCount"`
		Children     *Children `json:"children"`
	}{
		Thumbnail:    f.Thumbnail,
		ExternalLink: f.ExternalLink,
		TopOrder:     f.TopOrder,
		ProductCount: f.ProductCount,
		Children:     children,
	})
}

// Children is a segment-keyed mapping that remembers insertion order.
type Children struct {
	keys  []string
	nodes map[string]Node
}

func NewChildren() *Children {
	return &Children{nodes: make(map[string]Node)}
}

func (c *Children) Len() int {
	return len(c.keys)
}

func (c *Children) Get(key string) (Node, bool) {
	n, ok := c.nodes[key]
	return n, ok
}

// Set inserts a node under key. Replacing an existing key keeps its position.
func (c *Children) Set(key string, n Node) {
	if _, exists := c.nodes[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.nodes[key] = n
}

// Keys returns the keys in insertion order.
func (c *Children) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Each visits children in insertion order.
func (c *Children) Each(fn func(key string, n Node)) {
	for _, k := range c.keys {
		fn(k, c.nodes[k])
	}
}

func (c *Children) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.nodes[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ThumbnailOf returns the thumbnail of either node variant.
func ThumbnailOf(n Node) string {
	switch v := n.(type) {
	case *Product:
		return v.Thumbnail
	case *Folder:
		return v.Thumbnail
	default:
		return ""
	}
}

// Walk visits every node below root in pre-order, passing the full
// slash-joined path of each node.
func Walk(root *Folder, fn func(path string, n Node)) {
	walk("", root, fn)
}

func walk(prefix string, f *Folder, fn func(path string, n Node)) {
	f.Children.Each(func(key string, n Node) {
		path := key
		if prefix != "" {
			path = prefix + "/" + key
		}
		fn(path, n)
		if sub, ok := n.(*Folder); ok {
			walk(path, sub, fn)
		}
	})
}
