package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildren_KeepsInsertionOrder(t *testing.T) {
	c := NewChildren()
	c.Set("zeta", NewFolder())
	c.Set("alpha", &Product{})
	c.Set("mid", NewFolder())
	c.Set("zeta", &Product{ExternalLink: "x"})

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, c.Keys())
	assert.Equal(t, 3, c.Len())

	n, ok := c.Get("zeta")
	require.True(t, ok)
	assert.IsType(t, &Product{}, n)
}

func TestFolder_MarshalJSON(t *testing.T) {
	order := 2
	root := NewFolder()
	bags := &Folder{Thumbnail: "/thumbs/b.webp", TopOrder: &order, ProductCount: 1, Children: NewChildren()}
	bags.Children.Set("Tote", &Product{ExternalLink: "https://drive.google.com/t", Thumbnail: "/thumbs/t.webp"})
	root.Children.Set("SHOES", NewFolder())
	root.Children.Set("BAGS", bags)

	data, err := json.Marshal(root.Children)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"SHOES": {"isProduct": false, "thumbnail": "", "productCount": 0, "children": {}},
		"BAGS": {
			"isProduct": false,
			"thumbnail": "/thumbs/b.webp",
			"topOrder": 2,
			"productCount": 1,
			"children": {
				"Tote": {"isProduct": true, "externalLink": "https://drive.google.com/t", "thumbnail": "/thumbs/t.webp"}
			}
		}
	}`, string(data))
	assert.Less(t, strings.Index(string(data), `"SHOES"`), strings.Index(string(data), `"BAGS"`))
}

func TestFolder_MarshalNilChildren(t *testing.T) {
	data, err := json.Marshal(&Folder{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"isProduct": false, "thumbnail": "", "productCount": 0, "children": {}}`, string(data))
}

func TestWalk_PreOrder(t *testing.T) {
	root := NewFolder()
	a := NewFolder()
	a.Children.Set("x", &Product{})
	a.Children.Set("y", NewFolder())
	root.Children.Set("A", a)
	root.Children.Set("B", &Product{})

	var paths []string
	Walk(root, func(path string, _ Node) {
		paths = append(paths, path)
	})

	assert.Equal(t, []string{"A", "A/x", "A/y", "B"}, paths)
}

func TestRow_FieldPriority(t *testing.T) {
	r := Row{"Relative Path": " b ", "Relative_Path": "c"}
	assert.Equal(t, "b", r.Field("RelativePath", "Relative Path", "Relative_Path"))

	blank := Row{"RelativePath": "  ", "Relative Path": "b"}
	assert.Equal(t, "b", blank.Field("RelativePath", "Relative Path"))
	assert.Equal(t, "", blank.Field("RelativePath"))
	assert.Equal(t, "", blank.Field("missing"))
}
