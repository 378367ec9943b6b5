package catalog

import (
	"storefront/catalog/internal/domain"

	log "github.com/sirupsen/logrus"
)

type Propagator struct {
	placeholder string
	issues      *domain.Issues
}

func NewPropagator(placeholder string, issues *domain.Issues) *Propagator {
	return &Propagator{
		placeholder: placeholder,
		issues:      issues,
	}
}

// Propagate runs the enrichment passes over the skeleton in place. Each pass
// is a full traversal and relies on the previous ones having finished.
func (p *Propagator) Propagate(res *Result) {
	attachMetadata(res.Root, "", res.Metadata)

	converted := p.convertEmptyFolders(res.Root)
	res.ProductCount += converted

	res.Root.Children.Each(func(_ string, n domain.Node) {
		if f, ok := n.(*domain.Folder); ok {
			inheritFromChildren(f)
		}
	})

	p.inheritFromAncestors(res.Root, p.placeholder)

	total := aggregateCounts(res.Root)
	if total != res.ProductCount {
		p.issues.Errorf("product count mismatch: tree has %d, builder counted %d", total, res.ProductCount)
	}

	log.Infof("✅ Enriched catalog: %d folders converted, %d products in %d categories",
		converted, total, res.Root.Children.Len())
}

func attachMetadata(f *domain.Folder, prefix string, metadata map[string]*FolderMetadata) {
	f.Children.Each(func(key string, n domain.Node) {
		folder, ok := n.(*domain.Folder)
		if !ok {
			return
		}
		path := joinPath(prefix, key)
		if meta, found := metadata[path]; found {
			if meta.Thumbnail != "" {
				folder.Thumbnail = meta.Thumbnail
			}
			if meta.ExternalLink != "" {
				folder.ExternalLink = meta.ExternalLink
			}
			if meta.TopOrder != nil {
				order := *meta.TopOrder
				folder.TopOrder = &order
			}
		}
		attachMetadata(folder, path, metadata)
	})
}

// convertEmptyFolders turns childless folders that carry a link into
// products and returns how many were converted.
func (p *Propagator) convertEmptyFolders(f *domain.Folder) int {
	converted := 0
	f.Children.Each(func(key string, n domain.Node) {
		folder, ok := n.(*domain.Folder)
		if !ok {
			return
		}
		if folder.Children.Len() > 0 {
			converted += p.convertEmptyFolders(folder)
			return
		}
		if folder.ExternalLink == "" {
			return
		}

		thumbnail := folder.Thumbnail
		if thumbnail == "" {
			thumbnail = p.placeholder
		}
		f.Children.Set(key, &domain.Product{
			ExternalLink: folder.ExternalLink,
			Thumbnail:    thumbnail,
		})
		converted++
	})
	return converted
}

// inheritFromChildren resolves thumbnails bottom-up: a folder without one
// takes the first non-empty thumbnail among its direct children.
func inheritFromChildren(f *domain.Folder) {
	f.Children.Each(func(_ string, n domain.Node) {
		if sub, ok := n.(*domain.Folder); ok {
			inheritFromChildren(sub)
		}
	})

	if f.Thumbnail != "" {
		return
	}
	for _, key := range f.Children.Keys() {
		child, _ := f.Children.Get(key)
		if thumb := domain.ThumbnailOf(child); thumb != "" {
			f.Thumbnail = thumb
			return
		}
	}
}

// inheritFromAncestors fills remaining gaps top-down from the nearest
// ancestor that has a thumbnail.
func (p *Propagator) inheritFromAncestors(f *domain.Folder, inherited string) {
	f.Children.Each(func(_ string, n domain.Node) {
		switch v := n.(type) {
		case *domain.Product:
			if v.Thumbnail == "" {
				v.Thumbnail = inherited
			}
		case *domain.Folder:
			if v.Thumbnail == "" {
				v.Thumbnail = inherited
			}
			p.inheritFromAncestors(v, v.Thumbnail)
		}
	})
}

// aggregateCounts stores on every folder the number of products below it.
func aggregateCounts(f *domain.Folder) int {
	total := 0
	f.Children.Each(func(_ string, n domain.Node) {
		switch v := n.(type) {
		case *domain.Product:
			total++
		case *domain.Folder:
			total += aggregateCounts(v)
		}
	})
	f.ProductCount = total
	return total
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
