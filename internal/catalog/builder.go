package catalog

import (
	"regexp"
	"strconv"

	"storefront/catalog/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Column aliases, checked in order; the first non-blank value wins.
var (
	nameFields      = []string{"Name", "name", "File Name"}
	pathFields      = []string{"RelativePath", "Relative Path", "Relative_Path"}
	linkFields      = []string{"DriveLink", "Drive Link", "Drive_Link", "Link"}
	thumbnailFields = []string{"Thumbnail", "Thumbnail Path", "Thumbnail_Path"}
	orderFields     = []string{"TopOrder", "Top Order", "Top_Order"}
)

var driveLinkRegex = regexp.MustCompile(`^https://drive\.google\.com/`)

// FolderMetadata collects the fields folder rows carry before the tree is
// enriched. Empty strings and a nil TopOrder mean "not recorded".
type FolderMetadata struct {
	Thumbnail    string
	ExternalLink string
	TopOrder     *int
}

// Result is the tree skeleton plus everything the propagator needs.
type Result struct {
	Root          *domain.Folder
	Metadata      map[string]*FolderMetadata
	ProductCount  int
	ProcessedRows int
}

type Builder struct {
	placeholder string
	issues      *domain.Issues
}

func NewBuilder(placeholder string, issues *domain.Issues) *Builder {
	return &Builder{
		placeholder: placeholder,
		issues:      issues,
	}
}

// Build converts flat catalog rows into a tree skeleton. A row with a link
// becomes a product only when no other row is nested beneath its path.
func (b *Builder) Build(rows []domain.Row) *Result {
	paths := make([]string, len(rows))
	ancestors := make(map[string]struct{})
	for i, row := range rows {
		paths[i] = NormalizePath(row.Field(pathFields...))
		for _, a := range ancestorPaths(paths[i]) {
			ancestors[a] = struct{}{}
		}
	}

	res := &Result{
		Root:     domain.NewFolder(),
		Metadata: make(map[string]*FolderMetadata),
	}

	for i, row := range rows {
		path := paths[i]
		name := row.Field(nameFields...)
		if path == "" || name == "" {
			log.Debugf("Skipping catalog row %d: empty path or name", i+1)
			continue
		}
		res.ProcessedRows++

		link := row.Field(linkFields...)
		thumbnail := NormalizeThumbnail(row.Field(thumbnailFields...))

		if link != "" && !driveLinkRegex.MatchString(link) {
			b.issues.AddInvalidLink(domain.InvalidLink{Path: path, Name: name, Link: link})
		}

		if _, hasDescendants := ancestors[path]; link != "" && !hasDescendants {
			b.insertProduct(res, path, link, thumbnail)
			continue
		}

		if _, ok := ensureFolder(res.Root, splitPath(path)); !ok {
			log.Debugf("Keeping product at %s; folder row ignored", path)
		}
		b.recordMetadata(res, path, link, thumbnail, row.Field(orderFields...))
	}

	log.Infof("🌳 Built catalog skeleton: %d rows processed, %d products", res.ProcessedRows, res.ProductCount)
	return res
}

func (b *Builder) insertProduct(res *Result, path, link, thumbnail string) {
	segments := splitPath(path)
	parent, ok := ensureFolder(res.Root, segments[:len(segments)-1])
	if !ok {
		b.issues.Warnf("product %s has a product as ancestor, skipped", path)
		return
	}

	if thumbnail == "" {
		thumbnail = b.placeholder
	}
	product := &domain.Product{ExternalLink: link, Thumbnail: thumbnail}

	key := segments[len(segments)-1]
	if existing, found := parent.Children.Get(key); found {
		if _, isProduct := existing.(*domain.Product); isProduct {
			b.issues.Warnf("duplicate product row for %s, last row wins", path)
			parent.Children.Set(key, product)
			return
		}
	}

	parent.Children.Set(key, product)
	res.ProductCount++
}

func (b *Builder) recordMetadata(res *Result, path, link, thumbnail, order string) {
	var topOrder *int
	if order != "" {
		if len(splitPath(path)) != 1 {
			log.Debugf("Ignoring top order %q on nested folder %s", order, path)
		} else if n, err := strconv.Atoi(order); err != nil {
			b.issues.Warnf("invalid top order %q for %s", order, path)
		} else {
			topOrder = &n
		}
	}

	if thumbnail == "" && link == "" && topOrder == nil {
		return
	}

	meta, ok := res.Metadata[path]
	if !ok {
		meta = &FolderMetadata{}
		res.Metadata[path] = meta
	}
	if thumbnail != "" {
		meta.Thumbnail = thumbnail
	}
	if link != "" {
		meta.ExternalLink = link
	}
	if topOrder != nil {
		meta.TopOrder = topOrder
	}
}

// ensureFolder materializes a folder chain under root and returns the last
// folder. It reports false when a product already occupies the chain.
func ensureFolder(root *domain.Folder, segments []string) (*domain.Folder, bool) {
	current := root
	for _, seg := range segments {
		child, ok := current.Children.Get(seg)
		if !ok {
			folder := domain.NewFolder()
			current.Children.Set(seg, folder)
			current = folder
			continue
		}
		folder, isFolder := child.(*domain.Folder)
		if !isFolder {
			return nil, false
		}
		current = folder
	}
	return current, true
}
