package brand

import (
	"regexp"

	"storefront/catalog/internal/domain"

	log "github.com/sirupsen/logrus"
)

const DefaultCategory = "ALL"

var (
	hexColorRegex    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	contactLinkRegex = regexp.MustCompile(`^https://wa\.me/[0-9]+$`)
)

var (
	slugFields     = []string{"csvslug", "slug", "Slug"}
	nameFields     = []string{"brandName", "Brand Name", "brand_name", "name"}
	contactFields  = []string{"whatsapp", "WhatsApp", "contactLink"}
	categoryFields = []string{"defaultCategory", "Default Category", "default_category"}
)

// colorField pairs a source column with its themed fallback.
type colorField struct {
	column   string
	fallback string
	assign   func(*domain.BrandColors, string)
}

var colorFields = []colorField{
	{"primaryColor", "#d4af37", func(c *domain.BrandColors, v string) { c.Primary = v }},
	{"accentColor", "#1a1a1a", func(c *domain.BrandColors, v string) { c.Accent = v }},
	{"textColor", "#2b2b2b", func(c *domain.BrandColors, v string) { c.Text = v }},
	{"backgroundColor", "#faf7f0", func(c *domain.BrandColors, v string) { c.Background = v }},
}

// Registry is the validated set of brands keyed by slug.
type Registry struct {
	Brands map[string]domain.BrandRecord
}

type Builder struct {
	issues *domain.Issues
}

func NewBuilder(issues *domain.Issues) *Builder {
	return &Builder{issues: issues}
}

// Build validates brand rows. Anomalies never fail the build; they are
// recorded as warnings and replaced by defaults.
func (b *Builder) Build(rows []domain.Row) *Registry {
	reg := &Registry{
		Brands: make(map[string]domain.BrandRecord),
	}

	for i, row := range rows {
		slug := row.Field(slugFields...)
		name := row.Field(nameFields...)

		switch {
		case slug == "" && name == "":
			continue
		case slug == "" || name == "":
			b.issues.Warnf("brand row %d: slug %q and name %q must both be set, skipped", i+1, slug, name)
			continue
		}

		if _, exists := reg.Brands[slug]; exists {
			b.issues.Warnf("brand %s: duplicate slug, keeping first occurrence", slug)
			continue
		}

		reg.Brands[slug] = b.buildRecord(slug, name, row)
	}

	log.Infof("🏷️ Built brand registry with %d brands", len(reg.Brands))
	return reg
}

func (b *Builder) buildRecord(slug, name string, row domain.Row) domain.BrandRecord {
	record := domain.BrandRecord{
		Slug:            slug,
		DisplayName:     name,
		DefaultCategory: row.Field(categoryFields...),
	}

	for _, field := range colorFields {
		field.assign(&record.Colors, b.validColor(slug, field, row.Field(field.column)))
	}

	if link := row.Field(contactFields...); link != "" {
		if contactLinkRegex.MatchString(link) {
			record.ContactLink = link
		} else {
			b.issues.Warnf("brand %s: invalid contact link %q dropped", slug, link)
		}
	}

	if record.DefaultCategory == "" {
		record.DefaultCategory = DefaultCategory
	}

	return record
}

func (b *Builder) validColor(slug string, field colorField, value string) string {
	if hexColorRegex.MatchString(value) {
		return value
	}
	if value != "" {
		b.issues.Warnf("brand %s: invalid %s %q, using %s", slug, field.column, value, field.fallback)
	}
	return field.fallback
}

