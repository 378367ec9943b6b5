package domain

// BrandColors holds the four theme colors of a brand as #RRGGBB strings.
type BrandColors struct {
	Primary    string `json:"primary"`
	Accent     string `json:"accent"`
	Text       string `json:"text"`
	Background string `json:"background"`
}

type BrandRecord struct {
	Slug            string      `json:"slug"`
	DisplayName     string      `json:"displayName"`
	Colors          BrandColors `json:"colors"`
	ContactLink     string      `json:"contactLink,omitempty"`
	DefaultCategory string      `json:"defaultCategory"`
}
