package domain

import "time"

// Catalog is the serialized product tree.
type Catalog struct {
	TotalProducts int       `json:"totalProducts"`
	Tree          *Children `json:"tree"`
}

// Snapshot is the single artifact emitted per run.
type Snapshot struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	Brands      map[string]BrandRecord `json:"brands"`
	Catalog     Catalog                `json:"catalog"`
}
