package catalog

import "github.com/noah-isme/backend-loja/internal/pricing"

// Spec represents a label/value specification entry shown on product pages.
type Spec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Dimensions holds the physical package measurements used for shipping quotes.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Length float64 `json:"length"`
	Weight float64 `json:"weight"`
}

// Item is a catalog product. Price is stored in centavos and rendered
// as a decimal number on the wire.
type Item struct {
	ID                  int64         `json:"id"`
	Name                string        `json:"name"`
	Category            string        `json:"category"`
	Price               pricing.Cents `json:"price"`
	Image               string        `json:"image"`
	Description         string        `json:"description"`
	Images              []string      `json:"images,omitempty"`
	DetailedDescription string        `json:"detailedDescription,omitempty"`
	Specifications      []Spec        `json:"specifications,omitempty"`
	Dimensions          *Dimensions   `json:"dimensions,omitempty"`
	Rating              float64       `json:"rating,omitempty"`
	RatingCount         int           `json:"ratingCount,omitempty"`
	IsDigital           bool          `json:"isDigital,omitempty"`
}
