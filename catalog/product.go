package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Domain selects the catalog variant the assistant serves. It is resolved
// once from configuration and decides the attribute set of every Product.
type Domain string

const (
	Fashion Domain = "fashion"
	Gaming  Domain = "gaming"
)

func ParseDomain(s string) (Domain, error) {
	switch d := Domain(strings.ToLower(strings.TrimSpace(s))); d {
	case Fashion, Gaming:
		return d, nil
	default:
		return "", fmt.Errorf("unknown catalog domain %q", s)
	}
}

// Noun is the word used for catalog entries in user facing text.
func (d Domain) Noun() string {
	if d == Gaming {
		return "game"
	}
	return "product"
}

type FashionAttrs struct {
	Category string
	Colors   string
}

type GamingAttrs struct {
	Genres          string
	Developers      string
	Publishers      string
	ReleaseDate     string
	MetacriticScore string
}

// Product is the response-shape entity. Exactly one of Fashion or Gaming is
// set, matching Domain.
type Product struct {
	Domain      Domain
	Name        string
	Price       string
	ImageURL    string
	ProductLink string

	Fashion *FashionAttrs
	Gaming  *GamingAttrs
}

// Item is a catalog entry as stored in the vector index: the document text
// that was embedded plus the product it describes.
type Item struct {
	ID       string  `json:"id"`
	Domain   Domain  `json:"domain"`
	Document string  `json:"document"`
	Product  Product `json:"product"`
}

func NewFashionProduct(name, price, image, link string, attrs FashionAttrs) Product {
	return Product{Domain: Fashion, Name: name, Price: price, ImageURL: image, ProductLink: link, Fashion: &attrs}
}

func NewGamingProduct(name, price, image, link string, attrs GamingAttrs) Product {
	return Product{Domain: Gaming, Name: name, Price: price, ImageURL: image, ProductLink: link, Gaming: &attrs}
}

// Attributes returns the domain specific fields keyed by their wire names.
func (p Product) Attributes() map[string]string {
	switch {
	case p.Fashion != nil:
		return map[string]string{
			"category": p.Fashion.Category,
			"colors":   p.Fashion.Colors,
		}
	case p.Gaming != nil:
		return map[string]string{
			"genres":           p.Gaming.Genres,
			"developers":       p.Gaming.Developers,
			"publishers":       p.Gaming.Publishers,
			"release_date":     p.Gaming.ReleaseDate,
			"metacritic_score": p.Gaming.MetacriticScore,
		}
	}
	return map[string]string{}
}

// MarshalJSON flattens the variant into the shape served by the chat API.
func (p Product) MarshalJSON() ([]byte, error) {
	out := p.Attributes()
	out["name"] = p.Name
	out["price"] = p.Price
	out["image_url"] = p.ImageURL
	out["product_link"] = p.ProductLink
	return json.Marshal(out)
}

// UnmarshalJSON accepts the flattened shape. The variant is picked from the
// attribute keys present.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	domain := Fashion
	_, hasGenres := raw["genres"]
	_, hasDevelopers := raw["developers"]
	if hasGenres || hasDevelopers {
		domain = Gaming
	}
	*p = NewProduct(domain, raw["name"], raw["price"], raw["image_url"], raw["product_link"], raw)
	return nil
}

// NewProduct rebuilds a Product from its flattened attributes, the inverse of
// Attributes.
func NewProduct(domain Domain, name, price, image, link string, attrs map[string]string) Product {
	if domain == Gaming {
		return NewGamingProduct(name, price, image, link, GamingAttrs{
			Genres:          attrs["genres"],
			Developers:      attrs["developers"],
			Publishers:      attrs["publishers"],
			ReleaseDate:     attrs["release_date"],
			MetacriticScore: attrs["metacritic_score"],
		})
	}
	return NewFashionProduct(name, price, image, link, FashionAttrs{
		Category: attrs["category"],
		Colors:   attrs["colors"],
	})
}
