package catalog

import (
	"fmt"
	"strings"
)

// FashionDocument renders the text embedded for a fashion product.
func FashionDocument(p Product) string {
	attrs := p.Fashion
	if attrs == nil {
		attrs = &FashionAttrs{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", p.Name)
	fmt.Fprintf(&b, "Category: %s\n", attrs.Category)
	fmt.Fprintf(&b, "Price: %s\n", p.Price)
	fmt.Fprintf(&b, "Available Colors: %s\n", attrs.Colors)
	fmt.Fprintf(&b, "Image URL: %s\n", p.ImageURL)
	fmt.Fprintf(&b, "Product Link: %s\n\n", p.ProductLink)
	fmt.Fprintf(&b, "This is a %s product called %q available for %s.\n", attrs.Category, p.Name, p.Price)
	fmt.Fprintf(&b, "It comes in the following colors: %s.", attrs.Colors)
	return b.String()
}

// GameDocument renders the text embedded for a game. categories and
// description are only used for retrieval and are not part of the Product.
func GameDocument(p Product, categories, description string) string {
	attrs := p.Gaming
	if attrs == nil {
		attrs = &GamingAttrs{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Game: %s\n", p.Name)
	fmt.Fprintf(&b, "Genres: %s\n", attrs.Genres)
	fmt.Fprintf(&b, "Categories: %s\n", categories)
	fmt.Fprintf(&b, "Price: %s\n", p.Price)
	fmt.Fprintf(&b, "Developers: %s\n", attrs.Developers)
	fmt.Fprintf(&b, "Publishers: %s\n", attrs.Publishers)
	fmt.Fprintf(&b, "Release Date: %s\n", attrs.ReleaseDate)
	fmt.Fprintf(&b, "Metacritic Score: %s\n", attrs.MetacriticScore)
	fmt.Fprintf(&b, "Image URL: %s\n", p.ImageURL)
	fmt.Fprintf(&b, "Website: %s\n", p.ProductLink)
	if description != "" {
		fmt.Fprintf(&b, "\nDescription: %s\n", description)
	}
	fmt.Fprintf(&b, "\nThis is a %s game called %q available for %s.\n", attrs.Genres, p.Name, p.Price)
	fmt.Fprintf(&b, "It was developed by %s and published by %s.\n", attrs.Developers, attrs.Publishers)
	fmt.Fprintf(&b, "It was released on %s and has a Metacritic score of %s.", attrs.ReleaseDate, attrs.MetacriticScore)
	return b.String()
}
