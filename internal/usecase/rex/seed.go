package rex

import domrex "github.com/kailas-cloud/rex/internal/domain/rex"

type seedTemplate struct {
	title       string
	category    string
	description string
	tags        []string
}

var seedTemplates = []seedTemplate{
	{"Best Sushi in Town", "Restaurant", "Fresh nigiri and creative rolls.", []string{"sushi", "japanese", "dinner"}},
	{"Morning Coffee Spot", "Restaurant", "Fantastic espresso and pastries.", []string{"coffee", "breakfast"}},
	{"Hydrating Face Serum", "Beauty", "Lightweight, absorbs quickly.", []string{"skincare", "serum"}},
	{"Everyday Moisturizer", "Beauty", "Non-greasy, great under makeup.", []string{"moisturizer"}},
	{"Classic White Sneakers", "Clothing", "Comfortable and versatile.", []string{"shoes", "casual"}},
	{"Rain Jacket", "Clothing", "Waterproof and breathable.", []string{"outerwear", "travel"}},
	{"Noise-Canceling Headphones", "Electronics", "Great sound and ANC.", []string{"audio", "work"}},
	{"Portable Charger", "Electronics", "Fast charging on the go.", []string{"battery", "travel"}},
	{"Cookbook: Weeknight Meals", "Books", "Simple, tasty recipes.", []string{"cooking", "easy"}},
	{"Yoga Mat", "Fitness", "Non-slip, easy to clean.", []string{"yoga", "home-gym"}},
}

// SeedDrafts returns the sample rex for a user.
func SeedDrafts(userID string) []domrex.Draft {
	out := make([]domrex.Draft, len(seedTemplates))
	for i, t := range seedTemplates {
		out[i] = domrex.Draft{
			UserID:      userID,
			Title:       t.title,
			Category:    t.category,
			Description: t.description,
			Tags:        append([]string(nil), t.tags...),
		}
	}
	return out
}
