// Package poi models the points of interest the guide answers questions
// about, including OSM tag classification and the document text composed
// for embedding.
package poi

import (
	"fmt"
	"strings"
)

// Address is the POI's postal address as tagged in OSM.
type Address struct {
	Street      string `json:"street"`
	HouseNumber string `json:"housenumber"`
	City        string `json:"city"`
	Postcode    string `json:"postcode"`
}

// Contact holds the POI's contact details.
type Contact struct {
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Email   string `json:"email"`
}

// Review is one synthetic visitor review.
type Review struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Date   string `json:"date"`
}

// ReviewData aggregates a POI's reviews.
type ReviewData struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	TotalReviews  int      `json:"total_reviews"`
}

// POI is a single point of interest. The JSON layout matches the dataset
// files on disk, so fetched and enriched data round-trip unchanged.
type POI struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	NameEN       string      `json:"name_en"`
	Category     string      `json:"category"`
	Lat          float64     `json:"lat"`
	Lon          float64     `json:"lon"`
	Address      Address     `json:"address"`
	Contact      Contact     `json:"contact"`
	OpeningHours string      `json:"opening_hours"`
	Cuisine      string      `json:"cuisine"`
	Description  string      `json:"description"`
	Wikipedia    string      `json:"wikipedia"`
	Wikidata     string      `json:"wikidata"`
	ReviewData   *ReviewData `json:"review_data,omitempty"`
	DocumentText string      `json:"document_text,omitempty"`
}

// Well-known POI categories.
const (
	CategoryRestaurant    = "restaurant"
	CategoryCafe          = "cafe"
	CategoryMuseum        = "museum"
	CategoryHotel         = "hotel"
	CategoryAttraction    = "attraction"
	CategoryReligiousSite = "religious_site"
	CategoryPark          = "park"
	CategoryHistoricSite  = "historic_site"
	CategoryNightclub     = "nightclub"
	CategoryBar           = "bar"
	CategoryClothingStore = "clothing_store"
	CategoryShoppingMall  = "shopping_mall"
	CategoryShop          = "shop"
	CategoryOther         = "other"
)

// DetermineCategory classifies a POI from its OSM tags. More specific tags
// win over generic ones, so a historic restaurant stays a restaurant.
func DetermineCategory(tags map[string]string) string {
	switch {
	case tags["amenity"] == "restaurant":
		return CategoryRestaurant
	case tags["amenity"] == "cafe":
		return CategoryCafe
	case tags["tourism"] == "museum":
		return CategoryMuseum
	case tags["tourism"] == "hotel":
		return CategoryHotel
	case tags["tourism"] == "attraction":
		return CategoryAttraction
	case tags["amenity"] == "place_of_worship":
		return CategoryReligiousSite
	case tags["leisure"] == "park":
		return CategoryPark
	case tags["historic"] != "":
		return CategoryHistoricSite
	case tags["amenity"] == "nightclub":
		return CategoryNightclub
	case tags["amenity"] == "bar" || tags["amenity"] == "pub":
		return CategoryBar
	case tags["shop"] == "clothes" || tags["shop"] == "fashion" || tags["shop"] == "shoes":
		return CategoryClothingStore
	case tags["shop"] == "mall" || tags["shop"] == "department_store":
		return CategoryShoppingMall
	case tags["shop"] != "":
		return CategoryShop
	default:
		return CategoryOther
	}
}

// ComposeDocumentText builds the prose document that gets embedded for a
// POI. The layout is fixed so re-indexing the same dataset yields identical
// documents.
func (p *POI) ComposeDocumentText() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%s is a %s in Częstochowa, Poland.",
		p.Name, strings.ReplaceAll(p.Category, "_", " ")))

	if p.NameEN != "" && p.NameEN != p.Name {
		parts = append(parts, fmt.Sprintf("It is also known as %s.", p.NameEN))
	}

	if p.Address.Street != "" {
		address := p.Address.Street
		if p.Address.HouseNumber != "" {
			address += " " + p.Address.HouseNumber
		}
		parts = append(parts, fmt.Sprintf("It is located at %s.", address))
	}

	if p.OpeningHours != "" {
		parts = append(parts, fmt.Sprintf("Opening hours: %s.", p.OpeningHours))
	}

	if p.Cuisine != "" {
		cuisines := strings.ReplaceAll(strings.ReplaceAll(p.Cuisine, ";", ", "), "_", " ")
		parts = append(parts, fmt.Sprintf("The cuisine type is %s.", cuisines))
	}

	if p.Description != "" {
		parts = append(parts, p.Description)
	}

	if p.Contact.Website != "" {
		parts = append(parts, "Website: "+p.Contact.Website)
	}
	if p.Contact.Phone != "" {
		parts = append(parts, "Phone: "+p.Contact.Phone)
	}

	if p.ReviewData != nil && len(p.ReviewData.Reviews) > 0 {
		parts = append(parts, fmt.Sprintf("Average rating: %v/5 based on %d reviews.",
			p.ReviewData.AverageRating, p.ReviewData.TotalReviews))

		sample := p.ReviewData.Reviews
		if len(sample) > 2 {
			sample = sample[:2]
		}
		for _, r := range sample {
			parts = append(parts, fmt.Sprintf("Review (%d/5): %q", r.Rating, r.Text))
		}
	}

	return strings.Join(parts, " ")
}

// AverageRating returns the POI's average review rating, 0 when unreviewed.
func (p *POI) AverageRating() float64 {
	if p.ReviewData == nil {
		return 0
	}
	return p.ReviewData.AverageRating
}
