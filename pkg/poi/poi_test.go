package poi_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/czestoguide/cityguide/pkg/poi"
)

var _ = Describe("DetermineCategory", func() {
	DescribeTable("classifies OSM tags",
		func(tags map[string]string, expected string) {
			Expect(poi.DetermineCategory(tags)).To(Equal(expected))
		},
		Entry("restaurant", map[string]string{"amenity": "restaurant"}, poi.CategoryRestaurant),
		Entry("cafe", map[string]string{"amenity": "cafe"}, poi.CategoryCafe),
		Entry("museum", map[string]string{"tourism": "museum"}, poi.CategoryMuseum),
		Entry("hotel", map[string]string{"tourism": "hotel"}, poi.CategoryHotel),
		Entry("attraction", map[string]string{"tourism": "attraction"}, poi.CategoryAttraction),
		Entry("place of worship", map[string]string{"amenity": "place_of_worship"}, poi.CategoryReligiousSite),
		Entry("park", map[string]string{"leisure": "park"}, poi.CategoryPark),
		Entry("any historic value", map[string]string{"historic": "castle"}, poi.CategoryHistoricSite),
		Entry("nightclub", map[string]string{"amenity": "nightclub"}, poi.CategoryNightclub),
		Entry("bar", map[string]string{"amenity": "bar"}, poi.CategoryBar),
		Entry("pub counts as bar", map[string]string{"amenity": "pub"}, poi.CategoryBar),
		Entry("clothes shop", map[string]string{"shop": "clothes"}, poi.CategoryClothingStore),
		Entry("shoe shop", map[string]string{"shop": "shoes"}, poi.CategoryClothingStore),
		Entry("mall", map[string]string{"shop": "mall"}, poi.CategoryShoppingMall),
		Entry("department store", map[string]string{"shop": "department_store"}, poi.CategoryShoppingMall),
		Entry("generic shop", map[string]string{"shop": "bakery"}, poi.CategoryShop),
		Entry("nothing recognizable", map[string]string{"building": "yes"}, poi.CategoryOther),
		Entry("no tags at all", map[string]string{}, poi.CategoryOther),
	)

	It("prefers the specific amenity over a historic tag", func() {
		tags := map[string]string{"amenity": "restaurant", "historic": "building"}
		Expect(poi.DetermineCategory(tags)).To(Equal(poi.CategoryRestaurant))
	})
})

var _ = Describe("ComposeDocumentText", func() {
	It("describes a bare POI with its name and category", func() {
		p := &poi.POI{Name: "Bar Mleczny", Category: poi.CategoryRestaurant}
		Expect(p.ComposeDocumentText()).To(Equal("Bar Mleczny is a restaurant in Częstochowa, Poland."))
	})

	It("replaces underscores in the category with spaces", func() {
		p := &poi.POI{Name: "Jasna Góra", Category: poi.CategoryReligiousSite}
		Expect(p.ComposeDocumentText()).To(HavePrefix("Jasna Góra is a religious site in Częstochowa, Poland."))
	})

	It("mentions the English name only when it differs", func() {
		same := &poi.POI{Name: "Ratusz", NameEN: "Ratusz", Category: poi.CategoryHistoricSite}
		Expect(same.ComposeDocumentText()).NotTo(ContainSubstring("also known as"))

		differs := &poi.POI{Name: "Ratusz", NameEN: "Town Hall", Category: poi.CategoryHistoricSite}
		Expect(differs.ComposeDocumentText()).To(ContainSubstring("It is also known as Town Hall."))
	})

	It("joins street and house number in the address sentence", func() {
		p := &poi.POI{
			Name:     "Cafe Skwer",
			Category: poi.CategoryCafe,
			Address:  poi.Address{Street: "Aleja NMP", HouseNumber: "12"},
		}
		Expect(p.ComposeDocumentText()).To(ContainSubstring("It is located at Aleja NMP 12."))
	})

	It("expands the cuisine list tag into readable prose", func() {
		p := &poi.POI{
			Name:     "U Braci",
			Category: poi.CategoryRestaurant,
			Cuisine:  "polish;regional_food",
		}
		Expect(p.ComposeDocumentText()).To(ContainSubstring("The cuisine type is polish, regional food."))
	})

	It("includes opening hours, website, and phone when present", func() {
		p := &poi.POI{
			Name:         "Muzeum Monet",
			Category:     poi.CategoryMuseum,
			OpeningHours: "Mo-Fr 09:00-17:00",
			Contact:      poi.Contact{Website: "https://example.pl", Phone: "+48 123 456 789"},
		}
		text := p.ComposeDocumentText()
		Expect(text).To(ContainSubstring("Opening hours: Mo-Fr 09:00-17:00."))
		Expect(text).To(ContainSubstring("Website: https://example.pl"))
		Expect(text).To(ContainSubstring("Phone: +48 123 456 789"))
	})

	It("summarizes reviews and quotes at most two of them", func() {
		p := &poi.POI{
			Name:     "Hotel Polonia",
			Category: poi.CategoryHotel,
			ReviewData: &poi.ReviewData{
				Reviews: []poi.Review{
					{Rating: 5, Text: "Great stay."},
					{Rating: 4, Text: "Nice rooms."},
					{Rating: 3, Text: "Average."},
				},
				AverageRating: 4.0,
				TotalReviews:  3,
			},
		}
		text := p.ComposeDocumentText()
		Expect(text).To(ContainSubstring("Average rating: 4/5 based on 3 reviews."))
		Expect(text).To(ContainSubstring(`Review (5/5): "Great stay."`))
		Expect(text).To(ContainSubstring(`Review (4/5): "Nice rooms."`))
		Expect(text).NotTo(ContainSubstring("Average."))
	})

	It("is deterministic for the same POI", func() {
		p := &poi.POI{Name: "Park 3 Maja", Category: poi.CategoryPark, OpeningHours: "24/7"}
		Expect(p.ComposeDocumentText()).To(Equal(p.ComposeDocumentText()))
	})
})

var _ = Describe("AverageRating", func() {
	It("returns zero for an unreviewed POI", func() {
		p := &poi.POI{Name: "Nowy Lokal"}
		Expect(p.AverageRating()).To(BeZero())
	})

	It("returns the aggregated rating when reviews exist", func() {
		p := &poi.POI{ReviewData: &poi.ReviewData{AverageRating: 4.3}}
		Expect(p.AverageRating()).To(Equal(4.3))
	})
})
