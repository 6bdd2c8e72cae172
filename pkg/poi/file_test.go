package poi_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/czestoguide/cityguide/pkg/poi"
)

var _ = Describe("dataset files", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "poi-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("Save and Load", func() {
		It("round-trips a dataset including review data", func() {
			pois := []poi.POI{
				{
					ID:       1,
					Name:     "Jasna Góra",
					Category: poi.CategoryReligiousSite,
					Lat:      50.8128,
					Lon:      19.0972,
					ReviewData: &poi.ReviewData{
						Reviews:       []poi.Review{{Rating: 5, Text: "Stunning.", Date: "2024-05-01"}},
						AverageRating: 5,
						TotalReviews:  1,
					},
					DocumentText: "Jasna Góra is a religious site in Częstochowa, Poland.",
				},
				{ID: 2, Name: "Pierogarnia", Category: poi.CategoryRestaurant},
			}

			path := filepath.Join(tmpDir, poi.EnrichedFilename)
			Expect(poi.Save(path, pois)).To(Succeed())

			loaded, err := poi.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(pois))
		})

		It("creates missing parent directories on save", func() {
			path := filepath.Join(tmpDir, "nested", "deeper", poi.RawFilename)
			Expect(poi.Save(path, []poi.POI{{ID: 1, Name: "X", Category: "other"}})).To(Succeed())

			_, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
		})

		It("fails to load a missing file", func() {
			_, err := poi.Load(filepath.Join(tmpDir, "missing.json"))
			Expect(err).To(HaveOccurred())
		})

		It("fails to load malformed JSON", func() {
			path := filepath.Join(tmpDir, "bad.json")
			Expect(os.WriteFile(path, []byte("{oops"), 0o644)).To(Succeed())
			_, err := poi.Load(path)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CountByCategory", func() {
		It("tallies POIs per category", func() {
			pois := []poi.POI{
				{Category: poi.CategoryRestaurant},
				{Category: poi.CategoryRestaurant},
				{Category: poi.CategoryPark},
			}
			counts := poi.CountByCategory(pois)
			Expect(counts).To(HaveKeyWithValue(poi.CategoryRestaurant, 2))
			Expect(counts).To(HaveKeyWithValue(poi.CategoryPark, 1))
		})
	})
})
