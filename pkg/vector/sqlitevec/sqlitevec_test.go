package sqlitevec_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/vector"
	"github.com/czestoguide/cityguide/pkg/vector/sqlitevec"
)

var _ = Describe("Driver", func() {
	var (
		ctx    context.Context
		driver *sqlitevec.Driver
	)

	newDoc := func(id, name, category, text string) vector.Document {
		return vector.Document{
			ID:   id,
			Text: text,
			Metadata: vector.Metadata{
				Name:     name,
				Category: category,
				Lat:      50.81,
				Lon:      19.12,
				Rating:   4.5,
			},
		}
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		driver, err = sqlitevec.NewDriver(sqlitevec.Config{DBPath: ":memory:", Dimensions: 4}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		driver.Close()
	})

	Describe("NewDriver", func() {
		It("requires a database path", func() {
			_, err := sqlitevec.NewDriver(sqlitevec.Config{Dimensions: 4}, zap.NewNop())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database path is required"))
		})

		It("requires the embedding dimensions to be configured", func() {
			_, err := sqlitevec.NewDriver(sqlitevec.Config{DBPath: ":memory:"}, zap.NewNop())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("dimensions cannot be 0"))
		})

		It("creates the database file on disk", func() {
			tmpDir, err := os.MkdirTemp("", "sqlitevec-test-*")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(func() { os.RemoveAll(tmpDir) })

			dbPath := filepath.Join(tmpDir, "pois.db")
			d, err := sqlitevec.NewDriver(sqlitevec.Config{DBPath: dbPath, Dimensions: 4}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())
			defer d.Close()

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Add", func() {
		It("is a no-op for an empty batch", func() {
			Expect(driver.Add(ctx, nil, nil)).To(Succeed())

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("rejects mismatched documents and embeddings", func() {
			err := driver.Add(ctx, []vector.Document{newDoc("1", "a", "cafe", "t")}, nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("length mismatch"))
		})

		It("stores documents with their embeddings", func() {
			docs := []vector.Document{
				newDoc("1", "Jasna Góra", "religious_site", "Jasna Góra is a monastery."),
				newDoc("2", "Pierogarnia", "restaurant", "Pierogarnia serves pierogi."),
			}
			embs := [][]float32{
				{1, 0, 0, 0},
				{0, 1, 0, 0},
			}
			Expect(driver.Add(ctx, docs, embs)).To(Succeed())

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})

		It("replaces an existing document with the same ID", func() {
			doc := newDoc("1", "Old Name", "cafe", "old text")
			Expect(driver.Add(ctx, []vector.Document{doc}, [][]float32{{1, 0, 0, 0}})).To(Succeed())

			doc.Metadata.Name = "New Name"
			doc.Text = "new text"
			Expect(driver.Add(ctx, []vector.Document{doc}, [][]float32{{0, 1, 0, 0}})).To(Succeed())

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))

			results, err := driver.Query(ctx, []float32{0, 1, 0, 0}, 1, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Metadata.Name).To(Equal("New Name"))
			Expect(results[0].Text).To(Equal("new text"))
		})
	})

	Describe("Query", func() {
		BeforeEach(func() {
			docs := []vector.Document{
				newDoc("1", "Jasna Góra", "religious_site", "Jasna Góra is a monastery."),
				newDoc("2", "Pierogarnia", "restaurant", "Pierogarnia serves pierogi."),
				newDoc("3", "Cafe Centrum", "cafe", "Cafe Centrum serves coffee."),
			}
			embs := [][]float32{
				{1, 0, 0, 0},
				{0, 1, 0, 0},
				{0.9, 0.1, 0, 0},
			}
			Expect(driver.Add(ctx, docs, embs)).To(Succeed())
		})

		It("returns the nearest documents ordered by distance", func() {
			results, err := driver.Query(ctx, []float32{1, 0, 0, 0}, 2, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))

			Expect(results[0].ID).To(Equal("1"))
			Expect(results[1].ID).To(Equal("3"))
			Expect(results[0].Distance).To(BeNumerically("<=", results[1].Distance))
		})

		It("carries metadata through the join", func() {
			results, err := driver.Query(ctx, []float32{0, 1, 0, 0}, 1, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))

			Expect(results[0].Metadata.Name).To(Equal("Pierogarnia"))
			Expect(results[0].Metadata.Category).To(Equal("restaurant"))
			Expect(results[0].Metadata.Lat).To(BeNumerically("~", 50.81, 0.001))
			Expect(results[0].Metadata.Rating).To(BeNumerically("~", 4.5, 0.001))
		})

		It("respects the category filter", func() {
			results, err := driver.Query(ctx, []float32{1, 0, 0, 0}, 3, &vector.Filter{Category: "restaurant"})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].ID).To(Equal("2"))
		})

		It("returns no results for a filter matching nothing", func() {
			results, err := driver.Query(ctx, []float32{1, 0, 0, 0}, 3, &vector.Filter{Category: "museum"})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})

		It("limits results to topK", func() {
			results, err := driver.Query(ctx, []float32{1, 0, 0, 0}, 1, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})
	})

	Describe("Categories", func() {
		It("returns sorted distinct categories", func() {
			docs := []vector.Document{
				newDoc("1", "a", "restaurant", "t"),
				newDoc("2", "b", "cafe", "t"),
				newDoc("3", "c", "restaurant", "t"),
			}
			embs := [][]float32{
				{1, 0, 0, 0},
				{0, 1, 0, 0},
				{0, 0, 1, 0},
			}
			Expect(driver.Add(ctx, docs, embs)).To(Succeed())

			categories, err := driver.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(Equal([]string{"cafe", "restaurant"}))
		})

		It("returns nothing for an empty index", func() {
			categories, err := driver.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(BeEmpty())
		})
	})

	Describe("Reset", func() {
		It("removes all documents and embeddings", func() {
			doc := newDoc("1", "a", "cafe", "t")
			Expect(driver.Add(ctx, []vector.Document{doc}, [][]float32{{1, 0, 0, 0}})).To(Succeed())

			Expect(driver.Reset(ctx)).To(Succeed())

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())

			results, err := driver.Query(ctx, []float32{1, 0, 0, 0}, 3, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})

	Describe("Interface compliance", func() {
		It("implements vector.Driver", func() {
			var _ vector.Driver = (*sqlitevec.Driver)(nil)
		})
	})
})
