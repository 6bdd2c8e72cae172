package inmemory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/czestoguide/cityguide/pkg/vector"
	"github.com/czestoguide/cityguide/pkg/vector/inmemory"
)

func doc(id, category string) vector.Document {
	return vector.Document{
		ID:   id,
		Text: id + " text",
		Metadata: vector.Metadata{
			Name:     id,
			Category: category,
		},
	}
}

var _ = Describe("Driver", func() {
	var (
		ctx context.Context
		d   *inmemory.Driver
	)

	BeforeEach(func() {
		ctx = context.Background()
		d = inmemory.NewDriver()
	})

	Describe("Add", func() {
		It("stores documents with their embeddings", func() {
			docs := []vector.Document{doc("a", "cafe"), doc("b", "park")}
			embs := [][]float32{{1, 0}, {0, 1}}
			Expect(d.Add(ctx, docs, embs)).To(Succeed())

			count, err := d.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})

		It("replaces documents with the same ID", func() {
			Expect(d.Add(ctx, []vector.Document{doc("a", "cafe")}, [][]float32{{1, 0}})).To(Succeed())
			Expect(d.Add(ctx, []vector.Document{doc("a", "park")}, [][]float32{{0, 1}})).To(Succeed())

			count, err := d.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))

			categories, err := d.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(Equal([]string{"park"}))
		})

		It("rejects mismatched documents and embeddings", func() {
			err := d.Add(ctx, []vector.Document{doc("a", "cafe")}, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Query", func() {
		BeforeEach(func() {
			docs := []vector.Document{
				doc("exact", "cafe"),
				doc("close", "cafe"),
				doc("far", "park"),
			}
			embs := [][]float32{
				{1, 0},
				{0.9, 0.1},
				{0, 1},
			}
			Expect(d.Add(ctx, docs, embs)).To(Succeed())
		})

		It("returns nearest documents in ascending distance order", func() {
			results, err := d.Query(ctx, []float32{1, 0}, 3, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].ID).To(Equal("exact"))
			Expect(results[0].Distance).To(BeNumerically("~", 0, 0.001))
			Expect(results[1].ID).To(Equal("close"))
			Expect(results[2].ID).To(Equal("far"))
			Expect(results[2].Distance).To(BeNumerically("~", 1, 0.001))
		})

		It("limits results to topK", func() {
			results, err := d.Query(ctx, []float32{1, 0}, 2, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("applies the category filter", func() {
			results, err := d.Query(ctx, []float32{1, 0}, 10, &vector.Filter{Category: "park"})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].ID).To(Equal("far"))
		})

		It("treats mismatched embedding lengths as maximally distant", func() {
			results, err := d.Query(ctx, []float32{1, 0, 0}, 10, nil)
			Expect(err).NotTo(HaveOccurred())
			for _, r := range results {
				Expect(r.Distance).To(BeNumerically("~", 1, 0.001))
			}
		})
	})

	Describe("Categories", func() {
		It("returns sorted distinct categories", func() {
			docs := []vector.Document{doc("a", "park"), doc("b", "cafe"), doc("c", "cafe")}
			embs := [][]float32{{1}, {1}, {1}}
			Expect(d.Add(ctx, docs, embs)).To(Succeed())

			categories, err := d.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(Equal([]string{"cafe", "park"}))
		})

		It("is empty for an empty store", func() {
			categories, err := d.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(BeEmpty())
		})

		It("returns the same list on repeated calls", func() {
			docs := []vector.Document{doc("a", "park"), doc("b", "cafe")}
			embs := [][]float32{{1}, {1}}
			Expect(d.Add(ctx, docs, embs)).To(Succeed())

			first, err := d.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			second, err := d.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})
	})

	Describe("Reset", func() {
		It("removes all documents", func() {
			Expect(d.Add(ctx, []vector.Document{doc("a", "cafe")}, [][]float32{{1}})).To(Succeed())
			Expect(d.Reset(ctx)).To(Succeed())

			count, err := d.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})

	Describe("Interface compliance", func() {
		It("implements vector.Driver", func() {
			var _ vector.Driver = (*inmemory.Driver)(nil)
		})
	})
})
