package ollama_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/czestoguide/cityguide/pkg/llm"
	"github.com/czestoguide/cityguide/pkg/llm/ollama"
)

// tagsHandler serves /api/tags with the given model names.
func tagsHandler(names ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		models := make([]map[string]string, 0, len(names))
		for _, n := range names {
			models = append(models, map[string]string{"name": n})
		}
		json.NewEncoder(w).Encode(map[string]any{"models": models})
	}
}

var _ = Describe("Generator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("IsAvailable", func() {
		It("is true when the exact model is offered", func() {
			server := httptest.NewServer(tagsHandler("gemma:7b", "mistral:7b"))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL, Model: "gemma:7b"})
			Expect(g.IsAvailable(ctx)).To(BeTrue())
		})

		It("is true when a tagged variant of the base name is offered", func() {
			server := httptest.NewServer(tagsHandler("gemma:latest"))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL, Model: "gemma:7b"})
			Expect(g.IsAvailable(ctx)).To(BeTrue())
		})

		It("is false when the model is missing", func() {
			server := httptest.NewServer(tagsHandler("llama2:7b"))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL, Model: "gemma:7b"})
			Expect(g.IsAvailable(ctx)).To(BeFalse())
		})

		It("is false when Ollama is unreachable", func() {
			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: "http://127.0.0.1:1", Model: "gemma:7b"})
			Expect(g.IsAvailable(ctx)).To(BeFalse())
		})

		It("is false when Ollama returns an error status", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			}))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL})
			Expect(g.IsAvailable(ctx)).To(BeFalse())
		})
	})

	Describe("Models", func() {
		It("lists model names from /api/tags", func() {
			server := httptest.NewServer(tagsHandler("gemma:7b", "mistral:7b"))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL})
			names, err := g.Models(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"gemma:7b", "mistral:7b"}))
		})
	})

	Describe("SetModel", func() {
		It("switches to an offered model", func() {
			server := httptest.NewServer(tagsHandler("gemma:7b", "mistral:7b"))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL})
			Expect(g.SetModel(ctx, "mistral:7b")).To(Succeed())
			Expect(g.CurrentModel()).To(Equal("mistral:7b"))
		})

		It("rejects a model Ollama does not offer", func() {
			server := httptest.NewServer(tagsHandler("gemma:7b"))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL})
			err := g.SetModel(ctx, "nonexistent:1b")
			Expect(err).To(HaveOccurred())
			Expect(g.CurrentModel()).To(Equal(ollama.DefaultModel))
		})
	})

	Describe("Generate", func() {
		It("sends the grounded prompt and returns the trimmed answer", func() {
			var gotBody map[string]any
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/generate"))
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				json.NewEncoder(w).Encode(map[string]any{
					"response": "  Visit Jasna Góra.  ",
					"done":     true,
				})
			}))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL, Model: "gemma:7b"})
			answer, err := g.Generate(ctx, "What should I visit?", "[Source 1]: Jasna Góra is a monastery.")
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("Visit Jasna Góra."))

			Expect(gotBody["model"]).To(Equal("gemma:7b"))
			Expect(gotBody["stream"]).To(BeFalse())
			Expect(gotBody["prompt"]).To(Equal(llm.BuildRAGPrompt("What should I visit?", "[Source 1]: Jasna Góra is a monastery.")))

			options := gotBody["options"].(map[string]any)
			Expect(options["temperature"]).To(BeNumerically("~", 0.7, 0.001))
			Expect(options["num_predict"]).To(BeNumerically("==", 500))
		})

		It("fails when Ollama returns an error status", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
			}))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL})
			_, err := g.Generate(ctx, "question", "context")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("model not loaded"))
		})
	})

	Describe("GenerateStream", func() {
		It("delivers NDJSON fragments in order and stops at done", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req["stream"]).To(BeTrue())

				fmt.Fprintln(w, `{"response": "Jasna ", "done": false}`)
				fmt.Fprintln(w, `{"response": "Góra ", "done": false}`)
				fmt.Fprintln(w, `{"response": "is famous.", "done": true}`)
				fmt.Fprintln(w, `{"response": "ignored after done", "done": false}`)
			}))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL})

			var chunks []string
			err := g.GenerateStream(ctx, "question", "context", func(chunk string) error {
				chunks = append(chunks, chunk)
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(chunks).To(Equal([]string{"Jasna ", "Góra ", "is famous."}))
		})

		It("propagates a callback error", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, `{"response": "chunk", "done": false}`)
				fmt.Fprintln(w, `{"response": "never seen", "done": true}`)
			}))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL})
			err := g.GenerateStream(ctx, "question", "context", func(string) error {
				return fmt.Errorf("client gone")
			})
			Expect(err).To(MatchError(ContainSubstring("client gone")))
		})

		It("skips empty fragments", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, `{"response": "", "done": false}`)
				fmt.Fprintln(w, `{"response": "only chunk", "done": true}`)
			}))
			defer server.Close()

			g := ollama.NewGenerator(ollama.GeneratorConfig{BaseURL: server.URL})

			var chunks []string
			err := g.GenerateStream(ctx, "question", "context", func(chunk string) error {
				chunks = append(chunks, chunk)
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(chunks).To(Equal([]string{"only chunk"}))
		})
	})

	Describe("Interface compliance", func() {
		It("implements llm.Generator", func() {
			var _ llm.Generator = (*ollama.Generator)(nil)
		})
	})
})
