package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/pipeline"
	testutils "github.com/czestoguide/cityguide/pkg/utils/test"
	"github.com/czestoguide/cityguide/pkg/vector"
)

var _ = Describe("Server", func() {
	var (
		server    *Server
		store     *testutils.MockVectorDriver
		generator *testutils.MockGenerator
	)

	BeforeEach(func() {
		store = testutils.NewMockVectorDriver()
		generator = testutils.NewMockGenerator()
		store.Results = []vector.QueryResult{
			{
				Document: vector.Document{
					ID:   "1",
					Text: "Jasna Góra is a monastery.",
					Metadata: vector.Metadata{
						Name:     "Jasna Góra",
						Category: "attraction",
						Rating:   4.8,
					},
				},
				Distance: 0.1,
			},
		}

		p := pipeline.New(context.Background(), pipeline.Config{
			Embedder:  testutils.NewMockEmbedder(),
			Store:     store,
			Generator: generator,
			Logger:    zap.NewNop(),
		})
		server = NewServer(Config{ListenAddr: ":0"}, p, zap.NewNop())
	})

	jsonRequest := func(method, target, body string) *http.Request {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	decodeBody := func(resp *http.Response) map[string]any {
		defer resp.Body.Close()
		var payload map[string]any
		Expect(json.NewDecoder(resp.Body).Decode(&payload)).To(Succeed())
		return payload
	}

	Describe("GET /ping", func() {
		It("responds with pong", func() {
			resp, err := server.app.Test(httptest.NewRequest("GET", "/ping", nil))
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.TrimSpace(string(body))).To(Equal(`"pong"`))
		})
	})

	Describe("POST /api/chat", func() {
		It("returns an answer with sources", func() {
			resp, err := server.app.Test(jsonRequest("POST", "/api/chat", `{"message": "What should I visit?"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			payload := decodeBody(resp)
			Expect(payload["answer"]).To(Equal("mock answer"))
			sources := payload["sources"].([]any)
			Expect(sources).To(HaveLen(1))
			Expect(sources[0].(map[string]any)["name"]).To(Equal("Jasna Góra"))
		})

		It("returns an empty sources array when include_sources is false", func() {
			resp, err := server.app.Test(jsonRequest("POST", "/api/chat", `{"message": "What should I visit?", "include_sources": false}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			payload := decodeBody(resp)
			Expect(payload["answer"]).To(Equal("mock answer"))
			Expect(payload["sources"]).To(BeEmpty())
		})

		It("passes the category filter through to retrieval", func() {
			resp, err := server.app.Test(jsonRequest("POST", "/api/chat", `{"message": "food?", "category": "restaurant"}`))
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(store.LastFilter).NotTo(BeNil())
			Expect(store.LastFilter.Category).To(Equal("restaurant"))
		})

		It("rejects an empty message", func() {
			resp, err := server.app.Test(jsonRequest("POST", "/api/chat", `{"message": "  "}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

			payload := decodeBody(resp)
			Expect(payload["error"]).To(Equal("no message provided"))
		})

		It("rejects a malformed body", func() {
			resp, err := server.app.Test(jsonRequest("POST", "/api/chat", `not json`))
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /api/chat/stream", func() {
		It("streams sources, answer fragments, and done as SSE", func() {
			generator.Chunks = []string{"Jasna ", "Góra."}

			resp, err := server.app.Test(jsonRequest("POST", "/api/chat/stream", `{"message": "What should I visit?"}`), -1)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("text/event-stream"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			raw := string(body)

			Expect(raw).To(ContainSubstring("event: sources\n"))
			Expect(raw).To(ContainSubstring("event: answer\n"))
			Expect(raw).To(ContainSubstring("event: done\n"))

			// Answer fragments arrive in generation order.
			first := strings.Index(raw, `"content":"Jasna "`)
			second := strings.Index(raw, `"content":"Góra."`)
			Expect(first).To(BeNumerically(">", -1))
			Expect(second).To(BeNumerically(">", first))
		})

		It("rejects an empty message before opening the stream", func() {
			resp, err := server.app.Test(jsonRequest("POST", "/api/chat/stream", `{"message": ""}`))
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /api/categories", func() {
		It("lists the categories in the index", func() {
			resp, err := server.app.Test(httptest.NewRequest("GET", "/api/categories", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			payload := decodeBody(resp)
			Expect(payload["categories"]).To(ConsistOf("attraction"))
		})
	})

	Describe("GET /api/status", func() {
		It("reports ready when documents are indexed", func() {
			resp, err := server.app.Test(httptest.NewRequest("GET", "/api/status", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			payload := decodeBody(resp)
			Expect(payload["status"]).To(Equal("ready"))
			Expect(payload["documents_indexed"]).To(BeNumerically("==", 1))
			Expect(payload["llm_available"]).To(BeTrue())
			Expect(payload["current_model"]).To(Equal("mock-model"))
		})

		It("reports no_data when the index is empty", func() {
			store.Results = nil
			resp, err := server.app.Test(httptest.NewRequest("GET", "/api/status", nil))
			Expect(err).NotTo(HaveOccurred())

			payload := decodeBody(resp)
			Expect(payload["status"]).To(Equal("no_data"))
		})
	})

	Describe("GET /api/models", func() {
		It("lists models with the current one marked", func() {
			generator.AvailableModels = []string{"mock-model", "mistral:7b"}

			resp, err := server.app.Test(httptest.NewRequest("GET", "/api/models", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			payload := decodeBody(resp)
			Expect(payload["models"]).To(ConsistOf("mock-model", "mistral:7b"))
			Expect(payload["current_model"]).To(Equal("mock-model"))
		})
	})

	Describe("POST /api/models/switch", func() {
		It("switches to an available model", func() {
			generator.AvailableModels = []string{"mock-model", "mistral:7b"}

			resp, err := server.app.Test(jsonRequest("POST", "/api/models/switch", `{"model": "mistral:7b"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			payload := decodeBody(resp)
			Expect(payload["success"]).To(BeTrue())
			Expect(payload["current_model"]).To(Equal("mistral:7b"))
			Expect(generator.Model).To(Equal("mistral:7b"))
		})

		It("rejects an unknown model", func() {
			resp, err := server.app.Test(jsonRequest("POST", "/api/models/switch", `{"model": "no-such-model"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

			payload := decodeBody(resp)
			Expect(payload["success"]).To(BeFalse())
			Expect(payload["error"]).To(ContainSubstring("no-such-model"))
		})

		It("rejects an empty model name", func() {
			resp, err := server.app.Test(jsonRequest("POST", "/api/models/switch", `{"model": ""}`))
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})
})
