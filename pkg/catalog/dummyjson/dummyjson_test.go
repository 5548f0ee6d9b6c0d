package dummyjson_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/UladRH/quotes-assignment-task/pkg/catalog"
	"github.com/UladRH/quotes-assignment-task/pkg/catalog/dummyjson"
)

func TestDummyJSON(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DummyJSON Catalog Suite")
}

var _ = Describe("Client", func() {
	var (
		server *httptest.Server
		client *dummyjson.Client
		ctx    context.Context
	)

	newServer := func(handler http.HandlerFunc) {
		server = httptest.NewServer(handler)
		client = dummyjson.NewClient(dummyjson.Config{BaseURL: server.URL}, zap.NewNop())
	}

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	Describe("GetByID", func() {
		It("maps the wire quote into the domain type", func() {
			newServer(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/quotes/363"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":363,"quote":"Simplicity is the soul of efficiency.","author":"Austin Freeman"}`))
			})

			q, err := client.GetByID(ctx, "363")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.QuoteID).To(Equal("363"))
			Expect(q.Text).To(Equal("Simplicity is the soul of efficiency."))
			Expect(q.Author).To(Equal("Austin Freeman"))
		})

		It("rejects non-numeric ids without calling upstream", func() {
			newServer(func(w http.ResponseWriter, r *http.Request) {
				Fail("upstream should not be called")
			})

			_, err := client.GetByID(ctx, "abc")
			Expect(errors.Is(err, catalog.ErrInvalidID)).To(BeTrue())
		})

		It("rejects non-positive ids", func() {
			newServer(func(w http.ResponseWriter, r *http.Request) {
				Fail("upstream should not be called")
			})

			_, err := client.GetByID(ctx, "0")
			Expect(errors.Is(err, catalog.ErrInvalidID)).To(BeTrue())
		})

		It("maps a 404 to ErrNotFound", func() {
			newServer(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			})

			_, err := client.GetByID(ctx, "999999")
			Expect(errors.Is(err, catalog.ErrNotFound)).To(BeTrue())
		})

		It("maps other failures to ErrUpstream", func() {
			newServer(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			})

			_, err := client.GetByID(ctx, "1")
			Expect(errors.Is(err, catalog.ErrUpstream)).To(BeTrue())
		})
	})

	Describe("GetRandom", func() {
		It("fetches from the random endpoint", func() {
			newServer(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/quotes/random"))
				_, _ = w.Write([]byte(`{"id":7,"quote":"q","author":"a"}`))
			})

			q, err := client.GetRandom(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(q.QuoteID).To(Equal("7"))
		})
	})

	Describe("GetPage", func() {
		It("passes limit and skip through and maps the page", func() {
			newServer(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/quotes"))
				Expect(r.URL.Query().Get("limit")).To(Equal("2"))
				Expect(r.URL.Query().Get("skip")).To(Equal("4"))
				_, _ = w.Write([]byte(`{"quotes":[{"id":5,"quote":"x","author":"y"},{"id":6,"quote":"z","author":"w"}],"total":1454,"skip":4,"limit":2}`))
			})

			page, err := client.GetPage(ctx, 2, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Quotes).To(HaveLen(2))
			Expect(page.Quotes[0].QuoteID).To(Equal("5"))
			Expect(page.Total).To(Equal(1454))
			Expect(page.Skip).To(Equal(4))
			Expect(page.Limit).To(Equal(2))
		})

		It("omits pagination params when zero", func() {
			newServer(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.RawQuery).To(BeEmpty())
				_, _ = w.Write([]byte(`{"quotes":[],"total":0,"skip":0,"limit":0}`))
			})

			_, err := client.GetPage(ctx, 0, 0)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
