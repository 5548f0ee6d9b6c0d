package quotes_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/UladRH/quotes-assignment-task/pkg/config"
	"github.com/UladRH/quotes-assignment-task/pkg/eventstream"
	"github.com/UladRH/quotes-assignment-task/pkg/quotes"
	testutils "github.com/UladRH/quotes-assignment-task/pkg/utils/test"
)

func TestQuotesService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Quotes Service Suite")
}

var _ = Describe("Service", func() {
	var (
		catalogMock *testutils.MockCatalog
		statsMock   *testutils.MockStatsDriver
		similarMock *testutils.MockSimilarDriver
		events      *testutils.MockPublisher
		ctx         context.Context
	)

	engineDefaults := config.NewDefaultConfig().Engine

	newService := func(draw float64) *quotes.Service {
		svc, err := quotes.NewService(&quotes.Options{
			Catalog: catalogMock,
			Stats:   statsMock,
			Similar: similarMock,
			Events:  events,
			Engine:  engineDefaults,
			Rand:    func() float64 { return draw },
			Logger:  zap.NewNop(),
		})
		Expect(err).NotTo(HaveOccurred())
		return svc
	}

	intPtr := func(n int) *int { return &n }

	BeforeEach(func() {
		ctx = context.Background()
		catalogMock = testutils.NewMockCatalog()
		statsMock = testutils.NewMockStatsDriver()
		similarMock = testutils.NewMockSimilarDriver()
		events = testutils.NewMockPublisher()

		catalogMock.AddQuote("1", "first", "a1")
		catalogMock.AddQuote("2", "second", "a2")
		catalogMock.AddQuote("3", "third", "a3")
		catalogMock.AddQuote("hot", "crowd favorite", "a4")
		catalogMock.RandomIDs = []string{"1", "2", "3"}
	})

	Describe("NewService", func() {
		It("requires all collaborators", func() {
			_, err := quotes.NewService(&quotes.Options{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RollQuote", func() {
		Context("for a new user with a winning draw", func() {
			It("serves the high-rated candidate when it resolves", func() {
				statsMock.PickResult = "hot"

				q, err := newService(0.1).RollQuote(ctx, nil, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(q.QuoteID).To(Equal("hot"))
				Expect(statsMock.Impressions).To(Equal([]string{"hot"}))
			})

			It("falls back to explore when the candidate pool is empty", func() {
				statsMock.PickResult = ""

				q, err := newService(0.1).RollQuote(ctx, nil, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(q.QuoteID).To(Equal("1"))
				Expect(statsMock.Impressions).To(Equal([]string{"1"}))
			})

			It("falls back silently when the picker errors", func() {
				statsMock.PickErr = errors.New("ledger unavailable")

				q, err := newService(0.1).RollQuote(ctx, nil, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(q.QuoteID).To(Equal("1"))
			})

			It("falls back when the candidate body does not resolve", func() {
				statsMock.PickResult = "hot"
				catalogMock.FailOn = "hot"

				q, err := newService(0.1).RollQuote(ctx, nil, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(q.QuoteID).To(Equal("1"))
			})

			It("passes the exclusions to the picker", func() {
				statsMock.PickResult = "hot"

				_, err := newService(0.1).RollQuote(ctx, []string{"9", "8"}, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(statsMock.PickExcludes).To(Equal([]string{"9", "8"}))
			})
		})

		Context("user classification", func() {
			It("treats a nil roll count as a new user", func() {
				// draw 0.5 wins only against the boosted 0.7 chance
				statsMock.PickResult = "hot"

				q, err := newService(0.5).RollQuote(ctx, nil, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(q.QuoteID).To(Equal("hot"))
			})

			It("treats a count at the threshold as a new user", func() {
				statsMock.PickResult = "hot"

				q, err := newService(0.5).RollQuote(ctx, nil, intPtr(30))
				Expect(err).NotTo(HaveOccurred())
				Expect(q.QuoteID).To(Equal("hot"))
			})

			It("uses the base chance for established users", func() {
				statsMock.PickResult = "hot"

				q, err := newService(0.5).RollQuote(ctx, nil, intPtr(31))
				Expect(err).NotTo(HaveOccurred())
				Expect(q.QuoteID).To(Equal("1"))
			})

			It("still exploits for established users on a low draw", func() {
				statsMock.PickResult = "hot"

				q, err := newService(0.05).RollQuote(ctx, nil, intPtr(100))
				Expect(err).NotTo(HaveOccurred())
				Expect(q.QuoteID).To(Equal("hot"))
			})
		})

		Context("explore path", func() {
			It("returns the first non-excluded quote", func() {
				q, err := newService(0.9).RollQuote(ctx, []string{"1"}, intPtr(50))
				Expect(err).NotTo(HaveOccurred())
				Expect(q.QuoteID).To(Equal("2"))
				Expect(catalogMock.RandomCalls).To(Equal(2))
			})

			It("returns the last fetched quote when every attempt is excluded", func() {
				q, err := newService(0.9).RollQuote(ctx, []string{"1", "2", "3"}, intPtr(50))
				Expect(err).NotTo(HaveOccurred())
				Expect(q.QuoteID).To(Equal("3"))
				Expect(catalogMock.RandomCalls).To(Equal(3))
			})

			It("propagates catalog failures", func() {
				catalogMock.RandomErr = errors.New("catalog down")

				_, err := newService(0.9).RollQuote(ctx, nil, intPtr(50))
				Expect(err).To(HaveOccurred())
			})
		})

		It("records exactly one impression per successful roll", func() {
			_, err := newService(0.9).RollQuote(ctx, nil, intPtr(50))
			Expect(err).NotTo(HaveOccurred())
			Expect(statsMock.Impressions).To(HaveLen(1))
		})

		It("propagates impression recording failures", func() {
			statsMock.ImpressionErr = errors.New("ledger down")

			_, err := newService(0.9).RollQuote(ctx, nil, intPtr(50))
			Expect(err).To(HaveOccurred())
		})

		It("publishes an impression event for the chosen quote", func() {
			_, err := newService(0.9).RollQuote(ctx, nil, intPtr(50))
			Expect(err).NotTo(HaveOccurred())
			Expect(events.Events).To(HaveLen(1))
			Expect(events.Events[0].EventType).To(Equal(eventstream.EventTypeImpression))
			Expect(events.Events[0].QuoteID).To(Equal("1"))
		})
	})

	Describe("GetQuoteByID", func() {
		It("returns the quote and records an impression", func() {
			q, err := newService(0).GetQuoteByID(ctx, "2")
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Text).To(Equal("second"))
			Expect(statsMock.Impressions).To(Equal([]string{"2"}))
		})

		It("propagates not-found without recording anything", func() {
			_, err := newService(0).GetQuoteByID(ctx, "404")
			Expect(err).To(HaveOccurred())
			Expect(statsMock.Impressions).To(BeEmpty())
		})
	})

	Describe("GetSimilarQuotes", func() {
		BeforeEach(func() {
			similarMock.Neighbors["1"] = []string{"2", "3", "hot"}
		})

		It("hydrates the neighbor ids in order", func() {
			result, err := newService(0).GetSimilarQuotes(ctx, "1", 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(3))
			Expect(result[0].QuoteID).To(Equal("2"))
			Expect(result[1].QuoteID).To(Equal("3"))
			Expect(result[2].QuoteID).To(Equal("hot"))
		})

		It("drops ids whose bodies fail to resolve, preserving order", func() {
			catalogMock.FailOn = "3"

			result, err := newService(0).GetSimilarQuotes(ctx, "1", 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(2))
			Expect(result[0].QuoteID).To(Equal("2"))
			Expect(result[1].QuoteID).To(Equal("hot"))
		})

		It("records impressions only for resolved quotes", func() {
			catalogMock.FailOn = "3"

			_, err := newService(0).GetSimilarQuotes(ctx, "1", 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(statsMock.Impressions).To(ConsistOf("2", "hot"))
		})

		It("short-circuits a non-positive limit", func() {
			result, err := newService(0).GetSimilarQuotes(ctx, "1", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())
		})

		It("returns empty for a quote without an embedding", func() {
			result, err := newService(0).GetSimilarQuotes(ctx, "unknown", 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())
		})

		It("propagates finder failures", func() {
			similarMock.FindErr = errors.New("vec store down")

			_, err := newService(0).GetSimilarQuotes(ctx, "1", 3)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Like and Unlike", func() {
		It("reports changed=true then changed=false for a repeat like", func() {
			svc := newService(0)

			first, err := svc.Like(ctx, "user-1", "2")
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Changed).To(BeTrue())
			Expect(first.IsLiked).To(BeTrue())
			Expect(first.LikesCount).To(Equal(int64(1)))

			second, err := svc.Like(ctx, "user-1", "2")
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Changed).To(BeFalse())
			Expect(second.LikesCount).To(Equal(int64(1)))
		})

		It("reports IsLiked=false on unlike regardless of changed", func() {
			svc := newService(0)

			summary, err := svc.Unlike(ctx, "user-1", "2")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.IsLiked).To(BeFalse())
			Expect(summary.Changed).To(BeFalse())
		})

		It("publishes like events only when state changed", func() {
			svc := newService(0)

			_, err := svc.Like(ctx, "user-1", "2")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Like(ctx, "user-1", "2")
			Expect(err).NotTo(HaveOccurred())

			likeEvents := 0
			for _, e := range events.Events {
				if e.EventType == eventstream.EventTypeLike {
					likeEvents++
					Expect(e.ActorID).To(Equal("user-1"))
				}
			}
			Expect(likeEvents).To(Equal(1))
		})
	})
})
