package config_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/UladRH/quotes-assignment-task/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Config", func() {
	Describe("NewDefaultConfig", func() {
		It("carries the documented engine tunables", func() {
			d := config.NewDefaultConfig()

			Expect(d.Engine.MaxRerollAttempts).To(Equal(3))
			Expect(d.Engine.HighRatedChance).To(Equal(0.1))
			Expect(d.Engine.NewUserHighRatedChance).To(Equal(0.7))
			Expect(d.Engine.NewUserRollThreshold).To(Equal(30))
			Expect(d.Engine.SmoothingAlpha).To(Equal(1.0))
			Expect(d.Engine.SmoothingBeta).To(Equal(10.0))
			Expect(d.Engine.CandidatePoolSize).To(Equal(30))
			Expect(d.Engine.RecentHistoryLimit).To(Equal(20))
			Expect(d.Engine.SimilarMaxLimit).To(Equal(5))
		})

		It("points the catalog at DummyJSON", func() {
			Expect(config.NewDefaultConfig().Catalog.BaseURL).To(Equal("https://dummyjson.com"))
		})

		It("defaults embeddings to 768 dimensions", func() {
			Expect(config.NewDefaultConfig().Vector.Dimensions).To(Equal(uint(768)))
		})
	})

	Describe("InitViper and Load", func() {
		It("resolves defaults when no file or env overrides exist", func() {
			v, err := config.InitViper("")
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.API.Listen).To(Equal(":8080"))
			Expect(cfg.Engine.CandidatePoolSize).To(Equal(30))
		})

		It("lets environment variables override defaults", func() {
			GinkgoT().Setenv("QUOTES_API_LISTEN", ":9999")

			v, err := config.InitViper("")
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.API.Listen).To(Equal(":9999"))
		})

		It("errors on an explicitly named but missing config file", func() {
			_, err := config.InitViper("does-not-exist.yaml")
			Expect(err).To(HaveOccurred())
		})
	})
})
