package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hydrodrag/internal/config"
	"github.com/san-kum/hydrodrag/internal/observe"
	"github.com/san-kum/hydrodrag/internal/performance"
	"github.com/san-kum/hydrodrag/internal/sim"
)

type countMetric struct {
	count int
}

func (c *countMetric) Name() string         { return "count" }
func (c *countMetric) Observe(s sim.Sample) { c.count++ }
func (c *countMetric) Value() float64       { return float64(c.count) }
func (c *countMetric) Reset()               { c.count = 0 }

func preset(vessel, name string, duration float64) *config.Config {
	cfg := config.GetPreset(vessel, name)
	Expect(cfg).NotTo(BeNil())
	cfg.Duration = duration
	return cfg
}

var _ = Describe("Simulator", func() {
	var (
		store     *performance.Store
		recorder  *observe.Recorder
		simulator *sim.Simulator
	)

	BeforeEach(func() {
		store = performance.NewStore()
		recorder = &observe.Recorder{}
		simulator = sim.New(performance.NewResolver(store), sim.WithEngineObserver(recorder))
	})

	Describe("Run", func() {
		It("keeps a hull at rest floating at its design draft", func() {
			cfg := preset("cog", "calm", 5)
			cfg.Thrust = 0

			result, err := simulator.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(250))

			hull, _ := sim.LookupHull("cog")
			final := result.Final()
			Expect(final.Position.Y()).To(BeNumerically("~", hull.RestHeight(), 0.05))
			Expect(final.Speed).To(BeNumerically("~", 0, 1e-6))
			Expect(final.TableUsed).To(BeTrue())
		})

		It("reports the table build to the engine observer", func() {
			_, err := simulator.Run(context.Background(), preset("dhow", "calm", 1))
			Expect(err).NotTo(HaveOccurred())

			Expect(recorder.Tables).To(HaveLen(1))
			Expect(recorder.Tables[0].Err).NotTo(HaveOccurred())
			Expect(recorder.Tables[0].Mask).To(Equal("hull"))
			Expect(recorder.Forces).To(HaveLen(50))
		})

		It("accelerates under thrust against the drag", func() {
			result, err := simulator.Run(context.Background(), preset("cog", "calm", 20))
			Expect(err).NotTo(HaveOccurred())

			final := result.Final()
			Expect(final.Speed).To(BeNumerically(">", 1))
			Expect(final.Drag).To(BeNumerically("<", 0))

			speeds := result.Series(func(s sim.Sample) float64 { return s.Speed })
			Expect(speeds[len(speeds)-1]).To(BeNumerically(">", speeds[len(speeds)/2]))
		})

		It("slows a coasting hull", func() {
			result, err := simulator.Run(context.Background(), preset("cog", "coast", 10))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Final().Speed).To(BeNumerically("<", 4))
			Expect(result.Final().Speed).To(BeNumerically(">", 0))
		})

		It("rides through water sampling dropouts", func() {
			result, err := simulator.Run(context.Background(), preset("junk", "dropout", 3))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(BeEmpty())

			dropped := 0
			for _, s := range result.Samples {
				if !s.WaterSampled {
					dropped++
				}
			}
			Expect(dropped).To(BeNumerically(">", 0))
			Expect(result.Final().Draft).To(BeNumerically(">", 0))
		})

		It("applies the user mass multiplier", func() {
			store.SetUser(map[string]performance.Overrides{
				"BOAT medi small (40)": {MassMultiplier: performance.Float(2)},
			})
			result, err := simulator.Run(context.Background(), preset("cog", "calm", 0.1))
			Expect(err).NotTo(HaveOccurred())

			hull, _ := sim.LookupHull("cog")
			Expect(result.Mass).To(BeNumerically("~", 2*hull.Mass(), 1e-6))
			Expect(result.Class).To(Equal("BOAT medi small (40)"))
		})

		It("feeds metrics and observers every step", func() {
			metric := &countMetric{}
			steps := 0
			simulator.AddMetric(metric)
			simulator.AddObserver(sim.ObserverFunc(func(sim.Sample) { steps++ }))

			result, err := simulator.Run(context.Background(), preset("cog", "calm", 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("count", 50.0))
			Expect(steps).To(Equal(50))
		})

		It("holds the autopilot's target speed", func() {
			cfg := preset("cog", "cruise", 60)
			cfg.Water.Amplitude = 0

			result, err := simulator.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			final := result.Final()
			Expect(final.Speed).To(BeNumerically("~", 3, 0.3))
			Expect(final.Thrust).To(BeNumerically(">", 0))
			Expect(final.Thrust).To(BeNumerically("<=", cfg.Autopilot.MaxThrust))
		})

		It("steps with the configured integrator", func() {
			cfg := preset("cog", "calm", 1)
			cfg.Integrator = "euler"

			result, err := simulator.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(50))
			Expect(result.Final().Speed).To(BeNumerically(">", 0))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := simulator.Run(ctx, preset("cog", "calm", 10))
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.StepsTaken).To(BeZero())
		})

		DescribeTable("rejects invalid configs",
			func(cfg *config.Config) {
				_, err := simulator.Run(context.Background(), cfg)
				Expect(err).To(HaveOccurred())
			},
			Entry("nil", nil),
			Entry("zero dt", &config.Config{Vessel: "cog", Dt: 0, Duration: 1}),
			Entry("negative duration", &config.Config{Vessel: "cog", Dt: 0.02, Duration: -1}),
			Entry("unknown vessel", &config.Config{Vessel: "galleon", Dt: 0.02, Duration: 1}),
			Entry("unknown integrator", &config.Config{Vessel: "cog", Dt: 0.02, Duration: 1, Integrator: "rk4"}),
		)
	})

	Describe("Start", func() {
		It("gives concurrent sessions distinct vessels and parameters", func() {
			cog, err := simulator.Start(preset("cog", "calm", 1))
			Expect(err).NotTo(HaveOccurred())
			defer cog.Close()
			junk, err := simulator.Start(preset("junk", "calm", 1))
			Expect(err).NotTo(HaveOccurred())
			defer junk.Close()

			Expect(cog.Vessel()).NotTo(Equal(junk.Vessel()))

			resolver := simulator.Resolver()
			for _, ss := range []*sim.Session{cog, junk} {
				got := ss.Engine().Parameters(ss.Vessel(), ss.Class())
				want := resolver.Resolve(ss.Class())
				Expect(got.Class).To(Equal(want.Class))
				Expect(got.WaterlineLength).To(Equal(want.WaterlineLength))
				Expect(got.FormFactor).To(Equal(want.FormFactor))
			}
			Expect(cog.Engine().Parameters(cog.Vessel(), cog.Class()).WaterlineLength).
				NotTo(Equal(junk.Engine().Parameters(junk.Vessel(), junk.Class()).WaterlineLength))
		})

		It("keeps a live session's parameters when another closes", func() {
			cog, err := simulator.Start(preset("cog", "calm", 1))
			Expect(err).NotTo(HaveOccurred())
			defer cog.Close()
			junk, err := simulator.Start(preset("junk", "calm", 1))
			Expect(err).NotTo(HaveOccurred())

			store.SetUser(map[string]performance.Overrides{
				"BOAT medi small (40)": {WaterlineLength: performance.Float(99)},
			})
			before := cog.Engine().Parameters(cog.Vessel(), cog.Class()).WaterlineLength
			junk.Close()
			Expect(simulator.Registry().Alive(cog.Vessel())).To(BeTrue())
			Expect(cog.Engine().Parameters(cog.Vessel(), cog.Class()).WaterlineLength).To(Equal(before))
			Expect(before).NotTo(Equal(99.0))
		})
	})

	Describe("RunAll", func() {
		It("matches a solo run for every config", func() {
			cfgs := []*config.Config{
				preset("cog", "calm", 4),
				preset("dhow", "swell", 4),
				preset("junk", "calm", 4),
			}
			ensemble := sim.New(performance.NewResolver(store))
			results, err := ensemble.RunAll(context.Background(), cfgs)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))

			for i, r := range results {
				solo, err := sim.New(performance.NewResolver(store)).Run(context.Background(), cfgs[i])
				Expect(err).NotTo(HaveOccurred())

				Expect(r.Vessel).To(Equal(solo.Vessel))
				Expect(r.Class).To(Equal(solo.Class))
				Expect(r.StepsTaken).To(Equal(200))
				Expect(r.Mass).To(Equal(solo.Mass))
				Expect(r.Final().Speed).To(BeNumerically("~", solo.Final().Speed, 1e-9))
				Expect(r.Final().Drag).To(BeNumerically("~", solo.Final().Drag, 1e-9))
				Expect(r.Final().Position.Y()).To(BeNumerically("~", solo.Final().Position.Y(), 1e-9))
			}
			Expect(ensemble.Registry().Len()).To(BeZero())
		})
	})
})
