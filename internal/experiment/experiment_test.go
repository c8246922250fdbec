package experiment_test

import (
	"context"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/san-kum/heatsim/internal/diffusion"
	"github.com/san-kum/heatsim/internal/experiment"
)

func smallConfig(stepper string) experiment.Config {
	cfg := experiment.DefaultConfig()
	cfg.Rows = 40
	cfg.Cols = 30
	cfg.Stepper = stepper
	return cfg
}

type sleepingObserver struct {
	delay time.Duration
}

func (s sleepingObserver) OnStep(f *diffusion.Field, step int) { time.Sleep(s.delay) }

type countingObserver struct {
	steps []int
}

func (c *countingObserver) OnStep(f *diffusion.Field, step int) {
	c.steps = append(c.steps, step)
}

var _ = Describe("Config", func() {
	It("defaults to the 640x640 tutorial setup", func() {
		cfg := experiment.DefaultConfig()
		Expect(cfg.Rows).To(Equal(640))
		Expect(cfg.Cols).To(Equal(640))
		Expect(cfg.BlockLow).To(Equal(0.4))
		Expect(cfg.BlockHigh).To(Equal(0.5))
		Expect(cfg.SeedValue).To(Equal(0.005))
		Expect(cfg.Dt).To(Equal(0.1))
		Expect(cfg.D).To(Equal(1.0))
		Expect(cfg.Stepper).To(Equal("loop"))
		Expect(cfg.Validate()).To(Succeed())
	})

	DescribeTable("rejects invalid settings",
		func(mutate func(*experiment.Config), want error) {
			cfg := experiment.DefaultConfig()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(want))
		},
		Entry("zero rows", func(c *experiment.Config) { c.Rows = 0 }, diffusion.ErrInvalidArgument),
		Entry("negative cols", func(c *experiment.Config) { c.Cols = -4 }, diffusion.ErrInvalidArgument),
		Entry("inverted block", func(c *experiment.Config) { c.BlockLow, c.BlockHigh = 0.6, 0.5 }, diffusion.ErrInvalidArgument),
		Entry("block past the edge", func(c *experiment.Config) { c.BlockHigh = 1.5 }, diffusion.ErrInvalidArgument),
		Entry("NaN dt", func(c *experiment.Config) { c.Dt = math.NaN() }, diffusion.ErrInvalidValue),
		Entry("infinite D", func(c *experiment.Config) { c.D = math.Inf(1) }, diffusion.ErrInvalidValue),
		Entry("NaN seed", func(c *experiment.Config) { c.SeedValue = math.NaN() }, diffusion.ErrInvalidValue),
	)

	It("accepts negative coefficients", func() {
		cfg := experiment.DefaultConfig()
		cfg.Dt, cfg.D = -0.1, -1
		Expect(cfg.Validate()).To(Succeed())
	})
})

var _ = Describe("InitialField", func() {
	It("seeds the block from 40% to 50% of each axis", func() {
		f, err := experiment.InitialField(experiment.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		Expect(f.At(256, 256)).To(Equal(0.005))
		Expect(f.At(319, 319)).To(Equal(0.005))
		Expect(f.At(255, 256)).To(BeZero())
		Expect(f.At(320, 300)).To(BeZero())
		Expect(f.Sum()).To(BeNumerically("~", 64*64*0.005, 1e-9))
	})

	It("uses separate bounds for rectangular grids", func() {
		cfg := smallConfig("loop")
		f, err := experiment.InitialField(cfg)
		Expect(err).NotTo(HaveOccurred())

		// rows [16, 20), cols [12, 15)
		Expect(f.Sum()).To(BeNumerically("~", 4*3*0.005, 1e-15))
		Expect(f.At(16, 12)).To(Equal(0.005))
		Expect(f.At(19, 14)).To(Equal(0.005))
		Expect(f.At(19, 15)).To(BeZero())
	})
})

var _ = Describe("Experiment", func() {
	var registry *experiment.Registry

	BeforeEach(func() {
		registry = experiment.NewRegistry()
	})

	It("requires Setup before Run", func() {
		_, err := experiment.New(smallConfig("loop")).Run(context.Background(), 1)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a negative iteration count", func() {
		exp, err := registry.NewFromConfig(smallConfig("loop"), false)
		Expect(err).NotTo(HaveOccurred())

		_, err = exp.Run(context.Background(), -1)
		Expect(err).To(MatchError(diffusion.ErrInvalidArgument))
	})

	It("returns the seeded field unchanged for zero iterations", func() {
		exp, err := registry.NewFromConfig(smallConfig("loop"), false)
		Expect(err).NotTo(HaveOccurred())

		res, err := exp.Run(context.Background(), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Iterations).To(BeZero())
		Expect(res.Final.Equal(res.Initial)).To(BeTrue())
		Expect(res.Elapsed.Seconds()).To(BeNumerically("<", 0.01))
	})

	for _, name := range []string{"loop", "shift", "parallel"} {
		name := name
		Context("with the "+name+" stepper", func() {
			It("conserves mass", func() {
				exp, err := registry.NewFromConfig(smallConfig(name), true)
				Expect(err).NotTo(HaveOccurred())

				res, err := exp.Run(context.Background(), 25)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Iterations).To(Equal(25))
				Expect(res.Stepper).To(Equal(name))

				m0 := res.Initial.Sum()
				Expect(math.Abs(res.Final.Sum()-m0) / m0).To(BeNumerically("<", 1e-9))
				Expect(res.Metrics).To(HaveKeyWithValue("mass_drift", BeNumerically("<", 1e-9)))
				Expect(res.Metrics).To(HaveKeyWithValue("stability", 1.0))
			})

			It("is deterministic", func() {
				a, err := registry.NewFromConfig(smallConfig(name), false)
				Expect(err).NotTo(HaveOccurred())
				b, err := registry.NewFromConfig(smallConfig(name), false)
				Expect(err).NotTo(HaveOccurred())

				ra, err := a.Run(context.Background(), 10)
				Expect(err).NotTo(HaveOccurred())
				rb, err := b.Run(context.Background(), 10)
				Expect(err).NotTo(HaveOccurred())
				Expect(ra.Final.Equal(rb.Final)).To(BeTrue())
			})
		})
	}

	It("produces matching fields across steppers", func() {
		var finals []*diffusion.Field
		for _, name := range registry.ListSteppers() {
			exp, err := registry.NewFromConfig(smallConfig(name), false)
			Expect(err).NotTo(HaveOccurred())
			res, err := exp.Run(context.Background(), 15)
			Expect(err).NotTo(HaveOccurred())
			finals = append(finals, res.Final)
		}
		for _, f := range finals[1:] {
			d, err := finals[0].MaxAbsDiff(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(BeNumerically("<", 1e-12))
		}
	})

	It("matches repeated Evolve calls", func() {
		cfg := smallConfig("shift")
		exp, err := registry.NewFromConfig(cfg, false)
		Expect(err).NotTo(HaveOccurred())
		res, err := exp.Run(context.Background(), 5)
		Expect(err).NotTo(HaveOccurred())

		f := res.Initial
		for i := 0; i < 5; i++ {
			f, err = diffusion.Evolve(diffusion.NewShiftStepper(), f, cfg.Dt, cfg.D)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(f.Equal(res.Final)).To(BeTrue())
	})

	It("leaves the field unchanged when D is zero", func() {
		cfg := smallConfig("loop")
		cfg.D = 0
		exp, err := registry.NewFromConfig(cfg, false)
		Expect(err).NotTo(HaveOccurred())

		res, err := exp.Run(context.Background(), 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Final.Equal(res.Initial)).To(BeTrue())
	})

	It("notifies observers for the seed and every step", func() {
		exp, err := registry.NewFromConfig(smallConfig("loop"), false)
		Expect(err).NotTo(HaveOccurred())
		obs := &countingObserver{}
		exp.AddObserver(obs)

		_, err = exp.Run(context.Background(), 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.steps).To(Equal([]int{0, 1, 2, 3}))
	})

	It("times only the stepper, not metrics or observers", func() {
		exp, err := registry.NewFromConfig(smallConfig("loop"), true)
		Expect(err).NotTo(HaveOccurred())
		exp.AddObserver(sleepingObserver{delay: 5 * time.Millisecond})

		start := time.Now()
		res, err := exp.Run(context.Background(), 10)
		Expect(err).NotTo(HaveOccurred())
		wall := time.Since(start)

		Expect(wall).To(BeNumerically(">=", 50*time.Millisecond))
		Expect(res.Elapsed).To(BeNumerically(">", 0))
		Expect(res.Elapsed).To(BeNumerically("<", 25*time.Millisecond))
	})

	It("reports comparable times with and without the default metrics", func() {
		cfg := smallConfig("loop")
		cfg.Rows, cfg.Cols = 200, 200
		bare, err := registry.NewFromConfig(cfg, false)
		Expect(err).NotTo(HaveOccurred())
		measured, err := registry.NewFromConfig(cfg, true)
		Expect(err).NotTo(HaveOccurred())

		var withMetrics, without time.Duration
		for i := 0; i < 3; i++ {
			rb, err := bare.Run(context.Background(), 20)
			Expect(err).NotTo(HaveOccurred())
			rm, err := measured.Run(context.Background(), 20)
			Expect(err).NotTo(HaveOccurred())
			without += rb.Elapsed
			withMetrics += rm.Elapsed
		}
		Expect(float64(withMetrics) / float64(without)).To(BeNumerically("<", 2.0))
	})

	It("logs through the configured logger", func() {
		logger, hook := logtest.NewNullLogger()
		logger.SetLevel(log.DebugLevel)

		exp, err := registry.NewFromConfig(smallConfig("shift"), false)
		Expect(err).NotTo(HaveOccurred())
		exp.SetLogger(logger.WithField("command", "test"))

		_, err = exp.Run(context.Background(), 2)
		Expect(err).NotTo(HaveOccurred())

		Expect(hook.Entries).To(HaveLen(2))
		Expect(hook.Entries[0].Message).To(Equal("experiment started"))
		last := hook.LastEntry()
		Expect(last.Message).To(Equal("experiment finished"))
		Expect(last.Data).To(HaveKeyWithValue("stepper", "shift"))
		Expect(last.Data).To(HaveKeyWithValue("command", "test"))
	})

	It("stops between steps when the context is canceled", func() {
		exp, err := registry.NewFromConfig(smallConfig("loop"), false)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := exp.Run(ctx, 100)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Iterations).To(BeZero())
		Expect(res.Final).NotTo(BeNil())
	})

	It("flags instability when D*dt exceeds a quarter", func() {
		cfg := smallConfig("loop")
		cfg.Dt = 0.5
		exp, err := registry.NewFromConfig(cfg, true)
		Expect(err).NotTo(HaveOccurred())

		res, err := exp.Run(context.Background(), 20)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics["stability"]).To(BeNumerically("<", 1.0))
	})
})

var _ = Describe("Registry", func() {
	It("lists the built-in steppers in order", func() {
		Expect(experiment.NewRegistry().ListSteppers()).To(Equal([]string{"loop", "parallel", "shift"}))
	})

	It("rejects unknown steppers", func() {
		_, err := experiment.NewRegistry().GetStepper("fft")
		Expect(err).To(MatchError(ContainSubstring("unknown stepper")))

		_, err = experiment.NewRegistry().NewFromConfig(smallConfig("fft"), false)
		Expect(err).To(HaveOccurred())
	})

	It("accepts custom steppers", func() {
		r := experiment.NewRegistry()
		r.Register("rows4", func() diffusion.Stepper { return diffusion.NewParallelStepper(4) })
		s, err := r.GetStepper("rows4")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Name()).To(Equal("parallel"))
	})
})

var _ = Describe("RunExperiment", func() {
	It("reports elapsed seconds for the default grid", func() {
		secs, err := experiment.RunExperiment(2)
		Expect(err).NotTo(HaveOccurred())
		Expect(secs).To(BeNumerically(">", 0))
	})

	It("rejects negative iterations", func() {
		_, err := experiment.RunExperiment(-3)
		Expect(err).To(MatchError(diffusion.ErrInvalidArgument))
	})
})
