package sim_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/dynamo"
	"github.com/san-kum/spherefall/internal/headless"
	"github.com/san-kum/spherefall/internal/metrics"
	"github.com/san-kum/spherefall/internal/physics"
	"github.com/san-kum/spherefall/internal/sim"
)

var _ = Describe("Simulation", func() {
	var (
		cfg   *config.Config
		host  *headless.Host
		clock *sim.ManualClock
		rec   *metrics.Recorder
		s     *sim.Simulation
	)

	BeforeEach(func() {
		cfg = config.Default()
		cfg.Limits.MaxSpheres = 3
		host = headless.NewHost(dynamo.Viewport{Width: 640, Height: 480})
		clock = sim.NewManualClock(1.0 / 60.0)
		rec = metrics.NewRecorder(metrics.Standard()...)
	})

	JustBeforeEach(func() {
		var err error
		s, err = sim.Start(host, cfg, sim.WithClock(clock), sim.WithObserver(rec))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		s.Destroy()
	})

	It("starts running with only the ground in the world", func() {
		Expect(s.State()).To(Equal(sim.Running))
		Expect(s.World().BodyCount()).To(Equal(1))
		Expect(host.Pending()).To(Equal(1))
	})

	It("drops clicked spheres onto the floor", func() {
		host.Click(320, 300)
		Expect(s.Pool().Len()).To(Equal(1))

		e := s.Pool().Entries()[0]
		start, _ := s.World().Transform(e.Body)
		Expect(start.Y()).To(Equal(cfg.Physics.SpawnHeight))

		// restitution 0.82 takes several seconds of bouncing to settle
		host.Pump(15 * 60)

		pos, _ := s.World().Transform(e.Body)
		Expect(pos.Y()).To(BeNumerically("~", cfg.SpawnPlaneY(), 0.02))

		mesh, ok := host.Renderer().Mesh(e.Mesh)
		Expect(ok).To(BeTrue())
		Expect(mesh.Position).To(Equal(pos))
	})

	It("keeps bodies and meshes paired under eviction", func() {
		for i := 0; i < 7; i++ {
			host.Click(200+float64(i)*40, 300)
			host.Pump(5)
			Expect(s.Pool().Len()).To(BeNumerically("<=", 3))
			Expect(s.World().BodyCount() - 1).To(Equal(host.Renderer().Live()))
		}
		Expect(s.Pool().Len()).To(Equal(3))
		Expect(rec.Summary().Values["evicted"]).To(Equal(4.0))
		Expect(rec.Summary().Values["peak_live"]).To(Equal(3.0))
	})

	It("sheds time when a frame overruns", func() {
		clock.Push(5)
		host.Pump(1)

		Expect(s.Leftover()).To(BeZero())
		Expect(s.LastStats().SubSteps).To(Equal(cfg.Physics.MaxSubSteps))
		Expect(s.LastStats().DriftReset).To(BeTrue())
		Expect(s.World().(*physics.World).Time()).To(BeNumerically("~", 4.0/60.0, 1e-12))
	})

	It("forwards resizes to the renderer", func() {
		vp := dynamo.Viewport{Width: 320, Height: 200}
		host.Resize(vp)
		Expect(host.Renderer().Viewport).To(Equal(vp))
	})

	Context("when spawning is disabled", func() {
		BeforeEach(func() {
			cfg.Limits.MaxSpheres = 0
		})

		It("ignores clicks", func() {
			host.Click(320, 300)
			Expect(s.Pool().Len()).To(BeZero())
			Expect(s.World().BodyCount()).To(Equal(1))
		})
	})

	Context("after Destroy", func() {
		JustBeforeEach(func() {
			host.Click(320, 300)
			host.Pump(2)
			s.Destroy()
		})

		It("releases everything once", func() {
			r := host.Renderer()
			Expect(s.State()).To(Equal(sim.Stopped))
			Expect(r.Disposals).To(Equal(1))
			Expect(r.Removed).To(Equal(1))
			Expect(s.World().BodyCount()).To(BeZero())
			Expect(host.Pending()).To(BeZero())
			Expect(host.Listeners()).To(BeZero())

			s.Destroy()
			Expect(r.Disposals).To(Equal(1))
			Expect(r.Removed).To(Equal(1))
		})

		It("stops drawing and spawning", func() {
			draws := host.Renderer().Draws
			host.Pump(10)
			host.Click(320, 300)
			Expect(host.Renderer().Draws).To(Equal(draws))
			_, err := s.SpawnAt(mgl64.Vec3{})
			Expect(err).To(MatchError(dynamo.ErrStopped))
		})
	})
})
