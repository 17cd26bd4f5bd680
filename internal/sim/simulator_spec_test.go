package sim_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/particle"
	"github.com/san-kum/spherebounce/internal/sim"
	"github.com/san-kum/spherebounce/internal/transform"
)

var ball = particle.Template{Name: "ball", Mass: 1, Scale: 1}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

var _ = Describe("Simulator", func() {
	var host *dynamo.NopHost

	BeforeEach(func() {
		host = dynamo.NewNopHost("ball")
	})

	Describe("construction", func() {
		It("rejects non-positive mass", func() {
			for _, m := range []float64{0, -1} {
				_, err := sim.New(host, nil, sim.Options{
					Template: particle.Template{Name: "ball", Mass: m, Scale: 1},
					Period:   1, Capacity: 1,
				})
				Expect(errors.Is(err, dynamo.ErrNonPositiveMass)).To(BeTrue())
			}
		})

		It("rejects a zero capacity and a zero period", func() {
			_, err := sim.New(host, nil, sim.Options{Template: ball, Period: 1, Capacity: 0})
			Expect(errors.Is(err, dynamo.ErrInvalidCapacity)).To(BeTrue())

			_, err = sim.New(host, nil, sim.Options{Template: ball, Period: 0, Capacity: 1})
			Expect(errors.Is(err, dynamo.ErrInvalidPeriod)).To(BeTrue())
		})
	})

	Describe("Advance", func() {
		It("integrates with the pre-update velocity", func() {
			s, err := sim.New(host, nil, sim.Options{
				Template:      ball,
				Period:        100,
				EmitOnStart:   true,
				Capacity:      1,
				ConstantForce: mgl64.Vec3{0, -9.8, 0},
				Logger:        quietLogger(),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Advance(1)).To(Succeed())
			p := s.Particles()[0]
			Expect(p.Velocity).To(Equal(mgl64.Vec3{0, -9.8, 0}))
			Expect(p.Position).To(Equal(mgl64.Vec3{0, 0, 0}))

			Expect(s.Advance(1)).To(Succeed())
			Expect(p.Position).To(Equal(mgl64.Vec3{0, -9.8, 0}))
			Expect(p.Velocity).To(Equal(mgl64.Vec3{0, -19.6, 0}))
		})

		It("rejects a non-positive dt without touching state", func() {
			s, _ := sim.New(host, nil, sim.Options{Template: ball, Period: 0.1, EmitOnStart: true, Capacity: 2})

			Expect(errors.Is(s.Advance(0), dynamo.ErrInvalidTimestep)).To(BeTrue())
			Expect(errors.Is(s.Advance(-0.1), dynamo.ErrInvalidTimestep)).To(BeTrue())
			Expect(s.Len()).To(Equal(0))
			Expect(s.Time()).To(BeZero())
			Expect(s.Emitter().Countdown()).To(BeZero())
		})

		It("bounces a falling particle off a floor", func() {
			floor := collider.NewPlane("floor",
				transform.New(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{10, 1, 10}),
				mgl64.Vec2{}, 1)
			s, _ := sim.New(host, sim.Colliders{floor}, sim.Options{
				Template:        ball,
				Emitter:         transform.New(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}),
				Period:          100,
				InitialVelocity: mgl64.Vec3{0, -5, 0},
				EmitOnStart:     true,
				Capacity:        1,
			})

			Expect(s.Advance(0.1)).To(Succeed())
			p := s.Particles()[0]
			Expect(p.Position.Y()).To(BeNumerically("~", 0.5, 1e-12))
			Expect(p.Velocity.Y()).To(BeNumerically("~", 5, 1e-12))
			Expect(s.Stats().Contacts).To(Equal(1))

			Expect(s.Advance(0.1)).To(Succeed())
			Expect(p.Position.Y()).To(BeNumerically("~", 1, 1e-12))
			Expect(s.Stats().Contacts).To(Equal(1))
		})
	})

	Describe("pool capacity", func() {
		It("never exceeds the cap and recycles one proxy per spawn", func() {
			s, _ := sim.New(host, nil, sim.Options{
				Template: ball, Period: 0.1, EmitOnStart: true, Capacity: 3,
			})

			for i := 0; i < 10; i++ {
				before := host.Destroyed
				Expect(s.Advance(0.1)).To(Succeed())
				Expect(s.Len()).To(BeNumerically("<=", 3))
				Expect(host.Live()).To(Equal(s.Len()))
				if i >= 3 {
					Expect(host.Destroyed - before).To(Equal(1))
					Expect(s.Len()).To(Equal(3))
				}
			}
			Expect(s.Stats().Spawned).To(Equal(10))
			Expect(s.Stats().Recycled).To(Equal(7))
		})

		It("releases the oldest particles when shrunk", func() {
			s, _ := sim.New(host, nil, sim.Options{
				Template: ball, Period: 0.1, EmitOnStart: true, Capacity: 5,
			})
			for i := 0; i < 5; i++ {
				Expect(s.Advance(0.1)).To(Succeed())
			}
			newest := s.Particles()[4]

			Expect(s.SetCapacity(2)).To(Succeed())
			Expect(s.Len()).To(Equal(2))
			Expect(host.Live()).To(Equal(2))
			Expect(s.Particles()[1]).To(BeIdenticalTo(newest))
		})

		It("releases everything on Close", func() {
			s, _ := sim.New(host, nil, sim.Options{
				Template: ball, Period: 0.1, EmitOnStart: true, Capacity: 4,
			})
			for i := 0; i < 6; i++ {
				Expect(s.Advance(0.1)).To(Succeed())
			}
			s.Close()
			Expect(host.Live()).To(BeZero())
			Expect(host.Destroyed).To(Equal(6))
		})
	})

	Describe("missing proxy template", func() {
		It("warns once and keeps simulating without a visual", func() {
			var buf bytes.Buffer
			s, _ := sim.New(dynamo.NewNopHost("cube"), nil, sim.Options{
				Template:      ball,
				Period:        0.1,
				EmitOnStart:   true,
				Capacity:      4,
				ConstantForce: mgl64.Vec3{0, -1, 0},
				Logger:        slog.New(slog.NewTextHandler(&buf, nil)),
			})

			for i := 0; i < 4; i++ {
				Expect(s.Advance(0.1)).To(Succeed())
			}
			Expect(s.Len()).To(Equal(4))
			for _, p := range s.Particles() {
				Expect(p.HasProxy()).To(BeFalse())
			}
			Expect(s.Particles()[0].Velocity.Y()).To(BeNumerically("<", 0))
			Expect(strings.Count(buf.String(), "proxy spawn failed")).To(Equal(1))
		})
	})

	Describe("restitution above one", func() {
		It("is accepted with a warning", func() {
			var buf bytes.Buffer
			bumper := collider.NewSphere("bumper", transform.Identity(), 1.5)
			_, err := sim.New(host, sim.Colliders{bumper}, sim.Options{
				Template: ball, Period: 1, Capacity: 1,
				Logger: slog.New(slog.NewTextHandler(&buf, nil)),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("bumper"))
		})
	})

	Describe("tunables", func() {
		It("applies mass and scale to later spawns only", func() {
			s, _ := sim.New(host, nil, sim.Options{
				Template: ball, Period: 0.1, EmitOnStart: true, Capacity: 4,
			})
			Expect(s.Advance(0.1)).To(Succeed())

			Expect(s.SetMass(2)).To(Succeed())
			Expect(s.SetScale(0.5)).To(Succeed())
			Expect(s.Advance(0.1)).To(Succeed())

			ps := s.Particles()
			Expect(ps[0].Mass).To(Equal(1.0))
			Expect(ps[1].Mass).To(Equal(2.0))
			Expect(ps[1].Radius()).To(Equal(0.25))

			Expect(errors.Is(s.SetMass(0), dynamo.ErrNonPositiveMass)).To(BeTrue())
			Expect(errors.Is(s.SetScale(-1), dynamo.ErrNonPositiveScale)).To(BeTrue())
			Expect(s.Template().Mass).To(Equal(2.0))
		})

		It("retunes forces between ticks", func() {
			s, _ := sim.New(host, nil, sim.Options{
				Template: ball, Period: 100, EmitOnStart: true, Capacity: 1,
				InitialVelocity: mgl64.Vec3{1, 0, 0},
			})
			s.SetDragCoefficient(1)
			s.SetConstantForce(mgl64.Vec3{0, -2, 0})
			Expect(s.Advance(0.5)).To(Succeed())

			p := s.Particles()[0]
			Expect(p.Velocity.X()).To(BeNumerically("~", 0.5, 1e-12))
			Expect(p.Velocity.Y()).To(BeNumerically("~", -1, 1e-12))
		})
	})
})
