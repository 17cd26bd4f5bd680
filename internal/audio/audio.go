// Package audio turns contacts into sound: each responded contact strikes a
// short decaying voice whose loudness follows the impact speed.
package audio

import (
	"hash/fnv"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/collision"
	"github.com/san-kum/spherebounce/internal/particle"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	maxVoices = 32
	// decay is the voice envelope time constant in seconds.
	decay = 0.12
	// fullSpeed is the normal impact speed that plays at full volume.
	fullSpeed = 10.0
)

// G minor pentatonic, one note per collider.
var scale = []float64{196.00, 233.08, 261.63, 293.66, 349.23, 392.00, 466.16, 523.25}

type voice struct {
	freq, amp, time float64
}

// Processor is a contact observer and an audio callback. OnContact runs on
// the simulation goroutine and Process on the audio thread.
type Processor struct {
	mu      sync.Mutex
	pending []voice
	voices  []voice

	FilterState [2]float64
	DelayLine   [2][]float64
	DelayHead   int
	Volume      float64

	complexBuffer   []complex128
	bass, mid, high float64
}

func NewProcessor() *Processor {
	delayLen := int(float64(SampleRate) * 0.25)
	return &Processor{
		DelayLine:     [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
		Volume:        0.3,
		complexBuffer: make([]complex128, BufferSize),
	}
}

// Pitch maps a collider name onto the scale.
func Pitch(name string) float64 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return scale[h.Sum32()%uint32(len(scale))]
}

func (a *Processor) OnContact(p *particle.Particle, c *collider.Collider, contact collision.Contact) {
	// contact normals are collider-local
	n := c.Snapshot().Frame.ToWorldDirection(contact.Normal)
	speed := math.Abs(p.Velocity.Dot(n))
	amp := math.Min(speed/fullSpeed, 1)
	if amp < 0.01 {
		return
	}
	a.Strike(Pitch(c.Name), amp)
}

// Strike queues a voice for the next buffer.
func (a *Processor) Strike(freq, amp float64) {
	a.mu.Lock()
	a.pending = append(a.pending, voice{freq: freq, amp: amp})
	a.mu.Unlock()
}

// Voices is the number of voices still sounding.
func (a *Processor) Voices() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.voices) + len(a.pending)
}

// Levels returns the smoothed bass, mid and high band levels of the output.
func (a *Processor) Levels() (bass, mid, high float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bass, a.mid, a.high
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low pass filter.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills a stereo output buffer. It matches the portaudio callback
// signature for output-only streams.
func (a *Processor) Process(out [][]float32) {
	a.mu.Lock()
	a.voices = append(a.voices, a.pending...)
	a.pending = a.pending[:0]
	if len(a.voices) > maxVoices {
		a.voices = a.voices[len(a.voices)-maxVoices:]
	}
	voices := a.voices
	a.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	for i := range out[0] {
		sample := 0.0
		for j := range voices {
			v := &voices[j]
			env := math.Exp(-v.time / decay)
			sample += triangle(v.time*v.freq) * v.amp * env
			v.time += dt
		}

		a.FilterState[0] = lpf(sample, 1800, dt, a.FilterState[0])
		a.FilterState[1] = lpf(sample, 1500, dt, a.FilterState[1])

		delayL := a.DelayLine[0][a.DelayHead]
		delayR := a.DelayLine[1][a.DelayHead]
		mixL := a.FilterState[0] + delayL*0.3 + delayR*0.1
		mixR := a.FilterState[1] + delayR*0.3 + delayL*0.1
		a.DelayLine[0][a.DelayHead] = mixL * 0.5
		a.DelayLine[1][a.DelayHead] = mixR * 0.5
		a.DelayHead = (a.DelayHead + 1) % len(a.DelayLine[0])

		out[0][i] = float32(mixL * a.Volume)
		if len(out) > 1 {
			out[1][i] = float32(mixR * a.Volume)
		}
	}

	live := voices[:0]
	for _, v := range voices {
		if v.amp*math.Exp(-v.time/decay) > 1e-3 {
			live = append(live, v)
		}
	}

	bass, mid, high := a.analyze(out[0])

	a.mu.Lock()
	a.voices = live
	a.bass = a.bass*0.8 + bass*0.2
	a.mid = a.mid*0.8 + mid*0.2
	a.high = a.high*0.8 + high*0.2
	a.mu.Unlock()
}

// analyze splits the windowed spectrum of buf into three bands, each
// normalized to about [0, 1].
func (a *Processor) analyze(buf []float32) (bass, mid, high float64) {
	n := min(len(buf), len(a.complexBuffer))
	if n < 2 {
		return 0, 0, 0
	}
	for i := range a.complexBuffer {
		a.complexBuffer[i] = 0
	}
	for i := 0; i < n; i++ {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		a.complexBuffer[i] = complex(float64(buf[i])*window, 0)
	}
	spectrum := fft.FFT(a.complexBuffer)

	// bins are SampleRate/BufferSize ~ 43 Hz wide
	for i := 1; i < len(spectrum)/2; i++ {
		mag := cmplx.Abs(spectrum[i])
		switch {
		case i < 7:
			bass += mag
		case i < 24:
			mid += mag
		default:
			high += mag
		}
	}
	norm := float64(n) / 4
	return math.Min(bass/norm, 1), math.Min(mid/norm, 1), math.Min(high/norm, 1)
}
