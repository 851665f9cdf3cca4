package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

type wave int

const (
	waveSine wave = iota
	waveSquare
	waveSaw
)

// tone is a finite oscillator whose frequency glides linearly between two
// values over its lifetime. Phase accumulates per sample so the glide
// stays continuous.
type tone struct {
	from  float64
	to    float64
	shape wave
	phase float64
	pos   int
	total int
	rate  beep.SampleRate
}

func newTone(from, to float64, d time.Duration, shape wave, rate beep.SampleRate) beep.Streamer {
	return &tone{from: from, to: to, shape: shape, total: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, false
		}

		progress := float64(t.pos) / float64(t.total)
		freq := t.from + (t.to-t.from)*progress

		var v float64
		switch t.shape {
		case waveSquare:
			if t.phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		case waveSaw:
			v = 2*t.phase - 1
		default:
			v = math.Sin(2 * math.Pi * t.phase)
		}
		samples[i][0] = v
		samples[i][1] = v

		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// noise is a finite white-noise burst. A local LCG keeps the stream off
// the global rand lock.
type noise struct {
	state uint64
	pos   int
	total int
}

func newNoise(d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &noise{
		state: uint64(time.Now().UnixNano()) | 1, //#nosec G115 -- seed material
		total: rate.N(d),
	}
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if n.pos >= n.total {
			return i, false
		}
		n.state = n.state*6364136223846793005 + 1442695040888963407
		v := float64(n.state>>11)/float64(1<<53)*2 - 1
		samples[i][0] = v
		samples[i][1] = v
		n.pos++
	}
	return len(samples), true
}

func (n *noise) Err() error { return nil }

// warble is a finite siren: a sine carrier whose pitch wobbles around a
// center frequency.
type warble struct {
	center   float64
	depth    float64
	wobbleHz float64
	phase    float64
	pos      int
	total    int
	rate     beep.SampleRate
}

func newWarble(center, depth, wobbleHz float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &warble{center: center, depth: depth, wobbleHz: wobbleHz, total: rate.N(d), rate: rate}
}

func (w *warble) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if w.pos >= w.total {
			return i, false
		}

		t := float64(w.pos) / float64(w.rate)
		freq := w.center + w.depth*math.Sin(2*math.Pi*w.wobbleHz*t)

		v := math.Sin(2 * math.Pi * w.phase)
		samples[i][0] = v
		samples[i][1] = v

		w.phase += freq / float64(w.rate)
		w.phase -= math.Floor(w.phase)
		w.pos++
	}
	return len(samples), true
}

func (w *warble) Err() error { return nil }

// envelope shapes an underlying stream with a linear attack and release.
type envelope struct {
	s       beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

func newEnvelope(s beep.Streamer, total, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		s:       s,
		attack:  rate.N(attack),
		release: rate.N(release),
		total:   rate.N(total),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)

	for i := 0; i < n; i++ {
		if e.pos >= e.total {
			return i, false
		}

		vol := 1.0
		if e.pos < e.attack && e.attack > 0 {
			vol = float64(e.pos) / float64(e.attack)
		}
		if releaseStart := e.total - e.release; e.pos >= releaseStart && e.release > 0 {
			vol = float64(e.total-e.pos) / float64(e.release)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// gain wraps a streamer in a log-scaled volume effect. Zero gain maps to
// the effect's silent mode since log2(0) is undefined.
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
