package holmes

import "github.com/nadzzz/formantd/internal/elements"

// slope is a boundary value and the time taken to move between it and the
// steady state.
type slope struct {
	v float64 // value at the boundary
	t float64 // frames
}

// dominance is the decision of which element shapes a boundary.
type dominance uint8

const (
	// selfDominates: the current element blends toward its neighbour using
	// its own internal delays.
	selfDominates dominance = iota
	// neighbourDominates: the neighbour blends the current element using
	// the neighbour's external delays.
	neighbourDominates
)

func (d dominance) String() string {
	if d == selfDominates {
		return "self"
	}
	return "neighbour"
}

// decide picks the dominant side of the boundary between earlier and
// later. The higher rank wins and ties go to the earlier element.
func decide(self, neighbour *elements.Element, selfEarlier bool) dominance {
	if selfEarlier {
		if self.Rank >= neighbour.Rank {
			return selfDominates
		}
		return neighbourDominates
	}
	if self.Rank > neighbour.Rank {
		return selfDominates
	}
	return neighbourDominates
}

// slopes builds the boundary slope of every parameter for self.
func (d dominance) slopes(self, neighbour *elements.Element, speed float64) [elements.NParams]slope {
	switch d {
	case selfDominates:
		return transition(self, neighbour, false, speed)
	default:
		return transition(neighbour, self, true, speed)
	}
}

// transition blends dominant toward other. With a zero delay the boundary
// takes other's steady value directly.
func transition(dominant, other *elements.Element, external bool, speed float64) [elements.NParams]slope {
	var s [elements.NParams]slope
	for p := range s {
		tg := dominant.P[p]
		delay := tg.Int
		if external {
			delay = tg.Ext
		}
		s[p].t = float64(delay) * speed
		if s[p].t > 0 {
			s[p].v = tg.Fixed + tg.Prop*other.P[p].Steady/100
		} else {
			s[p].v = other.P[p].Steady
		}
	}
	return s
}

func linear(a, b, t, d float64) float64 {
	if t <= 0 {
		return a
	}
	if t >= d {
		return b
	}
	return a + (b-a)*t/d
}

// interpolate evaluates frame t of d for a parameter that ramps from the
// start slope to mid, holds, then ramps to the end slope. When the ramps
// overlap the two are cross-faded across the whole element.
func interpolate(start, end slope, mid, t, d float64) float64 {
	steady := d - (start.t + end.t)
	if steady >= 0 {
		if t < start.t {
			return linear(start.v, mid, t, start.t)
		}
		t -= start.t
		if t <= steady {
			return mid
		}
		return linear(mid, end.v, t-steady, end.t)
	}
	f := 1 - t/d
	sp := linear(start.v, mid, t, start.t)
	ep := linear(end.v, mid, d-t, end.t)
	return f*sp + (1-f)*ep
}

// smoother is a one-pole low-pass applied to each parameter track.
type smoother struct {
	a, b, v float64
}

func (s *smoother) step(x float64) float64 {
	s.v = s.a*x + s.b*s.v
	return s.v
}
