package treepolicy

import (
	"testing"

	"github.com/matryer/is"
)

func TestStatsMeanAndNormalized(t *testing.T) {
	is := is.New(t)
	var s Stats
	is.Equal(s.Mean(), 0.0)

	s.Update(1)
	s.Update(3)
	is.Equal(s.Mean(), 2.0)
	is.Equal(s.Min, 1.0)
	is.Equal(s.Max, 3.0)
	is.Equal(s.normalized(), 0.5) // (2-1)/(3-1)
}

func TestUCTPrefersUnvisitedChild(t *testing.T) {
	is := is.New(t)
	u := UCT{C: 1.4}
	children := []Stats{{Visits: 5, ValueSum: 4}, {}}
	is.Equal(u.SelectChild(5, children), 1)
}

func TestUCTPrefersHigherNormalizedValueAtEqualVisits(t *testing.T) {
	is := is.New(t)
	u := UCT{C: 0} // exploitation only
	a := Stats{Visits: 10}
	a.Update(0)
	a.Update(1) // Visits=12 sum=1 Min=0 Max=1 -> mean 1/12, normalized ~0.083
	b := Stats{Visits: 10}
	b.Update(1)
	b.Update(1) // Min=Max=1 -> normalized() returns 0.5
	children := []Stats{a, b}
	choice := u.SelectChild(10, children)
	is.Equal(choice, 1)
}

func TestPUCTPrefersHighPriorWhenUnvisited(t *testing.T) {
	is := is.New(t)
	p := PUCT{C: 1.0}
	children := []Stats{{}, {}}
	priors := []float64{0.1, 0.9}
	is.Equal(p.SelectChild(0, children, priors), 1)
}

func TestPartialScoreAndScoreAndMostVisited(t *testing.T) {
	is := is.New(t)
	a := Stats{Visits: 1, ValueSum: 5}
	b := Stats{Visits: 10, ValueSum: 3}
	children := []Stats{a, b}

	is.Equal(PartialScore{}.SelectChild(0, children), 0) // higher mean (5 vs 0.3)
	is.Equal(Score{}.SelectChild(0, children), 0)         // higher sum (5 vs 3)
	is.Equal(MostVisited(children), 1)                    // more visits
}
