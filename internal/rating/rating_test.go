package rating

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestExpectationSumsToOne(t *testing.T) {
	pairs := [][2]float64{
		{1000, 1000}, {1000, 1200}, {1500, 900}, {0, 3000}, {1234.5, 1111}, {-50, 20},
	}
	for _, p := range pairs {
		pA, pB := Expectation(p[0], p[1])
		if pA+pB != 1 {
			t.Fatalf("Expectation(%v, %v) = %v + %v, want sum 1", p[0], p[1], pA, pB)
		}
	}
}

func TestExpectationEqualRatings(t *testing.T) {
	for _, r := range []float64{0, 1000, 1873.5} {
		pA, pB := Expectation(r, r)
		assert.Equal(t, 0.5, pA)
		assert.Equal(t, 0.5, pB)
	}
}

func TestExpectationIsSymmetric(t *testing.T) {
	pairs := [][2]float64{{1000, 1100}, {1500, 1320}, {800, 1700}, {1000.5, 999}}
	for _, p := range pairs {
		aA, aB := Expectation(p[0], p[1])
		bA, bB := Expectation(p[1], p[0])
		if aA != bB || aB != bA {
			t.Fatalf("Expectation not mirrored for %v: (%v,%v) vs (%v,%v)", p, aA, aB, bA, bB)
		}
	}
}

func TestExpectationSaturates(t *testing.T) {
	a400, _ := Expectation(1000, 1400)
	a500, _ := Expectation(1000, 1500)
	assert.Equal(t, a400, a500)

	b400, _ := Expectation(1400, 1000)
	b900, _ := Expectation(1900, 1000)
	assert.Equal(t, b400, b900)

	// 400 points is a 10:1 favourite.
	if a400 < 0.0909 || a400 > 0.0910 {
		t.Fatalf("expected underdog probability ~1/11, got %v", a400)
	}
}

func TestExpectationFavoursHigherRating(t *testing.T) {
	pA, pB := Expectation(1200, 1000)
	if pA <= pB {
		t.Fatalf("higher rated side should be favoured, got %v vs %v", pA, pB)
	}
}

func TestUpdate(t *testing.T) {
	cases := []struct {
		rating      int
		score       float64
		expectation float64
		want        int
	}{
		{1000, 1, 0.5, 1015},
		{1000, 0, 0.5, 985},
		{1000, 0.5, 0.5, 1000},
		{1000, 1, 0.76, 1007},   // 1007.2
		{1000, 0, 0.25, 993},    // 992.5 rounds away from zero
		{1000, 1, 0.95, 1002},   // 1001.5
		{10, 0, 0.75, -13},      // -12.5 rounds away from zero, no floor
		{1500, 0.5, 0.75, 1493}, // 1492.5
	}
	for _, tc := range cases {
		got := Update(tc.rating, tc.score, tc.expectation, DefaultK)
		if got != tc.want {
			t.Fatalf("Update(%d, %v, %v) = %d, want %d", tc.rating, tc.score, tc.expectation, got, tc.want)
		}
	}
}

func TestUpdateCustomK(t *testing.T) {
	assert.Equal(t, 1016, Update(1000, 1, 0.5, 32))
	assert.Equal(t, 1000, Update(1000, 1, 0.5, 0))
}

func TestOutcome(t *testing.T) {
	a, b := Outcome(10, 5)
	assert.Equal(t, [2]float64{1, 0}, [2]float64{a, b})
	a, b = Outcome(3, 10)
	assert.Equal(t, [2]float64{0, 1}, [2]float64{a, b})
	a, b = Outcome(7, 7)
	assert.Equal(t, [2]float64{0.5, 0.5}, [2]float64{a, b})
}

func TestTeamRating(t *testing.T) {
	assert.Equal(t, 1000.0, TeamRating(900, 1100))
	assert.Equal(t, 1000.5, TeamRating(1000, 1001))
}
