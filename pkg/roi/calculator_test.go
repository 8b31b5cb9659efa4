package roi

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func workedExample() Inputs {
	return Inputs{
		HoursPerWeek:       10,
		AffectedStaff:      5,
		AvgHourlyRate:      35,
		ImplementationCost: 5000,
		AnnualLicenseCost:  1200,
		EfficiencyGain:     30,
		ErrorReduction:     20,
	}
}

func TestComputeWorkedExample(t *testing.T) {
	got := Compute(workedExample())

	require.Equal(t, 15.0, got.WeeklyHoursSaved)
	require.Equal(t, 780.0, got.AnnualHoursSaved)
	require.Equal(t, 27300.0, got.AnnualLaborSavings)
	require.Equal(t, 819.0, got.ErrorCostSavings)
	require.Equal(t, 28119.0, got.TotalAnnualSavings)
	require.Equal(t, 6200.0, got.TotalCostYear1)
	require.Equal(t, 21919.0, got.NetSavingsYear1)
	// 21919 / 6200 * 100 = 353.53...
	require.Equal(t, 354.0, got.ROI)
	require.Equal(t, 2.6, got.PaybackMonths)
	// 780 / 2080 = 0.375
	require.Equal(t, 0.38, got.FTEEquivalent)
	require.Equal(t, 28119.0*3-6200-1200*2, got.ThreeYearSavings)
}

func TestComputeIsDeterministic(t *testing.T) {
	in := workedExample()
	in.EfficiencyGain = 17.3
	in.AvgHourlyRate = 41.25

	want := Compute(in)

	var wg sync.WaitGroup
	results := make([]Results, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Compute(in)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestComputeZeroCost(t *testing.T) {
	in := workedExample()
	in.ImplementationCost = 0
	in.AnnualLicenseCost = 0

	got := Compute(in)
	require.Zero(t, got.TotalCostYear1)
	require.Zero(t, got.ROI)
	require.Zero(t, got.PaybackMonths)
	require.Equal(t, got.TotalAnnualSavings, got.NetSavingsYear1)
}

func TestComputeZeroSavings(t *testing.T) {
	cases := map[string]func(*Inputs){
		"no hours":      func(in *Inputs) { in.HoursPerWeek = 0 },
		"no efficiency": func(in *Inputs) { in.EfficiencyGain = 0 },
		"no staff":      func(in *Inputs) { in.AffectedStaff = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := workedExample()
			mutate(&in)

			got := Compute(in)
			require.Zero(t, got.WeeklyHoursSaved)
			require.Zero(t, got.AnnualHoursSaved)
			require.Zero(t, got.AnnualLaborSavings)
			require.Zero(t, got.ErrorCostSavings)
			require.Zero(t, got.TotalAnnualSavings)
			require.Zero(t, got.PaybackMonths)
			require.Equal(t, -100.0, got.ROI)
			require.Equal(t, -6200.0, got.NetSavingsYear1)
		})
	}
}

func TestComputeAllZero(t *testing.T) {
	got := Compute(Inputs{})
	require.Equal(t, Results{}, got)
	require.False(t, math.Signbit(got.NetSavingsYear1))
}

func TestComputeRoundsOnlyAtOutput(t *testing.T) {
	// weekly = 1 * 1 * 0.33 = 0.33, which displays as 0.3; annual must use 0.33.
	got := Compute(Inputs{HoursPerWeek: 1, AffectedStaff: 1, EfficiencyGain: 33, AvgHourlyRate: 100})
	require.Equal(t, 0.3, got.WeeklyHoursSaved)
	require.Equal(t, 17.0, got.AnnualHoursSaved)
	require.Equal(t, 1716.0, got.AnnualLaborSavings)
}

func TestRoundHalfTowardPositive(t *testing.T) {
	require.Equal(t, 3.0, Round(2.5, 0))
	require.Equal(t, -2.0, Round(-2.5, 0))
	require.Equal(t, 0.0, Round(-0.4, 0))
	require.False(t, math.Signbit(Round(-0.4, 0)))
	require.Equal(t, 0.0, Round(math.Inf(1), 0))
}

func TestResultsMapRoundTrip(t *testing.T) {
	want := Compute(workedExample())
	require.Equal(t, want, ResultsFromMap(want.Map()))
	require.Equal(t, Results{}, ResultsFromMap(nil))
}

func TestInputsFromMap(t *testing.T) {
	in := workedExample()
	require.Equal(t, in, InputsFromMap(in.Map()))
	require.Equal(t, Inputs{HoursPerWeek: 4}, InputsFromMap(map[string]interface{}{"hoursPerWeek": 4, "note": "x"}))
}
