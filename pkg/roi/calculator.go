// Package roi estimates the return on investment of an AI initiative from a
// small set of business inputs.
package roi

import "math"

const (
	// ErrorCostWeight is the share of labor savings attributed to fewer errors.
	ErrorCostWeight = 0.15
	WeeksPerYear    = 52
	// HoursPerFTE is the standard annual work hours of one full-time employee.
	HoursPerFTE = 2080
)

// Inputs are the user supplied figures. Percentages are whole numbers (30 means 30%).
type Inputs struct {
	HoursPerWeek       float64 `json:"hoursPerWeek"`
	AffectedStaff      float64 `json:"affectedStaff"`
	AvgHourlyRate      float64 `json:"avgHourlyRate"`
	ImplementationCost float64 `json:"implementationCost"`
	AnnualLicenseCost  float64 `json:"annualLicenseCost"`
	EfficiencyGain     float64 `json:"efficiencyGain"`
	ErrorReduction     float64 `json:"errorReduction"`
}

// Results are the derived metrics, rounded for presentation.
type Results struct {
	WeeklyHoursSaved   float64 `json:"weeklyHoursSaved"`
	AnnualHoursSaved   float64 `json:"annualHoursSaved"`
	AnnualLaborSavings float64 `json:"annualLaborSavings"`
	ErrorCostSavings   float64 `json:"errorCostSavings"`
	TotalAnnualSavings float64 `json:"totalAnnualSavings"`
	TotalCostYear1     float64 `json:"totalCostYear1"`
	NetSavingsYear1    float64 `json:"netSavingsYear1"`
	ROI                float64 `json:"roi"`
	PaybackMonths      float64 `json:"paybackMonths"`
	FTEEquivalent      float64 `json:"fteEquivalent"`
	ThreeYearSavings   float64 `json:"threeYearSavings"`
}

// Compute derives Results from in. It has no failure modes: zero costs or zero
// savings yield a zero roi and payback instead of Inf or NaN. Every formula
// consumes unrounded intermediates; rounding happens once, on output.
func Compute(in Inputs) Results {
	weeklyHoursSaved := in.HoursPerWeek * in.AffectedStaff * (in.EfficiencyGain / 100)
	annualHoursSaved := weeklyHoursSaved * WeeksPerYear
	annualLaborSavings := annualHoursSaved * in.AvgHourlyRate
	errorCostSavings := annualLaborSavings * (in.ErrorReduction / 100) * ErrorCostWeight
	totalAnnualSavings := annualLaborSavings + errorCostSavings
	totalCostYear1 := in.ImplementationCost + in.AnnualLicenseCost
	netSavingsYear1 := totalAnnualSavings - totalCostYear1

	var roi float64
	if totalCostYear1 > 0 {
		roi = (totalAnnualSavings - totalCostYear1) / totalCostYear1 * 100
	}
	var paybackMonths float64
	if totalAnnualSavings > 0 {
		paybackMonths = totalCostYear1 / totalAnnualSavings * 12
	}
	fteEquivalent := annualHoursSaved / HoursPerFTE
	threeYearSavings := totalAnnualSavings*3 - totalCostYear1 - in.AnnualLicenseCost*2

	return Results{
		WeeklyHoursSaved:   Round(weeklyHoursSaved, 1),
		AnnualHoursSaved:   Round(annualHoursSaved, 0),
		AnnualLaborSavings: Round(annualLaborSavings, 0),
		ErrorCostSavings:   Round(errorCostSavings, 0),
		TotalAnnualSavings: Round(totalAnnualSavings, 0),
		TotalCostYear1:     Round(totalCostYear1, 0),
		NetSavingsYear1:    Round(netSavingsYear1, 0),
		ROI:                Round(roi, 0),
		PaybackMonths:      Round(paybackMonths, 1),
		FTEEquivalent:      Round(fteEquivalent, 2),
		ThreeYearSavings:   Round(threeYearSavings, 0),
	}
}

// Round rounds half toward +Inf, the way the calculator UI displays values.
func Round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	scale := math.Pow(10, float64(decimals))
	r := math.Floor(v*scale+0.5) / scale
	if r == 0 {
		// no negative zero in JSON output
		return 0
	}
	return r
}

// Map returns the inputs as the snapshot bag persisted with a calculation.
func (in Inputs) Map() map[string]interface{} {
	return map[string]interface{}{
		"hoursPerWeek":       in.HoursPerWeek,
		"affectedStaff":      in.AffectedStaff,
		"avgHourlyRate":      in.AvgHourlyRate,
		"implementationCost": in.ImplementationCost,
		"annualLicenseCost":  in.AnnualLicenseCost,
		"efficiencyGain":     in.EfficiencyGain,
		"errorReduction":     in.ErrorReduction,
	}
}

// InputsFromMap reads a persisted inputs bag back. Missing keys read as zero.
func InputsFromMap(m map[string]interface{}) Inputs {
	return Inputs{
		HoursPerWeek:       number(m["hoursPerWeek"]),
		AffectedStaff:      number(m["affectedStaff"]),
		AvgHourlyRate:      number(m["avgHourlyRate"]),
		ImplementationCost: number(m["implementationCost"]),
		AnnualLicenseCost:  number(m["annualLicenseCost"]),
		EfficiencyGain:     number(m["efficiencyGain"]),
		ErrorReduction:     number(m["errorReduction"]),
	}
}

func (r Results) Map() map[string]interface{} {
	return map[string]interface{}{
		"weeklyHoursSaved":   r.WeeklyHoursSaved,
		"annualHoursSaved":   r.AnnualHoursSaved,
		"annualLaborSavings": r.AnnualLaborSavings,
		"errorCostSavings":   r.ErrorCostSavings,
		"totalAnnualSavings": r.TotalAnnualSavings,
		"totalCostYear1":     r.TotalCostYear1,
		"netSavingsYear1":    r.NetSavingsYear1,
		"roi":                r.ROI,
		"paybackMonths":      r.PaybackMonths,
		"fteEquivalent":      r.FTEEquivalent,
		"threeYearSavings":   r.ThreeYearSavings,
	}
}

// ResultsFromMap reads a persisted results bag back. Missing keys read as zero.
func ResultsFromMap(m map[string]interface{}) Results {
	return Results{
		WeeklyHoursSaved:   number(m["weeklyHoursSaved"]),
		AnnualHoursSaved:   number(m["annualHoursSaved"]),
		AnnualLaborSavings: number(m["annualLaborSavings"]),
		ErrorCostSavings:   number(m["errorCostSavings"]),
		TotalAnnualSavings: number(m["totalAnnualSavings"]),
		TotalCostYear1:     number(m["totalCostYear1"]),
		NetSavingsYear1:    number(m["netSavingsYear1"]),
		ROI:                number(m["roi"]),
		PaybackMonths:      number(m["paybackMonths"]),
		FTEEquivalent:      number(m["fteEquivalent"]),
		ThreeYearSavings:   number(m["threeYearSavings"]),
	}
}

func number(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
