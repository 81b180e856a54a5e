// Package fusion turns one sensor sample into a classified incident:
// a coarse kind, a fine-grained source label, and a severity ranking.
//
// The classification is a hand-tuned threshold decision table, not a
// learned model. Each table is an ordered list of predicate/outcome
// rules evaluated top to bottom; the first match wins. The rules overlap
// in their input ranges on purpose, so reordering them changes behavior.
package fusion

import "github.com/MahulePratik/gagan-netra-edge/internal/domain"

// Result is the classifier's verdict for one sample.
type Result struct {
	Kind        domain.IncidentKind
	SourceLabel string
	Severity    domain.Severity
}

// reading carries the derived inputs the rule tables match against.
type reading struct {
	conf     float64
	pm25     int
	gasRes   float64
	tempC    float64
	tempRise float64
	human    bool
	kind     domain.IncidentKind
}

// Classify derives (kind, source label, severity) from a sample. It is
// pure and total: no I/O, no state, defined for every in-range input.
// Range validation is the caller's contract (domain.SensorSample.Validate).
func Classify(s domain.SensorSample, baselineTemperatureC float64) Result {
	r := reading{
		conf:     s.VisionConfidence,
		pm25:     s.ParticulateUgM3,
		gasRes:   s.GasResistanceOhm,
		tempC:    s.TemperatureC,
		tempRise: s.TemperatureC - baselineTemperatureC,
		human:    s.HumanPresent,
	}

	r.kind = classifyKind(r)
	return Result{
		Kind:        r.kind,
		SourceLabel: classifySource(r),
		Severity:    classifySeverity(r),
	}
}

type kindRule struct {
	when func(r reading) bool
	kind domain.IncidentKind
}

var kindRules = []kindRule{
	// Visible flames with heat and combustion gases.
	{func(r reading) bool { return r.conf > 0.6 && r.tempRise > 5.0 && r.gasRes < 80000 }, domain.ActiveFire},
	{func(r reading) bool { return r.conf > 0.5 && r.tempRise > 3.0 }, domain.ActiveFire},
	// Smoke without the temperature signature of open flame.
	{func(r reading) bool { return r.conf > 0.3 && r.pm25 > 50 && r.tempRise < 3.0 }, domain.SmokeOnly},
	// Dense particulates plus combustion byproducts: fire likely nearby.
	{func(r reading) bool { return r.pm25 > 100 && r.gasRes < 50000 }, domain.HeavySmoke},
}

func classifyKind(r reading) domain.IncidentKind {
	for _, rule := range kindRules {
		if rule.when(r) {
			return rule.kind
		}
	}
	return domain.SmokeOnly
}

type sourceRule struct {
	when  func(r reading) bool
	label func(r reading) string
}

// flavored picks the fire- or smoke-flavored variant of a label
// depending on the already-decided incident kind.
func flavored(fire, smoke string) func(r reading) string {
	return func(r reading) string {
		if r.kind == domain.ActiveFire {
			return fire
		}
		return smoke
	}
}

func fixed(label string) func(r reading) string {
	return func(reading) string { return label }
}

// Gas resistance bands (BME688): very low readings mean toxic combustion
// byproducts; high readings mean clean air or light cooking smoke.
// PM2.5 bands (PMS7003): >250 ug/m3 is dense industrial-grade smoke.
var sourceRules = []sourceRule{
	{
		when:  func(r reading) bool { return r.gasRes < 20000 && r.pm25 > 50 },
		label: flavored("Electrical/Plastic Fire (TOXIC)", "Electrical/Plastic Smoke (TOXIC)"),
	},
	{
		when:  func(r reading) bool { return r.gasRes < 30000 && r.pm25 > 150 },
		label: flavored("Chemical/Industrial Fire", "Industrial Smoke"),
	},
	{
		when:  func(r reading) bool { return r.pm25 > 100 && r.gasRes >= 80000 && r.gasRes < 200000 && r.tempC > 28 },
		label: flavored("Wood/Biomass Fire", "Biomass Smoke"),
	},
	{
		when:  func(r reading) bool { return r.gasRes < 40000 && r.pm25 > 80 && r.pm25 < 200 },
		label: flavored("Vehicle/Rubber Fire", "Rubber Smoke"),
	},
	{
		when:  func(r reading) bool { return r.pm25 > 120 && r.gasRes < 100000 && r.tempC > 27 },
		label: flavored("Trash/Waste Fire", "Waste Burning Smoke"),
	},
	{
		when: func(r reading) bool { return r.human && r.pm25 > 50 },
		label: func(r reading) string {
			if r.kind != domain.ActiveFire {
				return "Human-caused Smoke"
			}
			if r.pm25 < 100 && r.gasRes > 100000 {
				return "Cooking Fire"
			}
			return "Human Activity Fire"
		},
	},
	{
		when:  func(r reading) bool { return r.pm25 > 80 && r.pm25 < 150 && r.gasRes > 100000 },
		label: flavored("Grass/Agricultural Fire", "Agricultural Smoke"),
	},
	{
		when:  func(r reading) bool { return r.pm25 > 35 && r.pm25 < 80 },
		label: flavored("Small Fire (Early Stage)", "Light Smoke Source"),
	},
	{
		when:  func(r reading) bool { return r.pm25 > 250 },
		label: fixed("Dense Smoke (Fire Nearby)"),
	},
}

func classifySource(r reading) string {
	for _, rule := range sourceRules {
		if rule.when(r) {
			return rule.label(r)
		}
	}
	if r.kind == domain.ActiveFire {
		return "Unknown Fire Source"
	}
	return "Unknown Smoke Source"
}

type severityRule struct {
	when     func(r reading) bool
	severity domain.Severity
}

var severityRules = []severityRule{
	// Toxic gas signature or dense smoke is critical regardless of kind.
	{func(r reading) bool { return r.gasRes < 20000 || r.pm25 > 250 }, domain.SeverityCritical},
	{func(r reading) bool { return r.kind == domain.ActiveFire && r.conf > 0.75 && r.pm25 > 150 }, domain.SeverityCritical},
	{func(r reading) bool { return r.kind == domain.ActiveFire && r.conf > 0.6 && r.pm25 > 100 }, domain.SeverityHigh},
	{func(r reading) bool { return r.kind == domain.HeavySmoke && r.pm25 > 150 }, domain.SeverityHigh},
	{func(r reading) bool { return r.kind == domain.ActiveFire && r.conf > 0.4 }, domain.SeverityMedium},
	{func(r reading) bool { return r.pm25 > 100 }, domain.SeverityMedium},
}

func classifySeverity(r reading) domain.Severity {
	for _, rule := range severityRules {
		if rule.when(r) {
			return rule.severity
		}
	}
	return domain.SeverityLow
}
