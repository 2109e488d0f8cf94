package indicator

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/searchfilter"
)

// ErrUnknown is returned for an indicator name outside the closed set.
var ErrUnknown = errors.New("unknown indicator")

const (
	ElapsedReportingTime                         = "elapsed_reporting_time"
	ElapsedReportingTimeRape                     = "elapsed_reporting_time_rape"
	ElapsedReportingTimeRapeHealthReferral       = "elapsed_reporting_time_rape_health_referral"
	ElapsedReportingTimeRapePsychosocialReferral = "elapsed_reporting_time_rape_psychosocial_referral"
	IncidentsByViolenceType                      = "incidents_by_violence_type"
)

const (
	recordTypeIncident = "incident"
	incidentDate       = "incident_date"
	firstReportDate    = "date_of_first_report"
	violenceType       = "gbv_sexual_violence_type"
)

// ElapsedRanges buckets the days between an incident and its first report.
var ElapsedRanges = []reporting.DayRange{
	{ID: "0_3_days", Min: 0, Max: 3},
	{ID: "4_5_days", Min: 4, Max: 5},
	{ID: "6_14_days", Min: 6, Max: 14},
	{ID: "2_weeks_1_month", Min: 15, Max: 30},
	{ID: "over_1_month", Min: 31, Max: -1},
}

// Definition fixes the record type, dimensions and filters of an indicator.
// DateField is the date a grouped query is bucketed on.
type Definition struct {
	Name       string
	RecordType string
	DateField  string
	Dimensions []reporting.Dimension
	Filters    []searchfilter.Filter
}

func elapsedReportingTime() reporting.Dimension {
	return reporting.Dimension{
		Field: ElapsedReportingTime,
		Elapsed: &reporting.ElapsedDays{
			From:   incidentDate,
			To:     firstReportDate,
			Ranges: ElapsedRanges,
		},
	}
}

func rape() searchfilter.Filter {
	return searchfilter.NewValue(violenceType, "rape")
}

var definitions = map[string]Definition{
	ElapsedReportingTime: {
		Name:       ElapsedReportingTime,
		RecordType: recordTypeIncident,
		DateField:  incidentDate,
		Dimensions: []reporting.Dimension{elapsedReportingTime()},
	},
	ElapsedReportingTimeRape: {
		Name:       ElapsedReportingTimeRape,
		RecordType: recordTypeIncident,
		DateField:  incidentDate,
		Dimensions: []reporting.Dimension{elapsedReportingTime()},
		Filters:    []searchfilter.Filter{rape()},
	},
	ElapsedReportingTimeRapeHealthReferral: {
		Name:       ElapsedReportingTimeRapeHealthReferral,
		RecordType: recordTypeIncident,
		DateField:  incidentDate,
		Dimensions: []reporting.Dimension{elapsedReportingTime()},
		Filters: []searchfilter.Filter{
			rape(),
			searchfilter.NotNull{Field: "health_medical_referral_subform_section"},
		},
	},
	ElapsedReportingTimeRapePsychosocialReferral: {
		Name:       ElapsedReportingTimeRapePsychosocialReferral,
		RecordType: recordTypeIncident,
		DateField:  incidentDate,
		Dimensions: []reporting.Dimension{elapsedReportingTime()},
		Filters: []searchfilter.Filter{
			rape(),
			searchfilter.NotNull{Field: "psychosocial_counseling_services_subform_section"},
		},
	},
	IncidentsByViolenceType: {
		Name:       IncidentsByViolenceType,
		RecordType: recordTypeIncident,
		DateField:  incidentDate,
		Dimensions: reporting.FieldDimensions(violenceType),
	},
}

// Lookup returns the named definition.
func Lookup(name string) (Definition, error) {
	def, ok := definitions[name]
	if !ok {
		return Definition{}, errors.Wrapf(ErrUnknown, "%q", name)
	}
	return def, nil
}

// Names lists every indicator, sorted.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
