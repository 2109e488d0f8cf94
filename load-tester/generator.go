package main

import (
	"fmt"
	"math/rand"
	"time"
)

// recentLimit bounds how many sent records can be picked for an update.
const recentLimit = 10000

var (
	modules       = []string{"primeromodule-gbv", "primeromodule-cp"}
	agencies      = []string{"agency-unicef", "agency with spaces", "agency-irc"}
	groups        = []string{"group-north", "group-south", "group-east"}
	violenceTypes = []string{"rape", "sexual_assault", "physical_assault", "forced_marriage", "denial_of_resources"}
	statuses      = []string{"open", "closed"}
	referralForms = []string{"health_medical_referral_subform_section", "psychosocial_counseling_services_subform_section"}
	// Days between incident_date and date_of_first_report, spread over every elapsed range.
	reportingDelays = []int{0, 2, 4, 5, 9, 14, 20, 30, 45, 120}
)

type incident struct {
	RecordType             string            `json:"record_type"`
	RecordID               string            `json:"record_id"`
	ModuleID               string            `json:"module_id"`
	OwnedBy                string            `json:"owned_by"`
	OwnedByGroups          []string          `json:"owned_by_groups"`
	OwnedByAgencyID        string            `json:"owned_by_agency_id"`
	AssociatedUserNames    []string          `json:"associated_user_names"`
	AssociatedUserGroups   []string          `json:"associated_user_groups"`
	AssociatedUserAgencies []string          `json:"associated_user_agencies"`
	Fields                 map[string]string `json:"fields"`
	Dates                  map[string]string `json:"dates"`
	Subforms               map[string]uint32 `json:"subforms"`
}

// generator produces incident documents. It is used from a single goroutine.
type generator struct {
	rng           *rand.Rand
	resendPercent int
	seq           int
	recent        []incident
}

func newGenerator(seed int64, resendPercent int) *generator {
	return &generator{
		rng:           rand.New(rand.NewSource(seed)),
		resendPercent: resendPercent,
	}
}

// next returns a new incident, or with resendPercent probability an update of
// a previously sent one with a new status.
func (g *generator) next() incident {
	if len(g.recent) > 0 && g.rng.Intn(100) < g.resendPercent {
		prev := g.recent[g.rng.Intn(len(g.recent))]
		fields := make(map[string]string, len(prev.Fields))
		for k, v := range prev.Fields {
			fields[k] = v
		}
		fields["status"] = pick(g.rng, statuses)
		prev.Fields = fields
		return prev
	}

	inc := g.fresh()
	if len(g.recent) < recentLimit {
		g.recent = append(g.recent, inc)
	} else {
		g.recent[g.seq%recentLimit] = inc
	}
	return inc
}

func (g *generator) fresh() incident {
	g.seq++
	incidentDate := time.Now().AddDate(0, 0, -g.rng.Intn(730))
	firstReport := incidentDate.AddDate(0, 0, pick(g.rng, reportingDelays))
	owner := fmt.Sprintf("worker_%d", g.rng.Intn(200))
	group := pick(g.rng, groups)
	agency := pick(g.rng, agencies)

	subforms := map[string]uint32{}
	for _, form := range referralForms {
		if g.rng.Intn(3) == 0 {
			subforms[form] = uint32(1 + g.rng.Intn(2))
		}
	}

	return incident{
		RecordType:             "incident",
		RecordID:               fmt.Sprintf("inc-%d-%08d", g.seq, g.rng.Intn(100000000)),
		ModuleID:               pick(g.rng, modules),
		OwnedBy:                owner,
		OwnedByGroups:          []string{group},
		OwnedByAgencyID:        agency,
		AssociatedUserNames:    []string{owner},
		AssociatedUserGroups:   []string{group},
		AssociatedUserAgencies: []string{agency},
		Fields: map[string]string{
			"status":                   pick(g.rng, statuses),
			"gbv_sexual_violence_type": pick(g.rng, violenceTypes),
		},
		Dates: map[string]string{
			"incident_date":        incidentDate.Format(time.DateOnly),
			"date_of_first_report": firstReport.Format(time.DateOnly),
		},
		Subforms: subforms,
	}
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.Intn(len(values))]
}
