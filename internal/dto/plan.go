package dto

import (
	"github.com/bruintracks/bruintracks-go/internal/models"
)

// PlanRequest is the payload accepted by the planner.
type PlanRequest struct {
	StartYear    int    `json:"start_year" validate:"required,min=1900,max=2200"`
	StartQuarter string `json:"start_quarter" validate:"required,oneof=Fall Winter Spring"`
	EndYear      int    `json:"end_year" validate:"required,min=1900,max=2200"`
	EndQuarter   string `json:"end_quarter" validate:"required,oneof=Fall Winter Spring"`

	CoursesToSchedule []string           `json:"courses_to_schedule" validate:"omitempty,dive,required"`
	Transcript        map[string]*string `json:"transcript"`

	Preferences PreferencesPayload `json:"preferences"`
}

// PreferencesPayload mirrors the optional preference keys on the wire.
// Pointer fields distinguish "absent" from zero values.
type PreferencesPayload struct {
	Priority                []string `json:"pref_priority"`
	Earliest                *string  `json:"pref_earliest"`
	Latest                  *string  `json:"pref_latest"`
	NoDays                  []string `json:"pref_no_days"`
	Buildings               []string `json:"pref_buildings"`
	Instructors             []string `json:"pref_instructors"`
	AllowWarnings           *bool    `json:"allow_warnings"`
	AllowPrimaryConflicts   *bool    `json:"allow_primary_conflicts"`
	AllowSecondaryConflicts *bool    `json:"allow_secondary_conflicts"`
	MaxCoursesPerTerm       *int     `json:"max_courses_per_term"`
	LeastCoursesPerTerm     *int     `json:"least_courses_per_term"`
}

// ToModel resolves the payload against the documented defaults.
func (p PreferencesPayload) ToModel() models.Preferences {
	prefs := models.DefaultPreferences()

	if len(p.Priority) > 0 {
		prefs.Priority = append([]string(nil), p.Priority...)
	}
	if p.Earliest != nil {
		if minutes, err := models.ParseClock(*p.Earliest); err == nil {
			prefs.Earliest = minutes
		}
	}
	if p.Latest != nil {
		if minutes, err := models.ParseClock(*p.Latest); err == nil {
			prefs.Latest = minutes
		}
	}
	if len(p.NoDays) > 0 {
		prefs.NoDays = ""
		for _, d := range p.NoDays {
			prefs.NoDays += d
		}
	}
	if len(p.Buildings) > 0 {
		prefs.Buildings = make(map[string]struct{}, len(p.Buildings))
		for _, b := range p.Buildings {
			prefs.Buildings[b] = struct{}{}
		}
	}
	if len(p.Instructors) > 0 {
		prefs.Instructors = make(map[string]struct{}, len(p.Instructors))
		for _, in := range p.Instructors {
			prefs.Instructors[in] = struct{}{}
		}
	}
	if p.AllowWarnings != nil {
		prefs.AllowWarnings = *p.AllowWarnings
	}
	if p.AllowPrimaryConflicts != nil {
		prefs.AllowPrimaryConflicts = *p.AllowPrimaryConflicts
	}
	if p.AllowSecondaryConflicts != nil {
		prefs.AllowSecondaryConflicts = *p.AllowSecondaryConflicts
	}
	if p.MaxCoursesPerTerm != nil && *p.MaxCoursesPerTerm > 0 {
		prefs.MaxPerTerm = *p.MaxCoursesPerTerm
	}
	if p.LeastCoursesPerTerm != nil && *p.LeastCoursesPerTerm > 0 {
		prefs.MinPerTerm = *p.LeastCoursesPerTerm
	}
	if prefs.MinPerTerm > prefs.MaxPerTerm {
		prefs.MinPerTerm = prefs.MaxPerTerm
	}

	return prefs
}

// PlanResponse is the planner's result: the schedule plus an optional note
// listing courses that could not be placed.
type PlanResponse struct {
	Schedule *models.Schedule `json:"schedule"`
	Note     string           `json:"note,omitempty"`

	// PlanID identifies the run in logs and response metadata; it is not
	// part of the schedule document itself.
	PlanID string `json:"-"`
}
