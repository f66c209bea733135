package drivers

import "fmt"

// Step is one discrete section of the multi-part registration form.
type Step struct {
	Number  int     `json:"step"`
	Label   string  `json:"label"`
	Section Section `json:"-"`
}

var (
	cabSteps = []Step{
		{1, "Personal Information", SectionPersonalInformation},
		{2, "Cab Vehicle Details", SectionVehicleDetails},
		{3, "Driving Details", SectionDrivingDetails},
		{4, "Payment & Subscription", SectionPaymentDetails},
		{5, "Language & References", SectionLanguageReferences},
		{6, "Declaration", SectionDeclaration},
	}

	parcelSteps = []Step{
		{1, "Personal Information", SectionPersonalInformation},
		{2, "Parcel Vehicle Details", SectionVehicleDetails},
		{3, "Driving Details", SectionDrivingDetails},
		{4, "Payment & Subscription", SectionPaymentDetails},
		{5, "Language & References", SectionLanguageReferences},
		{6, "Declaration", SectionDeclaration},
	}

	// The generic form has no vehicle step.
	genericSteps = []Step{
		{1, "Personal Information", SectionPersonalInformation},
		{2, "Driving Details", SectionDrivingDetails},
		{3, "Payment & Subscription", SectionPaymentDetails},
		{4, "Language & References", SectionLanguageReferences},
		{5, "Declaration", SectionDeclaration},
	}
)

// StepsFor returns the ordered registration steps for a service category.
// Unknown categories fall back to the generic five-step form.
func StepsFor(category Category) []Step {
	var src []Step
	switch category {
	case CategoryCab:
		src = cabSteps
	case CategoryParcel:
		src = parcelSteps
	default:
		src = genericSteps
	}

	// Copy so callers can't mutate the catalog.
	steps := make([]Step, len(src))
	copy(steps, src)
	return steps
}

// SectionsForSteps resolves step numbers to their profile sections for the
// given category. Duplicates collapse (set semantics); a step outside the
// category's range is an error, never silently ignored.
func SectionsForSteps(category Category, stepNumbers []int) ([]Section, error) {
	steps := StepsFor(category)

	byNumber := make(map[int]Section, len(steps))
	for _, s := range steps {
		byNumber[s.Number] = s.Section
	}

	seen := make(map[Section]bool, len(stepNumbers))
	sections := make([]Section, 0, len(stepNumbers))
	for _, n := range stepNumbers {
		section, ok := byNumber[n]
		if !ok {
			return nil, fmt.Errorf("step %d is not valid for category %s (valid steps are 1-%d)", n, category, len(steps))
		}
		if seen[section] {
			continue
		}
		seen[section] = true
		sections = append(sections, section)
	}

	return sections, nil
}
