package drivers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepsFor_CabHasSixSteps(t *testing.T) {
	steps := StepsFor(CategoryCab)

	require.Len(t, steps, 6)
	assert.Equal(t, "Cab Vehicle Details", steps[1].Label)
	assert.Equal(t, SectionVehicleDetails, steps[1].Section)
	assert.Equal(t, "Declaration", steps[5].Label)
}

func TestStepsFor_ParcelHasSixSteps(t *testing.T) {
	steps := StepsFor(CategoryParcel)

	require.Len(t, steps, 6)
	assert.Equal(t, "Parcel Vehicle Details", steps[1].Label)
	assert.Equal(t, SectionVehicleDetails, steps[1].Section)
}

func TestStepsFor_GenericHasNoVehicleStep(t *testing.T) {
	steps := StepsFor(CategoryGeneric)

	require.Len(t, steps, 5)
	for _, step := range steps {
		assert.NotEqual(t, SectionVehicleDetails, step.Section)
	}
	// Driving details shifts up to step 2 without the vehicle step.
	assert.Equal(t, SectionDrivingDetails, steps[1].Section)
}

func TestStepsFor_UnknownCategoryFallsBackToGeneric(t *testing.T) {
	steps := StepsFor(Category("motorbike"))

	require.Len(t, steps, 5)
	assert.Equal(t, StepsFor(CategoryGeneric), steps)
}

func TestStepsFor_NumbersAreSequentialFromOne(t *testing.T) {
	for _, category := range []Category{CategoryCab, CategoryParcel, CategoryGeneric} {
		steps := StepsFor(category)
		for i, step := range steps {
			assert.Equal(t, i+1, step.Number, "category %s", category)
		}
	}
}

func TestStepsFor_ReturnsACopy(t *testing.T) {
	steps := StepsFor(CategoryCab)
	steps[0].Label = "mutated"

	assert.Equal(t, "Personal Information", StepsFor(CategoryCab)[0].Label)
}

func TestSectionsForSteps_MapsCabStepsToSections(t *testing.T) {
	sections, err := SectionsForSteps(CategoryCab, []int{2, 4})

	require.NoError(t, err)
	assert.Equal(t, []Section{SectionVehicleDetails, SectionPaymentDetails}, sections)
}

func TestSectionsForSteps_GenericStepTwoIsDrivingDetails(t *testing.T) {
	sections, err := SectionsForSteps(CategoryGeneric, []int{2})

	require.NoError(t, err)
	assert.Equal(t, []Section{SectionDrivingDetails}, sections)
}

func TestSectionsForSteps_DuplicatesCollapse(t *testing.T) {
	sections, err := SectionsForSteps(CategoryCab, []int{3, 3, 3})

	require.NoError(t, err)
	assert.Equal(t, []Section{SectionDrivingDetails}, sections)
}

func TestSectionsForSteps_OutOfRangeIsError(t *testing.T) {
	_, err := SectionsForSteps(CategoryGeneric, []int{6})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 6")

	_, err = SectionsForSteps(CategoryCab, []int{0})
	require.Error(t, err)

	_, err = SectionsForSteps(CategoryCab, []int{1, 7})
	require.Error(t, err)
}
