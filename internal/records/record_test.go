package records

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listquest/internal/recurring"
)

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity("")
	require.NoError(t, err)
	assert.Nil(t, q)

	q, err = ParseQuantity(" 12 ")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 12, *q)

	q, err = ParseQuantity("0")
	require.NoError(t, err)
	assert.Equal(t, 0, *q)

	for _, input := range []string{"-1", "two", "1.5"} {
		_, err := ParseQuantity(input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, ErrInvalidField), input)
	}
}

func TestItemValidate(t *testing.T) {
	neg := -2
	assert.ErrorIs(t, (&Item{Quantity: &neg}).Validate(), ErrInvalidField)
	assert.ErrorIs(t, (&Item{Unit: UnitCount}).Validate(), ErrInvalidField)
	assert.NoError(t, (&Item{Title: "Milk", Unit: Kilograms}).Validate())
}

func TestTaskValidate(t *testing.T) {
	assert.NoError(t, (&Task{Interval: recurring.Yearly}).Validate())
	assert.ErrorIs(t, (&Task{Interval: 7}).Validate(), ErrInvalidField)
	assert.ErrorIs(t, (&Task{StartDate: civil.Date{Year: 2024, Month: 2, Day: 31}}).Validate(), ErrInvalidField)
}

func TestTaskAdvanceAndSteps(t *testing.T) {
	task := Task{
		StartDate: civil.Date{Year: 2024, Month: 1, Day: 1},
		Interval:  recurring.Weekly,
		FirstStep: "one",
		ThirdStep: "three",
	}
	task.Advance()

	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 8}, task.StartDate)
	assert.Equal(t, []string{"one", "three"}, task.Steps())
}

func TestParseUnit(t *testing.T) {
	testCases := []struct {
		input    string
		expected Unit
	}{
		{"", Units},
		{"gram", Grams},
		{"KG", Kilograms},
		{"oz", Ounces},
		{"pounds", Pounds},
		{"3", Milligrams},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			u, err := ParseUnit(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, u)
		})
	}

	_, err := ParseUnit("bushel")
	assert.ErrorIs(t, err, ErrInvalidField)
	_, err = ParseUnit("6")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestUnitNextWraps(t *testing.T) {
	assert.Equal(t, Units, Kilograms.Next())
	assert.Equal(t, "grams", Grams.String())
}
