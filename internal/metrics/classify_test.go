package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/guregu/null.v3"
)

func TestMissing(t *testing.T) {
	m := DefaultMissing()

	assert.True(t, m.Is(null.String{}))
	assert.True(t, m.Is(null.StringFrom("")))
	assert.True(t, m.Is(null.StringFrom("  ")))
	assert.True(t, m.Is(null.StringFrom("-1")))
	assert.False(t, m.Is(null.StringFrom("0")))

	none := Missing{}
	assert.False(t, none.Is(null.StringFrom("-1")))
	assert.Equal(t, DefaultUnknownLabel, none.label())
}

func TestIdentityClassifier(t *testing.T) {
	c := IdentityClassifier{Missing: Missing{Sentinel: "-1", Label: "n/a"}}

	assert.Equal(t, "Yes", c.Classify(null.StringFrom(" Yes ")))
	assert.Equal(t, "n/a", c.Classify(null.String{}))
	assert.Equal(t, "n/a", c.Classify(null.StringFrom("-1")))
}

func TestMappingClassifier(t *testing.T) {
	c := NewMappingClassifier(map[string]string{"Yes ": "Yes", "no": "No"}, "Else", DefaultMissing())

	assert.Equal(t, "Yes", c.Classify(null.StringFrom("yes")))
	assert.Equal(t, "Yes", c.Classify(null.StringFrom("YES")))
	assert.Equal(t, "No", c.Classify(null.StringFrom(" No")))
	assert.Equal(t, "Else", c.Classify(null.StringFrom("perhaps")))
	assert.Equal(t, DefaultUnknownLabel, c.Classify(null.StringFrom("-1")))

	assert.Equal(t, DefaultOtherLabel, MappingClassifier{}.Classify(null.StringFrom("x")))
}

func TestClassifierFor(t *testing.T) {
	assert.IsType(t, IdentityClassifier{}, ClassifierFor(nil, "", DefaultMissing()))
	assert.IsType(t, MappingClassifier{}, ClassifierFor(map[string]string{"a": "A"}, "", DefaultMissing()))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.667, Round(2.0/3, 3))
	assert.Equal(t, 0.333, Round(1.0/3, 3))
	assert.Equal(t, 0.5, Round(0.5, 3))
	assert.Equal(t, 1.0, Round(0.9996, 3))
}
