package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUDFMatches(t *testing.T) {
	cases := []struct {
		name     string
		udf      UDF
		required UDF
		want     bool
	}{
		{"exact", UDF{"qc": "pass"}, UDF{"qc": "pass"}, true},
		{"extra keys ignored", UDF{"qc": "pass", "lanes": 8}, UDF{"qc": "pass"}, true},
		{"different value", UDF{"qc": "fail"}, UDF{"qc": "pass"}, false},
		{"missing key", UDF{"other": "pass"}, UDF{"qc": "pass"}, false},
		{"missing key with nil requirement", UDF{}, UDF{"qc": nil}, false},
		{"nil value present", UDF{"qc": nil}, UDF{"qc": nil}, true},
		{"numeric widening", UDF{"lanes": float64(8)}, UDF{"lanes": 8}, true},
		{"number vs string", UDF{"lanes": "8"}, UDF{"lanes": 8}, false},
		{"empty requirement", UDF{"qc": "pass"}, UDF{}, true},
		{"nil udf", nil, UDF{"qc": "pass"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.udf.Matches(tc.required))
		})
	}
}

func TestConstructorDefaults(t *testing.T) {
	p := NewProcess("24-1", Unresolved[ProcessType]("pt"))
	assert.Equal(t, DefaultDateRun, p.DateRun)
	assert.NotNil(t, p.IOMappings)
	assert.Empty(t, p.IOMappings)
	assert.Nil(t, p.Modified)

	a := NewArtifact("2-1", KindResultFile)
	assert.Equal(t, QCUnknown, a.QCFlag)
	assert.True(t, a.ParentProcess.IsZero())
	assert.False(t, a.Working)

	label := DefaultReagentLabel()
	assert.Equal(t, "Illumina IDT", label.Category)
}

func TestProcessCloneIsDeep(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := NewProcess("24-1", Unresolved[ProcessType]("pt"))
	p.Modified = &ts
	p.IOMappings = append(p.IOMappings, IOMapping{
		Input:  Unresolved[Artifact]("in"),
		Output: &Output{Artifact: Unresolved[Artifact]("out"), Type: KindAnalyte},
	})

	cp := p.Clone()
	cp.IOMappings[0].Output.Type = KindResultFile
	*cp.Modified = cp.Modified.Add(time.Hour)

	assert.Equal(t, KindAnalyte, p.IOMappings[0].Output.Type)
	assert.Equal(t, ts, *p.Modified)
	assert.Equal(t, []string{"in"}, p.InputArtifactIDs())
}

func TestProcessJSONKeepsAbsentMapping(t *testing.T) {
	var absent Process
	require.NoError(t, json.Unmarshal([]byte(`{"id":"24-1","type":"pt"}`), &absent))
	assert.Nil(t, absent.IOMappings)

	var empty Process
	require.NoError(t, json.Unmarshal([]byte(`{"id":"24-2","input_output_maps":[]}`), &empty))
	assert.NotNil(t, empty.IOMappings)
}

func TestNotFoundError(t *testing.T) {
	err := errors.Wrap(NewNotFound(EntityArtifact, "a", "b"), "resolve outputs")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "artifact a, b not found")
}
