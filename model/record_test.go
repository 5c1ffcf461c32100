package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Validate(t *testing.T) {
	assert.ErrorIs(t, Record{Name: "Rex"}.Validate(), ErrMissingID)
	assert.NoError(t, Record{ID: "A1"}.Validate())
}

func TestRecord_Clone(t *testing.T) {
	r := Record{ID: "A1", Payload: json.RawMessage(`{"a":1}`)}
	c := r.Clone()
	c.Payload[2] = 'b'
	assert.Equal(t, `{"a":1}`, string(r.Payload))
}

func TestRecord_JSON(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"animal_id":"A1","breed":"Labrador","name":"Rex"}`), &r))
	assert.Equal(t, Record{ID: "A1", Category: "Labrador", Name: "Rex"}, r)
}

func TestProjection_Fields(t *testing.T) {
	p := Projection{"animal_type", FieldName, "animal_type"}
	assert.Equal(t, []string{FieldID, FieldCategory, FieldName, "animal_type"}, p.Fields())
	assert.True(t, p.Includes(FieldID))
	assert.False(t, p.Includes("color"))

	assert.Equal(t, []string{FieldID, FieldCategory, FieldName}, Projection(nil).Fields())
}

func TestRecord_Project(t *testing.T) {
	r := Record{
		ID:      "A1",
		Name:    "Rex",
		Payload: json.RawMessage(`{"animal_type":"Dog","outcome_type":"Adoption","datetime":"2014-07-01"}`),
	}

	p := r.Project(DefaultProjection)
	assert.Equal(t, "Rex", p.Name)
	assert.JSONEq(t, `{"animal_type":"Dog","datetime":"2014-07-01"}`, string(p.Payload))
	assert.Contains(t, string(r.Payload), "outcome_type")

	assert.Equal(t, r.Payload, r.Project(nil).Payload)
	assert.Nil(t, r.Project(Projection{"color"}).Payload)
	assert.Nil(t, Record{ID: "A2", Payload: json.RawMessage(`[1,2]`)}.Project(DefaultProjection).Payload)
}
