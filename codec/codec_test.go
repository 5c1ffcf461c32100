package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/animalcache/model"
)

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_AreInterchangeable(t *testing.T) {
	records := []model.Record{
		{ID: "A1", Category: "Beagle", Name: "Rex", Payload: json.RawMessage(`{"sex_upon_outcome":"Neutered Male"}`)},
		{ID: "A2"},
	}

	data := MustMarshal(JSON{}, records)

	var decoded []model.Record
	require.NoError(t, GoJSON{}.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Rex", decoded[0].Name)
	assert.JSONEq(t, `{"sex_upon_outcome":"Neutered Male"}`, string(decoded[0].Payload))
	assert.Equal(t, "A2", decoded[1].ID)
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
	assert.NotPanics(t, func() { MustMarshal(nil, 1) })
}
