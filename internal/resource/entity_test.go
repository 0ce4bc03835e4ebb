package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_MarshalOmitsMissingID(t *testing.T) {
	e := NewEntity(map[string]any{"title": "x", "completed": false})

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x","completed":false}`, string(data))

	data, err = json.Marshal(e.WithID(5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"title":"x","completed":false}`, string(data))
}

func TestEntity_UnmarshalKeepsUnknownFields(t *testing.T) {
	var e Entity
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"artist":"Nina","song":"Sinnerman","completed":true,"rating":4}`), &e))

	id, ok := e.ID()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "Nina", e.Text("artist"))
	assert.True(t, e.Bool("completed"))
	assert.Equal(t, "4", e.Text("rating"))

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"artist":"Nina","song":"Sinnerman","completed":true,"rating":4}`, string(data))
}

func TestEntity_UnmarshalIDVariants(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantID  int64
		wantHas bool
		wantErr bool
	}{
		{"null id", `{"id":null}`, 0, false, false},
		{"missing id", `{"title":"a"}`, 0, false, false},
		{"string id", `{"id":"12"}`, 12, true, false},
		{"fractional id", `{"id":1.5}`, 0, false, true},
		{"bool id", `{"id":true}`, 0, false, true},
		{"not an object", `null`, 0, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var e Entity
			err := json.Unmarshal([]byte(tc.in), &e)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			id, ok := e.ID()
			assert.Equal(t, tc.wantID, id)
			assert.Equal(t, tc.wantHas, ok)
		})
	}
}

func TestEntity_WithDoesNotMutateOriginal(t *testing.T) {
	orig := NewEntity(map[string]any{"title": "a"}).WithID(1)
	edited := orig.With("title", "b").With("completed", true)

	assert.Equal(t, "a", orig.Text("title"))
	assert.False(t, orig.Bool("completed"))
	assert.Equal(t, "b", edited.Text("title"))
	assert.True(t, edited.Bool("completed"))

	id, ok := edited.ID()
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestEntity_WithIgnoresID(t *testing.T) {
	e := NewEntity(map[string]any{"id": 3, "title": "a"})
	assert.False(t, e.Persisted())

	e = e.With("id", 9)
	assert.False(t, e.Persisted())
	_, present := e.Get("id")
	assert.False(t, present)
}

func TestEntity_ZeroValue(t *testing.T) {
	var e Entity
	assert.Equal(t, "", e.Text("missing"))
	assert.False(t, e.Bool("missing"))
	assert.Empty(t, e.Fields())

	e = e.With("title", "x")
	assert.Equal(t, "x", e.Text("title"))
}

func TestEntity_BoolOnlyAcceptsBooleans(t *testing.T) {
	e := NewEntity(map[string]any{"yes": true, "no": false, "str": "true", "one": "1", "num": 1})
	assert.True(t, e.Bool("yes"))
	assert.False(t, e.Bool("no"))
	assert.False(t, e.Bool("str"))
	assert.False(t, e.Bool("one"))
	assert.False(t, e.Bool("num"))
}
