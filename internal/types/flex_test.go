package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/localnerve/clientsdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ref struct {
	ID types.FlexID `json:"id"`
}

func TestFlexIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.FlexID
		wantErr bool
	}{
		{"number", `{"id": 42}`, 42, false},
		{"string", `{"id": "42"}`, 42, false},
		{"padded string", `{"id": " 7 "}`, 7, false},
		{"null", `{"id": null}`, 0, false},
		{"word", `{"id": "abc"}`, 0, true},
		{"negative", `{"id": -1}`, 0, true},
		{"bool", `{"id": true}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r ref
			err := json.Unmarshal([]byte(tt.input), &r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.ID)
		})
	}
}

func TestFlexDate(t *testing.T) {
	want := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{`"2025-03-04"`, `"2025-03-04T15:30:00Z"`, `" 2025-03-04 "`} {
		var d types.FlexDate
		require.NoError(t, json.Unmarshal([]byte(input), &d), input)
		assert.Equal(t, want, d.Time(), input)
	}

	var d types.FlexDate
	assert.Error(t, json.Unmarshal([]byte(`"04/03/2025"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20250304`), &d))

	var empty types.FlexDate
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsZero())

	out, err := json.Marshal(types.FlexDate(want))
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-03-04"`, string(out))
}

func TestOptionalList(t *testing.T) {
	type patch struct {
		Refs types.OptionalList[ref] `json:"refs"`
	}

	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"refs": [{"id": 1}, {"id": "2"}]}`), &p))
	assert.True(t, p.Refs.Set)
	assert.Equal(t, []ref{{ID: 1}, {ID: 2}}, p.Refs.Items)

	p = patch{}
	require.NoError(t, json.Unmarshal([]byte(`{"refs": {"id": 3}}`), &p))
	assert.True(t, p.Refs.Set)
	assert.Equal(t, []ref{{ID: 3}}, p.Refs.Items)

	p = patch{}
	require.NoError(t, json.Unmarshal([]byte(`{"refs": []}`), &p))
	assert.True(t, p.Refs.Set)
	assert.Empty(t, p.Refs.Items)

	p = patch{}
	require.NoError(t, json.Unmarshal([]byte(`{"refs": null}`), &p))
	assert.False(t, p.Refs.Set)

	p = patch{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
	assert.False(t, p.Refs.Set)

	out, err := json.Marshal(types.Of[ref]())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}
