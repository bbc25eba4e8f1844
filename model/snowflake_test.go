package model_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowcord/model"
)

func ExampleSnowflake_Time() {
	id, _ := model.ParseSnowflake("175928847299117063")
	fmt.Println(id.Time().Format(time.RFC3339Nano))

	// Output:
	// 2016-04-30T11:18:25.796Z
}

func TestParseSnowflake(t *testing.T) {
	id, err := model.ParseSnowflake("80351110224678912")
	require.NoError(t, err)
	assert.Equal(t, model.Snowflake(80351110224678912), id)
	assert.Equal(t, "80351110224678912", id.String())

	_, err = model.ParseSnowflake("not-an-id")
	assert.Error(t, err)
}

func TestFromTime_RoundTrip(t *testing.T) {
	at := time.Date(2022, 6, 15, 10, 0, 0, 0, time.UTC)

	id := model.FromTime(at)
	assert.True(t, at.Equal(id.Time()))
}

func TestAsSnowflake(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
		ok   bool
	}{
		{"decimal string", "80351110224678912", model.Snowflake(80351110224678912), true},
		{"json number", 12345.0, model.Snowflake(12345), true},
		{"already converted", model.Snowflake(7), model.Snowflake(7), true},
		{"nil passes through", nil, nil, true},
		{"garbage string", "abc", nil, false},
		{"wrong type", true, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.AsSnowflake(tt.in)

			if !tt.ok {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsSnowflakeList(t *testing.T) {
	got, err := model.AsSnowflakeList([]any{"1", "22", 333.0})
	require.NoError(t, err)
	assert.Equal(t, []model.Snowflake{1, 22, 333}, got)

	_, err = model.AsSnowflakeList([]any{"1", "nope"})
	assert.Error(t, err)

	got, err = model.AsSnowflakeList(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
