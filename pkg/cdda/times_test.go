package cdda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTimes(t *testing.T) {
	tests := []struct {
		name    string
		times   []string
		want    string
		wantErr bool
	}{
		{name: "two_tracks", times: []string{"01:02:73", "02:05:09"}, want: "03:05:07"},
		{name: "single_frame", times: []string{"00:00:01"}, want: "00:00:01"},
		{name: "round_minutes", times: []string{"10:00:00", "10:00:00"}, want: "19:40:00"},
		{name: "near_maximum", times: []string{"99:59:74", "00:01:00"}, want: "98:21:74"},
		{name: "overflow", times: []string{"59:59:74", "59:59:74"}, wantErr: true},
		{name: "empty", times: nil, wantErr: true},
		{name: "invalid_frames", times: []string{"00:00:75"}, wantErr: true},
		{name: "invalid_seconds", times: []string{"00:60:00"}, wantErr: true},
		{name: "not_a_time", times: []string{"abc"}, wantErr: true},
		{name: "single_digit_fields", times: []string{"1:2:3"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddTimes(tt.times)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDiscID(t *testing.T) {
	got := FormatDiscID([]int32{0, 7500, 15000}, 150000)
	assert.Equal(t, "0907d003 3 150 7650 15150 2002", got)
}

func TestCDDBSum(t *testing.T) {
	assert.Equal(t, int32(13), cddbSum(2344))
	assert.Equal(t, int32(0), cddbSum(0))
	assert.Equal(t, int32(9), cddbSum(9))
}
