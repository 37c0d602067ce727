package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePageLabel(t *testing.T) {
	assert.Equal(t, "Page 1 of 1", EncodePageLabel(PageState{CurrentPage: 0, MaxPages: 1}))
	assert.Equal(t, "Page 3 of 3", EncodePageLabel(PageState{CurrentPage: 2, MaxPages: 3}))
	assert.Equal(t, "Page 12 of 4", EncodePageLabel(PageState{CurrentPage: 11, MaxPages: 4}))
}

func TestPageLabel_RoundTrip(t *testing.T) {
	for p := 0; p < 60; p++ {
		for m := 1; m < 60; m++ {
			state := PageState{CurrentPage: p, MaxPages: m}

			got, err := DecodePageLabel(EncodePageLabel(state))
			require.NoError(t, err)
			require.Equal(t, state, got)
		}
	}

	for _, big := range []PageState{
		{CurrentPage: 123456788, MaxPages: 987654321},
		{CurrentPage: math.MaxInt - 1, MaxPages: math.MaxInt},
		{CurrentPage: math.MaxInt, MaxPages: math.MaxInt},
	} {
		got, err := DecodePageLabel(EncodePageLabel(big))
		require.NoError(t, err)
		assert.Equal(t, big, got)
	}

	assert.NotContains(t, EncodePageLabel(PageState{CurrentPage: math.MaxInt, MaxPages: 1}), "-")
}

func TestDecodePageLabel_Invalid(t *testing.T) {
	labels := []string{
		"",
		"Page",
		"Page 1",
		"page 1 of 2",
		"Page 1 of ",
		"Page  of 2",
		"Page 0 of 2",
		"Page 1 of 0",
		"Page -1 of 2",
		"Page +1 of 2",
		"Page 1 of 2x",
		"Page one of two",
		"Page 1 of 2 of 3",
		"Page 99999999999999999999 of 2",
		"Page 2 of 99999999999999999999",
		"Page ٣ of 4",
	}

	for _, label := range labels {
		t.Run(label, func(t *testing.T) {
			_, err := DecodePageLabel(label)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPageLabel)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestMaxPages(t *testing.T) {
	tests := []struct {
		count    int
		perPage  int
		expected int
	}{
		{count: 0, perPage: PerPage, expected: 1},
		{count: 1, perPage: PerPage, expected: 1},
		{count: 10, perPage: PerPage, expected: 1},
		{count: 11, perPage: PerPage, expected: 2},
		{count: 25, perPage: PerPage, expected: 3},
		{count: 30, perPage: PerPage, expected: 3},
		{count: 5, perPage: 0, expected: 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MaxPages(tt.count, tt.perPage), "count=%d perPage=%d", tt.count, tt.perPage)
	}
}
