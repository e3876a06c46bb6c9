//nolint:revive
package util_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/da-committer/da-committer/util"
)

func TestFirstDuplicate(t *testing.T) {
	tests := []struct {
		name    string
		values  []uint32
		wantDup bool
		dup     uint32
	}{
		{name: "empty", values: nil},
		{name: "single", values: []uint32{7}},
		{name: "unique", values: []uint32{1, 2, 3, 4}},
		{name: "adjacent duplicate", values: []uint32{1, 2, 2, 3}, wantDup: true, dup: 2},
		{name: "distant duplicate", values: []uint32{9, 1, 5, 9}, wantDup: true, dup: 9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dup, ok := util.FirstDuplicate(tc.values)
			require.Equal(t, tc.wantDup, ok)
			if tc.wantDup {
				require.Equal(t, tc.dup, dup)
			}
		})
	}
}

func TestValidateNoDuplicates(t *testing.T) {
	require.NoError(t, util.ValidateNoDuplicates("fragment id", []uint32{1, 2, 3}))

	err := util.ValidateNoDuplicates("fragment id", []uint32{1, 2, 1})
	require.ErrorContains(t, err, "duplicate fragment id detected: 1")
}

func TestParsePrivKeyHex(t *testing.T) {
	key, err := util.ParsePrivKeyHex("0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	require.NoError(t, err)
	require.NotNil(t, key)

	_, err = util.ParsePrivKeyHex("")
	require.Error(t, err)

	_, err = util.ParsePrivKeyHex("0000000000000000000000000000000000000000000000000000000000000000")
	require.Error(t, err)
}
