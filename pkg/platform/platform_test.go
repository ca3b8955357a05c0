package platform_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"crossbuild/pkg/platform"
)

func TestTriplet(t *testing.T) {
	type test struct {
		name     string
		platform string
		expect   string
		err      error
	}

	tests := []test{
		{name: "AMD64", platform: "amd64", expect: "amd64-linux-gnu"},
		{name: "ARMHardFloat", platform: "armhf", expect: "arm-linux-gnueabihf"},
		{name: "SPARCLeon", platform: "sparc32", expect: "sparc-leon3-linux-gnu"},
		{name: "BareMetal", platform: "lm32", expect: "lm32-elf"},
		{name: "Unknown", platform: "riscv64", err: platform.ErrUnsupported},
		{name: "Empty", platform: "", err: platform.ErrUnsupported},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			triplet, err := platform.Triplet(test.platform)
			if test.err != nil {
				require.ErrorIs(t, err, test.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expect, triplet)
		})
	}
}

func TestTriplet_AllNamesWellFormed(t *testing.T) {
	names := platform.Names()
	require.Len(t, names, 14)
	require.IsIncreasing(t, names)

	for _, name := range names {
		triplet, err := platform.Triplet(name)
		require.NoError(t, err)
		require.NotEmpty(t, triplet)
		require.GreaterOrEqual(t, strings.Count(triplet, "-"), 1)
	}
}
