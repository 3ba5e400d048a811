//go:build linux

package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVendorString(t *testing.T) {
	assert.Equal(t, "intel", VendorIntel.String())
	assert.Equal(t, "nvidia", VendorNvidia.String())
	assert.Equal(t, "amd", VendorAMD.String())
	assert.Equal(t, "unknown", VendorUnknown.String())
	assert.Equal(t, "unknown", Vendor(42).String())
}

func TestParseVendor(t *testing.T) {
	for _, vendor := range AllVendors {
		assert.Equal(t, vendor, ParseVendor(vendor.String()))
	}

	assert.Equal(t, VendorNvidia, ParseVendor(" NVIDIA "))
	assert.Equal(t, VendorUnknown, ParseVendor("matrox"))
}

func TestPCIVendorID(t *testing.T) {
	assert.Equal(t, uint16(0x8086), VendorIntel.PCIVendorID())
	assert.Equal(t, uint16(0x10de), VendorNvidia.PCIVendorID())
	assert.Equal(t, uint16(0x1002), VendorAMD.PCIVendorID())
	assert.Zero(t, VendorUnknown.PCIVendorID())
}

func TestAvailableRAMMB(t *testing.T) {
	tests := []struct {
		free uint64
		want uint64
	}{
		{16000, 12800},
		{0, 0},
		{1, 0},
		{9, 7},
		{8191, 6552},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, AvailableRAMMB(tc.free), "free=%d", tc.free)
	}
}
