//go:build linux

package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const intelListing = `00:00.0 Host bridge: Intel Corporation 12th Gen Core Processor Host Bridge/DRAM Registers (rev 02)
00:02.0 VGA compatible controller: Intel Corporation Alder Lake-P Integrated Graphics Controller (rev 0c)
00:14.0 USB controller: Intel Corporation Alder Lake PCH USB 3.2 xHCI Host Controller (rev 01)`

const hybridListing = `00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 630 (rev 02)
01:00.0 3D controller: NVIDIA Corporation TU117M [GeForce GTX 1650 Mobile / Max-Q] (rev a1)`

const amdListing = `00:00.0 Host bridge: Advanced Micro Devices, Inc. [AMD] Starship/Matisse Root Complex
0b:00.0 VGA compatible controller: Advanced Micro Devices, Inc. [AMD/ATI] Navi 21 [Radeon RX 6800/6800 XT / 6900 XT] (rev c1)`

func TestClassifyPCIListing(t *testing.T) {
	tests := []struct {
		name       string
		listing    string
		wantVendor Vendor
		wantModel  string
	}{
		{
			name:       "intel integrated graphics",
			listing:    intelListing,
			wantVendor: VendorIntel,
			wantModel:  "Intel Corporation Alder Lake-P Integrated Graphics Controller",
		},
		{
			name:       "first display line wins when several vendors appear",
			listing:    hybridListing,
			wantVendor: VendorIntel,
			wantModel:  "Intel Corporation UHD Graphics 630",
		},
		{
			name:       "non-display lines naming a vendor are ignored",
			listing:    amdListing,
			wantVendor: VendorAMD,
			wantModel:  "Advanced Micro Devices, Inc. [AMD/ATI] Navi 21 [Radeon RX 6800/6800 XT / 6900 XT]",
		},
		{
			name:       "vendor matching is case-insensitive",
			listing:    "01:00.0 3d CONTROLLER: nvidia corp GA102",
			wantVendor: VendorNvidia,
			wantModel:  "nvidia corp GA102",
		},
		{
			name:       "display controller class",
			listing:    "00:02.0 Display controller: Intel Corporation Device 46a6",
			wantVendor: VendorIntel,
			wantModel:  "Intel Corporation Device 46a6",
		},
		{
			name:       "no recognised vendor",
			listing:    "00:02.0 VGA compatible controller: Red Hat, Inc. Virtio GPU (rev 01)\n00:14.0 USB controller: Intel Corporation xHCI",
			wantVendor: VendorUnknown,
			wantModel:  "",
		},
		{
			name:       "empty listing",
			listing:    "",
			wantVendor: VendorUnknown,
			wantModel:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vendor, model := ClassifyPCIListing(tc.listing)
			assert.Equal(t, tc.wantVendor, vendor)
			assert.Equal(t, tc.wantModel, model)
		})
	}
}

func TestClassifyPCIListingOrder(t *testing.T) {
	nvidiaFirst := "01:00.0 VGA compatible controller: NVIDIA Corporation AD104\n02:00.0 VGA compatible controller: Advanced Micro Devices, Inc. [AMD/ATI] Navi 31"
	amdFirst := "02:00.0 VGA compatible controller: Advanced Micro Devices, Inc. [AMD/ATI] Navi 31\n01:00.0 VGA compatible controller: NVIDIA Corporation AD104"

	vendor, _ := ClassifyPCIListing(nvidiaFirst)
	assert.Equal(t, VendorNvidia, vendor)

	vendor, _ = ClassifyPCIListing(amdFirst)
	assert.Equal(t, VendorAMD, vendor)
}
