//go:build linux

package discovery

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

// Returned when neither supported package-listing tool is available
var ErrNoPackageTool = errors.New("neither dpkg-query nor rpm is available to list installed packages")

// The package-manager family used to query installed driver packages
type PackageFamily string

const (
	FamilyDebian PackageFamily = "deb"
	FamilyRPM    PackageFamily = "rpm"
)

// The installation state of a single driver package
type PackageStatus struct {
	Name      string
	Installed bool
}

// The user-space driver packages expected for each vendor, per package-manager family.
// Debian names may be dpkg-query glob patterns.
var driverPackages = map[Vendor]map[PackageFamily][]string{
	VendorIntel: {
		FamilyDebian: {"mesa-vulkan-drivers", "intel-media-va-driver"},
		FamilyRPM:    {"mesa-vulkan-drivers", "intel-media-driver"},
	},
	VendorNvidia: {
		FamilyDebian: {"nvidia-driver*"},
		FamilyRPM:    {"akmod-nvidia"},
	},
	VendorAMD: {
		FamilyDebian: {"mesa-vulkan-drivers", "mesa-va-drivers"},
		FamilyRPM:    {"mesa-vulkan-drivers", "mesa-va-drivers"},
	},
	VendorUnknown: {
		FamilyDebian: {"mesa-vulkan-drivers"},
		FamilyRPM:    {"mesa-vulkan-drivers"},
	},
}

// Determines which package-listing tool the host provides
func DetectPackageFamily(r runner.Runner) (PackageFamily, error) {
	if _, err := r.LookPath("dpkg-query"); err == nil {
		return FamilyDebian, nil
	}

	if _, err := r.LookPath("rpm"); err == nil {
		return FamilyRPM, nil
	}

	return "", ErrNoPackageTool
}

// Queries the installation state of the driver packages expected for the vendor
func DriverPackages(ctx context.Context, r runner.Runner, vendor Vendor) ([]PackageStatus, error) {

	// Determine which package manager family we are querying
	family, err := DetectPackageFamily(r)
	if err != nil {
		return nil, err
	}

	statuses := []PackageStatus{}
	for _, name := range driverPackages[vendor][family] {

		// Abort early if the run has been interrupted
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		statuses = append(statuses, PackageStatus{
			Name:      name,
			Installed: packageInstalled(ctx, r, family, name),
		})
	}

	return statuses, nil
}

// Queries whether a single package is installed
func packageInstalled(ctx context.Context, r runner.Runner, family PackageFamily, name string) bool {
	switch family {
	case FamilyDebian:
		output, err := r.Output(ctx, runner.Command{
			Name: "dpkg-query",
			Args: []string{"-W", "-f=${Status}\\n", name},
		})
		return err == nil && strings.Contains(string(output), "install ok installed")

	case FamilyRPM:
		_, err := r.Output(ctx, runner.Command{Name: "rpm", Args: []string{"-q", name}})
		return err == nil

	default:
		return false
	}
}
