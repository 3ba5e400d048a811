//go:build linux

package scripts

// Every script starts by locating itself and sourcing the environment file that sits beside it
const preamble = `#!/bin/sh
# Generated by wine-gaming-setup.
set -e
SCRIPT_DIR="$(CDPATH= cd -- "$(dirname -- "$0")" && pwd)"
. "$SCRIPT_DIR/{{ .EnvFile }}"
`

const configureTemplate = preamble + `
exec {{ .Wine }} winecfg
`

const installMoreTemplate = preamble + `
exec {{ .Winetricks }} --gui
`

const cleanupTemplate = preamble + `
echo "Clearing temporary files..."
rm -rf "$WINEPREFIX/drive_c/windows/temp/"* "$WINEPREFIX/drive_c/users/$USER/Temp/"* 2>/dev/null || true

echo "Clearing translation-layer caches..."
rm -rf "$DXVK_STATE_CACHE_PATH/"* "$VKD3D_SHADER_CACHE_PATH/"* 2>/dev/null || true

echo "Removing log files..."
find "$WINEPREFIX" -type f -name '*.log' -delete 2>/dev/null || true

echo "Compacting the registry..."
EXPORT_FILE="$WINEPREFIX/.registry-export.reg"
{{ .Wine }} regedit /E "$EXPORT_FILE" '{{ .RegistryKey }}'
{{ .Wine }} reg delete '{{ .RegistryKey }}' /f
{{ .Wine }} regedit /S "$EXPORT_FILE"
rm -f "$EXPORT_FILE"
{{ .Wineserver }} -w

echo "Cleanup complete."
`

const runTemplate = preamble + `
if [ $# -lt 1 ]; then
	echo "Usage: $0 <path-to-exe> [arguments...]" >&2
	exit 2
fi

exec {{ .Wine }} "$@"
`
