package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// osName is swappable so platform dispatch can be covered in tests.
var osName = func() string { return runtime.GOOS }

// OpenBrowser launches the user's default browser on url, used to present
// the Google consent page during sign in. The command is started without
// waiting; the OAuth callback server picks up the redirect.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch os := osName(); os {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("no known browser launcher for platform %s", os)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
