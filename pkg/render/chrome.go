package render

import (
	"fmt"
	"os/exec"
)

// chromeCandidates lists the executables tried for each mode, in order.
var chromeCandidates = map[Mode][]string{
	ModeWindows: {
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files\Chromium\Application\chrome.exe`,
		"chrome.exe",
	},
	ModeLinux: {
		"google-chrome",
		"google-chrome-stable",
		"chromium",
		"chromium-browser",
		"chrome",
	},
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

func findChrome(mode Mode) (string, error) {
	candidates, ok := chromeCandidates[mode]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	for _, c := range candidates {
		if p, err := lookPath(c); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: no Chrome or Chromium executable found for mode %s", ErrRender, mode)
}
