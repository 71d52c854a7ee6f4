package app

import (
	"os/exec"
	"runtime"
)

// Opener opens a search URL outside the viewer.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(url string) error

// Open calls fn(url).
func (fn OpenerFunc) Open(url string) error {
	return fn(url)
}

// SystemOpener opens URLs with the platform's default handler.
type SystemOpener struct {
	goos  string
	start func(name string, args ...string) error
}

// NewSystemOpener returns an opener for the running platform.
func NewSystemOpener() SystemOpener {
	return SystemOpener{goos: runtime.GOOS, start: startDetached}
}

// Open launches the handler and returns without waiting for it.
func (o SystemOpener) Open(url string) error {
	name, args := browserCommand(o.goos, url)
	return o.start(name, args...)
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
