// Package player launches an external media player for a video and
// controls the running process. Pause and resume are implemented with
// job-control signals, so any player works without an IPC protocol.
package player

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/nkoval/vtv/internal/config"
)

const watchURLTemplate = "https://www.youtube.com/watch?v=%s"

// Player resolves a playback command at construction and runs at most
// one video at a time. Playing a new video stops the previous one.
type Player struct {
	command string

	mu      sync.Mutex
	current *exec.Cmd
	paused  bool
}

func New(cfg *config.PlayerConfig) *Player {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = cfg.Darwin
	case "windows":
		candidates = cfg.Windows
	default:
		candidates = cfg.Linux
	}

	command := findCommand(candidates...)
	if command == "" {
		command = cfg.DefaultOpener
	}

	return &Player{command: command}
}

// findCommand returns the first candidate present on PATH.
func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}

// Command reports the resolved playback command, empty when neither a
// candidate nor a default opener is available.
func (p *Player) Command() string {
	return p.command
}

// Play starts the player on the video's watch URL, stopping any video
// already running.
func (p *Player) Play(videoID string) error {
	if p.command == "" {
		return fmt.Errorf("no media player found")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	cmd := exec.Command(p.command, fmt.Sprintf(watchURLTemplate, videoID))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", p.command, err)
	}

	p.current = cmd
	p.paused = false

	// reap the process so Stop on a self-exited player is harmless
	go func() { _ = cmd.Wait() }()
	return nil
}

// Pause suspends the running player with SIGSTOP.
func (p *Player) Pause() error {
	if !signalsSupported {
		return fmt.Errorf("pause is not supported on %s", runtime.GOOS)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.current.Process == nil {
		return fmt.Errorf("nothing is playing")
	}
	if p.paused {
		return nil
	}
	if err := suspendProcess(p.current.Process); err != nil {
		return fmt.Errorf("pausing player: %w", err)
	}
	p.paused = true
	return nil
}

// Resume continues a paused player with SIGCONT.
func (p *Player) Resume() error {
	if !signalsSupported {
		return fmt.Errorf("resume is not supported on %s", runtime.GOOS)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.current.Process == nil {
		return fmt.Errorf("nothing is playing")
	}
	if !p.paused {
		return nil
	}
	if err := continueProcess(p.current.Process); err != nil {
		return fmt.Errorf("resuming player: %w", err)
	}
	p.paused = false
	return nil
}

// Paused reports whether playback is currently suspended.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Playing reports whether a player process has been started and not
// yet stopped. It does not track the process exiting on its own.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// Stop kills the running player, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.current != nil && p.current.Process != nil {
		// a stopped process ignores SIGKILL until continued
		_ = continueProcess(p.current.Process)
		_ = p.current.Process.Kill()
	}
	p.current = nil
	p.paused = false
}
