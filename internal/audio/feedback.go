// Package audio plays kiosk sound cues through aplay, falling back to
// the system beep. Audio is best effort; every failure is swallowed so a
// missing sound card never affects a sale.
package audio

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
)

// Feedback plays the kiosk's audio cues.
type Feedback struct {
	soundsDir string
	enabled   atomic.Bool
}

// New creates a Feedback rooted at the given sounds directory.
func New(soundsDir string) *Feedback {
	f := &Feedback{soundsDir: soundsDir}
	f.enabled.Store(true)
	return f
}

// SetEnabled toggles audio feedback.
func (f *Feedback) SetEnabled(enabled bool) {
	f.enabled.Store(enabled)
}

// Coin plays the coin-inserted cue.
func (f *Feedback) Coin() { f.play("coin.wav", "800", "100") }

// Printing plays the print-started cue.
func (f *Feedback) Printing() { f.play("printing.wav", "600", "200") }

// Complete plays the print-completed cue.
func (f *Feedback) Complete() { f.play("complete.wav", "1000", "300") }

// Error plays the error cue.
func (f *Feedback) Error() { f.play("error.wav", "400", "500") }

// play starts the sound asynchronously. If the wav file is missing it
// falls back to beep with the given frequency and length.
func (f *Feedback) play(file, beepFreq, beepLen string) {
	if !f.enabled.Load() {
		return
	}

	path := filepath.Join(f.soundsDir, file)
	var cmd *exec.Cmd
	if _, err := os.Stat(path); err == nil {
		cmd = exec.Command("aplay", path)
	} else {
		cmd = exec.Command("beep", "-f", beepFreq, "-l", beepLen)
	}

	_ = cmd.Start()
}
