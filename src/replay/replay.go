// Package replay reproduces stored text at the current input focus and owns
// the clipboard plus the cursor-corner success/failure indicator.
package replay

import (
	"errors"
	"log"
	"sync"

	"github.com/go-vgo/robotgo"
	"golang.design/x/clipboard"
)

// ErrNothingCaptured is returned by callers when a type request arrives
// before any capture.
var ErrNothingCaptured = errors.New("nothing captured yet")

var clipboardMu sync.Mutex

// Init prepares the clipboard backend.
func Init() error {
	return clipboard.Init()
}

// Copy performs a mutex-guarded clipboard write to prevent corruption under
// parallel writes.
func Copy(text string) error {
	clipboardMu.Lock()
	defer clipboardMu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// Replayer emits text at the current input focus. TypeMode simulates
// keystrokes; otherwise the text goes through the clipboard and a Ctrl+V.
type Replayer struct {
	TypeMode bool
}

func (r Replayer) Replay(text string) error {
	if text == "" {
		return ErrNothingCaptured
	}

	robotgo.MilliSleep(100)

	if r.TypeMode {
		log.Printf("Replay: typing %d characters", len(text))
		robotgo.TypeStr(text)
		return nil
	}

	log.Printf("Replay: pasting %d characters via clipboard", len(text))
	if err := Copy(text); err != nil {
		return err
	}
	return robotgo.KeyTap("v", "ctrl")
}

// SignalSuccess moves the cursor to the top-right corner. Best-effort.
func SignalSuccess() {
	if bounds := robotgo.GetScreenRect(); bounds.W > 0 {
		robotgo.MoveSmooth(bounds.W-5, 5)
	}
}

// SignalFailure moves the cursor to the top-left corner. Best-effort.
func SignalFailure() {
	robotgo.MoveSmooth(5, 5)
}
