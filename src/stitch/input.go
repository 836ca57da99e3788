package stitch

import (
	"github.com/go-vgo/robotgo"
)

// RobotScroller drives the real mouse and keyboard via robotgo.
type RobotScroller struct{}

func (RobotScroller) FocusAt(x, y int) error {
	robotgo.Move(x, y)
	robotgo.Click("left")
	robotgo.MilliSleep(300)
	return nil
}

func (RobotScroller) PageDown() error {
	return robotgo.KeyTap("pagedown")
}
