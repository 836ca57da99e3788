// Package hotkey registers global key combinations via gohook and invokes a
// callback when every key of a combination is held.
package hotkey

import (
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

// Binding associates one hotkey combination with a callback.
type Binding struct {
	Combo    string
	Callback func()
	keys     []keyState
}

var (
	startOnce sync.Once
	mu        sync.Mutex
	bindings  []*Binding
)

// Listen registers combo and starts the shared gohook event loop on first
// use. An empty combo is ignored.
func Listen(combo string, callback func()) {
	if combo == "" {
		return
	}

	b := &Binding{Combo: combo, Callback: callback}
	for _, keyName := range parseHotkey(combo) {
		rawcodes := keyNameToRawcodes(keyName)
		if len(rawcodes) == 0 {
			log.Printf("Cannot map key '%s' in combo '%s' to rawcodes", keyName, combo)
			continue
		}
		b.keys = append(b.keys, keyState{name: keyName, rawcodes: rawcodes})
	}
	if len(b.keys) == 0 {
		log.Printf("No valid keys in hotkey configuration '%s'", combo)
		return
	}

	mu.Lock()
	bindings = append(bindings, b)
	mu.Unlock()
	log.Printf("Hotkey listener configured for: %s", combo)

	startOnce.Do(func() { go eventLoop() })
}

func eventLoop() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hotkey goroutine: %v", r)
		}
	}()

	evChan := gohook.Start()
	if evChan == nil {
		log.Printf("gohook.Start() returned nil channel")
		return
	}

	for ev := range evChan {
		if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp {
			continue
		}

		var fire []*Binding
		mu.Lock()
		for _, b := range bindings {
			if b.apply(ev.Kind == gohook.KeyDown, ev.Rawcode) {
				fire = append(fire, b)
			}
		}
		mu.Unlock()

		for _, b := range fire {
			log.Printf("Hotkey activated: %s", b.Combo)
			if b.Callback != nil {
				b.Callback()
			}
		}
	}
	log.Printf("Hotkey event channel closed")
}

// apply updates key state for one event and reports whether the full
// combination just completed. Completion resets the binding's state.
func (b *Binding) apply(down bool, rawcode uint16) bool {
	matched := false
	for i := range b.keys {
		for _, rc := range b.keys[i].rawcodes {
			if rawcode == rc {
				b.keys[i].pressed = down
				matched = true
				break
			}
		}
	}
	if !matched || !down {
		return false
	}

	for i := range b.keys {
		if !b.keys[i].pressed {
			return false
		}
	}
	for i := range b.keys {
		b.keys[i].pressed = false
	}
	return true
}

// parseHotkey converts a hotkey string like "Alt+c" to normalized key names.
func parseHotkey(combo string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		case "":
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

// specialRawcodes maps non-alphanumeric key names to Windows virtual key
// codes (both variants for modifiers).
var specialRawcodes = map[string][]uint16{
	"ctrl":      {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":       {164, 165}, // VK_LMENU, VK_RMENU
	"shift":     {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":       {91, 92},   // VK_LWIN, VK_RWIN
	"space":     {32},
	"enter":     {13},
	"return":    {13},
	"esc":       {27},
	"escape":    {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"del":       {46},
	"insert":    {45},
	"ins":       {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pgup":      {33},
	"pagedown":  {34},
	"pgdn":      {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
}

// keyNameToRawcodes maps a key name to its virtual key code rawcodes.
// Letters, digits and function keys are computed from their contiguous VK
// ranges; everything else comes from the table above.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	if len(keyName) == 1 {
		c := keyName[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65} // VK_A..VK_Z
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48} // VK_0..VK_9
		}
	}

	if strings.HasPrefix(keyName, "f") && len(keyName) > 1 {
		n := 0
		for _, r := range keyName[1:] {
			if r < '0' || r > '9' {
				n = 0
				break
			}
			n = n*10 + int(r-'0')
		}
		if n >= 1 && n <= 24 {
			return []uint16{uint16(n-1) + 112} // VK_F1..VK_F24
		}
	}

	if codes, ok := specialRawcodes[keyName]; ok {
		return codes
	}

	log.Printf("Unknown key name '%s', cannot map to rawcode", keyName)
	return nil
}
