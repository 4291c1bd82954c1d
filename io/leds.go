package io

// Leds is the LED output register. Only the low five bits are kept.
type Leds struct {
	History []uint32 // Every value written, in order.

	value uint32
}

// Reset turns off all LEDs and clears the history.
func (leds *Leds) Reset() {
	leds.value = 0
	leds.History = nil
}

// Value returns the current LED state.
func (leds *Leds) Value() uint32 {
	return leds.value
}

// Write sets the LED state.
func (leds *Leds) Write(value uint32) {
	leds.value = value & LEDS_MASK
	leds.History = append(leds.History, leds.value)
}

// String renders the LEDs, most significant first, as '*' (on) or '.' (off).
func (leds *Leds) String() (text string) {
	for bit := 4; bit >= 0; bit-- {
		if leds.value&(1<<bit) != 0 {
			text += "*"
		} else {
			text += "."
		}
	}
	return
}
