// Package paint turns freehand gestures into strokes and strokes into timed
// tones.
//
// A Session owns everything: the stroke accumulator fed by pointer events, the
// append-only stroke store, the renderer that repaints the canvas after every
// change and the player that commits a scheduled Plan to an audio output.
// Sessions are single-owner; other goroutines talk to them by sending Event
// values to the goroutine that calls Dispatch.
//
// Spatial attributes map to sound as follows:
//
//	y (top → bottom)   thickness 2..10 px, frequency 220..1100 Hz
//	x (left → right)   velocity 0.5..1.0, gain = velocity * volume
//
// Every point lasts StepDuration; strokes play back to back in store order.
package paint
