package game

import "math/big"

type NoteType uint8

// 1 – Tap
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine
// L – Lift
// F – Fake
const (
	Tap NoteType = iota
	Hold
	HoldEnd
	Roll
	Mine
	Lift
	Fake
)

var noteTypeNames = [...]string{"tap", "hold", "holdend", "roll", "mine", "lift", "fake"}

func (t NoteType) String() string {
	if int(t) < len(noteTypeNames) {
		return noteTypeNames[t]
	}
	return "unknown"
}

// Head reports whether the note opens a sustain that is closed by a HoldEnd.
func (t NoteType) Head() bool {
	return t == Hold || t == Roll
}

// Hittable reports whether a press can be judged against the note.
func (t NoteType) Hittable() bool {
	return t == Tap || t == Hold || t == Roll || t == Mine
}

func FromSM(ch byte) (NoteType, bool) {
	switch ch {
	case '1':
		return Tap, true
	case '2':
		return Hold, true
	case '3':
		return HoldEnd, true
	case '4':
		return Roll, true
	case 'M':
		return Mine, true
	case 'L':
		return Lift, true
	case 'F':
		return Fake, true
	}
	return 0, false
}

func (t NoteType) SM() byte {
	return "1234MLF"[t]
}

type Note struct {
	Column int // The chart column
	Type   NoteType
}

// Row is every note sharing one position within a measure.
type Row struct {
	Position *big.Rat // In [0, 1)
	Notes    []Note
}
