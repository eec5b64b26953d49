package input

import (
	"log"

	"github.com/eiannone/keyboard"
)

// KeyboardSource reads the terminal. Terminals do not report releases, so
// every event is a press and holds complete on their own.
type KeyboardSource struct {
	events chan Event
}

func ReadKeyboard(column func(rune) int) (*KeyboardSource, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, err
	}
	s := &KeyboardSource{events: make(chan Event, 128)}
	go func() {
		defer close(s.events)
		for key := range keys {
			if nil != key.Err {
				log.Println(key.Err, "unable to read keyboard")
				return
			}
			if ev, ok := translate(key, column); ok {
				s.events <- ev
			}
		}
	}()
	return s, nil
}

func translate(key keyboard.KeyEvent, column func(rune) int) (Event, bool) {
	switch key.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Event{Column: -1, Escape: true, Pressed: true}, true
	case keyboard.KeySpace:
		key.Rune = ' '
	}
	c := column(key.Rune)
	if c < 0 {
		return Event{}, false
	}
	return Event{Column: c, Pressed: true}, true
}

func (s *KeyboardSource) Events() <-chan Event {
	return s.events
}

func (s *KeyboardSource) Close() error {
	return keyboard.Close()
}
