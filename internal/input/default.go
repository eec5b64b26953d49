package input

import (
	"encoding/binary"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	evKey     = 0x01
	keyEscape = 1
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input.h
type keyEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Unshifted US layout runes of the evdev key codes
// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
var codeRunes = map[uint16]rune{
	2: '1', 3: '2', 4: '3', 5: '4', 6: '5', 7: '6', 8: '7', 9: '8', 10: '9', 11: '0', 12: '-', 13: '=',
	16: 'q', 17: 'w', 18: 'e', 19: 'r', 20: 't', 21: 'y', 22: 'u', 23: 'i', 24: 'o', 25: 'p', 26: '[', 27: ']',
	30: 'a', 31: 's', 32: 'd', 33: 'f', 34: 'g', 35: 'h', 36: 'j', 37: 'k', 38: 'l', 39: ';', 40: '\'', 41: '`',
	43: '\\', 44: 'z', 45: 'x', 46: 'c', 47: 'v', 48: 'b', 49: 'n', 50: 'm', 51: ',', 52: '.', 53: '/',
	57: ' ',
}

type Event struct {
	Column  int
	Pressed bool
	Escape  bool
}

// Source delivers key events for the columns of a chart.
type Source interface {
	Events() <-chan Event
	Close() error
}

// DeviceSource reads presses and releases straight from an evdev device.
type DeviceSource struct {
	file   *os.File
	events chan Event
}

func ReadDevice(path string, column func(rune) int) (*DeviceSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s := &DeviceSource{file: file, events: make(chan Event, 128)}
	go func() {
		defer close(s.events)
		if err := readEvents(file, column, s.events); nil != err {
			log.Println(err, "unable to read keyboard input")
		}
	}()
	return s, nil
}

func (s *DeviceSource) Events() <-chan Event {
	return s.events
}

func (s *DeviceSource) Close() error {
	return s.file.Close()
}

func readEvents(r io.Reader, column func(rune) int, events chan<- Event) error {
	var ev keyEvent
	for {
		if err := binary.Read(r, binary.LittleEndian, &ev); nil != err {
			if err == io.EOF || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
		// 2 is autorepeat
		if ev.Type != evKey || ev.Value > 1 {
			continue
		}
		if ev.Code == keyEscape {
			events <- Event{Column: -1, Escape: true, Pressed: ev.Value == 1}
			continue
		}
		r, ok := codeRunes[ev.Code]
		if !ok {
			continue
		}
		if c := column(r); c >= 0 {
			events <- Event{Column: c, Pressed: ev.Value == 1}
		}
	}
}
