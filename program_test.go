package main

import (
	"testing"
	"time"
)

func TestPlaying(t *testing.T) {
	songEnd := 90 * time.Second
	tests := map[time.Duration]bool{
		-time.Second:                  true,
		30 * time.Second:              true,
		songEnd + outro - time.Second: true,
		songEnd + outro:               false,
	}
	p := &Program{}
	for duration, expected := range tests {
		if p.playing(duration, songEnd) != expected {
			t.Log("unfinished at", duration)
			t.Fail()
		}
	}

	p.finished, p.finishedAt = true, 40*time.Second
	finished := map[time.Duration]bool{
		40 * time.Second:       true,
		40*time.Second + outro: false,
		100 * time.Second:      false,
	}
	for duration, expected := range finished {
		if p.playing(duration, songEnd) != expected {
			t.Log("finished at", duration)
			t.Fail()
		}
	}
}
