package render

import (
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (rows, columns int)
	AddDecoration(col, row int, content string, frames int)
	RenderLoop(delay, period time.Duration, render func(duration time.Duration) bool)
	Fill(row, column int, message string)
	Clear()
}
