package game

type Difficulty struct {
	Name  string
	Meter string
	Type  string
	NKeys int
}

var NKeyMap = map[string]int{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
}
