package testdata

import (
	"io"
	"strings"
)

// Simfile starts 100ms in at 120bpm and doubles speed at measure 2.
//
//	Beginner:  taps at 100, 1100; hold 2100-3100; tap 3100; mine 3600; quad at 4100
//	Challenge: eight 8th note taps from 100 every 250ms, then 1001 and 0110 at 2100 and 3100
const Simfile = `#TITLE:Test Song;
#ARTIST:Nobody;
#MUSIC:test.ogg;
#OFFSET:-0.100;
#BPMS:0.000=120.000,8.000=240.000;
#STOPS:;

#NOTES:
     dance-single:
     :
     Beginner:
     1:
     0,0,0,0,0:
1000
0000
0100
0000
,  // measure 1
2000
0000
3010
0M00
,
1111
;

#NOTES:
     pump-single:
     :
     Easy:
     2:
     :
10000
;

#NOTES:
     dance-single:
     author:
     Challenge:
     10:
     :
1000
0100
0010
0001
1000
0100
0010
0001
,
1001
0000
0110
0000
;
`

// Unterminated is a simfile whose hold never ends.
const Unterminated = `#TITLE:Broken;
#OFFSET:0;
#BPMS:0=150;
#NOTES:
     dance-single:
     :
     Hard:
     8:
     :
2000
0000
1000
0000
;
`

// Mixed has a playable Easy chart and a Hard chart whose hold never ends.
const Mixed = `#TITLE:Mixed;
#OFFSET:0;
#BPMS:0=150;
#NOTES:
     dance-single:
     :
     Easy:
     2:
     :
1000
0100
0010
0001
;
#NOTES:
     dance-single:
     :
     Hard:
     8:
     :
2000
0000
1000
0000
;
`

// BadRow is a simfile with a row of the wrong width.
const BadRow = `#TITLE:Bad;
#BPMS:0=150;
#NOTES:
     dance-single:
     :
     Hard:
     8:
     :
100
;
`

func Reader() io.Reader {
	return strings.NewReader(Simfile)
}
