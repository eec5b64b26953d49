package parser

import (
	"bufio"
	"io"
	"math/big"

	"git.lost.host/meutraa/notefield/internal/game"
)

// WriteNotes writes the chart's measures in .sm note syntax, each measure at
// the smallest row count that places every row exactly.
func WriteNotes(w io.Writer, chart *game.Chart) error {
	bw := bufio.NewWriter(w)
	for mi, measure := range chart.Measures {
		if mi > 0 {
			bw.WriteString(",\n")
		}
		rows := int64(4)
		for _, r := range measure {
			d := r.Position.Denom().Int64()
			rows = lcm(rows, d)
		}
		next := 0
		for i := int64(0); i < rows; i++ {
			line := make([]byte, chart.Difficulty.NKeys)
			for c := range line {
				line[c] = '0'
			}
			if next < len(measure) && measure[next].Position.Cmp(big.NewRat(i, rows)) == 0 {
				for _, n := range measure[next].Notes {
					if n.Column >= 0 && n.Column < len(line) {
						line[n.Column] = n.Type.SM()
					}
				}
				next++
			}
			bw.Write(line)
			bw.WriteByte('\n')
		}
	}
	bw.WriteString(";\n")
	return bw.Flush()
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}
