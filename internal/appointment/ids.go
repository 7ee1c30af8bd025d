package appointment

import (
	"fmt"
	"strconv"
	"strings"
)

type IDKind int

const (
	KindPatient IDKind = iota
	KindDoctor
	KindSlot
	KindAppointment
	KindHistory

	numKinds
)

var idPrefixes = [numKinds]string{"P", "D", "S", "A", "H"}

func (k IDKind) Valid() bool {
	return k >= 0 && k < numKinds
}

func (k IDKind) Prefix() string {
	if !k.Valid() {
		return "?"
	}
	return idPrefixes[k]
}

// Counters holds the next sequence number per kind, in the order they are stored.
type Counters [numKinds]int

func defaultCounters() Counters {
	var c Counters
	for i := range c {
		c[i] = 1
	}
	return c
}

// FormatID renders kind prefix plus the sequence number padded to three digits.
// Numbers above 999 simply grow wider.
func FormatID(kind IDKind, n int) string {
	return fmt.Sprintf("%s%03d", kind.Prefix(), n)
}

// idNumber extracts the sequence number from an id of the given kind.
func idNumber(kind IDKind, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, kind.Prefix())
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (c Counters) marshal() []byte {
	var b strings.Builder
	for _, n := range c {
		b.WriteString(strconv.Itoa(n))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// parseCounters reads five integer lines. Anything else yields ok=false.
func parseCounters(lines []string) (Counters, bool) {
	var c Counters
	if len(lines) < len(c) {
		return c, false
	}
	for i := range c {
		n, err := strconv.Atoi(strings.TrimSpace(lines[i]))
		if err != nil || n < 1 {
			return c, false
		}
		c[i] = n
	}
	return c, true
}
