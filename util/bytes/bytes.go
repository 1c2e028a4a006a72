package bytes

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// IEC Sizes.
const (
	Byte = 1 << (iota * 10)
	KB
	MB
	GB
	TB
	PB
	EB
)

// SI Sizes.
const (
	IByte = 1
	IKB   = IByte * 1000
	IMB   = IKB * 1000
	IGB   = IMB * 1000
	ITB   = IGB * 1000
	IPB   = ITB * 1000
	IEB   = IPB * 1000
)

var byteSizes = map[string]uint64{
	"b":   Byte,
	"kib": KB,
	"kb":  IKB,
	"mib": MB,
	"mb":  IMB,
	"gib": GB,
	"gb":  IGB,
	"tib": TB,
	"tb":  ITB,
	"pib": PB,
	"pb":  IPB,
	"eib": EB,
	"eb":  IEB,

	"":   Byte,
	"ki": KB,
	"k":  IKB,
	"mi": MB,
	"m":  IMB,
	"gi": GB,
	"g":  IGB,
	"ti": TB,
	"t":  ITB,
	"pi": PB,
	"p":  IPB,
	"ei": EB,
	"e":  IEB,
}

var iecSizes = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

func logn(n, b float64) float64 {
	return math.Log(n) / math.Log(b)
}

// FormatIByte convert uint64 to human-readable byte strings
func FormatIByte(s uint64) string {
	if s < 10 {
		return fmt.Sprintf("%d B", s)
	}
	e := math.Floor(logn(float64(s), 1024))
	suffix := iecSizes[int(e)]
	val := math.Floor(float64(s)/math.Pow(1024, e)*10+0.5) / 10
	f := "%.0f %s"
	if val < 10 {
		f = "%.1f %s"
	}
	return fmt.Sprintf(f, val, suffix)
}

// ParseByte convert human-readable byte strings to uint64
func ParseByte(s string) (uint64, error) {
	lastDigit := 0
	hasComma := false
	for _, r := range s {
		if !(unicode.IsDigit(r) || r == '.' || r == ',') {
			break
		}
		if r == ',' {
			hasComma = true
		}
		lastDigit++
	}

	num := s[:lastDigit]
	if hasComma {
		num = strings.Replace(num, ",", "", -1)
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}

	extra := strings.ToLower(strings.TrimSpace(s[lastDigit:]))
	if m, ok := byteSizes[extra]; ok {
		f *= float64(m)
		if f >= math.MaxUint64 {
			return 0, fmt.Errorf("too large: %v", s)
		}
		return uint64(f), nil
	}
	return 0, fmt.Errorf("unhandled size name: %v", extra)
}

// CloneBytes returns a copy of b that does not alias engine-owned memory.
func CloneBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
