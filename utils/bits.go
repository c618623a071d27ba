package utils

import "fmt"

// UintToBits returns the width lowest bits of n, most significant first.
func UintToBits(n uint64, width int) []int {
	bits := make([]int, width)
	for i := 0; i < width; i++ {
		if n&(1<<(width-1-i)) != 0 {
			bits[i] = 1
		}
	}
	return bits
}

// BitsToUint is the inverse of UintToBits.
func BitsToUint(bits []int) (uint64, error) {
	var n uint64
	for i, b := range bits {
		if b != 0 && b != 1 {
			return 0, fmt.Errorf("bit %d is %d", i, b)
		}
		n = n<<1 | uint64(b)
	}
	return n, nil
}

// ToSigned reinterprets the width lowest bits of n as a two's complement value.
func ToSigned(n uint64, width int) int64 {
	n &= 1<<width - 1
	if n&(1<<(width-1)) != 0 {
		return int64(n) - 1<<width
	}
	return int64(n)
}

// SignMagnitude splits v into its sign and absolute value.
func SignMagnitude(v int64) (neg bool, mag uint64) {
	if v < 0 {
		return true, uint64(-v)
	}
	return false, uint64(v)
}

// Rows enumerates every assignment of ports, the first port being the lowest bit of the row index.
func Rows(ports []string) []map[string]bool {
	res := make([]map[string]bool, 1<<len(ports))
	for r := range res {
		row := make(map[string]bool, len(ports))
		for i, port := range ports {
			row[port] = r&(1<<i) != 0
		}
		res[r] = row
	}
	return res
}
