package utils

import (
	"sort"
	"strconv"
)

type idSeq []string

func (l idSeq) Len() int {
	return len(l)
}

func (l idSeq) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

func (l idSeq) Less(i, j int) bool {
	return LessID(l[i], l[j])
}

// splitID splits "ca_12" into ("ca_", 12). ok is false if there is no numeric suffix.
func splitID(s string) (string, int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0, false
	}
	return s[:i], n, true
}

// LessID orders instance ids by prefix, then by numeric suffix, so ca_9 comes before ca_10.
func LessID(a, b string) bool {
	pa, na, oka := splitID(a)
	pb, nb, okb := splitID(b)
	if pa != pb || !oka || !okb {
		return a < b
	}
	return na < nb
}

// SortIDs sorts instance ids in place, see LessID.
func SortIDs(s []string) {
	sort.Sort(idSeq(s))
}
