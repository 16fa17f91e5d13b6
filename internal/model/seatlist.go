package model

import (
    "errors"
    "strconv"
    "strings"
)

// ErrInvalidSeatList is returned when a textual seat-number list
// cannot be parsed into positive integers.
var ErrInvalidSeatList = errors.New("malformed seat number list")

// ParseSeatNumbers converts the stored text form of a seat-number
// list (e.g. "1, 2, 14") into a slice of seat numbers.  Entries must
// be positive integers; duplicates are rejected.  An empty string
// yields an empty slice.
func ParseSeatNumbers(s string) ([]uint32, error) {
    s = strings.TrimSpace(s)
    if s == "" {
        return []uint32{}, nil
    }
    parts := strings.Split(s, ",")
    nums := make([]uint32, 0, len(parts))
    seen := make(map[uint32]struct{}, len(parts))
    for _, p := range parts {
        n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
        if err != nil || n == 0 {
            return nil, ErrInvalidSeatList
        }
        num := uint32(n)
        if _, dup := seen[num]; dup {
            return nil, ErrInvalidSeatList
        }
        seen[num] = struct{}{}
        nums = append(nums, num)
    }
    return nums, nil
}

// FormatSeatNumbers renders seat numbers into the canonical stored
// text form, "1, 2, 14".
func FormatSeatNumbers(nums []uint32) string {
    parts := make([]string, 0, len(nums))
    for _, n := range nums {
        parts = append(parts, strconv.FormatUint(uint64(n), 10))
    }
    return strings.Join(parts, ", ")
}
