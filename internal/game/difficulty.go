package game

import (
	"strconv"
	"strings"
)

// Difficulty maps a menu choice to an attempt budget.
type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

// DefaultDifficulty is used when the menu selection is not recognised.
const DefaultDifficulty = Medium

var budgets = map[Difficulty]int{
	Easy:   10,
	Medium: 7,
	Hard:   5,
}

// Difficulties lists the menu entries in display order.
func Difficulties() []Difficulty { return []Difficulty{Easy, Medium, Hard} }

// Attempts returns the attempt budget for d (Medium's for unknown values).
func (d Difficulty) Attempts() int {
	if n, ok := budgets[d]; ok {
		return n
	}
	return budgets[DefaultDifficulty]
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	}
	return "Difficulty(" + strconv.Itoa(int(d)) + ")"
}

// ParseDifficulty reads a menu choice ("1".."3"). ok is false, and the
// default difficulty returned, for anything else.
func ParseDifficulty(raw string) (d Difficulty, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultDifficulty, false
	}
	d = Difficulty(n)
	if _, known := budgets[d]; !known {
		return DefaultDifficulty, false
	}
	return d, true
}
