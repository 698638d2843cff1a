package task

import (
	"fmt"
	"strings"
)

// Priority хранится в колонке типа priority_level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorityRank = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("неизвестный приоритет %q", s)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank: low < medium < high, 0 для неизвестного значения.
func (p Priority) Rank() int {
	return priorityRank[p]
}

func (p Priority) String() string {
	return string(p)
}
