package employee

import (
	"cmp"
	"slices"
	"strings"
)

// TopEarnersLimit is the size of the top earners list.
const TopEarnersLimit = 10

// FilterByName keeps employees whose name contains needle, ignoring case.
// An empty needle keeps everyone. Order is preserved and the result is never
// nil.
func FilterByName(list []Employee, needle string) []Employee {
	needle = strings.ToLower(needle)
	out := make([]Employee, 0, len(list))
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			out = append(out, e)
		}
	}
	return out
}

// MaxSalary returns the highest salary, or 0 for an empty list.
func MaxSalary(list []Employee) int {
	highest := 0
	for i, e := range list {
		if i == 0 || e.Salary > highest {
			highest = e.Salary
		}
	}
	return highest
}

// TopNNamesBySalary returns up to n names ordered by salary, highest first.
// Equal salaries keep their original relative order.
func TopNNamesBySalary(list []Employee, n int) []string {
	if n <= 0 {
		return []string{}
	}

	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b Employee) int {
		return cmp.Compare(b.Salary, a.Salary)
	})

	n = min(n, len(sorted))
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = sorted[i].Name
	}
	return names
}
