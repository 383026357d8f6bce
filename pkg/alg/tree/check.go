package tree

import "math"

// IsBST reports whether every left subtree holds smaller values and every
// right subtree larger ones.
func IsBST(a *Arena) bool {
	return inRange(a, a.root, math.MinInt, math.MaxInt)
}

func inRange(a *Arena, n ID, lo, hi int) bool {
	if n == Nil {
		return true
	}

	v := a.Value(n)
	if v <= lo && lo != math.MinInt || v >= hi && hi != math.MaxInt {
		return false
	}

	return inRange(a, a.Left(n), lo, v) && inRange(a, a.Right(n), v, hi)
}

// IsAVL reports whether a is a BST whose stored heights are exact and whose
// balance factors all lie in [-1, 1].
func IsAVL(a *Arena) bool {
	if !IsBST(a) {
		return false
	}

	_, ok := checkBalance(a, a.root)

	return ok
}

func checkBalance(a *Arena, n ID) (int, bool) {
	if n == Nil {
		return 0, true
	}

	lh, lok := checkBalance(a, a.Left(n))
	rh, rok := checkBalance(a, a.Right(n))
	h := 1 + max(lh, rh)

	if !lok || !rok || a.Height(n) != h || lh-rh > 1 || rh-lh > 1 {
		return h, false
	}

	return h, true
}

// TreeHeight returns the number of levels, 0 for an empty tree.
func TreeHeight(a *Arena) int {
	var depth func(ID) int

	depth = func(n ID) int {
		if n == Nil {
			return 0
		}

		return 1 + max(depth(a.Left(n)), depth(a.Right(n)))
	}

	return depth(a.root)
}
