package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Step is one named traversal from a selection to another selection.
type Step struct {
	Name  string
	apply func(*goquery.Selection) *goquery.Selection
}

// Path is an ordered list of steps walked from a subtree root.
type Path []Step

// Find matches every descendant for selector.
func Find(selector string) Step {
	return Step{
		Name:  selector,
		apply: func(s *goquery.Selection) *goquery.Selection { return s.Find(selector) },
	}
}

// First matches the first descendant for selector.
func First(selector string) Step {
	return Step{
		Name:  selector + ":first",
		apply: func(s *goquery.Selection) *goquery.Selection { return s.Find(selector).First() },
	}
}

// Last matches the last descendant for selector.
func Last(selector string) Step {
	return Step{
		Name:  selector + ":last",
		apply: func(s *goquery.Selection) *goquery.Selection { return s.Find(selector).Last() },
	}
}

// Nth matches the nth (zero based) descendant for selector.
func Nth(selector string, n int) Step {
	return Step{
		Name:  fmt.Sprintf("%s:%d", selector, n),
		apply: func(s *goquery.Selection) *goquery.Selection { return s.Find(selector).Eq(n) },
	}
}

// Sibling moves n element siblings forward from the first node of the
// selection.
func Sibling(n int) Step {
	return Step{
		Name:  fmt.Sprintf("+%d", n),
		apply: func(s *goquery.Selection) *goquery.Selection { return sibling(s.First(), n) },
	}
}

// Resolve walks p from root. It fails with ErrFieldNotFound at the first
// step that matches nothing.
func (p Path) Resolve(root *goquery.Selection) (*goquery.Selection, error) {
	if root == nil || root.Length() == 0 {
		return nil, &FieldError{Step: "root", Err: ErrFieldNotFound}
	}

	cur := root
	for _, step := range p {
		cur = step.apply(cur)
		if cur.Length() == 0 {
			return nil, &FieldError{Step: step.Name, Err: ErrFieldNotFound}
		}
	}
	return cur, nil
}

func sibling(s *goquery.Selection, n int) *goquery.Selection {
	for i := 0; i < n && s.Length() > 0; i++ {
		s = s.Next()
	}
	return s
}
