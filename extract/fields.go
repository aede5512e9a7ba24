package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// locate resolves path and stamps the field name onto any failure.
func locate(root *goquery.Selection, field string, path Path) (*goquery.Selection, error) {
	sel, err := path.Resolve(root)
	if err != nil {
		return nil, named(field, err)
	}
	return sel.First(), nil
}

func named(field string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{Field: field, Step: fe.Step, Err: fe.Err}
	}
	return &FieldError{Field: field, Err: err}
}

// Text returns the whitespace-normalized text of the node at path,
// descendants included.
func Text(root *goquery.Selection, field string, path Path) (string, error) {
	sel, err := locate(root, field, path)
	if err != nil {
		return "", err
	}
	return NormalizeSpace(sel.Text()), nil
}

// OwnTextAt returns the node's own text at path.
func OwnTextAt(root *goquery.Selection, field string, path Path) (string, error) {
	sel, err := locate(root, field, path)
	if err != nil {
		return "", err
	}
	return OwnText(sel), nil
}

// Attr returns an attribute of the node at path. An absent attribute counts
// as a missing field.
func Attr(root *goquery.Selection, field string, path Path, attr string) (string, error) {
	sel, err := locate(root, field, path)
	if err != nil {
		return "", err
	}
	v, ok := sel.Attr(attr)
	if !ok {
		return "", &FieldError{Field: field, Step: "@" + attr, Err: ErrFieldNotFound}
	}
	return strings.TrimSpace(v), nil
}

// Int parses the text at path as a digit-only integer.
func Int(root *goquery.Selection, field string, path Path) (int, error) {
	text, err := Text(root, field, path)
	if err != nil {
		return 0, err
	}
	n, err := ParseInt(text)
	if err != nil {
		return 0, named(field, err)
	}
	return n, nil
}

// Int64 is Int for large counts.
func Int64(root *goquery.Selection, field string, path Path) (int64, error) {
	text, err := Text(root, field, path)
	if err != nil {
		return 0, err
	}
	n, err := ParseInt64(text)
	if err != nil {
		return 0, named(field, err)
	}
	return n, nil
}

// Float parses the own text at path as a decimal number.
func Float(root *goquery.Selection, field string, path Path) (float64, error) {
	text, err := OwnTextAt(root, field, path)
	if err != nil {
		return 0, err
	}
	f, err := ParseFloat(text)
	if err != nil {
		return 0, named(field, err)
	}
	return f, nil
}

// Meta reads the content attribute of <meta attr="name">, e.g.
// Meta(doc, "name", "twitter:title") or Meta(doc, "property", "og:image").
func Meta(root *goquery.Selection, attr, name string) (string, error) {
	selector := fmt.Sprintf(`meta[%s=%q]`, attr, name)
	return Attr(root, name, Path{First(selector)}, "content")
}

// Paragraphs joins the text of the direct <p> children of sel with newlines.
// Without any paragraph it falls back to the element's own text.
func Paragraphs(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}

	ps := sel.First().ChildrenFiltered("p")
	if ps.Length() == 0 {
		return OwnText(sel)
	}

	lines := make([]string, 0, ps.Length())
	ps.Each(func(_ int, p *goquery.Selection) {
		if text := NormalizeSpace(p.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n")
}

// List returns the own text of every item matched under container, in
// document order. A missing container yields an empty list.
func List(container *goquery.Selection, item string) []string {
	out := []string{}
	if container == nil || container.Length() == 0 {
		return out
	}

	container.Find(item).Each(func(_ int, s *goquery.Selection) {
		if text := OwnText(s); text != "" {
			out = append(out, text)
		}
	})
	return out
}
