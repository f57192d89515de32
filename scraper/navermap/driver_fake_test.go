package navermap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/g33150641-hub/matziprank/utils"
)

// staticDriver serves one fixed detail-page snapshot. Clicking the menu tab
// swaps in tabHTML, mimicking the portal's lazily rendered menu section.
type staticDriver struct {
	html    string
	body    string
	tabHTML string
}

func (d *staticDriver) doc() *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(d.html))
	if err != nil {
		panic(err)
	}
	return doc
}

func (d *staticDriver) Navigate(string) error { return nil }

func (d *staticDriver) SwitchFrame(string) bool { return true }

func (d *staticDriver) TopFrame() {}

func (d *staticDriver) Count(sel string) int { return d.doc().Find(sel).Length() }

func (d *staticDriver) Click(sel string) bool { return d.doc().Find(sel).Length() > 0 }

func (d *staticDriver) PressEnter(string) bool { return true }

func (d *staticDriver) ScrollBottom(string) {}

func (d *staticDriver) PageSource() string { return d.html }

func (d *staticDriver) Close() {}

func (d *staticDriver) Text(sel string) (string, bool) {
	s := d.doc().Find(sel).First()
	if s.Length() == 0 {
		return "", false
	}
	t := strings.TrimSpace(s.Text())
	return t, t != ""
}

func (d *staticDriver) TextAll(sel string, limit int) []string {
	var out []string
	d.doc().Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		out = append(out, strings.TrimSpace(s.Text()))
		return len(out) < limit
	})
	return out
}

func (d *staticDriver) ClickText(sel, text string) bool {
	clicked := false
	d.doc().Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) == text {
			clicked = true
			return false
		}
		return true
	})
	if clicked && d.tabHTML != "" {
		d.html = d.tabHTML
	}
	return clicked
}

func (d *staticDriver) TypeKeys(string, string, utils.DelayRange) bool { return true }

func (d *staticDriver) BodyText() string {
	if d.body != "" {
		return d.body
	}
	return d.doc().Find("body").Text()
}

// walkDriver simulates the two-frame portal for walker tests: a lazily
// growing result list in the search frame and one detail document per item
// in the entry frame. An empty detail means the entry frame never appears.
type walkDriver struct {
	items   []string // li inner HTML, one per listing
	details []string
	visible int
	step    int

	frame    string
	selected int
	typed    []string
	entered  bool
	closed   bool
}

func newWalkDriver(items, details []string, visible, step int) *walkDriver {
	return &walkDriver{
		items:    items,
		details:  details,
		visible:  visible,
		step:     step,
		selected: -1,
	}
}

var nthRe = regexp.MustCompile(`nth-of-type\((\d+)\)`)

func (d *walkDriver) currentHTML() string {
	switch d.frame {
	case searchFrame:
		var b strings.Builder
		b.WriteString(`<html><body><div id="_pcmap_list_scroll_container"><ul>`)
		for i := 0; i < d.visible && i < len(d.items); i++ {
			fmt.Fprintf(&b, "<li>%s</li>", d.items[i])
		}
		b.WriteString(`</ul></div></body></html>`)
		return b.String()
	case entryFrame:
		if d.selected >= 0 && d.selected < len(d.details) {
			return d.details[d.selected]
		}
		return "<html><body></body></html>"
	default:
		return "<html><body></body></html>"
	}
}

func (d *walkDriver) doc() *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(d.currentHTML()))
	if err != nil {
		panic(err)
	}
	return doc
}

func (d *walkDriver) Navigate(string) error { return nil }

func (d *walkDriver) SwitchFrame(name string) bool {
	switch name {
	case searchFrame:
		if !d.entered {
			return false
		}
	case entryFrame:
		if d.selected < 0 || d.selected >= len(d.details) || d.details[d.selected] == "" {
			return false
		}
	default:
		return false
	}
	d.frame = name
	return true
}

func (d *walkDriver) TopFrame() { d.frame = "" }

func (d *walkDriver) Count(sel string) int { return d.doc().Find(sel).Length() }

func (d *walkDriver) Text(sel string) (string, bool) {
	s := d.doc().Find(sel).First()
	if s.Length() == 0 {
		return "", false
	}
	t := strings.TrimSpace(s.Text())
	return t, t != ""
}

func (d *walkDriver) TextAll(sel string, limit int) []string {
	var out []string
	d.doc().Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		out = append(out, strings.TrimSpace(s.Text()))
		return len(out) < limit
	})
	return out
}

func (d *walkDriver) Click(sel string) bool {
	if d.doc().Find(sel).Length() == 0 {
		return false
	}
	if d.frame == searchFrame {
		if m := nthRe.FindStringSubmatch(sel); m != nil {
			idx, _ := strconv.Atoi(m[1])
			d.selected = idx - 1
		}
	}
	return true
}

func (d *walkDriver) ClickText(sel, text string) bool { return false }

func (d *walkDriver) TypeKeys(_, text string, _ utils.DelayRange) bool {
	d.typed = append(d.typed, text)
	return true
}

func (d *walkDriver) PressEnter(string) bool {
	d.entered = true
	return true
}

func (d *walkDriver) ScrollBottom(string) {
	d.visible += d.step
	if d.visible > len(d.items) {
		d.visible = len(d.items)
	}
}

func (d *walkDriver) PageSource() string { return d.currentHTML() }

func (d *walkDriver) BodyText() string { return d.doc().Find("body").Text() }

func (d *walkDriver) Close() { d.closed = true }
