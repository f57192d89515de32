package navermap

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/g33150641-hub/matziprank/utils"
)

const (
	opTimeout  = 10 * time.Second
	navTimeout = 30 * time.Second
)

// chromeDriver implements Driver on top of a headless Chrome session.
type chromeDriver struct {
	ctx       context.Context
	cancels   []context.CancelFunc
	frameName string
	logger    *utils.Logger
	closed    bool
}

// newChromeDriver launches a browser session. A launch failure is fatal to
// the collection run, so it is the one Driver error surfaced to the caller.
func newChromeDriver(chromeBin string, logger *utils.Logger) (*chromeDriver, error) {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	if chromeBin == "" {
		return nil, fmt.Errorf("navermap: no Chrome/Chromium binary found (set CHROME_BIN)")
	}
	logger.Info("[navermap] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", "ko-KR"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.ExecPath(chromeBin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	d := &chromeDriver{
		ctx:     ctx,
		cancels: []context.CancelFunc{cancelCtx, cancelAlloc},
		logger:  logger,
	}

	// Start the browser now so a missing or broken binary fails loudly here.
	if err := chromedp.Run(ctx); err != nil {
		d.Close()
		return nil, fmt.Errorf("navermap: launch browser: %w", err)
	}
	return d, nil
}

func (d *chromeDriver) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// docExpr yields a JS expression for the current frame's document. The
// portal's frames are same-origin, so contentDocument is reachable from the
// top document.
func (d *chromeDriver) docExpr() string {
	if d.frameName == "" {
		return "document"
	}
	sel := fmt.Sprintf("iframe#%s", d.frameName)
	return fmt.Sprintf(`((document.querySelector(%q)&&document.querySelector(%q).contentDocument)||document)`, sel, sel)
}

func (d *chromeDriver) Navigate(url string) error {
	if err := d.run(navTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navermap: navigate %s: %w", url, err)
	}
	d.frameName = ""
	return nil
}

func (d *chromeDriver) SwitchFrame(name string) bool {
	sel := fmt.Sprintf("iframe#%s", name)
	js := fmt.Sprintf(
		`(function(){var f=document.querySelector(%q);`+
			`return !!(f&&f.contentDocument&&f.contentDocument.body&&f.contentDocument.body.childElementCount>0);})()`,
		sel)
	var ok bool
	if err := d.run(opTimeout, chromedp.Evaluate(js, &ok)); err != nil || !ok {
		return false
	}
	d.frameName = name
	return true
}

func (d *chromeDriver) TopFrame() {
	d.frameName = ""
}

func (d *chromeDriver) Count(sel string) int {
	js := fmt.Sprintf(`(function(){var doc=%s;return doc.querySelectorAll(%q).length;})()`, d.docExpr(), sel)
	var n int
	if err := d.run(opTimeout, chromedp.Evaluate(js, &n)); err != nil {
		return 0
	}
	return n
}

func (d *chromeDriver) Text(sel string) (string, bool) {
	js := fmt.Sprintf(`(function(){var doc=%s;var el=doc.querySelector(%q);return el?el.innerText:null;})()`,
		d.docExpr(), sel)
	var out *string
	if err := d.run(opTimeout, chromedp.Evaluate(js, &out)); err != nil || out == nil {
		return "", false
	}
	text := strings.TrimSpace(*out)
	return text, text != ""
}

func (d *chromeDriver) TextAll(sel string, limit int) []string {
	js := fmt.Sprintf(
		`(function(){var doc=%s;return Array.prototype.slice.call(doc.querySelectorAll(%q),0,%d)`+
			`.map(function(e){return e.innerText.trim();});})()`,
		d.docExpr(), sel, limit)
	var out []string
	if err := d.run(opTimeout, chromedp.Evaluate(js, &out)); err != nil {
		return nil
	}
	return out
}

func (d *chromeDriver) Click(sel string) bool {
	js := fmt.Sprintf(`(function(){var doc=%s;var el=doc.querySelector(%q);if(!el)return false;el.click();return true;})()`,
		d.docExpr(), sel)
	var ok bool
	if err := d.run(opTimeout, chromedp.Evaluate(js, &ok)); err != nil {
		return false
	}
	return ok
}

func (d *chromeDriver) ClickText(sel, text string) bool {
	js := fmt.Sprintf(
		`(function(){var doc=%s;var els=doc.querySelectorAll(%q);`+
			`for(var i=0;i<els.length;i++){if(els[i].innerText.trim()===%q){els[i].click();return true;}}`+
			`return false;})()`,
		d.docExpr(), sel, text)
	var ok bool
	if err := d.run(opTimeout, chromedp.Evaluate(js, &ok)); err != nil {
		return false
	}
	return ok
}

func (d *chromeDriver) TypeKeys(sel, text string, delay utils.DelayRange) bool {
	if err := d.run(opTimeout, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		return false
	}
	if err := d.run(opTimeout, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return false
	}
	for _, r := range text {
		if err := d.run(opTimeout, chromedp.SendKeys(sel, string(r), chromedp.ByQuery)); err != nil {
			return false
		}
		delay.Sleep()
	}
	return true
}

func (d *chromeDriver) PressEnter(sel string) bool {
	return d.run(opTimeout, chromedp.SendKeys(sel, kb.Enter, chromedp.ByQuery)) == nil
}

func (d *chromeDriver) ScrollBottom(sel string) {
	js := fmt.Sprintf(
		`(function(){var doc=%s;var el=doc.querySelector(%q);`+
			`if(el){el.scrollTop=el.scrollHeight;}`+
			`else if(doc.defaultView){doc.defaultView.scrollTo(0,doc.body.scrollHeight);}`+
			`return true;})()`,
		d.docExpr(), sel)
	var ok bool
	_ = d.run(opTimeout, chromedp.Evaluate(js, &ok))
}

func (d *chromeDriver) PageSource() string {
	js := fmt.Sprintf(`(function(){var doc=%s;return doc.documentElement?doc.documentElement.outerHTML:'';})()`,
		d.docExpr())
	var html string
	if err := d.run(opTimeout, chromedp.Evaluate(js, &html)); err != nil {
		return ""
	}
	return html
}

func (d *chromeDriver) BodyText() string {
	js := fmt.Sprintf(`(function(){var doc=%s;return doc.body?doc.body.innerText:'';})()`, d.docExpr())
	var text string
	if err := d.run(opTimeout, chromedp.Evaluate(js, &text)); err != nil {
		return ""
	}
	return text
}

func (d *chromeDriver) Close() {
	if d.closed {
		return
	}
	d.closed = true
	for _, cancel := range d.cancels {
		cancel()
	}
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
