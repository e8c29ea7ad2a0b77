package dfimage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-dfimage/internal/hints"
	"github.com/alnah/go-dfimage/internal/process"
)

// browser lazily launches headless Chrome and shares it between table
// screenshots and PDF printing. Rod downloads Chromium on first use when no
// binary is configured.
type browser struct {
	timeout time.Duration

	mu       sync.Mutex
	bin      string // binary the running instance was launched with
	launcher *launcher.Launcher
	rod      *rod.Browser
}

func newBrowser(timeout time.Duration) *browser {
	return &browser{timeout: timeout}
}

// get returns a connected browser launched from bin. A running instance
// launched from another binary is replaced.
func (b *browser) get(bin string) (*rod.Browser, error) {
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rod != nil && b.bin == bin {
		return b.rod, nil
	}
	_ = b.closeLocked()

	l := launcher.New().Headless(true)
	if bin != "" {
		l = l.Bin(bin)
	}
	if noSandbox() {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	br := rod.New().ControlURL(u)
	if err := br.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b.launcher, b.rod, b.bin = l, br, bin
	return br, nil
}

// noSandbox reports whether Chrome must run without its sandbox, which CI
// runners and containers do not permit.
func noSandbox() bool {
	return os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") != "" || hints.IsInContainer()
}

// open loads the file at path in a new page bound to ctx and the browser
// timeout. The returned func closes the page.
func (b *browser) open(ctx context.Context, bin, path string, viewport *proto.EmulationSetDeviceMetricsOverride) (*rod.Page, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	br, err := b.get(bin)
	if err != nil {
		return nil, nil, err
	}

	page, err := br.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	closePage := func() { _ = page.Close() }

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			closePage()
			return nil, nil, context.DeadlineExceeded
		}
	}
	p := page.Context(ctx).Timeout(timeout)

	if viewport != nil {
		if err := p.SetViewport(viewport); err != nil {
			closePage()
			return nil, nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
		}
	}
	if err := p.Navigate(fileURL(path)); err != nil {
		closePage()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		closePage()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return p, closePage, nil
}

// Close shuts Chrome down and kills its process group so no renderer
// processes outlive the converter.
func (b *browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

func (b *browser) closeLocked() error {
	var err error
	if b.rod != nil {
		err = b.rod.Close()
		b.rod = nil
	}
	if b.launcher != nil {
		if pid := b.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		b.launcher.Kill()
		b.launcher = nil
	}
	b.bin = ""
	return err
}

// fileURL converts an absolute path to a file:// URL.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if len(p) > 0 && p[0] != '/' {
		p = "/" + p // Windows drive letter
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
