package render

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/sw33tLie/livewatch/internal/utils"
	"github.com/sw33tLie/livewatch/pkg/extract"
)

// Session owns one Chrome process. It is not meant for parallel
// navigation; concurrent Render calls are serialized.
type Session struct {
	cfg Config
	log Logger

	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	lock        *utils.ProfileLock

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// Open starts Chrome. The returned session must be closed by the caller;
// With does that automatically.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}

	execPath := cfg.ExecPath
	if execPath == "" {
		execPath, err = findChrome(mode)
		if err != nil {
			return nil, err
		}
	}
	log.Debugf("Using Chrome from: %s", execPath)

	var lock *utils.ProfileLock
	if cfg.UserDataDir != "" {
		lock, err = utils.NewProfileLock(cfg.UserDataDir)
		if err != nil {
			return nil, err
		}
		if err := lock.Lock(ctx); err != nil {
			return nil, err
		}
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(cfg, execPath)...)
	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		log.Debugf("[chrome] "+format, v...)
	}))

	// Run with no actions starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		startErr := fmt.Errorf("%w: starting Chrome: %v", ErrRender, err)
		if lock != nil {
			if uerr := lock.Unlock(); uerr != nil {
				return nil, errors.Join(startErr, uerr)
			}
		}
		return nil, startErr
	}
	log.Infof("Chrome started (headless=%t, images=%t)", cfg.Headless, cfg.LoadImages)

	return &Session{
		cfg:         cfg,
		log:         log,
		allocCancel: allocCancel,
		ctx:         browserCtx,
		cancel:      cancel,
		lock:        lock,
	}, nil
}

func allocatorOptions(cfg Config, execPath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 1024),
	)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if !cfg.LoadImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	return opts
}

// With opens a session, runs fn and closes the session on every path out
// of fn, panics included.
func With(ctx context.Context, cfg Config, fn func(*Session) error) (err error) {
	s, err := Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// Render implements Renderer.
func (s *Session) Render(ctx context.Context, url, locator string) (extract.Fragment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return extract.Absent, ErrClosed
	}

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	if s.cfg.NavigateTimeout > 0 {
		var tcancel context.CancelFunc
		runCtx, tcancel = context.WithTimeout(runCtx, s.cfg.NavigateTimeout)
		defer tcancel()
	}
	// Tie the caller's context to the run without tying the browser to it.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	s.log.Debugf("Rendering %s", url)
	var nodes []*cdp.Node
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.cfg.Wait),
		chromedp.Nodes(locator, &nodes, chromedp.BySearch, chromedp.AtLeast(0)),
	)
	if err != nil {
		return extract.Absent, fmt.Errorf("%w: %s: %v", ErrRender, url, err)
	}
	if len(nodes) == 0 {
		s.log.Debugf("No element matches %s on %s", locator, url)
		return extract.Absent, nil
	}

	var inner string
	if err := chromedp.Run(runCtx, chromedp.InnerHTML([]cdp.NodeID{nodes[0].NodeID}, &inner, chromedp.ByNodeID)); err != nil {
		return extract.Absent, fmt.Errorf("%w: reading %s on %s: %v", ErrRender, locator, url, err)
	}
	return extract.NewFragment(inner), nil
}

// Close shuts Chrome down and releases the profile lock. It is safe to
// call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		if err := chromedp.Cancel(s.ctx); err != nil {
			s.closeErr = fmt.Errorf("closing Chrome: %w", err)
		}
		s.cancel()
		s.allocCancel()
		if s.lock != nil {
			if err := s.lock.Unlock(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
		s.log.Debugf("Chrome session closed")
	})
	return s.closeErr
}
