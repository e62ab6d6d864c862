package netflix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"netflix-pin-relay/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

var activeRodSessions atomic.Int32

type RodBrowser struct{}

// NewRodBrowser creates a new instance of RodBrowser
func NewRodBrowser() *RodBrowser {
	return &RodBrowser{}
}

// FetchChallengeCode opens the travel/verify link headlessly and reads the challenge
// code rendered on the page. Each attempt uses a fresh browser and profile so no
// Netflix session state leaks between invocations.
func (rb *RodBrowser) FetchChallengeCode(link, traceID string) (string, error) {
	const maxAttempts = 3

	locallog := logging.Log.WithField("trace_id", traceID)
	locallog.Info("Open verification page with rod: ", link)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		locallog.Infof("Attempt %d/%d (fresh browser & profile)", attempt, maxAttempts)

		code, err := rb.attemptFetch(link, traceID)
		if err == nil {
			return code, nil
		}

		lastErr = err
		locallog.WithError(err).Warnf("Attempt %d error", attempt)

		if attempt < maxAttempts {
			backoff := time.Duration(attempt) * time.Second
			locallog.Infof("Retrying in %s", backoff)
			time.Sleep(backoff)
		}
	}

	locallog.Warn("All attempts failed, giving up on link")
	return "", fmt.Errorf("fetching challenge code: %w", lastErr)
}

// attemptFetch performs a single attempt to open the link and read the code from the page.
func (rb *RodBrowser) attemptFetch(link, traceID string) (string, error) {
	activeRodSessions.Add(1)
	defer activeRodSessions.Add(-1)

	locallog := logging.Log.WithField("trace_id", traceID)

	tmpDir, err := os.MkdirTemp("", "rod-pinrelay-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp user data dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			locallog.WithError(err).Warn("failed to remove temp user data dir")
		}
	}()

	u := launcher.New().
		Headless(true).
		NoSandbox(true).
		UserDataDir(tmpDir).
		MustLaunch()

	browser := rod.New().ControlURL(u).MustConnect()
	defer func() { _ = browser.Close() }()

	page := browser.MustPage(link)
	defer func() { _ = page.Close() }()

	page.MustWaitLoad()

	// Try to accept cookie banner if present
	if cookieBtn, err := page.Timeout(5 * time.Second).Element("#onetrust-accept-btn-handler"); err == nil {
		locallog.Info("Cookie banner detected, accepting")
		cookieBtn.MustClick()
	}

	element, err := page.Timeout(10 * time.Second).Element(".challenge-code")
	if err != nil {
		return "", fmt.Errorf("challenge code element not found: %w", err)
	}

	text, err := element.Text()
	if err != nil {
		return "", fmt.Errorf("reading challenge code element: %w", err)
	}

	code := strings.TrimSpace(text)
	if code == "" {
		return "", fmt.Errorf("challenge code element is empty")
	}

	locallog.Info("Challenge code extracted from page")
	return code, nil
}

// StartCleanup starts a background goroutine that cleans up old Rod temp directories
func StartCleanup() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if activeRodSessions.Load() > 0 {
				logging.Log.Info("Skipping /tmp cleanup: active Rod sessions detected")
				continue
			}

			pattern := filepath.Join(os.TempDir(), "rod-pinrelay-*")
			matches, err := filepath.Glob(pattern)
			if err != nil {
				logging.Log.WithError(err).Warn("Failed to glob temp directories")
				continue
			}

			for _, dir := range matches {
				if err := os.RemoveAll(dir); err != nil {
					logging.Log.WithError(err).Warnf("Failed to remove temp dir: %s", dir)
				} else {
					logging.Log.Infof("Cleaned up temp dir: %s", dir)
				}
			}
		}
	}()
}
