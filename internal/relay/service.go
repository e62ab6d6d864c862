package relay

import (
	"errors"
	"fmt"
	"strings"

	"netflix-pin-relay/internal/logging"
	"netflix-pin-relay/internal/mailbox"
	"netflix-pin-relay/internal/mailparse"
	"netflix-pin-relay/internal/models"
	"netflix-pin-relay/internal/netflix"
	"netflix-pin-relay/internal/pincode"
)

// ErrNoPin reports that no code is currently retrievable: either no qualifying
// email exists or the newest one carries neither a code nor a usable link.
var ErrNoPin = errors.New("no pin available")

// Fetcher is the mailbox side of the pipeline; implemented by mailbox.Reader.
type Fetcher interface {
	Latest(subject string) (*models.Email, error)
}

type Service struct {
	config  *models.Config
	mailbox Fetcher
	browser netflix.Browser
}

// NewService creates the relay pipeline over a mailbox fetcher and a browser.
func NewService(config *models.Config, fetcher Fetcher, browser netflix.Browser) *Service {
	return &Service{
		config:  config,
		mailbox: fetcher,
		browser: browser,
	}
}

// VerifyCode handles one verify invocation: fetch the newest qualifying email,
// return the inline code if the body carries one, otherwise follow the
// travel/verify link and return the challenge code rendered on the page.
func (s *Service) VerifyCode() (*models.Pin, error) {
	email, err := s.mailbox.Latest(s.config.VerifySubject)
	if err != nil {
		if errors.Is(err, mailbox.ErrNoMatch) {
			return nil, ErrNoPin
		}
		return nil, err
	}

	locallog := logging.Log.WithField("trace_id", email.TraceID)

	if code, ok := pincode.Extract(email.BodyText); ok {
		locallog.Info("Code extracted from email body")
		return &models.Pin{Code: code, SentAt: email.InternalDate}, nil
	}

	link := findVerifyLink(email.BodyText)
	if link == "" {
		locallog.Info("No code or verification link in email body")
		return nil, ErrNoPin
	}

	code, err := s.browser.FetchChallengeCode(link, email.TraceID)
	if err != nil {
		return nil, fmt.Errorf("challenge code retrieval: %w", err)
	}

	return &models.Pin{Code: code, SentAt: email.InternalDate}, nil
}

// SignInCode fetches the newest sign-in email and extracts the code from its body.
func (s *Service) SignInCode() (*models.Pin, error) {
	email, err := s.mailbox.Latest(s.config.SignInSubject)
	if err != nil {
		if errors.Is(err, mailbox.ErrNoMatch) {
			return nil, ErrNoPin
		}
		return nil, err
	}

	code, ok := pincode.Extract(email.BodyText)
	if !ok {
		logging.Log.WithField("trace_id", email.TraceID).Info("No sign-in code in email body")
		return nil, ErrNoPin
	}

	return &models.Pin{Code: code, SentAt: email.InternalDate}, nil
}

// findVerifyLink returns the first travel/verify link in the body, if any.
func findVerifyLink(body string) string {
	for _, link := range mailparse.ExtractLinks(body) {
		if strings.Contains(link, "/account/travel/verify") {
			return link
		}
	}
	return ""
}
