package mailbox

import (
	"errors"
	"fmt"
	"strings"

	imapclient "netflix-pin-relay/internal/imap"
	"netflix-pin-relay/internal/logging"
	"netflix-pin-relay/internal/mailparse"
	"netflix-pin-relay/internal/models"
)

// ErrNoMatch reports that no qualifying message exists within the search
// window. This is the benign, expected case and must stay distinguishable
// from ErrConnection.
var ErrNoMatch = errors.New("no matching message")

// ErrConnection wraps dial, authentication and protocol failures against the
// mail server.
var ErrConnection = errors.New("mailbox connection failed")

// maxScan caps how many candidate messages are inspected per call, newest first.
const maxScan = 10

type Reader struct {
	config *models.Config
	dial   func() imapclient.Client
}

// New creates a Reader that opens a fresh IMAP connection per call.
func New(config *models.Config) *Reader {
	return &Reader{
		config: config,
		dial:   func() imapclient.Client { return imapclient.NewStandardClient() },
	}
}

// Latest returns the newest message from the configured sender whose decoded
// subject contains subject (case-insensitive). No message flags are altered,
// so repeated calls against the same mailbox state return the same message.
func (r *Reader) Latest(subject string) (*models.Email, error) {
	client := r.dial()

	if err := client.Connect(r.config.Email.Imap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Login(r.config.Email.Login, r.config.Email.Password); err != nil {
		return nil, fmt.Errorf("%w: login: %v", ErrConnection, err)
	}

	if err := client.SelectMailbox(r.config.Email.MailBox); err != nil {
		return nil, fmt.Errorf("%w: selecting %s: %v", ErrConnection, r.config.Email.MailBox, err)
	}

	uids, err := client.SearchFrom(r.config.TargetFrom, r.config.SearchWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if len(uids) == 0 {
		return nil, ErrNoMatch
	}

	want := strings.ToLower(subject)
	scanned := 0
	for i := len(uids) - 1; i >= 0 && scanned < maxScan; i-- {
		scanned++

		msg, err := client.FetchMessage(uids[i])
		if err != nil {
			logging.Log.WithError(err).Warnf("Skipping message %d", uids[i])
			continue
		}

		email, err := mailparse.Parse(msg)
		if err != nil {
			logging.Log.WithError(err).Warnf("Error parsing message %d", uids[i])
			continue
		}

		if !strings.Contains(strings.ToLower(email.Subject), want) {
			continue
		}

		logging.Log.WithField("trace_id", email.TraceID).Infof("Matched message %q from %s", email.Subject, email.From)
		return email, nil
	}

	return nil, ErrNoMatch
}
