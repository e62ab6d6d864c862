package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"netflix-pin-relay/internal/logging"
	"netflix-pin-relay/internal/mailbox"
	"netflix-pin-relay/internal/models"
	"netflix-pin-relay/internal/pincode"
	"netflix-pin-relay/internal/relay"
)

const Prefix = "!"

// Reply texts are fixed so users (and tests) can rely on them.
const (
	HelloReply      = "Hello! How can I assist you today?"
	NoPinReply      = "No code is available yet. Request a new code from Netflix, then try again."
	ConnectionReply = "Could not reach the mailbox right now. Please try again later."
	FailureReply    = "Something went wrong while retrieving the code. Please try again."
)

// PinService is the verify pipeline; implemented by relay.Service.
type PinService interface {
	VerifyCode() (*models.Pin, error)
	SignInCode() (*models.Pin, error)
}

type Handler struct {
	pins PinService
	now  func() time.Time
}

// NewHandler creates a Handler over the given pin service.
func NewHandler(pins PinService) *Handler {
	return &Handler{
		pins: pins,
		now:  time.Now,
	}
}

// HandleCommand maps one message to at most one reply. ok is false when the
// text is not a recognized command, in which case nothing is sent back.
func (h *Handler) HandleCommand(content string) (reply string, ok bool) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, Prefix) {
		return "", false
	}

	switch strings.Fields(trimmed)[0] {
	case Prefix + "hello":
		return HelloReply, true
	case Prefix + "verify":
		return h.verify(), true
	case Prefix + "signin":
		return h.signin(), true
	default:
		return "", false
	}
}

func (h *Handler) verify() string {
	pin, err := h.pins.VerifyCode()
	if err != nil {
		return h.failureReply(err)
	}
	return fmt.Sprintf("Your Netflix code is **%s**", pin.Code)
}

func (h *Handler) signin() string {
	pin, err := h.pins.SignInCode()
	if err != nil {
		return h.failureReply(err)
	}

	expired, remaining := pincode.IsExpired(pin.SentAt, h.now())
	if expired {
		return fmt.Sprintf("Sign-in code: **%s** (expired, request a fresh one)", pin.Code)
	}
	return fmt.Sprintf("Sign-in code: **%s** (expires in %s)", pin.Code, remaining.Round(time.Second))
}

// failureReply maps pipeline errors to user-facing text. The no-pin case is
// benign and is not logged as an error.
func (h *Handler) failureReply(err error) string {
	switch {
	case errors.Is(err, relay.ErrNoPin):
		return NoPinReply
	case errors.Is(err, mailbox.ErrConnection):
		logging.Log.WithError(err).Error("Mailbox connection failure")
		return ConnectionReply
	default:
		logging.Log.WithError(err).Error("Command failed")
		return FailureReply
	}
}
