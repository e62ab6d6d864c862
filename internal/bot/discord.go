package bot

import (
	"fmt"

	"netflix-pin-relay/internal/logging"

	"github.com/bwmarrin/discordgo"
)

// Session owns the Discord event loop and forwards message events to the Handler.
type Session struct {
	handler *Handler
	session *discordgo.Session
}

// NewSession creates the Discord session and registers the event handlers.
// The connection is not opened until Open is called.
func NewSession(token string, handler *Handler) (*Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	s := &Session{
		handler: handler,
		session: dg,
	}
	dg.AddHandler(s.onReady)
	dg.AddHandler(s.onMessage)

	return s, nil
}

// Open connects to the Discord gateway and starts delivering events.
func (s *Session) Open() error {
	if err := s.session.Open(); err != nil {
		return fmt.Errorf("opening Discord connection: %w", err)
	}
	return nil
}

// Close disconnects from the Discord gateway.
func (s *Session) Close() error {
	return s.session.Close()
}

func (s *Session) onReady(dg *discordgo.Session, r *discordgo.Ready) {
	logging.Log.Infof("Logged in as %s, serving %d guilds", r.User.Username, len(r.Guilds))
}

func (s *Session) onMessage(dg *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == dg.State.User.ID {
		return
	}

	reply, ok := s.handler.HandleCommand(m.Content)
	if !ok {
		return
	}

	if _, err := dg.ChannelMessageSend(m.ChannelID, reply); err != nil {
		logging.Log.WithError(err).Error("Error sending reply")
	}
}
