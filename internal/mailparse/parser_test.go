package mailparse

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-imap"
)

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "Plain ASCII",
			input:    "Your Netflix temporary access code",
			expected: "Your Netflix temporary access code",
			wantErr:  false,
		},
		{
			name:     "UTF-8 Q-encoded",
			input:    "=?UTF-8?Q?Votre_code_d=27acc=C3=A8s_temporaire?=",
			expected: "Votre code d'accès temporaire",
			wantErr:  false,
		},
		{
			name:     "ISO-8859-1 encoded",
			input:    "=?ISO-8859-1?Q?Caf=E9?=",
			expected: "Café",
			wantErr:  false,
		},
		{
			name:     "Base64 encoded",
			input:    "=?UTF-8?B?SGVsbG8gV29ybGQ=?=",
			expected: "Hello World",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHeader(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeHeader() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("DecodeHeader() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "Single HTTPS link",
			text:     "Get your code: https://www.netflix.com/account/travel/verify?nftoken=abc123",
			expected: []string{"https://www.netflix.com/account/travel/verify?nftoken=abc123"},
		},
		{
			name:     "Bracketed link",
			text:     "Get your code: [https://www.netflix.com/account/travel/verify?nftoken=abc123]",
			expected: []string{"https://www.netflix.com/account/travel/verify?nftoken=abc123"},
		},
		{
			name:     "Multiple links",
			text:     "Check http://example.com and https://netflix.com/help",
			expected: []string{"http://example.com", "https://netflix.com/help"},
		},
		{
			name:     "Link in HTML",
			text:     `<a href="https://netflix.com/account/travel/verify">Get code</a>`,
			expected: []string{"https://netflix.com/account/travel/verify"},
		},
		{
			name:     "No links",
			text:     "Your temporary access code is 123456.",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLinks(tt.text)
			if len(got) != len(tt.expected) {
				t.Errorf("ExtractLinks() returned %d links, want %d\nGot: %v\nWant: %v",
					len(got), len(tt.expected), got, tt.expected)
				return
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("ExtractLinks()[%d] = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestExtractEmailAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple email",
			input:    "info@account.netflix.com",
			expected: "info@account.netflix.com",
		},
		{
			name:     "Email with name",
			input:    "Netflix <info@account.netflix.com>",
			expected: "info@account.netflix.com",
		},
		{
			name:     "Email with quotes",
			input:    `"Netflix" <info@account.netflix.com>`,
			expected: "info@account.netflix.com",
		},
		{
			name:     "No email",
			input:    "Just some text",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractEmailAddress(tt.input)
			if got != tt.expected {
				t.Errorf("extractEmailAddress() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// buildMessage wraps a raw RFC 5322 message into the imap.Message shape
// returned by a BODY[] fetch.
func buildMessage(t *testing.T, uid uint32, date time.Time, raw string) *imap.Message {
	t.Helper()

	section, err := imap.ParseBodySectionName("BODY[]")
	if err != nil {
		t.Fatalf("Failed to parse body section name: %v", err)
	}

	return &imap.Message{
		SeqNum:       1,
		Uid:          uid,
		InternalDate: date,
		Body: map[*imap.BodySectionName]imap.Literal{
			section: bytes.NewBufferString(raw),
		},
	}
}

func TestParse(t *testing.T) {
	sent := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	raw := "From: Netflix <info@account.netflix.com>\r\n" +
		"To: user@example.com\r\n" +
		"Subject: Your Netflix temporary access code\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Your temporary access code is 123456.\r\n"

	email, err := Parse(buildMessage(t, 42, sent, raw))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if email.UID != 42 {
		t.Errorf("Expected UID 42, got %d", email.UID)
	}

	if email.From != "info@account.netflix.com" {
		t.Errorf("Expected From 'info@account.netflix.com', got '%s'", email.From)
	}

	if email.Subject != "Your Netflix temporary access code" {
		t.Errorf("Expected access code subject, got '%s'", email.Subject)
	}

	if !bytes.Contains([]byte(email.BodyText), []byte("123456")) {
		t.Errorf("Expected body to contain the code, got '%s'", email.BodyText)
	}

	if !email.InternalDate.Equal(sent) {
		t.Errorf("Expected InternalDate %v, got %v", sent, email.InternalDate)
	}

	if email.TraceID == "" {
		t.Error("Expected a non-empty trace ID")
	}
}

func TestParse_EncodedSubject(t *testing.T) {
	raw := "From: Netflix <info@account.netflix.com>\r\n" +
		"Subject: =?UTF-8?Q?Votre_code_d=27acc=C3=A8s_temporaire?=\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Votre code est 9876.\r\n"

	email, err := Parse(buildMessage(t, 1, time.Now(), raw))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if email.Subject != "Votre code d'accès temporaire" {
		t.Errorf("Expected decoded subject, got '%s'", email.Subject)
	}
}
