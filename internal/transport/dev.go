package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DevTransport writes outgoing mail to a local directory instead of
// sending it. Useful for development and for verifying rendered content
// without SMTP credentials.
type DevTransport struct {
	dir string
}

// NewDevTransport creates a DevTransport writing into dir.
func NewDevTransport(dir string) *DevTransport {
	return &DevTransport{dir: dir}
}

// Name returns the transport identifier.
func (t *DevTransport) Name() string { return "dev" }

// Send writes the HTML and text parts as timestamped files.
func (t *DevTransport) Send(_ context.Context, email Email) (string, error) {
	if err := os.MkdirAll(t.dir, 0750); err != nil {
		return "", fmt.Errorf("creating dev mail directory: %w", err)
	}

	messageID := uuid.NewString()
	base := fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), messageID[:8])

	htmlPath := filepath.Join(t.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(email.HTML), 0600); err != nil {
		return "", fmt.Errorf("writing %q: %w", htmlPath, err)
	}

	meta := fmt.Sprintf("To: %s\nFrom: %s\nReply-To: %s\nRegion: %s\nSubject: %s\n\n%s\n",
		email.To, email.From, email.ReplyTo, email.Region, email.Subject, email.Text)
	textPath := filepath.Join(t.dir, base+".txt")
	if err := os.WriteFile(textPath, []byte(meta), 0600); err != nil {
		return "", fmt.Errorf("writing %q: %w", textPath, err)
	}

	return messageID, nil
}
