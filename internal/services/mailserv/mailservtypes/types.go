package mailservtypes

import (
	"time"

	"github.com/emersion/go-imap"
)

// Message is an alert e-mail with its decoded text body.
type Message struct {
	UID      uint32
	Envelope *imap.Envelope
	BodyData []byte
}

func addresses(as []*imap.Address) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		if a == nil {
			continue
		}
		out = append(out, a.Address())
	}
	return out
}

func (m Message) From() []string {
	if m.Envelope == nil {
		return nil
	}
	return addresses(m.Envelope.From)
}

// To returns every recipient address, To first and then Cc.
func (m Message) To() []string {
	if m.Envelope == nil {
		return nil
	}
	return append(addresses(m.Envelope.To), addresses(m.Envelope.Cc)...)
}

func (m Message) Date() time.Time {
	if m.Envelope == nil {
		return time.Time{}
	}
	return m.Envelope.Date
}

func (m Message) Subject() string {
	if m.Envelope == nil {
		return ""
	}
	return m.Envelope.Subject
}

func (m Message) Body() string {
	return string(m.BodyData)
}

// Text is what the alert parser reads: the subject line followed by the body.
func (m Message) Text() string {
	if s := m.Subject(); s != "" {
		return s + "\n" + m.Body()
	}
	return m.Body()
}
