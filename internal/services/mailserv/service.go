package mailserv

import (
	"context"
	"html"
	"io"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/mail"
	"github.com/zeebo/errs"

	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/services/mailserv/mailservtypes"
	"github.com/Philanthropists/income-alerts/internal/types/result"
	utilslices "github.com/Philanthropists/income-alerts/internal/util/slices"
)

var Error = errs.Class("mailserv")

type IMAPClient interface {
	List(ref string, name string, ch chan *imap.MailboxInfo) error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	UidSearch(criteria *imap.SearchCriteria) (seqNums []uint32, err error)
	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	UidMove(seqset *imap.SeqSet, dest string) error
	Logout() error
}

// IMAPService hands every goroutine its own connection; an IMAP connection
// has a single selected mailbox and cannot be shared.
type IMAPService struct {
	NewImapFunc func() (IMAPClient, error)
	Routines    int

	mu   sync.Mutex
	idle []IMAPClient
}

func (r *IMAPService) getClient() (IMAPClient, error) {
	r.mu.Lock()
	if n := len(r.idle); n > 0 {
		cl := r.idle[n-1]
		r.idle = r.idle[:n-1]
		r.mu.Unlock()
		return cl, nil
	}
	r.mu.Unlock()

	cl, err := r.NewImapFunc()
	if err != nil {
		return nil, Error.New("could not create imap client: %w", err)
	}
	if cl == nil {
		return nil, Error.New("could not create imap client")
	}

	return cl, nil
}

func (r *IMAPService) putClient(cl IMAPClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idle = append(r.idle, cl)
}

// Close logs out every idle connection.
func (r *IMAPService) Close() error {
	r.mu.Lock()
	idle := r.idle
	r.idle = nil
	r.mu.Unlock()

	var group errs.Group
	for _, cl := range idle {
		group.Add(cl.Logout())
	}
	return Error.Wrap(group.Err())
}

func (r *IMAPService) routines() int {
	if r.Routines > 0 {
		return r.Routines
	}
	return runtime.NumCPU()
}

func (r *IMAPService) GetAvailableMailboxes(
	ctx context.Context,
) ([]string, error) {
	cl, err := r.getClient()
	if err != nil {
		return nil, err
	}
	defer r.putClient(cl)

	rawMailboxes := make(chan *imap.MailboxInfo, 10)
	errCh := make(chan error, 1)
	go func() {
		errCh <- cl.List("", "*", rawMailboxes)
	}()

	var mailboxes []string
	for m := range rawMailboxes {
		if m != nil && ctx.Err() == nil {
			mailboxes = append(mailboxes, m.Name)
		}
	}

	if err := <-errCh; err != nil {
		return nil, Error.Wrap(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, Error.Wrap(err)
	}

	return mailboxes, nil
}

// GetMessagesFromMailbox streams the messages received since a date. UIDs are
// split into buckets fetched concurrently, so the output is unordered.
func (r *IMAPService) GetMessagesFromMailbox(
	ctx context.Context,
	mailbox string,
	since time.Time,
) (<-chan result.Result[mailservtypes.Message], error) {
	log := logging.FromContext(ctx)

	ids, err := r.searchSince(mailbox, since)
	if err != nil {
		return nil, err
	}

	log.Debug("got messages since a date",
		logging.Time("since", since),
		logging.String("mailbox", mailbox),
		logging.Int("len", len(ids)),
	)

	buckets, err := utilslices.Split(r.routines(), ids)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	msgs := make(chan result.Result[mailservtypes.Message], len(buckets))

	var wg sync.WaitGroup
	wg.Add(len(buckets))
	for _, b := range buckets {
		go func(ids []uint32) {
			defer wg.Done()

			cl, err := r.getClient()
			if err != nil {
				send(ctx, msgs, mailservtypes.Message{}, err)
				return
			}
			defer r.putClient(cl)

			r.fetchBucket(ctx, cl, mailbox, ids, msgs)
		}(b)
	}

	go func() {
		defer close(msgs)
		wg.Wait()
	}()

	return msgs, nil
}

func (r *IMAPService) searchSince(mailbox string, since time.Time) ([]uint32, error) {
	cl, err := r.getClient()
	if err != nil {
		return nil, err
	}
	defer r.putClient(cl)

	if _, err := cl.Select(mailbox, true); err != nil {
		return nil, Error.Wrap(err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	ids, err := cl.UidSearch(criteria)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	return ids, nil
}

func send(ctx context.Context, out chan<- result.Result[mailservtypes.Message], msg mailservtypes.Message, err error) {
	select {
	case <-ctx.Done():
	case out <- result.ConcreteResult[mailservtypes.Message]{Val: msg, Error: err}:
	}
}

func (r *IMAPService) fetchBucket(
	ctx context.Context,
	cl IMAPClient,
	mailbox string,
	ids []uint32,
	out chan<- result.Result[mailservtypes.Message],
) {
	if _, err := cl.Select(mailbox, true); err != nil {
		send(ctx, out, mailservtypes.Message{}, Error.Wrap(err))
		return
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	errCh := make(chan error, 1)
	go func() {
		errCh <- cl.UidFetch(seqset, items, messages)
	}()

	// the channel is drained even after cancellation so the fetch can finish
	for m := range messages {
		if ctx.Err() != nil {
			continue
		}

		msg, err := completeMessage(m)
		send(ctx, out, msg, err)
	}

	if err := <-errCh; err != nil {
		send(ctx, out, mailservtypes.Message{}, Error.New("failed to fetch messages: %w", err))
	}
}

func completeMessage(
	msg *imap.Message,
) (mailservtypes.Message, error) {
	m := mailservtypes.Message{
		UID:      msg.Uid,
		Envelope: msg.Envelope,
	}

	var section imap.BodySectionName
	t := msg.GetBody(&section)
	if t == nil {
		return m, Error.New("msg %d has no body", msg.Uid)
	}

	mr, err := mail.CreateReader(t)
	if err != nil && mr == nil {
		return m, Error.New("could not create reader: %w", err)
	}
	defer func() { _ = mr.Close() }()

	var plain, rich []byte
	for plain == nil {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return m, Error.New("could not read part: %w", err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		body, err := io.ReadAll(p.Body)
		if err != nil {
			return m, Error.New("could not read from InlineHeader body: %w", err)
		}

		ct, _, _ := h.ContentType()
		switch {
		case ct == "text/html":
			if rich == nil {
				rich = body
			}
		default:
			plain = body
		}
	}

	switch {
	case plain != nil:
		m.BodyData = plain
	case rich != nil:
		m.BodyData = []byte(htmlToText(string(rich)))
	default:
		return m, Error.New("no body found in msg %d", msg.Uid)
	}

	return m, nil
}

var (
	blockTag = regexp.MustCompile(`(?i)<\s*(?:br|/p|/div|/tr|/li|/h[1-6])\s*/?>`)
	anyTag   = regexp.MustCompile(`(?s)<[^>]*>`)
	hidden   = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(?:script|style)>`)
)

// htmlToText keeps one line per block element so that the alert parser sees
// the same line structure as in a plain text alert.
func htmlToText(s string) string {
	s = hidden.ReplaceAllString(s, "")
	s = blockTag.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}

func (r *IMAPService) MoveMessagesToMailbox(
	ctx context.Context,
	fromMailbox,
	toMailbox string,
	msgIDs ...uint32,
) error {
	if len(msgIDs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return Error.Wrap(err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(msgIDs...)

	c, err := r.getClient()
	if err != nil {
		return err
	}
	defer r.putClient(c)

	if _, err := c.Select(fromMailbox, false); err != nil {
		return Error.Wrap(err)
	}

	return Error.Wrap(c.UidMove(seqset, toMailbox))
}
