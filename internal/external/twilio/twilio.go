package twilio

import (
	"encoding/json"
	"sync"

	_twilio "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/zeebo/errs"
)

var twilioErr = errs.Class("twilio")

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Client sends SMS from a single configured number.
type Client struct {
	AccountSid string
	Token      string
	FromNumber string

	once sync.Once
	api  messageCreator
}

func (c *Client) client() messageCreator {
	c.once.Do(func() {
		if c.api != nil {
			return
		}

		tc := _twilio.NewRestClientWithParams(_twilio.ClientParams{
			Username: c.AccountSid,
			Password: c.Token,
		})
		c.api = tc.Api
	})

	return c.api
}

// SendMessage returns the raw JSON of the created message.
func (c *Client) SendMessage(to, msg string) (_ []byte, genErr error) {
	defer func() {
		genErr = twilioErr.Wrap(genErr)
	}()

	if c.FromNumber == "" || to == "" || msg == "" {
		return nil, errs.New("none of the parameters can be empty")
	}

	ps := &twilioApi.CreateMessageParams{}
	ps.SetFrom(c.FromNumber)
	ps.SetTo(to)
	ps.SetBody(msg)

	message, err := c.client().CreateMessage(ps)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	response, err := json.Marshal(*message)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	return response, nil
}
