package reports

import (
	"context"
	"fmt"

	"github.com/cardmachineworks/taxreporter/internal/mailer"
	pkgerrors "github.com/cardmachineworks/taxreporter/pkg/errors"
)

// Dispatcher hands a rendered email document to the mail collaborator.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipient string, r Range, doc Document) error
}

type dispatcher struct {
	sender mailer.Sender
}

// NewDispatcher builds a Dispatcher over the given mail sender.
func NewDispatcher(sender mailer.Sender) (Dispatcher, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	return &dispatcher{sender: sender}, nil
}

// Subject builds the email subject line for a report range.
func Subject(r Range) string {
	return fmt.Sprintf("Texas Sales Tax Report - %s to %s", longDate(r.Start), longDate(r.End))
}

func (d *dispatcher) Dispatch(ctx context.Context, recipient string, r Range, doc Document) error {
	if recipient == "" {
		return pkgerrors.New(pkgerrors.CodeDelivery, "no recipient address configured")
	}

	msg := mailer.Message{
		To:      recipient,
		Subject: Subject(r),
	}
	if doc.ContentType == "text/html" {
		msg.HTML = doc.Body
	} else {
		msg.PlainText = doc.Body
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDelivery, err, "sending report email")
	}
	return nil
}
