// Package notify decides when a bill's status transition warrants a message
// and builds the message payload. Delivery is behind the Sender interface;
// the decision logic never touches a network.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/avasalony-boop/policy-tracker/engine/bill"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
)

// BlockText is the inner markdown payload of a section block.
type BlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is one layout block in an outgoing message.
type Block struct {
	Type string     `json:"type"`
	Text *BlockText `json:"text,omitempty"`
}

// Message is the structured notification payload. Text is the fallback line;
// Blocks carry the formatted rendering.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Sender delivers a message. Implementations own transport, timeouts, and
// retry policy.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Notifier emits at most one message per bill per ingestion pass, and only
// on a genuine status transition.
type Notifier struct {
	sender Sender
	dryRun bool
}

func New(sender Sender, dryRun bool) *Notifier {
	return &Notifier{sender: sender, dryRun: dryRun}
}

// ShouldNotify reports whether the upsert outcome represents a transition:
// the new status is set and differs from what was stored, with a never-seen
// bill counting as different.
func ShouldNotify(newStatus bill.Status, res bill.UpsertResult) bool {
	if newStatus == "" {
		return false
	}
	return !res.Found || res.PriorStatus != newStatus
}

// ObserveTransition sends the transition message for b when warranted and
// reports whether a transition was observed. In dry-run mode the transition
// still counts but nothing is sent.
func (n *Notifier) ObserveTransition(ctx context.Context, b *bill.Bill, res bill.UpsertResult) (bool, error) {
	if !ShouldNotify(b.Status, res) {
		return false, nil
	}
	if n.dryRun {
		logger.FromContext(ctx).Info("Dry run, transition suppressed",
			"bill_uid", b.UID, "status", b.Status, "prior_found", res.Found)
		return true, nil
	}
	if err := n.sender.Send(ctx, TransitionMessage(b)); err != nil {
		return true, fmt.Errorf("notify: send transition for %s: %w", b.UID, err)
	}
	return true, nil
}

// TransitionMessage renders the status-change payload from the bill's
// current canonical fields. Deterministic for a given bill.
func TransitionMessage(b *bill.Bill) *Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s* · %s\n", b.Number, b.Title)
	fmt.Fprintf(&sb, "State: %s  •  Status: *%s*\n", b.Jurisdiction, b.Status)
	fmt.Fprintf(&sb, "Updated: %s", b.LastActionDate)
	if b.EffectiveDate != "" {
		fmt.Fprintf(&sb, "\nEffective: %s", b.EffectiveDate)
	}
	return sectionMessage(sb.String())
}

// EffectiveDigestMessage renders the trailing-window summary of bills now in
// effect.
func EffectiveDigestMessage(rows []*bill.Overview, windowDays int) *Message {
	if len(rows) == 0 {
		return sectionMessage(fmt.Sprintf("No policies became effective in the last %d days.", windowDays))
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, fmt.Sprintf("*Policies now in effect (last %d days)*", windowDays))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("• *%s %s* — %s  _(effective %s)_",
			r.Jurisdiction, r.Number, r.Title, r.EffectiveDate))
	}
	return sectionMessage(strings.Join(lines, "\n"))
}

func sectionMessage(text string) *Message {
	return &Message{
		Text: text,
		Blocks: []Block{
			{Type: "section", Text: &BlockText{Type: "mrkdwn", Text: text}},
		},
	}
}
