package entity

// Conversation is the live state of one interview: the session plus its
// append-only message history. The orchestrator mutates a clone and stores
// it back in a single put, so a failed turn leaves the stored state
// untouched.
type Conversation struct {
	Session  *Session
	Messages []*Message
}

func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	msgs := make([]*Message, len(c.Messages))
	for i, m := range c.Messages {
		cp := *m
		msgs[i] = &cp
	}
	return &Conversation{
		Session:  c.Session.Clone(),
		Messages: msgs,
	}
}

// RecentWindow returns the last n messages in chronological order.
func (c *Conversation) RecentWindow(n int) []*Message {
	if n <= 0 || len(c.Messages) == 0 {
		return nil
	}
	if len(c.Messages) <= n {
		out := make([]*Message, len(c.Messages))
		copy(out, c.Messages)
		return out
	}
	out := make([]*Message, n)
	copy(out, c.Messages[len(c.Messages)-n:])
	return out
}

// QuestionCountInCategory counts interviewer questions already asked for
// cat. Drives intro-template rotation.
func (c *Conversation) QuestionCountInCategory(cat string) int {
	count := 0
	for _, m := range c.Messages {
		if m.IsQuestion() && m.Metadata.Category == cat {
			count++
		}
	}
	return count
}

// LastQuestion returns the most recent interviewer question, or nil when
// none has been asked yet.
func (c *Conversation) LastQuestion() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].IsQuestion() {
			return c.Messages[i]
		}
	}
	return nil
}

// QuestionBefore returns the interviewer question preceding the message at
// index idx, or nil when there is none. Used by edit to re-pair an answer
// with its question.
func (c *Conversation) QuestionBefore(idx int) *Message {
	if idx < 0 || idx > len(c.Messages) {
		return nil
	}
	for i := idx - 1; i >= 0; i-- {
		if c.Messages[i].IsQuestion() {
			return c.Messages[i]
		}
	}
	return nil
}
