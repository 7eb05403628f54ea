package transaction

import (
	"bytes"
	"strconv"
)

// EntityRef is a message field that may arrive as a JSON number, a JSON
// string, or not at all. The feed reuses these fields for team ids,
// player ids and free-text markers, so decoding never fails: anything
// that is not a number simply does not reference an entity.
type EntityRef struct {
	ID      int64
	Numeric bool
}

func (r *EntityRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || trimmed[0] == '"' {
		*r = EntityRef{}
		return nil
	}

	id, err := strconv.ParseInt(string(trimmed), 10, 64)
	if err != nil {
		// Tolerate fractional encodings of integral ids.
		f, ferr := strconv.ParseFloat(string(trimmed), 64)
		if ferr != nil || f != float64(int64(f)) {
			*r = EntityRef{}
			return nil
		}
		id = int64(f)
	}

	*r = EntityRef{ID: id, Numeric: true}
	return nil
}

// Present reports whether the field carries a usable numeric id.
func (r EntityRef) Present() bool {
	return r.Numeric && r.ID != 0
}

// Resolvable reports whether the field names a team. -1 is the feed's
// "no team" sentinel.
func (r EntityRef) Resolvable() bool {
	return r.Present() && r.ID != -1
}

// Message is a single roster transaction entry.
type Message struct {
	ID            string    `json:"id"`
	Date          int64     `json:"date"`
	MessageTypeID int       `json:"messageTypeId"`
	TargetID      EntityRef `json:"targetId"`
	To            EntityRef `json:"to"`
	From          EntityRef `json:"from"`
	For           EntityRef `json:"for"`
	TopicID       string    `json:"topicId"`
}

// MessageTopic groups the messages of one transaction, e.g. both legs
// of a trade or an add with its corresponding drop.
type MessageTopic struct {
	ID       string    `json:"id"`
	Date     int64     `json:"date"`
	Messages []Message `json:"messages"`
}
