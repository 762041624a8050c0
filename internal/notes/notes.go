package notes

import (
	"encoding/json"
	"strings"
	"time"
)

// Note is a single timestamped remark attached to a logged day. A day's
// notes are stored serialized inside Entry.Note.
type Note struct {
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// rawNote mirrors Note with pointer fields so Parse can tell a well-formed
// note list apart from arbitrary JSON.
type rawNote struct {
	Text      *string  `json:"text"`
	CreatedAt *float64 `json:"createdAt"`
}

// Parse decodes an Entry.Note value. A JSON array of notes is returned as-is
// (normalized); anything else is treated as a single legacy note with
// CreatedAt 0.
func Parse(value string) []Note {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var raw []rawNote
	if err := json.Unmarshal([]byte(value), &raw); err == nil && wellFormed(raw) {
		list := make([]Note, 0, len(raw))
		for _, r := range raw {
			list = append(list, Note{Text: *r.Text, CreatedAt: int64(*r.CreatedAt)})
		}
		return normalize(list)
	}

	return normalize([]Note{{Text: value}})
}

func wellFormed(raw []rawNote) bool {
	for _, r := range raw {
		if r.Text == nil || r.CreatedAt == nil {
			return false
		}
	}
	return true
}

// Serialize encodes notes for storage. Blank notes are dropped; an empty
// list serializes to "".
func Serialize(list []Note) string {
	list = normalize(list)
	if len(list) == 0 {
		return ""
	}
	b, err := json.Marshal(list)
	if err != nil {
		return ""
	}
	return string(b)
}

// Append adds text as a new note to the serialized value.
func Append(value, text string, at time.Time) string {
	list := Parse(value)
	list = append(list, Note{Text: text, CreatedAt: at.UnixMilli()})
	return Serialize(list)
}

// Remove deletes the note matching text and createdAt.
func Remove(value string, target Note) string {
	list := Parse(value)
	out := list[:0]
	removed := false
	for _, n := range list {
		if !removed && n.Text == strings.TrimSpace(target.Text) && n.CreatedAt == target.CreatedAt {
			removed = true
			continue
		}
		out = append(out, n)
	}
	return Serialize(out)
}

func normalize(list []Note) []Note {
	out := make([]Note, 0, len(list))
	for _, n := range list {
		text := strings.TrimSpace(n.Text)
		if text == "" {
			continue
		}
		out = append(out, Note{Text: text, CreatedAt: n.CreatedAt})
	}
	return out
}
