package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrDuplicateIdentity = errors.New("duplicate participant identity")

// Participant pairs an identity with its split-mode dependent weight: ignored
// for equal splits, the owed amount for exact splits, a proportional weight
// for share splits.
type Participant struct {
	Identity string
	Weight   decimal.Decimal
}

// Participants keeps submission order. On the wire it is a JSON object of
// identity -> weight; key order survives the round-trip so a replayed history
// assigns remainder cents to the same people every time.
type Participants []Participant

func (p Participants) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, part := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(part.Identity)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(part.Weight)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Participants) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("participants must be a JSON object")
	}

	parsed := Participants{}
	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		identity := keyTok.(string)
		if seen[identity] {
			return fmt.Errorf("%w: %s", ErrDuplicateIdentity, identity)
		}
		seen[identity] = true

		var weight decimal.Decimal
		if err := dec.Decode(&weight); err != nil {
			return fmt.Errorf("invalid weight for %s: %w", identity, err)
		}
		parsed = append(parsed, Participant{Identity: identity, Weight: weight})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = parsed
	return nil
}

func (p Participants) Contains(identity string) bool {
	for _, part := range p {
		if part.Identity == identity {
			return true
		}
	}
	return false
}

func (p Participants) Identities() []string {
	ids := make([]string, 0, len(p))
	for _, part := range p {
		ids = append(ids, part.Identity)
	}
	return ids
}
