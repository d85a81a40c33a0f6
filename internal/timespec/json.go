package timespec

// Period and Instant serialize as a single string scalar holding the
// canonical text; deserializing is exactly parsing, so an invalid scalar
// fails with the same invalid-specification condition as direct parsing.
// Implementing the encoding.Text interfaces gives both JSON-string form
// under encoding/json and direct use in envconfig-tagged structs.

// MarshalText renders the canonical period text.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a period specification.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText renders the canonical timestamp text.
func (i Instant) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText parses a timestamp.
func (i *Instant) UnmarshalText(text []byte) error {
	parsed, err := ParseInstant(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
