package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Domain contains the decoded API payloads.

// APIToken is the credential returned by the token endpoint.
type APIToken struct {
	BearerAccessToken string `json:"bearerAccessToken"`
}

// UnmarshalJSON rejects payloads without a bearer token field.
func (t *APIToken) UnmarshalJSON(data []byte) error {
	var raw struct {
		BearerAccessToken *string `json:"bearerAccessToken"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.BearerAccessToken == nil {
		return missingField("bearerAccessToken")
	}
	t.BearerAccessToken = *raw.BearerAccessToken
	return nil
}

// Amiibo is a single record of the amiibo listing.
type Amiibo struct {
	AmiiboSeries string            `json:"amiiboSeries"`
	Character    string            `json:"character"`
	GameSeries   string            `json:"gameSeries"`
	Head         string            `json:"head"`
	Tail         string            `json:"tail"`
	Image        string            `json:"image"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	Release      map[string]string `json:"release,omitempty"`
}

// ID returns the figure identifier (head + tail) or the name when those are absent.
func (a Amiibo) ID() string {
	if a.Head == "" && a.Tail == "" {
		return a.Name
	}
	return a.Head + a.Tail
}

// UnmarshalJSON requires the display fields; everything else is optional.
func (a *Amiibo) UnmarshalJSON(data []byte) error {
	type plain Amiibo
	var raw struct {
		plain
		Character *string `json:"character"`
		Name      *string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Name == nil {
		return missingField("name")
	}
	if raw.Character == nil {
		return missingField("character")
	}
	*a = Amiibo(raw.plain)
	a.Name = *raw.Name
	a.Character = *raw.Character
	return nil
}

// AmiiboListResponse is the body of the listing endpoint.
type AmiiboListResponse struct {
	Amiibo []Amiibo `json:"amiibo"`
}

// UnmarshalJSON rejects bodies without an amiibo array.
func (r *AmiiboListResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amiibo *[]Amiibo `json:"amiibo"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Amiibo == nil {
		return missingField("amiibo")
	}
	r.Amiibo = *raw.Amiibo
	return nil
}

// ErrMissingField is returned when a required key is absent from a payload.
var ErrMissingField = errors.New("missing required field")

func missingField(name string) error {
	return fmt.Errorf("%w %q", ErrMissingField, name)
}
