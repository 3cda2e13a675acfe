package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestAmiiboListRoundTrip(t *testing.T) {
	const n = 25
	in := AmiiboListResponse{Amiibo: make([]Amiibo, n)}
	for i := range in.Amiibo {
		in.Amiibo[i] = Amiibo{
			Name:      fmt.Sprintf("Figure %d", i),
			Character: fmt.Sprintf("Character %d", i),
			Head:      fmt.Sprintf("%08x", i),
			Tail:      "00000002",
		}
	}

	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out AmiiboListResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Amiibo) != n {
		t.Fatalf("expected %d records, got %d", n, len(out.Amiibo))
	}
	for i := range out.Amiibo {
		if out.Amiibo[i].Name != in.Amiibo[i].Name || out.Amiibo[i].Character != in.Amiibo[i].Character {
			t.Fatalf("record %d mismatch: %+v", i, out.Amiibo[i])
		}
	}
}

func TestAmiiboDecodesUpstreamShape(t *testing.T) {
	raw := `{"amiibo":[{"amiiboSeries":"Super Smash Bros.","character":"Mario","gameSeries":"Super Mario",
		"head":"00000000","image":"https://example.com/m.png","name":"Mario",
		"release":{"au":"2014-11-29","eu":"2014-11-28","jp":"2014-12-06","na":null},
		"tail":"00000002","type":"Figure"}]}`

	var out AmiiboListResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	a := out.Amiibo[0]
	if a.ID() != "0000000000000002" || a.GameSeries != "Super Mario" || a.Release["eu"] != "2014-11-28" {
		t.Fatalf("unexpected record %+v", a)
	}
}

func TestDecodingRejectsMissingFields(t *testing.T) {
	cases := []struct {
		raw    string
		target any
	}{
		{raw: `{}`, target: &AmiiboListResponse{}},
		{raw: `{"amiibo":[{"name":"Mario"}]}`, target: &AmiiboListResponse{}},
		{raw: `{"amiibo":[{"character":"M"}]}`, target: &AmiiboListResponse{}},
		{raw: `{"access":"x"}`, target: &APIToken{}},
	}
	for _, tc := range cases {
		err := json.Unmarshal([]byte(tc.raw), tc.target)
		if !errors.Is(err, ErrMissingField) {
			t.Fatalf("%s: expected ErrMissingField, got %v", tc.raw, err)
		}
	}
}

func TestDecodingRejectsMistypedFields(t *testing.T) {
	for _, raw := range []string{
		`{"amiibo":{"name":"Mario"}}`,
		`{"amiibo":[{"name":1,"character":"Mario"}]}`,
	} {
		var out AmiiboListResponse
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			t.Fatalf("%s: expected error", raw)
		}
	}
	var tok APIToken
	if err := json.Unmarshal([]byte(`{"bearerAccessToken":42}`), &tok); err == nil {
		t.Fatalf("expected error for numeric token")
	}
}

func TestAPITokenDecodes(t *testing.T) {
	var tok APIToken
	if err := json.Unmarshal([]byte(`{"bearerAccessToken":"abc"}`), &tok); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tok.BearerAccessToken != "abc" {
		t.Fatalf("token = %q", tok.BearerAccessToken)
	}
}

func TestAmiiboIDFallsBackToName(t *testing.T) {
	if got := (Amiibo{Name: "Mario"}).ID(); got != "Mario" {
		t.Fatalf("ID = %q", got)
	}
}
