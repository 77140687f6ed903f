package providers

import (
	"testing"

	"coursehub/internal/providers/strapi"
)

func TestStrapiConnector(t *testing.T) {
	base := strapi.New("http://cms.local", 0, nil, nil)
	connect := StrapiConnector(base)

	authed, ok := connect("tok-1").(*strapi.Client)
	if !ok {
		t.Fatalf("Expected *strapi.Client, got %T", connect("tok-1"))
	}
	if authed.Token != "tok-1" {
		t.Errorf("Expected token 'tok-1', got '%s'", authed.Token)
	}
	if base.Token != "" {
		t.Errorf("Expected base client to stay anonymous, got token '%s'", base.Token)
	}

	public := connect("").(*strapi.Client)
	if public.Token != "" {
		t.Errorf("Expected public client, got token '%s'", public.Token)
	}
	if public.BaseURL != "http://cms.local" {
		t.Errorf("Expected BaseURL to carry over, got '%s'", public.BaseURL)
	}
}
