package wizard

import (
	"net/url"
	"testing"
)

func TestContactFromRedirect(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Contact
	}{
		{
			name:  "explicit first name and email",
			query: "invitee_first_name=Sarah&invitee_email=sarah@x.com",
			want:  Contact{FirstName: "Sarah", LastName: "", Email: "sarah@x.com"},
		},
		{
			name:  "full name fallback splits on whitespace",
			query: "invitee_full_name=Sarah%20Jane%20Doe",
			want:  Contact{FirstName: "Sarah", LastName: "Jane Doe"},
		},
		{
			name:  "single token full name leaves last name empty",
			query: "invitee_full_name=Sarah",
			want:  Contact{FirstName: "Sarah", LastName: ""},
		},
		{
			name:  "explicit split names win over full name",
			query: "invitee_first_name=Sarah&invitee_last_name=Doe&invitee_full_name=Other%20Person",
			want:  Contact{FirstName: "Sarah", LastName: "Doe"},
		},
		{
			name:  "alternate key spellings",
			query: "name=Sarah%20Doe&email=s@d.io",
			want:  Contact{FirstName: "Sarah", LastName: "Doe", Email: "s@d.io"},
		},
		{
			name:  "no parameters is the manual entry path",
			query: "",
			want:  Contact{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad query: %v", err)
			}
			if got := ContactFromRedirect(q); got != tt.want {
				t.Errorf("ContactFromRedirect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestServiceTypeFromRedirect(t *testing.T) {
	pack, _ := url.ParseQuery("type=pack")
	if got := ServiceTypeFromRedirect(pack); got != ServicePack {
		t.Errorf("type=pack should preselect the pack, got %s", got)
	}
	for _, raw := range []string{"", "type=single", "type=bogus"} {
		q, _ := url.ParseQuery(raw)
		if got := ServiceTypeFromRedirect(q); got != ServiceSingle {
			t.Errorf("query %q should default to single, got %s", raw, got)
		}
	}
}
