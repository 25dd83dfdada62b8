package wizard

import (
	"net/url"
	"strings"
)

// Query parameter names carried on the scheduling widget's redirect.
// Email and full name are each accepted under two key spellings.
const (
	paramFirstName = "invitee_first_name"
	paramLastName  = "invitee_last_name"
	paramEmail     = "invitee_email"
	paramEmailAlt  = "email"
	paramFullName  = "invitee_full_name"
	paramFullAlt   = "name"
	paramService   = "type"
)

// ContactFromRedirect projects the scheduling widget's redirect query
// parameters into an initial contact. Explicit first/last name
// parameters are preferred; when either is missing and a full name is
// present, the full name is split on whitespace with the first token as
// the first name and the remainder as the last name. Absent values come
// back as empty strings. An empty query is the valid manual-entry path.
func ContactFromRedirect(q url.Values) Contact {
	c := Contact{
		FirstName: q.Get(paramFirstName),
		LastName:  q.Get(paramLastName),
	}

	if c.FirstName == "" || c.LastName == "" {
		if full := strings.TrimSpace(firstOf(q, paramFullName, paramFullAlt)); full != "" {
			parts := strings.Fields(full)
			c.FirstName = parts[0]
			c.LastName = strings.Join(parts[1:], " ")
		}
	}

	c.Email = firstOf(q, paramEmail, paramEmailAlt)
	return c
}

// ServiceTypeFromRedirect reads the package preselection from the
// booking link. Anything other than "pack" means the default single
// session.
func ServiceTypeFromRedirect(q url.Values) ServiceType {
	if q.Get(paramService) == string(ServicePack) {
		return ServicePack
	}
	return ServiceSingle
}

func firstOf(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			return v
		}
	}
	return ""
}
