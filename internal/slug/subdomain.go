package slug

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// DefaultRootDomain is the domain public proposals are served under.
const DefaultRootDomain = "nepfy.com"

var reservedLabels = map[string]struct{}{
	"app": {},
	"www": {},
}

var userNamePattern = regexp.MustCompile(`^[a-z0-9]{3,30}$`)

// Identity is the {userName}-{projectUrl} pair encoded in a proposal host.
type Identity struct {
	UserName   string `json:"user_name"`
	ProjectURL string `json:"project_url"`
}

// Codec composes and decomposes proposal hosts for one root domain.
type Codec struct {
	RootDomain string
}

func NewCodec(rootDomain string) Codec {
	rootDomain = strings.ToLower(strings.Trim(strings.TrimSpace(rootDomain), "."))
	if rootDomain == "" {
		rootDomain = DefaultRootDomain
	}
	return Codec{RootDomain: rootDomain}
}

var defaultCodec = NewCodec(DefaultRootDomain)

// GenerateURL returns https://{userName}-{projectURL}.{root}. Inputs are
// expected to already be valid slugs; nothing is escaped.
func (c Codec) GenerateURL(userName, projectURL string) string {
	return fmt.Sprintf("https://%s-%s.%s", userName, projectURL, c.RootDomain)
}

// Parse extracts the identity from the first label of hostname. Reserved
// labels and hosts without a hyphen-separated pair yield nil.
func (c Codec) Parse(hostname string) *Identity {
	label := firstLabel(hostname)
	if label == "" {
		return nil
	}
	if _, reserved := reservedLabels[label]; reserved {
		return nil
	}

	userName, projectURL, found := strings.Cut(label, "-")
	if !found || userName == "" || projectURL == "" {
		return nil
	}
	return &Identity{UserName: userName, ProjectURL: projectURL}
}

// IsValidSubdomain reports whether hostname resolves to a project identity.
func (c Codec) IsValidSubdomain(hostname string) bool {
	return c.Parse(hostname) != nil
}

// IsProjectHost reports whether hostname is a single-label proposal
// subdomain directly under the root domain. Hosts of any other domain are
// never project hosts, even when their first label contains a hyphen.
func (c Codec) IsProjectHost(hostname string) bool {
	host := normalizeHost(hostname)
	label, ok := strings.CutSuffix(host, "."+c.RootDomain)
	if !ok || label == "" || strings.Contains(label, ".") {
		return false
	}
	return c.Parse(label) != nil
}

// IsMainDomain reports whether hostname belongs to the application itself.
func (c Codec) IsMainDomain(hostname string) bool {
	host := normalizeHost(hostname)
	if host == c.RootDomain {
		return true
	}
	_, reserved := reservedLabels[firstLabel(host)]
	return reserved
}

func GenerateSubdomainURL(userName, projectURL string) string {
	return defaultCodec.GenerateURL(userName, projectURL)
}

func ParseSubdomain(hostname string) *Identity {
	return defaultCodec.Parse(hostname)
}

func IsValidSubdomain(hostname string) bool {
	return defaultCodec.IsValidSubdomain(hostname)
}

func IsMainDomain(hostname string) bool {
	return defaultCodec.IsMainDomain(hostname)
}

// ValidateUserName enforces hyphen-free user names so that a subdomain
// always splits back into the same pair.
func ValidateUserName(name string) error {
	if !userNamePattern.MatchString(name) {
		return fmt.Errorf("user name must be 3-30 lowercase letters or digits, got %q", name)
	}
	return nil
}

func normalizeHost(hostname string) string {
	host := strings.ToLower(strings.TrimSpace(hostname))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}

func firstLabel(hostname string) string {
	host := normalizeHost(hostname)
	label, _, _ := strings.Cut(host, ".")
	return label
}
