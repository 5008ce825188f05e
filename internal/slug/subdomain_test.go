package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSubdomainURL(t *testing.T) {
	assert.Equal(t, "https://joao-site-novo.nepfy.com", GenerateSubdomainURL("joao", "site-novo"))

	c := NewCodec("Example.org.")
	assert.Equal(t, "https://ana-x.example.org", c.GenerateURL("ana", "x"))
}

func TestParseSubdomain(t *testing.T) {
	t.Run("splits on the first hyphen only", func(t *testing.T) {
		id := ParseSubdomain("joao-site-novo.nepfy.com")
		require.NotNil(t, id)
		assert.Equal(t, "joao", id.UserName)
		assert.Equal(t, "site-novo", id.ProjectURL)
	})

	t.Run("ignores port and case", func(t *testing.T) {
		id := ParseSubdomain("JOAO-Landing.nepfy.com:443")
		require.NotNil(t, id)
		assert.Equal(t, Identity{UserName: "joao", ProjectURL: "landing"}, *id)
	})

	t.Run("reserved and malformed hosts", func(t *testing.T) {
		assert.Nil(t, ParseSubdomain("app.nepfy.com"))
		assert.Nil(t, ParseSubdomain("www.nepfy.com"))
		assert.Nil(t, ParseSubdomain("nepfy.com"))
		assert.Nil(t, ParseSubdomain("joao.nepfy.com"))
		assert.Nil(t, ParseSubdomain("-x.nepfy.com"))
		assert.Nil(t, ParseSubdomain("x-.nepfy.com"))
		assert.Nil(t, ParseSubdomain(""))
	})
}

func TestSubdomainRoundTrip(t *testing.T) {
	pairs := []Identity{
		{UserName: "joao", ProjectURL: "site"},
		{UserName: "ana2", ProjectURL: "proposta-comercial-2024"},
		{UserName: "studio", ProjectURL: "a-b-c-d"},
	}

	for _, p := range pairs {
		url := GenerateSubdomainURL(p.UserName, p.ProjectURL)
		host := strings.Split(strings.Split(url, "//")[1], ".")[0]
		got := ParseSubdomain(host)
		require.NotNil(t, got, url)
		assert.Equal(t, p, *got)
	}
}

func TestIsValidSubdomain(t *testing.T) {
	assert.True(t, IsValidSubdomain("joao-site.nepfy.com"))
	assert.False(t, IsValidSubdomain("app.nepfy.com"))
	assert.False(t, IsValidSubdomain("nepfy.com"))
}

func TestIsProjectHost(t *testing.T) {
	c := NewCodec("nepfy.com")

	tests := []struct {
		host string
		want bool
	}{
		{"joao-site.nepfy.com", true},
		{"Joao-Site.nepfy.com:443", true},
		{"joao-site.nepfy.com.", true},
		{"app.nepfy.com", false},
		{"www.nepfy.com", false},
		{"nepfy.com", false},
		{"joao.nepfy.com", false},
		{"joao-site.eu.nepfy.com", false},
		{"nepfy-api.fly.dev", false},
		{"api-staging.internal", false},
		{"joao-site.notnepfy.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.IsProjectHost(tt.host), tt.host)
	}

	// The package-level parser stays host-agnostic.
	assert.NotNil(t, ParseSubdomain("nepfy-api.fly.dev"))
}

func TestIsMainDomain(t *testing.T) {
	assert.True(t, IsMainDomain("nepfy.com"))
	assert.True(t, IsMainDomain("app.nepfy.com"))
	assert.True(t, IsMainDomain("www.nepfy.com:8080"))
	assert.False(t, IsMainDomain("joao-site.nepfy.com"))
}

func TestValidateUserName(t *testing.T) {
	assert.NoError(t, ValidateUserName("joao2024"))
	assert.Error(t, ValidateUserName("jo"))
	assert.Error(t, ValidateUserName("joao-silva"))
	assert.Error(t, ValidateUserName("Joao"))
}
