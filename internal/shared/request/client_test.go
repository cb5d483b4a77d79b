package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientType(t *testing.T) {
	cases := []struct {
		name      string
		header    string
		userAgent string
		want      ClientType
	}{
		{"explicit web", "web", "okhttp/4.9", ClientWeb},
		{"explicit kiosk", " KIOSK ", "", ClientKiosk},
		{"browser", "", "Mozilla/5.0 (X11; Linux x86_64)", ClientWeb},
		{"android app", "", "okhttp/4.9.3", ClientMobile},
		{"unknown", "", "curl/8.0", ClientMobile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveClientType(tc.header, tc.userAgent))
		})
	}
	assert.True(t, IsWebClient(ClientWeb))
	assert.False(t, IsWebClient(ClientKiosk))
}
