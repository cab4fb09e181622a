package wire

import "net/http"

// BasicAuthTransport injects HTTP Basic auth into every request before
// delegating to the wrapped RoundTripper (defaults to http.DefaultTransport).
type BasicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

func (t *BasicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return transport.RoundTrip(req)
}
